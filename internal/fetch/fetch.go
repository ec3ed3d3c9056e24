// Package fetch retrieves renderable text for a job-listing URL through the
// external scraping providers. Every invocation is a live fetch; there is no
// caching layer.
package fetch

import (
	"context"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Result is the raw content a provider returned for one URL.
type Result struct {
	URL      string `json:"url"`
	FinalURL string `json:"finalUrl,omitempty"` // after redirects
	Content  string `json:"sourceCode"`         // markdown (primary) or HTML (fallback)
	Provider string `json:"provider"`
}

// Provider fetches one URL and classifies its own failures.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, url string) (*Result, error)
}

// Sourcer runs the primary provider and, on a bot-protection failure
// specifically, retries through the rendering fallback. The fallback returns
// uncleaned HTML, so its content is scoped to the configured job-list
// container selector.
type Sourcer struct {
	Primary  Provider
	Fallback Provider
	Selector string
}

func (s *Sourcer) Source(ctx context.Context, url string) (*Result, error) {
	res, err := s.Primary.Fetch(ctx, url)
	if err == nil {
		return res, nil
	}
	if KindOf(err) != KindBotProtection || s.Fallback == nil {
		return nil, err
	}

	log.Printf("[fetch] primary=%s blocked url=%q, retrying via %s", s.Primary.Name(), url, s.Fallback.Name())

	res, ferr := s.Fallback.Fetch(ctx, url)
	if ferr != nil {
		return nil, ferr
	}
	if s.Selector != "" {
		frag, serr := ExtractFragment(res.Content, s.Selector)
		if serr != nil {
			return nil, serr
		}
		res.Content = frag
	}
	return res, nil
}

// ExtractFragment returns the joined inner HTML of every node matching the
// selector.
func ExtractFragment(html, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", errf("fragment", KindUnknown, "parse html: %v", err)
	}

	var parts []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if h, err := sel.Html(); err == nil {
			parts = append(parts, h)
		}
	})
	if len(parts) == 0 {
		return "", errf("fragment", KindUnknown, "no content matched selector %q", selector)
	}
	return strings.Join(parts, "\n"), nil
}
