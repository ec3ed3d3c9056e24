package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Jina is the primary provider: a markdown-extraction proxy that strips
// navigation and boilerplate server-side. It cannot get past bot-protection
// challenges, so it sniffs the response body for the known challenge
// signatures and reports them as a distinct failure kind.
type Jina struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewJina(baseURL, apiKey string, timeout time.Duration) *Jina {
	return &Jina{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: timeout},
	}
}

func (j *Jina) Name() string { return "jina" }

func (j *Jina) Fetch(ctx context.Context, target string) (*Result, error) {
	reqURL := j.baseURL + "/" + url.QueryEscape(target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errf(j.Name(), KindUnknown, "build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+j.apiKey)
	req.Header.Set("X-Return-Format", "markdown")
	req.Header.Set("X-With-Iframe", "true")

	res, err := j.hc.Do(req)
	if err != nil {
		return nil, errf(j.Name(), KindUpstream, "get: %v", err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errf(j.Name(), KindUpstream, "read body: %v", err)
	}
	body := string(b)

	switch {
	case strings.Contains(body, "Checking the site connection security"),
		strings.Contains(body, "Cloudflare"):
		return nil, errf(j.Name(), KindBotProtection, "challenge page for %s", target)
	case res.StatusCode == http.StatusNotFound, strings.Contains(body, "404 error"):
		return nil, errf(j.Name(), KindNotFound, "page not found or empty: %s", target)
	case res.StatusCode == http.StatusTooManyRequests, strings.Contains(body, "HTTP ERROR 429"):
		return nil, errf(j.Name(), KindRateLimited, "throttled fetching %s", target)
	case res.StatusCode >= 400:
		return nil, errf(j.Name(), KindUpstream, "status %d", res.StatusCode)
	}

	return &Result{
		URL:      target,
		FinalURL: res.Request.URL.String(),
		Content:  body,
		Provider: j.Name(),
	}, nil
}
