package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// extractProperties is the structured-extraction schema ScrapingAnt applies
// server-side; the response is JSON shaped by this property list.
const extractProperties = "jobPostings(title, description, href, company, location, salary, type, experience, tags, sourceUrl, postedDate)"

// ScrapingAnt is a rendering proxy whose extract endpoint returns structured
// job postings instead of raw HTML. Same precheck as ScraperAPI: a dead
// target shouldn't burn proxy credits.
type ScrapingAnt struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewScrapingAnt(baseURL, apiKey string, timeout time.Duration) *ScrapingAnt {
	return &ScrapingAnt{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: timeout},
	}
}

func (s *ScrapingAnt) Name() string { return "scrapingant" }

func (s *ScrapingAnt) Fetch(ctx context.Context, target string) (*Result, error) {
	if err := s.precheck(ctx, target); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("url", target)
	q.Set("x-api-key", s.apiKey)
	q.Set("extract_properties", extractProperties)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v2/extract?"+q.Encode(), nil)
	if err != nil {
		return nil, errf(s.Name(), KindUnknown, "build request: %v", err)
	}

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, errf(s.Name(), KindUpstream, "get: %v", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, errf(s.Name(), KindRateLimited, "throttled fetching %s", target)
	case res.StatusCode >= 400:
		return nil, errf(s.Name(), KindUpstream, "status %d", res.StatusCode)
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errf(s.Name(), KindUpstream, "read body: %v", err)
	}

	return &Result{
		URL:      target,
		Content:  string(b),
		Provider: s.Name(),
	}, nil
}

func (s *ScrapingAnt) precheck(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errf(s.Name(), KindUnknown, "build precheck: %v", err)
	}

	res, err := s.hc.Do(req)
	if err != nil {
		return nil
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return errf(s.Name(), KindNotFound, "page returned 404, most likely it does not exist anymore")
	case res.StatusCode >= 500:
		return errf(s.Name(), KindUpstream, "page returned %d", res.StatusCode)
	}
	return nil
}
