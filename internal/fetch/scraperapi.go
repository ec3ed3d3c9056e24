package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ScraperAPI is the secondary provider: a rendering proxy that executes
// JavaScript and returns the raw HTML. The page is pre-checked directly
// first, so a dead target doesn't burn a proxy credit.
type ScraperAPI struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewScraperAPI(baseURL, apiKey string, timeout time.Duration) *ScraperAPI {
	return &ScraperAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: timeout},
	}
}

func (s *ScraperAPI) Name() string { return "scraperapi" }

func (s *ScraperAPI) Fetch(ctx context.Context, target string) (*Result, error) {
	if err := s.precheck(ctx, target); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("api_key", s.apiKey)
	q.Set("url", target)
	q.Set("render", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/?"+q.Encode(), nil)
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

func (s *ScraperAPI) precheck(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errf(s.Name(), KindUnknown, "build precheck: %v", err)
	}

	res, err := s.hc.Do(req)
	if err != nil {
		// The page may only be reachable through the proxy; let the real
		// fetch decide.
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
