package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobboard-engine/internal/domain"
)

// APIHub bypasses generic fetching for the professional-network job search:
// it queries the platform's search API (filtered by company) through the
// gateway and returns structured postings directly, no extraction pass
// needed.
type APIHub struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewAPIHub(baseURL, apiKey string, timeout time.Duration) *APIHub {
	return &APIHub{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: timeout},
	}
}

type apihubJob struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	ReferenceID string `json:"reference_id"`
	Company     struct {
		Name string `json:"name"`
		Logo string `json:"logo"`
		URL  string `json:"url"`
	} `json:"company"`
	Location string `json:"location"`
	Type     string `json:"type"`
	PostDate string `json:"post_date"`
	Benefits string `json:"benefits"`
}

// SearchCompany returns the platform's postings for one company id.
func (a *APIHub) SearchCompany(ctx context.Context, companyID string) ([]domain.Job, error) {
	const name = "apihub"

	q := url.Values{}
	q.Set("company_ids", companyID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/v2/jobs/search?"+q.Encode(), nil)
	if err != nil {
		return nil, errf(name, KindUnknown, "build request: %v", err)
	}
	req.Header.Set("x-api-key", a.apiKey)

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, errf(name, KindUpstream, "get: %v", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, errf(name, KindNotFound, "no jobs found for company %s", companyID)
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, errf(name, KindRateLimited, "rate limit exceeded")
	case res.StatusCode >= 400:
		return nil, errf(name, KindUpstream, "status %d", res.StatusCode)
	}

	var payload struct {
		Data []apihubJob `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, errf(name, KindUpstream, "decode: %v", err)
	}

	out := make([]domain.Job, 0, len(payload.Data))
	for _, pj := range payload.Data {
		if strings.TrimSpace(pj.Title) == "" {
			continue
		}
		j := domain.Job{
			Title:   strings.TrimSpace(pj.Title),
			Company: pj.Company.Name,
		}
		if pj.Location != "" {
			loc := pj.Location
			j.Location = &loc
		}
		if pj.Type != "" {
			typ := pj.Type
			j.Type = &typ
		}
		if pj.URL != "" {
			u := pj.URL
			j.URL = &u
		}
		out = append(out, j)
	}
	return out, nil
}
