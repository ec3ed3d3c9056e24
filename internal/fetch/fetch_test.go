package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestJinaClassifiesFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"cloudflare challenge", 200, "Checking the site connection security", KindBotProtection},
		{"cloudflare mention", 200, "Attention Required! | Cloudflare", KindBotProtection},
		{"not found status", 404, "nothing here", KindNotFound},
		{"not found body", 200, "404 error - page gone", KindNotFound},
		{"throttled status", 429, "slow down", KindRateLimited},
		{"throttled body", 200, "HTTP ERROR 429", KindRateLimited},
		{"server error", 502, "bad gateway", KindUpstream},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			j := NewJina(srv.URL, "test-key", 5*time.Second)
			_, err := j.Fetch(context.Background(), "https://example.com/careers")
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := KindOf(err); got != tc.want {
				t.Fatalf("kind = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestJinaSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", got)
		}
		if got := r.Header.Get("X-Return-Format"); got != "markdown" {
			t.Errorf("missing markdown directive, got %q", got)
		}
		fmt.Fprint(w, "# Careers\n\nSenior Engineer — Remote")
	}))
	defer srv.Close()

	j := NewJina(srv.URL, "test-key", 5*time.Second)
	res, err := j.Fetch(context.Background(), "https://example.com/careers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Content, "Senior Engineer") {
		t.Fatalf("unexpected content: %q", res.Content)
	}
	if res.Provider != "jina" {
		t.Fatalf("unexpected provider: %q", res.Provider)
	}
}

func TestScraperAPIPrecheck(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer target.Close()

	s := NewScraperAPI("http://127.0.0.1:0", "k", 5*time.Second)
	_, err := s.Fetch(context.Background(), target.URL)
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected NotFound from precheck, got %v", err)
	}
}

func TestScraperAPIFetch(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer target.Close()

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "k" {
			t.Errorf("api key not forwarded")
		}
		if r.URL.Query().Get("url") != target.URL {
			t.Errorf("target url not forwarded: %q", r.URL.Query().Get("url"))
		}
		fmt.Fprint(w, `<html><div class="toc-section"><a href="/jobs/1">Engineer</a></div></html>`)
	}))
	defer proxy.Close()

	s := NewScraperAPI(proxy.URL, "k", 5*time.Second)
	res, err := s.Fetch(context.Background(), target.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Content, "Engineer") {
		t.Fatalf("unexpected content: %q", res.Content)
	}
}

func TestExtractFragment(t *testing.T) {
	html := `<html><body>
		<nav>junk</nav>
		<div class="toc-section"><h2>Engineering</h2></div>
		<div class="toc-section"><h2>Design</h2></div>
	</body></html>`

	frag, err := ExtractFragment(html, ".toc-section")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(frag, "Engineering") || !strings.Contains(frag, "Design") {
		t.Fatalf("fragments missing: %q", frag)
	}
	if strings.Contains(frag, "junk") {
		t.Fatalf("navigation chrome leaked into fragment")
	}

	if _, err := ExtractFragment(html, ".does-not-exist"); err == nil {
		t.Fatalf("expected error for selector with no matches")
	}
}

type stubProvider struct {
	name string
	res  *Result
	err  error
}

func (s stubProvider) Name() string { return s.name }
func (s stubProvider) Fetch(ctx context.Context, url string) (*Result, error) {
	return s.res, s.err
}

func TestSourcerFallsBackOnBotProtectionOnly(t *testing.T) {
	blocked := stubProvider{name: "primary", err: errf("primary", KindBotProtection, "challenge")}
	rendered := stubProvider{name: "fallback", res: &Result{
		Content:  `<div class="jobs"><a>Engineer</a></div>`,
		Provider: "fallback",
	}}

	s := &Sourcer{Primary: blocked, Fallback: rendered, Selector: ".jobs"}
	res, err := s.Source(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Content, "Engineer") {
		t.Fatalf("fallback content not scoped: %q", res.Content)
	}

	// A 404 must not trigger the fallback.
	gone := stubProvider{name: "primary", err: errf("primary", KindNotFound, "gone")}
	s = &Sourcer{Primary: gone, Fallback: rendered}
	if _, err := s.Source(context.Background(), "https://example.com"); KindOf(err) != KindNotFound {
		t.Fatalf("NotFound should surface, got %v", err)
	}
}

func TestAPIHubSearchCompany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "k" {
			t.Errorf("missing api key header")
		}
		if r.URL.Query().Get("company_ids") != "1337" {
			t.Errorf("missing company filter: %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"data":[
			{"id":"1","title":"Staff Engineer","url":"https://li.example/jobs/1","company":{"name":"Acme"},"location":"Remote","type":"Full-time"},
			{"id":"2","title":"  ","url":"https://li.example/jobs/2","company":{"name":"Acme"}}
		]}`)
	}))
	defer srv.Close()

	a := NewAPIHub(srv.URL, "k", 5*time.Second)
	jobs, err := a.SearchCompany(context.Background(), "1337")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job (blank title dropped), got %d", len(jobs))
	}
	if jobs[0].Title != "Staff Engineer" || jobs[0].Company != "Acme" {
		t.Fatalf("unexpected job: %+v", jobs[0])
	}
	if jobs[0].Type == nil || *jobs[0].Type != "Full-time" {
		t.Fatalf("type not mapped")
	}
}

func TestAPIHubErrors(t *testing.T) {
	for _, tc := range []struct {
		status int
		want   Kind
	}{
		{404, KindNotFound},
		{429, KindRateLimited},
		{500, KindUpstream},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		a := NewAPIHub(srv.URL, "k", 5*time.Second)
		_, err := a.SearchCompany(context.Background(), "1")
		srv.Close()
		if KindOf(err) != tc.want {
			t.Fatalf("status %d: kind = %v, want %v", tc.status, KindOf(err), tc.want)
		}
	}
}

func TestScrapingAntPrecheck(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer target.Close()

	s := NewScrapingAnt("http://127.0.0.1:0", "k", 5*time.Second)
	_, err := s.Fetch(context.Background(), target.URL)
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected NotFound from precheck, got %v", err)
	}
}

func TestScrapingAntFetch(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer target.Close()

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/extract" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("x-api-key") != "k" {
			t.Errorf("api key not forwarded")
		}
		if r.URL.Query().Get("url") != target.URL {
			t.Errorf("target url not forwarded: %q", r.URL.Query().Get("url"))
		}
		if !strings.Contains(r.URL.Query().Get("extract_properties"), "jobPostings") {
			t.Errorf("extraction schema missing: %q", r.URL.Query().Get("extract_properties"))
		}
		fmt.Fprint(w, `{"jobPostings":[{"title":"Engineer","company":"Acme"}]}`)
	}))
	defer proxy.Close()

	s := NewScrapingAnt(proxy.URL, "k", 5*time.Second)
	res, err := s.Fetch(context.Background(), target.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Provider != "scrapingant" {
		t.Fatalf("provider = %q", res.Provider)
	}
	if !strings.Contains(res.Content, "Engineer") {
		t.Fatalf("unexpected content: %q", res.Content)
	}
}

func TestScrapingAntThrottled(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer target.Close()

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer proxy.Close()

	s := NewScrapingAnt(proxy.URL, "k", 5*time.Second)
	_, err := s.Fetch(context.Background(), target.URL)
	if KindOf(err) != KindRateLimited {
		t.Fatalf("expected RateLimited, got %v", err)
	}
}
