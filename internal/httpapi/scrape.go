package httpapi

import (
	"net/http"

	"jobboard-engine/internal/fetch"
)

// The scrape routes are thin proxies over the fetch providers, so the
// dashboard can preview a page's rendered text before committing to a crawl.

func (d *Deps) handleScrapeJina(w http.ResponseWriter, r *http.Request) {
	d.scrapeWith(w, r, d.Jina)
}

func (d *Deps) handleScrapeRender(w http.ResponseWriter, r *http.Request) {
	d.scrapeWith(w, r, d.Scraper)
}

func (d *Deps) handleScrapeAnt(w http.ResponseWriter, r *http.Request) {
	d.scrapeWith(w, r, d.Ant)
}

func (d *Deps) scrapeWith(w http.ResponseWriter, r *http.Request, p fetch.Provider) {
	target := r.URL.Query().Get("url")
	if target == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "url query parameter is required")
		return
	}
	res, err := p.Fetch(r.Context(), target)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (d *Deps) handleScrapeLinkedIn(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")
	if companyID == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "companyId query parameter is required")
		return
	}
	jobs, err := d.LinkedIn.SearchCompany(r.Context(), companyID)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"jobs": jobs, "count": len(jobs)})
}
