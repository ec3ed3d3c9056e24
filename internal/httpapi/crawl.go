package httpapi

import (
	"encoding/json"
	"net/http"
)

// handleCrawl runs the whole fetch → extract → merge → save sequence for one
// listing URL, synchronously within the request.
func (d *Deps) handleCrawl(w http.ResponseWriter, r *http.Request) {
	var req crawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.CompanyID == "" || req.URL == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "companyId and url are required")
		return
	}

	res, err := d.Pipeline.Crawl(r.Context(), req.CompanyID, req.URL)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	writeJSON(w, res)
}
