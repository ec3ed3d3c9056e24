package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"jobboard-engine/internal/domain"
)

// handleBoard flattens every company's jobs into one list, companies ordered
// by how recently their jobs were refreshed. Companies never crawled sort
// last.
func (d *Deps) handleBoard(w http.ResponseWriter, r *http.Request) {
	companies, err := d.Store.ListCompanies(r.Context())
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}

	sort.SliceStable(companies, func(i, j int) bool {
		a, b := companies[i].JobsUpdated, companies[j].JobsUpdated
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	board := make([]BoardJob, 0)
	for _, co := range companies {
		for _, j := range co.Jobs {
			board = append(board, BoardJob{
				Job:         j,
				CompanyName: co.Name,
				CompanySlug: co.Slug,
				CompanyLogo: co.LogoURL,
			})
		}
	}
	writeJSON(w, board)
}

// handleAddJobToBody is the body-addressed add form: the company slug rides
// in the payload instead of the path.
func (d *Deps) handleAddJobToBody(w http.ResponseWriter, r *http.Request) {
	var req addJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.CompanyID == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "companyId is required")
		return
	}
	d.addJob(w, r, req.CompanyID, req)
}

func (d *Deps) addJob(w http.ResponseWriter, r *http.Request, companySlug string, req addJobRequest) {
	if strings.TrimSpace(req.Job.Title) == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "job.title is required")
		return
	}

	var at time.Time
	if req.DateUpdated != "" {
		t, err := time.Parse(time.RFC3339, req.DateUpdated)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_request", "dateUpdated must be RFC 3339")
			return
		}
		at = t
	}

	res, err := d.Pipeline.AddJob(r.Context(), RequestIDFrom(r.Context()), companySlug, req.Job, at)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	writeJSON(w, mergeResponse{Success: true, JobsCount: res.JobsCount, JobAdded: res.JobAdded})
}

// handleCompanySubtree routes everything under /api/companies/{slug}. The
// exact-match board route shadows the literal segment "jobs" at the mux.
func (d *Deps) handleCompanySubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/companies/"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		methodMux(map[string]http.HandlerFunc{
			http.MethodGet: func(w http.ResponseWriter, r *http.Request) {
				d.getCompany(w, r, parts[0])
			},
		})(w, r)
	case len(parts) == 2 && parts[1] == "jobs":
		methodMux(map[string]http.HandlerFunc{
			http.MethodPost: func(w http.ResponseWriter, r *http.Request) {
				var req addJobRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
					return
				}
				d.addJob(w, r, parts[0], req)
			},
			http.MethodDelete: func(w http.ResponseWriter, r *http.Request) {
				d.deleteJob(w, r, parts[0])
			},
		})(w, r)
	case len(parts) == 3 && parts[1] == "jobs":
		methodMux(map[string]http.HandlerFunc{
			http.MethodGet: func(w http.ResponseWriter, r *http.Request) {
				d.getJob(w, r, parts[0], parts[2])
			},
		})(w, r)
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "no such route")
	}
}

func (d *Deps) getCompany(w http.ResponseWriter, r *http.Request, slug string) {
	co, err := d.Store.GetCompanyBySlug(r.Context(), slug)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	writeJSON(w, co)
}

func (d *Deps) deleteJob(w http.ResponseWriter, r *http.Request, slug string) {
	var req deleteJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.JobTitle) == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "jobTitle is required")
		return
	}

	count, removed, err := d.Pipeline.DeleteJob(r.Context(), RequestIDFrom(r.Context()), slug, req.JobTitle)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	writeJSON(w, deleteResponse{Success: true, JobsCount: count, JobRemoved: removed})
}

func (d *Deps) getJob(w http.ResponseWriter, r *http.Request, companySlug, jobSlug string) {
	co, err := d.Store.GetCompanyBySlug(r.Context(), companySlug)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	job, ok := domain.FindBySlug(co.Jobs, jobSlug)
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "job not found")
		return
	}
	writeJSON(w, BoardJob{
		Job:         job,
		CompanyName: co.Name,
		CompanySlug: co.Slug,
		CompanyLogo: co.LogoURL,
	})
}
