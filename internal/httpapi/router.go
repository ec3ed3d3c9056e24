package httpapi

import "net/http"

// NewMux wires every route onto a ServeMux. Exact patterns win over the
// "/api/companies/" subtree, so the board route stays reachable even though
// "jobs" would otherwise parse as a company slug.
func NewMux(d *Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", d.handleHealth)
	mux.HandleFunc("/events", d.handleEvents)
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleConfigGet,
		http.MethodPut: d.handleConfigPut,
	}))

	mux.HandleFunc("/api/companies/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  d.handleBoard,
		http.MethodPost: d.handleAddJobToBody,
	}))
	mux.HandleFunc("/api/companies/", d.handleCompanySubtree)

	mux.HandleFunc("/api/extract-jobs-mistral", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: d.handleExtract,
	}))

	mux.HandleFunc("/api/scrape/scrape-jina", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleScrapeJina,
	}))
	mux.HandleFunc("/api/scrape/scraperapi", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleScrapeRender,
	}))
	mux.HandleFunc("/api/scrape/scraping-ant", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleScrapeAnt,
	}))
	mux.HandleFunc("/api/scrape/apihub", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: d.handleScrapeLinkedIn,
	}))

	mux.HandleFunc("/api/crawl", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: d.handleCrawl,
	}))

	mux.HandleFunc("/api/secrets/", d.handleSecrets)

	return mux
}
