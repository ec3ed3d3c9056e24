package httpapi

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"jobboard-engine/internal/extract"
)

type extractRequest struct {
	Sources []extract.Source `json:"sources"`
}

type extractResponse struct {
	Results []extract.SourceResult `json:"results"`
}

// handleExtract runs LLM extraction over caller-supplied page sources.
// Rate-limited per client IP so a runaway dashboard can't drain the
// completion quota.
func (d *Deps) handleExtract(w http.ResponseWriter, r *http.Request) {
	if d.Limiter != nil && !d.Limiter.Allow(clientIP(r)) {
		WriteError(w, r, http.StatusTooManyRequests, "rate_limited",
			"too many extraction requests, retry in a minute")
		return
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if len(req.Sources) == 0 {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "sources must not be empty")
		return
	}
	if max := d.MaxSources; max > 0 && len(req.Sources) > max {
		WriteError(w, r, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("at most %d sources per request", max))
		return
	}
	for i, s := range req.Sources {
		if strings.TrimSpace(s.SourceCode) == "" {
			WriteError(w, r, http.StatusBadRequest, "bad_request",
				fmt.Sprintf("sources[%d].sourceCode must not be empty", i))
			return
		}
	}

	results := d.Extractor.ExtractBatch(r.Context(), req.Sources)
	writeJSON(w, extractResponse{Results: results})
}

// clientIP keys the limiter. X-Forwarded-For is only honored when the direct
// peer is loopback (the dashboard dev proxy); any other peer could spoof the
// header to dodge its own bucket.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return host
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	return host
}
