package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"jobboard-engine/internal/secrets"
)

type secretRequest struct {
	Key string `json:"key"`
}

// handleSecrets stores or removes a vendor API key in the OS keychain. Keys
// are never echoed back.
func (d *Deps) handleSecrets(w http.ResponseWriter, r *http.Request) {
	provider := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/secrets/"), "/")
	if provider == "" || strings.Contains(provider, "/") {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such route")
		return
	}
	if !secrets.KnownProvider(provider) {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "unknown provider "+provider)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req secretRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Key) == "" {
			WriteError(w, r, http.StatusBadRequest, "bad_request", "key is required")
			return
		}
		if err := secrets.SetAPIKey(provider, req.Key); err != nil {
			WriteError(w, r, http.StatusInternalServerError, "keychain_error", err.Error())
			return
		}
		writeJSON(w, map[string]any{"success": true, "provider": provider})
	case http.MethodDelete:
		if err := secrets.DeleteAPIKey(provider); err != nil {
			WriteError(w, r, http.StatusInternalServerError, "keychain_error", err.Error())
			return
		}
		writeJSON(w, map[string]any{"success": true, "provider": provider})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
