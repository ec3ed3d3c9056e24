package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobboard-engine/internal/fetch"
	"jobboard-engine/internal/store"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// WriteDomainError maps pipeline/store/fetch failures onto the error
// envelope per the taxonomy: NotFound 404, RateLimited 429, BotProtection
// 503, upstream trouble 502, everything else 500.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, "not_found", "company not found")
		return
	}

	switch fetch.KindOf(err) {
	case fetch.KindNotFound:
		WriteError(w, r, http.StatusNotFound, "not_found", err.Error())
	case fetch.KindRateLimited:
		WriteError(w, r, http.StatusTooManyRequests, "rate_limited", err.Error())
	case fetch.KindBotProtection:
		WriteError(w, r, http.StatusServiceUnavailable, "bot_protection", err.Error())
	case fetch.KindUpstream:
		WriteError(w, r, http.StatusBadGateway, "upstream_error", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
