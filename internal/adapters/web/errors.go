package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"ledger-insight/internal/app"
	"ledger-insight/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps domain sentinels to HTTP statuses. Anything
// unmapped is a 500 with a generic message so store internals never leak.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrCompanyNotFound):
		writeError(w, r, "company not found", "COMPANY_NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrAccountNotFound):
		writeError(w, r, "account not found", "ACCOUNT_NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrInvalidDateRange):
		writeError(w, r, err.Error(), "INVALID_DATE_RANGE", http.StatusBadRequest)
	case errors.Is(err, app.ErrAssistantUnavailable):
		writeError(w, r, "data assistant not configured", "ASSISTANT_UNAVAILABLE", http.StatusServiceUnavailable)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// decodeJSON decodes the request body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
