package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Billy-Davies-2/spirit11-ui/internal/backend"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
)

// ErrorBody mirrors the backend's failure shape
type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// WriteError maps err to a status code and writes it as an ErrorBody.
// Backend failures keep their status so the browser sees what the backend said.
func WriteError(w http.ResponseWriter, err error) {
	var fieldErrs FieldErrors
	var apiErr *backend.APIError

	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "Validation failed", Details: map[string][]string(fieldErrs)})
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, backend.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
	case errors.Is(err, ErrNotAdmin):
		writeError(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		writeError(w, status, apiErr.Message, apiErr.Details)
	default:
		logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	body := ErrorBody{Error: msg}
	if details != "" {
		body.Details = details
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
