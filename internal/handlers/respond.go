// Package handlers serves the shell's views and actions over the app container.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"marketplace-client/internal/authz"
	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
	"marketplace-client/internal/session"
	"marketplace-client/internal/stores"
)

// writeJSONResponse is a helper function to write JSON responses
func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

// writeErrorResponse is a helper function to write error responses
func writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	writeJSONResponse(w, statusCode, models.ErrorResponse{
		Message: message,
		Status:  statusCode,
		Path:    r.URL.Path,
	})
}

// writeActionError maps a store or session error to a shell status
func writeActionError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, stores.ErrPreflight), errors.Is(err, gateway.ErrInvalidRequest):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, authz.ErrNotAuthenticated), errors.Is(err, session.ErrInvalidCredentials),
		errors.Is(err, gateway.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, authz.ErrForbidden), errors.Is(err, gateway.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, gateway.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, gateway.ErrRejected):
		status = http.StatusBadRequest
	}
	msg := gateway.Message(err)
	if msg == "" {
		msg = err.Error()
	}
	writeErrorResponse(w, r, status, msg)
}
