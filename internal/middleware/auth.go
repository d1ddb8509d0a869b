package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"marketplace-client/internal/authz"
	"marketplace-client/internal/models"
)

// ShellTokenHeader carries the shell's local access token
const ShellTokenHeader = "X-Shell-Token"

// ShellToken guards the shell with a shared token. An empty token disables the check.
func ShellToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(ShellTokenHeader)
			if provided == "" {
				slog.Warn("Shell request rejected: missing token", "remote_addr", r.RemoteAddr)
				writeErrorResponse(w, r, http.StatusUnauthorized, "shell token required")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				slog.Warn("Shell request rejected: invalid token", "remote_addr", r.RemoteAddr)
				writeErrorResponse(w, r, http.StatusUnauthorized, "invalid shell token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests while nobody is signed in to the client
func RequireSession(subject authz.Subject) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !subject.IsAuthenticated() {
				slog.Debug("Action requires a session", "path", r.URL.Path)
				writeErrorResponse(w, r, http.StatusUnauthorized, "Debes iniciar sesión")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{
		Message: message,
		Status:  statusCode,
		Path:    r.URL.Path,
	})
}
