package handlers

import (
	"log/slog"
	"net/http"

	"marketplace-client/internal/app"
	"marketplace-client/internal/models"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	app         *app.App
	serviceName string
	version     string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(a *app.App, serviceName, version string) *HealthHandler {
	return &HealthHandler{app: a, serviceName: serviceName, version: version}
}

// HealthCheck handles GET /health. The shell is healthy as long as it serves;
// the backend is never probed.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Health check requested", "remote_addr", r.RemoteAddr)
	writeJSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:        "healthy",
		Service:       h.serviceName,
		Version:       h.version,
		Authenticated: h.app.Session.IsAuthenticated(),
		Location:      h.app.Navigator.Location().Path,
	})
}
