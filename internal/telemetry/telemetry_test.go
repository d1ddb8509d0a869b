package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-client/internal/config"
)

func TestEndpointTemplate(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/carrito", "/carrito"},
		{"/carrito/items/42", "/carrito/items/{id}"},
		{"/productos/3f1c9a52-8c8e-4f43-9d0a-0b6f6b7b8f11", "/productos/{id}"},
		{"/moderador/solicitudes/estado/PENDIENTE", "/moderador/solicitudes/estado/PENDIENTE"},
		{"/pedidos/7/estado?x=1", "/pedidos/{id}/estado"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EndpointTemplate(tt.path), tt.path)
	}
}

func TestErrorClass(t *testing.T) {
	assert.Equal(t, "", ErrorClass(http.StatusOK))
	assert.Equal(t, "unauthorized", ErrorClass(http.StatusUnauthorized))
	assert.Equal(t, "forbidden", ErrorClass(http.StatusForbidden))
	assert.Equal(t, "bad_request", ErrorClass(http.StatusUnprocessableEntity))
	assert.Equal(t, "internal_error", ErrorClass(http.StatusBadGateway))
}

func TestPrometheusExporterServesRecordedMetrics(t *testing.T) {
	ctx := context.Background()
	tel, err := InitMetrics(ctx, config.TelemetryConfig{Exporter: "prometheus"}, "marketplace-client-test")
	require.NoError(t, err)
	defer tel.Shutdown(ctx)

	shell, err := NewHTTPTelemetry(tel.Meter(), "marketplace_shell")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(shell.Middleware)
	r.Get("/view/productos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/view/productos/12", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	scrape := httptest.NewRecorder()
	tel.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(scrape.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "marketplace_shell_requests_total")
	assert.Contains(t, string(body), "marketplace_shell_errors_total")
	assert.Contains(t, string(body), `endpoint="/view/productos/{id}"`)
}

func TestNilTelemetryRecordIsNoop(t *testing.T) {
	var tel *HTTPTelemetry
	assert.NotPanics(t, func() {
		tel.Record(context.Background(), RequestMetrics{Method: "GET", Endpoint: "/"})
	})
}
