package telemetry

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Middleware records every request served by a chi router
func (t *HTTPTelemetry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		endpoint := EndpointTemplate(r.URL.Path)
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}

		t.Record(r.Context(), RequestMetrics{
			Method:     r.Method,
			Endpoint:   endpoint,
			StatusCode: wrapper.statusCode,
			Duration:   time.Since(start),
			ErrorClass: ErrorClass(wrapper.statusCode),
		})
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
