// Package shell serves the client's guarded views and actions on a local
// HTTP port.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"marketplace-client/internal/app"
	"marketplace-client/internal/handlers"
	shellmw "marketplace-client/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

// Server is the shell HTTP server
type Server struct {
	app     *app.App
	handler http.Handler
	logger  *slog.Logger
}

// New builds the router. version is reported by /health.
func New(a *app.App, version string) *Server {
	s := &Server{app: a, logger: a.Logger.With("component", "shell")}

	healthHandler := handlers.NewHealthHandler(a, a.Config.ServiceName, version)
	viewHandler := handlers.NewViewHandler(a)
	actionHandler := handlers.NewActionHandler(a)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.ShellMetrics.Middleware)

	r.Get("/health", healthHandler.HealthCheck)
	r.Handle("/metrics", a.Telemetry.Handler())

	r.Group(func(r chi.Router) {
		r.Use(shellmw.ShellToken(a.Config.Shell.Token))

		r.Get(handlers.ViewPrefix, viewHandler.Render)
		r.Get(handlers.ViewPrefix+"/*", viewHandler.Render)

		r.Route("/actions", func(r chi.Router) {
			r.With(shellmw.RateLimit(shellmw.NewRateLimiter(a.Config.Shell.LoginAttempts, time.Minute))).
				Post("/login", actionHandler.Login)
			r.Post("/logout", actionHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(shellmw.RequireSession(a.Session))
				r.Post("/cart/items", actionHandler.AddToCart)
				r.Delete("/cart", actionHandler.ClearCart)
				r.Post("/moderation/{id}/{decision}", actionHandler.Decide)
			})
		})
	})

	s.handler = r
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on addr until ctx is cancelled, running the refresh jobs meanwhile
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.app.Refresh.Start()
	defer s.app.Refresh.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Shell ready to accept connections", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("shell server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down shell...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shell shutdown: %w", err)
	}
	s.logger.Info("Shell stopped")
	return nil
}
