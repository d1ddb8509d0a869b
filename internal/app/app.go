// Package app wires the client together. Exactly one session, gateway and
// navigator exist per App and every consumer receives them from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"marketplace-client/internal/authz"
	"marketplace-client/internal/config"
	"marketplace-client/internal/gateway"
	"marketplace-client/internal/notify"
	"marketplace-client/internal/refresh"
	"marketplace-client/internal/router"
	"marketplace-client/internal/services"
	"marketplace-client/internal/session"
	"marketplace-client/internal/storage"
	"marketplace-client/internal/stores"
	"marketplace-client/internal/telemetry"
)

const (
	meterName = "marketplace-client"

	// UnreadJob is the refresh job polling the unread notification badge
	UnreadJob = "unread-notifications"
	// SessionJob revalidates the stored profile against /auth/me
	SessionJob = "session-profile"

	noticeLimit = 50
)

// Options override collaborators, mostly for tests
type Options struct {
	Storage    storage.LocalStorage
	HTTPClient *http.Client
	// Notifier receives notices in addition to the App's recorder.
	Notifier notify.Notifier
}

// Services groups the resource services
type Services struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Products      *services.ProductService
	Categories    *services.CategoryService
	Cart          *services.CartService
	Orders        *services.OrderService
	Reviews       *services.ReviewService
	Moderation    *services.ModerationService
	Sanctions     *services.SanctionService
	Reports       *services.ReportService
	Notifications *services.NotificationService
}

// Stores groups the domain stores
type Stores struct {
	Cart          *stores.CartStore
	Products      *stores.ProductStore
	Admin         *stores.AdminStore
	Moderation    *stores.ModerationStore
	Reports       *stores.ReportStore
	Orders        *stores.OrderStore
	Notifications *stores.NotificationStore
}

// App is the dependency container
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Storage   storage.LocalStorage
	Session   *session.Store
	Policy    *authz.Policy
	Routes    *router.Table
	Navigator *router.Navigator
	Gateway   *gateway.Gateway
	Telemetry *telemetry.Telemetry
	// ShellMetrics instruments the shell server; nil when telemetry is off.
	ShellMetrics *telemetry.HTTPTelemetry
	Notices      *notify.Recorder
	Refresh      *refresh.Manager

	Services Services
	Stores   Stores
}

// New builds the container and restores any persisted session
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{
		Config:  cfg,
		Logger:  slog.Default(),
		Storage: opts.Storage,
		Notices: notify.NewRecorder(noticeLimit),
	}

	if a.Storage == nil {
		st, err := storage.Open(cfg.Session.Backend, cfg.Session.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open session storage: %w", err)
		}
		a.Storage = st
	}

	var err error
	a.Telemetry, err = telemetry.InitMetrics(ctx, cfg.Telemetry, meterName)
	if err != nil {
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}
	gatewayMetrics, err := telemetry.NewHTTPTelemetry(a.Telemetry.Meter(), "marketplace_gateway")
	if err != nil {
		return nil, err
	}
	a.ShellMetrics, err = telemetry.NewHTTPTelemetry(a.Telemetry.Meter(), "marketplace_shell")
	if err != nil {
		return nil, err
	}

	a.Session = session.NewStore(a.Storage)
	a.Policy, err = authz.NewPolicy(nil)
	if err != nil {
		return nil, err
	}
	a.Routes = router.NewTable(nil)
	a.Navigator = router.NewNavigator(router.NewGuard(a.Routes, a.Policy), a.Session)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.Timeout}
	}
	a.Gateway = gateway.New(gateway.Options{
		BaseURL:     cfg.API.BaseURL,
		HTTPClient:  httpClient,
		Credentials: a.Session,
		Redirector:  a.Navigator,
		Telemetry:   gatewayMetrics,
	})

	a.wireServices()
	a.Session.SetAuthenticator(a.Services.Auth)

	var notifier notify.Notifier = notify.Multi(a.Notices, notify.NewLogNotifier(a.Logger))
	if opts.Notifier != nil {
		notifier = notify.Multi(notifier, opts.Notifier)
	}
	a.wireStores(stores.Deps{Subject: a.Session, Policy: a.Policy, Notifier: notifier})
	a.Session.OnChange(a.onSessionChange)

	if err := a.wireRefresh(); err != nil {
		return nil, err
	}

	if sess, err := a.Session.Restore(); err != nil {
		a.Logger.Warn("Discarded persisted session", "error", err)
	} else if sess.IsAuthenticated() {
		a.Logger.Info("Session restored", "user", sess.Username)
	}
	return a, nil
}

func (a *App) wireServices() {
	gw := a.Gateway
	a.Services = Services{
		Auth:          services.NewAuthService(gw),
		Users:         services.NewUserService(gw),
		Products:      services.NewProductService(gw),
		Categories:    services.NewCategoryService(gw, a.Config.Cache.CategoryTTL),
		Cart:          services.NewCartService(gw),
		Orders:        services.NewOrderService(gw),
		Reviews:       services.NewReviewService(gw),
		Moderation:    services.NewModerationService(gw),
		Sanctions:     services.NewSanctionService(gw),
		Reports:       services.NewReportService(gw),
		Notifications: services.NewNotificationService(gw),
	}
}

func (a *App) wireStores(deps stores.Deps) {
	svc := a.Services
	cart := stores.NewCartStore(svc.Cart, deps)
	a.Stores = Stores{
		Cart:          cart,
		Products:      stores.NewProductStore(svc.Products, deps),
		Admin:         stores.NewAdminStore(svc.Users, deps),
		Moderation:    stores.NewModerationStore(svc.Moderation, svc.Reviews, deps),
		Reports:       stores.NewReportStore(svc.Reports, deps),
		Orders:        stores.NewOrderStore(svc.Orders, cart, deps),
		Notifications: stores.NewNotificationStore(svc.Notifications, deps),
	}
}

func (a *App) wireRefresh() error {
	a.Refresh = refresh.NewManager(a.Logger, 30*time.Second)
	err := a.Refresh.Register(UnreadJob, a.Config.Shell.NotificationsPoll, func(ctx context.Context) error {
		_, err := a.Stores.Notifications.RefreshUnreadCount(ctx)
		return err
	})
	if err != nil {
		return err
	}
	return a.Refresh.Register(SessionJob, "", func(ctx context.Context) error {
		if !a.Session.IsAuthenticated() {
			return nil
		}
		_, err := a.Session.Refresh(ctx)
		return err
	})
}

// onSessionChange drops per-user state when the session ends
func (a *App) onSessionChange(s session.Session) {
	if s.IsAuthenticated() {
		return
	}
	a.Stores.Cart.Reset()
	a.Stores.Notifications.Reset()
}

// Login signs in and, on success, loads the cart and the unread badge
func (a *App) Login(ctx context.Context, c session.Credentials) (session.Session, error) {
	sess, err := a.Session.Login(ctx, c)
	if err != nil {
		return sess, err
	}
	if err := a.Stores.Cart.Fetch(ctx); err != nil {
		a.Logger.Warn("Failed to load cart after login", "error", err)
	}
	if _, err := a.Stores.Notifications.RefreshUnreadCount(ctx); err != nil {
		a.Logger.Warn("Failed to load unread count after login", "error", err)
	}
	return sess, nil
}

// Logout ends the session and returns to the login view
func (a *App) Logout() {
	a.Session.Logout()
	a.Navigator.Redirect(router.LoginPath)
}

// Close stops background work and releases storage and telemetry
func (a *App) Close(ctx context.Context) error {
	a.Refresh.Stop()
	a.Services.Categories.Close()
	var errs []error
	if err := a.Telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down telemetry: %w", err))
	}
	if err := a.Storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}
	return errors.Join(errs...)
}
