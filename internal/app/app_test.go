package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-client/internal/config"
	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
	"marketplace-client/internal/router"
	"marketplace-client/internal/session"
	"marketplace-client/internal/storage"
	"marketplace-client/internal/testutil"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Environment: "development",
		LogLevel:    "error",
		API:         config.APIConfig{BaseURL: baseURL},
		Session:     config.SessionConfig{Backend: "file"},
		Cache:       config.CacheConfig{CategoryTTL: time.Minute},
		Telemetry:   config.TelemetryConfig{Exporter: "none"},
	}
}

func newApp(t *testing.T, backend *testutil.Backend, st storage.LocalStorage) *App {
	t.Helper()
	if st == nil {
		st = storage.NewFileStorage(t.TempDir())
		require.NoError(t, st.Initialize())
	}
	a, err := New(context.Background(), testConfig(backend.URL()), Options{Storage: st})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func loginBackend(t *testing.T, roles ...string) *testutil.Backend {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodPost, "/auth/login", http.StatusOK, models.LoginResponse{
		Token: "abc123", Type: "Bearer", ID: uuid.New(), Username: "ana", Roles: roles,
	})
	b.JSON(http.MethodGet, "/carrito", http.StatusOK, map[string]any{"id": 1, "items": []any{}, "vacio": true})
	b.JSON(http.MethodGet, "/notificaciones/no-leidas/count", http.StatusOK, map[string]int{"count": 2})
	return b
}

func TestLoginThenCartIsAllowed(t *testing.T) {
	b := loginBackend(t, "ROLE_COMUN")
	a := newApp(t, b, nil)

	sess, err := a.Login(context.Background(), session.Credentials{Username: "ana", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", sess.Token)
	assert.True(t, a.Session.IsAuthenticated())

	var login map[string]string
	require.NoError(t, b.CallsTo(http.MethodPost, "/auth/login")[0].Decode(&login))
	assert.Equal(t, map[string]string{"nombreUsuario": "ana", "contrasena": "x"}, login)

	res, err := a.Navigator.Navigate("/carrito")
	require.NoError(t, err)
	assert.False(t, res.Redirected)
	assert.Equal(t, "cart", a.Navigator.Location().Name)

	assert.Equal(t, "Bearer abc123", b.CallsTo(http.MethodGet, "/carrito")[0].Authorization)
	assert.Equal(t, int64(2), a.Stores.Notifications.UnreadCount())
}

func TestUnauthorizedFromAnyStoreEndsSession(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		call   func(*App) error
	}{
		{name: "cart", method: http.MethodGet, path: "/carrito", call: func(a *App) error {
			return a.Stores.Cart.Fetch(context.Background())
		}},
		{name: "orders", method: http.MethodGet, path: "/pedidos", call: func(a *App) error {
			return a.Stores.Orders.Fetch(context.Background(), 0)
		}},
		{name: "products", method: http.MethodGet, path: "/productos/disponibles", call: func(a *App) error {
			return a.Stores.Products.Fetch(context.Background())
		}},
		{name: "admin", method: http.MethodGet, path: "/admin/usuarios", call: func(a *App) error {
			return a.Stores.Admin.FetchUsers(context.Background())
		}},
		{name: "moderation", method: http.MethodGet, path: "/moderador/solicitudes/pendientes", call: func(a *App) error {
			return a.Stores.Moderation.FetchRequests(context.Background(), 0)
		}},
		{name: "notifications", method: http.MethodGet, path: "/notificaciones", call: func(a *App) error {
			return a.Stores.Notifications.Fetch(context.Background(), 0)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := loginBackend(t, "ADMIN", "MODERADOR")
			a := newApp(t, b, nil)
			_, err := a.Login(context.Background(), session.Credentials{Username: "ana", Password: "x"})
			require.NoError(t, err)
			_, err = a.Navigator.Navigate("/admin")
			require.NoError(t, err)

			b.JSON(tt.method, tt.path, http.StatusUnauthorized, map[string]string{"message": "expired"})
			err = tt.call(a)

			assert.ErrorIs(t, err, gateway.ErrUnauthorized)
			assert.False(t, a.Session.IsAuthenticated())
			assert.False(t, a.Session.HasRole(models.RoleAdmin))
			assert.Equal(t, router.LoginPath, a.Navigator.Location().Path)
			assert.False(t, a.Stores.Cart.HasItems())
		})
	}
}

func TestLogoutStopsSendingToken(t *testing.T) {
	b := loginBackend(t, "COMUN")
	b.JSON(http.MethodGet, "/productos/disponibles", http.StatusOK, map[string]any{"content": []any{}})
	a := newApp(t, b, nil)
	_, err := a.Login(context.Background(), session.Credentials{Username: "ana", Password: "x"})
	require.NoError(t, err)

	a.Logout()
	require.NoError(t, a.Stores.Products.Fetch(context.Background()))

	assert.False(t, a.Session.HasAnyRole(models.AllRoles...))
	assert.Empty(t, b.CallsTo(http.MethodGet, "/productos/disponibles")[0].Authorization)
	assert.Equal(t, "login", a.Navigator.Location().Name)
	assert.Zero(t, a.Stores.Notifications.UnreadCount())
}

func TestSessionSurvivesRestart(t *testing.T) {
	b := loginBackend(t, "VENDEDOR")
	st := storage.NewFileStorage(t.TempDir())
	require.NoError(t, st.Initialize())

	first, err := New(context.Background(), testConfig(b.URL()), Options{Storage: st})
	require.NoError(t, err)
	_, err = first.Login(context.Background(), session.Credentials{Username: "ana", Password: "x"})
	require.NoError(t, err)

	second, err := New(context.Background(), testConfig(b.URL()), Options{Storage: st})
	require.NoError(t, err)
	assert.True(t, second.Session.HasRole(models.RoleVendor))

	res, err := second.Navigator.Navigate("/vendedor/dashboard")
	require.NoError(t, err)
	assert.False(t, res.Redirected)
}

func TestRefreshJobsRegistered(t *testing.T) {
	a := newApp(t, testutil.NewBackend(t), nil)

	require.NoError(t, a.Refresh.RunNow(context.Background(), UnreadJob))
	require.NoError(t, a.Refresh.RunNow(context.Background(), SessionJob))
	assert.Len(t, a.Refresh.Statuses(), 2)
}
