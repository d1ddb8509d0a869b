package stores

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-client/internal/authz"
	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
	"marketplace-client/internal/notify"
	"marketplace-client/internal/services"
	"marketplace-client/internal/testutil"
)

type subject struct {
	authenticated bool
	roles         models.RoleSet
}

func (s subject) IsAuthenticated() bool            { return s.authenticated }
func (s subject) HasRole(r models.Role) bool       { return s.authenticated && s.roles.Has(r) }
func (s subject) HasAnyRole(r ...models.Role) bool { return s.authenticated && s.roles.HasAny(r...) }

type harness struct {
	backend  *testutil.Backend
	gw       *gateway.Gateway
	notices  *notify.Recorder
	deps     Deps
	redirect *testutil.Redirects
}

func newHarness(t *testing.T, roles ...models.Role) *harness {
	t.Helper()
	policy, err := authz.NewPolicy(nil)
	require.NoError(t, err)

	h := &harness{
		backend:  testutil.NewBackend(t),
		notices:  notify.NewRecorder(0),
		redirect: &testutil.Redirects{},
	}
	h.gw = gateway.New(gateway.Options{
		BaseURL:     h.backend.URL(),
		Credentials: testutil.NewStaticToken("tok"),
		Redirector:  h.redirect,
	})
	h.deps = Deps{
		Subject:  subject{authenticated: true, roles: models.RoleSetOf(roles...)},
		Policy:   policy,
		Notifier: h.notices,
	}
	return h
}

func (h *harness) guest() {
	h.deps.Subject = subject{}
}

func (h *harness) lastNotice(t *testing.T) notify.Message {
	t.Helper()
	msg, ok := h.notices.Last()
	require.True(t, ok, "expected a notification")
	return msg
}

func page(content any, total int64, pages, number int) map[string]any {
	return map[string]any{"content": content, "totalElements": total, "totalPages": pages, "number": number, "size": 10}
}

func TestMutateThenResync(t *testing.T) {
	boom := errors.New("boom")
	ctx := context.Background()

	tests := []struct {
		name        string
		mutationErr error
		resyncErr   error
		wantResync  bool
		wantErr     error
	}{
		{"success runs resync", nil, nil, true, nil},
		{"mutation failure skips resync", boom, nil, false, boom},
		{"resync failure is reported", nil, boom, true, ErrResync},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var loading Loading
			var sawLoading, resynced bool

			err := MutateThenResync(ctx, &loading,
				func(context.Context) error {
					sawLoading = loading.Active()
					return tt.mutationErr
				},
				func(context.Context) error {
					resynced = true
					return tt.resyncErr
				})

			assert.True(t, sawLoading)
			assert.False(t, loading.Active())
			assert.Equal(t, tt.wantResync, resynced)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestMutateThenResyncReleasesLoadingOnPanic(t *testing.T) {
	var loading Loading
	assert.Panics(t, func() {
		_ = MutateThenResync(context.Background(), &loading,
			func(context.Context) error { panic("mutation blew up") }, nil)
	})
	assert.False(t, loading.Active())
}

func TestFailSurfacesBackendMessageVerbatim(t *testing.T) {
	h := newHarness(t, models.RoleAdmin)
	h.backend.JSON(http.MethodPost, "/admin/usuarios", http.StatusBadRequest, map[string]string{"message": "El correo ya está registrado"})

	s := NewAdminStore(services.NewUserService(h.gw), h.deps)

	err := s.CreateUser(context.Background(), models.UserRequest{Username: "ana", Email: "ana@example.com"})
	require.Error(t, err)
	assert.Equal(t, "El correo ya está registrado", h.lastNotice(t).Text)
	assert.False(t, s.IsLoading())
	assert.Empty(t, h.backend.CallsTo(http.MethodGet, "/admin/usuarios"))
}

func TestRoleGatedActionDeniedBeforeSending(t *testing.T) {
	h := newHarness(t, models.RoleCommon)
	s := NewAdminStore(services.NewUserService(h.gw), h.deps)

	err := s.FetchUsers(context.Background())
	assert.ErrorIs(t, err, authz.ErrForbidden)
	assert.Empty(t, h.backend.Calls())
	assert.Equal(t, notify.LevelError, h.lastNotice(t).Level)
}

func TestTransportFailureGenericNotice(t *testing.T) {
	h := newHarness(t, models.RoleCommon)
	gw := gateway.New(gateway.Options{BaseURL: "http://127.0.0.1:1", Credentials: testutil.NewStaticToken("tok")})
	s := NewNotificationStore(services.NewNotificationService(gw), h.deps)

	err := s.Fetch(context.Background(), 0)
	assert.ErrorIs(t, err, gateway.ErrTransport)
	assert.Equal(t, "Error al cargar notificaciones", h.lastNotice(t).Text)
}

func TestUnauthorizedDuringStoreAction(t *testing.T) {
	h := newHarness(t, models.RoleCommon)
	h.backend.JSON(http.MethodGet, "/carrito", http.StatusUnauthorized, map[string]string{"message": "token expired"})
	s := NewCartStore(services.NewCartService(h.gw), h.deps)

	err := s.Fetch(context.Background())
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
	assert.Equal(t, []string{"/login"}, h.redirect.Paths())
	assert.True(t, s.Cart().Empty)
}

func TestStoresDoNotShareLoading(t *testing.T) {
	h := newHarness(t, models.RoleCommon)
	cart := NewCartStore(services.NewCartService(h.gw), h.deps)
	products := NewProductStore(services.NewProductService(h.gw), h.deps)

	done := cart.loading.begin()
	assert.True(t, cart.IsLoading())
	assert.False(t, products.IsLoading())
	done()
	assert.False(t, cart.IsLoading())
}

func writeJSON(w http.ResponseWriter, body any) {
	testutil.WriteJSON(w, http.StatusOK, body)
}
