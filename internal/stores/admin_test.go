package stores

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-client/internal/models"
	"marketplace-client/internal/services"
)

func userBody(id uuid.UUID, active bool) map[string]any {
	return map[string]any{"id": id, "nombreUsuario": "ana", "activo": active, "roles": []string{"COMUN"}}
}

func TestAdminFiltersResetPage(t *testing.T) {
	h := newHarness(t, models.RoleAdmin)
	s := NewAdminStore(services.NewUserService(h.gw), h.deps)
	h.backend.JSON(http.MethodGet, "/admin/usuarios", http.StatusOK, page([]any{userBody(uuid.New(), true)}, 25, 3, 2))

	require.NoError(t, s.ChangePage(context.Background(), 2))
	require.NoError(t, s.SetFilter(context.Background(), models.UserFilters{Role: "VENDEDOR", SortBy: "nombreUsuario", Direction: "asc"}))

	q, err := url.ParseQuery(h.backend.Calls()[1].Query)
	require.NoError(t, err)
	assert.Equal(t, "0", q.Get("page"))
	assert.Equal(t, "10", q.Get("size"))
	assert.Equal(t, "VENDEDOR", q.Get("rol"))

	require.NoError(t, s.ResetFilters(context.Background()))
	assert.Equal(t, models.DefaultUserFilters(), s.State().Filters)
}

func TestAdminToggleStatus(t *testing.T) {
	h := newHarness(t, models.RoleAdmin)
	s := NewAdminStore(services.NewUserService(h.gw), h.deps)
	id := uuid.New()
	h.backend.JSON(http.MethodPut, "/admin/usuarios/"+id.String()+"/desactivar", http.StatusOK, nil)
	h.backend.JSON(http.MethodGet, "/admin/usuarios", http.StatusOK, page([]any{userBody(id, false)}, 1, 1, 0))

	require.NoError(t, s.ToggleStatus(context.Background(), models.User{ID: id, Active: true}))

	st := s.State()
	require.Len(t, st.Users, 1)
	assert.False(t, st.Users[0].Active)
	assert.Equal(t, "Usuario desactivado", h.lastNotice(t).Text)
}

func TestAdminStats(t *testing.T) {
	h := newHarness(t, models.RoleAdmin)
	s := NewAdminStore(services.NewUserService(h.gw), h.deps)
	h.backend.JSON(http.MethodGet, "/admin/estadisticas", http.StatusOK, map[string]any{"totalUsuarios": 12})

	stats, err := s.FetchStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalUsers)
	assert.Equal(t, int64(12), s.State().Stats.TotalUsers)
}
