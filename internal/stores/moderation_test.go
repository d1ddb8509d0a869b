package stores

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-client/internal/models"
	"marketplace-client/internal/notify"
	"marketplace-client/internal/services"
)

func modRequest(id uuid.UUID, status string) map[string]any {
	return map[string]any{"id": id, "nombre": "Lamp", "estado": status, "vendedorNombre": "Ana"}
}

func newModerationHarness(t *testing.T, roles ...models.Role) (*harness, *ModerationStore) {
	h := newHarness(t, roles...)
	return h, NewModerationStore(services.NewModerationService(h.gw), services.NewReviewService(h.gw), h.deps)
}

func TestModerationDefaultFilterUsesPendingQueue(t *testing.T) {
	h, s := newModerationHarness(t, models.RoleModerator)
	id := uuid.New()
	h.backend.JSON(http.MethodGet, "/moderador/solicitudes/pendientes", http.StatusOK,
		page([]any{modRequest(id, "PENDIENTE_REVISION")}, 1, 1, 0))

	require.NoError(t, s.FetchRequests(context.Background(), 0))

	st := s.State()
	require.Len(t, st.Requests, 1)
	assert.Equal(t, models.ModerationPending, st.Requests[0].Status)
	assert.Equal(t, models.ModerationPending, st.StatusFilter)
}

func TestModerationSetStatusFilter(t *testing.T) {
	h, s := newModerationHarness(t, models.RoleAdmin)
	h.backend.JSON(http.MethodGet, "/moderador/solicitudes", http.StatusOK, page([]any{}, 0, 0, 0))
	h.backend.JSON(http.MethodGet, "/moderador/solicitudes/estado/RECHAZADO", http.StatusOK, page([]any{}, 0, 0, 0))

	require.NoError(t, s.SetStatusFilter(context.Background(), models.ModerationAll))
	require.NoError(t, s.SetStatusFilter(context.Background(), models.ModerationRejected))

	calls := h.backend.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/moderador/solicitudes", calls[0].Path)
	assert.Equal(t, "/moderador/solicitudes/estado/RECHAZADO", calls[1].Path)
	assert.Contains(t, calls[1].Query, "page=0")

	assert.ErrorIs(t, s.SetStatusFilter(context.Background(), "ARCHIVADO"), ErrPreflight)
	assert.Len(t, h.backend.Calls(), 2)
}

func TestModerationApproveRefetchesPageAndStats(t *testing.T) {
	h, s := newModerationHarness(t, models.RoleModerator)
	id := uuid.New()
	h.backend.JSON(http.MethodPut, "/moderador/solicitudes/"+id.String()+"/aprobar", http.StatusOK, modRequest(id, "APROBADO"))
	h.backend.JSON(http.MethodGet, "/moderador/solicitudes/pendientes", http.StatusOK, page([]any{}, 0, 0, 0))
	h.backend.JSON(http.MethodGet, "/moderador/estadisticas", http.StatusOK, map[string]int{"pendientes": 0, "aprobadas": 3})

	ok := s.Approve(context.Background(), id, "  ")

	require.True(t, ok)
	assert.Len(t, h.backend.CallsTo(http.MethodGet, "/moderador/solicitudes/pendientes"), 1)
	assert.Equal(t, int64(3), s.State().Stats.Approved)
	assert.False(t, s.IsLoading())
	assert.Equal(t, "Solicitud aprobada exitosamente", h.lastNotice(t).Text)

	var body map[string]any
	require.NoError(t, h.backend.Calls()[0].Decode(&body))
	assert.Empty(t, body)
}

func TestModerationRejectNeedsReason(t *testing.T) {
	h, s := newModerationHarness(t, models.RoleModerator)

	assert.False(t, s.Reject(context.Background(), uuid.New(), "   "))
	assert.False(t, s.RequestChanges(context.Background(), uuid.New(), ""))
	assert.Empty(t, h.backend.Calls())
	assert.Equal(t, notify.LevelWarning, h.lastNotice(t).Level)
}

func TestModerationRejectFailureReturnsFalse(t *testing.T) {
	h, s := newModerationHarness(t, models.RoleModerator)
	id := uuid.New()
	h.backend.JSON(http.MethodPut, "/moderador/solicitudes/"+id.String()+"/rechazar", http.StatusBadRequest,
		map[string]string{"message": "La solicitud ya fue procesada"})

	assert.False(t, s.Reject(context.Background(), id, "blurry"))
	assert.Equal(t, "La solicitud ya fue procesada", h.lastNotice(t).Text)
	assert.Empty(t, h.backend.CallsTo(http.MethodGet, "/moderador/solicitudes/pendientes"))
	assert.False(t, s.IsLoading())
}

func TestModerationDeniedForVendor(t *testing.T) {
	h, s := newModerationHarness(t, models.RoleVendor)

	assert.False(t, s.Approve(context.Background(), uuid.New(), ""))
	assert.Error(t, s.FetchRequests(context.Background(), 0))
	assert.Empty(t, h.backend.Calls())
}

func TestModerationPendingReviews(t *testing.T) {
	h, s := newModerationHarness(t, models.RoleModerator)
	h.backend.JSON(http.MethodGet, "/reviews/pendientes", http.StatusOK,
		page([]any{map[string]any{"id": 4, "calificacion": 5, "comentario": "Muy buena lámpara"}}, 1, 1, 0))
	h.backend.JSON(http.MethodPut, "/reviews/4/aprobar", http.StatusOK, nil)

	require.NoError(t, s.FetchPendingReviews(context.Background(), 0))
	assert.Equal(t, int64(1), s.State().TotalPendingReviews)

	assert.True(t, s.ApproveReview(context.Background(), 4))
	assert.Len(t, h.backend.CallsTo(http.MethodGet, "/reviews/pendientes"), 2)
	assert.False(t, s.State().LoadingReviews)
}
