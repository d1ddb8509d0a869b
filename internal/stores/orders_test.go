package stores

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-client/internal/models"
	"marketplace-client/internal/services"
)

func orderBody(id uuid.UUID, status models.OrderStatus) map[string]any {
	return map[string]any{"id": id, "numeroOrden": "ORD-0001", "estado": status, "total": 20.0, "items": []any{}}
}

func newOrderHarness(t *testing.T, roles ...models.Role) (*harness, *OrderStore, *CartStore) {
	h := newHarness(t, roles...)
	cart := NewCartStore(services.NewCartService(h.gw), h.deps)
	return h, NewOrderStore(services.NewOrderService(h.gw), cart, h.deps), cart
}

func TestOrderPlaceFromCartResyncsOrdersAndCart(t *testing.T) {
	h, s, cart := newOrderHarness(t, models.RoleCommon)
	id := uuid.New()
	h.backend.JSON(http.MethodPost, "/pedidos/crear-desde-carrito", http.StatusCreated, orderBody(id, models.OrderPending))
	h.backend.JSON(http.MethodGet, "/pedidos", http.StatusOK, page([]any{orderBody(id, models.OrderPending)}, 1, 1, 0))
	h.backend.JSON(http.MethodGet, "/carrito", http.StatusOK, cartBody())

	order, err := s.PlaceFromCart(context.Background(), models.PlaceOrderRequest{
		ShippingAddress: "Calle 1", ContactPhone: "555-0100", PaymentMethod: "TARJETA",
	})

	require.NoError(t, err)
	assert.Equal(t, id, order.ID)
	assert.Len(t, s.State().Orders, 1)
	assert.False(t, cart.HasItems())
	assert.Len(t, h.backend.CallsTo(http.MethodGet, "/carrito"), 1)
	assert.Equal(t, "Pedido ORD-0001 creado exitosamente", h.lastNotice(t).Text)
}

func TestOrderPlaceInvalidRequestNeverSent(t *testing.T) {
	h, s, _ := newOrderHarness(t, models.RoleCommon)

	_, err := s.PlaceFromCart(context.Background(), models.PlaceOrderRequest{})

	require.Error(t, err)
	assert.Empty(t, h.backend.Calls())
}

func TestOrderCancelRefreshesCurrent(t *testing.T) {
	h, s, _ := newOrderHarness(t, models.RoleCommon)
	id := uuid.New()
	h.backend.JSON(http.MethodGet, "/pedidos/"+id.String(), http.StatusOK, orderBody(id, models.OrderPending))
	_, err := s.FetchByID(context.Background(), id)
	require.NoError(t, err)

	h.backend.JSON(http.MethodDelete, "/pedidos/"+id.String()+"/cancelar", http.StatusOK, orderBody(id, models.OrderCancelled))
	h.backend.JSON(http.MethodGet, "/pedidos", http.StatusOK, page([]any{}, 0, 0, 0))
	h.backend.JSON(http.MethodGet, "/pedidos/"+id.String(), http.StatusOK, orderBody(id, models.OrderCancelled))

	require.NoError(t, s.Cancel(context.Background(), id))
	assert.Equal(t, models.OrderCancelled, s.State().Current.Status)
}

func TestOrderUpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		roles    []models.Role
		status   models.OrderStatus
		wantSent bool
	}{
		{name: "vendor ships", roles: []models.Role{models.RoleVendor}, status: models.OrderShipped, wantSent: true},
		{name: "moderator ships", roles: []models.Role{models.RoleModerator}, status: models.OrderShipped, wantSent: true},
		{name: "buyer denied", roles: []models.Role{models.RoleCommon}, status: models.OrderShipped},
		{name: "unknown status", roles: []models.Role{models.RoleAdmin}, status: "PERDIDO"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, _ := newOrderHarness(t, tt.roles...)
			id := uuid.New()
			path := "/pedidos/" + id.String() + "/estado"
			h.backend.JSON(http.MethodPut, path, http.StatusOK, orderBody(id, tt.status))
			h.backend.JSON(http.MethodGet, "/pedidos", http.StatusOK, page([]any{}, 0, 0, 0))

			err := s.UpdateStatus(context.Background(), id, tt.status, "")

			calls := h.backend.CallsTo(http.MethodPut, path)
			if !tt.wantSent {
				assert.Error(t, err)
				assert.Empty(t, calls)
				return
			}
			require.NoError(t, err)
			require.Len(t, calls, 1)
			var body map[string]any
			require.NoError(t, calls[0].Decode(&body))
			assert.Equal(t, string(tt.status), body["nuevoEstado"])
		})
	}
}

func TestOrderLogistics(t *testing.T) {
	h, s, _ := newOrderHarness(t, models.RoleLogistics)
	id := uuid.New()
	h.backend.JSON(http.MethodGet, "/pedidos/en-curso", http.StatusOK, []any{orderBody(id, models.OrderShipped)})
	h.backend.JSON(http.MethodGet, "/pedidos/proximos-vencer", http.StatusOK, []any{})
	h.backend.JSON(http.MethodPut, "/pedidos/"+id.String()+"/marcar-entregado", http.StatusOK, orderBody(id, models.OrderDelivered))
	h.backend.JSON(http.MethodPut, "/pedidos/"+id.String()+"/fecha-entrega", http.StatusOK, orderBody(id, models.OrderShipped))

	require.NoError(t, s.FetchLogistics(context.Background()))
	assert.Len(t, s.State().InProgress, 1)

	assert.ErrorIs(t, s.SetDeliveryDate(context.Background(), id, time.Time{}), ErrPreflight)

	at := time.Date(2025, 4, 2, 15, 0, 0, 0, time.Local)
	require.NoError(t, s.SetDeliveryDate(context.Background(), id, at))
	var body map[string]any
	require.NoError(t, h.backend.CallsTo(http.MethodPut, "/pedidos/"+id.String()+"/fecha-entrega")[0].Decode(&body))
	assert.Equal(t, "2025-04-02T15:00:00", body["fechaEntregaEstimada"])

	require.NoError(t, s.MarkDelivered(context.Background(), id))
	assert.Len(t, h.backend.CallsTo(http.MethodGet, "/pedidos/en-curso"), 3)
}

func TestOrderVendorViewsNeedRole(t *testing.T) {
	h, s, _ := newOrderHarness(t, models.RoleAdmin)
	h.backend.JSON(http.MethodGet, "/pedidos/admin/todos", http.StatusOK, page([]any{}, 0, 0, 0))

	assert.Error(t, s.FetchVendorOrders(context.Background(), 0))
	assert.NoError(t, s.FetchAll(context.Background(), 0))
	assert.Empty(t, h.backend.CallsTo(http.MethodGet, "/pedidos/vendedor"))
}
