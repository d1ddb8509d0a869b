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

func cartBody(items ...map[string]any) map[string]any {
	count := 0
	for _, it := range items {
		count += it["cantidad"].(int)
	}
	return map[string]any{
		"id": 1, "items": items, "cantidadTotalItems": count, "total": 10.0 * float64(count), "vacio": len(items) == 0,
	}
}

func line(id int, productID uuid.UUID, qty, stock int) map[string]any {
	return map[string]any{
		"id": id, "productoId": productID, "productoNombre": "Lamp", "cantidad": qty,
		"productoStock": stock, "precioUnitario": 10.0, "subtotal": 10.0 * float64(qty),
	}
}

func newCartHarness(t *testing.T) (*harness, *CartStore) {
	h := newHarness(t, models.RoleCommon)
	return h, NewCartStore(services.NewCartService(h.gw), h.deps)
}

func TestCartFetchIsIdempotent(t *testing.T) {
	h, s := newCartHarness(t)
	pid := uuid.New()
	h.backend.JSON(http.MethodGet, "/carrito", http.StatusOK, cartBody(line(7, pid, 2, 5)))

	require.NoError(t, s.Fetch(context.Background()))
	first := s.Cart()
	require.NoError(t, s.Fetch(context.Background()))

	assert.Equal(t, first, s.Cart())
	assert.Equal(t, 2, s.Count())
	assert.True(t, s.HasItems())
	assert.False(t, s.IsLoading())
}

func TestCartFetchFailureResetsToEmpty(t *testing.T) {
	h, s := newCartHarness(t)
	pid := uuid.New()
	h.backend.JSON(http.MethodGet, "/carrito", http.StatusOK, cartBody(line(7, pid, 2, 5)))
	require.NoError(t, s.Fetch(context.Background()))

	h.backend.JSON(http.MethodGet, "/carrito", http.StatusInternalServerError, nil)
	assert.Error(t, s.Fetch(context.Background()))
	assert.True(t, s.Cart().Empty)
	assert.Empty(t, s.Cart().Items)
}

func TestCartAddItemPreflight(t *testing.T) {
	pid := uuid.New()

	tests := []struct {
		name     string
		product  *models.Product
		quantity int
		existing int
	}{
		{"missing product", nil, 1, 0},
		{"missing id", &models.Product{Name: "Lamp", Stock: 5}, 1, 0},
		{"quantity over stock", &models.Product{ID: pid, Name: "Lamp", Stock: 3}, 4, 0},
		{"existing line plus quantity over stock", &models.Product{ID: pid, Name: "Lamp", Stock: 3}, 2, 2},
		{"non-positive quantity", &models.Product{ID: pid, Name: "Lamp", Stock: 3}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s := newCartHarness(t)
			if tt.existing > 0 {
				h.backend.JSON(http.MethodGet, "/carrito", http.StatusOK, cartBody(line(7, pid, tt.existing, 3)))
				require.NoError(t, s.Fetch(context.Background()))
				h.backend.ResetCalls()
			}
			before := s.Cart()

			err := s.AddItem(context.Background(), tt.product, tt.quantity)

			assert.ErrorIs(t, err, ErrPreflight)
			assert.Empty(t, h.backend.Calls())
			assert.Equal(t, before, s.Cart())
			assert.Equal(t, notify.LevelWarning, h.lastNotice(t).Level)
		})
	}
}

func TestCartAddItemResyncs(t *testing.T) {
	h, s := newCartHarness(t)
	pid := uuid.New()
	h.backend.JSON(http.MethodPost, "/carrito/items", http.StatusCreated, map[string]any{"id": 7})
	h.backend.JSON(http.MethodGet, "/carrito", http.StatusOK, cartBody(line(7, pid, 1, 5)))

	err := s.AddItem(context.Background(), &models.Product{ID: pid, Name: "Lamp", Stock: 5}, 1)
	require.NoError(t, err)

	calls := h.backend.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/carrito", calls[1].Path)

	item, ok := s.ItemByProduct(pid)
	require.True(t, ok)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, "Lamp agregado al carrito", h.lastNotice(t).Text)
	assert.False(t, s.IsLoading())
}

func TestCartAddItemFailureMessages(t *testing.T) {
	tests := []struct {
		status int
		body   any
		want   string
	}{
		{http.StatusBadRequest, map[string]string{"message": "Stock insuficiente"}, "Stock insuficiente"},
		{http.StatusUnauthorized, nil, "Debes iniciar sesión para agregar al carrito"},
		{http.StatusForbidden, nil, "No tienes permiso para realizar esta acción"},
		{http.StatusInternalServerError, map[string]string{"message": "NPE"}, "Error al agregar el producto al carrito"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			h, s := newCartHarness(t)
			h.backend.JSON(http.MethodPost, "/carrito/items", tt.status, tt.body)

			err := s.AddItem(context.Background(), &models.Product{ID: uuid.New(), Name: "Lamp", Stock: 5}, 1)

			assert.Error(t, err)
			assert.Equal(t, tt.want, h.lastNotice(t).Text)
			assert.Empty(t, h.backend.CallsTo(http.MethodGet, "/carrito"))
			assert.False(t, s.IsLoading())
		})
	}
}

func TestCartDecrementAtOneRemovesLine(t *testing.T) {
	h, s := newCartHarness(t)
	pid := uuid.New()
	h.backend.JSON(http.MethodGet, "/carrito", http.StatusOK, cartBody(line(7, pid, 1, 5)))
	require.NoError(t, s.Fetch(context.Background()))

	h.backend.JSON(http.MethodDelete, "/carrito/items/7", http.StatusOK, nil)
	h.backend.JSON(http.MethodGet, "/carrito", http.StatusOK, cartBody())
	h.backend.ResetCalls()

	require.NoError(t, s.Decrement(context.Background(), 7))

	assert.Len(t, h.backend.CallsTo(http.MethodDelete, "/carrito/items/7"), 1)
	assert.Empty(t, h.backend.CallsTo(http.MethodPut, "/carrito/items/7"))
	assert.False(t, s.HasItems())
}

func TestCartIncrementSendsNewQuantity(t *testing.T) {
	h, s := newCartHarness(t)
	pid := uuid.New()
	h.backend.JSON(http.MethodGet, "/carrito", http.StatusOK, cartBody(line(7, pid, 2, 5)))
	h.backend.JSON(http.MethodPut, "/carrito/items/7", http.StatusOK, nil)
	require.NoError(t, s.Fetch(context.Background()))

	require.NoError(t, s.Increment(context.Background(), 7))

	calls := h.backend.CallsTo(http.MethodPut, "/carrito/items/7")
	require.Len(t, calls, 1)
	var body models.UpdateQuantityRequest
	require.NoError(t, calls[0].Decode(&body))
	assert.Equal(t, 3, body.Quantity)
}

func TestCartIncrementBeyondStockRejectedLocally(t *testing.T) {
	h, s := newCartHarness(t)
	h.backend.JSON(http.MethodGet, "/carrito", http.StatusOK, cartBody(line(7, uuid.New(), 5, 5)))
	require.NoError(t, s.Fetch(context.Background()))
	h.backend.ResetCalls()

	assert.ErrorIs(t, s.Increment(context.Background(), 7), ErrPreflight)
	assert.Empty(t, h.backend.Calls())
}

func TestCartClear(t *testing.T) {
	h, s := newCartHarness(t)
	h.backend.JSON(http.MethodDelete, "/carrito/limpiar", http.StatusOK, map[string]string{"message": "Carrito limpiado exitosamente"})
	h.backend.JSON(http.MethodGet, "/carrito", http.StatusOK, cartBody())

	require.NoError(t, s.Clear(context.Background()))
	assert.Equal(t, "Carrito vaciado", h.lastNotice(t).Text)
	assert.Len(t, h.backend.CallsTo(http.MethodGet, "/carrito"), 1)
}

func TestCartActionsRequireSession(t *testing.T) {
	h, s := newCartHarness(t)
	h.guest()
	s = NewCartStore(services.NewCartService(h.gw), h.deps)

	err := s.AddItem(context.Background(), &models.Product{ID: uuid.New(), Name: "Lamp", Stock: 5}, 1)
	assert.Error(t, err)
	assert.Empty(t, h.backend.Calls())
}
