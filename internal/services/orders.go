package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
)

// OrderService covers /pedidos for buyers, vendors and logistics
type OrderService struct {
	doer gateway.Doer
}

func NewOrderService(d gateway.Doer) *OrderService {
	return &OrderService{doer: d}
}

// Mine lists the caller's orders
func (s *OrderService) Mine(ctx context.Context, p PageRequest) (models.Page[models.Order], error) {
	return s.page(ctx, "/pedidos", p)
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (models.Order, error) {
	return gateway.Call[models.Order](ctx, s.doer, gateway.Request{Path: pathf("/pedidos/%s", id)})
}

// PlaceFromCart turns the caller's cart into an order
func (s *OrderService) PlaceFromCart(ctx context.Context, req models.PlaceOrderRequest) (models.Order, error) {
	return gateway.Call[models.Order](ctx, s.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   "/pedidos/crear-desde-carrito",
		Body:   req,
	})
}

func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID) (models.Order, error) {
	return gateway.Call[models.Order](ctx, s.doer, gateway.Request{
		Method: http.MethodDelete,
		Path:   pathf("/pedidos/%s/cancelar", id),
	})
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req models.UpdateOrderStatusRequest) (models.Order, error) {
	return gateway.Call[models.Order](ctx, s.doer, gateway.Request{
		Method: http.MethodPut,
		Path:   pathf("/pedidos/%s/estado", id),
		Body:   req,
	})
}

// ForVendor lists orders containing the caller's products
func (s *OrderService) ForVendor(ctx context.Context, p PageRequest) (models.Page[models.Order], error) {
	return s.page(ctx, "/pedidos/vendedor", p)
}

func (s *OrderService) All(ctx context.Context, p PageRequest) (models.Page[models.Order], error) {
	return s.page(ctx, "/pedidos/admin/todos", p)
}

func (s *OrderService) Summary(ctx context.Context) (models.OrderSummary, error) {
	return gateway.Call[models.OrderSummary](ctx, s.doer, gateway.Request{Path: "/pedidos/resumen"})
}

func (s *OrderService) InProgress(ctx context.Context) ([]models.Order, error) {
	return gateway.Call[[]models.Order](ctx, s.doer, gateway.Request{Path: "/pedidos/en-curso"})
}

// DueSoon lists orders whose estimated delivery is close
func (s *OrderService) DueSoon(ctx context.Context) ([]models.Order, error) {
	return gateway.Call[[]models.Order](ctx, s.doer, gateway.Request{Path: "/pedidos/proximos-vencer"})
}

func (s *OrderService) SetDeliveryDate(ctx context.Context, id uuid.UUID, req models.DeliveryDateRequest) (models.Order, error) {
	return gateway.Call[models.Order](ctx, s.doer, gateway.Request{
		Method: http.MethodPut,
		Path:   pathf("/pedidos/%s/fecha-entrega", id),
		Body:   req,
	})
}

func (s *OrderService) MarkDelivered(ctx context.Context, id uuid.UUID) (models.Order, error) {
	return gateway.Call[models.Order](ctx, s.doer, gateway.Request{
		Method: http.MethodPut,
		Path:   pathf("/pedidos/%s/marcar-entregado", id),
	})
}

func (s *OrderService) page(ctx context.Context, path string, p PageRequest) (models.Page[models.Order], error) {
	return gateway.Call[models.Page[models.Order]](ctx, s.doer, gateway.Request{Path: path, Query: p.values()})
}
