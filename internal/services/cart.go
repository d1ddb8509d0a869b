package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
)

// CartService covers /carrito. Mutations discard their bodies; the cart store refetches.
type CartService struct {
	doer gateway.Doer
}

func NewCartService(d gateway.Doer) *CartService {
	return &CartService{doer: d}
}

func (s *CartService) Get(ctx context.Context) (models.Cart, error) {
	return gateway.Call[models.Cart](ctx, s.doer, gateway.Request{Path: "/carrito"})
}

func (s *CartService) AddItem(ctx context.Context, productID uuid.UUID, quantity int) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   "/carrito/items",
		Body:   models.AddCartItemRequest{ProductID: productID, Quantity: quantity},
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, itemID, quantity int) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{
		Method: http.MethodPut,
		Path:   pathf("/carrito/items/%d", itemID),
		Body:   models.UpdateQuantityRequest{Quantity: quantity},
	})
}

func (s *CartService) RemoveItem(ctx context.Context, itemID int) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{Method: http.MethodDelete, Path: pathf("/carrito/items/%d", itemID)})
}

func (s *CartService) Clear(ctx context.Context) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{Method: http.MethodDelete, Path: "/carrito/limpiar"})
}

func (s *CartService) Total(ctx context.Context) (models.CartTotal, error) {
	return gateway.Call[models.CartTotal](ctx, s.doer, gateway.Request{Path: "/carrito/total"})
}

func (s *CartService) Count(ctx context.Context) (models.CartCount, error) {
	return gateway.Call[models.CartCount](ctx, s.doer, gateway.Request{Path: "/carrito/cantidad"})
}

func (s *CartService) VerifyStock(ctx context.Context) (models.StockCheck, error) {
	return gateway.Call[models.StockCheck](ctx, s.doer, gateway.Request{Path: "/carrito/verificar-stock"})
}
