package stores

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"marketplace-client/internal/authz"
	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
	"marketplace-client/internal/notify"
	"marketplace-client/internal/services"
)

// CartStore mirrors the caller's server-side cart
type CartStore struct {
	base
	svc *services.CartService

	mu   sync.RWMutex
	cart models.Cart
}

func NewCartStore(svc *services.CartService, deps Deps) *CartStore {
	s := &CartStore{svc: svc, cart: models.EmptyCart()}
	s.init("cart", deps)
	return s
}

// Cart returns a copy of the cached cart
func (s *CartStore) Cart() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.cart
	c.Items = append([]models.CartItem(nil), s.cart.Items...)
	return c
}

func (s *CartStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.ItemCount
}

func (s *CartStore) HasItems() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.cart.Empty && len(s.cart.Items) > 0
}

// Item looks a line up by its cart item id
func (s *CartStore) Item(itemID int) (models.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.cart.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return models.CartItem{}, false
}

func (s *CartStore) ItemByProduct(productID uuid.UUID) (models.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Line(productID)
}

// Fetch reloads the cart. A failed load leaves an empty cart behind.
func (s *CartStore) Fetch(ctx context.Context) error {
	return track(&s.loading, func() error {
		cart, err := s.svc.Get(ctx)
		if err != nil {
			s.logger.Warn("Failed to load cart", "error", err)
			s.set(models.EmptyCart())
			return err
		}
		if cart.Items == nil {
			cart.Items = []models.CartItem{}
		}
		if !cart.Empty && len(cart.Items) == 0 {
			cart.Empty = true
		}
		s.set(cart)
		return nil
	})
}

// AddItem adds quantity units of product. Stock is checked locally against the
// product and any existing line first; a local rejection sends nothing.
func (s *CartStore) AddItem(ctx context.Context, product *models.Product, quantity int) error {
	if product == nil || product.ID == uuid.Nil {
		return s.preflight("Error: Producto inválido")
	}
	if quantity < 1 {
		return s.preflight("La cantidad debe ser al menos 1")
	}
	if product.Stock < quantity {
		return s.preflight(fmt.Sprintf("Solo hay %d unidades disponibles", product.Stock))
	}
	if line, ok := s.ItemByProduct(product.ID); ok && line.Quantity+quantity > product.Stock {
		return s.preflight(fmt.Sprintf("No puedes agregar más de %d unidades", product.Stock))
	}
	if err := s.authorize(authz.ActionCartWrite); err != nil {
		return err
	}

	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error { return s.svc.AddItem(ctx, product.ID, quantity) },
		s.Fetch)
	if err != nil {
		return s.addFailure(err)
	}
	notify.Success(s.notifier, fmt.Sprintf("%s agregado al carrito", product.Name))
	return nil
}

func (s *CartStore) addFailure(err error) error {
	if errors.Is(err, ErrResync) {
		return s.fail(err, "")
	}
	s.logger.Warn("Failed to add item to cart", "error", err)
	switch gateway.StatusCode(err) {
	case http.StatusBadRequest:
		msg := gateway.Message(err)
		if msg == "" {
			msg = "No se pudo agregar el producto"
		}
		notify.Error(s.notifier, msg)
	case http.StatusUnauthorized:
		notify.Error(s.notifier, "Debes iniciar sesión para agregar al carrito")
	case http.StatusForbidden:
		notify.Error(s.notifier, "No tienes permiso para realizar esta acción")
	default:
		notify.Error(s.notifier, "Error al agregar el producto al carrito")
	}
	return err
}

// UpdateQuantity sets a line's quantity; anything below 1 removes the line
func (s *CartStore) UpdateQuantity(ctx context.Context, itemID, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, itemID)
	}
	if line, ok := s.Item(itemID); ok && line.ProductStock > 0 && quantity > line.ProductStock {
		return s.preflight(fmt.Sprintf("Solo hay %d unidades disponibles", line.ProductStock))
	}
	if err := s.authorize(authz.ActionCartWrite); err != nil {
		return err
	}

	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error { return s.svc.UpdateQuantity(ctx, itemID, quantity) },
		s.Fetch)
	if err != nil {
		return s.fail(err, "Error al actualizar la cantidad")
	}
	return nil
}

func (s *CartStore) Increment(ctx context.Context, itemID int) error {
	line, ok := s.Item(itemID)
	if !ok {
		return s.preflight("El producto ya no está en el carrito")
	}
	return s.UpdateQuantity(ctx, itemID, line.Quantity+1)
}

// Decrement lowers a line by one; at 1 the line is removed
func (s *CartStore) Decrement(ctx context.Context, itemID int) error {
	line, ok := s.Item(itemID)
	if !ok {
		return s.preflight("El producto ya no está en el carrito")
	}
	return s.UpdateQuantity(ctx, itemID, line.Quantity-1)
}

func (s *CartStore) RemoveItem(ctx context.Context, itemID int) error {
	if err := s.authorize(authz.ActionCartWrite); err != nil {
		return err
	}
	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error { return s.svc.RemoveItem(ctx, itemID) },
		s.Fetch)
	if err != nil {
		return s.fail(err, "Error al eliminar el producto del carrito")
	}
	notify.Info(s.notifier, "Producto eliminado del carrito")
	return nil
}

func (s *CartStore) Clear(ctx context.Context) error {
	if err := s.authorize(authz.ActionCartWrite); err != nil {
		return err
	}
	err := MutateThenResync(ctx, &s.loading, s.svc.Clear, s.Fetch)
	if err != nil {
		return s.fail(err, "Error al vaciar el carrito")
	}
	notify.Info(s.notifier, "Carrito vaciado")
	return nil
}

// VerifyStock asks the backend whether every line can still be fulfilled.
// Failures count as unavailable.
func (s *CartStore) VerifyStock(ctx context.Context) (models.StockCheck, error) {
	check, err := s.svc.VerifyStock(ctx)
	if err != nil {
		s.logger.Warn("Failed to verify stock", "error", err)
		return models.StockCheck{Available: false}, err
	}
	if !check.Available && check.Message != "" {
		notify.Warning(s.notifier, check.Message)
	}
	return check, nil
}

// Reset drops the cached cart, used when the session ends
func (s *CartStore) Reset() {
	s.set(models.EmptyCart())
}

func (s *CartStore) set(c models.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = c
}
