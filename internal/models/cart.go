package models

import "github.com/google/uuid"

// Cart mirrors the backend's cart response; every figure is server-computed
type Cart struct {
	ID        int        `json:"id"`
	UserID    uuid.UUID  `json:"usuarioId"`
	UserName  string     `json:"usuarioNombre"`
	Items     []CartItem `json:"items" validate:"dive"`
	ItemCount int        `json:"cantidadTotalItems" validate:"min=0"`
	Total     float64    `json:"total" validate:"min=0"`
	Empty     bool       `json:"vacio"`
	CreatedAt LocalTime  `json:"fechaCreacion"`
	UpdatedAt LocalTime  `json:"fechaActualizacion"`
}

// EmptyCart is the state a cart falls back to when it cannot be loaded
func EmptyCart() Cart {
	return Cart{Items: []CartItem{}, Empty: true}
}

// Line returns the cart line for productID, if any
func (c Cart) Line(productID uuid.UUID) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

// CartItem is one cart line
type CartItem struct {
	ID           int       `json:"id" validate:"required"`
	ProductID    uuid.UUID `json:"productoId" validate:"required"`
	ProductName  string    `json:"productoNombre"`
	ProductImage string    `json:"productoImagen"`
	ProductStock int       `json:"productoStock"`
	Quantity     int       `json:"cantidad" validate:"min=1"`
	UnitPrice    float64   `json:"precioUnitario"`
	Subtotal     float64   `json:"subtotal"`
	AddedAt      LocalTime `json:"fechaAgregado"`
}

// AddCartItemRequest is the body of POST /carrito/items
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"productoId" validate:"required"`
	Quantity  int       `json:"cantidad" validate:"min=1"`
}

// UpdateQuantityRequest is the body of PUT /carrito/items/{id}
type UpdateQuantityRequest struct {
	Quantity int `json:"cantidad" validate:"min=1"`
}

// CartTotal is the payload of GET /carrito/total
type CartTotal struct {
	Total float64 `json:"total"`
}

// CartCount is the payload of GET /carrito/cantidad
type CartCount struct {
	Count int `json:"cantidad"`
}

// StockCheck is the payload of GET /carrito/verificar-stock
type StockCheck struct {
	Available bool   `json:"stockDisponible"`
	Message   string `json:"mensaje"`
}
