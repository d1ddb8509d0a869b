package models

import "github.com/google/uuid"

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDIENTE"
	OrderConfirmed OrderStatus = "CONFIRMADO"
	OrderPreparing OrderStatus = "EN_PREPARACION"
	OrderShipped   OrderStatus = "ENVIADO"
	OrderDelivered OrderStatus = "ENTREGADO"
	OrderCancelled OrderStatus = "CANCELADO"
)

// ParseOrderStatus validates a status name
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderShipped, OrderDelivered, OrderCancelled:
		return st, true
	}
	return "", false
}

// Final reports whether no further transition is possible
func (s OrderStatus) Final() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Order mirrors the backend's order response
type Order struct {
	ID                  uuid.UUID   `json:"id" validate:"required"`
	OrderNumber         string      `json:"numeroOrden"`
	UserID              uuid.UUID   `json:"usuarioId"`
	UserName            string      `json:"usuarioNombre"`
	UserEmail           string      `json:"usuarioEmail"`
	Items               []OrderItem `json:"items" validate:"dive"`
	ItemCount           int         `json:"cantidadTotalItems"`
	Total               float64     `json:"total" validate:"min=0"`
	Status              OrderStatus `json:"estado" validate:"required"`
	ShippingAddress     string      `json:"direccionEnvio"`
	ContactPhone        string      `json:"telefonoContacto"`
	PaymentMethod       string      `json:"metodoPago"`
	Notes               string      `json:"notas"`
	OrderedAt           LocalTime   `json:"fechaPedido"`
	UpdatedAt           LocalTime   `json:"fechaActualizacion"`
	CancelledAt         LocalTime   `json:"fechaCancelacion"`
	CancellationReason  string      `json:"motivoCancelacion"`
	DeliveredAt         LocalTime   `json:"fechaEntrega"`
	EstimatedDeliveryAt LocalTime   `json:"fechaEntregaEstimada"`
	Cancellable         bool        `json:"puedeSerCancelado"`
	Final               bool        `json:"esFinal"`
}

// OrderItem is one order line
type OrderItem struct {
	ID           int64     `json:"id"`
	ProductID    uuid.UUID `json:"productoId"`
	ProductName  string    `json:"productoNombre"`
	ProductImage string    `json:"productoImagen"`
	VendorName   string    `json:"vendedorNombre"`
	Quantity     int       `json:"cantidad"`
	UnitPrice    float64   `json:"precioUnitario"`
	Subtotal     float64   `json:"subtotal"`
}

// PlaceOrderRequest is the body of POST /pedidos/crear-desde-carrito
type PlaceOrderRequest struct {
	ShippingAddress string `json:"direccionEnvio" validate:"required,max=500"`
	ContactPhone    string `json:"telefonoContacto" validate:"required,max=20"`
	PaymentMethod   string `json:"metodoPago" validate:"required"`
	Notes           string `json:"notas,omitempty" validate:"max=1000"`
}

// UpdateOrderStatusRequest is the body of PUT /pedidos/{id}/estado
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"nuevoEstado" validate:"required"`
	Notes  string      `json:"notas,omitempty"`
}

// DeliveryDateRequest is the body of PUT /pedidos/{id}/fecha-entrega
type DeliveryDateRequest struct {
	EstimatedDeliveryAt LocalTime `json:"fechaEntregaEstimada"`
}

// OrderSummary is the payload of GET /pedidos/resumen
type OrderSummary struct {
	Pending        int64   `json:"pedidosPendientes"`
	Confirmed      int64   `json:"pedidosConfirmados"`
	Preparing      int64   `json:"pedidosEnPreparacion"`
	Shipped        int64   `json:"pedidosEnviados"`
	Delivered      int64   `json:"pedidosEntregados"`
	Cancelled      int64   `json:"pedidosCancelados"`
	TotalPurchases float64 `json:"totalCompras"`
	TotalOrders    int64   `json:"totalPedidos"`
}
