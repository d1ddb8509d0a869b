package models

import (
	"time"

	"github.com/google/uuid"
)

// DateRange bounds the date-ranged reports
type DateRange struct {
	From time.Time
	To   time.Time
}

// Valid reports whether both bounds are set and ordered
func (r DateRange) Valid() bool {
	return !r.From.IsZero() && !r.To.IsZero() && !r.To.Before(r.From)
}

// ProductSalesRow is one row of the best-selling products report
type ProductSalesRow struct {
	ProductID   uuid.UUID `json:"productoId" validate:"required"`
	ProductName string    `json:"nombreProducto"`
	UnitsSold   int64     `json:"totalVendido"`
	Revenue     float64   `json:"ingresosTotales"`
}

// CustomerProfitRow is one row of the customers-by-spend report
type CustomerProfitRow struct {
	UserID     uuid.UUID `json:"usuarioId" validate:"required"`
	FullName   string    `json:"nombreCompleto"`
	TotalSpent float64   `json:"totalGastado"`
	OrderCount int64     `json:"cantidadPedidos"`
}

// CustomerSalesRow is one row of the sellers-by-sales report
type CustomerSalesRow struct {
	UserID    uuid.UUID `json:"usuarioId" validate:"required"`
	FullName  string    `json:"nombreCompleto"`
	UnitsSold int64     `json:"totalProductosVendidos"`
	Revenue   float64   `json:"ingresosGenerados"`
}

// CustomerOrdersRow is one row of the customers-by-orders report
type CustomerOrdersRow struct {
	UserID     uuid.UUID `json:"usuarioId" validate:"required"`
	FullName   string    `json:"nombreCompleto"`
	OrderCount int64     `json:"cantidadPedidos"`
	TotalSpent float64   `json:"totalGastado"`
}

// CustomerProductsRow is one row of the vendors-by-listings report
type CustomerProductsRow struct {
	UserID           uuid.UUID `json:"usuarioId" validate:"required"`
	FullName         string    `json:"nombreCompleto"`
	ProductCount     int64     `json:"cantidadProductos"`
	ApprovedProducts int64     `json:"productosAprobados"`
}
