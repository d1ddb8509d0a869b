package models

import "github.com/google/uuid"

// ProductStatus is the moderation state of a product listing
type ProductStatus string

const (
	ProductPendingReview ProductStatus = "PENDIENTE_REVISION"
	ProductApproved      ProductStatus = "APROBADO"
	ProductRejected      ProductStatus = "RECHAZADO"
	ProductActive        ProductStatus = "ACTIVO"
	ProductInactive      ProductStatus = "INACTIVO"
	ProductSoldOut       ProductStatus = "AGOTADO"
)

// Product mirrors the backend's product response
type Product struct {
	ID            uuid.UUID     `json:"id" validate:"required"`
	Name          string        `json:"nombre" validate:"required"`
	Description   string        `json:"descripcion"`
	Price         float64       `json:"precio" validate:"min=0"`
	DiscountPrice *float64      `json:"precioDescuento,omitempty"`
	FinalPrice    float64       `json:"precioFinal"`
	Stock         int           `json:"stock" validate:"min=0"`
	Brand         string        `json:"marca"`
	Model         string        `json:"modelo"`
	Status        ProductStatus `json:"estado"`
	Featured      bool          `json:"destacado"`
	CategoryID    int           `json:"categoriaId"`
	CategoryName  string        `json:"categoriaNombre"`
	VendorID      uuid.UUID     `json:"vendedorId"`
	VendorName    string        `json:"vendedorNombre"`
	Images        []string      `json:"imagenes"`
	MainImage     string        `json:"imagenPrincipal"`
	CreatedAt     LocalTime     `json:"fechaCreacion"`
	UpdatedAt     LocalTime     `json:"fechaActualizacion"`
}

// ProductSummary is the nested product reference inside moderation payloads
type ProductSummary struct {
	ID     uuid.UUID     `json:"id"`
	Name   string        `json:"nombre"`
	Price  float64       `json:"precio"`
	Stock  int           `json:"stock"`
	Status ProductStatus `json:"estado"`
}

// ProductRequest creates or updates a listing
type ProductRequest struct {
	Name          string   `json:"nombre" validate:"required,max=200"`
	Description   string   `json:"descripcion,omitempty"`
	Price         float64  `json:"precio" validate:"gt=0"`
	DiscountPrice *float64 `json:"precioDescuento,omitempty" validate:"omitempty,gte=0"`
	Stock         int      `json:"stock" validate:"min=0"`
	Brand         string   `json:"marca,omitempty"`
	Model         string   `json:"modelo,omitempty"`
	CategoryID    int      `json:"categoriaId" validate:"required"`
	Images        []string `json:"imagenes,omitempty" validate:"omitempty,dive,url"`
}

// ProductFilters is the catalog query owned by the product store
type ProductFilters struct {
	CategoryID *int     `json:"categoria,omitempty"`
	MinPrice   *float64 `json:"precioMin,omitempty"`
	MaxPrice   *float64 `json:"precioMax,omitempty"`
	Sort       string   `json:"ordenar"`
}

// DefaultProductFilters returns the catalog's initial query
func DefaultProductFilters() ProductFilters {
	return ProductFilters{Sort: "fecha_desc"}
}

// Category mirrors the backend's category response
type Category struct {
	ID           int       `json:"id" validate:"required"`
	Name         string    `json:"nombre" validate:"required"`
	Description  string    `json:"descripcion"`
	ImageURL     string    `json:"imagenUrl"`
	Active       bool      `json:"activo"`
	CreatedAt    LocalTime `json:"fechaCreacion"`
	ProductCount int       `json:"cantidadProductos"`
}

// CategoryRequest creates or updates a category
type CategoryRequest struct {
	Name        string `json:"nombre" validate:"required,max=100"`
	Description string `json:"descripcion,omitempty"`
	ImageURL    string `json:"imagenUrl,omitempty" validate:"omitempty,url"`
	Active      *bool  `json:"activo,omitempty"`
}
