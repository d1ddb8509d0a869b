package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
)

// ProductService covers catalog browsing, listing management and product approval
type ProductService struct {
	doer gateway.Doer
}

func NewProductService(d gateway.Doer) *ProductService {
	return &ProductService{doer: d}
}

// FilterQuery encodes a catalog query. Unset filters are omitted.
func FilterQuery(p PageRequest, f models.ProductFilters) url.Values {
	q := p.values()
	if f.CategoryID != nil {
		q.Set("categoria", itoa(*f.CategoryID))
	}
	if f.MinPrice != nil {
		q.Set("precioMin", formatFloat(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		q.Set("precioMax", formatFloat(*f.MaxPrice))
	}
	if f.Sort != "" {
		q.Set("ordenar", f.Sort)
	}
	return q
}

// Available lists approved, in-stock products matching the filters
func (s *ProductService) Available(ctx context.Context, p PageRequest, f models.ProductFilters) (models.Page[models.Product], error) {
	return s.page(ctx, "/productos/disponibles", FilterQuery(p, f))
}

// List returns every product regardless of state
func (s *ProductService) List(ctx context.Context, p PageRequest) (models.Page[models.Product], error) {
	return s.page(ctx, "/productos", p.values())
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (models.Product, error) {
	return gateway.Call[models.Product](ctx, s.doer, gateway.Request{Path: pathf("/productos/%s", id)})
}

func (s *ProductService) Search(ctx context.Context, term string, p PageRequest) (models.Page[models.Product], error) {
	q := p.values()
	q.Set("q", term)
	return s.page(ctx, "/productos/buscar", q)
}

func (s *ProductService) ByPrice(ctx context.Context, lo, hi float64, p PageRequest) (models.Page[models.Product], error) {
	q := p.values()
	q.Set("min", formatFloat(lo))
	q.Set("max", formatFloat(hi))
	return s.page(ctx, "/productos/filtrar/precio", q)
}

func (s *ProductService) ByCategory(ctx context.Context, categoryID int, p PageRequest) (models.Page[models.Product], error) {
	return s.page(ctx, pathf("/productos/categoria/%d", categoryID), p.values())
}

func (s *ProductService) ByStatus(ctx context.Context, status models.ProductStatus, p PageRequest) (models.Page[models.Product], error) {
	return s.page(ctx, pathf("/productos/estado/%s", status), p.values())
}

// Mine lists the caller's own listings
func (s *ProductService) Mine(ctx context.Context, p PageRequest) (models.Page[models.Product], error) {
	return s.page(ctx, "/productos/mis-productos", p.values())
}

func (s *ProductService) Featured(ctx context.Context) ([]models.Product, error) {
	return gateway.Call[[]models.Product](ctx, s.doer, gateway.Request{Path: "/productos/destacados"})
}

func (s *ProductService) Create(ctx context.Context, req models.ProductRequest) (models.Product, error) {
	return gateway.Call[models.Product](ctx, s.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   "/productos",
		Body:   req,
	})
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req models.ProductRequest) (models.Product, error) {
	return gateway.Call[models.Product](ctx, s.doer, gateway.Request{
		Method: http.MethodPut,
		Path:   pathf("/productos/%s", id),
		Body:   req,
	})
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{Method: http.MethodDelete, Path: pathf("/productos/%s", id)})
}

func (s *ProductService) Approve(ctx context.Context, id uuid.UUID) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{Method: http.MethodPost, Path: pathf("/productos/%s/aprobar", id)})
}

func (s *ProductService) Reject(ctx context.Context, id uuid.UUID) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{Method: http.MethodPost, Path: pathf("/productos/%s/rechazar", id)})
}

func (s *ProductService) page(ctx context.Context, path string, q url.Values) (models.Page[models.Product], error) {
	return gateway.Call[models.Page[models.Product]](ctx, s.doer, gateway.Request{Path: path, Query: q})
}
