package services

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"marketplace-client/internal/cache"
	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
)

const activeCategoriesKey = "activas"

// CategoryService covers /categorias. The active list changes rarely and is
// cached for ttl; any category mutation drops the cache.
type CategoryService struct {
	doer   gateway.Doer
	active *cache.TTLCache[string, []models.Category]
}

// NewCategoryService creates the service. A non-positive ttl disables caching.
func NewCategoryService(d gateway.Doer, ttl time.Duration) *CategoryService {
	s := &CategoryService{doer: d}
	if ttl > 0 {
		s.active = cache.NewTTLCache[string, []models.Category](ttl, 0)
	}
	return s
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return gateway.Call[[]models.Category](ctx, s.doer, gateway.Request{Path: "/categorias"})
}

func (s *CategoryService) Active(ctx context.Context) ([]models.Category, error) {
	load := func(ctx context.Context) ([]models.Category, error) {
		return gateway.Call[[]models.Category](ctx, s.doer, gateway.Request{Path: "/categorias/activas"})
	}
	if s.active == nil {
		return load(ctx)
	}
	return s.active.GetOrLoad(ctx, activeCategoriesKey, load)
}

func (s *CategoryService) Get(ctx context.Context, id int) (models.Category, error) {
	return gateway.Call[models.Category](ctx, s.doer, gateway.Request{Path: pathf("/categorias/%d", id)})
}

func (s *CategoryService) Search(ctx context.Context, name string) ([]models.Category, error) {
	return gateway.Call[[]models.Category](ctx, s.doer, gateway.Request{
		Path:  "/categorias/buscar",
		Query: url.Values{"nombre": {name}},
	})
}

func (s *CategoryService) Create(ctx context.Context, req models.CategoryRequest) (models.Category, error) {
	defer s.invalidate()
	return gateway.Call[models.Category](ctx, s.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   "/categorias",
		Body:   req,
	})
}

func (s *CategoryService) Update(ctx context.Context, id int, req models.CategoryRequest) (models.Category, error) {
	defer s.invalidate()
	return gateway.Call[models.Category](ctx, s.doer, gateway.Request{
		Method: http.MethodPut,
		Path:   pathf("/categorias/%d", id),
		Body:   req,
	})
}

func (s *CategoryService) Delete(ctx context.Context, id int) error {
	defer s.invalidate()
	return gateway.Exec(ctx, s.doer, gateway.Request{Method: http.MethodDelete, Path: pathf("/categorias/%d", id)})
}

func (s *CategoryService) invalidate() {
	if s.active != nil {
		s.active.Clear()
	}
}

// Close stops the active-list cache
func (s *CategoryService) Close() {
	if s.active != nil {
		s.active.Stop()
	}
}
