package stores

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"marketplace-client/internal/authz"
	"marketplace-client/internal/models"
	"marketplace-client/internal/notify"
	"marketplace-client/internal/services"
)

// CatalogPageSize is the product grid's page size
const CatalogPageSize = 12

// ProductState is a snapshot of the catalog store
type ProductState struct {
	Products   []models.Product      `json:"products"`
	Current    *models.Product       `json:"current,omitempty"`
	Featured   []models.Product      `json:"featured,omitempty"`
	Mine       []models.Product      `json:"mine,omitempty"`
	Pagination models.Pagination     `json:"pagination"`
	Filters    models.ProductFilters `json:"filters"`
	Query      string                `json:"query,omitempty"`
	Loading    bool                  `json:"loading"`
}

// ProductStore owns the catalog page, its filters and the product being viewed
type ProductStore struct {
	base
	svc *services.ProductService

	mu    sync.RWMutex
	state ProductState
}

func NewProductStore(svc *services.ProductService, deps Deps) *ProductStore {
	s := &ProductStore{
		svc: svc,
		state: ProductState{
			Products:   []models.Product{},
			Pagination: models.Pagination{Size: CatalogPageSize},
			Filters:    models.DefaultProductFilters(),
		},
	}
	s.init("products", deps)
	return s
}

func (s *ProductStore) State() ProductState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Products = append([]models.Product(nil), s.state.Products...)
	st.Featured = append([]models.Product(nil), s.state.Featured...)
	st.Mine = append([]models.Product(nil), s.state.Mine...)
	if s.state.Current != nil {
		cur := *s.state.Current
		st.Current = &cur
	}
	st.Loading = s.IsLoading()
	return st
}

func (s *ProductStore) IsFirstPage() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Pagination.IsFirst()
}

func (s *ProductStore) IsLastPage() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Pagination.IsLast()
}

// Fetch loads the current page of available products with the current filters
func (s *ProductStore) Fetch(ctx context.Context) error {
	return track(&s.loading, func() error {
		s.mu.RLock()
		page := services.PageRequest{Page: s.state.Pagination.Page, Size: s.state.Pagination.Size}
		filters := s.state.Filters
		s.mu.RUnlock()

		result, err := s.svc.Available(ctx, page, filters)
		if err != nil {
			return s.fail(err, "Error al cargar productos")
		}
		s.applyPage(result, "")
		return nil
	})
}

func (s *ProductStore) FetchByID(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var product models.Product
	err := track(&s.loading, func() error {
		var err error
		product, err = s.svc.Get(ctx, id)
		if err != nil {
			return s.fail(err, "Producto no encontrado")
		}
		s.mu.Lock()
		s.state.Current = &product
		s.mu.Unlock()
		return nil
	})
	return product, err
}

// Search replaces the grid with the results for term on the current page cursor
func (s *ProductStore) Search(ctx context.Context, term string) error {
	return track(&s.loading, func() error {
		s.mu.RLock()
		page := services.PageRequest{Page: s.state.Pagination.Page, Size: s.state.Pagination.Size}
		s.mu.RUnlock()

		result, err := s.svc.Search(ctx, term, page)
		if err != nil {
			return s.fail(err, "Error en la búsqueda")
		}
		s.applyPage(result, term)
		return nil
	})
}

func (s *ProductStore) Create(ctx context.Context, req models.ProductRequest) (models.Product, error) {
	if err := s.authorize(authz.ActionProductsPublish); err != nil {
		return models.Product{}, err
	}
	var created models.Product
	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error {
			var err error
			created, err = s.svc.Create(ctx, req)
			return err
		},
		s.Fetch)
	if err != nil {
		return created, s.fail(err, "Error al crear producto")
	}
	notify.Success(s.notifier, "Producto creado exitosamente")
	return created, nil
}

func (s *ProductStore) Update(ctx context.Context, id uuid.UUID, req models.ProductRequest) (models.Product, error) {
	if err := s.authorize(authz.ActionProductsPublish); err != nil {
		return models.Product{}, err
	}
	var updated models.Product
	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error {
			var err error
			updated, err = s.svc.Update(ctx, id, req)
			return err
		},
		func(ctx context.Context) error { return s.resync(ctx, id) })
	if err != nil {
		return updated, s.fail(err, "Error al actualizar producto")
	}
	notify.Success(s.notifier, "Producto actualizado")
	return updated, nil
}

func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.authorize(authz.ActionProductsPublish); err != nil {
		return err
	}
	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error { return s.svc.Delete(ctx, id) },
		func(ctx context.Context) error {
			s.mu.Lock()
			if s.state.Current != nil && s.state.Current.ID == id {
				s.state.Current = nil
			}
			s.mu.Unlock()
			return s.Fetch(ctx)
		})
	if err != nil {
		return s.fail(err, "Error al eliminar producto")
	}
	notify.Success(s.notifier, "Producto eliminado")
	return nil
}

// SetFilters merges f into the filters, rewinds to page 0 and refetches once
func (s *ProductStore) SetFilters(ctx context.Context, f models.ProductFilters) error {
	s.mu.Lock()
	if f.CategoryID != nil {
		s.state.Filters.CategoryID = f.CategoryID
	}
	if f.MinPrice != nil {
		s.state.Filters.MinPrice = f.MinPrice
	}
	if f.MaxPrice != nil {
		s.state.Filters.MaxPrice = f.MaxPrice
	}
	if f.Sort != "" {
		s.state.Filters.Sort = f.Sort
	}
	s.state.Pagination.Page = 0
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// ClearFilters restores the default filters and refetches page 0
func (s *ProductStore) ClearFilters(ctx context.Context) error {
	s.mu.Lock()
	s.state.Filters = models.DefaultProductFilters()
	s.state.Pagination.Page = 0
	s.mu.Unlock()
	return s.Fetch(ctx)
}

func (s *ProductStore) NextPage(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Pagination.IsLast() {
		s.mu.Unlock()
		return nil
	}
	s.state.Pagination.Page++
	s.mu.Unlock()
	return s.Fetch(ctx)
}

func (s *ProductStore) PreviousPage(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Pagination.Page == 0 {
		s.mu.Unlock()
		return nil
	}
	s.state.Pagination.Page--
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// GoToPage jumps to page n; out-of-range pages are ignored
func (s *ProductStore) GoToPage(ctx context.Context, n int) error {
	s.mu.Lock()
	if n < 0 || (s.state.Pagination.TotalPages > 0 && n >= s.state.Pagination.TotalPages) {
		s.mu.Unlock()
		return nil
	}
	s.state.Pagination.Page = n
	s.mu.Unlock()
	return s.Fetch(ctx)
}

func (s *ProductStore) FetchFeatured(ctx context.Context) ([]models.Product, error) {
	var featured []models.Product
	err := track(&s.loading, func() error {
		var err error
		featured, err = s.svc.Featured(ctx)
		if err != nil {
			return s.fail(err, "Error al cargar productos destacados")
		}
		s.mu.Lock()
		s.state.Featured = featured
		s.mu.Unlock()
		return nil
	})
	return featured, err
}

// FetchMine loads the caller's own listings
func (s *ProductStore) FetchMine(ctx context.Context, page int) (models.Page[models.Product], error) {
	var result models.Page[models.Product]
	err := track(&s.loading, func() error {
		var err error
		result, err = s.svc.Mine(ctx, services.PageRequest{Page: page, Size: CatalogPageSize})
		if err != nil {
			return s.fail(err, "Error al cargar tus productos")
		}
		s.mu.Lock()
		s.state.Mine = result.Content
		s.mu.Unlock()
		return nil
	})
	return result, err
}

func (s *ProductStore) resync(ctx context.Context, id uuid.UUID) error {
	if err := s.Fetch(ctx); err != nil {
		return err
	}
	s.mu.RLock()
	viewing := s.state.Current != nil && s.state.Current.ID == id
	s.mu.RUnlock()
	if viewing {
		_, err := s.FetchByID(ctx, id)
		return err
	}
	return nil
}

func (s *ProductStore) applyPage(result models.Page[models.Product], query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Products = result.Content
	if s.state.Products == nil {
		s.state.Products = []models.Product{}
	}
	s.state.Pagination.Apply(result.TotalElements, result.TotalPages, result.Number)
	s.state.Query = query
}
