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

// AdminState is a snapshot of the admin user panel
type AdminState struct {
	Users      []models.User      `json:"users"`
	Selected   *models.User       `json:"selected,omitempty"`
	Stats      *models.AdminStats `json:"stats,omitempty"`
	Filters    models.UserFilters `json:"filters"`
	Pagination models.Pagination  `json:"pagination"`
	Loading    bool               `json:"loading"`
}

// AdminStore backs the admin user management panel
type AdminStore struct {
	base
	svc *services.UserService

	mu    sync.RWMutex
	state AdminState
}

func NewAdminStore(svc *services.UserService, deps Deps) *AdminStore {
	f := models.DefaultUserFilters()
	s := &AdminStore{
		svc: svc,
		state: AdminState{
			Users:      []models.User{},
			Filters:    f,
			Pagination: models.Pagination{Page: f.Page, Size: f.Size},
		},
	}
	s.init("admin", deps)
	return s
}

func (s *AdminStore) State() AdminState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Users = append([]models.User(nil), s.state.Users...)
	st.Loading = s.IsLoading()
	return st
}

// FetchUsers loads the user page selected by the current filters
func (s *AdminStore) FetchUsers(ctx context.Context) error {
	if err := s.authorize(authz.ActionUsersManage); err != nil {
		return err
	}
	return track(&s.loading, func() error {
		s.mu.RLock()
		f := s.state.Filters
		s.mu.RUnlock()

		page, err := s.svc.List(ctx, f)
		if err != nil {
			return s.fail(err, "Error al cargar usuarios")
		}

		s.mu.Lock()
		s.state.Users = page.Content
		if s.state.Users == nil {
			s.state.Users = []models.User{}
		}
		s.state.Pagination.Size = f.Size
		s.state.Pagination.Apply(page.TotalElements, page.TotalPages, page.Number)
		s.mu.Unlock()
		return nil
	})
}

func (s *AdminStore) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	if err := s.authorize(authz.ActionUsersManage); err != nil {
		return models.User{}, err
	}
	var user models.User
	err := track(&s.loading, func() error {
		var err error
		user, err = s.svc.Get(ctx, id)
		if err != nil {
			return s.fail(err, "Usuario no encontrado")
		}
		s.mu.Lock()
		s.state.Selected = &user
		s.mu.Unlock()
		return nil
	})
	return user, err
}

func (s *AdminStore) CreateUser(ctx context.Context, req models.UserRequest) error {
	if err := s.authorize(authz.ActionUsersManage); err != nil {
		return err
	}
	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error {
			_, err := s.svc.Create(ctx, req)
			return err
		},
		s.FetchUsers)
	if err != nil {
		return s.fail(err, "Error al crear usuario")
	}
	notify.Success(s.notifier, "Usuario creado exitosamente")
	return nil
}

func (s *AdminStore) UpdateUser(ctx context.Context, id uuid.UUID, req models.UserRequest) error {
	if err := s.authorize(authz.ActionUsersManage); err != nil {
		return err
	}
	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error {
			_, err := s.svc.Update(ctx, id, req)
			return err
		},
		s.FetchUsers)
	if err != nil {
		return s.fail(err, "Error al actualizar usuario")
	}
	notify.Success(s.notifier, "Usuario actualizado")
	return nil
}

// ToggleStatus flips an account between active and inactive
func (s *AdminStore) ToggleStatus(ctx context.Context, user models.User) error {
	if err := s.authorize(authz.ActionUsersManage); err != nil {
		return err
	}
	activate := !user.Active
	err := MutateThenResync(ctx, &s.loading,
		func(ctx context.Context) error { return s.svc.SetActive(ctx, user.ID, activate) },
		s.FetchUsers)
	if err != nil {
		return s.fail(err, "Error al cambiar el estado del usuario")
	}
	if activate {
		notify.Success(s.notifier, "Usuario activado")
	} else {
		notify.Success(s.notifier, "Usuario desactivado")
	}
	return nil
}

func (s *AdminStore) FetchStats(ctx context.Context) (models.AdminStats, error) {
	if err := s.authorize(authz.ActionUsersManage); err != nil {
		return models.AdminStats{}, err
	}
	var stats models.AdminStats
	err := track(&s.loading, func() error {
		var err error
		stats, err = s.svc.Stats(ctx)
		if err != nil {
			return s.fail(err, "Error al cargar estadísticas")
		}
		s.mu.Lock()
		s.state.Stats = &stats
		s.mu.Unlock()
		return nil
	})
	return stats, err
}

// SetFilter replaces role and sort filters, rewinds to page 0 and refetches.
// A non-positive size keeps the current one.
func (s *AdminStore) SetFilter(ctx context.Context, f models.UserFilters) error {
	s.mu.Lock()
	if f.Size <= 0 {
		f.Size = s.state.Filters.Size
	}
	f.Page = 0
	s.state.Filters = f
	s.mu.Unlock()
	return s.FetchUsers(ctx)
}

func (s *AdminStore) ChangePage(ctx context.Context, page int) error {
	if page < 0 {
		page = 0
	}
	s.mu.Lock()
	s.state.Filters.Page = page
	s.mu.Unlock()
	return s.FetchUsers(ctx)
}

func (s *AdminStore) ResetFilters(ctx context.Context) error {
	s.mu.Lock()
	s.state.Filters = models.DefaultUserFilters()
	s.mu.Unlock()
	return s.FetchUsers(ctx)
}
