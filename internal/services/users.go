package services

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
)

// UserService covers the admin user panel and the caller's own profile
type UserService struct {
	doer gateway.Doer
}

func NewUserService(d gateway.Doer) *UserService {
	return &UserService{doer: d}
}

// List sends every filter field; an empty role means all roles
func (s *UserService) List(ctx context.Context, f models.UserFilters) (models.Page[models.User], error) {
	q := PageRequest{Page: f.Page, Size: f.Size}.values()
	if f.Role != "" {
		q.Set("rol", f.Role)
	}
	if f.SortBy != "" {
		q.Set("sortBy", f.SortBy)
	}
	if f.Direction != "" {
		q.Set("direction", f.Direction)
	}
	return gateway.Call[models.Page[models.User]](ctx, s.doer, gateway.Request{Path: "/admin/usuarios", Query: q})
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (models.User, error) {
	return gateway.Call[models.User](ctx, s.doer, gateway.Request{Path: pathf("/admin/usuarios/%s", id)})
}

func (s *UserService) Create(ctx context.Context, req models.UserRequest) (models.User, error) {
	return gateway.Call[models.User](ctx, s.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   "/admin/usuarios",
		Body:   req,
	})
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, req models.UserRequest) (models.User, error) {
	return gateway.Call[models.User](ctx, s.doer, gateway.Request{
		Method: http.MethodPut,
		Path:   pathf("/admin/usuarios/%s", id),
		Body:   req,
	})
}

// SetActive activates or deactivates an account
func (s *UserService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	action := "desactivar"
	if active {
		action = "activar"
	}
	return gateway.Exec(ctx, s.doer, gateway.Request{
		Method: http.MethodPut,
		Path:   pathf("/admin/usuarios/%s/%s", id, action),
	})
}

func (s *UserService) Stats(ctx context.Context) (models.AdminStats, error) {
	return gateway.Call[models.AdminStats](ctx, s.doer, gateway.Request{Path: "/admin/estadisticas"})
}

func (s *UserService) Profile(ctx context.Context) (models.User, error) {
	return gateway.Call[models.User](ctx, s.doer, gateway.Request{Path: "/usuarios/perfil"})
}

func (s *UserService) UpdateProfile(ctx context.Context, req models.ProfileUpdate) (models.User, error) {
	return gateway.Call[models.User](ctx, s.doer, gateway.Request{
		Method: http.MethodPut,
		Path:   "/usuarios/perfil",
		Body:   req,
	})
}

func itoa(v int) string { return strconv.Itoa(v) }
