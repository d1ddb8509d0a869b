package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
)

type SanctionService struct {
	doer gateway.Doer
}

func NewSanctionService(d gateway.Doer) *SanctionService {
	return &SanctionService{doer: d}
}

func (s *SanctionService) List(ctx context.Context, p PageRequest) (models.Page[models.Sanction], error) {
	return gateway.Call[models.Page[models.Sanction]](ctx, s.doer, gateway.Request{
		Path:  "/moderador/sanciones",
		Query: p.values(),
	})
}

func (s *SanctionService) Create(ctx context.Context, req models.SanctionRequest) (models.Sanction, error) {
	return gateway.Call[models.Sanction](ctx, s.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   "/moderador/sanciones",
		Body:   req,
	})
}

func (s *SanctionService) ForUser(ctx context.Context, userID uuid.UUID) ([]models.Sanction, error) {
	return gateway.Call[[]models.Sanction](ctx, s.doer, gateway.Request{Path: pathf("/moderador/sanciones/usuario/%s", userID)})
}

// IssuedBy lists sanctions imposed by a moderator
func (s *SanctionService) IssuedBy(ctx context.Context, moderatorID uuid.UUID) ([]models.Sanction, error) {
	return gateway.Call[[]models.Sanction](ctx, s.doer, gateway.Request{Path: pathf("/moderador/sanciones/moderador/%s", moderatorID)})
}

func (s *SanctionService) Deactivate(ctx context.Context, id int) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{
		Method: http.MethodPut,
		Path:   pathf("/moderador/sanciones/%d/desactivar", id),
	})
}
