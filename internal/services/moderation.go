package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
)

// ModerationService covers the moderator's request queue under /moderador/solicitudes
type ModerationService struct {
	doer gateway.Doer
}

func NewModerationService(d gateway.Doer) *ModerationService {
	return &ModerationService{doer: d}
}

// List picks the endpoint for the status filter: TODOS lists everything,
// PENDIENTE uses the dedicated pending queue.
func (s *ModerationService) List(ctx context.Context, status models.ModerationStatus, p PageRequest) (models.Page[models.ModerationRequest], error) {
	path := "/moderador/solicitudes"
	switch status {
	case "", models.ModerationAll:
	case models.ModerationPending:
		path = "/moderador/solicitudes/pendientes"
	default:
		path = pathf("/moderador/solicitudes/estado/%s", status)
	}
	return gateway.Call[models.Page[models.ModerationRequest]](ctx, s.doer, gateway.Request{Path: path, Query: p.values()})
}

func (s *ModerationService) Get(ctx context.Context, id uuid.UUID) (models.ModerationRequest, error) {
	return gateway.Call[models.ModerationRequest](ctx, s.doer, gateway.Request{Path: pathf("/moderador/solicitudes/%s", id)})
}

// Approve accepts the request; comment is optional
func (s *ModerationService) Approve(ctx context.Context, id uuid.UUID, comment string) (models.ModerationRequest, error) {
	return s.decide(ctx, id, "aprobar", models.ModerationDecision{Comment: comment})
}

func (s *ModerationService) Reject(ctx context.Context, id uuid.UUID, reason string) (models.ModerationRequest, error) {
	return s.decide(ctx, id, "rechazar", models.ModerationDecision{Reason: reason})
}

func (s *ModerationService) RequestChanges(ctx context.Context, id uuid.UUID, comment string) (models.ModerationRequest, error) {
	return s.decide(ctx, id, "solicitar-cambios", models.ModerationDecision{Comment: comment})
}

func (s *ModerationService) Stats(ctx context.Context) (models.ModerationStats, error) {
	return gateway.Call[models.ModerationStats](ctx, s.doer, gateway.Request{Path: "/moderador/estadisticas"})
}

func (s *ModerationService) decide(ctx context.Context, id uuid.UUID, action string, body models.ModerationDecision) (models.ModerationRequest, error) {
	return gateway.Call[models.ModerationRequest](ctx, s.doer, gateway.Request{
		Method: http.MethodPut,
		Path:   pathf("/moderador/solicitudes/%s/%s", id, action),
		Body:   body,
	})
}
