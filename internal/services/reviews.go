package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
)

// ReviewService covers /reviews
type ReviewService struct {
	doer gateway.Doer
}

func NewReviewService(d gateway.Doer) *ReviewService {
	return &ReviewService{doer: d}
}

func (s *ReviewService) ForProduct(ctx context.Context, productID uuid.UUID, p PageRequest) (models.Page[models.Review], error) {
	return s.page(ctx, pathf("/reviews/producto/%s", productID), p)
}

func (s *ReviewService) Create(ctx context.Context, req models.ReviewRequest) (models.Review, error) {
	return gateway.Call[models.Review](ctx, s.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   "/reviews",
		Body:   req,
	})
}

// Pending lists reviews awaiting moderation
func (s *ReviewService) Pending(ctx context.Context, p PageRequest) (models.Page[models.Review], error) {
	return s.page(ctx, "/reviews/pendientes", p)
}

func (s *ReviewService) Approve(ctx context.Context, id int64) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{Method: http.MethodPut, Path: pathf("/reviews/%d/aprobar", id)})
}

func (s *ReviewService) Reject(ctx context.Context, id int64) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{Method: http.MethodPut, Path: pathf("/reviews/%d/rechazar", id)})
}

func (s *ReviewService) Mine(ctx context.Context, p PageRequest) (models.Page[models.Review], error) {
	return s.page(ctx, "/reviews/mis-reviews", p)
}

func (s *ReviewService) Vote(ctx context.Context, id int64, helpful bool) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   pathf("/reviews/%d/votar", id),
		Body:   models.VoteRequest{Helpful: helpful},
	})
}

func (s *ReviewService) page(ctx context.Context, path string, p PageRequest) (models.Page[models.Review], error) {
	return gateway.Call[models.Page[models.Review]](ctx, s.doer, gateway.Request{Path: path, Query: p.values()})
}
