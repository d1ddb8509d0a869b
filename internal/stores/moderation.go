package stores

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"marketplace-client/internal/authz"
	"marketplace-client/internal/models"
	"marketplace-client/internal/notify"
	"marketplace-client/internal/services"
)

// ModerationPageSize is the moderation queue's page size
const ModerationPageSize = 10

// ModerationState is a snapshot of the moderation panel
type ModerationState struct {
	Requests            []models.ModerationRequest `json:"requests"`
	Current             *models.ModerationRequest  `json:"current,omitempty"`
	StatusFilter        models.ModerationStatus    `json:"statusFilter"`
	Pagination          models.Pagination          `json:"pagination"`
	Stats               models.ModerationStats     `json:"stats"`
	PendingReviews      []models.Review            `json:"pendingReviews"`
	TotalPendingReviews int64                      `json:"totalPendingReviews"`
	Loading             bool                       `json:"loading"`
	LoadingReviews      bool                       `json:"loadingReviews"`
}

// ModerationStore backs the moderator panel: product requests and pending reviews
type ModerationStore struct {
	base
	requests *services.ModerationService
	reviews  *services.ReviewService

	reviewsLoading Loading

	mu    sync.RWMutex
	state ModerationState
}

func NewModerationStore(requests *services.ModerationService, reviews *services.ReviewService, deps Deps) *ModerationStore {
	s := &ModerationStore{
		requests: requests,
		reviews:  reviews,
		state: ModerationState{
			Requests:       []models.ModerationRequest{},
			PendingReviews: []models.Review{},
			StatusFilter:   models.ModerationPending,
			Pagination:     models.Pagination{Size: ModerationPageSize},
		},
	}
	s.init("moderation", deps)
	return s
}

func (s *ModerationStore) State() ModerationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Requests = append([]models.ModerationRequest(nil), s.state.Requests...)
	st.PendingReviews = append([]models.Review(nil), s.state.PendingReviews...)
	st.Loading = s.IsLoading()
	st.LoadingReviews = s.reviewsLoading.Active()
	return st
}

// FetchRequests loads a page of requests for the current status filter
func (s *ModerationStore) FetchRequests(ctx context.Context, page int) error {
	if err := s.authorize(authz.ActionModerationReview); err != nil {
		return err
	}
	return track(&s.loading, func() error {
		s.mu.RLock()
		status := s.state.StatusFilter
		size := s.state.Pagination.Size
		s.mu.RUnlock()

		result, err := s.requests.List(ctx, status, services.PageRequest{Page: page, Size: size})
		if err != nil {
			s.mu.Lock()
			s.state.Requests = []models.ModerationRequest{}
			s.mu.Unlock()
			return s.fail(err, "Error al cargar solicitudes")
		}

		s.mu.Lock()
		s.state.Requests = result.Content
		if s.state.Requests == nil {
			s.state.Requests = []models.ModerationRequest{}
		}
		s.state.Pagination.Apply(result.TotalElements, result.TotalPages, result.Number)
		s.mu.Unlock()
		return nil
	})
}

func (s *ModerationStore) FetchRequest(ctx context.Context, id uuid.UUID) (models.ModerationRequest, error) {
	if err := s.authorize(authz.ActionModerationReview); err != nil {
		return models.ModerationRequest{}, err
	}
	var req models.ModerationRequest
	err := track(&s.loading, func() error {
		var err error
		req, err = s.requests.Get(ctx, id)
		if err != nil {
			return s.fail(err, "Error al cargar detalles de la solicitud")
		}
		s.mu.Lock()
		s.state.Current = &req
		s.mu.Unlock()
		return nil
	})
	return req, err
}

// ResetCurrent forgets the request opened in the detail view
func (s *ModerationStore) ResetCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Current = nil
}

// Approve accepts a request. The comment is optional.
func (s *ModerationStore) Approve(ctx context.Context, id uuid.UUID, comment string) bool {
	return s.decide(ctx, "Solicitud aprobada exitosamente", "Error al aprobar solicitud",
		func(ctx context.Context) error {
			_, err := s.requests.Approve(ctx, id, strings.TrimSpace(comment))
			return err
		})
}

// Reject refuses a request; reason must not be blank
func (s *ModerationStore) Reject(ctx context.Context, id uuid.UUID, reason string) bool {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		_ = s.preflight("Debes indicar el motivo del rechazo")
		return false
	}
	return s.decide(ctx, "Solicitud rechazada", "Error al rechazar solicitud",
		func(ctx context.Context) error {
			_, err := s.requests.Reject(ctx, id, reason)
			return err
		})
}

// RequestChanges sends the request back to the vendor; comment must not be blank
func (s *ModerationStore) RequestChanges(ctx context.Context, id uuid.UUID, comment string) bool {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		_ = s.preflight("Debes indicar los cambios solicitados")
		return false
	}
	return s.decide(ctx, "Cambios solicitados al vendedor", "Error al solicitar cambios",
		func(ctx context.Context) error {
			_, err := s.requests.RequestChanges(ctx, id, comment)
			return err
		})
}

func (s *ModerationStore) decide(ctx context.Context, success, fallback string, mutation func(context.Context) error) bool {
	if err := s.authorize(authz.ActionModerationReview); err != nil {
		return false
	}
	err := MutateThenResync(ctx, &s.loading, mutation, func(ctx context.Context) error {
		s.mu.RLock()
		page := s.state.Pagination.Page
		s.mu.RUnlock()
		if err := s.FetchRequests(ctx, page); err != nil {
			return err
		}
		return s.FetchStats(ctx)
	})
	if err != nil {
		_ = s.fail(err, fallback)
		return false
	}
	notify.Success(s.notifier, success)
	return true
}

// SetStatusFilter switches the queue filter and reloads page 0
func (s *ModerationStore) SetStatusFilter(ctx context.Context, status models.ModerationStatus) error {
	if _, ok := models.ParseModerationStatus(string(status)); !ok {
		return s.preflight("Estado de moderación desconocido: " + string(status))
	}
	s.mu.Lock()
	s.state.StatusFilter = status
	s.state.Pagination.Page = 0
	s.mu.Unlock()
	return s.FetchRequests(ctx, 0)
}

func (s *ModerationStore) ChangePage(ctx context.Context, page int) error {
	if page < 0 {
		page = 0
	}
	return s.FetchRequests(ctx, page)
}

// FetchStats refreshes the queue counters. Failures are logged only.
func (s *ModerationStore) FetchStats(ctx context.Context) error {
	stats, err := s.requests.Stats(ctx)
	if err != nil {
		s.logger.Warn("Failed to load moderation stats", "error", err)
		return err
	}
	s.mu.Lock()
	s.state.Stats = stats
	s.mu.Unlock()
	return nil
}

func (s *ModerationStore) FetchPendingReviews(ctx context.Context, page int) error {
	if err := s.authorize(authz.ActionReviewsModerate); err != nil {
		return err
	}
	return track(&s.reviewsLoading, func() error {
		result, err := s.reviews.Pending(ctx, services.PageRequest{Page: page, Size: ModerationPageSize})
		if err != nil {
			s.logger.Warn("Failed to load pending reviews", "error", err)
			s.mu.Lock()
			s.state.PendingReviews = []models.Review{}
			s.mu.Unlock()
			return err
		}
		s.mu.Lock()
		s.state.PendingReviews = result.Content
		if s.state.PendingReviews == nil {
			s.state.PendingReviews = []models.Review{}
		}
		s.state.TotalPendingReviews = result.TotalElements
		s.mu.Unlock()
		return nil
	})
}

func (s *ModerationStore) ApproveReview(ctx context.Context, id int64) bool {
	return s.decideReview(ctx, "Review aprobada", "Error al aprobar review",
		func(ctx context.Context) error { return s.reviews.Approve(ctx, id) })
}

func (s *ModerationStore) RejectReview(ctx context.Context, id int64) bool {
	return s.decideReview(ctx, "Review rechazada", "Error al rechazar review",
		func(ctx context.Context) error { return s.reviews.Reject(ctx, id) })
}

func (s *ModerationStore) decideReview(ctx context.Context, success, fallback string, mutation func(context.Context) error) bool {
	if err := s.authorize(authz.ActionReviewsModerate); err != nil {
		return false
	}
	err := MutateThenResync(ctx, &s.reviewsLoading, mutation, func(ctx context.Context) error {
		return s.FetchPendingReviews(ctx, 0)
	})
	if err != nil {
		_ = s.fail(err, fallback)
		return false
	}
	notify.Success(s.notifier, success)
	return true
}
