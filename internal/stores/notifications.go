package stores

import (
	"context"
	"sync"

	"marketplace-client/internal/models"
	"marketplace-client/internal/notify"
	"marketplace-client/internal/services"
)

// NotificationState is a snapshot of the inbox
type NotificationState struct {
	Items       []models.Notification `json:"items"`
	UnreadCount int64                 `json:"unreadCount"`
	Pagination  models.Pagination     `json:"pagination"`
	Loading     bool                  `json:"loading"`
}

// NotificationStore mirrors the caller's notification inbox
type NotificationStore struct {
	base
	svc *services.NotificationService

	mu    sync.RWMutex
	state NotificationState
}

func NewNotificationStore(svc *services.NotificationService, deps Deps) *NotificationStore {
	s := &NotificationStore{
		svc: svc,
		state: NotificationState{
			Items:      []models.Notification{},
			Pagination: models.Pagination{Size: services.NotificationPageSize},
		},
	}
	s.init("notifications", deps)
	return s
}

func (s *NotificationStore) State() NotificationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Items = append([]models.Notification(nil), s.state.Items...)
	st.Loading = s.IsLoading()
	return st
}

func (s *NotificationStore) UnreadCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UnreadCount
}

func (s *NotificationStore) Fetch(ctx context.Context, page int) error {
	return track(&s.loading, func() error {
		result, err := s.svc.List(ctx, services.PageRequest{Page: page, Size: services.NotificationPageSize})
		if err != nil {
			return s.fail(err, "Error al cargar notificaciones")
		}
		s.mu.Lock()
		s.state.Items = result.Content
		if s.state.Items == nil {
			s.state.Items = []models.Notification{}
		}
		s.state.Pagination.Apply(result.TotalElements, result.TotalPages, result.Number)
		s.mu.Unlock()
		return nil
	})
}

// RefreshUnreadCount polls the unread badge. Without a session it resets the
// count and sends nothing, so a background poll never triggers a login redirect.
func (s *NotificationStore) RefreshUnreadCount(ctx context.Context) (int64, error) {
	if s.deps.Subject != nil && !s.deps.Subject.IsAuthenticated() {
		s.setUnread(0)
		return 0, nil
	}
	n, err := s.svc.UnreadCount(ctx)
	if err != nil {
		s.logger.Warn("Failed to refresh unread count", "error", err)
		return s.UnreadCount(), err
	}
	s.setUnread(n)
	return n, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, id int64) error {
	return s.mutate(ctx, func(ctx context.Context) error { return s.svc.MarkRead(ctx, id) }, "Error al marcar la notificación", "")
}

func (s *NotificationStore) MarkAllRead(ctx context.Context) error {
	return s.mutate(ctx, s.svc.MarkAllRead, "Error al marcar las notificaciones", "Todas las notificaciones marcadas como leídas")
}

func (s *NotificationStore) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, func(ctx context.Context) error { return s.svc.Delete(ctx, id) }, "Error al eliminar la notificación", "Notificación eliminada")
}

// DeleteRead removes every read notification
func (s *NotificationStore) DeleteRead(ctx context.Context) error {
	return s.mutate(ctx, s.svc.DeleteRead, "Error al eliminar las notificaciones leídas", "Notificaciones leídas eliminadas")
}

func (s *NotificationStore) mutate(ctx context.Context, mutation func(context.Context) error, fallback, success string) error {
	err := MutateThenResync(ctx, &s.loading, mutation, func(ctx context.Context) error {
		s.mu.RLock()
		page := s.state.Pagination.Page
		s.mu.RUnlock()
		if err := s.Fetch(ctx, page); err != nil {
			return err
		}
		_, err := s.RefreshUnreadCount(ctx)
		return err
	})
	if err != nil {
		return s.fail(err, fallback)
	}
	if success != "" {
		notify.Success(s.notifier, success)
	}
	return nil
}

// Reset clears the inbox, used when the session ends
func (s *NotificationStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Items = []models.Notification{}
	s.state.UnreadCount = 0
}

func (s *NotificationStore) setUnread(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UnreadCount = n
}
