package services

import (
	"context"
	"net/http"

	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
)

// NotificationPageSize matches the backend's default for the inbox
const NotificationPageSize = 20

type NotificationService struct {
	doer gateway.Doer
}

func NewNotificationService(d gateway.Doer) *NotificationService {
	return &NotificationService{doer: d}
}

func (s *NotificationService) List(ctx context.Context, p PageRequest) (models.Page[models.Notification], error) {
	if p.Size <= 0 {
		p.Size = NotificationPageSize
	}
	return gateway.Call[models.Page[models.Notification]](ctx, s.doer, gateway.Request{
		Path:  "/notificaciones",
		Query: p.values(),
	})
}

func (s *NotificationService) Unread(ctx context.Context) ([]models.Notification, error) {
	return gateway.Call[[]models.Notification](ctx, s.doer, gateway.Request{Path: "/notificaciones/no-leidas"})
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	out, err := gateway.Call[models.UnreadCount](ctx, s.doer, gateway.Request{Path: "/notificaciones/no-leidas/count"})
	return out.Count, err
}

func (s *NotificationService) Recent(ctx context.Context) ([]models.Notification, error) {
	return gateway.Call[[]models.Notification](ctx, s.doer, gateway.Request{Path: "/notificaciones/recientes"})
}

func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{Method: http.MethodPut, Path: pathf("/notificaciones/%d/leer", id)})
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{Method: http.MethodPut, Path: "/notificaciones/marcar-todas-leidas"})
}

func (s *NotificationService) Delete(ctx context.Context, id int64) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{Method: http.MethodDelete, Path: pathf("/notificaciones/%d", id)})
}

// DeleteRead removes every read notification
func (s *NotificationService) DeleteRead(ctx context.Context) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{Method: http.MethodDelete, Path: "/notificaciones/leidas"})
}
