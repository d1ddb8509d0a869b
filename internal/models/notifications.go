package models

// NotificationKind classifies a notification
type NotificationKind string

const (
	NotificationOrderCreated    NotificationKind = "PEDIDO_CREADO"
	NotificationOrderStatus     NotificationKind = "PEDIDO_ESTADO_CAMBIADO"
	NotificationReviewApproved  NotificationKind = "REVIEW_APROBADA"
	NotificationReviewRejected  NotificationKind = "REVIEW_RECHAZADA"
	NotificationLowStock        NotificationKind = "PRODUCTO_STOCK_BAJO"
	NotificationNewSale         NotificationKind = "NUEVA_VENTA"
	NotificationProductApproved NotificationKind = "PRODUCTO_APROBADO"
	NotificationProductRejected NotificationKind = "PRODUCTO_RECHAZADO"
)

// Notification mirrors the backend's notification response
type Notification struct {
	ID           int64            `json:"id" validate:"required"`
	Kind         NotificationKind `json:"tipo" validate:"required"`
	Title        string           `json:"titulo"`
	Message      string           `json:"mensaje"`
	URL          string           `json:"url"`
	Read         bool             `json:"leida"`
	Data         string           `json:"datos"`
	CreatedAt    LocalTime        `json:"fechaCreacion"`
	ReadAt       LocalTime        `json:"fechaLectura"`
	RelativeTime string           `json:"tiempoRelativo"`
}

// UnreadCount is the payload of GET /notificaciones/no-leidas/count
type UnreadCount struct {
	Count int64 `json:"count"`
}
