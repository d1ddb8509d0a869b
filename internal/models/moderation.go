package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ModerationStatus is the state of a moderation request
type ModerationStatus string

const (
	ModerationPending          ModerationStatus = "PENDIENTE"
	ModerationApproved         ModerationStatus = "APROBADO"
	ModerationRejected         ModerationStatus = "RECHAZADO"
	ModerationChangesRequested ModerationStatus = "CAMBIOS_SOLICITADOS"
	// ModerationAll is a filter value only; it never appears on a request.
	ModerationAll ModerationStatus = "TODOS"
)

// ParseModerationStatus validates a filter value
func ParseModerationStatus(s string) (ModerationStatus, bool) {
	switch st := ModerationStatus(s); st {
	case ModerationPending, ModerationApproved, ModerationRejected, ModerationChangesRequested, ModerationAll:
		return st, true
	}
	return "", false
}

// Terminal reports whether the backend will not transition the request further
func (s ModerationStatus) Terminal() bool {
	return s == ModerationApproved || s == ModerationRejected
}

// UnmarshalJSON folds the product-side pending state into PENDIENTE.
func (s *ModerationStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == string(ProductPendingReview) {
		raw = string(ModerationPending)
	}
	*s = ModerationStatus(raw)
	return nil
}

// ModerationRequest is a vendor submission awaiting or past review. The
// backend keys requests by the product under review.
type ModerationRequest struct {
	ID              uuid.UUID        `json:"id" validate:"required"`
	ProductName     string           `json:"nombre" validate:"required"`
	Description     string           `json:"descripcion"`
	Price           float64          `json:"precio"`
	Stock           int              `json:"stock"`
	ImageURL        string           `json:"imagenUrl"`
	Images          []string         `json:"imagenes"`
	Status          ModerationStatus `json:"estado" validate:"required,oneof=PENDIENTE APROBADO RECHAZADO CAMBIOS_SOLICITADOS"`
	ReviewerComment string           `json:"motivoRechazo"`
	CategoryName    string           `json:"categoriaNombre"`
	VendorID        uuid.UUID        `json:"vendedorId"`
	VendorName      string           `json:"vendedorNombre"`
	VendorEmail     string           `json:"vendedorEmail"`
	CreatedAt       LocalTime        `json:"fechaCreacion"`
	UpdatedAt       LocalTime        `json:"fechaActualizacion"`
}

// ModerationDecision is the body of the approve, reject and request-changes calls
type ModerationDecision struct {
	Comment string `json:"comentario,omitempty" validate:"max=1000"`
	Reason  string `json:"motivo,omitempty" validate:"max=1000"`
}

// ModerationStats is the payload of GET /moderador/estadisticas
type ModerationStats struct {
	Pending          int64 `json:"pendientes"`
	Approved         int64 `json:"aprobadas"`
	Rejected         int64 `json:"rechazadas"`
	ChangesRequested int64 `json:"cambiosSolicitados"`
}
