package models

import "github.com/google/uuid"

// Sanction is a moderator-imposed restriction on an account
type Sanction struct {
	ID        int         `json:"id" validate:"required"`
	User      UserSummary `json:"usuario"`
	Moderator UserSummary `json:"moderador"`
	Reason    string      `json:"razon" validate:"required"`
	StartsAt  LocalTime   `json:"fechaInicio"`
	EndsAt    LocalTime   `json:"fechaFin"`
	Active    bool        `json:"activa"`
	CreatedAt LocalTime   `json:"fechaCreacion"`
}

// SanctionRequest is the body of POST /moderador/sanciones
type SanctionRequest struct {
	UserID      uuid.UUID `json:"usuarioId" validate:"required"`
	ModeratorID uuid.UUID `json:"moderadorId"`
	Reason      string    `json:"razon" validate:"required,max=500"`
	// EndsAt is an ISO-8601 timestamp; empty means indefinite.
	EndsAt string `json:"fechaFin,omitempty"`
}
