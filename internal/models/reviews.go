package models

import "github.com/google/uuid"

// Review mirrors the backend's review response
type Review struct {
	ID             int64     `json:"id" validate:"required"`
	ProductID      uuid.UUID `json:"productoId"`
	ProductName    string    `json:"productoNombre"`
	UserID         uuid.UUID `json:"usuarioId"`
	UserName       string    `json:"usuarioNombre"`
	Rating         int       `json:"calificacion" validate:"min=0,max=5"`
	Title          string    `json:"titulo"`
	Comment        string    `json:"comentario"`
	HelpfulVotes   int64     `json:"votosUtiles"`
	UnhelpfulVotes int64     `json:"votosNoUtiles"`
	VoteBalance    int64     `json:"balanceVotos"`
	Verified       bool      `json:"verificado"`
	Approved       bool      `json:"aprobado"`
	CreatedAt      LocalTime `json:"fechaCreacion"`
	UpdatedAt      LocalTime `json:"fechaActualizacion"`
	ApprovedAt     LocalTime `json:"fechaAprobacion"`
	ModeratorName  string    `json:"moderadorNombre"`
	CanEdit        bool      `json:"puedeEditar"`
	CanDelete      bool      `json:"puedeEliminar"`
	MyVote         *bool     `json:"miVoto,omitempty"`
}

// ReviewRequest is the body of POST /reviews
type ReviewRequest struct {
	ProductID uuid.UUID `json:"productoId" validate:"required"`
	Rating    int       `json:"calificacion" validate:"min=1,max=5"`
	Title     string    `json:"titulo,omitempty" validate:"max=200"`
	Comment   string    `json:"comentario" validate:"required,min=10,max=2000"`
}

// VoteRequest is the body of POST /reviews/{id}/votar
type VoteRequest struct {
	Helpful bool `json:"esUtil"`
}
