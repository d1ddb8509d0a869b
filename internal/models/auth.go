package models

import "github.com/google/uuid"

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"nombreUsuario" validate:"required"`
	Password string `json:"contrasena" validate:"required"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username string `json:"nombreUsuario" validate:"required,min=3,max=50"`
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"contrasena" validate:"required,min=6"`
	FullName string `json:"nombreCompleto,omitempty"`
	Phone    string `json:"telefono,omitempty"`
	Address  string `json:"direccion,omitempty"`
}

// LoginResponse is the JWT response returned by a successful login
type LoginResponse struct {
	Token    string    `json:"token" validate:"required"`
	Type     string    `json:"type"`
	ID       uuid.UUID `json:"id" validate:"required"`
	Username string    `json:"nombreUsuario" validate:"required"`
	Email    string    `json:"correo"`
	Roles    []string  `json:"roles"`
}

// Profile returns the user identity carried by the response
func (r LoginResponse) Profile() AuthUser {
	return AuthUser{ID: r.ID, Username: r.Username, Email: r.Email, Roles: r.Roles}
}

// AuthUser is the identity returned by GET /auth/me and persisted across restarts
type AuthUser struct {
	ID       uuid.UUID `json:"id" validate:"required"`
	Username string    `json:"nombreUsuario" validate:"required"`
	Email    string    `json:"correo"`
	FullName string    `json:"nombreCompleto,omitempty"`
	Roles    []string  `json:"roles"`
}

// DisplayName prefers the full name over the login name
func (u AuthUser) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
