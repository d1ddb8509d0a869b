// Package session holds the signed-in user and persists it across restarts.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"marketplace-client/internal/models"
)

// Session is the current credentials and user profile. The zero value is unauthenticated.
type Session struct {
	UserID      uuid.UUID      `json:"id"`
	Username    string         `json:"nombreUsuario"`
	DisplayName string         `json:"displayName"`
	Email       string         `json:"correo"`
	Roles       models.RoleSet `json:"roles"`
	Token       string         `json:"-"`
	// IssuedAt is the token's iat claim, zero when the token carries none.
	IssuedAt time.Time `json:"issuedAt,omitempty"`
}

// IsAuthenticated reports whether a credential token is held
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// HasRole is false when unauthenticated
func (s Session) HasRole(role models.Role) bool {
	return s.IsAuthenticated() && s.Roles.Has(role)
}

// HasAnyRole is false when unauthenticated or when roles is empty
func (s Session) HasAnyRole(roles ...models.Role) bool {
	return s.IsAuthenticated() && s.Roles.HasAny(roles...)
}

func newSession(token string, user models.AuthUser) Session {
	return Session{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName(),
		Email:       user.Email,
		Roles:       models.NewRoleSet(user.Roles),
		Token:       token,
		IssuedAt:    issuedAt(token),
	}
}

func (s Session) profile() models.AuthUser {
	user := models.AuthUser{
		ID:       s.UserID,
		Username: s.Username,
		Email:    s.Email,
		Roles:    s.Roles.Strings(),
	}
	if s.DisplayName != s.Username {
		user.FullName = s.DisplayName
	}
	return user
}

// issuedAt reads the iat claim without verifying the signature; the backend
// is the only party that can verify it.
func issuedAt(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	iat, err := claims.GetIssuedAt()
	if err != nil || iat == nil {
		return time.Time{}
	}
	return iat.Time
}
