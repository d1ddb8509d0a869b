package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
	"marketplace-client/internal/storage"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNoAuthenticator    = errors.New("session store has no authenticator")
)

// Credentials are what the user types into the login form
type Credentials struct {
	Username string
	Password string
}

// Authenticator performs the remote half of login, registration and profile refresh
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	Me(ctx context.Context) (models.AuthUser, error)
}

// Store owns the session. One Store exists per application and is passed
// explicitly to the gateway, the guard and the stores.
type Store struct {
	mu        sync.RWMutex
	current   Session
	storage   storage.LocalStorage
	auth      Authenticator
	listeners []func(Session)
}

// NewStore creates an unauthenticated store persisting to st
func NewStore(st storage.LocalStorage) *Store {
	return &Store{storage: st}
}

// SetAuthenticator binds the auth service. It is set after construction
// because the auth service itself sends requests through a gateway that
// reads this store.
func (s *Store) SetAuthenticator(auth Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// OnChange registers fn to run after every login, logout, refresh and restore
func (s *Store) OnChange(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Login exchanges credentials for a token. On failure the previous session is left untouched.
func (s *Store) Login(ctx context.Context, c Credentials) (Session, error) {
	auth, err := s.authenticator()
	if err != nil {
		return Session{}, err
	}

	resp, err := auth.Login(ctx, models.LoginRequest{Username: c.Username, Password: c.Password})
	if err != nil {
		if isCredentialRejection(err) {
			msg := gateway.Message(err)
			slog.Warn("Login rejected", "user", c.Username, "message", msg)
			return Session{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
		}
		slog.Error("Login failed", "user", c.Username, "error", err)
		return Session{}, fmt.Errorf("failed to log in: %w", err)
	}

	next := newSession(resp.Token, resp.Profile())
	s.replace(next)
	s.persist(next)

	slog.Info("Logged in", "user", next.Username, "roles", next.Roles.Strings())
	return next, nil
}

// Register creates an account. It does not log in.
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) error {
	auth, err := s.authenticator()
	if err != nil {
		return err
	}
	if err := auth.Register(ctx, req); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	slog.Info("Account registered", "user", req.Username)
	return nil
}

// Logout clears the session and its persisted copy. Calling it twice is harmless.
func (s *Store) Logout() {
	if s.reset() {
		slog.Info("Logged out")
	}
}

// Clear is the gateway's teardown after a 401
func (s *Store) Clear() {
	if s.reset() {
		slog.Warn("Session invalidated by backend")
	}
}

func (s *Store) reset() bool {
	s.mu.Lock()
	was := s.current.IsAuthenticated()
	s.current = Session{}
	s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.Delete(tokenKey, userKey); err != nil {
			slog.Error("Failed to delete persisted session", "error", err)
		}
	}
	if was {
		s.notify(Session{})
	}
	return was
}

// Restore loads the persisted session without a network round trip. A
// malformed persisted copy is discarded.
func (s *Store) Restore() (Session, error) {
	if s.storage == nil {
		return Session{}, nil
	}

	token, ok, err := s.storage.Get(tokenKey)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read persisted token: %w", err)
	}
	if !ok || token == "" {
		return Session{}, nil
	}

	raw, ok, err := s.storage.Get(userKey)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read persisted user: %w", err)
	}
	var user models.AuthUser
	if !ok || json.Unmarshal([]byte(raw), &user) != nil || user.Username == "" {
		slog.Warn("Discarding malformed persisted session")
		if err := s.storage.Delete(tokenKey, userKey); err != nil {
			slog.Error("Failed to delete persisted session", "error", err)
		}
		return Session{}, nil
	}

	restored := newSession(token, user)
	s.replace(restored)
	slog.Debug("Session restored", "user", restored.Username)
	return restored, nil
}

// Refresh reloads the profile from the backend. Any failure logs the user out.
func (s *Store) Refresh(ctx context.Context) (Session, error) {
	auth, err := s.authenticator()
	if err != nil {
		return Session{}, err
	}
	token := s.Token()
	if token == "" {
		return Session{}, ErrNotAuthenticated
	}

	user, err := auth.Me(ctx)
	if err != nil {
		s.Logout()
		return Session{}, fmt.Errorf("failed to refresh session: %w", err)
	}

	// A concurrent logout wins over a late profile response.
	if s.Token() != token {
		return Session{}, ErrNotAuthenticated
	}
	next := newSession(token, user)
	s.replace(next)
	s.persist(next)
	return next, nil
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the bearer token, empty when unauthenticated
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated()
}

func (s *Store) HasRole(role models.Role) bool {
	return s.Snapshot().HasRole(role)
}

func (s *Store) HasAnyRole(roles ...models.Role) bool {
	return s.Snapshot().HasAnyRole(roles...)
}

func (s *Store) authenticator() (Authenticator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.auth == nil {
		return nil, ErrNoAuthenticator
	}
	return s.auth, nil
}

func (s *Store) replace(next Session) {
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	s.notify(next)
}

func (s *Store) notify(current Session) {
	s.mu.RLock()
	listeners := append([]func(Session){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(current)
	}
}

// persist failures are logged, not returned: the in-memory session stays valid.
func (s *Store) persist(sess Session) {
	if s.storage == nil {
		return
	}
	user, err := json.Marshal(sess.profile())
	if err != nil {
		slog.Error("Failed to encode session profile", "error", err)
		return
	}
	if err := s.storage.Set(tokenKey, sess.Token); err != nil {
		slog.Error("Failed to persist token", "error", err)
		return
	}
	if err := s.storage.Set(userKey, string(user)); err != nil {
		slog.Error("Failed to persist user profile", "error", err)
	}
}

func isCredentialRejection(err error) bool {
	switch gateway.StatusCode(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}
