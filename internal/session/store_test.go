package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
	"marketplace-client/internal/storage"
)

var anaID = uuid.MustParse("3f1c9a52-8c8e-4f43-9d0a-0b6f6b7b8f11")

type fakeAuth struct {
	loginReq  models.LoginRequest
	loginResp models.LoginResponse
	loginErr  error
	me        models.AuthUser
	meErr     error
	registers int
}

func (f *fakeAuth) Login(_ context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	f.loginReq = req
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(context.Context, models.RegisterRequest) error {
	f.registers++
	return nil
}

func (f *fakeAuth) Me(context.Context) (models.AuthUser, error) {
	return f.me, f.meErr
}

func newTestStore(t *testing.T, auth Authenticator) (*Store, storage.LocalStorage) {
	t.Helper()
	st := storage.NewFileStorage(t.TempDir())
	require.NoError(t, st.Initialize())
	s := NewStore(st)
	s.SetAuthenticator(auth)
	return s, st
}

func anaLogin() models.LoginResponse {
	return models.LoginResponse{
		Token:    "abc123",
		Type:     "Bearer",
		ID:       anaID,
		Username: "ana",
		Email:    "ana@example.com",
		Roles:    []string{"ROLE_COMUN", "VENDEDOR"},
	}
}

// rejectionFrom builds a real gateway error so status classification is exercised end to end.
func rejectionFrom(t *testing.T, status int, body string) error {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	defer srv.Close()
	gw := gateway.New(gateway.Options{BaseURL: srv.URL})
	err := gateway.Exec(context.Background(), gw, gateway.Request{Method: http.MethodPost, Path: "/auth/login", Anonymous: true})
	require.Error(t, err)
	return err
}

func TestLoginStoresTokenAndIdentity(t *testing.T) {
	auth := &fakeAuth{loginResp: anaLogin()}
	s, st := newTestStore(t, auth)

	var seen []Session
	s.OnChange(func(cur Session) { seen = append(seen, cur) })

	sess, err := s.Login(context.Background(), Credentials{Username: "ana", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, models.LoginRequest{Username: "ana", Password: "x"}, auth.loginReq)
	assert.Equal(t, "abc123", sess.Token)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "abc123", s.Token())
	assert.True(t, s.HasRole(models.RoleCommon))
	assert.True(t, s.HasAnyRole(models.RoleAdmin, models.RoleVendor))
	assert.False(t, s.HasRole(models.RoleAdmin))
	require.Len(t, seen, 1)

	token, ok, err := st.Get(tokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestLoginFailureLeavesPriorStateUntouched(t *testing.T) {
	auth := &fakeAuth{loginResp: anaLogin()}
	s, _ := newTestStore(t, auth)
	_, err := s.Login(context.Background(), Credentials{Username: "ana", Password: "x"})
	require.NoError(t, err)

	auth.loginErr = rejectionFrom(t, http.StatusBadRequest, `{"message":"Error: Credenciales inválidas - Bad credentials"}`)
	_, err = s.Login(context.Background(), Credentials{Username: "ana", Password: "wrong"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	assert.Contains(t, err.Error(), "Bad credentials")
	assert.Equal(t, "abc123", s.Token())
}

func TestLoginTransportFailureIsNotInvalidCredentials(t *testing.T) {
	auth := &fakeAuth{loginErr: gateway.ErrTransport}
	s, _ := newTestStore(t, auth)

	_, err := s.Login(context.Background(), Credentials{Username: "ana", Password: "x"})

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
	assert.True(t, errors.Is(err, gateway.ErrTransport))
	assert.False(t, s.IsAuthenticated())
}

func TestLogoutIsIdempotentAndClearsRoles(t *testing.T) {
	s, st := newTestStore(t, &fakeAuth{loginResp: anaLogin()})
	_, err := s.Login(context.Background(), Credentials{Username: "ana", Password: "x"})
	require.NoError(t, err)

	s.Logout()
	s.Logout()

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	for _, role := range models.AllRoles {
		assert.False(t, s.HasRole(role), role)
	}
	assert.False(t, s.HasAnyRole(models.AllRoles...))

	_, ok, err := st.Get(tokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestoreWithoutNetwork(t *testing.T) {
	dir := t.TempDir()
	st := storage.NewFileStorage(dir)
	require.NoError(t, st.Initialize())

	first := NewStore(st)
	first.SetAuthenticator(&fakeAuth{loginResp: anaLogin()})
	_, err := first.Login(context.Background(), Credentials{Username: "ana", Password: "x"})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	reopened := storage.NewFileStorage(dir)
	require.NoError(t, reopened.Initialize())
	second := NewStore(reopened)

	sess, err := second.Restore()
	require.NoError(t, err)

	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, "ana", sess.Username)
	assert.Equal(t, anaID, sess.UserID)
	assert.True(t, second.HasRole(models.RoleVendor))
}

func TestRestoreDiscardsMalformedProfile(t *testing.T) {
	s, st := newTestStore(t, nil)
	require.NoError(t, st.Set(tokenKey, "abc123"))
	require.NoError(t, st.Set(userKey, "{broken"))

	sess, err := s.Restore()
	require.NoError(t, err)

	assert.False(t, sess.IsAuthenticated())
	_, ok, err := st.Get(tokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRefresh(t *testing.T) {
	auth := &fakeAuth{loginResp: anaLogin()}
	s, _ := newTestStore(t, auth)

	_, err := s.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = s.Login(context.Background(), Credentials{Username: "ana", Password: "x"})
	require.NoError(t, err)

	auth.me = models.AuthUser{ID: anaID, Username: "ana", FullName: "Ana Pérez", Roles: []string{"ADMIN"}}
	sess, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", sess.DisplayName)
	assert.True(t, s.HasRole(models.RoleAdmin))
	assert.False(t, s.HasRole(models.RoleVendor))
	assert.Equal(t, "abc123", s.Token())

	auth.meErr = errors.New("boom")
	_, err = s.Refresh(context.Background())
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())
}

func TestClearNotifiesOnlyWhenAuthenticated(t *testing.T) {
	s, _ := newTestStore(t, &fakeAuth{loginResp: anaLogin()})
	calls := 0
	s.OnChange(func(Session) { calls++ })

	s.Clear()
	assert.Zero(t, calls)

	_, err := s.Login(context.Background(), Credentials{Username: "ana", Password: "x"})
	require.NoError(t, err)
	s.Clear()
	assert.Equal(t, 2, calls)
}

func TestMissingAuthenticator(t *testing.T) {
	s := NewStore(nil)
	_, err := s.Login(context.Background(), Credentials{Username: "ana"})
	assert.ErrorIs(t, err, ErrNoAuthenticator)
}

func TestIssuedAtFromJWT(t *testing.T) {
	iat := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ana",
		"iat": iat.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	assert.True(t, issuedAt(token).Equal(iat))
	assert.True(t, issuedAt("abc123").IsZero())
}
