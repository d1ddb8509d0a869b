package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-client/internal/models"
)

type fakeCredentials struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (f *fakeCredentials) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeCredentials) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.cleared++
}

type fakeRedirector struct {
	paths []string
}

func (f *fakeRedirector) Redirect(path string) {
	f.paths = append(f.paths, path)
}

func newTestGateway(t *testing.T, handler http.HandlerFunc, token string) (*Gateway, *fakeCredentials, *fakeRedirector) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	creds := &fakeCredentials{token: token}
	redirect := &fakeRedirector{}
	gw := New(Options{
		BaseURL:     server.URL + "/api/",
		Credentials: creds,
		Redirector:  redirect,
	})
	return gw, creds, redirect
}

func TestDoAttachesBearerAndDecodes(t *testing.T) {
	var gotAuth, gotRequestID, gotPath, gotQuery string
	gw, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total": 42.5}`))
	}, "abc123")

	total, err := Call[models.CartTotal](context.Background(), gw, Request{
		Path:  "/carrito/total",
		Query: url.Values{"page": {"0"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 42.5, total.Total)
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.Equal(t, "/api/carrito/total", gotPath)
	assert.Equal(t, "page=0", gotQuery)
	_, err = uuid.Parse(gotRequestID)
	assert.NoError(t, err)
}

func TestDoOmitsBearerWithoutToken(t *testing.T) {
	var hasAuth bool
	gw, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}, "")

	require.NoError(t, Exec(context.Background(), gw, Request{Method: http.MethodDelete, Path: "/carrito/limpiar"}))
	assert.False(t, hasAuth)
}

func TestDoAnonymousNeverSendsBearer(t *testing.T) {
	var hasAuth bool
	gw, creds, redirect := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Credenciales inválidas"}`))
	}, "abc123")

	err := Exec(context.Background(), gw, Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      models.LoginRequest{Username: "ana", Password: "bad"},
		Anonymous: true,
	})
	require.Error(t, err)

	assert.False(t, hasAuth)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Zero(t, creds.cleared, "anonymous 401 must not tear the session down")
	assert.Empty(t, redirect.paths)
}

func TestDoUnauthorizedClearsSessionAndRedirects(t *testing.T) {
	gw, creds, redirect := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized","status":401}`))
	}, "expired")

	_, err := Call[models.Cart](context.Background(), gw, Request{Path: "/carrito"})
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Equal(t, "Unauthorized", Message(err))
	assert.Equal(t, 1, creds.cleared)
	assert.Equal(t, []string{LoginPath}, redirect.paths)
	assert.Empty(t, creds.Token())
}

func TestDoClassifiesFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    error
		wantMessage string
	}{
		{"business rejection", http.StatusBadRequest, `{"message":"Stock insuficiente"}`, ErrRejected, "Stock insuficiente"},
		{"spanish message key", http.StatusBadRequest, `{"mensaje":"Carrito vacío"}`, ErrRejected, "Carrito vacío"},
		{"forbidden", http.StatusForbidden, ``, ErrForbidden, "Forbidden"},
		{"not found", http.StatusNotFound, `Producto no encontrado`, ErrNotFound, "Producto no encontrado"},
		{"server", http.StatusInternalServerError, `<html>boom</html>`, ErrServer, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, creds, redirect := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, "abc123")

			err := Exec(context.Background(), gw, Request{Method: http.MethodPost, Path: "/carrito/items"})
			require.Error(t, err)

			assert.True(t, errors.Is(err, tt.wantKind))
			assert.Equal(t, tt.status, StatusCode(err))
			assert.Equal(t, tt.wantMessage, Message(err))
			assert.Zero(t, creds.cleared)
			assert.Empty(t, redirect.paths)
		})
	}
}

func TestDoTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	gw := New(Options{BaseURL: base, Credentials: &fakeCredentials{}})
	err := Exec(context.Background(), gw, Request{Path: "/productos"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Zero(t, StatusCode(err))
}

func TestDoRejectsContractViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing token", `{"type":"Bearer","id":"3f1c9a52-8c8e-4f43-9d0a-0b6f6b7b8f11","nombreUsuario":"ana"}`},
		{"wrong type", `{"token":42}`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}, "")

			_, err := Call[models.LoginResponse](context.Background(), gw, Request{Method: http.MethodPost, Path: "/auth/login"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrContract), err.Error())
		})
	}
}

func TestDoValidatesPagesAndSlices(t *testing.T) {
	gw, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/page":
			json.NewEncoder(w).Encode(map[string]any{
				"content":       []map[string]any{{"nombre": "sin id"}},
				"totalElements": 1, "totalPages": 1, "number": 0,
			})
		case "/api/rows":
			w.Write([]byte(`[{"nombreProducto":"sin id"}]`))
		}
	}, "")

	_, err := Call[models.Page[models.Product]](context.Background(), gw, Request{Path: "/page"})
	assert.True(t, errors.Is(err, ErrContract))

	_, err = Call[[]models.ProductSalesRow](context.Background(), gw, Request{Path: "/rows"})
	assert.True(t, errors.Is(err, ErrContract))
}

func TestDoRejectsInvalidRequestBeforeSending(t *testing.T) {
	called := false
	gw, _, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "abc123")

	err := Exec(context.Background(), gw, Request{
		Method: http.MethodPost,
		Path:   "/carrito/items",
		Body:   models.AddCartItemRequest{Quantity: 0},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
	assert.False(t, called)
}
