// Package testutil provides a fake marketplace backend for package tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Call is one request received by the fake backend
type Call struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          []byte
}

// Decode unmarshals the request body
func (c Call) Decode(v any) error {
	return json.Unmarshal(c.Body, v)
}

// Backend is an httptest server that answers registered "METHOD /path" routes
// and records every call. Unregistered routes answer 404.
type Backend struct {
	server *httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []Call
}

func NewBackend(t testing.TB) *Backend {
	b := &Backend{routes: make(map[string]http.HandlerFunc)}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

// URL is the base URL to configure a gateway with
func (b *Backend) URL() string {
	return b.server.URL
}

func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

// JSON registers a route answering status with body encoded as JSON
func (b *Backend) JSON(method, path string, status int, body any) {
	b.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Calls returns a copy of every recorded call
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallsTo returns the calls recorded for one route
func (b *Backend) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range b.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets recorded calls, keeping routes
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.calls = append(b.calls, Call{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})
	h, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		return
	}
	h(w, r)
}

// WriteJSON writes body as a JSON response
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
