package testutil

import "sync"

// StaticToken is a gateway credential source with a fixed token
type StaticToken struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func NewStaticToken(token string) *StaticToken {
	return &StaticToken{token: token}
}

func (s *StaticToken) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *StaticToken) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared++
}

// Cleared counts teardown calls
func (s *StaticToken) Cleared() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

// Redirects records forced navigations
type Redirects struct {
	mu    sync.Mutex
	paths []string
}

func (r *Redirects) Redirect(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *Redirects) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}
