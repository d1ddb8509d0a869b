package router

import (
	"log/slog"
	"sync"

	"marketplace-client/internal/authz"
)

// Result describes where a navigation attempt ended
type Result struct {
	Requested  string         `json:"requested"`
	Location   Match          `json:"location"`
	Decision   authz.Decision `json:"-"`
	Redirected bool           `json:"redirected"`
}

// Guard decides where a navigation attempt lands. The first failing check wins:
// authentication, guest-only, then roles.
type Guard struct {
	table  *Table
	policy *authz.Policy
}

func NewGuard(table *Table, policy *authz.Policy) *Guard {
	return &Guard{table: table, policy: policy}
}

// Check resolves path and applies the route's requirement for subject
func (g *Guard) Check(subject authz.Subject, path string) (Result, error) {
	m, err := g.table.Resolve(path)
	if err != nil {
		return Result{}, err
	}
	res := Result{Requested: path, Location: m, Decision: g.policy.IsAllowed(subject, m.Require)}

	var target string
	switch res.Decision {
	case authz.DenyUnauthenticated:
		target = LoginPath
	case authz.DenyAuthenticated:
		target = HomePath
	case authz.DenyForbidden:
		target = ForbiddenPath
	default:
		return res, nil
	}
	if res.Location, err = g.table.Resolve(target); err != nil {
		return Result{}, err
	}
	res.Redirected = true
	return res, nil
}

// Navigator owns the current location
type Navigator struct {
	guard   *Guard
	subject authz.Subject
	logger  *slog.Logger

	mu        sync.RWMutex
	location  Match
	listeners []func(Match)
}

// NewNavigator starts at the home route
func NewNavigator(guard *Guard, subject authz.Subject) *Navigator {
	home, _ := guard.table.Resolve(HomePath)
	return &Navigator{
		guard:    guard,
		subject:  subject,
		logger:   slog.Default().With("component", "navigator"),
		location: home,
	}
}

func (n *Navigator) Location() Match {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.location
}

// OnChange registers fn to run after every location change
func (n *Navigator) OnChange(fn func(Match)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// Navigate runs the guard for path and moves to wherever it lands
func (n *Navigator) Navigate(path string) (Result, error) {
	res, err := n.guard.Check(n.subject, path)
	if err != nil {
		n.logger.Error("Navigation failed", "path", path, "error", err)
		return Result{}, err
	}
	if res.Redirected {
		n.logger.Debug("Navigation redirected", "path", path, "decision", res.Decision.String(), "to", res.Location.Path)
	}
	n.set(res.Location)
	return res, nil
}

// Redirect moves to path without running the guard. The gateway uses it to
// force the login view after a 401.
func (n *Navigator) Redirect(path string) {
	m, err := n.guard.table.Resolve(path)
	if err != nil {
		n.logger.Error("Redirect failed", "path", path, "error", err)
		return
	}
	n.set(m)
}

func (n *Navigator) set(m Match) {
	n.mu.Lock()
	n.location = m
	listeners := append([]func(Match){}, n.listeners...)
	n.mu.Unlock()
	for _, fn := range listeners {
		fn(m)
	}
}
