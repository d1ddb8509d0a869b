// Package stores holds the client-side state containers. Each store caches the
// last fetched page or entity and re-reads the backend after every mutation;
// local state is never treated as authoritative once a mutation has been sent.
package stores

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"marketplace-client/internal/authz"
	"marketplace-client/internal/gateway"
	"marketplace-client/internal/notify"
)

// ErrPreflight is returned when a store rejects an action locally, before any request is sent
var ErrPreflight = errors.New("rejected before sending")

// ErrResync means a mutation was applied but the refetch that follows it failed
var ErrResync = errors.New("resync after mutation failed")

// Deps are the collaborators shared by every store
type Deps struct {
	Subject  authz.Subject
	Policy   *authz.Policy
	Notifier notify.Notifier
}

// Loading is true while at least one action of the owning store is running
type Loading struct {
	active atomic.Int32
}

func (l *Loading) begin() func() {
	l.active.Add(1)
	return func() { l.active.Add(-1) }
}

// Active reports whether an action is in flight
func (l *Loading) Active() bool {
	return l.active.Load() > 0
}

// MutateThenResync runs mutation and, only when it succeeds, resync. loading is
// held for the whole sequence and released on every exit path. The first error
// is returned.
func MutateThenResync(ctx context.Context, loading *Loading, mutation, resync func(context.Context) error) error {
	if loading != nil {
		defer loading.begin()()
	}
	if err := mutation(ctx); err != nil {
		return err
	}
	if resync == nil {
		return nil
	}
	if err := resync(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrResync, err)
	}
	return nil
}

// track marks loading for the duration of fn
func track(loading *Loading, fn func() error) error {
	defer loading.begin()()
	return fn()
}

type base struct {
	name     string
	deps     Deps
	loading  Loading
	logger   *slog.Logger
	notifier notify.Notifier
}

func (b *base) init(name string, deps Deps) {
	b.name = name
	b.deps = deps
	b.logger = slog.Default().With("store", name)
	b.notifier = deps.Notifier
	if b.notifier == nil {
		b.notifier = notify.NewLogNotifier(nil)
	}
}

// IsLoading reports whether an action of the store is in flight
func (b *base) IsLoading() bool {
	return b.loading.Active()
}

// authorize is the pre-flight policy check for role-gated actions
func (b *base) authorize(action authz.Action) error {
	if b.deps.Policy == nil {
		return nil
	}
	if err := b.deps.Policy.Check(b.deps.Subject, authz.RequireAction(action)); err != nil {
		b.logger.Warn("Action denied locally", "action", action, "error", err)
		if errors.Is(err, authz.ErrNotAuthenticated) {
			notify.Error(b.notifier, "Debes iniciar sesión para realizar esta acción")
		} else {
			notify.Error(b.notifier, "No tienes permiso para realizar esta acción")
		}
		return err
	}
	return nil
}

// preflight rejects an action locally with a user-facing reason
func (b *base) preflight(reason string) error {
	notify.Warning(b.notifier, reason)
	return fmt.Errorf("%w: %s", ErrPreflight, reason)
}

// surfacedError marks an error whose notification was already shown
type surfacedError struct{ err error }

func (e *surfacedError) Error() string { return e.err.Error() }
func (e *surfacedError) Unwrap() error { return e.err }

func surfaced(err error) bool {
	var s *surfacedError
	return errors.As(err, &s)
}

// fail surfaces err as a notification and returns it. A backend 4xx message
// is shown verbatim, anything else falls back to the generic text. An error
// already surfaced by a nested action is only logged.
func (b *base) fail(err error, fallback string) error {
	if surfaced(err) {
		b.logger.Warn("Action failed after an earlier notice", "error", err)
		return err
	}
	switch {
	case errors.Is(err, ErrResync):
		b.logger.Warn("Mutation applied but refetch failed", "error", err)
		notify.Warning(b.notifier, "Los cambios se guardaron, pero no se pudo actualizar la información")
	case errors.Is(err, gateway.ErrUnauthorized):
		b.logger.Info("Session expired during action", "error", err)
		notify.Error(b.notifier, "Tu sesión ha expirado, inicia sesión de nuevo")
	case errors.Is(err, gateway.ErrTransport):
		b.logger.Error("Backend unreachable", "error", err)
		notify.Error(b.notifier, fallback)
	case errors.Is(err, gateway.ErrServer), errors.Is(err, gateway.ErrContract):
		b.logger.Error("Action failed", "error", err)
		notify.Error(b.notifier, fallback)
	default:
		b.logger.Warn("Action rejected", "status", gateway.StatusCode(err), "error", err)
		if msg := gateway.Message(err); msg != "" {
			notify.Error(b.notifier, msg)
		} else {
			notify.Error(b.notifier, fallback)
		}
	}
	return &surfacedError{err: err}
}
