// Package authz is the single authorization policy consulted by the
// navigation guard and by store actions before any request is sent.
package authz

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"marketplace-client/internal/models"
)

var (
	ErrForbidden        = errors.New("forbidden")
	ErrNotAuthenticated = errors.New("authentication required")
)

// Action names a store operation gated by role
type Action string

const (
	ActionCartWrite         Action = "cart.write"
	ActionOrdersPlace       Action = "orders.place"
	ActionProductsPublish   Action = "products.publish"
	ActionProductsModerate  Action = "products.moderate"
	ActionCatalogManage     Action = "catalog.manage"
	ActionCatalogDelete     Action = "catalog.delete"
	ActionUsersManage       Action = "users.manage"
	ActionModerationReview  Action = "moderation.review"
	ActionReviewsModerate   Action = "reviews.moderate"
	ActionSanctionsManage   Action = "sanctions.manage"
	ActionReportsView       Action = "reports.view"
	ActionOrdersFulfil      Action = "orders.fulfil"
	ActionOrdersUpdateState Action = "orders.update_status"
	ActionOrdersViewAll     Action = "orders.view_all"
	ActionOrdersVendor      Action = "orders.vendor"
)

var everyone = models.AllRoles

// DefaultGrants maps each action to the roles allowed to perform it.
// It mirrors the backend's method-level rules so a denial never costs a round trip.
var DefaultGrants = map[Action][]models.Role{
	ActionCartWrite:         everyone,
	ActionOrdersPlace:       everyone,
	ActionProductsPublish:   everyone,
	ActionProductsModerate:  {models.RoleModerator, models.RoleAdmin},
	ActionCatalogManage:     {models.RoleModerator, models.RoleAdmin},
	ActionCatalogDelete:     {models.RoleAdmin},
	ActionUsersManage:       {models.RoleAdmin},
	ActionModerationReview:  {models.RoleModerator, models.RoleAdmin},
	ActionReviewsModerate:   {models.RoleModerator, models.RoleAdmin},
	ActionSanctionsManage:   {models.RoleModerator, models.RoleAdmin},
	ActionReportsView:       {models.RoleAdmin},
	ActionOrdersFulfil:      {models.RoleLogistics, models.RoleAdmin},
	ActionOrdersUpdateState: {models.RoleModerator, models.RoleVendor, models.RoleAdmin},
	ActionOrdersViewAll:     {models.RoleAdmin},
	ActionOrdersVendor:      {models.RoleVendor},
}

const modelText = `
[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.act == p.act
`

// Subject is anything that can answer role questions, typically a session
type Subject interface {
	IsAuthenticated() bool
	HasRole(role models.Role) bool
	HasAnyRole(roles ...models.Role) bool
}

// Requirement is what a route or action demands of the subject
type Requirement struct {
	Authenticated bool
	// GuestOnly targets (login, register) turn authenticated users away.
	GuestOnly bool
	// AnyOf is satisfied by holding at least one listed role. There is no hierarchy.
	AnyOf  []models.Role
	Action Action
}

// RequireAction is the requirement of a role-gated store operation
func RequireAction(a Action) Requirement {
	return Requirement{Authenticated: true, Action: a}
}

// Decision is the outcome of a policy check
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyAuthenticated
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyAuthenticated:
		return "deny_authenticated"
	case DenyForbidden:
		return "deny_forbidden"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// Allowed reports whether the decision lets the subject through
func (d Decision) Allowed() bool {
	return d == Allow
}

// Policy evaluates requirements. Action grants live in a casbin enforcer.
type Policy struct {
	enforcer *casbin.SyncedEnforcer
}

// NewPolicy builds a policy from grants (DefaultGrants when nil)
func NewPolicy(grants map[Action][]models.Role) (*Policy, error) {
	if grants == nil {
		grants = DefaultGrants
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	var rules [][]string
	for action, roles := range grants {
		for _, role := range roles {
			rules = append(rules, []string{string(role), string(action)})
		}
	}
	if len(rules) > 0 {
		if _, err := enforcer.AddPolicies(rules); err != nil {
			return nil, fmt.Errorf("failed to load grants: %w", err)
		}
	}
	return &Policy{enforcer: enforcer}, nil
}

// IsAllowed evaluates req for subject. Checks run in a fixed order and the first failure wins:
// authentication, guest-only, role list, action.
func (p *Policy) IsAllowed(subject Subject, req Requirement) Decision {
	authenticated := subject != nil && subject.IsAuthenticated()

	if req.Authenticated && !authenticated {
		return DenyUnauthenticated
	}
	if req.GuestOnly && authenticated {
		return DenyAuthenticated
	}
	if len(req.AnyOf) > 0 && (!authenticated || !subject.HasAnyRole(req.AnyOf...)) {
		return DenyForbidden
	}
	if req.Action != "" && (!authenticated || !p.can(subject, req.Action)) {
		return DenyForbidden
	}
	return Allow
}

// Check is IsAllowed for callers that want an error
func (p *Policy) Check(subject Subject, req Requirement) error {
	switch d := p.IsAllowed(subject, req); d {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return ErrNotAuthenticated
	default:
		if req.Action != "" {
			return fmt.Errorf("%w: %s", ErrForbidden, req.Action)
		}
		return ErrForbidden
	}
}

// RolesFor lists the roles granted an action, in vocabulary order
func (p *Policy) RolesFor(a Action) []models.Role {
	var out []models.Role
	for _, role := range models.AllRoles {
		if p.enforce(role, a) {
			out = append(out, role)
		}
	}
	return out
}

func (p *Policy) can(subject Subject, a Action) bool {
	for _, role := range models.AllRoles {
		if subject.HasRole(role) && p.enforce(role, a) {
			return true
		}
	}
	return false
}

func (p *Policy) enforce(role models.Role, a Action) bool {
	ok, err := p.enforcer.Enforce(string(role), string(a))
	if err != nil {
		slog.Error("Policy evaluation failed", "role", role, "action", a, "error", err)
		return false
	}
	return ok
}
