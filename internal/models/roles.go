package models

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
)

// Role is a marketplace role name, always stored without the ROLE_ prefix
type Role string

const (
	RoleCommon    Role = "COMUN"
	RoleModerator Role = "MODERADOR"
	RoleLogistics Role = "LOGISTICA"
	RoleVendor    Role = "VENDEDOR"
	RoleAdmin     Role = "ADMIN"
)

// AllRoles lists the fixed role vocabulary
var AllRoles = []Role{RoleCommon, RoleModerator, RoleLogistics, RoleVendor, RoleAdmin}

// ParseRole normalizes a backend role name ("ROLE_ADMIN", "admin") into a Role
func ParseRole(name string) (Role, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "ROLE_")
	for _, r := range AllRoles {
		if string(r) == n {
			return r, true
		}
	}
	return "", false
}

// RoleSet is an unordered set of roles
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from backend role names, dropping unknown names
func NewRoleSet(names []string) RoleSet {
	set := make(RoleSet, len(names))
	for _, name := range names {
		role, ok := ParseRole(name)
		if !ok {
			slog.Warn("Ignoring unknown role", "role", name)
			continue
		}
		set[role] = struct{}{}
	}
	return set
}

// RoleSetOf builds a set from typed roles
func RoleSetOf(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Has reports whether the role is present
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// HasAny reports whether at least one of roles is present
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// Slice returns the roles sorted by name
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the role names sorted
func (s RoleSet) Strings() []string {
	roles := s.Slice()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewRoleSet(names)
	return nil
}
