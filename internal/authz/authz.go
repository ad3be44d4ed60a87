// Package authz decides which portal views a session may enter.
package authz

import (
	"sort"
	"strings"

	"github.com/felixgeelhaar/newsdesk/internal/session"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// RedirectPath is where refused navigations are sent
const RedirectPath = "/"

// RoleSet is a set of roles. The empty set means any authenticated user.
type RoleSet map[types.Role]struct{}

// Roles builds a RoleSet
func Roles(roles ...types.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Has reports whether role is in the set
func (s RoleSet) Has(role types.Role) bool {
	_, ok := s[role]
	return ok
}

// Intersects reports whether any of roles is in the set
func (s RoleSet) Intersects(roles []types.Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// String lists the roles in sorted order
func (s RoleSet) String() string {
	names := make([]string, 0, len(s))
	for r := range s {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Decision is the outcome of a guard check
type Decision struct {
	Allowed  bool   `json:"allowed" yaml:"allowed"`
	Redirect string `json:"redirect,omitempty" yaml:"redirect,omitempty"`
	Reason   string `json:"reason" yaml:"reason"`
}

// Guard allows an authenticated session whose user holds at least one of
// required, or any authenticated session when required is empty.
// A session that is still loading counts as unauthenticated.
func Guard(s session.Session, required RoleSet) Decision {
	if s.Loading || !s.Authenticated {
		return Decision{Redirect: RedirectPath, Reason: "not authenticated"}
	}
	if len(required) == 0 {
		return Decision{Allowed: true, Reason: "authenticated"}
	}
	if s.User == nil || !required.Intersects(s.User.Roles) {
		return Decision{Redirect: RedirectPath, Reason: "requires one of: " + required.String()}
	}
	return Decision{Allowed: true, Reason: "role granted"}
}

var (
	writerRoles   = Roles(types.RoleJournalist, types.RoleAdmin)
	reviewerRoles = Roles(types.RoleReviewer, types.RoleAdmin)
	navbarReview  = Roles(types.RoleReviewer, types.RoleJournalist, types.RoleAdmin)
)

// CanWrite reports whether the navbar shows the article-writing entry
func CanWrite(s session.Session) bool {
	return s.Authenticated && s.User != nil && writerRoles.Intersects(s.User.Roles)
}

// CanReview reports whether the navbar shows the review entry.
// Journalists see it too; the review route itself still refuses them.
func CanReview(s session.Session) bool {
	return s.Authenticated && s.User != nil && navbarReview.Intersects(s.User.Roles)
}
