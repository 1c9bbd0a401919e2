// Package policy decides which catalog operations a session may attempt.
//
// Decisions are pure functions of the session value passed in. Nothing here is
// cached: the session can change between calls (refresh, logout), so callers
// re-evaluate at every decision point.
package policy

import "github.com/explooosion/catalog-console/internal/models"

// Policy holds the role rules for catalog mutation.
//
// Editing and deleting an existing product always require the admin role.
// Creation historically required only an authenticated session; that
// asymmetry is kept, but deployments that want uniform gating can set
// CreateRequiresAdmin.
type Policy struct {
	CreateRequiresAdmin bool
}

// CanCreate reports whether the session may create products
func (p Policy) CanCreate(s models.Session) bool {
	if !s.Authenticated() {
		return false
	}
	if p.CreateRequiresAdmin {
		return s.IsAdmin()
	}
	return true
}

// CanUpdate reports whether the session may edit existing products
func (p Policy) CanUpdate(s models.Session) bool {
	return s.IsAdmin()
}

// CanDelete reports whether the session may delete products
func (p Policy) CanDelete(s models.Session) bool {
	return s.IsAdmin()
}
