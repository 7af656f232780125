package guard

// Package guard decides whether one navigation attempt may enter a route.
// Evaluate is a pure function of a session snapshot and a route's static
// declaration: it performs no I/O and never mutates the session. Redirect
// side effects belong to the HTTP layer.

import (
	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
)

// Decision is the outcome of evaluating one navigation attempt.
type Decision int

const (
	// Permit allows the navigation.
	Permit Decision = iota
	// DenyUnauthenticated rejects because no authenticated session exists;
	// the caller should redirect to the unauthenticated landing view.
	DenyUnauthenticated
	// DenyForbidden rejects because the session lacks the required role;
	// the caller should redirect to a neutral page, never answer with the
	// protected view's content.
	DenyForbidden
)

// Permitted reports whether the decision allows the navigation.
func (d Decision) Permitted() bool { return d == Permit }

// String returns the decision name for logging.
func (d Decision) String() string {
	switch d {
	case Permit:
		return "permit"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyForbidden:
		return "deny_forbidden"
	default:
		return "unknown"
	}
}

// Requirement is a route's static access declaration. The zero value is a
// public route.
type Requirement struct {
	role      domainauth.Role
	protected bool
}

// Public declares a route with no access requirement.
func Public() Requirement { return Requirement{} }

// RequireAuthenticated declares a route any authenticated user may enter.
func RequireAuthenticated() Requirement { return Requirement{protected: true} }

// RequireRole declares a route only users holding the role may enter.
func RequireRole(role domainauth.Role) Requirement {
	return Requirement{role: role, protected: true}
}

// Protected reports whether the requirement restricts access at all.
func (r Requirement) Protected() bool { return r.protected }

// Role returns the required role, or "" when any authenticated user may enter.
func (r Requirement) Role() domainauth.Role { return r.role }

// Evaluate decides one navigation attempt from the session snapshot and the
// route's declaration. Given the same two inputs it always yields the same
// decision.
func Evaluate(sess domainauth.Session, req Requirement) Decision {
	if !req.protected {
		return Permit
	}
	if sess.Status() != domainauth.StatusAuthenticated {
		return DenyUnauthenticated
	}
	if req.role != "" && !sess.HasRole(req.role) {
		return DenyForbidden
	}
	return Permit
}
