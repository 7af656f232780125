package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application authorization role asserted by the identity
// provider. Keep string form for easy persistence and cookies.
type Role string

// RoleAdmin grants access to facility mutation affordances.
const RoleAdmin Role = "admin"

// Status is the authentication state of a session snapshot.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticated   Status = "authenticated"
	StatusError           Status = "error"
)

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	Username  string
	Roles     []Role
	Token     string    // opaque bearer credential
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Record is the persisted form of an authenticated session.
// ID is an opaque session identifier (e.g. a UUID).
// Roles are fixed for the lifetime of the record; a role change requires a
// new login and therefore a new record.
type Record struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Roles     []Role    `json:"roles"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record's credential has expired at the given time.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// Session is an immutable snapshot of the authentication state at one point
// in time: Unauthenticated, Authenticated with an identity, or Error with a
// recorded cause. Constructing it through Unauthenticated, Authenticated and
// Faulted rules out partial states like "logged in but no roles loaded".
type Session struct {
	status Status
	record Record
	cause  error
}

// Unauthenticated returns a session snapshot with no identity.
func Unauthenticated() Session {
	return Session{status: StatusUnauthenticated}
}

// Authenticated returns a session snapshot carrying the given record.
// The record's role set is copied so later mutation of the caller's slice
// cannot leak into the snapshot.
func Authenticated(rec Record) Session {
	rec.Roles = append([]Role(nil), rec.Roles...)
	return Session{status: StatusAuthenticated, record: rec}
}

// Faulted returns a session snapshot in the error state with a recorded cause.
func Faulted(cause error) Session {
	return Session{status: StatusError, cause: cause}
}

// Status returns the authentication state of the snapshot.
func (s Session) Status() Status {
	if s.status == "" {
		return StatusUnauthenticated
	}
	return s.status
}

// IsAuthenticated reports whether the snapshot carries a valid identity.
func (s Session) IsAuthenticated() bool { return s.Status() == StatusAuthenticated }

// Username returns the authenticated principal's username, or "" when the
// session is not authenticated.
func (s Session) Username() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.record.Username
}

// Roles returns a copy of the session's role set. The set is empty whenever
// the session is not authenticated, regardless of any previously held roles.
func (s Session) Roles() []Role {
	if !s.IsAuthenticated() {
		return nil
	}
	return append([]Role(nil), s.record.Roles...)
}

// HasRole reports whether the session is authenticated and holds the role.
func (s Session) HasRole(role Role) bool {
	if !s.IsAuthenticated() {
		return false
	}
	for _, r := range s.record.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Credential returns the bearer credential if the session is authenticated
// and the credential has not expired at the given time. Expiry is checked
// here, lazily at read time, rather than proactively.
func (s Session) Credential(now time.Time) (string, bool) {
	if !s.IsAuthenticated() || s.record.Token == "" || s.record.Expired(now) {
		return "", false
	}
	return s.record.Token, true
}

// ExpiresAt returns the credential expiry and whether one is known.
func (s Session) ExpiresAt() (time.Time, bool) {
	if !s.IsAuthenticated() || s.record.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return s.record.ExpiresAt, true
}

// Cause returns the recorded fault when the session is in the error state.
func (s Session) Cause() error {
	if s.Status() != StatusError {
		return nil
	}
	return s.cause
}
