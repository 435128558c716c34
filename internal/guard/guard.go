// Package guard implements navigation gating from session state.
//
// Guards are pure predicates: they never mutate the session, they only
// decide where a navigation attempt should land. Client-side gating is a
// UX convenience; the server enforces the real permissions.
package guard

import (
	"github.com/deptdesk/deptdesk/internal/credentials"
	"github.com/deptdesk/deptdesk/internal/roles"
)

// Decision is the outcome of a guard check.
type Decision int

const (
	// Allow renders the requested view.
	Allow Decision = iota
	// RedirectLogin sends the visitor to the login view.
	RedirectLogin
	// RedirectHome sends an authenticated but under-privileged visitor
	// to the default landing view.
	RedirectHome
)

// String returns the decision name for logs and tests.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Session is the read-only session state guards consume.
type Session interface {
	IsAuthenticated() bool
	User() *credentials.Profile
}

// RequireAuth admits any authenticated session.
func RequireAuth(s Session) Decision {
	if !s.IsAuthenticated() {
		return RedirectLogin
	}
	return Allow
}

// RequireRole admits authenticated sessions whose role is in allowed;
// other authenticated sessions land on the default view.
func RequireRole(s Session, allowed roles.Set) Decision {
	if !s.IsAuthenticated() {
		return RedirectLogin
	}
	user := s.User()
	if user == nil || !allowed.Contains(user.Role) {
		return RedirectHome
	}
	return Allow
}

// RequireAdmin admits administrators only.
func RequireAdmin(s Session) Decision {
	return RequireRole(s, roles.Set{roles.Admin: true})
}
