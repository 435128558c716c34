package guard

import (
	"testing"

	"github.com/deptdesk/deptdesk/internal/credentials"
	"github.com/deptdesk/deptdesk/internal/roles"
)

type fakeSession struct {
	user *credentials.Profile
}

func (s *fakeSession) IsAuthenticated() bool      { return s.user != nil }
func (s *fakeSession) User() *credentials.Profile { return s.user }

func withRole(r roles.Role) *fakeSession {
	return &fakeSession{user: &credentials.Profile{Email: "u@example.com", Role: r}}
}

func TestRequireAuth(t *testing.T) {
	if got := RequireAuth(&fakeSession{}); got != RedirectLogin {
		t.Errorf("anonymous: got %s, want redirect-login", got)
	}
	if got := RequireAuth(withRole(roles.Student)); got != Allow {
		t.Errorf("authenticated: got %s, want allow", got)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		allowed roles.Set
		want    Decision
	}{
		{"anonymous", &fakeSession{}, roles.HeadOnly, RedirectLogin},
		{"head of department", withRole(roles.DepartmentHead), roles.HeadOnly, Allow},
		{"group director", withRole(roles.GroupDirector), roles.HeadOnly, Allow},
		{"student blocked", withRole(roles.Student), roles.HeadOnly, RedirectHome},
		{"admin not in head-only", withRole(roles.Admin), roles.HeadOnly, RedirectHome},
		{"admin in admin-or-head", withRole(roles.Admin), roles.AdminOrHead, Allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequireRole(tt.session, tt.allowed); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	if got := RequireAdmin(withRole(roles.Admin)); got != Allow {
		t.Errorf("admin: got %s, want allow", got)
	}
	if got := RequireAdmin(withRole(roles.DepartmentHead)); got != RedirectHome {
		t.Errorf("non-admin: got %s, want redirect-home", got)
	}
	if got := RequireAdmin(&fakeSession{}); got != RedirectLogin {
		t.Errorf("anonymous: got %s, want redirect-login", got)
	}
}
