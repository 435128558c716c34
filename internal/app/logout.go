package app

import (
	"fmt"

	"github.com/deptdesk/deptdesk/internal/colors"
	"github.com/deptdesk/deptdesk/internal/hooks"
)

// SessionCloser defines dependencies required to end a session.
type SessionCloser interface {
	IsAuthenticated() bool
	Logout()
}

// LogoutUseCase coordinates logout behavior.
type LogoutUseCase struct {
	session SessionCloser
}

// NewLogoutUseCase creates a new logout use-case.
func NewLogoutUseCase(session SessionCloser) *LogoutUseCase {
	if session == nil {
		panic("NewLogoutUseCase: session dependency cannot be nil")
	}
	return &LogoutUseCase{session: session}
}

// Execute clears the session. Logging out while anonymous succeeds
// without side effects.
func (u *LogoutUseCase) Execute() error {
	if !u.session.IsAuthenticated() {
		colors.Info("Not logged in")
		return nil
	}
	u.session.Logout()
	colors.Success("Logged out")

	if err := hooks.Run(hooks.EventLogout, nil); err != nil {
		colors.Warning(fmt.Sprintf("logout hook: %v", err))
	}
	return nil
}
