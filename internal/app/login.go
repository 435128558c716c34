// Package app implements the command use-cases.
package app

import (
	"context"
	"fmt"

	"github.com/deptdesk/deptdesk/internal/api"
	"github.com/deptdesk/deptdesk/internal/colors"
	"github.com/deptdesk/deptdesk/internal/hooks"
)

// AuthClient defines dependencies required to authenticate.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
}

// SessionWriter receives the login result.
type SessionWriter interface {
	Login(resp *api.LoginResponse)
}

// LoginUseCase coordinates login behavior.
type LoginUseCase struct {
	auth    AuthClient
	session SessionWriter
}

// NewLoginUseCase creates a new login use-case.
func NewLoginUseCase(auth AuthClient, session SessionWriter) *LoginUseCase {
	if auth == nil || session == nil {
		panic("NewLoginUseCase: dependencies cannot be nil")
	}
	return &LoginUseCase{auth: auth, session: session}
}

// Execute authenticates and installs the session.
func (u *LoginUseCase) Execute(ctx context.Context, email, password string) error {
	resp, err := u.auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	u.session.Login(resp)
	colors.Success(fmt.Sprintf("Logged in as %s (%s)", resp.Email, resp.Role))

	if err := hooks.Run(hooks.EventLogin, map[string]string{
		"DEPTDESK_EMAIL": resp.Email,
		"DEPTDESK_ROLE":  resp.Role,
	}); err != nil {
		colors.Warning(fmt.Sprintf("login hook: %v", err))
	}
	return nil
}
