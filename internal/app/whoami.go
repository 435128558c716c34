package app

import (
	"fmt"
	"io"
	"time"

	"github.com/deptdesk/deptdesk/internal/credentials"
	"github.com/deptdesk/deptdesk/internal/token"
)

// SessionInfo defines the session reads the whoami command needs.
type SessionInfo interface {
	IsAuthenticated() bool
	Token() string
	User() *credentials.Profile
}

// WhoamiUseCase reports the current session.
type WhoamiUseCase struct {
	session SessionInfo
}

// NewWhoamiUseCase creates a whoami use-case.
func NewWhoamiUseCase(session SessionInfo) *WhoamiUseCase {
	if session == nil {
		panic("NewWhoamiUseCase: session dependency cannot be nil")
	}
	return &WhoamiUseCase{session: session}
}

// Execute writes the session summary.
func (u *WhoamiUseCase) Execute(w io.Writer) error {
	if !u.session.IsAuthenticated() {
		_, _ = fmt.Fprintln(w, "Not logged in")
		return nil
	}

	user := u.session.User()
	if user == nil {
		_, _ = fmt.Fprintln(w, "Not logged in")
		return nil
	}

	_, _ = fmt.Fprintf(w, "Email:        %s\n", user.Email)
	_, _ = fmt.Fprintf(w, "Role:         %s\n", user.Role)
	_, _ = fmt.Fprintf(w, "Access level: %d\n", user.AccessLevel)

	if expMs, ok := token.ExpiryMillis(u.session.Token()); ok {
		expiry := time.UnixMilli(expMs)
		_, _ = fmt.Fprintf(w, "Expires:      %s (%s)\n",
			expiry.Format("2006-01-02 15:04:05"),
			formatRemaining(time.Until(expiry)))
	} else {
		_, _ = fmt.Fprintln(w, "Expires:      unknown")
	}
	return nil
}

func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "expired"
	}
	return "in " + d.Round(time.Second).String()
}
