package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deptdesk/deptdesk/internal/guard"
	"github.com/deptdesk/deptdesk/internal/session"
	"github.com/deptdesk/deptdesk/internal/tui"
)

// sessionView adapts the session manager to the inbox header.
type sessionView struct {
	session *session.Manager
}

func (v sessionView) IsAuthenticated() bool {
	return v.session.IsAuthenticated()
}

func (v sessionView) UserLabel() string {
	user := v.session.User()
	if user == nil {
		return "anonymous"
	}
	return fmt.Sprintf("%s (%s)", user.Email, user.Role)
}

// NewInboxCmd creates the inbox command.
func NewInboxCmd(rt *runtime) *cobra.Command {
	if rt == nil {
		panic("NewInboxCmd: runtime dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "inbox",
		Short: "Interactive terminal inbox",
		Long: `Interactive terminal inbox for notifications.

KEY BINDINGS:
    j/k         Move down/up in the list
    r/Enter     Mark the selected notification as read
    a           Mark all notifications as read
    R           Refresh now
    q/ESC       Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := guardError(guard.RequireAuth(rt.Session())); err != nil {
				return err
			}

			model := tui.NewModel(rt.Feed(), sessionView{session: rt.Session()},
				tui.WithRefreshInterval(pollInterval()))
			return tui.NewDefaultProgramRunner().Run(model)
		},
	}
}
