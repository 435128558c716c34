package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deptdesk/deptdesk/internal/app"
	"github.com/deptdesk/deptdesk/internal/guard"
	"github.com/deptdesk/deptdesk/internal/notification"
)

// NewMarkReadCmd creates the mark-read command.
func NewMarkReadCmd(rt *runtime) *cobra.Command {
	if rt == nil {
		panic("NewMarkReadCmd: runtime dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "mark-read <id>",
		Short: "Mark one notification as read",
		Long: `Mark one notification as read.

The notification leaves the local feed only after the server
confirms the update.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := guardError(guard.RequireAuth(rt.Session())); err != nil {
				return err
			}
			return app.NewMarkReadUseCase(rt.Feed()).Execute(cmd.Context(), notification.ID(args[0]))
		},
	}
}

// NewMarkAllReadCmd creates the mark-all-read command.
func NewMarkAllReadCmd(rt *runtime) *cobra.Command {
	if rt == nil {
		panic("NewMarkAllReadCmd: runtime dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "mark-all-read",
		Short: "Mark every notification as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := guardError(guard.RequireAuth(rt.Session())); err != nil {
				return err
			}
			return app.NewMarkReadUseCase(rt.Feed()).ExecuteAll(cmd.Context())
		},
	}
}
