package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deptdesk/deptdesk/internal/app"
)

// NewWhoamiCmd creates the whoami command.
func NewWhoamiCmd(rt *runtime) *cobra.Command {
	if rt == nil {
		panic("NewWhoamiCmd: runtime dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Long:  `Show the email, role, access level and token expiry of the current session.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewWhoamiUseCase(rt.Session()).Execute(cmd.OutOrStdout())
		},
	}
}
