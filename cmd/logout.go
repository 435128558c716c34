package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deptdesk/deptdesk/internal/app"
)

// NewLogoutCmd creates the logout command.
func NewLogoutCmd(rt *runtime) *cobra.Command {
	if rt == nil {
		panic("NewLogoutCmd: runtime dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Long: `End the current session and remove the stored credentials.

Logging out while not logged in is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewLogoutUseCase(rt.Session()).Execute()
		},
	}
}
