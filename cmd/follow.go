package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/deptdesk/deptdesk/internal/app"
	"github.com/deptdesk/deptdesk/internal/guard"
)

// NewFollowCmd creates the follow command.
func NewFollowCmd(rt *runtime) *cobra.Command {
	if rt == nil {
		panic("NewFollowCmd: runtime dependency cannot be nil")
	}

	var followInterval float64

	followCmd := &cobra.Command{
		Use:   "follow",
		Short: "Monitor notifications in real-time",
		Long: `Monitor notifications in real-time.

USAGE:
    deptdesk follow [OPTIONS]

OPTIONS:
    --interval <secs>  Poll interval (default: 30)
    -h, --help         Show this help`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := guardError(guard.RequireAuth(rt.Session())); err != nil {
				return err
			}

			opts := app.FollowOptions{
				Feed:     rt.Feed(),
				Interval: time.Duration(followInterval * float64(time.Second)),
				Output:   cmd.OutOrStdout(),
			}
			return app.NewFollowUseCase().Execute(cmd.Context(), opts)
		},
	}

	followCmd.Flags().Float64Var(&followInterval, "interval", 30, "Poll interval in seconds")

	return followCmd
}
