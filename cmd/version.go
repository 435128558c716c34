package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deptdesk/deptdesk/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the current version of deptdesk.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deptdesk version %s\n", version.String())
			return nil
		},
	}
}
