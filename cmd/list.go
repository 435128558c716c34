package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deptdesk/deptdesk/internal/app"
	"github.com/deptdesk/deptdesk/internal/guard"
	"github.com/deptdesk/deptdesk/internal/search"
)

// NewListCmd creates the list command.
func NewListCmd(rt *runtime) *cobra.Command {
	if rt == nil {
		panic("NewListCmd: runtime dependency cannot be nil")
	}

	var listSearch string
	var listRegex bool

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		Long: `List notifications, newest first.

USAGE:
    deptdesk list [OPTIONS]

OPTIONS:
    --search <pattern>   Search messages (substring match)
    --regex              Use regex search with --search
    -h, --help           Show this help

Unread notifications are marked with '*'. The feed is fetched once;
use 'deptdesk follow' to keep watching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := guardError(guard.RequireAuth(rt.Session())); err != nil {
				return err
			}

			opts := app.ListOptions{Search: listSearch}
			if listRegex {
				opts.Provider = search.NewRegexProvider()
			}
			return app.NewListUseCase(rt.Feed()).Execute(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	listCmd.Flags().StringVar(&listSearch, "search", "", "Search messages (substring match)")
	listCmd.Flags().BoolVar(&listRegex, "regex", false, "Use regex search with --search")

	return listCmd
}
