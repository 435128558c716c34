package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/deptdesk/deptdesk/internal/app"
	"github.com/deptdesk/deptdesk/internal/guard"
)

// NewAddCmd creates the add command.
func NewAddCmd(rt *runtime) *cobra.Command {
	if rt == nil {
		panic("NewAddCmd: runtime dependency cannot be nil")
	}

	var title string
	var category string
	var link string

	addCmd := &cobra.Command{
		Use:   "add <message>",
		Short: "Publish a notification (administrators only)",
		Long: `Publish a notification to the department feed.

USAGE:
    deptdesk add [OPTIONS] <message>

OPTIONS:
    --title <title>        Notification title
    --category <category>  Notification category
    --link <path>          In-app link target
    -h, --help             Show this help`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := guardError(guard.RequireAdmin(rt.Session())); err != nil {
				return err
			}
			message := strings.Join(args, " ")
			return app.NewAddUseCase(rt.Client()).Execute(cmd.Context(), title, message, category, link)
		},
	}

	addCmd.Flags().StringVar(&title, "title", "", "Notification title")
	addCmd.Flags().StringVar(&category, "category", "", "Notification category")
	addCmd.Flags().StringVar(&link, "link", "", "In-app link target")

	return addCmd
}
