// Package cmd wires the deptdesk commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/deptdesk/deptdesk/internal/errors"
	"github.com/deptdesk/deptdesk/internal/logging"
	"github.com/deptdesk/deptdesk/internal/version"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "deptdesk",
	Short: "Terminal client for the DeptDesk department platform.",
	Long:  `Terminal client for the DeptDesk department platform.`,
}

// Execute wires the commands to their runtime dependencies and runs
// the requested one. It is called by main.main().
func Execute() error {
	rt := newRuntime()
	defer rt.shutdown()

	rootCmd.AddCommand(
		NewLoginCmd(rt),
		NewLogoutCmd(rt),
		NewWhoamiCmd(rt),
		NewListCmd(rt),
		NewAddCmd(rt),
		NewMarkReadCmd(rt),
		NewMarkAllReadCmd(rt),
		NewFollowCmd(rt),
		NewInboxCmd(rt),
		NewVersionCmd(),
	)

	rootCmd.SilenceErrors = true
	err := rootCmd.Execute()
	if err != nil {
		logging.Error("command failed", "error", err)
		apperrors.NewDefaultCLIHandler().Error(err.Error())
	}
	return err
}

func init() {
	// Set version for use in help output
	rootCmd.Version = version.String()

	// Hide the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	// Set custom help function with the fixed command ordering
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printHelpText(cmd)
	})
}

func printHelpText(cmd *cobra.Command) {
	commandOrder := []string{
		"login",
		"logout",
		"whoami",
		"list",
		"add",
		"mark-read",
		"mark-all-read",
		"follow",
		"inbox",
		"help",
		"version",
	}

	root := cmd.Root()
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-18s %s", found.Use, found.Short))
	}

	helpText := fmt.Sprintf(`deptdesk v%s

Terminal client for the DeptDesk department platform.

USAGE:
    deptdesk [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
	_, _ = fmt.Fprint(cmd.OutOrStdout(), helpText)
}
