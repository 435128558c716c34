package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/deptdesk/deptdesk/internal/app"
)

// NewLoginCmd creates the login command.
func NewLoginCmd(rt *runtime) *cobra.Command {
	if rt == nil {
		panic("NewLoginCmd: runtime dependency cannot be nil")
	}

	var email string
	var password string

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the platform",
		Long: `Authenticate against the platform and store the session.

USAGE:
    deptdesk login [--email <address>] [--password <password>]

Missing credentials are prompted for interactively. The password
prompt does not echo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				email, err = promptLine(cmd, "Email: ")
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = promptPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
			}

			useCase := app.NewLoginUseCase(rt.Client(), rt.Session())
			return useCase.Execute(cmd.Context(), email, password)
		},
	}

	loginCmd.Flags().StringVarP(&email, "email", "e", "", "Account email address")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")

	return loginCmd
}

func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("login: read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(cmd *cobra.Command, prompt string) (string, error) {
	// Only prompt without echo when stdin is a real terminal.
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), prompt)
		raw, err := term.ReadPassword(int(syscall.Stdin))
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("login: read password: %w", err)
		}
		return string(raw), nil
	}
	return promptLine(cmd, prompt)
}
