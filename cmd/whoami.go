package cmd

import (
	"github.com/spf13/cobra"
	"github.com/testagent/cli/internal/ui"
)

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show current authenticated user information",
	GroupID: groupAuth,
	Example: `  testagent whoami            # Show current user info
  testagent whoami --debug    # Show with debug information`,
	RunE: runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	session, err := openSession(cfg)
	if err != nil {
		return err
	}

	if !session.IsAuthenticated() {
		printLine(cmd, ui.ErrorStyle.Render("✗ Not authenticated"))
		printLine(cmd, "\nRun 'testagent login' to authenticate with GitHub")
		return nil
	}

	user := session.GitHubUser()
	if user == "" {
		user = "(unknown GitHub user)"
	}

	printf(cmd, "✓ Authenticated as: %s\n", ui.BoldStyle.Render(user))
	printf(cmd, "  GitHub token:  %s\n", maskToken(session.GitHubToken()))
	if st := session.SessionToken(); st != "" {
		printf(cmd, "  Session token: %s\n", maskToken(st))
	}
	printf(cmd, "  Backend:       %s\n", cfg.GetAPIEndpoint())
	printf(cmd, "  Store:         %s\n", cfg.SessionBackend)

	return nil
}
