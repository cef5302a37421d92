package cmd

import (
	"github.com/spf13/cobra"
	clierrors "github.com/testagent/cli/internal/errors"
	"github.com/testagent/cli/internal/logger"
	"github.com/testagent/cli/internal/ui"
)

var (
	forceLogout bool
)

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Log out and delete stored credentials",
	GroupID: groupAuth,
	Example: `  testagent logout            # Log out with confirmation prompt
  testagent logout --force    # Log out without confirmation`,
	RunE: runLogout,
}

func init() {
	logoutCmd.Flags().BoolVar(&forceLogout, "force", false, "Skip confirmation prompt")
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	session, err := openSession(currentConfig())
	if err != nil {
		return err
	}

	// Check if authenticated
	if !session.IsAuthenticated() && session.SessionToken() == "" {
		printLine(cmd, "Not currently authenticated")
		return nil
	}

	// Confirm logout unless --force is used
	if !forceLogout {
		ok, err := ui.NewPrompterWith(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm("Are you sure you want to sign out?")
		if err != nil {
			return clierrors.NewUsageError("Failed to read input, use --force to skip the prompt")
		}
		if !ok {
			printLine(cmd, "Logout cancelled")
			return nil
		}
	}

	if err := session.Clear(); err != nil {
		logger.Error("Failed to clear session", err)
		return clierrors.NewError(err, "Failed to clear credentials")
	}

	logger.Info("User logged out")
	printLine(cmd, "✓ Successfully signed out")

	return nil
}
