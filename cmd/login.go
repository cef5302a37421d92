package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/testagent/cli/internal/api"
	"github.com/testagent/cli/internal/auth"
	clierrors "github.com/testagent/cli/internal/errors"
	"github.com/testagent/cli/internal/logger"
	"github.com/testagent/cli/internal/ui"
)

var (
	loginCallbackURL string
	loginPaste       bool
	loginTimeout     time.Duration
	loginForce       bool
)

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Authenticate with GitHub",
	GroupID: groupAuth,
	Long: `Sign in through the backend's GitHub OAuth flow.

By default a listener on the configured callback address receives the
redirect. With --paste, or when the browser ends up on another machine,
paste the final URL (the one carrying ?user=&token=) instead.`,
	Example: `  testagent login                     # Open the OAuth flow and wait for the redirect
  testagent login --paste             # Paste the redirected URL by hand
  testagent login --callback-url 'http://localhost:3000/?user=alice&token=gho_...'`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginCallbackURL, "callback-url", "", "Consume an OAuth callback URL directly")
	loginCmd.Flags().BoolVar(&loginPaste, "paste", false, "Paste the redirected URL instead of listening for it")
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", 5*time.Minute, "How long to wait for the OAuth redirect")
	loginCmd.Flags().BoolVar(&loginForce, "force", false, "Sign in again even if already authenticated")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := currentConfig()

	session, err := openSession(cfg)
	if err != nil {
		return err
	}

	// Check if already authenticated
	if session.IsAuthenticated() && !loginForce {
		printLine(cmd, "✓ Already authenticated as "+session.GitHubUser()+". Use 'testagent logout' to sign out.")
		return nil
	}

	if loginCallbackURL != "" {
		return consumeLoginURL(cmd, session, loginCallbackURL)
	}

	client := api.NewClient(cfg, session)

	if loginPaste {
		authURL, err := client.LoginURL(ctx, "")
		if err != nil {
			return wrapAPIError(err, "start GitHub login")
		}
		printAuthURL(cmd, authURL)

		answer, err := ui.NewPrompterWith(cmd.InOrStdin(), cmd.OutOrStdout()).Ask("Paste the URL you were redirected to")
		if err != nil {
			return clierrors.NewUsageError("No callback URL provided")
		}
		return consumeLoginURL(cmd, session, answer)
	}

	server := auth.NewCallbackServer(cfg.CallbackAddr, session)
	authURL, err := client.LoginURL(ctx, server.RedirectURI())
	if err != nil {
		return wrapAPIError(err, "start GitHub login")
	}
	printAuthURL(cmd, authURL)

	printLine(cmd, "⏳ Waiting for authorization on "+server.RedirectURI()+" ...")

	waitCtx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	result, err := server.Wait(waitCtx)
	if err != nil {
		if waitCtx.Err() == context.DeadlineExceeded {
			return clierrors.NewAuthError(err, "Timed out waiting for the GitHub redirect. Try 'testagent login --paste'.")
		}
		logger.Error("OAuth callback failed", err)
		return clierrors.NewAuthError(err, "GitHub login failed")
	}

	logger.Info("User %s authenticated successfully", result.User)
	printLoggedIn(cmd, result.User)
	return nil
}

func consumeLoginURL(cmd *cobra.Command, session *auth.Session, rawURL string) error {
	clean, consumed, err := auth.ConsumeCallback(session, rawURL)
	if err != nil {
		return clierrors.NewValidationError(err, "The callback URL could not be read")
	}
	if !consumed {
		return clierrors.NewAuthError(nil, "The URL carried no credentials (expected ?user=&token= or ?session_token=)")
	}

	logger.Debug("Consumed OAuth callback for %s", clean)
	printLoggedIn(cmd, session.GitHubUser())
	return nil
}

func printAuthURL(cmd *cobra.Command, authURL string) {
	printLine(cmd, "\n"+ui.BoldStyle.Render("🔑 GitHub Authentication"))
	printLine(cmd, ui.Rule(40))
	printf(cmd, "\nOpen this URL in your browser:\n  %s\n\n", ui.LinkStyle.Render(authURL))
}

func printLoggedIn(cmd *cobra.Command, user string) {
	printLine(cmd, "\n"+ui.SuccessStyle.Render("✓ Successfully authenticated!"))
	if user != "" {
		printf(cmd, "  Logged in as: %s\n", ui.BoldStyle.Render(user))
	}
}
