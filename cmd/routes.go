package cmd

import (
	"github.com/spf13/cobra"
	"github.com/testagent/cli/internal/api"
	"github.com/testagent/cli/internal/auth"
	clierrors "github.com/testagent/cli/internal/errors"
	"github.com/testagent/cli/internal/logger"
	"github.com/testagent/cli/internal/testcase"
	"github.com/testagent/cli/internal/ui"
)

var (
	routesUser   string
	routesRepo   string
	routesBranch string
	routesFiles  []string
	routesOutput string
	routesForce  bool
)

var routesCmd = &cobra.Command{
	Use:     "routes",
	Short:   "Discover API routes in a repository and match them to test cases",
	GroupID: groupTestCases,
}

var routesDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List the source files that declare API routes",
	Example: `  testagent routes discover --repo shop-api --branch main`,
	Args: cobra.NoArgs,
	RunE: runRoutesDiscover,
}

var routesExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract routes and write the matched test case preview",
	Example: `  testagent routes extract --repo shop-api --branch main
  testagent routes extract --repo shop-api --branch main --file app/routes.py -o preview.yaml`,
	Args: cobra.NoArgs,
	RunE: runRoutesExtract,
}

func init() {
	for _, c := range []*cobra.Command{routesDiscoverCmd, routesExtractCmd} {
		c.Flags().StringVar(&routesUser, "user", "", "Repository owner (default: signed-in user)")
		c.Flags().StringVar(&routesRepo, "repo", "", "Repository name")
		c.Flags().StringVar(&routesBranch, "branch", "", "Branch to scan")
		_ = c.MarkFlagRequired("repo")
		_ = c.MarkFlagRequired("branch")
	}

	routesExtractCmd.Flags().StringSliceVar(&routesFiles, "file", nil, "Route file to extract from (repeatable, default: all discovered)")
	routesExtractCmd.Flags().StringVarP(&routesOutput, "output", "o", "testcases-preview.json", "Preview file to write (.json, .yaml)")
	routesExtractCmd.Flags().BoolVar(&routesForce, "force", false, "Overwrite the preview file without prompting")

	routesCmd.AddCommand(routesDiscoverCmd)
	routesCmd.AddCommand(routesExtractCmd)
	rootCmd.AddCommand(routesCmd)
}

// routeQuery builds the repository selection from flags and the session
func routeQuery(session *auth.Session) api.RouteQuery {
	user := routesUser
	if user == "" {
		user = session.GitHubUser()
	}
	return api.RouteQuery{Username: user, Repo: routesRepo, Branch: routesBranch}
}

func runRoutesDiscover(cmd *cobra.Command, args []string) error {
	client, session, err := newAPIClient(true)
	if err != nil {
		return err
	}
	if err := requireAuth(session); err != nil {
		return err
	}

	files, err := client.DiscoverRouteFiles(cmd.Context(), routeQuery(session))
	if err != nil {
		return wrapAPIError(err, "discover route files")
	}

	if len(files) == 0 {
		printLine(cmd, "No route files found")
		return nil
	}
	printf(cmd, "Found %d route file(s):\n", len(files))
	for _, f := range files {
		printf(cmd, "  • %s\n", f)
	}
	return nil
}

func runRoutesExtract(cmd *cobra.Command, args []string) error {
	if _, err := testcase.FormatFromPath(routesOutput); err != nil {
		return clierrors.NewUsageError("Output file must end in .json, .yaml or .yml")
	}

	if !confirmWrite(cmd, routesOutput, routesForce) {
		printLine(cmd, "Extraction cancelled")
		return nil
	}

	client, session, err := newAPIClient(true)
	if err != nil {
		return err
	}
	if err := requireAuth(session); err != nil {
		return err
	}

	preview, err := client.ExtractRoutes(cmd.Context(), api.RouteExtractRequest{
		RouteQuery: routeQuery(session),
		RouteFiles: routesFiles,
	})
	if err != nil {
		return wrapAPIError(err, "extract routes")
	}

	if err := testcase.NewPreviewFile(routesOutput, preview).Save(); err != nil {
		return clierrors.NewError(err, "Failed to write "+routesOutput)
	}
	logger.Info("Wrote route preview with %d routes to %s", len(preview.RoutesPreview), routesOutput)

	printf(cmd, "✓ %d route(s) extracted\n", len(preview.RoutesPreview))
	printf(cmd, "  %s\n", preview.TestCasesPreview.MatchSummary())
	printf(cmd, "  Preview written to %s\n", ui.ShortenPath(routesOutput))
	return nil
}
