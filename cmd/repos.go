package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/testagent/cli/internal/api"
	clierrors "github.com/testagent/cli/internal/errors"
	"github.com/testagent/cli/internal/logger"
	"github.com/testagent/cli/internal/ui"
	"golang.org/x/sync/errgroup"
)

var (
	reposUser        string
	reposBranches    bool
	reposConcurrency int
	reposJSON        bool
	branchesUser     string
	branchesJSON     bool
)

var reposCmd = &cobra.Command{
	Use:     "repos",
	Short:   "List GitHub repositories visible to the signed-in user",
	GroupID: groupTestCases,
	Example: `  testagent repos                       # Repositories of the signed-in user
  testagent repos --branches            # Include every repository's branches
  testagent repos --user acme --json    # Another owner, as JSON`,
	Args: cobra.NoArgs,
	RunE: runRepos,
}

var branchesCmd = &cobra.Command{
	Use:     "branches <repo>",
	Short:   "List the branches of a repository",
	GroupID: groupTestCases,
	Example: `  testagent branches shop-api
  testagent branches shop-api --user acme`,
	Args: cobra.ExactArgs(1),
	RunE: runBranches,
}

func init() {
	reposCmd.Flags().StringVar(&reposUser, "user", "", "GitHub user whose repositories to list (default: signed-in user)")
	reposCmd.Flags().BoolVar(&reposBranches, "branches", false, "Also fetch the branches of each repository")
	reposCmd.Flags().IntVar(&reposConcurrency, "concurrency", 4, "Parallel branch requests with --branches")
	reposCmd.Flags().BoolVar(&reposJSON, "json", false, "Print JSON instead of a list")

	branchesCmd.Flags().StringVar(&branchesUser, "user", "", "Repository owner (default: signed-in user)")
	branchesCmd.Flags().BoolVar(&branchesJSON, "json", false, "Print JSON instead of a list")

	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(branchesCmd)
}

// repoListing is a repository with its branches when requested
type repoListing struct {
	api.Repo
	Branches []api.Branch `json:"branches,omitempty"`
}

func runRepos(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if reposConcurrency < 1 {
		return clierrors.NewUsageError("--concurrency must be at least 1")
	}

	client, session, err := newAPIClient(true)
	if err != nil {
		return err
	}
	if err := requireAuth(session); err != nil {
		return err
	}

	user := reposUser
	if user == "" {
		user = session.GitHubUser()
	}

	repos, err := client.ListRepos(ctx, user)
	if err != nil {
		return wrapAPIError(err, "list repositories")
	}
	logger.Debug("Listed %d repositories for %s", len(repos), user)

	listings := make([]repoListing, len(repos))
	for i, r := range repos {
		listings[i].Repo = r
	}

	if reposBranches {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(reposConcurrency)
		for i := range listings {
			g.Go(func() error {
				r := listings[i].Repo
				owner := r.Owner.Login
				if owner == "" {
					owner = user
				}
				branches, err := client.ListBranches(gctx, owner, r.Name)
				if err != nil {
					return clierrors.Wrap(err, r.FullName())
				}
				listings[i].Branches = branches
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return wrapAPIError(err, "list branches")
		}
	}

	if reposJSON {
		return writeJSON(cmd.OutOrStdout(), listings)
	}

	if len(listings) == 0 {
		printLine(cmd, "No repositories found")
		return nil
	}

	printLine(cmd, ui.HeaderStyle.Render(fmt.Sprintf("Repositories (%d)", len(listings))))
	for _, l := range listings {
		printf(cmd, "  %s\n", ui.BoldStyle.Render(l.FullName()))
		for _, b := range l.Branches {
			printf(cmd, "    %s %s\n", ui.FaintStyle.Render("└"), b.Name)
		}
	}
	return nil
}

func runBranches(cmd *cobra.Command, args []string) error {
	client, session, err := newAPIClient(true)
	if err != nil {
		return err
	}
	if err := requireAuth(session); err != nil {
		return err
	}

	owner := branchesUser
	if owner == "" {
		owner = session.GitHubUser()
	}

	branches, err := client.ListBranches(cmd.Context(), owner, args[0])
	if err != nil {
		return wrapAPIError(err, "list branches")
	}

	if branchesJSON {
		return writeJSON(cmd.OutOrStdout(), branches)
	}

	if len(branches) == 0 {
		printLine(cmd, "No branches found")
		return nil
	}
	for _, b := range branches {
		printLine(cmd, b.Name)
	}
	return nil
}
