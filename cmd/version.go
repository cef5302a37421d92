package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/testagent/cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Example: `  testagent version           # Show version info
  testagent version --short   # Print only the version number`,
	Run: runVersion,
}

var versionShort bool

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	if versionShort {
		fmt.Fprintln(out, version.Version)
		return
	}
	fmt.Fprintf(out, "Test Agent CLI\n")
	fmt.Fprintf(out, "  Version:    %s\n", version.Version)
	fmt.Fprintf(out, "  Commit:     %s\n", version.CommitSHA)
	fmt.Fprintf(out, "  Built:      %s\n", version.BuildDate)
	fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
	fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
