package cmd

import (
	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long:  "Generate the autocompletion script for testagent for the specified shell.",
	Example: `  # Bash (Linux)
  testagent completion bash > /etc/bash_completion.d/testagent

  # Bash (macOS with Homebrew)
  testagent completion bash > $(brew --prefix)/etc/bash_completion.d/testagent

  # Zsh (macOS with Homebrew)
  testagent completion zsh > $(brew --prefix)/share/zsh/site-functions/_testagent

  # Fish
  testagent completion fish > ~/.config/fish/completions/testagent.fish

  # PowerShell
  testagent completion powershell >> $PROFILE`,
	DisableFlagsInUseLine: true,
}

var completionBashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate the autocompletion script for bash",
	Example: `  # Load in current session
  source <(testagent completion bash)

  # Linux - load permanently
  sudo testagent completion bash > /etc/bash_completion.d/testagent

  # macOS (Homebrew) - load permanently
  testagent completion bash > $(brew --prefix)/etc/bash_completion.d/testagent`,
	DisableFlagsInUseLine: true,
	Args:                  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletionV2(cmd.OutOrStdout(), true)
	},
}

var completionZshCmd = &cobra.Command{
	Use:   "zsh",
	Short: "Generate the autocompletion script for zsh",
	Example: `  # Load in current session
  source <(testagent completion zsh)

  # Linux - load permanently
  testagent completion zsh > "${fpath[1]}/_testagent"

  # macOS (Homebrew) - load permanently
  testagent completion zsh > $(brew --prefix)/share/zsh/site-functions/_testagent`,
	DisableFlagsInUseLine: true,
	Args:                  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenZshCompletion(cmd.OutOrStdout())
	},
}

var completionFishCmd = &cobra.Command{
	Use:   "fish",
	Short: "Generate the autocompletion script for fish",
	Example: `  # Load in current session
  testagent completion fish | source

  # Load permanently
  testagent completion fish > ~/.config/fish/completions/testagent.fish`,
	DisableFlagsInUseLine: true,
	Args:                  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
	},
}

var completionPowershellCmd = &cobra.Command{
	Use:   "powershell",
	Short: "Generate the autocompletion script for powershell",
	Example: `  # Load in current session
  testagent completion powershell | Out-String | Invoke-Expression

  # Load permanently (add to your PowerShell profile)
  testagent completion powershell >> $PROFILE`,
	DisableFlagsInUseLine: true,
	Args:                  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	},
}

func init() {
	completionCmd.AddCommand(completionBashCmd)
	completionCmd.AddCommand(completionZshCmd)
	completionCmd.AddCommand(completionFishCmd)
	completionCmd.AddCommand(completionPowershellCmd)
	rootCmd.AddCommand(completionCmd)
}
