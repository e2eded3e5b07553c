package cli

import (
	"github.com/spf13/cobra"
)

// completionShells lists the shells cobra can generate completions for.
var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for sankeyflow and print it to stdout.

Load it for the current session:

  bash:        source <(sankeyflow completion bash)
  zsh:         source <(sankeyflow completion zsh)
  fish:        sankeyflow completion fish | source
  powershell:  sankeyflow completion powershell | Out-String | Invoke-Expression

To load completions in every session, write the script to your shell's
completion directory, for example:

  sankeyflow completion zsh > "${fpath[1]}/_sankeyflow"
  sankeyflow completion fish > ~/.config/fish/completions/sankeyflow.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
