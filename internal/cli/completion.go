package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rangeplot/pkg/ranges"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for rangeplot.

To load completions:

Bash:
  $ source <(rangeplot completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ rangeplot completion bash > /etc/bash_completion.d/rangeplot
  # macOS:
  $ rangeplot completion bash > $(brew --prefix)/etc/bash_completion.d/rangeplot

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ rangeplot completion zsh > "${fpath[1]}/_rangeplot"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ rangeplot completion fish | source

  # To load completions for each session, execute once:
  $ rangeplot completion fish > ~/.config/fish/completions/rangeplot.fish

PowerShell:
  PS> rangeplot completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> rangeplot completion powershell > rangeplot.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeThemes completes --theme with the registered themes.
func completeThemes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return theme.Themes(), cobra.ShellCompDirectiveNoFileComp
}

// completeOptionKeys completes --set with option keys followed by "=".
func completeOptionKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	keys := theme.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k + "="
	}
	return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
}

// completeInputFiles restricts positional arguments to readable interval files.
func completeInputFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	exts := ranges.Extensions()
	for i, e := range exts {
		exts[i] = strings.TrimPrefix(e, ".")
	}
	return exts, cobra.ShellCompDirectiveFilterFileExt
}

// registerPlotCompletions wires the flag completions shared by commands that
// take theme options.
func registerPlotCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("theme", completeThemes)
	_ = cmd.RegisterFlagCompletionFunc("set", completeOptionKeys)
}
