package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rangeplot/pkg/pipeline"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

// optionsCommand creates the options command, which prints the theme options
// table.
func (c *CLI) optionsCommand() *cobra.Command {
	var (
		themeName string
		optsFile  string
		set       []string
		changed   bool
	)

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show theme options and their values",
		Long: `Show every theme option with its current value, its default and a short
description. The current value reflects --theme, --config and --set in the
same order plot applies them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseSet(set)
			if err != nil {
				return err
			}
			opts := pipeline.Options{Theme: themeName, OptionsFile: optsFile, Overrides: overrides}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			entries := opts.ThemeOptions().Describe()
			if changed {
				entries = changedEntries(entries)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderOptionsTable(entries))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&themeName, "theme", "", "theme to describe")
	f.StringVar(&optsFile, "config", "", "TOML file of theme options")
	f.StringArrayVar(&set, "set", nil, "set a theme option, key=value (repeatable)")
	f.BoolVar(&changed, "changed", false, "only show options that differ from the default")
	registerPlotCompletions(cmd)

	return cmd
}

// changedEntries keeps the entries whose value differs from the default.
func changedEntries(entries []theme.Entry) []theme.Entry {
	var out []theme.Entry
	for _, e := range entries {
		if e.Value != e.Default {
			out = append(out, e)
		}
	}
	return out
}

// renderOptionsTable draws entries as a lipgloss table, highlighting changed
// values.
func renderOptionsTable(entries []theme.Entry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Key, e.Value, e.Default, e.Description}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Value", "Default", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			switch col {
			case 0:
				return cell.Foreground(colorCyan)
			case 1:
				if entries[row].Value != entries[row].Default {
					return cell.Foreground(colorYellow).Bold(true)
				}
				return cell.Foreground(colorWhite)
			}
			return cell.Foreground(colorDim)
		}).
		Render()
}

// themesCommand creates the themes command.
func (c *CLI) themesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range theme.Themes() {
				o, err := theme.ForTheme(name)
				if err != nil {
					return err
				}
				swatch := "   "
				if hex, err := theme.Hex(o.FigBkg); err == nil {
					swatch = lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render(swatch)
				}
				marker := " "
				if name == pipeline.DefaultTheme {
					marker = StyleHighlight.Render("*")
				}
				fmt.Fprintf(out, "%s %s %-12s %s\n", marker, swatch, name, StyleDim.Render(themeSummary(o)))
			}
			if dir, err := themeDir(); err == nil {
				if _, err := os.Stat(dir); err == nil {
					fmt.Fprintln(out)
					printDetail("User themes: %s", dir)
				}
			}
			return nil
		},
	}
}

// themeSummary lists the options a theme changes from the default.
func themeSummary(o *theme.Options) string {
	var keys []string
	for _, e := range changedEntries(o.Describe()) {
		keys = append(keys, e.Key)
	}
	if len(keys) == 0 {
		return "defaults"
	}
	return strings.Join(keys, ", ")
}
