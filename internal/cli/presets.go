package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List presets from the config file",
		Long: `List the [presets.<name>] sections of the config file.

Use a preset with 'ringplace place --preset NAME'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			names := cfg.PresetNames()
			if len(names) == 0 {
				printInfo(out, "No presets configured")
				if cfg.Path != "" {
					printDetail(out, "Config: %s", cfg.Path)
				}
				return nil
			}

			rows := make([][]string, len(names))
			for i, name := range names {
				p := cfg.Presets[name]
				offset := "0,0"
				if len(p.Offset) == 2 {
					offset = fmt.Sprintf("%g,%g", p.Offset[0], p.Offset[1])
				}
				rows[i] = []string{
					name,
					strconv.Itoa(p.Count),
					fmt.Sprintf("%g–%g", p.Min, p.Max),
					offset,
					strconv.FormatBool(p.Distinct),
				}
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(styleDim).
				Headers("Preset", "Count", "Band", "Offset", "Distinct").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return styleHeader
					}
					if col == 0 {
						return styleTitle
					}
					return styleValue
				})
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
}

// completePresets completes preset names for --preset.
func (c *CLI) completePresets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return cfg.PresetNames(), cobra.ShellCompDirectiveNoFileComp
}
