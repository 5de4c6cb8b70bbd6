package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ringplace/pkg/placement"
	"github.com/matzehuels/ringplace/pkg/plan"
)

func (c *CLI) plansCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage saved plans",
		Long: `Manage plans saved with 'ringplace place --save NAME' or the HTTP API.

Plans can be referenced by ID or by name.`,
	}

	cmd.AddCommand(c.plansListCommand())
	cmd.AddCommand(c.plansShowCommand())
	cmd.AddCommand(c.plansDeleteCommand())

	return cmd
}

func (c *CLI) plansListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved plans, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			plans, err := store.List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(plans) == 0 {
				printInfo(out, "No saved plans")
				return nil
			}

			rows := make([][]string, len(plans))
			for i, p := range plans {
				rows[i] = []string{
					p.Name,
					strconv.Itoa(p.Request.Count),
					fmt.Sprintf("%g–%g", p.Request.Band.Min, p.Request.Band.Max),
					p.Request.Offset.String(),
					p.CreatedAt.Local().Format(time.DateTime),
					p.ID,
				}
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(styleDim).
				Headers("Name", "Count", "Band", "Offset", "Created", "ID").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == -1:
						return styleHeader
					case col == 0:
						return styleTitle
					case col >= 4:
						return styleDim
					}
					return styleValue
				})
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
}

func (c *CLI) plansShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := plan.Find(ctx, store, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}

			fmt.Fprintln(out, styleTitle.Render(p.Name))
			printKeyValue(out, "ID", p.ID)
			printKeyValue(out, "Created", p.CreatedAt.Local().Format(time.DateTime))
			printKeyValue(out, "Count", strconv.Itoa(p.Request.Count))
			printKeyValue(out, "Band", fmt.Sprintf("%g–%g", p.Request.Band.Min, p.Request.Band.Max))
			printKeyValue(out, "Offset", p.Request.Offset.String())
			printKeyValue(out, "Strategy", string(p.Request.Strategy))
			if p.Request.Distinct {
				printKeyValue(out, "Distinct", "yes")
			}
			printNewline(out)
			fmt.Fprintln(out, planPointsTable(p.Points).Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}

func (c *CLI) plansDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved plan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := plan.Find(ctx, store, args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(ctx, p.ID); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted plan %s", p.Name)
			return nil
		},
	}
}

func planPointsTable(points []placement.Point) *table.Table {
	rows := make([][]string, len(points))
	for k, p := range points {
		rows[k] = []string{strconv.Itoa(k), strconv.Itoa(p.X), strconv.Itoa(p.Y)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		Headers("Slot", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return styleDim
			}
			return styleNumber
		})
}
