package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/ringplace/pkg/errors"
	"github.com/matzehuels/ringplace/pkg/placement"
)

const (
	previewStep    = 0.5 // radius change per key press
	previewMinSize = 4   // grid half-height bounds, in rows
	previewMaxSize = 20
)

var (
	stylePreviewPoint  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	stylePreviewDup    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	stylePreviewGuide  = lipgloss.NewStyle().Foreground(colorDim)
	stylePreviewCenter = lipgloss.NewStyle().Foreground(colorYellow)
)

var previewStrategies = []placement.Strategy{
	placement.StrategyAuto,
	placement.StrategyIndex,
	placement.StrategyWedge,
}

func (c *CLI) previewCommand() *cobra.Command {
	var req placement.Request
	var strategy string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Interactively preview a placement in the terminal",
		Long: `Draw a placement on a character grid and adjust it live.

Keys:
  ↑/k ↓/j   add or remove a point
  →/l ←/h   grow or shrink the outer radius
  ] [       grow or shrink the inner radius
  d         toggle distinct placement
  s         cycle the search strategy
  q         quit

Duplicated lattice points are drawn in red.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("count") {
				req.Count = cfg.Defaults.Count
			}
			if !flags.Changed("min") {
				req.Band.Min = cfg.Defaults.Min
			}
			if !flags.Changed("max") {
				req.Band.Max = cfg.Defaults.Max
			}
			if !flags.Changed("distinct") {
				req.Distinct = cfg.Defaults.Distinct
			}
			if !flags.Changed("strategy") {
				strategy = cfg.Defaults.Strategy
			}
			if req.Strategy, err = placement.ParseStrategy(strategy); err != nil {
				return err
			}

			p := tea.NewProgram(newPreviewModel(req),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&req.Count, "count", "n", 0, "initial number of points")
	cmd.Flags().Float64Var(&req.Band.Min, "min", 0, "initial minimum radius")
	cmd.Flags().Float64Var(&req.Band.Max, "max", 0, "initial maximum radius")
	cmd.Flags().BoolVar(&req.Distinct, "distinct", false, "start in distinct mode")
	cmd.Flags().StringVar(&strategy, "strategy", "", "initial search strategy")
	return cmd
}

// previewModel is the bubbletea model behind the preview command. The
// placement is recomputed after every change, always around the origin.
type previewModel struct {
	req  placement.Request
	res  *placement.Result
	err  error
	size int
}

func newPreviewModel(req placement.Request) previewModel {
	req.Offset = placement.Point{}
	if req.Strategy == "" {
		req.Strategy = placement.StrategyAuto
	}
	m := previewModel{req: req, size: 10}
	m.recompute()
	return m
}

func (m *previewModel) recompute() {
	m.res, m.err = placement.Generate(m.req)
	if m.err != nil {
		m.res = nil
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		band := &m.req.Band
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.req.Count = min(m.req.Count+1, placement.MaxCount)
		case "down", "j":
			m.req.Count = max(m.req.Count-1, 1)
		case "right", "l":
			band.Max = min(band.Max+previewStep, placement.MaxRadius)
		case "left", "h":
			band.Max = max(band.Max-previewStep, 0)
			band.Min = min(band.Min, band.Max)
		case "]":
			band.Min = min(band.Min+previewStep, placement.MaxRadius)
			band.Max = max(band.Max, band.Min)
		case "[":
			band.Min = max(band.Min-previewStep, 0)
		case "d":
			m.req.Distinct = !m.req.Distinct
		case "s":
			m.req.Strategy = nextStrategy(m.req.Strategy)
		default:
			return m, nil
		}
		m.recompute()
	case tea.WindowSizeMsg:
		m.size = min(max((msg.Height-6)/2, previewMinSize), previewMaxSize)
	}
	return m, nil
}

func nextStrategy(s placement.Strategy) placement.Strategy {
	for i, v := range previewStrategies {
		if v == s {
			return previewStrategies[(i+1)%len(previewStrategies)]
		}
	}
	return placement.StrategyAuto
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Ring preview"))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑↓ count  ←→ max  [] min  d distinct  s strategy  q quit"))
	b.WriteString("\n\n")
	b.WriteString(m.grid())
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	return b.String()
}

// status summarizes the request and either the result or the error.
func (m previewModel) status() string {
	parts := []string{
		fmt.Sprintf("count %d", m.req.Count),
		fmt.Sprintf("band %g–%g", m.req.Band.Min, m.req.Band.Max),
		string(m.req.Strategy),
	}
	if m.req.Distinct {
		parts = append(parts, "distinct")
	}
	line := styleDim.Render(strings.Join(parts, " · "))
	if m.err != nil {
		return line + "\n" + styleIconError.Render(iconError) + " " + errs.UserMessage(m.err)
	}

	st := m.res.Stats()
	summary := fmt.Sprintf("ran %s · max dev %.2f° · mean dev %.2f°",
		m.res.Request.Strategy, st.MaxDeviation.Degrees(), st.MeanDeviation.Degrees())
	if st.Duplicates > 0 {
		summary += " · " + stylePreviewDup.Render(fmt.Sprintf("%d duplicates", st.Duplicates))
	}
	return line + "\n" + styleDim.Render(summary)
}

// grid draws the ring on rows of 2*size+1 cells. Columns are doubled so
// that the circle looks round in a typical terminal font.
func (m previewModel) grid() string {
	rows, cols := 2*m.size+1, 4*m.size+1
	scale := float64(m.size) / math.Max(m.req.Band.Max, 1)

	cells := make([][]string, rows)
	for r := range cells {
		cells[r] = make([]string, cols)
		for c := range cells[r] {
			x := float64(c-2*m.size) / (2 * scale)
			y := float64(m.size-r) / scale
			if math.Abs(math.Hypot(x, y)-m.req.Band.Max) < 0.5/scale {
				cells[r][c] = stylePreviewGuide.Render("·")
			} else {
				cells[r][c] = " "
			}
		}
	}
	cells[m.size][2*m.size] = stylePreviewCenter.Render("+")

	if m.res != nil {
		shared := make(map[placement.Point]bool)
		for _, group := range m.res.Duplicates() {
			shared[m.res.Slots[group[0]].Point] = true
		}
		for _, s := range m.res.Slots {
			r := m.size - int(math.Round(float64(s.Point.Y)*scale))
			c := 2*m.size + int(math.Round(2*float64(s.Point.X)*scale))
			if r < 0 || r >= rows || c < 0 || c >= cols {
				continue
			}
			if shared[s.Point] {
				cells[r][c] = stylePreviewDup.Render("◉")
			} else {
				cells[r][c] = stylePreviewPoint.Render("●")
			}
		}
	}

	lines := make([]string, rows)
	for r, row := range cells {
		lines[r] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}
