package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ringplace/pkg/placement"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - center marker
	colorRed    = lipgloss.Color("167") // Soft red - errors, duplicates
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleValue  = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleDup    = lipgloss.NewStyle().Foreground(colorRed)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented muted line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+styleValue.Render(value))
}

// =============================================================================
// Placement Output
// =============================================================================

// printStats prints the headline numbers of a placement on one line.
func printStats(w io.Writer, count int, s placement.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d points", count),
		fmt.Sprintf("r %.2f–%.2f", s.MinRadius, s.MaxRadius),
		fmt.Sprintf("max dev %.2f°", s.MaxDeviation.Degrees()),
	}
	if s.Duplicates > 0 {
		parts = append(parts, styleDup.Render(fmt.Sprintf("%d duplicates", s.Duplicates)))
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	var b strings.Builder
	b.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(styleDim.Render(" · "))
		}
		b.WriteString(styleDim.Render(part))
	}
	fmt.Fprintln(w, b.String())
}

// pointsTable renders one row per slot. Slots sharing a point with an
// earlier slot are marked in the last column.
func pointsTable(res *placement.Result) *table.Table {
	shared := make(map[int]int)
	for _, group := range res.Duplicates() {
		for _, k := range group[1:] {
			shared[k] = group[0]
		}
	}

	points := res.Points()
	rows := make([][]string, len(points))
	for k, p := range points {
		slot := res.Slots[k]
		note := ""
		if first, ok := shared[k]; ok {
			note = "= slot " + strconv.Itoa(first)
		}
		rows[k] = []string{
			strconv.Itoa(k),
			strconv.Itoa(p.X),
			strconv.Itoa(p.Y),
			fmt.Sprintf("%.1f°", slot.Target.Degrees()),
			fmt.Sprintf("%.2f°", slot.Deviation.Degrees()),
			note,
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		Headers("Slot", "X", "Y", "Target", "Dev", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 5:
				return styleDup
			case col == 1 || col == 2:
				return styleNumber
			}
			return styleDim
		})
}

func printPoints(w io.Writer, res *placement.Result) {
	fmt.Fprintln(w, pointsTable(res).Render())
}

func printNewline(w io.Writer) {
	fmt.Fprintln(w)
}
