package render

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ringplace/pkg/placement"
)

// dotExtent is the target radius of the drawing in points.
const dotExtent = 360.0

// ToDOT describes res as an undirected Graphviz graph for the neato
// engine. Every slot is pinned ("pos=x,y!") at its translated coordinate
// and consecutive slots are joined, closing the ring.
func ToDOT(res *placement.Result, opts Options) string {
	unit := math.Min(12, dotExtent/math.Max(res.Request.Band.Max, 1))

	var buf bytes.Buffer
	buf.WriteString("graph ring {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#2563eb\", fontcolor=white, fontsize=10, width=0.25, fixedsize=true];\n")
	buf.WriteString("  edge [color=\"#9ca3af\"];\n")
	buf.WriteString("\n")

	if opts.Guides {
		o := res.Request.Offset
		fmt.Fprintf(&buf, "  center [shape=point, width=0.08, fillcolor=black, pos=\"%.2f,%.2f!\"];\n",
			float64(o.X)*unit, float64(o.Y)*unit)
	}

	pts := res.Points()
	for i, p := range pts {
		label := ""
		if opts.Labels {
			label = fmt.Sprint(i)
		}
		fmt.Fprintf(&buf, "  s%d [label=%q, tooltip=%q, pos=\"%.2f,%.2f!\"];\n",
			i, label, p.String(), float64(p.X)*unit, float64(p.Y)*unit)
	}

	if len(pts) > 1 {
		buf.WriteString("\n")
		for i := range pts {
			fmt.Fprintf(&buf, "  s%d -- s%d;\n", i, (i+1)%len(pts))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderGraphviz lays out DOT source with neato and encodes it as format
// (graphviz.SVG or graphviz.PNG).
func RenderGraphviz(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
