package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/matzehuels/ringplace/pkg/placement"
)

const (
	svgTargetWidth = 640.0
	pointColor     = "#2563eb"
	duplicateColor = "#dc2626"
	guideColor     = "#9ca3af"
)

// RenderSVG plots the translated points. The y axis points up, as in the
// lattice. Points shared by several slots are drawn in red.
func RenderSVG(res *placement.Result, opts Options) []byte {
	req := res.Request
	center := orb.Point{float64(req.Offset.X), float64(req.Offset.Y)}
	st := res.Stats()

	// The frame always holds the outer circle so rings of equal bands line up.
	b := st.Bounds.Union(orb.Bound{
		Min: orb.Point{center[0] - req.Band.Max, center[1] - req.Band.Max},
		Max: orb.Point{center[0] + req.Band.Max, center[1] + req.Band.Max},
	})
	span := math.Max(math.Max(b.Right()-b.Left(), b.Top()-b.Bottom()), 1)
	b = b.Pad(span * 0.05)
	w, h := b.Right()-b.Left(), b.Top()-b.Bottom()
	scale := svgTargetWidth / w
	dot := math.Max(w, h) / 120

	sx := func(x float64) float64 { return x - b.Left() }
	sy := func(y float64) float64 { return b.Top() - y }

	dups := map[placement.Point]bool{}
	for _, g := range res.Duplicates() {
		dups[res.Slots[g[0]].Point] = true
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.3f %.3f" width="%.0f" height="%.0f">`+"\n",
		w, h, w*scale, h*scale)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="white"/>`+"\n")

	if opts.Guides {
		cx, cy := sx(center[0]), sy(center[1])
		stroke := dot / 4
		for _, r := range []float64{req.Band.Min, req.Band.Max} {
			if r == 0 {
				continue
			}
			fmt.Fprintf(&buf, `  <circle class="guide" cx="%.3f" cy="%.3f" r="%.3f" fill="none" stroke="%s" stroke-width="%.3f" stroke-dasharray="%.3f"/>`+"\n",
				cx, cy, r, guideColor, stroke, stroke*4)
		}
		fmt.Fprintf(&buf, `  <path class="center" d="M%.3f %.3fh%.3fM%.3f %.3fv%.3f" stroke="%s" stroke-width="%.3f"/>`+"\n",
			cx-dot, cy, 2*dot, cx, cy-dot, 2*dot, guideColor, stroke)
	}

	for i, p := range res.Points() {
		color := pointColor
		if dups[res.Slots[i].Point] {
			color = duplicateColor
		}
		x, y := sx(float64(p.X)), sy(float64(p.Y))
		fmt.Fprintf(&buf, `  <circle class="slot" id="slot-%d" cx="%.3f" cy="%.3f" r="%.3f" fill="%s"><title>slot %d %s</title></circle>`+"\n",
			i, x, y, dot, color, i, p)
		if opts.Labels {
			fmt.Fprintf(&buf, `  <text x="%.3f" y="%.3f" font-family="sans-serif" font-size="%.3f">%d</text>`+"\n",
				x+dot*1.5, y-dot*1.5, dot*3, i)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
