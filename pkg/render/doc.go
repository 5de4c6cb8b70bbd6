// Package render turns placement results into artifacts.
//
// # Formats
//
//   - json: the full result document ([Document]), for programs
//   - csv: one "slot,x,y" row per slot, for spreadsheets and CNC tooling
//   - svg: a plot of the ring with the band drawn as guides
//   - dot: Graphviz source with every slot pinned at its coordinate
//   - png: the DOT source laid out by Graphviz (neato) and rasterized
//
// [Render] dispatches on a [Format]; the individual renderers are exported
// for callers that need only one.
//
//	res, _ := placement.Generate(req)
//	svg, err := render.Render(ctx, render.FormatSVG, res, render.Options{Guides: true})
//
// Graphviz runs in-process through go-graphviz, so no external binaries
// are required.
package render
