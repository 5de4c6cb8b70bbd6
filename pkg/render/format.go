package render

import (
	"context"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/ringplace/pkg/errors"
	"github.com/matzehuels/ringplace/pkg/placement"
)

// Format names an artifact encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatSVG  Format = "svg"
	FormatDOT  Format = "dot"
	FormatPNG  Format = "png"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatJSON, FormatCSV, FormatSVG, FormatDOT, FormatPNG}

// ParseFormat validates a single format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (valid: %s)", s, formatList())
	}
	return f, nil
}

// ParseFormats parses a comma-separated list, dropping duplicates and
// keeping first-seen order.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "no output format given (valid: %s)", formatList())
	}
	return out, nil
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string { return string(f) }

// Binary reports whether f should not be written to a terminal.
func (f Format) Binary() bool { return f == FormatPNG }

// Options tunes the visual formats. JSON and CSV ignore it.
type Options struct {
	// Labels annotates each point with its slot index.
	Labels bool

	// Guides draws the band circles and the center.
	Guides bool

	// Graphviz renders svg through Graphviz instead of the native plot.
	Graphviz bool
}

// Render encodes res in format f.
func Render(ctx context.Context, f Format, res *placement.Result, opts Options) ([]byte, error) {
	switch f {
	case FormatJSON:
		return RenderJSON(res)
	case FormatCSV:
		return RenderCSV(res)
	case FormatSVG:
		if opts.Graphviz {
			return RenderGraphviz(ctx, ToDOT(res, opts), graphviz.SVG)
		}
		return RenderSVG(res, opts), nil
	case FormatDOT:
		return []byte(ToDOT(res, opts)), nil
	case FormatPNG:
		return RenderGraphviz(ctx, ToDOT(res, opts), graphviz.PNG)
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (valid: %s)", f, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
