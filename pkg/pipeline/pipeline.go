// Package pipeline runs the generate -> render flow shared by the CLI and
// the HTTP API.
//
// Both stages go through a [cache.Cache]. Results are cached in the
// centered frame, keyed by count, band, distinct and strategy, so requests
// that differ only in offset share one entry; artifacts are keyed by the
// hash of the translated result and the render options.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Count:   12,
//	    Min:     10,
//	    Max:     12,
//	    Formats: []string{"svg", "csv"},
//	})
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ringplace/pkg/cache"
	"github.com/matzehuels/ringplace/pkg/placement"
	"github.com/matzehuels/ringplace/pkg/render"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = string(render.FormatJSON)

// Options configures one pipeline run. It doubles as the JSON body of
// placement requests.
type Options struct {
	Count    int             `json:"count"`
	Min      float64         `json:"min"`
	Max      float64         `json:"max"`
	Offset   placement.Point `json:"offset"`
	Distinct bool            `json:"distinct,omitempty"`
	Strategy string          `json:"strategy,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
	Guides   bool     `json:"guides,omitempty"`
	Graphviz bool     `json:"graphviz,omitempty"`

	// Refresh skips cache reads; fresh results still overwrite the cache.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result holds the outputs of a pipeline run.
type Result struct {
	Placement *placement.Result

	// Artifacts maps format name to rendered bytes.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats reports timing for each stage.
type Stats struct {
	Count        int
	Duplicates   int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	GenerateHit bool
	RenderHit   bool // every requested artifact was cached
}

// ValidateFormat checks a single format name.
func ValidateFormat(format string) error {
	_, err := render.ParseFormat(format)
	return err
}

// ValidateFormats checks every format name. An empty list is valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the placement fields and the formats and
// fills in defaults. Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks the fields that determine the placement.
// Errors carry INVALID_ARGUMENT.
func (o *Options) ValidateForGenerate() error {
	strategy, err := placement.ParseStrategy(o.Strategy)
	if err != nil {
		return err
	}
	o.Strategy = string(strategy)
	o.setLogger()
	return o.Request().Validate()
}

// SetRenderDefaults fills in the default format.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.setLogger()
}

// ValidateForRender applies render defaults and normalizes format names.
// Errors carry INVALID_FORMAT.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for i, f := range o.Formats {
		parsed, err := render.ParseFormat(f)
		if err != nil {
			return err
		}
		o.Formats[i] = string(parsed)
	}
	return nil
}

// Request converts the options into a placement request.
func (o *Options) Request() placement.Request {
	return placement.Request{
		Count:    o.Count,
		Band:     placement.Band{Min: o.Min, Max: o.Max},
		Offset:   o.Offset,
		Distinct: o.Distinct,
		Strategy: placement.Strategy(o.Strategy),
	}
}

// RenderOptions returns the visual options for the render stage.
func (o *Options) RenderOptions() render.Options {
	return render.Options{Labels: o.Labels, Guides: o.Guides, Graphviz: o.Graphviz}
}

// PlacementKeyOpts returns the cache key inputs for the generate stage.
func (o *Options) PlacementKeyOpts() cache.PlacementKeyOpts {
	return cache.PlacementKeyOpts{
		Count:    o.Count,
		Min:      o.Min,
		Max:      o.Max,
		Distinct: o.Distinct,
		Strategy: o.Strategy,
	}
}

// ArtifactKeyOpts returns the cache key inputs for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Labels:   o.Labels,
		Guides:   o.Guides,
		Graphviz: o.Graphviz,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
