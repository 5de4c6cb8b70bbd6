package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/ringplace/pkg/errors"
	"github.com/matzehuels/ringplace/pkg/pipeline"
	"github.com/matzehuels/ringplace/pkg/plan"
	"github.com/matzehuels/ringplace/pkg/render"
)

// placeFlags holds the place flags that need resolving against the config
// before they become pipeline options.
type placeFlags struct {
	offset  string
	preset  string
	formats string
	output  string
	save    string
	noCache bool
}

func (c *CLI) placeCommand() *cobra.Command {
	var (
		opts  pipeline.Options
		flags placeFlags
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place evenly spaced lattice points in a radius band",
		Long: `Place N integer points around a center so that point k sits as close as
possible to angle k·360°/N while its distance from the center stays within
[min, max].

Without --format or --output the points are printed as a table. With a single
text format and no --output the artifact is written to stdout. Config
defaults apply first, then --preset, then explicit flags.

Results are cached, so repeating a placement at another offset is free.`,
		Example: `  ringplace place -n 12 --min 10 --max 12
  ringplace place -n 96 --min 30 --max 45 --offset 500,500 -f svg,csv -o ring
  ringplace place -n 8 --min 3 --max 3.5 -f csv > posts.csv
  ringplace place --preset gazebo --save gazebo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := c.placeOptions(cmd, opts, flags)
			if err != nil {
				return err
			}
			return c.runPlace(cmd, resolved, flags)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.Count, "count", "n", 0, "number of points")
	f.Float64Var(&opts.Min, "min", 0, "minimum distance from the center")
	f.Float64Var(&opts.Max, "max", 0, "maximum distance from the center")
	f.StringVar(&flags.offset, "offset", "", "center as x,y (rounded to the nearest integer)")
	f.BoolVar(&opts.Distinct, "distinct", false, "never reuse a point for two slots")
	f.StringVar(&opts.Strategy, "strategy", "", "search strategy: auto (default), index, wedge")
	f.StringVar(&flags.preset, "preset", "", "start from a preset in the config file")
	f.StringVarP(&flags.formats, "format", "f", "", "output format(s): json, csv, svg, dot, png (comma-separated)")
	f.StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVar(&flags.save, "save", "", "save the result as a named plan")
	f.BoolVar(&opts.Labels, "labels", false, "label points with their slot (svg, dot, png)")
	f.BoolVar(&opts.Guides, "guides", false, "draw the band and center (svg, dot, png)")
	f.BoolVar(&opts.Graphviz, "graphviz", false, "render svg through graphviz")
	f.BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("strategy", cobra.FixedCompletions(
		[]string{"auto", "index", "wedge"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("preset", c.completePresets)

	return cmd
}

// placeOptions layers config defaults, the preset and explicit flags.
func (c *CLI) placeOptions(cmd *cobra.Command, in pipeline.Options, flags placeFlags) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return in, err
	}

	opts := pipeline.Options{
		Count:    cfg.Defaults.Count,
		Min:      cfg.Defaults.Min,
		Max:      cfg.Defaults.Max,
		Distinct: cfg.Defaults.Distinct,
		Strategy: cfg.Defaults.Strategy,
		Formats:  cfg.Defaults.Formats,
		Labels:   in.Labels,
		Guides:   in.Guides,
		Graphviz: in.Graphviz,
		Refresh:  in.Refresh,
	}

	if flags.preset != "" {
		p, err := cfg.Preset(flags.preset)
		if err != nil {
			return opts, err
		}
		req, err := p.Request()
		if err != nil {
			return opts, err
		}
		opts.Count = req.Count
		opts.Min, opts.Max = req.Band.Min, req.Band.Max
		opts.Offset = req.Offset
		opts.Distinct = req.Distinct
		opts.Strategy = string(req.Strategy)
	}

	changed := cmd.Flags().Changed
	if changed("count") {
		opts.Count = in.Count
	}
	if changed("min") {
		opts.Min = in.Min
	}
	if changed("max") {
		opts.Max = in.Max
	}
	if changed("distinct") {
		opts.Distinct = in.Distinct
	}
	if changed("strategy") {
		opts.Strategy = in.Strategy
	}
	if changed("offset") {
		if opts.Offset, err = pipeline.ParseOffset(flags.offset); err != nil {
			return opts, err
		}
	}
	if changed("format") {
		formats, err := render.ParseFormats(flags.formats)
		if err != nil {
			return opts, err
		}
		opts.Formats = make([]string, len(formats))
		for i, f := range formats {
			opts.Formats[i] = string(f)
		}
	}
	if flags.save != "" {
		if err := errs.ValidateName(flags.save); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func (c *CLI) runPlace(cmd *cobra.Command, opts pipeline.Options, flags placeFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	toStdout := flags.output == "" && flags.save == "" && cmd.Flags().Changed("format")
	toTable := flags.output == "" && !cmd.Flags().Changed("format")

	if toStdout && (len(opts.Formats) != 1 || render.Format(opts.Formats[0]).Binary()) {
		return errs.New(errs.ErrCodeInvalidArgument, "--output is required for %s", strings.Join(opts.Formats, ","))
	}
	if toTable {
		opts.Formats = []string{pipeline.DefaultFormat}
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	sp := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Placing %d points...", opts.Count))
	sp.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		sp.StopWithError("Placement failed")
		return err
	}
	sp.Stop()
	prog.done(fmt.Sprintf("Placed %d points", res.Stats.Count))

	switch {
	case toStdout:
		if _, err := out.Write(res.Artifacts[opts.Formats[0]]); err != nil {
			return err
		}
	case toTable:
		printPoints(out, res.Placement)
		printStats(out, res.Stats.Count, res.Placement.Stats(), res.CacheInfo.GenerateHit)
	default:
		base := flags.output
		if base == "" {
			base = flags.save
		}
		paths := outputPaths(base, opts.Formats)
		if err := writeArtifacts(res.Artifacts, paths); err != nil {
			return err
		}
		printSuccess(out, "Placed %d points", res.Stats.Count)
		for _, f := range opts.Formats {
			printFile(out, paths[f])
		}
		printStats(out, res.Stats.Count, res.Placement.Stats(), res.CacheInfo.GenerateHit)
	}

	if flags.save != "" {
		return c.savePlan(ctx, out, flags.save, res, toStdout)
	}
	return nil
}

func (c *CLI) savePlan(ctx context.Context, out io.Writer, name string, res *pipeline.Result, quiet bool) error {
	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := plan.New(name, res.Placement)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, p); err != nil {
		return fmt.Errorf("save plan %s: %w", name, err)
	}
	if quiet {
		c.Logger.Info("saved plan", "name", p.Name, "id", p.ID)
		return nil
	}
	printSuccess(out, "Saved plan %s", p.Name)
	printDetail(out, "id %s", p.ID)
	return nil
}

// outputPaths maps each format to a file. A single format is written to
// output as given; several formats share output's base name with their own
// extension.
func outputPaths(output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if ext := filepath.Ext(output); ext != "" {
		if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
			base = strings.TrimSuffix(output, ext)
		}
	}
	for _, f := range formats {
		paths[f] = base + "." + render.Format(f).Ext()
	}
	return paths
}

func writeArtifacts(artifacts map[string][]byte, paths map[string]string) error {
	for f, path := range paths {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
