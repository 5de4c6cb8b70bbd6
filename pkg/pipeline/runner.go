package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ringplace/pkg/cache"
	"github.com/matzehuels/ringplace/pkg/observability"
	"github.com/matzehuels/ringplace/pkg/placement"
	"github.com/matzehuels/ringplace/pkg/render"
)

// Runner executes the pipeline with caching.
//
// A Runner holds no per-run state, so one instance may serve concurrent
// calls with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner returns a runner. A nil cache disables caching; a nil keyer
// uses [cache.NewDefaultKeyer].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute generates the placement and renders every requested format.
// Coded errors from validation and generation pass through unchanged in
// the chain, so errors.Is on their code still works.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	start := time.Now()
	res, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Placement = res
	result.Stats.Count = len(res.Slots)
	result.Stats.GenerateTime = time.Since(start)
	result.CacheInfo.GenerateHit = hit

	dups := res.Duplicates()
	for _, g := range dups {
		result.Stats.Duplicates += len(g) - 1
	}
	opts.Logger.Info("generated placement",
		"count", res.Request.Count,
		"strategy", res.Request.Strategy,
		"cached", hit,
		"duration", result.Stats.GenerateTime)
	if len(dups) > 0 {
		opts.Logger.Warn("several slots share a lattice point",
			"groups", len(dups),
			"extra", result.Stats.Duplicates,
			"hint", "use distinct placement or a wider band")
	}

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// GenerateWithCacheInfo returns the placement for opts and whether it came
// from the cache.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*placement.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.PlacementKey(opts.PlacementKeyOpts())
	if !opts.Refresh {
		if res, ok := r.cachedPlacement(ctx, key); ok {
			res.Request.Offset = opts.Offset
			return res, true, nil
		}
	}

	req := opts.Request()
	req.Offset = placement.Point{}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, req.Count, string(req.Strategy))
	start := time.Now()
	res, err := placement.GenerateContext(ctx, req)
	hooks.OnGenerateComplete(ctx, req.Count, string(req.Strategy), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.PlacementTTL)); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "placement", len(data))
		}
	}

	res.Request.Offset = opts.Offset
	return res, false, nil
}

// Generate is [Runner.GenerateWithCacheInfo] without the cache flag.
func (r *Runner) Generate(ctx context.Context, opts Options) (*placement.Result, error) {
	res, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return res, err
}

func (r *Runner) cachedPlacement(ctx context.Context, key string) (*placement.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "placement")
		return nil, false
	}
	var res placement.Result
	if err := json.Unmarshal(data, &res); err != nil || len(res.Slots) != res.Request.Count {
		observability.Cache().OnCacheMiss(ctx, "placement")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "placement")
	return &res, true
}

// RenderWithCacheInfo renders res in every format of opts. Formats found
// in the cache are reused; the rest are rendered and stored. The flag is
// true only when nothing had to be rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *placement.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	resultHash, err := cache.HashJSON(res)
	if err != nil {
		return nil, false, fmt.Errorf("hash result: %w", err)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, f := range opts.Formats {
		key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(f))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[f] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, f)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	err = r.renderInto(ctx, artifacts, res, missing, opts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for _, f := range missing {
		key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(f))
		if err := r.Cache.Set(ctx, key, artifacts[f], r.ttl(cache.ArtifactTTL)); err != nil {
			opts.Logger.Warn("cache write failed", "format", f, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(artifacts[f]))
	}
	return artifacts, false, nil
}

// Render is [Runner.RenderWithCacheInfo] without the cache flag.
func (r *Runner) Render(ctx context.Context, res *placement.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

func (r *Runner) renderInto(ctx context.Context, dst map[string][]byte, res *placement.Result, formats []string, opts Options) error {
	for _, f := range formats {
		data, err := render.Render(ctx, render.Format(f), res, opts.RenderOptions())
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		dst[f] = data
		opts.Logger.Debug("rendered artifact", "format", f, "bytes", len(data))
	}
	return nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
