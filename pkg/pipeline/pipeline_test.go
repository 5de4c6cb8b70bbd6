package pipeline

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/ringplace/pkg/cache"
	errs "github.com/matzehuels/ringplace/pkg/errors"
	"github.com/matzehuels/ringplace/pkg/placement"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"csv", false},
		{"svg", false},
		{"dot", false},
		{"png", false},
		{"SVG", false},
		{"pdf", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}

	if err := ValidateFormats([]string{"svg", "csv"}); err != nil {
		t.Errorf("valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "gif"}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("invalid format err = %v, want INVALID_FORMAT", err)
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Count: 12, Min: 10, Max: 12, Formats: []string{"SVG"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("valid options failed: %v", err)
	}
	if opts.Strategy != string(placement.StrategyAuto) {
		t.Errorf("Strategy = %q, want auto", opts.Strategy)
	}
	if opts.Formats[0] != "svg" {
		t.Errorf("Formats = %v, want normalized [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// A second call is a no-op even if fields changed in between.
	opts.Count = 0
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op: %v", err)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"zero count", Options{Count: 0, Min: 1, Max: 2}, errs.ErrCodeInvalidArgument},
		{"inverted band", Options{Count: 3, Min: 5, Max: 2}, errs.ErrCodeInvalidArgument},
		{"bad strategy", Options{Count: 3, Min: 1, Max: 2, Strategy: "spiral"}, errs.ErrCodeInvalidArgument},
		{"bad format", Options{Count: 3, Min: 1, Max: 2, Formats: []string{"gif"}}, errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errs.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
}

func TestPlacementKeyIgnoresOffset(t *testing.T) {
	a := Options{Count: 5, Min: 1, Max: 3}
	b := a
	b.Offset = placement.Point{X: 9, Y: -4}
	if a.PlacementKeyOpts() != b.PlacementKeyOpts() {
		t.Error("offset should not be part of the placement key")
	}
}

func TestRoundOffset(t *testing.T) {
	tests := []struct {
		x, y    float64
		want    placement.Point
		wantErr bool
	}{
		{0, 0, placement.Point{}, false},
		{2.5, -2.5, placement.Point{X: 3, Y: -3}, false},
		{1.49, -0.51, placement.Point{X: 1, Y: -1}, false},
		{math.NaN(), 0, placement.Point{}, true},
		{0, math.Inf(-1), placement.Point{}, true},
		{1e12, 0, placement.Point{}, true},
	}
	for _, tt := range tests {
		got, err := RoundOffset(tt.x, tt.y)
		if (err != nil) != tt.wantErr {
			t.Errorf("RoundOffset(%v, %v) error = %v, wantErr %v", tt.x, tt.y, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("RoundOffset(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in      string
		want    placement.Point
		wantErr bool
	}{
		{"", placement.Point{}, false},
		{"500,500", placement.Point{X: 500, Y: 500}, false},
		{" -3 , 4.5 ", placement.Point{X: -3, Y: 5}, false},
		{"12", placement.Point{}, true},
		{"a,b", placement.Point{}, true},
	}
	for _, tt := range tests {
		got, err := ParseOffset(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOffset(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidArgument) {
			t.Errorf("ParseOffset(%q) code = %s, want INVALID_ARGUMENT", tt.in, errs.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseOffset(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// memCache is an in-memory cache that counts operations.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
	ttls []time.Duration
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.ttls = append(c.ttls, ttl)
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	opts := Options{
		Count:   96,
		Min:     30,
		Max:     45,
		Offset:  placement.Point{X: 500, Y: 500},
		Formats: []string{"json", "csv", "svg", "dot"},
	}
	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if first.CacheInfo.GenerateHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if len(first.Artifacts) != 4 {
		t.Errorf("got %d artifacts, want 4", len(first.Artifacts))
	}
	if first.Stats.Count != 96 {
		t.Errorf("Stats.Count = %d, want 96", first.Stats.Count)
	}
	for k, p := range first.Placement.Points() {
		d := math.Hypot(float64(p.X-500), float64(p.Y-500))
		if d < 30 || d > 45 {
			t.Errorf("slot %d: %v is %.3f from the center", k, p, d)
		}
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.GenerateHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	for f, data := range first.Artifacts {
		if string(second.Artifacts[f]) != string(data) {
			t.Errorf("cached %s artifact differs from the rendered one", f)
		}
	}
}

func TestRunnerCacheSharedAcrossOffsets(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)

	base := Options{Count: 12, Min: 10, Max: 12}
	a, hit, err := r.GenerateWithCacheInfo(ctx, base)
	if err != nil || hit {
		t.Fatalf("first generate: hit=%v err=%v", hit, err)
	}

	moved := base
	moved.Offset = placement.Point{X: 7, Y: -3}
	b, hit, err := r.GenerateWithCacheInfo(ctx, moved)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("a different offset should reuse the centered result")
	}
	ap, bp := a.Points(), b.Points()
	for k := range ap {
		if bp[k] != ap[k].Add(moved.Offset) {
			t.Errorf("slot %d: %v, want %v", k, bp[k], ap[k].Add(moved.Offset))
		}
	}
}

func TestRunnerRefresh(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	opts := Options{Count: 4, Min: 5, Max: 5}
	if _, err := r.Generate(ctx, opts); err != nil {
		t.Fatal(err)
	}
	opts.Refresh = true
	_, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("Refresh should bypass cache reads")
	}
	if c.sets != 2 {
		t.Errorf("cache sets = %d, want 2", c.sets)
	}
}

func TestRunnerCorruptCacheEntry(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	opts := Options{Count: 4, Min: 5, Max: 5}
	_ = opts.ValidateForGenerate()
	c.data[r.Keyer.PlacementKey(opts.PlacementKeyOpts())] = []byte("garbage")

	res, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("corrupt entry should be treated as a miss")
	}
	if len(res.Slots) != 4 {
		t.Errorf("got %d slots, want 4", len(res.Slots))
	}
}

func TestRunnerErrorsKeepCodes(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	_, err := r.Execute(ctx, Options{Count: 6, Min: 0.2, Max: 0.9})
	if !errs.Is(err, errs.ErrCodeUnsatisfiable) {
		t.Errorf("err = %v, want UNSATISFIABLE", err)
	}

	_, err = r.Execute(ctx, Options{Count: -1, Min: 1, Max: 2})
	if !errs.Is(err, errs.ErrCodeInvalidArgument) {
		t.Errorf("err = %v, want INVALID_ARGUMENT", err)
	}
}

func TestRunnerStopsWithContext(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Count: 12, Min: 10, Max: 12}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Generate(ctx, opts); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled: err = %v, want context.Canceled", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), -time.Second)
	defer cancel()
	if _, err := r.Generate(ctx, opts); !errs.Is(err, errs.ErrCodeTimeout) {
		t.Errorf("expired: err = %v, want TIMEOUT", err)
	}

	if _, hit, err := r.GenerateWithCacheInfo(context.Background(), opts); err != nil || hit {
		t.Errorf("after interruption: hit = %v, err = %v, want a fresh result", hit, err)
	}
}

func TestRunnerConcurrent(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)

	var wg sync.WaitGroup
	errc := make(chan error, 8)
	for i := range 8 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := r.Execute(ctx, Options{Count: 8 + n, Min: 10, Max: 14, Formats: []string{"csv"}})
			errc <- err
		}(i)
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		if err != nil {
			t.Errorf("concurrent Execute error: %v", err)
		}
	}
}

func TestRunnerTTL(t *testing.T) {
	opts := Options{Count: 4, Min: 10, Max: 10, Formats: []string{"csv"}}

	c := newMemCache()
	if _, err := NewRunner(c, nil, nil).Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	want := []time.Duration{cache.PlacementTTL, cache.ArtifactTTL}
	if !slices.Equal(c.ttls, want) {
		t.Errorf("default ttls = %v, want %v", c.ttls, want)
	}

	c = newMemCache()
	r := NewRunner(c, nil, nil)
	r.TTL = time.Hour
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	want = []time.Duration{time.Hour, time.Hour}
	if !slices.Equal(c.ttls, want) {
		t.Errorf("override ttls = %v, want %v", c.ttls, want)
	}
}
