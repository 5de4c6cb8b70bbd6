package placement

import (
	"cmp"
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/golang/geo/s1"

	errs "github.com/matzehuels/ringplace/pkg/errors"
)

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// primitiveDirections lists the primitive vectors with squared length at
// most limit in angular order starting at (1, 0).
func primitiveDirections(limit int) []Point {
	r := int(math.Sqrt(float64(limit)))
	var dirs []Point
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			p := Point{X: x, Y: y}
			if p.IsOrigin() || p.Norm2() > limit || gcd(abs(x), abs(y)) != 1 {
				continue
			}
			dirs = append(dirs, p)
		}
	}
	slices.SortFunc(dirs, func(a, b Point) int { return cmp.Compare(a.Angle(), b.Angle()) })
	return dirs
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestFareyNeighborsVisitEveryDirection(t *testing.T) {
	for _, limit := range []int{1, 2, 5, 50, 130} {
		dirs := primitiveDirections(limit)
		n := len(dirs)
		if dirs[0] != (Point{X: 1}) {
			t.Fatalf("limit %d: first direction %v, want (1, 0)", limit, dirs[0])
		}
		for i, d := range dirs {
			if got, want := nextCCW(d, float64(limit)), dirs[(i+1)%n]; got != want {
				t.Errorf("limit %d: nextCCW(%v) = %v, want %v", limit, d, got, want)
			}
			if got, want := nextCW(d, float64(limit)), dirs[(i-1+n)%n]; got != want {
				t.Errorf("limit %d: nextCW(%v) = %v, want %v", limit, d, got, want)
			}
		}
	}
}

func TestBracket(t *testing.T) {
	const limit = 50
	dirs := primitiveDirections(limit)
	thetas := []float64{0, 0.3, 1, math.Pi / 2, 2.5, math.Pi, 4, 5.1, 6.2, 2*math.Pi - 1e-9}

	for _, theta := range thetas {
		lo, hi := bracket(s1.Angle(theta), limit)
		if cross(lo, hi) != 1 {
			t.Errorf("theta %.4f: bracket %v, %v are not neighbors", theta, lo, hi)
		}
		// lo is the last direction at or before theta.
		want := dirs[len(dirs)-1]
		for _, d := range dirs {
			if float64(d.Angle()) <= theta {
				want = d
			}
		}
		if lo != want {
			t.Errorf("theta %.4f: lo = %v, want %v", theta, lo, want)
		}
	}
}

// bruteMinDeviation returns the smallest deviation any band member has from
// target, or false for an empty band.
func bruteMinDeviation(members []Point, target s1.Angle) (s1.Angle, bool) {
	best, found := s1.Angle(math.Pi), false
	for _, p := range members {
		found = true
		if p.IsOrigin() {
			continue
		}
		best = min(best, deviation(p.Angle(), target))
	}
	return best, found
}

func bandMembers(b Band) []Point {
	r := b.outer()
	var members []Point
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			if p := (Point{X: x, Y: y}); b.Contains(p) {
				members = append(members, p)
			}
		}
	}
	return members
}

func TestGenerate_MinimalDeviation(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 300; i++ {
		lo := rng.Float64() * 20
		b := Band{Min: lo, Max: lo + rng.Float64()*30}
		n := 1 + rng.IntN(24)
		members := bandMembers(b)

		for _, s := range []Strategy{StrategyIndex, StrategyWedge} {
			res, err := Generate(Request{Count: n, Band: b, Strategy: s})
			if len(members) == 0 {
				if !errs.Is(err, errs.ErrCodeUnsatisfiable) {
					t.Errorf("band %+v %s: err = %v, want UNSATISFIABLE", b, s, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("band %+v %s: %v", b, s, err)
			}
			for _, slot := range res.Slots {
				want, _ := bruteMinDeviation(members, slot.Target)
				if math.Abs(float64(slot.Deviation-want)) > tieEpsilon {
					t.Errorf("band %+v %s count %d slot %d: deviation %v, want %v",
						b, s, n, slot.Index, slot.Deviation, want)
				}
			}
		}
	}
}

func TestGenerate_StrategiesAgreeOnWideBands(t *testing.T) {
	bands := []Band{
		{Min: 0, Max: 64},
		{Min: 3, Max: 40},
		{Min: 0.5, Max: 90.25},
		{Min: 20, Max: 150},
		{Min: 120, Max: 200},
	}
	for _, b := range bands {
		if !b.wide() {
			t.Fatalf("band %+v should take the Farey walk", b)
		}
		for _, n := range []int{1, 7, 37, 96, 360} {
			idx := mustGenerate(t, Request{Count: n, Band: b, Strategy: StrategyIndex})
			wdg := mustGenerate(t, Request{Count: n, Band: b, Strategy: StrategyWedge})
			ip, wp := idx.Centered(), wdg.Centered()
			for k := range ip {
				if ip[k] != wp[k] {
					t.Errorf("band %+v count %d slot %d: index %v, wedge %v", b, n, k, ip[k], wp[k])
				}
			}
		}
	}
}

func TestGenerate_LargeBandsAreFast(t *testing.T) {
	bands := []Band{
		{Min: 0, Max: 9_000_000},
		{Min: 5_000_000, Max: 9_000_000},
		{Min: 8_999_990, Max: 9_000_000},
	}
	for _, b := range bands {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		start := time.Now()
		res, err := GenerateContext(ctx, Request{Count: 100, Band: b})
		elapsed := time.Since(start)
		cancel()
		if err != nil {
			t.Fatalf("band %+v: %v", b, err)
		}
		if res.Request.Strategy != StrategyWedge {
			t.Errorf("band %+v strategy = %q, want %q", b, res.Request.Strategy, StrategyWedge)
		}
		if elapsed > time.Second {
			t.Errorf("band %+v took %v for 100 slots", b, elapsed)
		}
		checkRing(t, res, 1e-6)
	}
}

func TestGenerateContext(t *testing.T) {
	req := Request{Count: 12, Band: Band{Min: 10, Max: 12}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, s := range []Strategy{StrategyIndex, StrategyWedge} {
		req.Strategy = s
		res, err := GenerateContext(ctx, req)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: err = %v, want context.Canceled", s, err)
		}
		if res != nil {
			t.Errorf("%s: expected no result", s)
		}
	}

	expired, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()
	_, err := GenerateContext(expired, req)
	if !errs.Is(err, errs.ErrCodeTimeout) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want TIMEOUT wrapping context.DeadlineExceeded", err)
	}

	// Invalid requests fail as such even on a dead context.
	if _, err := GenerateContext(ctx, Request{Count: 0}); !errs.Is(err, errs.ErrCodeInvalidArgument) {
		t.Errorf("err = %v, want INVALID_ARGUMENT", err)
	}
}
