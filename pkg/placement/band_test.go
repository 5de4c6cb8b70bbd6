package placement

import (
	"math"
	"testing"
)

func TestBandContains(t *testing.T) {
	b := Band{Min: 5, Max: 5}
	for _, p := range []Point{{5, 0}, {3, 4}, {-4, -3}, {0, -5}} {
		if !b.Contains(p) {
			t.Errorf("Contains(%v) = false, want true", p)
		}
	}
	for _, p := range []Point{{4, 4}, {0, 0}, {5, 1}} {
		if b.Contains(p) {
			t.Errorf("Contains(%v) = true, want false", p)
		}
	}
}

func TestBandValidate(t *testing.T) {
	tests := []struct {
		band    Band
		wantErr bool
	}{
		{Band{0, 0}, false},
		{Band{1, 2}, false},
		{Band{2.5, 2.5}, false},
		{Band{2, 1}, true},
		{Band{-1, 1}, true},
		{Band{0, -1}, true},
		{Band{math.NaN(), 1}, true},
		{Band{0, math.Inf(1)}, true},
	}
	for _, tt := range tests {
		if err := tt.band.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%+v.Validate() error = %v, wantErr %v", tt.band, err, tt.wantErr)
		}
	}
}

func TestColumnSpansMatchBruteForce(t *testing.T) {
	bands := []Band{
		{Min: 0, Max: 0},
		{Min: 0, Max: 3.7},
		{Min: 5, Max: 5},
		{Min: 2.5, Max: 6},
		{Min: 10, Max: 12},
		{Min: 9.99, Max: 10.01},
	}
	for _, b := range bands {
		r := b.outer()
		for x := -r - 1; x <= r+1; x++ {
			want := map[int]bool{}
			for y := -r - 1; y <= r+1; y++ {
				if b.Contains(Point{X: x, Y: y}) {
					want[y] = true
				}
			}
			got := map[int]bool{}
			for _, s := range b.columnSpans(x) {
				if s.lo > s.hi {
					t.Errorf("band %+v column %d: empty span %+v", b, x, s)
				}
				for y := s.lo; y <= s.hi; y++ {
					got[y] = true
				}
			}
			if len(got) != len(want) {
				t.Errorf("band %+v column %d: %d members, want %d", b, x, len(got), len(want))
				continue
			}
			for y := range want {
				if !got[y] {
					t.Errorf("band %+v column %d: missing y=%d", b, x, y)
				}
			}
		}
	}
}

func TestPointAngle(t *testing.T) {
	tests := []struct {
		p    Point
		want float64
	}{
		{Point{1, 0}, 0},
		{Point{0, 1}, math.Pi / 2},
		{Point{-1, 0}, math.Pi},
		{Point{0, -1}, 3 * math.Pi / 2},
		{Point{1, -1}, 7 * math.Pi / 4},
		{Point{0, 0}, 0},
	}
	for _, tt := range tests {
		got := float64(tt.p.Angle())
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%v.Angle() = %v, want %v", tt.p, got, tt.want)
		}
		if got < 0 || got >= 2*math.Pi {
			t.Errorf("%v.Angle() = %v outside [0, 2π)", tt.p, got)
		}
	}
}

func TestDeviationWraps(t *testing.T) {
	near := deviation(Point{10, -1}.Angle(), 0)
	if float64(near) > 0.11 {
		t.Errorf("deviation across 0 = %v, want about 0.0997", near)
	}
	if d := deviation(0, math.Pi); math.Abs(float64(d)-math.Pi) > 1e-12 {
		t.Errorf("deviation(0, π) = %v, want π", d)
	}
}
