package placement

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
)

// Point is an integer lattice point.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// IsOrigin reports whether p is (0, 0).
func (p Point) IsOrigin() bool { return p.X == 0 && p.Y == 0 }

// Norm2 returns the squared distance from the origin.
func (p Point) Norm2() int { return p.X*p.X + p.Y*p.Y }

// Radius returns the distance from the origin.
func (p Point) Radius() float64 { return math.Hypot(float64(p.X), float64(p.Y)) }

// Angle returns the direction of p in [0, 2π). The origin reports 0.
func (p Point) Angle() s1.Angle {
	a := math.Atan2(float64(p.Y), float64(p.X))
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return s1.Angle(a)
}

func (p Point) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// Band is an annulus around the origin. A point belongs to the band when
// Min <= |p| <= Max. Membership compares squared distances, so integer
// bounds are exact.
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validate checks that both radii are finite, non-negative, ordered and
// within [MaxRadius].
func (b Band) Validate() error {
	for _, r := range []struct {
		name string
		v    float64
	}{{"minimum", b.Min}, {"maximum", b.Max}} {
		if math.IsNaN(r.v) || math.IsInf(r.v, 0) {
			return invalidf("%s radius must be a finite number", r.name)
		}
		if r.v < 0 {
			return invalidf("%s radius must be non-negative, got %g", r.name, r.v)
		}
	}
	if b.Min > b.Max {
		return invalidf("minimum radius %g exceeds maximum radius %g", b.Min, b.Max)
	}
	if b.Max > MaxRadius {
		return invalidf("maximum radius %g exceeds limit %g", b.Max, float64(MaxRadius))
	}
	return nil
}

// Contains reports whether p lies inside the band.
func (b Band) Contains(p Point) bool {
	d := float64(p.Norm2())
	return d >= b.Min*b.Min && d <= b.Max*b.Max
}

// Mid returns the radius halfway between Min and Max.
func (b Band) Mid() float64 { return (b.Min + b.Max) / 2 }

// outer is the largest coordinate magnitude a band member can have.
func (b Band) outer() int { return int(math.Floor(b.Max)) }

// population estimates the number of lattice points in the band by its
// area.
func (b Band) population() float64 {
	return math.Pi*(b.Max*b.Max-b.Min*b.Min) + 4
}

// wide reports whether the band is at least 4√Max across. About one
// direction in Max/(2w) has a multiple in a band w across, so a Farey walk
// meets one within about √Max/8 steps; when Max >= 2*Min every direction has
// one.
func (b Band) wide() bool {
	w := b.Max - b.Min
	return w >= 1 && w*w >= 16*b.Max
}

// span is an inclusive range of y coordinates.
type span struct{ lo, hi int }

// columnSpans returns the y ranges of band members in column x, ascending.
// A column holds at most two ranges: one crossing the x axis when the inner
// circle misses the column, otherwise one above and one below it.
func (b Band) columnSpans(x int) []span {
	minSq, maxSq := b.Min*b.Min, b.Max*b.Max
	x2 := x * x
	if float64(x2) > maxSq {
		return nil
	}

	hi := int(math.Sqrt(maxSq - float64(x2)))
	for hi > 0 && float64(x2+hi*hi) > maxSq {
		hi--
	}
	for float64(x2+(hi+1)*(hi+1)) <= maxSq {
		hi++
	}
	if float64(x2) >= minSq {
		return []span{{-hi, hi}}
	}

	lo := int(math.Ceil(math.Sqrt(minSq - float64(x2))))
	for lo > 1 && float64(x2+(lo-1)*(lo-1)) >= minSq {
		lo--
	}
	for float64(x2+lo*lo) < minSq {
		lo++
	}
	if lo > hi {
		return nil
	}
	return []span{{-hi, -lo}, {lo, hi}}
}
