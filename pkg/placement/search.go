package placement

import (
	"math"

	"github.com/golang/geo/s1"
)

// tieEpsilon is the tolerance under which two deviations or two radial
// offsets count as equal.
const tieEpsilon = 1e-12

// candidate is a band member scored against one slot angle.
type candidate struct {
	p   Point
	dev s1.Angle // shorter arc to the slot angle
	off float64  // |radius - band mid radius|
}

// deviation returns the shorter arc between a and b, in [0, π].
func deviation(a, b s1.Angle) s1.Angle {
	return (a - b).Normalized().Abs()
}

func score(p Point, target s1.Angle, mid float64) candidate {
	c := candidate{p: p, off: math.Abs(p.Radius() - mid)}
	if p.IsOrigin() {
		c.dev = math.Pi
	} else {
		c.dev = deviation(p.Angle(), target)
	}
	return c
}

// better reports whether c ranks ahead of d for the same slot.
func (c candidate) better(d candidate) bool {
	if diff := float64(c.dev - d.dev); math.Abs(diff) > tieEpsilon {
		return diff < 0
	}
	if diff := c.off - d.off; math.Abs(diff) > tieEpsilon {
		return diff < 0
	}
	if n, m := c.p.Norm2(), d.p.Norm2(); n != m {
		return n < m
	}
	if c.p.X != d.p.X {
		return c.p.X < d.p.X
	}
	return c.p.Y < d.p.Y
}

// selector keeps the best candidate seen for one slot.
type selector struct {
	target s1.Angle
	mid    float64
	best   candidate
	found  bool
}

func newSelector(target s1.Angle, b Band) *selector {
	return &selector{target: target, mid: b.Mid()}
}

func (s *selector) consider(p Point) {
	c := score(p, s.target, s.mid)
	if !s.found || c.better(s.best) {
		s.best, s.found = c, true
	}
}
