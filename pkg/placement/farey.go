package placement

import (
	"math"

	"github.com/golang/geo/s1"
)

// The directions of primitive lattice vectors whose squared length is at
// most some limit, taken in angular order, form a Farey sequence around the
// circle. Neighbors u, v in that sequence satisfy cross(u, v) = 1, and every
// lattice vector strictly between them is a*u + b*v with a, b >= 1, which is
// longer than u + v. Descending the Stern-Brocot tree of a quadrant
// therefore finds the neighbors of any direction, and with runs of equal
// moves taken at once the descent needs O(log limit) rounds.

func cross(u, v Point) int { return u.X*v.Y - u.Y*v.X }

func (p Point) scale(k int) Point { return Point{X: k * p.X, Y: k * p.Y} }

func mirror(p Point) Point { return Point{X: p.X, Y: -p.Y} }

// rot90 turns p counterclockwise by q quarter turns.
func rot90(p Point, q int) Point {
	for i := 0; i < q&3; i++ {
		p = Point{X: -p.Y, Y: p.X}
	}
	return p
}

// quadrant returns q such that rot90(p, -q) has x > 0 and y >= 0.
func quadrant(p Point) int {
	switch {
	case p.X > 0 && p.Y >= 0:
		return 0
	case p.X <= 0 && p.Y > 0:
		return 1
	case p.X < 0 && p.Y <= 0:
		return 2
	}
	return 3
}

// descend narrows the first quadrant bracket (1,0), (0,1) around a
// direction. before reports whether a vector precedes that direction; it
// must hold for (1,0) and fail for (0,1). The result is the last vector
// that precedes the direction and the first that does not, among primitive
// vectors with squared length at most limit.
func descend(before func(Point) bool, limit float64) (lo, hi Point) {
	lo, hi = Point{X: 1}, Point{Y: 1}
	after := func(p Point) bool { return !before(p) }
	for {
		m := lo.Add(hi)
		if float64(m.Norm2()) > limit {
			return lo, hi
		}
		if before(m) {
			lo = lo.Add(hi.scale(run(lo, hi, before, limit)))
		} else {
			hi = hi.Add(lo.scale(run(hi, lo, after, limit)))
		}
	}
}

// run returns the largest k >= 1 such that a + k*b satisfies ok and fits
// the limit. Both conditions hold for k = 1 and are monotone in k.
func run(a, b Point, ok func(Point) bool, limit float64) int {
	fits := func(k int) bool {
		p := a.Add(b.scale(k))
		return float64(p.Norm2()) <= limit && ok(p)
	}
	lo, hi := 1, 2
	for fits(hi) {
		lo, hi = hi, 2*hi
	}
	for hi-lo > 1 {
		if m := (lo + hi) / 2; fits(m) {
			lo = m
		} else {
			hi = m
		}
	}
	return lo
}

// bracket returns the neighboring directions lo and hi with
// angle(lo) <= theta < angle(hi).
func bracket(theta s1.Angle, limit float64) (lo, hi Point) {
	q := min(int(float64(theta)/(math.Pi/2)), 3)
	t := float64(theta) - float64(q)*math.Pi/2
	cos, sin := math.Cos(t), math.Sin(t)
	lo, hi = descend(func(p Point) bool {
		return float64(p.X)*sin-float64(p.Y)*cos >= 0
	}, limit)
	return rot90(lo, q), rot90(hi, q)
}

// nextCCW returns the direction following the primitive vector u
// counterclockwise.
func nextCCW(u Point, limit float64) Point {
	q := quadrant(u)
	c := rot90(u, 4-q)
	_, hi := descend(func(p Point) bool { return cross(p, c) >= 0 }, limit)
	return rot90(hi, q)
}

// nextCW returns the direction preceding the primitive vector u.
func nextCW(u Point, limit float64) Point {
	return mirror(nextCCW(mirror(u), limit))
}

// fareySearch finds the best band member for target by walking outward
// from the directions that bracket it. Each walk stops once directions
// deviate more than the running best allows, so beyond the first band
// member it only visits the tie group.
func fareySearch(b Band, target s1.Angle) (candidate, bool) {
	sel := newSelector(target, b)
	limit := b.Max * b.Max
	lo, hi := bracket(target, limit)
	sel.walk(b, lo, limit, nextCW)
	sel.walk(b, hi, limit, nextCCW)
	return sel.best, sel.found
}

// walk visits directions from d onward until they deviate past the best
// candidate, or until the walk passes the antipode of the target.
func (s *selector) walk(b Band, d Point, limit float64, next func(Point, float64) Point) {
	prev := s1.Angle(-1)
	for {
		dev := deviation(d.Angle(), s.target)
		if dev < prev || (s.found && float64(dev-s.best.dev) > tieEpsilon) {
			return
		}
		s.considerRay(b, d)
		prev = dev
		d = next(d, limit)
	}
}

// considerRay scores the multiples of the primitive vector v that lie in
// the band: the innermost, the outermost and the two around the mid
// radius. Multiples share a direction, so these include the best one.
func (s *selector) considerRay(b Band, v Point) {
	r := v.Radius()
	lo := max(1, int(math.Ceil(b.Min/r)))
	hi := int(math.Floor(b.Max / r))
	for lo > 1 && b.Contains(v.scale(lo-1)) {
		lo--
	}
	for lo <= hi && !b.Contains(v.scale(lo)) {
		lo++
	}
	for b.Contains(v.scale(hi + 1)) {
		hi++
	}
	for hi >= lo && !b.Contains(v.scale(hi)) {
		hi--
	}
	if lo > hi {
		return
	}
	k := s.mid / r
	for _, m := range []int{lo, hi, int(math.Floor(k)), int(math.Ceil(k))} {
		s.consider(v.scale(min(max(m, lo), hi)))
	}
}
