package placement

import (
	"math"

	"github.com/golang/geo/s1"
)

// wedgeSearch finds the best band member for target without enumerating
// the band. Wide bands are searched along the Farey sequence of directions,
// narrow ones column by column.
func wedgeSearch(b Band, target s1.Angle) (candidate, bool) {
	if b.wide() {
		return fareySearch(b, target)
	}
	return columnSearch(b, target)
}

// columnSearch scans the columns of a narrow band around the target ray.
//
// Along a column x != 0 the direction of (x, y) is monotone in y, so the
// deviation from target has a single minimum: at the ray crossing when the
// ray reaches the column, at an end of the column's span otherwise. Scoring
// span ends plus the floor and ceiling of the crossing therefore finds the
// column's best point. Members next to the ray, or failing that the columns
// the ray crosses, give a first bound δ; every point that could beat it
// lies in the wedge target ± δ, whose columns are scanned last.
func columnSearch(b Band, target s1.Angle) (candidate, bool) {
	sel := newSelector(target, b)
	cos, sin := math.Cos(float64(target)), math.Sin(float64(target))

	sel.seed(b, cos, sin)
	if !sel.found {
		lo, hi := columnRange(b, b.Min*cos, b.Max*cos, 0)
		sel.scanColumns(b, lo, hi, cos, sin)
	}
	for delta := 1 / math.Max(b.Max, 1); !sel.found; delta *= 2 {
		lo, hi := wedgeColumns(b, float64(target), delta)
		sel.scanColumns(b, lo, hi, cos, sin)
		if delta >= math.Pi/2 {
			break
		}
	}
	if !sel.found {
		return candidate{}, false
	}

	lo, hi := wedgeColumns(b, float64(target), float64(sel.best.dev)+tieEpsilon)
	sel.scanColumns(b, lo, hi, cos, sin)
	return sel.best, true
}

// seed scores the members around the ray at the inner, mid and outer
// radius.
func (s *selector) seed(b Band, cos, sin float64) {
	for _, r := range []float64{b.Min, s.mid, b.Max} {
		cx, cy := int(math.Round(r*cos)), int(math.Round(r*sin))
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				p := Point{X: cx + dx, Y: cy + dy}
				if !p.IsOrigin() && b.Contains(p) {
					s.consider(p)
				}
			}
		}
	}
}

// wedgeColumns returns the columns intersecting the band sector whose
// directions lie within delta of theta.
func wedgeColumns(b Band, theta, delta float64) (int, int) {
	if delta >= math.Pi/2 {
		r := b.outer()
		return -r, r
	}
	a1, a2 := theta-delta, theta+delta
	xs := []float64{b.Min * math.Cos(a1), b.Max * math.Cos(a1), b.Min * math.Cos(a2), b.Max * math.Cos(a2)}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	if arcContains(a1, a2, 0) {
		hi = b.Max
	}
	if arcContains(a1, a2, math.Pi) {
		lo = -b.Max
	}
	return columnRange(b, lo, hi, 1)
}

// arcContains reports whether direction phi lies on the arc from a1 to a2.
func arcContains(a1, a2, phi float64) bool {
	d := math.Mod(phi-a1, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d <= a2-a1
}

// columnRange converts an x interval into integer columns widened by
// margin and clipped to the band.
func columnRange(b Band, x1, x2 float64, margin int) (int, int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	r := b.outer()
	lo := max(int(math.Floor(x1))-margin, -r)
	hi := min(int(math.Ceil(x2))+margin, r)
	return lo, hi
}

func (s *selector) scanColumns(b Band, lo, hi int, cos, sin float64) {
	for x := lo; x <= hi; x++ {
		spans := b.columnSpans(x)
		if x == 0 {
			s.scanAxis(spans)
			continue
		}
		for _, sp := range spans {
			s.consider(Point{X: x, Y: sp.lo})
			s.consider(Point{X: x, Y: sp.hi})
			if float64(x)*cos <= 0 {
				continue
			}
			y := float64(x) * sin / cos
			if math.IsNaN(y) || math.IsInf(y, 0) {
				continue
			}
			y = math.Max(float64(sp.lo), math.Min(float64(sp.hi), y))
			s.consider(Point{X: x, Y: int(math.Floor(y))})
			s.consider(Point{X: x, Y: int(math.Ceil(y))})
		}
	}
}

// scanAxis handles column 0, where every point of a half axis shares one
// direction and the tie is decided by the distance to the mid radius.
func (s *selector) scanAxis(spans []span) {
	for _, sp := range spans {
		if sp.lo <= 0 && sp.hi >= 0 {
			s.consider(Point{})
		}
		halves := []struct {
			lo, hi int
			sign   float64
		}{
			{max(sp.lo, 1), sp.hi, 1},
			{sp.lo, min(sp.hi, -1), -1},
		}
		for _, h := range halves {
			if h.lo > h.hi {
				continue
			}
			s.consider(Point{Y: h.lo})
			s.consider(Point{Y: h.hi})
			for _, r := range []float64{math.Floor(s.mid), math.Ceil(s.mid)} {
				y := math.Max(float64(h.lo), math.Min(float64(h.hi), h.sign*r))
				s.consider(Point{Y: int(y)})
			}
		}
	}
}
