package placement

import (
	"cmp"
	"slices"
	"sort"

	"github.com/golang/geo/s1"
)

type entry struct {
	p Point
	a s1.Angle
}

// index holds every band member except the origin, sorted by angle.
type index struct {
	band    Band
	entries []entry
	origin  bool
}

func newIndex(b Band) *index {
	ix := &index{band: b}
	r := b.outer()
	for x := -r; x <= r; x++ {
		for _, s := range b.columnSpans(x) {
			for y := s.lo; y <= s.hi; y++ {
				p := Point{X: x, Y: y}
				if p.IsOrigin() {
					ix.origin = true
					continue
				}
				ix.entries = append(ix.entries, entry{p: p, a: p.Angle()})
			}
		}
	}
	slices.SortFunc(ix.entries, func(e, f entry) int {
		if c := cmp.Compare(e.a, f.a); c != 0 {
			return c
		}
		if c := cmp.Compare(e.p.Norm2(), f.p.Norm2()); c != 0 {
			return c
		}
		if c := cmp.Compare(e.p.X, f.p.X); c != 0 {
			return c
		}
		return cmp.Compare(e.p.Y, f.p.Y)
	})
	return ix
}

// size is the number of selectable keys; the origin, when present, uses
// key len(entries).
func (ix *index) size() int { return len(ix.entries) + 1 }

func (ix *index) point(key int) Point {
	if key == len(ix.entries) {
		return Point{}
	}
	return ix.entries[key].p
}

// nearest returns the best member for target that is not marked in taken,
// together with its key. A nil taken allows every member.
//
// Starting at the insertion position of target, the walk proceeds in both
// directions and stops once deviations exceed the running best, so only
// the tie group around the answer is scored.
func (ix *index) nearest(target s1.Angle, taken []bool) (candidate, int, bool) {
	n := len(ix.entries)
	mid := ix.band.Mid()

	var best candidate
	bestKey := -1
	visit := func(key int) bool {
		c := score(ix.point(key), target, mid)
		if bestKey >= 0 && float64(c.dev-best.dev) > tieEpsilon {
			return false
		}
		if taken != nil && taken[key] {
			return true
		}
		if bestKey < 0 || c.better(best) {
			best, bestKey = c, key
		}
		return true
	}

	if n > 0 {
		start := sort.Search(n, func(j int) bool { return ix.entries[j].a >= target })
		for k := 0; k < n; k++ {
			if !visit((start + k) % n) {
				break
			}
		}
		for k := 1; k <= n; k++ {
			if !visit(((start-k)%n + n) % n) {
				break
			}
		}
	}
	if ix.origin && (taken == nil || !taken[n]) {
		c := score(Point{}, target, mid)
		if bestKey < 0 || c.better(best) {
			best, bestKey = c, n
		}
	}
	return best, bestKey, bestKey >= 0
}
