package placement

import (
	"github.com/golang/geo/s1"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Stats summarizes how well a result approximates the ideal ring.
type Stats struct {
	MinRadius     float64   `json:"min_radius"`
	MaxRadius     float64   `json:"max_radius"`
	MaxDeviation  s1.Angle  `json:"max_deviation"`
	MeanDeviation s1.Angle  `json:"mean_deviation"`
	Duplicates    int       `json:"duplicates"`
	Bounds        orb.Bound `json:"bounds"`
}

// Stats measures radii from the translated center, so it doubles as a
// check that translation preserved the band.
func (r *Result) Stats() Stats {
	var st Stats
	if len(r.Slots) == 0 {
		return st
	}

	center := toOrb(r.Request.Offset)
	mp := make(orb.MultiPoint, 0, len(r.Slots))
	var sum s1.Angle
	for i, p := range r.Points() {
		op := toOrb(p)
		mp = append(mp, op)

		d := planar.Distance(center, op)
		if i == 0 || d < st.MinRadius {
			st.MinRadius = d
		}
		if d > st.MaxRadius {
			st.MaxRadius = d
		}

		dev := r.Slots[i].Deviation
		sum += dev
		if dev > st.MaxDeviation {
			st.MaxDeviation = dev
		}
	}
	st.MeanDeviation = sum / s1.Angle(len(r.Slots))
	st.Bounds = mp.Bound()
	for _, g := range r.Duplicates() {
		st.Duplicates += len(g) - 1
	}
	return st
}

func toOrb(p Point) orb.Point { return orb.Point{float64(p.X), float64(p.Y)} }
