package placement

import (
	"slices"

	"github.com/golang/geo/s1"
)

// Slot is the outcome for one angular slot. Point is in the centered
// frame; add the request offset for the final coordinate.
type Slot struct {
	Index     int      `json:"slot"`
	Target    s1.Angle `json:"target"`
	Point     Point    `json:"point"`
	Angle     s1.Angle `json:"angle"`
	Deviation s1.Angle `json:"deviation"`
	Radius    float64  `json:"radius"`
}

// Result is a computed placement. Request.Strategy records the strategy
// that actually ran.
type Result struct {
	Request Request `json:"request"`
	Slots   []Slot  `json:"slots"`
}

// Points returns the slot points translated by the request offset.
func (r *Result) Points() []Point {
	pts := make([]Point, len(r.Slots))
	for i, s := range r.Slots {
		pts[i] = s.Point.Add(r.Request.Offset)
	}
	return pts
}

// Centered returns the slot points before translation.
func (r *Result) Centered() []Point {
	pts := make([]Point, len(r.Slots))
	for i, s := range r.Slots {
		pts[i] = s.Point
	}
	return pts
}

// Duplicates groups the slots that selected the same point. Each group
// lists slot indices in ascending order; groups are ordered by their first
// slot. A result without duplicates returns nil.
func (r *Result) Duplicates() [][]int {
	bySlot := make(map[Point][]int, len(r.Slots))
	for _, s := range r.Slots {
		bySlot[s.Point] = append(bySlot[s.Point], s.Index)
	}
	var groups [][]int
	for _, g := range bySlot {
		if len(g) > 1 {
			groups = append(groups, g)
		}
	}
	slices.SortFunc(groups, func(a, b []int) int { return a[0] - b[0] })
	return groups
}
