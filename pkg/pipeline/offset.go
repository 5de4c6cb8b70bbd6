package pipeline

import (
	"math"
	"strconv"
	"strings"

	errs "github.com/matzehuels/ringplace/pkg/errors"
	"github.com/matzehuels/ringplace/pkg/placement"
)

// RoundOffset converts a real center to the lattice, rounding half away
// from zero.
func RoundOffset(x, y float64) (placement.Point, error) {
	for _, v := range []float64{x, y} {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
			return placement.Point{}, errs.New(errs.ErrCodeInvalidArgument, "offset coordinate %g is out of range", v)
		}
	}
	return placement.Point{X: int(math.Round(x)), Y: int(math.Round(y))}, nil
}

// ParseOffset parses "x,y" (real numbers allowed). The empty string is
// the origin.
func ParseOffset(s string) (placement.Point, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return placement.Point{}, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return placement.Point{}, errs.New(errs.ErrCodeInvalidArgument, "offset %q must be x,y", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return placement.Point{}, errs.New(errs.ErrCodeInvalidArgument, "offset %q must be two numbers", s)
	}
	return RoundOffset(x, y)
}
