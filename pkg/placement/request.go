package placement

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/s1"

	errs "github.com/matzehuels/ringplace/pkg/errors"
)

const (
	// MaxCount is the largest accepted point count.
	MaxCount = 1_000_000

	// MaxRadius is the largest accepted outer radius. Squared coordinates
	// and lattice cross products stay exactly representable as float64
	// below it, and it bounds the cost of every search (see the package
	// documentation).
	MaxRadius = 10_000_000

	// indexLimit is the band area above which StrategyAuto switches from
	// the index to the wedge search.
	indexLimit = 1 << 20
)

// Strategy selects how band members are searched. Every strategy returns
// the same points.
type Strategy string

const (
	StrategyAuto  Strategy = "auto"
	StrategyIndex Strategy = "index"
	StrategyWedge Strategy = "wedge"
)

// ParseStrategy converts a user supplied name into a Strategy.
// The empty string maps to StrategyAuto.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyIndex:
		return StrategyIndex, nil
	case StrategyWedge:
		return StrategyWedge, nil
	}
	return "", invalidf("unknown strategy %q (must be auto, index or wedge)", s)
}

// Request fully determines a placement.
type Request struct {
	Count  int   `json:"count"`
	Band   Band  `json:"band"`
	Offset Point `json:"offset"`

	// Distinct gives every slot a point no earlier slot has taken.
	Distinct bool `json:"distinct,omitempty"`

	// Strategy overrides the search strategy. It never changes the result.
	Strategy Strategy `json:"strategy,omitempty"`
}

// Validate checks the request without computing anything.
func (r Request) Validate() error {
	if r.Count <= 0 {
		return invalidf("count must be positive, got %d", r.Count)
	}
	if r.Count > MaxCount {
		return invalidf("count %d exceeds limit %d", r.Count, MaxCount)
	}
	if err := r.Band.Validate(); err != nil {
		return err
	}
	_, err := r.resolveStrategy()
	return err
}

func (r Request) resolveStrategy() (Strategy, error) {
	s, err := ParseStrategy(string(r.Strategy))
	if err != nil {
		return "", err
	}
	indexable := r.Band.population() <= indexLimit
	switch {
	case r.Distinct && s == StrategyWedge:
		return "", invalidf("distinct placement requires the index strategy")
	case r.Distinct && !indexable:
		return "", invalidf("band [%g, %g] is too large for distinct placement", r.Band.Min, r.Band.Max)
	case s == StrategyAuto && indexable:
		return StrategyIndex, nil
	case s == StrategyAuto:
		return StrategyWedge, nil
	}
	return s, nil
}

// SlotAngles returns the target angle of each of count equally spaced
// slots: slot k aims at k*2π/count.
func SlotAngles(count int) ([]s1.Angle, error) {
	if count <= 0 {
		return nil, invalidf("count must be positive, got %d", count)
	}
	angles := make([]s1.Angle, count)
	for k := range angles {
		angles[k] = s1.Angle(2 * math.Pi * float64(k) / float64(count))
	}
	return angles, nil
}

// SlotError identifies the slot that had no admissible point.
type SlotError struct {
	Slot  int
	Angle s1.Angle
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %d (%.4g°) has no admissible lattice point", e.Slot, e.Angle.Degrees())
}

func invalidf(format string, args ...any) error {
	return errs.New(errs.ErrCodeInvalidArgument, format, args...)
}

func unsatisfiable(r Request, slot int, angle s1.Angle) error {
	cause := &SlotError{Slot: slot, Angle: angle}
	if r.Distinct {
		return errs.Wrap(errs.ErrCodeUnsatisfiable, cause,
			"band [%g, %g] holds fewer than %d distinct lattice points", r.Band.Min, r.Band.Max, r.Count)
	}
	return errs.Wrap(errs.ErrCodeUnsatisfiable, cause,
		"band [%g, %g] contains no lattice point", r.Band.Min, r.Band.Max)
}
