package placement

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/geo/s1"

	errs "github.com/matzehuels/ringplace/pkg/errors"
)

// Generate computes the placement described by req.
//
// The result holds exactly req.Count slots, or the call fails with an
// INVALID_ARGUMENT or UNSATISFIABLE error and no result.
func Generate(req Request) (*Result, error) {
	return GenerateContext(context.Background(), req)
}

// GenerateContext is [Generate] with cancellation. ctx is checked before
// every slot; a deadline fails with TIMEOUT, a cancellation with an error
// wrapping [context.Canceled].
func GenerateContext(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	strategy, err := req.resolveStrategy()
	if err != nil {
		return nil, err
	}
	targets, err := SlotAngles(req.Count)
	if err != nil {
		return nil, err
	}
	req.Strategy = strategy

	res := &Result{Request: req, Slots: make([]Slot, req.Count)}
	switch strategy {
	case StrategyIndex:
		if err := ctx.Err(); err != nil {
			return nil, interrupted(0, err)
		}
		ix := newIndex(req.Band)
		var taken []bool
		if req.Distinct {
			taken = make([]bool, ix.size())
		}
		for k, t := range targets {
			if err := ctx.Err(); err != nil {
				return nil, interrupted(k, err)
			}
			c, key, ok := ix.nearest(t, taken)
			if !ok {
				return nil, unsatisfiable(req, k, t)
			}
			if taken != nil {
				taken[key] = true
			}
			res.Slots[k] = newSlot(k, t, c)
		}
	default:
		for k, t := range targets {
			if err := ctx.Err(); err != nil {
				return nil, interrupted(k, err)
			}
			c, ok := wedgeSearch(req.Band, t)
			if !ok {
				return nil, unsatisfiable(req, k, t)
			}
			res.Slots[k] = newSlot(k, t, c)
		}
	}
	return res, nil
}

// GeneratePoints is the plain form of [Generate]: count points in the band
// [minimum, maximum], translated by offset, in slot order.
func GeneratePoints(count int, minimum, maximum float64, offset Point) ([]Point, error) {
	res, err := Generate(Request{
		Count:  count,
		Band:   Band{Min: minimum, Max: maximum},
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	return res.Points(), nil
}

func newSlot(k int, target s1.Angle, c candidate) Slot {
	return Slot{
		Index:     k,
		Target:    target,
		Point:     c.p,
		Angle:     c.p.Angle(),
		Deviation: c.dev,
		Radius:    c.p.Radius(),
	}
}

func interrupted(slot int, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.ErrCodeTimeout, err, "placement timed out at slot %d", slot)
	}
	return fmt.Errorf("placement stopped at slot %d: %w", slot, err)
}
