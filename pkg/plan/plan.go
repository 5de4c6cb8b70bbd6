// Package plan stores named placements for later reuse.
//
// A [Plan] freezes a placement request together with its translated
// points. Stores keep names unique: saving a plan under a name that
// another plan already uses replaces that plan.
//
// Backends:
//   - [MemoryStore]: process-local, for tests and ephemeral servers
//   - [FileStore]: one JSON file per plan, for the CLI
//   - [MongoStore]: a MongoDB collection, for shared deployments
package plan

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/ringplace/pkg/errors"
	"github.com/matzehuels/ringplace/pkg/placement"
)

// Plan is a saved placement.
type Plan struct {
	ID        string            `json:"id" bson:"_id"`
	Name      string            `json:"name" bson:"name"`
	Request   placement.Request `json:"request" bson:"request"`
	Points    []placement.Point `json:"points" bson:"points"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
}

// New freezes res under name with a fresh ID.
func New(name string, res *placement.Result) (*Plan, error) {
	if err := errs.ValidateName(name); err != nil {
		return nil, err
	}
	return &Plan{
		ID:        uuid.NewString(),
		Name:      name,
		Request:   res.Request,
		Points:    res.Points(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}, nil
}

// Store persists plans.
type Store interface {
	// Save inserts or replaces p, evicting any other plan named p.Name.
	Save(ctx context.Context, p *Plan) error

	// Get returns the plan with the given ID, or a PLAN_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Plan, error)

	// GetByName returns the plan with the given name, or a PLAN_NOT_FOUND
	// error.
	GetByName(ctx context.Context, name string) (*Plan, error)

	// List returns every plan, newest first.
	List(ctx context.Context) ([]*Plan, error)

	// Delete removes the plan with the given ID, or fails with
	// PLAN_NOT_FOUND.
	Delete(ctx context.Context, id string) error

	Close() error
}

// Find resolves ref as an ID first, then as a name.
func Find(ctx context.Context, s Store, ref string) (*Plan, error) {
	if _, err := uuid.Parse(ref); err == nil {
		p, err := s.Get(ctx, ref)
		if err == nil || !errs.Is(err, errs.ErrCodePlanNotFound) {
			return p, err
		}
	}
	return s.GetByName(ctx, ref)
}

func notFound(ref string) error {
	return errs.New(errs.ErrCodePlanNotFound, "plan %q not found", ref)
}

func validate(p *Plan) error {
	if p == nil {
		return errs.New(errs.ErrCodeInvalidArgument, "plan is nil")
	}
	if _, err := uuid.Parse(p.ID); err != nil {
		return errs.New(errs.ErrCodeInvalidArgument, "plan id %q is not a UUID", p.ID)
	}
	return errs.ValidateName(p.Name)
}

func sortNewestFirst(plans []*Plan) {
	slices.SortFunc(plans, func(a, b *Plan) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

func clonePlan(p *Plan) *Plan {
	c := *p
	c.Points = slices.Clone(p.Points)
	return &c
}
