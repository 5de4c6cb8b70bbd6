package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	errs "github.com/matzehuels/ringplace/pkg/errors"
	"github.com/matzehuels/ringplace/pkg/placement"
)

func newPlan(t *testing.T, name string, created time.Time) *Plan {
	t.Helper()
	res, err := placement.Generate(placement.Request{
		Count:  6,
		Band:   placement.Band{Min: 4, Max: 6},
		Offset: placement.Point{X: 10, Y: 20},
	})
	if err != nil {
		t.Fatal(err)
	}
	p, err := New(name, res)
	if err != nil {
		t.Fatalf("New(%q) error: %v", name, err)
	}
	p.CreatedAt = created
	return p
}

func TestNew(t *testing.T) {
	p := newPlan(t, "front-lawn", time.Now())
	if p.ID == "" || p.Name != "front-lawn" {
		t.Errorf("plan = %+v", p)
	}
	if len(p.Points) != 6 || p.Points[0] != (placement.Point{X: 15, Y: 20}) {
		t.Errorf("points = %v, want translated points starting at (15, 20)", p.Points)
	}

	res, _ := placement.Generate(placement.Request{Count: 1, Band: placement.Band{Min: 1, Max: 1}})
	for _, bad := range []string{"", "../x", "a/b", ".hidden"} {
		if _, err := New(bad, res); !errs.Is(err, errs.ErrCodeInvalidName) {
			t.Errorf("New(%q) err = %v, want INVALID_NAME", bad, err)
		}
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "plans"))
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
			a := newPlan(t, "alpha", base)
			b := newPlan(t, "beta", base.Add(time.Hour))

			for _, p := range []*Plan{a, b} {
				if err := s.Save(ctx, p); err != nil {
					t.Fatalf("Save(%s) error: %v", p.Name, err)
				}
			}

			got, err := s.Get(ctx, a.ID)
			if err != nil {
				t.Fatalf("Get error: %v", err)
			}
			if got.Name != "alpha" || len(got.Points) != len(a.Points) || got.Request.Count != 6 {
				t.Errorf("Get = %+v", got)
			}
			if !got.CreatedAt.Equal(a.CreatedAt) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, a.CreatedAt)
			}

			byName, err := s.GetByName(ctx, "beta")
			if err != nil || byName.ID != b.ID {
				t.Errorf("GetByName(beta) = %v, %v", byName, err)
			}

			list, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List error: %v", err)
			}
			if len(list) != 2 || list[0].Name != "beta" || list[1].Name != "alpha" {
				t.Errorf("List order = %v, want beta then alpha", names(list))
			}

			if err := s.Delete(ctx, a.ID); err != nil {
				t.Fatalf("Delete error: %v", err)
			}
			if _, err := s.Get(ctx, a.ID); !errs.Is(err, errs.ErrCodePlanNotFound) {
				t.Errorf("Get after Delete err = %v, want PLAN_NOT_FOUND", err)
			}
			if err := s.Delete(ctx, a.ID); !errs.Is(err, errs.ErrCodePlanNotFound) {
				t.Errorf("second Delete err = %v, want PLAN_NOT_FOUND", err)
			}
		})
	}
}

func TestStoreReplacesSameName(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			old := newPlan(t, "ring", time.Now())
			fresh := newPlan(t, "ring", time.Now().Add(time.Second))
			if err := s.Save(ctx, old); err != nil {
				t.Fatal(err)
			}
			if err := s.Save(ctx, fresh); err != nil {
				t.Fatal(err)
			}

			list, _ := s.List(ctx)
			if len(list) != 1 || list[0].ID != fresh.ID {
				t.Errorf("List = %v, want only the newer plan", names(list))
			}
			if _, err := s.Get(ctx, old.ID); !errs.Is(err, errs.ErrCodePlanNotFound) {
				t.Errorf("replaced plan still present: %v", err)
			}
		})
	}
}

func TestStoreRejectsInvalidPlans(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			p := newPlan(t, "ok", time.Now())
			p.ID = "../../etc/passwd"
			if err := s.Save(ctx, p); !errs.Is(err, errs.ErrCodeInvalidArgument) {
				t.Errorf("Save with bad id err = %v, want INVALID_ARGUMENT", err)
			}
			if err := s.Save(ctx, nil); !errs.Is(err, errs.ErrCodeInvalidArgument) {
				t.Errorf("Save(nil) err = %v, want INVALID_ARGUMENT", err)
			}
			if _, err := s.Get(ctx, "../../etc/passwd"); !errs.Is(err, errs.ErrCodePlanNotFound) {
				t.Errorf("Get with bad id err = %v, want PLAN_NOT_FOUND", err)
			}
		})
	}
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := newPlan(t, "gate", time.Now())
	if err := s.Save(ctx, p); err != nil {
		t.Fatal(err)
	}

	for _, ref := range []string{p.ID, "gate"} {
		got, err := Find(ctx, s, ref)
		if err != nil || got.ID != p.ID {
			t.Errorf("Find(%q) = %v, %v", ref, got, err)
		}
	}
	if _, err := Find(ctx, s, "missing"); !errs.Is(err, errs.ErrCodePlanNotFound) {
		t.Errorf("Find(missing) err = %v, want PLAN_NOT_FOUND", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := newPlan(t, "copy", time.Now())
	_ = s.Save(ctx, p)

	p.Points[0] = placement.Point{X: -1, Y: -1}
	got, _ := s.Get(ctx, p.ID)
	if got.Points[0] == (placement.Point{X: -1, Y: -1}) {
		t.Error("store should not alias the saved plan")
	}
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Save(ctx, newPlan(t, "good", time.Now()))
	if err := os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List = %v, want only the good plan", names(list))
	}
	if s.Path() != dir {
		t.Errorf("Path = %q, want %q", s.Path(), dir)
	}
}

func TestNewFileStoreRequiresDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("empty directory should fail")
	}
}

func TestNewMongoStoreUnavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMongoStore(ctx, MongoOptions{URI: "mongodb://127.0.0.1:1", Timeout: 100 * time.Millisecond})
	if !errs.Is(err, errs.ErrCodeUnavailable) {
		t.Errorf("err = %v, want UNAVAILABLE", err)
	}
}

func names(plans []*Plan) []string {
	out := make([]string, len(plans))
	for i, p := range plans {
		out[i] = p.Name
	}
	return out
}
