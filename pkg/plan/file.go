package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// FileStore keeps one <id>.json file per plan in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore opens (creating if needed) a store rooted at baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("plan directory is required")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create plan dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the store directory.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) planPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, p *Plan) error {
	if err := validate(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return err
	}
	for _, old := range all {
		if old.Name == p.Name && old.ID != p.ID {
			if err := os.Remove(s.planPath(old.ID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove replaced plan: %w", err)
			}
		}
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	if err := os.WriteFile(s.planPath(p.ID), data, 0600); err != nil {
		return fmt.Errorf("write plan file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Plan, error) {
	// IDs double as file names, so anything that is not a UUID is absent.
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound(id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := readPlan(s.planPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(id)
	}
	return p, err
}

func (s *FileStore) GetByName(ctx context.Context, name string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, notFound(name)
}

func (s *FileStore) List(ctx context.Context) ([]*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	sortNewestFirst(all)
	return all, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.planPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(id)
	}
	if err != nil {
		return fmt.Errorf("remove plan file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// readAll loads every readable plan file. Unparseable files are skipped.
func (s *FileStore) readAll() ([]*Plan, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read plan dir: %w", err)
	}
	var plans []*Plan
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		p, err := readPlan(filepath.Join(s.baseDir, e.Name()))
		if err != nil {
			continue
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func readPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", filepath.Base(path), err)
	}
	return &p, nil
}

var _ Store = (*FileStore)(nil)
