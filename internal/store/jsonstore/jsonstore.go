package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tarefas/internal/model"
	"github.com/Makepad-fr/tarefas/internal/store"
)

// JSON-backed storage in the json-server db.json layout:
//
//	{"tarefas": [ ... ]}
//
// Single file, human-readable. Other top-level collections are preserved.

const collection = "tarefas"

// Store keeps tasks in one JSON file. Safe for concurrent use within a process.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ store.Store = (*Store)(nil)

// New returns a store on path. The file is created on first write.
func New(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("jsonstore: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("abs: %w", err)
	}
	return &Store{path: abs}, nil
}

// Path is the absolute file path.
func (s *Store) Path() string { return s.path }

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, tasks, err := s.load()
	return tasks, err
}

func (s *Store) Get(ctx context.Context, id model.ID) (model.Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return model.Task{}, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, store.ErrNotFound
}

func (s *Store) Create(ctx context.Context, t model.Task) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, tasks, err := s.load()
	if err != nil {
		return model.Task{}, err
	}
	t.ID = model.ID(uuid.NewString()[:8])
	tasks = append(tasks, t)
	if err := s.save(doc, tasks); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (s *Store) Delete(ctx context.Context, id model.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, tasks, err := s.load()
	if err != nil {
		return err
	}
	for i, t := range tasks {
		if t.ID == id {
			tasks = append(tasks[:i], tasks[i+1:]...)
			return s.save(doc, tasks)
		}
	}
	return store.ErrNotFound
}

func (s *Store) Close() error { return nil }

// load returns the whole document and the decoded collection.
func (s *Store) load() (map[string]json.RawMessage, []model.Task, error) {
	doc := map[string]json.RawMessage{}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, []model.Task{}, nil
		}
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return doc, []model.Task{}, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, nil, fmt.Errorf("json unmarshal: %w", err)
	}
	tasks := []model.Task{}
	if raw, ok := doc[collection]; ok {
		if err := json.Unmarshal(raw, &tasks); err != nil {
			return nil, nil, fmt.Errorf("json unmarshal %s: %w", collection, err)
		}
	}
	return doc, tasks, nil
}

func (s *Store) save(doc map[string]json.RawMessage, tasks []model.Task) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	doc[collection] = raw
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
