// Package store defines persistence for the dev backing store.
package store

import (
	"context"
	"errors"

	"github.com/Makepad-fr/tarefas/internal/model"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// Store persists tasks. Implementations assign ids on Create and return
// List in insertion order.
type Store interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id model.ID) (model.Task, error)
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Delete(ctx context.Context, id model.ID) error
	Close() error
}
