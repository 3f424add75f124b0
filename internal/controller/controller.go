// Package controller owns the task list lifecycle: load, render, create,
// delete, and reload after every mutation.
//
// The backing store is the single source of truth. The view is a pure
// function of the last successful load, and every mutation ends with a
// full reload instead of patching the local list.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tarefas/internal/model"
)

// User-facing messages.
const (
	EmptyMessage     = "Nenhuma tarefa encontrada. Que tal adicionar uma?"
	ValidationNotice = "Por favor, preencha o título e a descrição da tarefa."
)

var (
	// ErrValidation marks input rejected before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrNotImplemented is returned by the edit affordance.
	ErrNotImplemented = errors.New("not implemented")
	// ErrNoPendingDelete is returned by ResolveDelete when nothing awaits confirmation.
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
)

// UserError is an error the user should see as a notice.
type UserError struct {
	Kind   error
	Notice string
}

func (e *UserError) Error() string { return e.Notice }
func (e *UserError) Unwrap() error { return e.Kind }

// Store is the backing store contract.
type Store interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Delete(ctx context.Context, id model.ID) error
}

// DrawerState is the state of the task creation form.
type DrawerState int

const (
	DrawerClosed DrawerState = iota
	DrawerOpen
)

func (s DrawerState) String() string {
	if s == DrawerOpen {
		return "open"
	}
	return "closed"
}

// Form holds what the user typed into the drawer.
type Form struct {
	Titulo    string
	Descricao string
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides time.Now, used to stamp new tasks.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller is safe for concurrent use. No lock is held across store calls.
type Controller struct {
	store Store
	log   *log.Logger
	now   func() time.Time

	handlers map[Affordance]func(model.ID) error

	mu      sync.Mutex
	tasks   []model.Task
	loaded  bool
	drawer  DrawerState
	form    Form
	pending model.ID
	notice  string
}

// New returns a controller over store. Nothing is loaded until LoadTasks.
func New(store Store, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		log:   log.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.handlers = map[Affordance]func(model.ID) error{
		AffordanceEdit:   c.editTask,
		AffordanceDelete: c.requestDelete,
	}
	return c
}

// LoadTasks replaces the list with the store's collection. On failure the
// error is logged and the previous list is kept.
func (c *Controller) LoadTasks(ctx context.Context) error {
	tasks, err := c.store.List(ctx)
	if err != nil {
		c.log.Error("failed to fetch tasks", "err", err)
		return fmt.Errorf("load tasks: %w", err)
	}

	c.mu.Lock()
	c.tasks = tasks
	c.loaded = true
	c.mu.Unlock()

	c.log.Debug("tasks loaded", "count", len(tasks))
	return nil
}

// Tasks returns a copy of the last loaded list.
func (c *Controller) Tasks() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// View projects the last successful load.
func (c *Controller) View() View {
	c.mu.Lock()
	tasks, loaded := c.tasks, c.loaded
	c.mu.Unlock()
	return Render(tasks, loaded)
}

// OpenDrawer shows the creation form.
func (c *Controller) OpenDrawer() {
	c.mu.Lock()
	c.drawer = DrawerOpen
	c.notice = ""
	c.mu.Unlock()
}

// CancelDrawer hides the creation form. Typed values are kept.
func (c *Controller) CancelDrawer() {
	c.mu.Lock()
	c.drawer = DrawerClosed
	c.mu.Unlock()
}

// Drawer reports the form state.
func (c *Controller) Drawer() DrawerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drawer
}

// SetForm records the current form values.
func (c *Controller) SetForm(f Form) {
	c.mu.Lock()
	c.form = f
	c.mu.Unlock()
}

// Form returns the current form values.
func (c *Controller) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Submit creates a task from the current form values.
func (c *Controller) Submit(ctx context.Context) error {
	f := c.Form()
	return c.CreateTask(ctx, f.Titulo, f.Descricao)
}

// CreateTask validates and submits a new task dated today. On success the
// form is cleared, the drawer closed and the list reloaded. On failure the
// drawer and its values stay as they were.
func (c *Controller) CreateTask(ctx context.Context, titulo, descricao string) error {
	c.SetForm(Form{Titulo: titulo, Descricao: descricao})

	titulo, descricao = strings.TrimSpace(titulo), strings.TrimSpace(descricao)
	if titulo == "" || descricao == "" {
		c.setNotice(ValidationNotice)
		return &UserError{Kind: ErrValidation, Notice: ValidationNotice}
	}

	created, err := c.store.Create(ctx, model.Task{
		Titulo:    titulo,
		Descricao: descricao,
		Data:      model.Today(c.now()),
	})
	if err != nil {
		c.log.Error("failed to create task", "err", err)
		return fmt.Errorf("create task: %w", err)
	}
	c.log.Info("task created", "id", created.ID, "titulo", created.Titulo)

	c.mu.Lock()
	c.form = Form{}
	c.drawer = DrawerClosed
	c.notice = ""
	c.mu.Unlock()

	// A failed reload is already logged; the create itself succeeded.
	_ = c.LoadTasks(ctx)
	return nil
}

// DeleteTask asks confirm before deleting id. Declining makes no request.
// A confirmed delete is always followed by one reload, whatever its outcome.
func (c *Controller) DeleteTask(ctx context.Context, id model.ID, confirm func(prompt string) bool) error {
	if !confirm(DeletePrompt(id)) {
		c.log.Debug("delete declined", "id", id)
		return nil
	}
	return c.deleteAndReload(ctx, id)
}

// DeletePrompt is the confirmation question for deleting id.
func DeletePrompt(id model.ID) string {
	return fmt.Sprintf("Tem certeza que deseja excluir a tarefa com ID: %s?", id)
}

// PendingDelete returns the id awaiting confirmation, if any.
func (c *Controller) PendingDelete() (model.ID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.pending != ""
}

// ResolveDelete answers the pending confirmation raised by the delete
// affordance.
func (c *Controller) ResolveDelete(ctx context.Context, confirmed bool) error {
	id, ok := c.TakePendingDelete()
	if !ok {
		return ErrNoPendingDelete
	}
	return c.resolve(ctx, id, confirmed)
}

// TakePendingDelete clears the pending confirmation and returns its id, so
// the answer can be acted on later with ConfirmDelete.
func (c *Controller) TakePendingDelete() (model.ID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.pending
	c.pending = ""
	return id, id != ""
}

// ConfirmDelete deletes id, whose confirmation was already given, and reloads.
func (c *Controller) ConfirmDelete(ctx context.Context, id model.ID) error {
	return c.resolve(ctx, id, true)
}

func (c *Controller) resolve(ctx context.Context, id model.ID, confirmed bool) error {
	if !confirmed {
		c.log.Debug("delete declined", "id", id)
		return nil
	}
	return c.deleteAndReload(ctx, id)
}

func (c *Controller) deleteAndReload(ctx context.Context, id model.ID) error {
	err := c.store.Delete(ctx, id)
	if err != nil {
		c.log.Error("failed to delete task", "id", id, "err", err)
		err = fmt.Errorf("delete task %s: %w", id, err)
	} else {
		c.log.Info("task deleted", "id", id)
	}
	_ = c.LoadTasks(ctx)
	return err
}

// Notice is the message to show the user, or "".
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// ClearNotice dismisses the current notice.
func (c *Controller) ClearNotice() { c.setNotice("") }

func (c *Controller) setNotice(s string) {
	c.mu.Lock()
	c.notice = s
	c.mu.Unlock()
}
