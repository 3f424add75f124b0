package controller

import (
	"fmt"

	"github.com/Makepad-fr/tarefas/internal/model"
)

// Affordance names an action a card exposes.
type Affordance string

const (
	AffordanceEdit   Affordance = "edit"
	AffordanceDelete Affordance = "delete"
)

// Action is an affordance bound to a task id.
type Action struct {
	Affordance Affordance
	ID         model.ID
}

// Dispatch routes a card action to its handler. Delete only raises a
// confirmation; see ResolveDelete.
func (c *Controller) Dispatch(a Action) error {
	h, ok := c.handlers[a.Affordance]
	if !ok {
		return fmt.Errorf("dispatch: unknown affordance %q", a.Affordance)
	}
	if a.ID == "" {
		return fmt.Errorf("dispatch %s: empty id", a.Affordance)
	}
	return h(a.ID)
}

// editTask is a placeholder; no update contract exists yet.
func (c *Controller) editTask(id model.ID) error {
	notice := fmt.Sprintf("Funcionalidade de edição para a tarefa com ID: %s será implementada aqui.", id)
	c.log.Info("edit requested", "id", id)
	c.setNotice(notice)
	return &UserError{Kind: ErrNotImplemented, Notice: notice}
}

func (c *Controller) requestDelete(id model.ID) error {
	c.mu.Lock()
	c.pending = id
	c.notice = ""
	c.mu.Unlock()
	return nil
}
