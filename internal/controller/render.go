package controller

import "github.com/Makepad-fr/tarefas/internal/model"

// Card is one rendered task.
type Card struct {
	ID        model.ID
	Titulo    string
	Descricao string
	// Data is the localized (DD/MM/YYYY) date.
	Data    string
	Actions []Action
}

// View is what the list area shows.
type View struct {
	// Loaded is false until the first successful load.
	Loaded  bool
	Cards   []Card
	Message string
}

// Empty reports whether the placeholder is shown instead of cards.
func (v View) Empty() bool { return v.Loaded && len(v.Cards) == 0 }

// Render projects tasks into a View. An empty loaded list gets the
// placeholder message and no cards.
func Render(tasks []model.Task, loaded bool) View {
	v := View{Loaded: loaded, Cards: RenderTasks(tasks)}
	if loaded && len(v.Cards) == 0 {
		v.Message = EmptyMessage
	}
	return v
}

// RenderTasks maps tasks to cards, keeping their order.
func RenderTasks(tasks []model.Task) []Card {
	cards := make([]Card, 0, len(tasks))
	for _, t := range tasks {
		cards = append(cards, Card{
			ID:        t.ID,
			Titulo:    t.Titulo,
			Descricao: t.Descricao,
			Data:      model.DisplayDate(t.Data),
			Actions: []Action{
				{Affordance: AffordanceEdit, ID: t.ID},
				{Affordance: AffordanceDelete, ID: t.ID},
			},
		})
	}
	return cards
}
