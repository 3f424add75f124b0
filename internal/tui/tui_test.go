package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tarefas/internal/controller"
	"github.com/Makepad-fr/tarefas/internal/logging"
	"github.com/Makepad-fr/tarefas/internal/model"
)

type memStore struct {
	mu     sync.Mutex
	tasks  []model.Task
	calls  []string
	nextID int
}

func (s *memStore) List(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "list")
	return append([]model.Task(nil), s.tasks...), nil
}

func (s *memStore) Create(ctx context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "create")
	s.nextID++
	t.ID = model.ID(fmt.Sprint(s.nextID))
	s.tasks = append(s.tasks, t)
	return t, nil
}

func (s *memStore) Delete(ctx context.Context, id model.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "delete "+id.String())
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("not found")
}

func (s *memStore) Calls() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.calls, "|")
}

func newModel(t *testing.T, st *memStore) (Model, *controller.Controller) {
	t.Helper()
	ctrl := controller.New(st,
		controller.WithLogger(logging.Discard()),
		controller.WithClock(func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local) }),
	)
	m := New(context.Background(), ctrl, false)
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	// Init loads the list.
	m = run(t, m, m.Init())
	return m, ctrl
}

// step feeds one message and discards any resulting command.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// run executes cmd and feeds its message back, one level deep.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return step(t, m, cmd())
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestInitialLoadRendersCards(t *testing.T) {
	st := &memStore{tasks: []model.Task{
		{ID: "1", Titulo: "Estudar Go", Descricao: "Canais", Data: "2026-10-01"},
		{ID: "2", Titulo: "Mercado", Descricao: "Pão", Data: "2026-10-02"},
	}}
	m, _ := newModel(t, st)

	if got := len(m.list.Items()); got != 2 {
		t.Fatalf("items: got %d, want 2", got)
	}
	out := m.View()
	for _, want := range []string{"Estudar Go", "01/10/2026", "Mercado", "02/10/2026"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestEmptyListShowsPlaceholder(t *testing.T) {
	m, _ := newModel(t, &memStore{})
	if !strings.Contains(m.View(), controller.EmptyMessage) {
		t.Errorf("placeholder missing from view:\n%s", m.View())
	}
}

func TestAddFlow(t *testing.T) {
	st := &memStore{}
	m, ctrl := newModel(t, st)

	m = step(t, m, keyRunes("a"))
	if ctrl.Drawer() != controller.DrawerOpen {
		t.Fatal("drawer did not open")
	}

	// Blank submit: validation notice, no network call.
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = run(t, next.(Model), cmd)
	if st.Calls() != "list" {
		t.Fatalf("calls after blank submit: %s", st.Calls())
	}
	if !strings.Contains(m.View(), controller.ValidationNotice) {
		t.Error("validation notice not shown")
	}

	m.titulo.SetValue("Buy milk")
	m.descricao.SetValue("2% low-fat")
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = run(t, next.(Model), cmd)

	if st.Calls() != "list|create|list" {
		t.Fatalf("calls: %s", st.Calls())
	}
	if st.tasks[0].Data != "2026-10-18" {
		t.Errorf("data: %q", st.tasks[0].Data)
	}
	if ctrl.Drawer() != controller.DrawerClosed {
		t.Error("drawer still open")
	}
	if m.titulo.Value() != "" || m.descricao.Value() != "" {
		t.Errorf("form not cleared: %q %q", m.titulo.Value(), m.descricao.Value())
	}
	if len(m.list.Items()) != 1 {
		t.Errorf("items: %d", len(m.list.Items()))
	}
}

func TestSubmitIgnoredWhileCreating(t *testing.T) {
	st := &memStore{}
	m, _ := newModel(t, st)
	m = step(t, m, keyRunes("a"))
	m.titulo.SetValue("Buy milk")
	m.descricao.SetValue("2% low-fat")

	next, first := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	next, second := next.(Model).Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if second != nil {
		t.Fatal("second submit produced a command while the first is in flight")
	}
	m = run(t, next.(Model), first)
	if st.Calls() != "list|create|list" {
		t.Fatalf("calls: %s", st.Calls())
	}

	// Once the create lands, the form accepts new submits.
	m = step(t, m, keyRunes("a"))
	m.titulo.SetValue("Pão")
	m.descricao.SetValue("integral")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	run(t, next.(Model), cmd)
	if st.Calls() != "list|create|list|create|list" {
		t.Errorf("calls: %s", st.Calls())
	}
}

func TestCancelKeepsDraft(t *testing.T) {
	m, ctrl := newModel(t, &memStore{})
	m = step(t, m, keyRunes("a"))
	m.titulo.SetValue("rascunho")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if ctrl.Drawer() != controller.DrawerClosed {
		t.Fatal("drawer still open")
	}
	m = step(t, m, keyRunes("a"))
	if m.titulo.Value() != "rascunho" {
		t.Errorf("draft lost: %q", m.titulo.Value())
	}
}

func TestDeleteConfirmFlow(t *testing.T) {
	st := &memStore{tasks: []model.Task{
		{ID: "7", Titulo: "Ligar", Descricao: "Dentista", Data: "2026-10-01"},
	}}
	m, ctrl := newModel(t, st)

	m = step(t, m, keyRunes("d"))
	if id, ok := ctrl.PendingDelete(); !ok || id != "7" {
		t.Fatalf("pending: %q %v", id, ok)
	}
	if !strings.Contains(m.View(), "ID: 7?") {
		t.Error("confirmation prompt not shown")
	}

	// Anything but yes declines without a request.
	m = step(t, m, keyRunes("n"))
	if st.Calls() != "list" {
		t.Fatalf("calls after decline: %s", st.Calls())
	}

	m = step(t, m, keyRunes("d"))
	next, cmd := m.Update(keyRunes("s"))
	m = run(t, next.(Model), cmd)
	if st.Calls() != "list|delete 7|list" {
		t.Fatalf("calls: %s", st.Calls())
	}
	if !strings.Contains(m.View(), controller.EmptyMessage) {
		t.Error("placeholder not shown after deleting last task")
	}
}

func TestEditShowsNotice(t *testing.T) {
	st := &memStore{tasks: []model.Task{
		{ID: "3", Titulo: "Ler", Descricao: "Livro", Data: "2026-10-01"},
	}}
	m, _ := newModel(t, st)
	m = step(t, m, keyRunes("e"))
	if !strings.Contains(m.View(), "ID: 3 será implementada") {
		t.Errorf("edit notice missing:\n%s", m.View())
	}
	if st.Calls() != "list" {
		t.Errorf("calls: %s", st.Calls())
	}
}

func TestThemeToggle(t *testing.T) {
	m, _ := newModel(t, &memStore{})
	if !strings.Contains(m.View(), "tema: light") {
		t.Fatal("expected light theme")
	}
	m = step(t, m, keyRunes("t"))
	if !strings.Contains(m.View(), "tema: dark") {
		t.Error("theme did not toggle")
	}
}

func TestThemeToggleRestylesList(t *testing.T) {
	m, _ := newModel(t, &memStore{})
	light := m.list.Styles.HelpStyle.GetForeground()

	m = step(t, m, keyRunes("t"))
	if m.list.Styles.HelpStyle.GetForeground() == light {
		t.Error("help style kept the light palette")
	}
	if m.list.Styles.PaginationStyle.GetForeground() != m.st.help.GetForeground() {
		t.Error("pagination style kept the light palette")
	}
}

func TestDeleteKeyDoesNotPage(t *testing.T) {
	st := &memStore{}
	for i := 1; i <= 30; i++ {
		st.tasks = append(st.tasks, model.Task{
			ID: model.ID(fmt.Sprint(i)), Titulo: fmt.Sprint("Tarefa ", i), Descricao: "x", Data: "2026-10-01",
		})
	}
	m, ctrl := newModel(t, st)
	if m.list.Paginator.TotalPages < 2 {
		t.Fatalf("want several pages, got %d", m.list.Paginator.TotalPages)
	}

	m = step(t, m, keyRunes("d"))
	if m.list.Paginator.Page != 0 {
		t.Errorf("d moved to page %d", m.list.Paginator.Page)
	}
	if id, ok := ctrl.PendingDelete(); !ok || id != "1" {
		t.Errorf("pending: %q %v", id, ok)
	}
	for _, b := range m.list.KeyMap.NextPage.Keys() {
		if b == "d" {
			t.Error("d still bound to next page")
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, &memStore{})
	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
