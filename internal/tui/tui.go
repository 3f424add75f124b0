// Package tui is the interactive front end: a card list, an inline drawer
// for new tasks, and per-card edit/delete keys routed through the
// controller's dispatch table.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tarefas/internal/controller"
	"github.com/Makepad-fr/tarefas/internal/model"
	"github.com/Makepad-fr/tarefas/internal/ui"
)

const descLines = 3

// cardItem adapts a controller.Card to bubbles/list.Item
type cardItem struct {
	card controller.Card
}

func (i cardItem) FilterValue() string { return i.card.Titulo + " " + i.card.Descricao }

// Custom delegate: title, up to three description lines, then the date.
type cardDelegate struct {
	st styles
}

func (d cardDelegate) Height() int                               { return descLines + 2 }
func (d cardDelegate) Spacing() int                              { return 1 }
func (d cardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(cardItem)
	if !ok {
		return
	}
	width := m.Width() - 4
	if width < 20 {
		width = 20
	}

	prefix := "  "
	title := d.st.title.Render(it.card.Titulo)
	if index == m.Index() {
		prefix = d.st.selected.Render("> ")
		title = d.st.selected.Render(it.card.Titulo)
	}

	lines := []string{prefix + title}
	desc := ui.Clamp(it.card.Descricao, width, descLines)
	for i := 0; i < descLines; i++ {
		ln := ""
		if i < len(desc) {
			ln = desc[i]
		}
		lines = append(lines, "  "+d.st.body.Render(ln))
	}
	lines = append(lines, "  "+d.st.date.Render(it.card.Data)+"  "+d.st.help.Render("#"+it.card.ID.String()))
	fmt.Fprint(w, strings.Join(lines, "\n"))
}

type keyMap struct {
	add, edit, del, theme, reload, quit key.Binding
	submit, cancel, nextField         key.Binding
	yes                               key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		del:       key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		nextField: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		yes:       key.NewBinding(key.WithKeys("s", "y"), key.WithHelp("s", "sim")),
	}
}

// Messages carrying the outcome of controller calls run as commands.
type (
	loadedMsg  struct{ err error }
	createdMsg struct{ err error }
	deletedMsg struct{ err error }
)

// Model is the Bubble Tea model driving a controller.Controller.
type Model struct {
	ctx  context.Context
	ctrl *controller.Controller

	list      list.Model
	titulo    textinput.Model
	descricao textarea.Model
	focusDesc bool
	// submitting is set while a create is in flight.
	submitting bool

	keys keyMap
	st   styles

	// loadErr is the last load failure, shown only while nothing has loaded.
	loadErr error

	width, height int
}

// New builds the model. Call Init (or run it in a tea.Program) to trigger
// the first load.
func New(ctx context.Context, ctrl *controller.Controller, dark bool) Model {
	st := newStyles(dark)
	keys := newKeyMap()

	l := list.New(nil, cardDelegate{st: st}, 0, 0)
	l.Title = "Tarefas"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.FilterInput.Prompt = "/ "
	// d deletes; keep it out of paging.
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	l.SetStatusBarItemName("tarefa", "tarefas")

	// Extend help with Add / Edit / Delete / Theme / Reload bindings
	extra := func() []key.Binding {
		return []key.Binding{keys.add, keys.edit, keys.del, keys.theme, keys.reload}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "Título: "
	ti.Placeholder = "Nova tarefa..."
	ti.CharLimit = 200

	ta := textarea.New()
	ta.Placeholder = "Descrição..."
	ta.ShowLineNumbers = false
	ta.SetHeight(descLines)
	ta.CharLimit = 2000

	m := Model{
		ctx:       ctx,
		ctrl:      ctrl,
		list:      l,
		titulo:    ti,
		descricao: ta,
		keys:      keys,
		st:        st,
	}
	m.applyListStyles()
	return m
}

// applyListStyles points the list at the current palette.
func (m *Model) applyListStyles() {
	m.list.SetDelegate(cardDelegate{st: m.st})
	m.list.Styles.Title = m.st.title
	m.list.Styles.HelpStyle = m.st.help
	m.list.Styles.PaginationStyle = m.st.help
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, ctrl *controller.Controller, dark bool) error {
	p := tea.NewProgram(New(ctx, ctrl, dark), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func (m Model) Init() tea.Cmd { return m.loadCmd() }

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.ctrl.LoadTasks(m.ctx)}
	}
}

func (m Model) submitCmd() tea.Cmd {
	return func() tea.Msg {
		return createdMsg{err: m.ctrl.Submit(m.ctx)}
	}
}

func (m Model) deleteCmd(id model.ID) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{err: m.ctrl.ConfirmDelete(m.ctx, id)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		m.loadErr = msg.err
		cmd := m.refresh()
		return m, cmd

	case createdMsg:
		m.submitting = false
		if msg.err == nil {
			m.titulo.Reset()
			m.descricao.Reset()
			m.blurForm()
		}
		cmd := m.refresh()
		return m, cmd

	case deletedMsg:
		cmd := m.refresh()
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if _, pending := m.ctrl.PendingDelete(); pending {
			return m.updateConfirm(msg)
		}
		if m.ctrl.Drawer() == controller.DrawerOpen {
			return m.updateDrawer(msg)
		}
		if m.list.FilterState() != list.Filtering {
			if next, cmd, handled := m.updateBrowse(msg); handled {
				return next, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateConfirm answers the delete prompt. Only an explicit yes deletes.
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, _ := m.ctrl.TakePendingDelete()
	if key.Matches(msg, m.keys.yes) {
		return m, m.deleteCmd(id)
	}
	return m, nil
}

func (m Model) updateDrawer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.syncForm()
		m.ctrl.CancelDrawer()
		m.blurForm()
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.submit):
		if m.submitting {
			return m, nil
		}
		m.syncForm()
		m.submitting = true
		return m, m.submitCmd()
	case key.Matches(msg, m.keys.nextField), msg.Type == tea.KeyEnter && !m.focusDesc:
		cmd := m.toggleFocus()
		return m, cmd
	}

	m.ctrl.ClearNotice()
	var cmd tea.Cmd
	if m.focusDesc {
		m.descricao, cmd = m.descricao.Update(msg)
	} else {
		m.titulo, cmd = m.titulo.Update(msg)
	}
	m.syncForm()
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.add):
		m.ctrl.OpenDrawer()
		f := m.ctrl.Form()
		m.titulo.SetValue(f.Titulo)
		m.descricao.SetValue(f.Descricao)
		m.focusDesc = false
		m.descricao.Blur()
		m.resize()
		cmd := m.titulo.Focus()
		return m, cmd, true
	case key.Matches(msg, m.keys.edit):
		m.dispatch(controller.AffordanceEdit)
		return m, nil, true
	case key.Matches(msg, m.keys.del):
		m.dispatch(controller.AffordanceDelete)
		return m, nil, true
	case key.Matches(msg, m.keys.theme):
		m.st = newStyles(!m.st.dark)
		m.applyListStyles()
		return m, nil, true
	case key.Matches(msg, m.keys.reload):
		m.ctrl.ClearNotice()
		return m, m.loadCmd(), true
	}
	return m, nil, false
}

// dispatch sends the selected card's action through the controller.
func (m Model) dispatch(a controller.Affordance) {
	it, ok := m.list.SelectedItem().(cardItem)
	if !ok {
		return
	}
	for _, action := range it.card.Actions {
		if action.Affordance == a {
			// Errors surface through the controller's notice.
			_ = m.ctrl.Dispatch(action)
			return
		}
	}
}

func (m *Model) syncForm() {
	m.ctrl.SetForm(controller.Form{Titulo: m.titulo.Value(), Descricao: m.descricao.Value()})
}

func (m *Model) toggleFocus() tea.Cmd {
	m.focusDesc = !m.focusDesc
	if m.focusDesc {
		m.titulo.Blur()
		return m.descricao.Focus()
	}
	m.descricao.Blur()
	return m.titulo.Focus()
}

func (m *Model) blurForm() {
	m.titulo.Blur()
	m.descricao.Blur()
	m.focusDesc = false
}

// refresh rebuilds list items from the controller's current view.
func (m *Model) refresh() tea.Cmd {
	view := m.ctrl.View()
	items := make([]list.Item, 0, len(view.Cards))
	for _, c := range view.Cards {
		items = append(items, cardItem{card: c})
	}
	m.resize()
	return m.list.SetItems(items)
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	inner := m.width - 4
	m.titulo.Width = inner - lipgloss.Width(m.titulo.Prompt) - 4
	m.descricao.SetWidth(inner - 4)

	listHeight := m.height - 4
	if m.ctrl.Drawer() == controller.DrawerOpen {
		listHeight -= descLines + 5
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(inner, listHeight)
}

func (m Model) View() string {
	view := m.ctrl.View()

	var body string
	switch {
	case !view.Loaded && m.loadErr != nil:
		body = m.st.errorMsg.Render("Não foi possível carregar as tarefas.") + "\n" +
			m.st.muted.Render("Veja o log para detalhes; r tenta de novo.")
	case !view.Loaded:
		body = m.st.muted.Render("Carregando tarefas...")
	case view.Empty():
		body = m.st.title.Render("Tarefas") + "\n\n" + m.st.muted.Render(view.Message)
	default:
		body = m.list.View()
	}

	parts := []string{body}
	if m.ctrl.Drawer() == controller.DrawerOpen {
		parts = append(parts, m.drawerView())
	}
	if id, pending := m.ctrl.PendingDelete(); pending {
		parts = append(parts, m.st.notice.Render(controller.DeletePrompt(id)+" [s/N]"))
	}
	if n := m.ctrl.Notice(); n != "" {
		parts = append(parts, m.st.errorMsg.Render(n))
	}
	footer := m.st.help.Render("tema: " + m.st.themeName())
	if view.Empty() || !view.Loaded {
		footer += m.st.help.Render(" · a: adicionar · r: recarregar · q: sair")
	}
	parts = append(parts, footer)
	return m.st.frame.Render(strings.Join(parts, "\n"))
}

func (m Model) drawerView() string {
	help := m.st.help.Render("tab: próximo campo · ctrl+s: salvar · esc: cancelar")
	content := strings.Join([]string{
		m.st.accent.Render("Nova tarefa"),
		m.titulo.View(),
		m.descricao.View(),
		help,
	}, "\n")
	return m.st.drawer.Render(content)
}
