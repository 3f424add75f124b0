package tui

import "github.com/charmbracelet/lipgloss"

// styles is the lipgloss palette for one theme.
type styles struct {
	dark bool

	title    lipgloss.Style
	body     lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	date     lipgloss.Style
	errorMsg lipgloss.Style
	notice   lipgloss.Style
	selected lipgloss.Style
	help     lipgloss.Style
	frame    lipgloss.Style
	drawer   lipgloss.Style
}

func newStyles(dark bool) styles {
	var (
		text   = lipgloss.Color("235")
		faint  = lipgloss.Color("244")
		accent = lipgloss.Color("27")
		border = lipgloss.Color("250")
	)
	if dark {
		text = lipgloss.Color("252")
		faint = lipgloss.Color("245")
		accent = lipgloss.Color("81")
		border = lipgloss.Color("240")
	}
	return styles{
		dark:     dark,
		title:    lipgloss.NewStyle().Bold(true).Foreground(text),
		body:     lipgloss.NewStyle().Foreground(text),
		muted:    lipgloss.NewStyle().Foreground(faint),
		accent:   lipgloss.NewStyle().Foreground(accent),
		date:     lipgloss.NewStyle().Bold(true).Foreground(faint),
		errorMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		help:     lipgloss.NewStyle().Foreground(faint).Faint(true),
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		drawer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
	}
}

func (s styles) themeName() string {
	if s.dark {
		return "dark"
	}
	return "light"
}
