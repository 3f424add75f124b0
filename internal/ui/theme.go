package ui

import "strings"

// Theme bundles palette + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Body, Muted, Accent             string
	Success, Error, Warning                string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
}

var current = lightTheme()

func lightTheme() Theme {
	return Theme{
		Name:  "light",
		Title: bold + fgBlack, Body: fgBlack, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Warning: fgYellow,
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
	}
}

func darkTheme() Theme {
	return Theme{
		Name:  "dark",
		Title: bold + "\033[97m", Body: "\033[37m", Muted: fgGray, Accent: "\033[96m",
		Success: "\033[92m", Error: "\033[91m", Warning: "\033[93m",
		CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
		H: "─", V: "│",
	}
}

// SetTheme selects "light" or "dark"; anything else means light.
func SetTheme(name string) {
	if strings.EqualFold(name, "dark") {
		current = darkTheme()
		return
	}
	current = lightTheme()
}

// Expose what renderers need
func Current() Theme { return current }
