// Package tui holds the shared pieces of the interactive documentation browser.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Component is a pane of the browser.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Component, tea.Cmd)
	View() string

	Focused() bool
	Focus()
	Blur()

	SetSize(width, height int)
}

// Colors used across panes.
var (
	ColorAccent  = lipgloss.Color("62")
	ColorMuted   = lipgloss.Color("240")
	ColorTitle   = lipgloss.Color("229")
	ColorKey     = lipgloss.Color("214")
	ColorSuccess = lipgloss.Color("42")
	ColorError   = lipgloss.Color("196")
)

// Styles groups the text styles shared by components.
type Styles struct {
	Title    lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Key      lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles returns the default styling.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(ColorTitle),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(ColorTitle).Background(ColorAccent),
		Muted:    lipgloss.NewStyle().Foreground(ColorMuted),
		Key:      lipgloss.NewStyle().Bold(true).Foreground(ColorKey),
		Success:  lipgloss.NewStyle().Foreground(ColorSuccess),
		Error:    lipgloss.NewStyle().Foreground(ColorError),
	}
}

// RenderTitle renders a pane title bar.
func RenderTitle(title string, width int, focused bool) string {
	style := lipgloss.NewStyle().Width(width).Bold(true).Padding(0, 1)
	if focused {
		style = style.Foreground(ColorTitle).Background(ColorAccent)
	} else {
		style = style.Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238"))
	}
	return style.Render(Truncate(title, width-2))
}

// RenderBorder draws content inside a rounded border of the given outer size.
func RenderBorder(content string, width, height int, focused bool) string {
	border := ColorMuted
	if focused {
		border = ColorAccent
	}
	return lipgloss.NewStyle().
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(content)
}

// Truncate shortens s to width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
