package history

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	page    lipgloss.Style
	prompt  lipgloss.Style
	viewer  lipgloss.Style
	partner lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		page:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1),
		prompt:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		viewer:  lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		partner: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		section: lipgloss.NewStyle().PaddingLeft(2),
		empty:   lipgloss.NewStyle().Faint(true),
	}
}
