package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	label    lipgloss.Style
	title    lipgloss.Style
	prompt   lipgloss.Style
	detail   lipgloss.Style
	selected lipgloss.Style
	warning  lipgloss.Style
	faint    lipgloss.Style
}

// newStyles binds a renderer to w so colors are dropped when w is not a
// terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		label:    r.NewStyle().Foreground(lipgloss.Color("241")),
		title:    r.NewStyle().Bold(true),
		prompt:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:   r.NewStyle().Foreground(lipgloss.Color("252")),
		selected: r.NewStyle().Foreground(lipgloss.Color("159")),
		warning:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		faint:    r.NewStyle().Faint(true),
	}
}
