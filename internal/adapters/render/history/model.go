// Package history renders a saved session history for the terminal.
package history

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/questionnaire/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

// frame runs its layout once inside a headless bubbletea program and quits.
// The program never reads input or draws to a terminal; View is the result.
type frame struct {
	layout func() string
	output string
}

type layoutMsg struct{}

func (f frame) Init() tea.Cmd {
	return func() tea.Msg { return layoutMsg{} }
}

func (f frame) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(layoutMsg); !ok {
		return f, nil
	}
	f.output = f.layout()
	return f, tea.Quit
}

func (f frame) View() string {
	return f.output
}

func Render(history domain.History, opts RenderOptions) (string, error) {
	s := newStyles()
	return runFrame(func() string {
		return renderView(history, opts, s)
	})
}

func runFrame(layout func() string) (string, error) {
	final, err := tea.NewProgram(
		frame{layout: layout},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	).Run()
	if err != nil {
		return "", err
	}

	done, ok := final.(frame)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}
	return done.View(), nil
}
