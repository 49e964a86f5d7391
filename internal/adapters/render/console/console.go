// Package console prints the phase panels of one peer as plain lines, styled
// with lipgloss when the writer is a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/ports"
)

// Console serializes the output of every panel of one peer.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	label  string
	styles styles
}

func New(w io.Writer, label string) *Console {
	return &Console{
		w:      w,
		label:  label,
		styles: newStyles(w),
	}
}

// Views returns the three panels bound to this console.
func (c *Console) Views() (*SelectionPanel, *SummaryPanel, *DisplayPanel) {
	return &SelectionPanel{console: c, answers: map[domain.Half][]*domain.Answer{}},
		&SummaryPanel{console: c},
		&DisplayPanel{console: c}
}

func (c *Console) printf(style lipgloss.Style, format string, args ...any) {
	line := style.Render(fmt.Sprintf(format, args...))
	if c.label != "" {
		line = c.styles.label.Render("["+c.label+"]") + " " + line
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, line+"\n")
}

type panel struct {
	console *Console
	name    string
}

func (p panel) OpenWindow(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.console.printf(p.console.styles.title, "── %s ──", p.name)
	return nil
}

func (p panel) CloseWindow(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.console.printf(p.console.styles.faint, "── %s closed ──", p.name)
	return nil
}

type SelectionPanel struct {
	console *Console
	mu      sync.Mutex
	answers map[domain.Half][]*domain.Answer
}

var _ ports.SelectionView = (*SelectionPanel)(nil)

func (p *SelectionPanel) OpenWindow(ctx context.Context) error {
	return panel{console: p.console, name: "selection"}.OpenWindow(ctx)
}

func (p *SelectionPanel) CloseWindow(ctx context.Context) error {
	return panel{console: p.console, name: "selection"}.CloseWindow(ctx)
}

func (p *SelectionPanel) SetPrompt(half domain.Half, prompt *domain.Prompt) {
	if prompt == nil {
		return
	}
	p.console.printf(p.console.styles.prompt, "%s prompt: %s", half, prompt.Title())
}

func (p *SelectionPanel) SetAnswers(half domain.Half, answers []*domain.Answer, mode ports.InputMode) {
	p.mu.Lock()
	p.answers[half] = answers
	p.mu.Unlock()

	if mode == ports.InputKeypad {
		p.console.printf(p.console.styles.detail, "%s keypad: enter a number", half)
		return
	}

	labels := make([]string, 0, len(answers))
	for i, answer := range answers {
		labels = append(labels, fmt.Sprintf("%d) %s", i+1, answer.Label()))
	}
	p.console.printf(p.console.styles.detail, "%s answers: %s", half, strings.Join(labels, "  "))
}

func (p *SelectionPanel) Highlight(half domain.Half, index int, on bool) {
	label := fmt.Sprintf("#%d", index+1)
	p.mu.Lock()
	if answers := p.answers[half]; index >= 0 && index < len(answers) {
		label = answers[index].Label()
	}
	p.mu.Unlock()

	if on {
		p.console.printf(p.console.styles.selected, "%s selects %s", half, label)
		return
	}
	p.console.printf(p.console.styles.faint, "%s clears %s", half, label)
}

func (p *SelectionPanel) SetLocked(half domain.Half, locked bool) {
	if locked {
		p.console.printf(p.console.styles.detail, "%s locked", half)
		return
	}
	p.console.printf(p.console.styles.detail, "%s unlocked", half)
}

type SummaryPanel struct {
	console *Console
}

var _ ports.SummaryView = (*SummaryPanel)(nil)

func (p *SummaryPanel) OpenWindow(ctx context.Context) error {
	return panel{console: p.console, name: "summary"}.OpenWindow(ctx)
}

func (p *SummaryPanel) CloseWindow(ctx context.Context) error {
	return panel{console: p.console, name: "summary"}.CloseWindow(ctx)
}

func (p *SummaryPanel) ShowOutcome(half domain.Half, outcome *domain.Outcome, position, total int) {
	if outcome == nil {
		p.console.printf(p.console.styles.faint, "%s: nothing to review", half)
		return
	}

	verdict, style := "mismatch", p.console.styles.warning
	if outcome.Result {
		verdict, style = "match", p.console.styles.selected
	}

	title := ""
	if outcome.Prompt != nil {
		title = outcome.Prompt.Title()
	}
	p.console.printf(style, "%s [%d/%d] %s  left: %s  right: %s  (%s)",
		half, position+1, total, title,
		answersOrDash(outcome.Info(domain.HalfLeft, ", ")),
		answersOrDash(outcome.Info(domain.HalfRight, ", ")),
		verdict,
	)
}

func (p *SummaryPanel) SetNavigation(enabled bool) {
	if enabled {
		p.console.printf(p.console.styles.detail, "navigation on")
		return
	}
	p.console.printf(p.console.styles.detail, "navigation off")
}

func (p *SummaryPanel) HighlightReady(half domain.Half, ready bool) {
	if ready {
		p.console.printf(p.console.styles.selected, "%s ready", half)
		return
	}
	p.console.printf(p.console.styles.faint, "%s not ready", half)
}

type DisplayPanel struct {
	console *Console
}

var _ ports.DisplayView = (*DisplayPanel)(nil)

func (p *DisplayPanel) OpenWindow(ctx context.Context) error {
	return panel{console: p.console, name: "display"}.OpenWindow(ctx)
}

func (p *DisplayPanel) CloseWindow(ctx context.Context) error {
	return panel{console: p.console, name: "display"}.CloseWindow(ctx)
}

func (p *DisplayPanel) DisplayText(text string) {
	p.console.printf(p.console.styles.prompt, "%s", text)
}

func (p *DisplayPanel) DisplayAggregate(text string, answer *domain.Answer, count int) {
	p.console.printf(p.console.styles.prompt, "%s: %s (x%d)", text, answersOrDash(answer.Label()), count)
}

func answersOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
