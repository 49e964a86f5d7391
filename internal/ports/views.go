package ports

import (
	"context"

	"github.com/bnema/questionnaire/internal/domain"
)

// Window is a phase panel. Open and close block until the panel is visible or
// hidden; the session does not process messages while either is outstanding.
type Window interface {
	OpenWindow(ctx context.Context) error
	CloseWindow(ctx context.Context) error
}

type InputMode uint8

const (
	InputSelection InputMode = iota
	InputKeypad
)

type SelectionView interface {
	Window
	SetPrompt(half domain.Half, prompt *domain.Prompt)
	SetAnswers(half domain.Half, answers []*domain.Answer, mode InputMode)
	Highlight(half domain.Half, index int, on bool)
	SetLocked(half domain.Half, locked bool)
}

type SummaryView interface {
	Window
	// ShowOutcome shows the zero-based entry position of total for half. A nil
	// outcome means there is nothing to review.
	ShowOutcome(half domain.Half, outcome *domain.Outcome, position, total int)
	SetNavigation(enabled bool)
	HighlightReady(half domain.Half, ready bool)
}

type DisplayView interface {
	Window
	DisplayText(text string)
	DisplayAggregate(text string, answer *domain.Answer, count int)
}
