package domain

import "fmt"

// Phase is the closed set of session states.
type Phase uint8

const (
	PhaseInactive Phase = iota
	PhaseSelection
	PhaseSummary
	PhaseDisplay
)

func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "inactive"
	case PhaseSelection:
		return "selection"
	case PhaseSummary:
		return "summary"
	case PhaseDisplay:
		return "display"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// PhaseFor maps a script item kind to the phase that runs it.
func PhaseFor(kind ItemKind) (Phase, error) {
	switch kind {
	case ItemKindPrompt:
		return PhaseSelection, nil
	case ItemKindSummary:
		return PhaseSummary, nil
	case ItemKindDisplay:
		return PhaseDisplay, nil
	default:
		return PhaseInactive, fmt.Errorf("%w: %q", ErrUnknownItemKind, kind)
	}
}

// Event is emitted by a session to its bound sinks.
// Convention: "category.action".
type Event interface {
	EventType() string
}

type PhaseEntered struct {
	Phase Phase
	Epoch uint64
}

type ItemChanged struct {
	Previous *Bundle
	Current  *Bundle
	Index    int
}

type SelectionChanged struct {
	Change SelectionChange
}

type CompletionChanged struct {
	Half     Half
	Complete bool
}

type ReadyChanged struct {
	Half  Half
	Ready bool
}

type OutcomeRecorded struct {
	Bundle  *Bundle
	Outcome Outcome
}

type SessionEnded struct {
	Outcomes []Outcome
}

type SessionAborted struct {
	Err error
}

func (PhaseEntered) EventType() string      { return "phase.entered" }
func (ItemChanged) EventType() string       { return "item.changed" }
func (SelectionChanged) EventType() string  { return "selection.changed" }
func (CompletionChanged) EventType() string { return "selection.completion" }
func (ReadyChanged) EventType() string      { return "summary.ready" }
func (OutcomeRecorded) EventType() string   { return "outcome.recorded" }
func (SessionEnded) EventType() string      { return "session.ended" }
func (SessionAborted) EventType() string    { return "session.aborted" }
