package application

import (
	"context"
	"fmt"

	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/ports"
)

type selectionPhase struct {
	m        *Machine
	view     ports.SelectionView
	panel    panel
	prompt   *domain.Prompt
	items    [2]*domain.SessionItem
	complete [2]bool
	resolved bool
	routes   dispatchTable
}

func newSelectionPhase(m *Machine, prompt *domain.Prompt) (*selectionPhase, error) {
	if prompt == nil {
		return nil, fmt.Errorf("enter selection: %w", domain.ErrUndefinedBundle)
	}

	p := &selectionPhase{
		m:      m,
		view:   m.views.Selection,
		panel:  panel{window: m.views.Selection},
		prompt: prompt,
	}
	for _, half := range halves {
		item, err := domain.NewSessionItem(prompt, half)
		if err != nil {
			return nil, fmt.Errorf("enter selection: %w", err)
		}
		p.items[half] = item
	}
	p.routes = dispatchTable{
		domain.MessageResponse: p.onResponse,
		domain.MessageResult:   p.onResult,
	}
	return p, nil
}

func (p *selectionPhase) enter(ctx context.Context) error {
	mode := ports.InputSelection
	if p.prompt.Subtype == domain.SubtypeFreeInput {
		mode = ports.InputKeypad
	}

	for _, half := range halves {
		p.view.SetPrompt(half, p.prompt)
		p.view.SetAnswers(half, p.prompt.Answers, mode)
		p.view.SetLocked(half, false)
	}
	return p.panel.open(ctx)
}

func (p *selectionPhase) exit(ctx context.Context) error {
	p.items = [2]*domain.SessionItem{}
	return p.panel.close(ctx)
}

func (p *selectionPhase) handle(ctx context.Context, msg domain.Message) error {
	return p.routes.dispatch(ctx, p.m, msg)
}

// submit validates local input and broadcasts it. The selection itself changes
// only when the broadcast comes back through onResponse.
func (p *selectionPhase) submit(ctx context.Context, half domain.Half, index int) error {
	if index == domain.NoAnswer {
		return nil
	}
	if _, ok := p.prompt.AnswerAt(index); !ok {
		return fmt.Errorf("%w: %d of %d", domain.ErrAnswerOutOfRange, index, len(p.prompt.Answers))
	}
	return p.m.send(ctx, domain.ResponseMessage(half, index))
}

func (p *selectionPhase) onResponse(ctx context.Context, msg domain.Message) error {
	if !msg.Half.Valid() {
		p.m.reject(msg, domain.ErrInvalidHalf)
		return nil
	}
	if msg.AnswerIndex == domain.NoAnswer {
		return nil
	}

	change, err := p.items[msg.Half].Toggle(msg.AnswerIndex)
	if err != nil {
		p.m.reject(msg, err)
		return nil
	}
	p.view.Highlight(change.Half, change.Index, change.Selected)
	p.m.outbox.emit(domain.SelectionChanged{Change: change})

	if change.Flipped && p.m.authority.IsAuthority(domain.EntityFor(change.Half)) {
		return p.m.send(ctx, domain.ResultMessage(change.Half, change.Completed))
	}
	return nil
}

func (p *selectionPhase) onResult(_ context.Context, msg domain.Message) error {
	if !msg.Half.Valid() {
		p.m.reject(msg, domain.ErrInvalidHalf)
		return nil
	}
	if p.resolved {
		return nil
	}

	p.complete[msg.Half] = msg.Complete
	p.view.SetLocked(msg.Half, msg.Complete)
	p.m.outbox.emit(domain.CompletionChanged{Half: msg.Half, Complete: msg.Complete})

	if !p.complete[domain.HalfLeft] || !p.complete[domain.HalfRight] {
		return nil
	}
	p.resolved = true
	return p.evaluate()
}

// evaluate decides the outcome from replicated state only, so every peer
// records the same result without further messages.
func (p *selectionPhase) evaluate() error {
	bundle := p.m.bundle
	left := p.items[domain.HalfLeft].Selected()
	right := p.items[domain.HalfRight].Selected()

	result, err := domain.Check(p.prompt.Rule, left, right, p.prompt)
	if err != nil {
		return fmt.Errorf("evaluate %q: %w", bundle.Label(), err)
	}

	outcome := domain.NewOutcome(p.prompt, left, right, result)
	p.m.ledger.Add(bundle, outcome)
	p.m.logger.Info("outcome recorded", "item", bundle.Label(), "rule", string(p.prompt.Rule), "result", result)

	switch {
	case result && bundle.Hooks.OnCorrect != nil:
		p.m.outbox.call(bundle.Hooks.OnCorrect)
	case !result && bundle.Hooks.OnIncorrect != nil:
		p.m.outbox.call(bundle.Hooks.OnIncorrect)
	}
	p.m.outbox.emit(domain.OutcomeRecorded{Bundle: bundle, Outcome: outcome})

	return p.m.advance(p.prompt.RepeatOnMismatch && !result)
}
