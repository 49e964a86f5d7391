package application

import (
	"context"
	"fmt"

	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/ports"
)

type summaryPhase struct {
	m        *Machine
	view     ports.SummaryView
	panel    panel
	item     *domain.SummaryItem
	outcomes []domain.Outcome
	position [2]int
	ready    [2]bool
	routes   dispatchTable
}

func newSummaryPhase(m *Machine, item *domain.SummaryItem) (*summaryPhase, error) {
	if item == nil {
		return nil, fmt.Errorf("enter summary: %w", domain.ErrUndefinedBundle)
	}

	p := &summaryPhase{
		m:     m,
		view:  m.views.Summary,
		panel: panel{window: m.views.Summary},
		item:  item,
	}
	p.routes = dispatchTable{domain.MessageReady: p.onReady}
	return p, nil
}

func (p *summaryPhase) enter(ctx context.Context) error {
	p.outcomes = p.collect()
	p.view.SetNavigation(p.navigable())
	for _, half := range halves {
		p.show(half)
		p.view.HighlightReady(half, false)
	}
	return p.panel.open(ctx)
}

func (p *summaryPhase) exit(ctx context.Context) error {
	p.outcomes = nil
	return p.panel.close(ctx)
}

func (p *summaryPhase) handle(ctx context.Context, msg domain.Message) error {
	return p.routes.dispatch(ctx, p.m, msg)
}

// collect returns the outcomes under review: the item right before this one
// in Previous mode, the whole ledger in AllPast mode.
func (p *summaryPhase) collect() []domain.Outcome {
	if p.item.Mode == domain.SummaryModeAllPast {
		return p.m.ledger.GetAll()
	}

	previous, ok := p.m.script.At(p.m.cursor - 1)
	if !ok {
		return nil
	}
	outcome, ok := p.m.ledger.Get(previous)
	if !ok {
		return nil
	}
	return []domain.Outcome{outcome}
}

func (p *summaryPhase) navigable() bool {
	return p.item.Mode == domain.SummaryModeAllPast && len(p.outcomes) > 1
}

func (p *summaryPhase) show(half domain.Half) {
	if len(p.outcomes) == 0 {
		p.view.ShowOutcome(half, nil, 0, 0)
		return
	}

	position := p.position[half]
	outcome := p.outcomes[position]
	p.view.ShowOutcome(half, &outcome, position, len(p.outcomes))
}

// navigate moves the local display of half and never touches ready flags.
func (p *summaryPhase) navigate(half domain.Half, forward bool) {
	if !p.navigable() {
		return
	}

	total := len(p.outcomes)
	step := total - 1
	if forward {
		step = 1
	}
	p.position[half] = (p.position[half] + step) % total
	p.show(half)
}

func (p *summaryPhase) onReady(_ context.Context, msg domain.Message) error {
	if !msg.Half.Valid() {
		p.m.reject(msg, domain.ErrInvalidHalf)
		return nil
	}

	p.ready[msg.Half] = !p.ready[msg.Half]
	p.view.HighlightReady(msg.Half, p.ready[msg.Half])
	p.m.outbox.emit(domain.ReadyChanged{Half: msg.Half, Ready: p.ready[msg.Half]})

	if p.ready[domain.HalfLeft] && p.ready[domain.HalfRight] {
		return p.m.advance(false)
	}
	return nil
}
