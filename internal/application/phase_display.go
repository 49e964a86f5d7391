package application

import (
	"context"
	"fmt"

	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/ports"
)

// displayPhase shows an interstitial. It accepts no messages and leaves only
// when its skip timer expires.
type displayPhase struct {
	m     *Machine
	view  ports.DisplayView
	panel panel
	item  *domain.DisplayItem
}

func newDisplayPhase(m *Machine, item *domain.DisplayItem) (*displayPhase, error) {
	if item == nil {
		return nil, fmt.Errorf("enter display: %w", domain.ErrUndefinedBundle)
	}
	return &displayPhase{
		m:     m,
		view:  m.views.Display,
		panel: panel{window: m.views.Display},
		item:  item,
	}, nil
}

func (p *displayPhase) enter(ctx context.Context) error {
	if p.item.Aggregate == domain.AggregateMostSelected {
		if tally, ok := domain.MostSelected(p.m.ledger.GetAll()); ok {
			p.view.DisplayAggregate(p.item.Text, p.item.Describe(tally), tally.Count)
			return p.panel.open(ctx)
		}
	}

	p.view.DisplayText(p.item.Text)
	return p.panel.open(ctx)
}

func (p *displayPhase) exit(ctx context.Context) error {
	return p.panel.close(ctx)
}

func (p *displayPhase) handle(ctx context.Context, msg domain.Message) error {
	return dispatchTable{}.dispatch(ctx, p.m, msg)
}
