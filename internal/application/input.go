package application

import (
	"context"
	"fmt"

	"github.com/bnema/questionnaire/internal/domain"
)

// SelectAnswer toggles the answer at index for half. It is rejected unless this
// peer is authoritative for the half's panel. NoAnswer is accepted and ignored.
func (m *Machine) SelectAnswer(ctx context.Context, half domain.Half, index int) error {
	return m.locked(func() error {
		selection, err := activeHandler[*selectionPhase](m)
		if err != nil {
			return err
		}
		if err := m.authorize(half); err != nil {
			return err
		}
		return selection.submit(ctx, half, index)
	})
}

// EnterNumber is keypad input: it selects the answer whose text is n. A number
// no answer carries is ignored.
func (m *Machine) EnterNumber(ctx context.Context, half domain.Half, n int) error {
	return m.locked(func() error {
		selection, err := activeHandler[*selectionPhase](m)
		if err != nil {
			return err
		}
		if err := m.authorize(half); err != nil {
			return err
		}
		return selection.submit(ctx, half, selection.prompt.IndexForNumber(n))
	})
}

// ToggleReady flips half's ready flag on every peer.
func (m *Machine) ToggleReady(ctx context.Context, half domain.Half) error {
	return m.locked(func() error {
		if _, err := activeHandler[*summaryPhase](m); err != nil {
			return err
		}
		if err := m.authorize(half); err != nil {
			return err
		}
		return m.send(ctx, domain.ReadyMessage(half))
	})
}

// Navigate moves half's summary page on this peer only. It does nothing when
// there is a single entry or the summary shows the previous item.
func (m *Machine) Navigate(half domain.Half, forward bool) error {
	return m.locked(func() error {
		summary, err := activeHandler[*summaryPhase](m)
		if err != nil {
			return err
		}
		if !half.Valid() {
			return fmt.Errorf("%w: %s", domain.ErrInvalidHalf, half)
		}
		summary.navigate(half, forward)
		return nil
	})
}
