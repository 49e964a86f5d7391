package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/ports"
)

type HistoryService struct {
	store ports.HistoryStore
	clock ports.Clock
}

func NewHistoryService(store ports.HistoryStore, clock ports.Clock) *HistoryService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &HistoryService{
		store: store,
		clock: clock,
	}
}

// Record saves the digest of a finished session. wasRight marks the half the
// local viewer played.
func (s *HistoryService) Record(ctx context.Context, outcomes []domain.Outcome, wasRight bool) (domain.History, error) {
	history := domain.NewHistory(outcomes, wasRight)
	history.SavedAt = s.clock.Now().UTC()

	if err := s.store.Save(ctx, history); err != nil {
		return domain.History{}, fmt.Errorf("save history: %w", err)
	}
	return history, nil
}

// Load returns the saved history. A missing or corrupt file is an empty history.
func (s *HistoryService) Load(ctx context.Context) (domain.History, error) {
	history, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrHistoryNotFound) {
			return domain.History{}, nil
		}
		return domain.History{}, fmt.Errorf("load history: %w", err)
	}
	return history, nil
}

// RecordOnEnd returns a sink that records the history when a session ends.
// Save failures are passed to onError.
func (s *HistoryService) RecordOnEnd(ctx context.Context, wasRight bool, onError func(error)) ports.EventSink {
	return ports.EventSinkFunc(func(event domain.Event) {
		ended, ok := event.(domain.SessionEnded)
		if !ok {
			return
		}
		if _, err := s.Record(ctx, ended.Outcomes, wasRight); err != nil && onError != nil {
			onError(err)
		}
	})
}
