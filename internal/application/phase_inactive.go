package application

import (
	"context"

	"github.com/bnema/questionnaire/internal/domain"
)

// inactivePhase waits for the replicated begin message.
type inactivePhase struct {
	m *Machine
}

func (p *inactivePhase) enter(context.Context) error { return nil }

func (p *inactivePhase) exit(context.Context) error { return nil }

func (p *inactivePhase) handle(ctx context.Context, msg domain.Message) error {
	return dispatchTable{domain.MessageBegin: p.onBegin}.dispatch(ctx, p.m, msg)
}

func (p *inactivePhase) onBegin(_ context.Context, msg domain.Message) error {
	p.m.cursor = -1
	p.m.logger.Info("session started", "sender", string(msg.Sender), "items", p.m.script.Len())
	return p.m.advance(false)
}
