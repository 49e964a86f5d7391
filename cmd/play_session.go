package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/questionnaire/internal/adapters/render/console"
	"github.com/bnema/questionnaire/internal/adapters/transport/loopback"
	"github.com/bnema/questionnaire/internal/application"
	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/logging"
	"github.com/bnema/questionnaire/internal/ports"
)

var errSessionStalled = errors.New("session did not finish")

var peerFor = [...]domain.PeerID{domain.HalfLeft: "left", domain.HalfRight: "right"}

type playSessionConfig struct {
	script *domain.Script
	out    io.Writer
	local  domain.Half
	plans  [2][]answerSpec
	sinks  []ports.EventSink
	logger *logging.Logger
}

// playSession drives both peers of a loopback session from one goroutine. The
// left peer owns the session; each peer owns its own panel.
type playSession struct {
	local   domain.Half
	players [2]*player
}

type player struct {
	half     domain.Half
	machine  *application.Machine
	plan     []answerSpec
	next     int
	epoch    uint64
	ended    bool
	outcomes []domain.Outcome
}

func newPlaySession(cfg playSessionConfig) (*playSession, error) {
	hub := loopback.NewHub()
	hub.Assign(domain.EntitySession, peerFor[domain.HalfLeft])
	hub.Assign(domain.EntityLeftPanel, peerFor[domain.HalfLeft])
	hub.Assign(domain.EntityRightPanel, peerFor[domain.HalfRight])

	logger := cfg.logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	sessionID := uuid.NewString()
	session := &playSession{local: cfg.local}
	for _, half := range []domain.Half{domain.HalfLeft, domain.HalfRight} {
		peer := peerFor[half]
		endpoint, err := hub.Join(peer)
		if err != nil {
			return nil, fmt.Errorf("join %s peer: %w", peer, err)
		}

		out := io.Discard
		sinks := []ports.EventSink{}
		if half == cfg.local {
			out = cfg.out
			sinks = append(sinks, cfg.sinks...)
		}
		selection, summary, display := console.New(out, "").Views()

		p := &player{half: half, plan: cfg.plans[half]}
		machine, err := application.NewMachine(application.MachineConfig{
			SessionID: sessionID,
			Peer:      peer,
			Script:    cfg.script,
			Transport: endpoint,
			Authority: endpoint,
			Views:     application.Views{Selection: selection, Summary: summary, Display: display},
			Sinks:     append([]ports.EventSink{ports.EventSinkFunc(p.observe)}, sinks...),
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("new %s machine: %w", peer, err)
		}
		if err := endpoint.Bind(machine); err != nil {
			return nil, fmt.Errorf("bind %s peer: %w", peer, err)
		}

		p.machine = machine
		session.players[half] = p
	}
	return session, nil
}

// run begins the session and ticks both peers until both are back to inactive.
// It returns the outcomes seen by the local peer.
func (s *playSession) run(ctx context.Context, tick time.Duration, maxTicks int) ([]domain.Outcome, error) {
	if err := s.players[domain.HalfLeft].machine.Begin(ctx); err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}

	for i := 0; i < maxTicks; i++ {
		for _, p := range s.players {
			if err := p.machine.Tick(ctx, tick); err != nil {
				return nil, fmt.Errorf("tick %s peer: %w", p.half, err)
			}
		}
		if s.finished() {
			return s.players[s.local].outcomes, nil
		}
		for _, p := range s.players {
			if err := p.act(ctx); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("%w within %d ticks", errSessionStalled, maxTicks)
}

func (s *playSession) finished() bool {
	for _, p := range s.players {
		if !p.ended || p.machine.Phase() != domain.PhaseInactive || p.machine.Transitioning() {
			return false
		}
	}
	return true
}

func (p *player) observe(event domain.Event) {
	if ended, ok := event.(domain.SessionEnded); ok {
		p.ended = true
		p.outcomes = ended.Outcomes
	}
}

// act feeds the player's input once per entered phase.
func (p *player) act(ctx context.Context) error {
	m := p.machine
	if m.Transitioning() || m.Epoch() == p.epoch {
		return nil
	}
	p.epoch = m.Epoch()

	bundle := m.CurrentBundle()
	switch m.Phase() {
	case domain.PhaseSelection:
		return p.answer(ctx, bundle.Prompt)
	case domain.PhaseSummary:
		return m.ToggleReady(ctx, p.half)
	case domain.PhaseDisplay:
		if bundle.SkipAfter() == 0 {
			return m.Advance(false)
		}
	}
	return nil
}

func (p *player) answer(ctx context.Context, prompt *domain.Prompt) error {
	if p.next >= len(p.plan) {
		return nil
	}
	spec := p.plan[p.next]
	p.next++

	for _, value := range spec {
		var err error
		if prompt.Subtype == domain.SubtypeFreeInput {
			err = p.machine.EnterNumber(ctx, p.half, value)
		} else {
			err = p.machine.SelectAnswer(ctx, p.half, value-1)
		}
		if err != nil {
			return fmt.Errorf("answer %q for %s: %w", prompt.Title(), p.half, err)
		}
	}
	return nil
}
