package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/logging"
	"github.com/bnema/questionnaire/internal/ports"
)

var ErrMachineConfig = errors.New("invalid session machine config")

var halves = [...]domain.Half{domain.HalfLeft, domain.HalfRight}

// Views are the panels a session drives, one per phase.
type Views struct {
	Selection ports.SelectionView
	Summary   ports.SummaryView
	Display   ports.DisplayView
}

type MachineConfig struct {
	SessionID string
	Peer      domain.PeerID
	Script    *domain.Script
	Transport ports.Transport
	Authority ports.Authority
	Views     Views
	Sinks     []ports.EventSink
	Logger    *logging.Logger
}

type phaseHandler interface {
	enter(ctx context.Context) error
	exit(ctx context.Context) error
	handle(ctx context.Context, msg domain.Message) error
}

type transition struct {
	phase domain.Phase
}

// Machine is one peer's copy of the replicated session. Every peer runs its own
// Machine over the same script and converges by applying the same replicated
// messages in sender order.
//
// Tick must be driven by a single goroutine. Deliver may be called from any
// goroutine. Local input methods may be called between ticks.
type Machine struct {
	sessionID string
	peer      domain.PeerID
	script    *domain.Script
	transport ports.Transport
	authority ports.Authority
	views     Views
	base      *logging.Logger
	ledger    *domain.SummaryLedger
	outbox    outbox

	inboxMu sync.Mutex
	inbox   []domain.Message

	mu      sync.Mutex
	phase   domain.Phase
	handler phaseHandler
	cursor  int
	bundle  *domain.Bundle
	epoch   uint64
	logger  *logging.Logger
	pending *transition
	timer   skipTimer
	err     error
}

func NewMachine(cfg MachineConfig) (*Machine, error) {
	if cfg.Script == nil {
		return nil, fmt.Errorf("%w: script is required", ErrMachineConfig)
	}
	if err := cfg.Script.Validate(); err != nil {
		return nil, fmt.Errorf("validate script: %w", err)
	}
	if cfg.Transport == nil || cfg.Authority == nil {
		return nil, fmt.Errorf("%w: transport and authority are required", ErrMachineConfig)
	}
	if cfg.Views.Selection == nil || cfg.Views.Summary == nil || cfg.Views.Display == nil {
		return nil, fmt.Errorf("%w: every phase view is required", ErrMachineConfig)
	}

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	m := &Machine{
		sessionID: sessionID,
		peer:      cfg.Peer,
		script:    cfg.Script,
		transport: cfg.Transport,
		authority: cfg.Authority,
		views:     cfg.Views,
		base:      logger.WithSession(sessionID).WithPeer(string(cfg.Peer)),
		ledger:    domain.NewSummaryLedger(),
		outbox:    outbox{sinks: slices.Clone(cfg.Sinks)},
		phase:     domain.PhaseInactive,
		cursor:    -1,
	}
	m.handler = &inactivePhase{m: m}
	m.logger = m.base.WithPhase(m.phase.String())
	return m, nil
}

func (m *Machine) SessionID() string { return m.sessionID }

func (m *Machine) Peer() domain.PeerID { return m.peer }

func (m *Machine) Phase() domain.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Cursor is the script index of the current or queued item, -1 before start.
func (m *Machine) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

func (m *Machine) CurrentBundle() *domain.Bundle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bundle
}

func (m *Machine) Epoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// Transitioning reports whether a phase change is queued for the next tick.
func (m *Machine) Transitioning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Err returns the configuration error that aborted the session, if any.
func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Machine) Outcomes() []domain.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.GetAll()
}

func (m *Machine) Outcome(bundle *domain.Bundle) (domain.Outcome, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Get(bundle)
}

// Begin starts the session on every peer. Only the session authority may call it.
func (m *Machine) Begin(ctx context.Context) error {
	return m.locked(func() error {
		if _, err := activeHandler[*inactivePhase](m); err != nil {
			return err
		}
		if !m.authority.IsAuthority(domain.EntitySession) {
			return fmt.Errorf("begin session: %w: %s", domain.ErrNotAuthority, domain.EntitySession)
		}
		return m.send(ctx, domain.BeginMessage())
	})
}

// Deliver queues a replicated message for the next tick.
func (m *Machine) Deliver(msg domain.Message) {
	if msg.SessionID != m.sessionID {
		m.base.Warn("message for another session dropped", "kind", msg.Kind.String(), "target", msg.SessionID)
		return
	}

	m.inboxMu.Lock()
	m.inbox = append(m.inbox, msg)
	m.inboxMu.Unlock()
}

// Advance queues the next phase. It is ignored while a transition is queued.
func (m *Machine) Advance(repeatCurrent bool) error {
	return m.locked(func() error {
		if m.err != nil {
			return m.err
		}
		if err := m.advance(repeatCurrent); err != nil {
			return m.abort(context.Background(), err)
		}
		return nil
	})
}

// Tick runs a queued transition, applies the inbox and counts down the skip
// timer by dt. It returns the abort cause once the session has been aborted.
func (m *Machine) Tick(ctx context.Context, dt time.Duration) error {
	return m.locked(func() error {
		return m.tick(ctx, dt)
	})
}

func (m *Machine) tick(ctx context.Context, dt time.Duration) error {
	if m.err != nil {
		return m.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	transitioned := m.pending != nil
	if transitioned {
		if err := m.runTransition(ctx); err != nil {
			return m.abort(ctx, err)
		}
	}
	if err := m.drain(ctx); err != nil {
		return m.abort(ctx, err)
	}
	if !transitioned && m.pending == nil && m.timer.tick(dt) {
		m.logger.Info("skip timer expired", "item", m.bundle.Label())
		if err := m.advance(false); err != nil {
			return m.abort(ctx, err)
		}
	}
	return nil
}

// locked runs fn under the machine lock, then hands buffered events and hooks
// to their consumers once the lock is released.
func (m *Machine) locked(fn func() error) error {
	m.mu.Lock()
	err := fn()
	flush := m.outbox.take()
	m.mu.Unlock()

	flush()
	return err
}

func (m *Machine) advance(repeatCurrent bool) error {
	if m.pending != nil {
		m.logger.Debug("advance ignored, transition already queued", "repeat", repeatCurrent)
		return nil
	}

	target := m.cursor + 1
	switch {
	case repeatCurrent && m.cursor < 0:
		target = 0
	case repeatCurrent:
		target = m.cursor
	case target >= m.script.Len():
		m.end()
		return nil
	}

	bundle, ok := m.script.At(target)
	if !ok || bundle == nil {
		return fmt.Errorf("advance to item %d: %w", target, domain.ErrUndefinedBundle)
	}
	phase, err := domain.PhaseFor(bundle.Kind)
	if err != nil {
		return fmt.Errorf("advance to item %d: %w", target, err)
	}

	m.cursor = target
	m.pending = &transition{phase: phase}
	m.logger.Info("transition queued", "next", phase.String(), "cursor", target, "repeat", repeatCurrent)
	return nil
}

func (m *Machine) end() {
	outcomes := m.ledger.GetAll()
	m.logger.Info("session ended", "outcomes", len(outcomes))
	m.outbox.emit(domain.SessionEnded{Outcomes: outcomes})
	if m.script.ClearLedgerAtEnd {
		m.ledger.ClearAll()
	}
	m.pending = &transition{phase: domain.PhaseInactive}
}

func (m *Machine) runTransition(ctx context.Context) error {
	next := m.pending
	m.pending = nil
	m.timer.stop()

	if err := m.handler.exit(ctx); err != nil {
		return fmt.Errorf("exit %s: %w", m.phase, err)
	}

	previous := m.bundle
	m.bundle = nil
	if next.phase != domain.PhaseInactive {
		if err := m.moveToCursor(previous); err != nil {
			return err
		}
	}

	handler, err := m.newHandler(next.phase)
	if err != nil {
		return err
	}
	m.phase = next.phase
	m.handler = handler
	m.epoch++
	m.logger = m.base.WithPhase(m.phase.String())
	m.logger.Info("phase entered", "epoch", m.epoch, "cursor", m.cursor)
	m.outbox.emit(domain.PhaseEntered{Phase: m.phase, Epoch: m.epoch})

	if err := handler.enter(ctx); err != nil {
		return fmt.Errorf("enter %s: %w", m.phase, err)
	}
	m.timer.start(m.bundle.SkipAfter())
	return nil
}

func (m *Machine) moveToCursor(previous *domain.Bundle) error {
	bundle, ok := m.script.At(m.cursor)
	if !ok || bundle == nil {
		return fmt.Errorf("move to item %d: %w", m.cursor, domain.ErrUndefinedBundle)
	}
	m.bundle = bundle
	m.outbox.emit(domain.ItemChanged{Previous: previous, Current: bundle, Index: m.cursor})
	return nil
}

func (m *Machine) newHandler(phase domain.Phase) (phaseHandler, error) {
	switch phase {
	case domain.PhaseInactive:
		return &inactivePhase{m: m}, nil
	case domain.PhaseSelection:
		return newSelectionPhase(m, m.bundle.Prompt)
	case domain.PhaseSummary:
		return newSummaryPhase(m, m.bundle.Summary)
	case domain.PhaseDisplay:
		return newDisplayPhase(m, m.bundle.Display)
	default:
		return nil, fmt.Errorf("enter phase %s: %w", phase, domain.ErrUnknownItemKind)
	}
}

func (m *Machine) abort(ctx context.Context, cause error) error {
	m.err = cause
	m.pending = nil
	m.timer.stop()
	m.logger.Error("session aborted", "error", cause.Error())

	if err := m.handler.exit(context.WithoutCancel(ctx)); err != nil {
		m.logger.Warn("close window after abort", "error", err.Error())
	}
	m.handler = &inactivePhase{m: m}
	m.phase = domain.PhaseInactive
	m.logger = m.base.WithPhase(m.phase.String())
	m.bundle = nil
	m.outbox.emit(domain.SessionAborted{Err: cause})
	return cause
}

// drain applies inbox messages of the current epoch in arrival order until a
// transition is queued. Older epochs are dropped; newer ones wait for the
// transition that brings this peer to their epoch.
func (m *Machine) drain(ctx context.Context) error {
	for m.pending == nil {
		batch := m.takeInbox()
		if len(batch) == 0 {
			return nil
		}

		var waiting []domain.Message
		progressed := false
		for i, msg := range batch {
			if m.pending != nil {
				waiting = append(waiting, batch[i:]...)
				break
			}

			switch {
			case msg.Epoch < m.epoch:
				m.logger.Debug("stale message dropped", "kind", msg.Kind.String(), "epoch", msg.Epoch, "current", m.epoch)
				progressed = true
			case msg.Epoch > m.epoch:
				m.logger.Debug("message deferred", "kind", msg.Kind.String(), "epoch", msg.Epoch, "current", m.epoch)
				waiting = append(waiting, msg)
			default:
				progressed = true
				if err := m.handler.handle(ctx, msg); err != nil {
					m.requeue(append(waiting, batch[i+1:]...))
					return err
				}
			}
		}

		m.requeue(waiting)
		if !progressed {
			return nil
		}
	}
	return nil
}

func (m *Machine) takeInbox() []domain.Message {
	m.inboxMu.Lock()
	defer m.inboxMu.Unlock()

	batch := m.inbox
	m.inbox = nil
	return batch
}

// requeue puts messages back ahead of anything delivered meanwhile.
func (m *Machine) requeue(msgs []domain.Message) {
	if len(msgs) == 0 {
		return
	}

	m.inboxMu.Lock()
	defer m.inboxMu.Unlock()
	m.inbox = append(slices.Clone(msgs), m.inbox...)
}

func (m *Machine) send(ctx context.Context, msg domain.Message) error {
	msg.SessionID = m.sessionID
	msg.Sender = m.peer
	msg.Epoch = m.epoch

	if err := m.transport.SendReplicated(ctx, msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Kind, err)
	}
	m.logger.Debug("message sent", "kind", msg.Kind.String(), "half", msg.Half.String(), "epoch", msg.Epoch)
	return nil
}

func (m *Machine) reject(msg domain.Message, err error) {
	m.logger.Warn("message rejected",
		"kind", msg.Kind.String(),
		"sender", string(msg.Sender),
		"error", err.Error(),
	)
}

func (m *Machine) authorize(half domain.Half) error {
	if !half.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidHalf, half)
	}
	if entity := domain.EntityFor(half); !m.authority.IsAuthority(entity) {
		return fmt.Errorf("%w: %s", domain.ErrNotAuthority, entity)
	}
	return nil
}

// activeHandler returns the current handler when it is of type H and no
// transition is queued.
func activeHandler[H phaseHandler](m *Machine) (H, error) {
	var zero H
	if m.err != nil {
		return zero, m.err
	}
	handler, ok := m.handler.(H)
	if !ok || m.pending != nil {
		return zero, fmt.Errorf("%w: %s", domain.ErrWrongPhase, m.phase)
	}
	return handler, nil
}

// dispatchTable routes replicated messages to a phase handler. Kinds missing
// from the table are protocol violations for that phase.
type dispatchTable map[domain.MessageKind]func(ctx context.Context, msg domain.Message) error

func (t dispatchTable) dispatch(ctx context.Context, m *Machine, msg domain.Message) error {
	route, ok := t[msg.Kind]
	if !ok {
		m.reject(msg, fmt.Errorf("%w: %s", domain.ErrWrongPhase, msg.Kind))
		return nil
	}
	return route(ctx, msg)
}

// panel tracks whether a phase window is showing so exit can run twice.
type panel struct {
	window  ports.Window
	visible bool
}

func (p *panel) open(ctx context.Context) error {
	if err := p.window.OpenWindow(ctx); err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	p.visible = true
	return nil
}

func (p *panel) close(ctx context.Context) error {
	if !p.visible {
		return nil
	}
	p.visible = false
	if err := p.window.CloseWindow(ctx); err != nil {
		return fmt.Errorf("close window: %w", err)
	}
	return nil
}
