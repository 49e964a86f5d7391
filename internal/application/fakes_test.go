package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bnema/questionnaire/internal/adapters/transport/loopback"
	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/ports"
)

const (
	testSession = "session-1"
	tickStep    = 100 * time.Millisecond
)

type fakeWindow struct {
	opens   int
	closes  int
	openErr error
}

func (w *fakeWindow) OpenWindow(context.Context) error {
	if w.openErr != nil {
		return w.openErr
	}
	w.opens++
	return nil
}

func (w *fakeWindow) CloseWindow(context.Context) error {
	w.closes++
	return nil
}

type fakeSelectionView struct {
	fakeWindow
	prompts    [2]*domain.Prompt
	modes      [2]ports.InputMode
	highlights [2]map[int]bool
	locked     [2]bool
}

func (v *fakeSelectionView) SetPrompt(half domain.Half, prompt *domain.Prompt) {
	v.prompts[half] = prompt
	v.highlights[half] = map[int]bool{}
}

func (v *fakeSelectionView) SetAnswers(half domain.Half, _ []*domain.Answer, mode ports.InputMode) {
	v.modes[half] = mode
}

func (v *fakeSelectionView) Highlight(half domain.Half, index int, on bool) {
	v.highlights[half][index] = on
}

func (v *fakeSelectionView) SetLocked(half domain.Half, locked bool) {
	v.locked[half] = locked
}

type shownOutcome struct {
	outcome  *domain.Outcome
	position int
	total    int
}

type fakeSummaryView struct {
	fakeWindow
	shown      [2]shownOutcome
	navigation bool
	ready      [2]bool
}

func (v *fakeSummaryView) ShowOutcome(half domain.Half, outcome *domain.Outcome, position, total int) {
	v.shown[half] = shownOutcome{outcome: outcome, position: position, total: total}
}

func (v *fakeSummaryView) SetNavigation(enabled bool) {
	v.navigation = enabled
}

func (v *fakeSummaryView) HighlightReady(half domain.Half, ready bool) {
	v.ready[half] = ready
}

type fakeDisplayView struct {
	fakeWindow
	text   string
	answer *domain.Answer
	count  int
}

func (v *fakeDisplayView) DisplayText(text string) {
	v.text = text
	v.answer = nil
	v.count = 0
}

func (v *fakeDisplayView) DisplayAggregate(text string, answer *domain.Answer, count int) {
	v.text = text
	v.answer = answer
	v.count = count
}

type eventLog struct {
	events []domain.Event
}

func (l *eventLog) Handle(event domain.Event) {
	l.events = append(l.events, event)
}

func (l *eventLog) types() []string {
	types := make([]string, 0, len(l.events))
	for _, event := range l.events {
		types = append(types, event.EventType())
	}
	return types
}

func eventsOf[E domain.Event](l *eventLog) []E {
	var matched []E
	for _, event := range l.events {
		if e, ok := event.(E); ok {
			matched = append(matched, e)
		}
	}
	return matched
}

type testPeer struct {
	machine   *Machine
	selection *fakeSelectionView
	summary   *fakeSummaryView
	display   *fakeDisplayView
	events    *eventLog
}

func newTestPeer(t *testing.T, script *domain.Script, peer domain.PeerID, transport ports.Transport, authority ports.Authority) *testPeer {
	t.Helper()

	p := &testPeer{
		selection: &fakeSelectionView{},
		summary:   &fakeSummaryView{},
		display:   &fakeDisplayView{},
		events:    &eventLog{},
	}
	machine, err := NewMachine(MachineConfig{
		SessionID: testSession,
		Peer:      peer,
		Script:    script,
		Transport: transport,
		Authority: authority,
		Views: Views{
			Selection: p.selection,
			Summary:   p.summary,
			Display:   p.display,
		},
		Sinks: []ports.EventSink{p.events},
	})
	require.NoError(t, err)
	p.machine = machine
	return p
}

// session is two peers over a loopback hub. Left owns the session and the
// left panel, right owns the right panel.
type session struct {
	hub   *loopback.Hub
	left  *testPeer
	right *testPeer
}

func newSession(t *testing.T, script *domain.Script) *session {
	t.Helper()

	hub := loopback.NewHub()
	hub.Assign(domain.EntitySession, "left")
	hub.Assign(domain.EntityLeftPanel, "left")
	hub.Assign(domain.EntityRightPanel, "right")

	join := func(peer domain.PeerID) *testPeer {
		endpoint, err := hub.Join(peer)
		require.NoError(t, err)
		p := newTestPeer(t, script, peer, endpoint, endpoint)
		require.NoError(t, endpoint.Bind(p.machine))
		return p
	}

	return &session{hub: hub, left: join("left"), right: join("right")}
}

func (s *session) tick(t *testing.T, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		require.NoError(t, s.left.machine.Tick(context.Background(), tickStep))
		require.NoError(t, s.right.machine.Tick(context.Background(), tickStep))
	}
}

func (s *session) peers() []*testPeer {
	return []*testPeer{s.left, s.right}
}

// start begins the session and runs until both peers show the first item.
func (s *session) start(t *testing.T) {
	t.Helper()

	require.NoError(t, s.left.machine.Begin(context.Background()))
	s.tick(t, 2)
}

// answer submits one selection per half from the authoritative peers and
// ticks until both peers have moved on.
func (s *session) answer(t *testing.T, left, right int) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, s.left.machine.SelectAnswer(ctx, domain.HalfLeft, left))
	require.NoError(t, s.right.machine.SelectAnswer(ctx, domain.HalfRight, right))
	s.tick(t, 3)
}

func textAnswers(texts ...string) []*domain.Answer {
	answers := make([]*domain.Answer, 0, len(texts))
	for _, text := range texts {
		answers = append(answers, &domain.Answer{Kind: domain.AnswerKindText, Text: text})
	}
	return answers
}

func promptBundle(id string, rule domain.RuleKind, answers ...string) *domain.Bundle {
	return &domain.Bundle{
		ID:   id,
		Kind: domain.ItemKindPrompt,
		Prompt: &domain.Prompt{
			ID:      id,
			Text:    "Question " + id,
			Subtype: domain.SubtypeStandard,
			Rule:    rule,
			Answers: textAnswers(answers...),
		},
	}
}

func summaryBundle(mode domain.SummaryMode, skip time.Duration) *domain.Bundle {
	return &domain.Bundle{
		ID:      "summary",
		Kind:    domain.ItemKindSummary,
		Summary: &domain.SummaryItem{Mode: mode, SkipAfter: skip},
	}
}

func displayBundle(item *domain.DisplayItem) *domain.Bundle {
	return &domain.Bundle{ID: "display", Kind: domain.ItemKindDisplay, Display: item}
}
