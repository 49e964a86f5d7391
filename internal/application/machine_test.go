package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/ports"
	"github.com/bnema/questionnaire/internal/ports/mocks"
)

func TestMachineMatchThenAllPastSummary(t *testing.T) {
	t.Parallel()

	prompt := promptBundle("a", domain.RuleMatch, "yes", "no")
	script := &domain.Script{Bundles: []*domain.Bundle{prompt, summaryBundle(domain.SummaryModeAllPast, 0)}}
	s := newSession(t, script)

	s.start(t)
	for _, p := range s.peers() {
		assert.Equal(t, domain.PhaseSelection, p.machine.Phase())
		assert.Equal(t, 1, p.selection.opens)
		assert.Same(t, prompt.Prompt, p.selection.prompts[domain.HalfLeft])
	}

	s.answer(t, 0, 0)

	for _, p := range s.peers() {
		assert.Equal(t, domain.PhaseSummary, p.machine.Phase())
		assert.Equal(t, 1, p.machine.Cursor())

		outcomes := p.machine.Outcomes()
		require.Len(t, outcomes, 1)
		assert.True(t, outcomes[0].Result)
		assert.Equal(t, []*domain.Answer{prompt.Prompt.Answers[0]}, outcomes[0].Left)

		shown := p.summary.shown[domain.HalfLeft]
		require.NotNil(t, shown.outcome)
		assert.True(t, shown.outcome.Result)
		assert.Equal(t, 1, shown.total)
		assert.False(t, p.summary.navigation)
		assert.Equal(t, 1, p.selection.closes)
	}
}

func TestMachineSpecificMismatchRepeatsItem(t *testing.T) {
	t.Parallel()

	prompt := promptBundle("a", domain.RuleSpecific, "yes", "no")
	prompt.Prompt.ConditionA = 0
	prompt.Prompt.ConditionB = 1
	prompt.Prompt.RepeatOnMismatch = true
	script := &domain.Script{Bundles: []*domain.Bundle{prompt, displayBundle(&domain.DisplayItem{Text: "done"})}}
	s := newSession(t, script)

	s.start(t)
	s.answer(t, 0, 0)

	for _, p := range s.peers() {
		assert.Equal(t, domain.PhaseSelection, p.machine.Phase())
		assert.Equal(t, 0, p.machine.Cursor())
		assert.Equal(t, uint64(2), p.machine.Epoch())
		outcome, ok := p.machine.Outcome(prompt)
		require.True(t, ok)
		assert.False(t, outcome.Result)
		assert.Equal(t, 2, p.selection.opens)
	}

	s.answer(t, 0, 1)

	for _, p := range s.peers() {
		assert.Equal(t, domain.PhaseDisplay, p.machine.Phase())
		assert.Equal(t, 1, p.machine.Cursor())
		require.Len(t, p.machine.Outcomes(), 1, "repeat overwrites the same ledger key")
		assert.True(t, p.machine.Outcomes()[0].Result)
		assert.Equal(t, "done", p.display.text)
	}
}

func TestMachineScriptExhaustionEndsSession(t *testing.T) {
	t.Parallel()

	prompt := promptBundle("only", domain.RuleAnyValid, "a", "b")
	s := newSession(t, &domain.Script{Bundles: []*domain.Bundle{prompt}})

	s.start(t)
	s.answer(t, 1, 0)

	for _, p := range s.peers() {
		assert.Equal(t, domain.PhaseInactive, p.machine.Phase())
		assert.Nil(t, p.machine.CurrentBundle())
		assert.NoError(t, p.machine.Err())

		ended := eventsOf[domain.SessionEnded](p.events)
		require.Len(t, ended, 1)
		require.Len(t, ended[0].Outcomes, 1)
		assert.True(t, ended[0].Outcomes[0].Result)
		assert.Equal(t, 1, p.selection.closes)
	}
}

func TestMachineClearsLedgerAtEnd(t *testing.T) {
	t.Parallel()

	script := &domain.Script{
		Bundles:          []*domain.Bundle{promptBundle("only", domain.RuleMatch, "a")},
		ClearLedgerAtEnd: true,
	}
	s := newSession(t, script)

	s.start(t)
	s.answer(t, 0, 0)

	for _, p := range s.peers() {
		assert.Empty(t, p.machine.Outcomes())
		ended := eventsOf[domain.SessionEnded](p.events)
		require.Len(t, ended, 1)
		assert.Len(t, ended[0].Outcomes, 1, "the callback sees the ledger before it is cleared")
	}
}

func TestMachineEventOrder(t *testing.T) {
	t.Parallel()

	prompt := promptBundle("only", domain.RuleMatch, "a")
	s := newSession(t, &domain.Script{Bundles: []*domain.Bundle{prompt}})

	s.start(t)
	s.answer(t, 0, 0)

	assert.Equal(t, []string{
		"item.changed",
		"phase.entered",
		"selection.changed",
		"selection.changed",
		"selection.completion",
		"selection.completion",
		"outcome.recorded",
		"session.ended",
		"phase.entered",
	}, s.right.events.types())

	changed := eventsOf[domain.ItemChanged](s.right.events)
	require.Len(t, changed, 1)
	assert.Nil(t, changed[0].Previous)
	assert.Same(t, prompt, changed[0].Current)
}

func TestMachineHooksFireOncePerPeer(t *testing.T) {
	t.Parallel()

	var correct, incorrect int
	prompt := promptBundle("a", domain.RuleUnique, "a", "b")
	prompt.Hooks = domain.Hooks{
		OnCorrect:   func() { correct++ },
		OnIncorrect: func() { incorrect++ },
	}
	s := newSession(t, &domain.Script{Bundles: []*domain.Bundle{prompt}})

	s.start(t)
	s.answer(t, 0, 1)
	s.tick(t, 3)

	assert.Equal(t, 2, correct)
	assert.Zero(t, incorrect)
}

func TestMachineOrderedSequenceCompletesAtFullSelection(t *testing.T) {
	t.Parallel()

	prompt := promptBundle("order", domain.RuleOneSpecific, "a", "b", "c")
	prompt.Prompt.Subtype = domain.SubtypeOrderedSequence
	prompt.Prompt.ConditionA = 213
	s := newSession(t, &domain.Script{Bundles: []*domain.Bundle{prompt, displayBundle(&domain.DisplayItem{Text: "x"})}})
	ctx := context.Background()

	s.start(t)
	for _, index := range []int{1, 0} {
		require.NoError(t, s.left.machine.SelectAnswer(ctx, domain.HalfLeft, index))
	}
	for _, index := range []int{0, 1, 2} {
		require.NoError(t, s.right.machine.SelectAnswer(ctx, domain.HalfRight, index))
	}
	s.tick(t, 3)

	assert.Equal(t, domain.PhaseSelection, s.left.machine.Phase(), "left has two of three answers")
	assert.True(t, s.left.selection.locked[domain.HalfRight])
	assert.False(t, s.left.selection.locked[domain.HalfLeft])

	require.NoError(t, s.left.machine.SelectAnswer(ctx, domain.HalfLeft, 2))
	s.tick(t, 3)

	for _, p := range s.peers() {
		assert.Equal(t, domain.PhaseDisplay, p.machine.Phase())
		outcomes := p.machine.Outcomes()
		require.Len(t, outcomes, 1)
		assert.True(t, outcomes[0].Result)
	}
}

func TestMachineDeselectAfterCompletionWaits(t *testing.T) {
	t.Parallel()

	prompt := promptBundle("a", domain.RuleMatch, "a", "b")
	s := newSession(t, &domain.Script{Bundles: []*domain.Bundle{prompt}})
	ctx := context.Background()

	s.start(t)
	require.NoError(t, s.left.machine.SelectAnswer(ctx, domain.HalfLeft, 0))
	s.tick(t, 1)
	require.NoError(t, s.left.machine.SelectAnswer(ctx, domain.HalfLeft, 0))
	s.tick(t, 2)

	completions := eventsOf[domain.CompletionChanged](s.right.events)
	require.Len(t, completions, 2)
	assert.True(t, completions[0].Complete)
	assert.False(t, completions[1].Complete)

	require.NoError(t, s.right.machine.SelectAnswer(ctx, domain.HalfRight, 1))
	s.tick(t, 3)
	assert.Equal(t, domain.PhaseSelection, s.left.machine.Phase())
	assert.Empty(t, s.left.machine.Outcomes())
}

func TestMachineKeypadInput(t *testing.T) {
	t.Parallel()

	prompt := promptBundle("n", domain.RuleMatch, "3", "7")
	prompt.Prompt.Subtype = domain.SubtypeFreeInput
	s := newSession(t, &domain.Script{Bundles: []*domain.Bundle{prompt}})
	ctx := context.Background()

	s.start(t)
	assert.Equal(t, ports.InputKeypad, s.left.selection.modes[domain.HalfLeft])

	require.NoError(t, s.left.machine.EnterNumber(ctx, domain.HalfLeft, 9))
	require.NoError(t, s.left.machine.EnterNumber(ctx, domain.HalfLeft, 7))
	s.tick(t, 1)

	assert.Equal(t, map[int]bool{1: true}, s.right.selection.highlights[domain.HalfLeft])
}

func TestMachineLocalInputRejections(t *testing.T) {
	t.Parallel()

	prompt := promptBundle("a", domain.RuleMatch, "a", "b")
	s := newSession(t, &domain.Script{Bundles: []*domain.Bundle{prompt, summaryBundle(domain.SummaryModePrevious, 0)}})
	ctx := context.Background()

	err := s.left.machine.SelectAnswer(ctx, domain.HalfLeft, 0)
	require.ErrorIs(t, err, domain.ErrWrongPhase)
	require.ErrorIs(t, s.right.machine.Begin(ctx), domain.ErrNotAuthority)

	s.start(t)

	require.ErrorIs(t, s.right.machine.SelectAnswer(ctx, domain.HalfLeft, 0), domain.ErrNotAuthority)
	require.ErrorIs(t, s.left.machine.SelectAnswer(ctx, domain.HalfLeft, 2), domain.ErrAnswerOutOfRange)
	require.ErrorIs(t, s.left.machine.SelectAnswer(ctx, domain.Half(7), 0), domain.ErrInvalidHalf)
	require.ErrorIs(t, s.left.machine.ToggleReady(ctx, domain.HalfLeft), domain.ErrWrongPhase)
	require.ErrorIs(t, s.left.machine.Begin(ctx), domain.ErrWrongPhase)
	require.NoError(t, s.left.machine.SelectAnswer(ctx, domain.HalfLeft, domain.NoAnswer))

	s.tick(t, 2)
	for _, p := range s.peers() {
		assert.Empty(t, eventsOf[domain.SelectionChanged](p.events), "rejected input never reaches a peer")
	}
}

func TestMachineRejectsRemoteMessagesOutsidePhase(t *testing.T) {
	t.Parallel()

	s := newSession(t, &domain.Script{Bundles: []*domain.Bundle{displayBundle(&domain.DisplayItem{Text: "hi"})}})
	s.start(t)

	s.right.machine.Deliver(domain.Message{
		SessionID: testSession,
		Epoch:     1,
		Sender:    "right",
		Kind:      domain.MessageReady,
		Half:      domain.HalfRight,
	})
	s.right.machine.Deliver(domain.Message{SessionID: "other", Epoch: 1, Kind: domain.MessageBegin})
	s.tick(t, 1)

	assert.Equal(t, domain.PhaseDisplay, s.right.machine.Phase())
	assert.NoError(t, s.right.machine.Err())
}

func TestMachineDefersFutureEpochMessages(t *testing.T) {
	t.Parallel()

	prompt := promptBundle("a", domain.RuleMatch, "a", "b")
	s := newSession(t, &domain.Script{Bundles: []*domain.Bundle{prompt}})
	ctx := context.Background()

	require.NoError(t, s.hub.Hold("right"))
	require.NoError(t, s.left.machine.Begin(ctx))
	require.NoError(t, s.left.machine.Tick(ctx, tickStep))
	require.NoError(t, s.left.machine.Tick(ctx, tickStep))
	require.NoError(t, s.left.machine.SelectAnswer(ctx, domain.HalfLeft, 1))
	require.NoError(t, s.hub.Release("right"))

	require.NoError(t, s.right.machine.Tick(ctx, tickStep))
	assert.Equal(t, domain.PhaseInactive, s.right.machine.Phase())
	assert.True(t, s.right.machine.Transitioning())

	require.NoError(t, s.right.machine.Tick(ctx, tickStep))
	assert.Equal(t, domain.PhaseSelection, s.right.machine.Phase())
	assert.Equal(t, map[int]bool{1: true}, s.right.selection.highlights[domain.HalfLeft])
}

func TestMachineDropsStaleEpochMessages(t *testing.T) {
	t.Parallel()

	prompt := promptBundle("a", domain.RuleMatch, "a", "b")
	s := newSession(t, &domain.Script{Bundles: []*domain.Bundle{prompt}})
	s.start(t)

	s.right.machine.Deliver(domain.Message{
		SessionID:   testSession,
		Epoch:       0,
		Sender:      "left",
		Kind:        domain.MessageResponse,
		Half:        domain.HalfLeft,
		AnswerIndex: 1,
	})
	s.tick(t, 1)

	assert.Empty(t, s.right.selection.highlights[domain.HalfLeft])
	assert.Empty(t, eventsOf[domain.SelectionChanged](s.right.events))
}

func TestMachineSecondAdvanceWhileQueuedIsIgnored(t *testing.T) {
	t.Parallel()

	script := &domain.Script{Bundles: []*domain.Bundle{
		promptBundle("a", domain.RuleMatch, "a"),
		promptBundle("b", domain.RuleMatch, "a"),
	}}
	s := newSession(t, script)

	require.NoError(t, s.left.machine.Advance(false))
	require.NoError(t, s.left.machine.Advance(false))
	assert.Equal(t, 0, s.left.machine.Cursor())

	require.NoError(t, s.left.machine.Tick(context.Background(), tickStep))
	assert.Equal(t, domain.PhaseSelection, s.left.machine.Phase())
	assert.Same(t, script.Bundles[0], s.left.machine.CurrentBundle())
}

func TestMachineRepeatWithUnsetCursorTargetsFirstItem(t *testing.T) {
	t.Parallel()

	script := &domain.Script{Bundles: []*domain.Bundle{
		displayBundle(&domain.DisplayItem{Text: "first"}),
		displayBundle(&domain.DisplayItem{Text: "second"}),
	}}
	s := newSession(t, script)

	require.NoError(t, s.left.machine.Advance(true))
	require.NoError(t, s.left.machine.Tick(context.Background(), tickStep))

	assert.Equal(t, 0, s.left.machine.Cursor())
	assert.Equal(t, "first", s.left.display.text)
}

func TestMachineAbortsWhenWindowFailsToOpen(t *testing.T) {
	t.Parallel()

	s := newSession(t, &domain.Script{Bundles: []*domain.Bundle{displayBundle(&domain.DisplayItem{Text: "x"})}})
	openErr := errors.New("panel missing")
	s.right.display.openErr = openErr
	ctx := context.Background()

	require.NoError(t, s.left.machine.Begin(ctx))
	s.tick(t, 1)

	require.NoError(t, s.left.machine.Tick(ctx, tickStep))
	err := s.right.machine.Tick(ctx, tickStep)
	require.ErrorIs(t, err, openErr)

	assert.ErrorIs(t, s.right.machine.Err(), openErr)
	assert.Equal(t, domain.PhaseInactive, s.right.machine.Phase())
	require.ErrorIs(t, s.right.machine.Tick(ctx, tickStep), openErr)
	require.Len(t, eventsOf[domain.SessionAborted](s.right.events), 1)

	assert.Equal(t, domain.PhaseDisplay, s.left.machine.Phase())
}

func TestNewMachineValidatesScript(t *testing.T) {
	t.Parallel()

	transport := mocks.NewMockTransport(t)
	authority := mocks.NewMockAuthority(t)
	views := Views{Selection: &fakeSelectionView{}, Summary: &fakeSummaryView{}, Display: &fakeDisplayView{}}

	_, err := NewMachine(MachineConfig{Transport: transport, Authority: authority, Views: views})
	require.ErrorIs(t, err, ErrMachineConfig)

	bad := promptBundle("a", "majority", "a")
	_, err = NewMachine(MachineConfig{
		Script:    &domain.Script{Bundles: []*domain.Bundle{bad}},
		Transport: transport,
		Authority: authority,
		Views:     views,
	})
	require.ErrorIs(t, err, domain.ErrUnknownRule)

	_, err = NewMachine(MachineConfig{
		Script:    &domain.Script{Bundles: []*domain.Bundle{promptBundle("a", domain.RuleMatch, "a")}},
		Transport: transport,
		Authority: authority,
	})
	require.ErrorIs(t, err, ErrMachineConfig)

	machine, err := NewMachine(MachineConfig{
		Script:    &domain.Script{Bundles: []*domain.Bundle{promptBundle("a", domain.RuleMatch, "a")}},
		Transport: transport,
		Authority: authority,
		Views:     views,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, machine.SessionID())
}

func TestMachineNonAuthoritativeInputSendsNothing(t *testing.T) {
	t.Parallel()

	transport := mocks.NewMockTransport(t)
	authority := mocks.NewMockAuthority(t)
	script := &domain.Script{Bundles: []*domain.Bundle{promptBundle("a", domain.RuleMatch, "a", "b")}}
	peer := newTestPeer(t, script, "observer", transport, authority)
	ctx := context.Background()

	authority.EXPECT().IsAuthority(domain.EntitySession).Return(true).Once()
	authority.EXPECT().IsAuthority(domain.EntityLeftPanel).Return(false)
	transport.EXPECT().
		SendReplicated(mock.Anything, mock.MatchedBy(func(msg domain.Message) bool {
			return msg.Kind == domain.MessageBegin && msg.SessionID == testSession && msg.Sender == "observer" && msg.Epoch == 0
		})).
		RunAndReturn(func(_ context.Context, msg domain.Message) error {
			peer.machine.Deliver(msg)
			return nil
		}).
		Once()

	require.NoError(t, peer.machine.Begin(ctx))
	require.NoError(t, peer.machine.Tick(ctx, tickStep))
	require.NoError(t, peer.machine.Tick(ctx, tickStep))
	require.Equal(t, domain.PhaseSelection, peer.machine.Phase())

	err := peer.machine.SelectAnswer(ctx, domain.HalfLeft, 0)
	require.ErrorIs(t, err, domain.ErrNotAuthority)
}

func TestMachineTransportFailureIsReturnedToCaller(t *testing.T) {
	t.Parallel()

	transport := mocks.NewMockTransport(t)
	authority := mocks.NewMockAuthority(t)
	script := &domain.Script{Bundles: []*domain.Bundle{promptBundle("a", domain.RuleMatch, "a")}}
	peer := newTestPeer(t, script, "left", transport, authority)

	sendErr := errors.New("link down")
	authority.EXPECT().IsAuthority(domain.EntitySession).Return(true)
	transport.EXPECT().SendReplicated(mock.Anything, mock.Anything).Return(sendErr).Once()

	err := peer.machine.Begin(context.Background())
	require.ErrorIs(t, err, sendErr)
	assert.NoError(t, peer.machine.Err(), "a failed local send is not fatal")
}

func TestMachineTickHonoursContext(t *testing.T) {
	t.Parallel()

	s := newSession(t, &domain.Script{Bundles: []*domain.Bundle{displayBundle(&domain.DisplayItem{})}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.left.machine.Tick(ctx, time.Second), context.Canceled)
	assert.NoError(t, s.left.machine.Err())
}
