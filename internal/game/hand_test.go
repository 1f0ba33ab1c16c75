package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakmachine/holdem/internal/deck"
	"github.com/stakmachine/holdem/internal/rules"
)

// scriptedEngine serves a fixed sequence of decisions in turn order.
type scriptedEngine struct {
	decisions []Decision
	next      int
}

func (s *scriptedEngine) GetDecision(string, Snapshot) (*Decision, error) {
	if s.next >= len(s.decisions) {
		return nil, nil
	}
	d := s.decisions[s.next]
	s.next++
	return &d, nil
}

func (s *scriptedEngine) HasDecisionForPlayer(string) bool { return s.next < len(s.decisions) }
func (s *scriptedEngine) ResetForNewHand()                 { s.next = 0 }

// playOut steps the hand to completion, failing the test on any fatal
// error or if the hand does not finish within a step bound.
func playOut(t *testing.T, c *Core) []StepResult {
	t.Helper()
	var results []StepResult
	for i := 0; i < 200; i++ {
		res, err := c.Step()
		require.NoError(t, err)
		results = append(results, res)
		require.NotEqual(t, EventAwaitingDecision, res.Event, "engine ran out of scripted decisions")
		if c.IsHandComplete() {
			return results
		}
	}
	t.Fatal("hand did not complete within step bound")
	return nil
}

func countEvents(results []StepResult, event StepEvent) int {
	n := 0
	for _, res := range results {
		if res.Event == event {
			n++
		}
	}
	return n
}

func TestHandFoldOutAwardsUncontested(t *testing.T) {
	t.Parallel()

	engine := &scriptedEngine{decisions: []Decision{{Type: Fold}}}
	c := NewCore(rules.NewNoLimit(5, 10), WithDefaultEngine(engine))
	_, err := c.StartHand([]Seat{{ID: "alice", Stack: 1000}, {ID: "bob", Stack: 1000}}, 0)
	require.NoError(t, err)

	results := playOut(t, c)

	g := c.State()
	assert.Equal(t, EndHand, g.Phase)
	assert.Empty(t, g.Board, "fold-out reveals no cards")
	assert.Equal(t, 995, g.Players[0].Stack)
	assert.Equal(t, 1005, g.Players[1].Stack)

	last := results[len(results)-1]
	require.Equal(t, EventPotAwarded, last.Event)
	require.Len(t, last.Winners, 1)
	assert.Equal(t, "bob", last.Winners[0].ID)
	assert.Equal(t, 15, last.Winners[0].Amount)
	assert.Empty(t, last.Winners[0].HandRank, "uncontested wins are not evaluated")
}

func TestHandCheckdownToShowdown(t *testing.T) {
	t.Parallel()

	// Dealer is seat 0, so hole cards go to seat 1 first.
	d, err := deck.NewPreloaded(deck.MustParseAll("2c", "7d", "As", "Ah", "Kd", "8h", "3s", "Tc", "5h"))
	require.NoError(t, err)

	engine := &scriptedEngine{decisions: []Decision{
		{Type: Call},  // alice completes the small blind
		{Type: Check}, // bob takes his option
		{Type: Check}, {Type: Check}, // flop
		{Type: Check}, {Type: Check}, // turn
		{Type: Check}, {Type: Check}, // river
	}}
	c := NewCore(rules.NewNoLimit(5, 10), WithDefaultEngine(engine))
	_, err = c.StartHand([]Seat{{ID: "alice", Stack: 1000}, {ID: "bob", Stack: 1000}}, 0, WithDeck(d))
	require.NoError(t, err)

	results := playOut(t, c)

	g := c.State()
	assert.Len(t, g.Board, 5)
	assert.Equal(t, 1010, g.Players[0].Stack, "aces win the checked-down pot")
	assert.Equal(t, 990, g.Players[1].Stack)

	last := results[len(results)-1]
	require.Len(t, last.Winners, 1)
	assert.Equal(t, "alice", last.Winners[0].ID)
	assert.Equal(t, "Pair", last.Winners[0].HandRank)
}

func TestHandBigBlindOptionReopensPreflop(t *testing.T) {
	t.Parallel()

	engine := &scriptedEngine{decisions: []Decision{
		{Type: Call},              // alice limps
		{Type: Raise, Amount: 30}, // bob raises his option
		{Type: Call},              // alice calls
		{Type: Bet, Amount: 50},   // bob leads the flop
		{Type: Fold},              // alice gives up
	}}
	c := NewCore(rules.NewNoLimit(5, 10), WithDefaultEngine(engine))
	_, err := c.StartHand([]Seat{{ID: "alice", Stack: 1000}, {ID: "bob", Stack: 1000}}, 0)
	require.NoError(t, err)

	playOut(t, c)

	g := c.State()
	assert.Equal(t, 970, g.Players[0].Stack)
	assert.Equal(t, 1030, g.Players[1].Stack)
}

func TestHandAllInRunout(t *testing.T) {
	t.Parallel()

	d, err := deck.NewPreloaded(deck.MustParseAll("2c", "7d", "As", "Ah", "Kd", "8h", "3s", "Tc", "5h"))
	require.NoError(t, err)

	engine := &scriptedEngine{decisions: []Decision{
		{Type: AllIn},
		{Type: Call},
	}}
	c := NewCore(rules.NewNoLimit(5, 10), WithDefaultEngine(engine))
	_, err = c.StartHand([]Seat{{ID: "alice", Stack: 300}, {ID: "bob", Stack: 300}}, 0, WithDeck(d))
	require.NoError(t, err)

	results := playOut(t, c)

	// Remaining streets run out without any further decisions.
	assert.Equal(t, 3, countEvents(results, EventBoardDealt))
	assert.Equal(t, 2, countEvents(results, EventActionApplied))

	g := c.State()
	assert.Equal(t, 600, g.Players[0].Stack)
	assert.Equal(t, 0, g.Players[1].Stack)
}

func TestHandSidePotLayering(t *testing.T) {
	t.Parallel()

	// Three-way all-in preflop at 100/200/300. The short stack holds the
	// best hand and wins only the main pot; the middle stack wins the
	// first side pot; the big stack's uncalled 100 comes back.
	d, err := deck.NewPreloaded(deck.MustParseAll(
		"Ks", "Kh", // carol (small blind, first to receive)
		"2c", "7d", // dave (big blind)
		"As", "Ah", // alice (dealer, short stack)
		"3d", "8h", "Jc", "Qs", "5s",
	))
	require.NoError(t, err)

	engine := &scriptedEngine{decisions: []Decision{
		{Type: AllIn}, // alice, first to act preflop
		{Type: AllIn}, // carol
		{Type: AllIn}, // dave
	}}
	c := NewCore(rules.NewNoLimit(5, 10), WithDefaultEngine(engine))
	_, err = c.StartHand([]Seat{
		{ID: "alice", Stack: 100},
		{ID: "carol", Stack: 200},
		{ID: "dave", Stack: 300},
	}, 0, WithDeck(d))
	require.NoError(t, err)

	playOut(t, c)

	g := c.State()
	require.NotNil(t, g.FinalPot)
	require.Len(t, g.FinalPot.Layers, 3)
	assert.Equal(t, 300, g.FinalPot.Main())

	assert.Equal(t, 300, g.Players[0].Stack, "aces take the main pot")
	assert.Equal(t, 200, g.Players[1].Stack, "kings take the side pot")
	assert.Equal(t, 100, g.Players[2].Stack, "uncalled chips return")
}

func TestHandOddChipGoesLeftOfDealer(t *testing.T) {
	t.Parallel()

	// Board plays for both showdown players, splitting a 25-chip pot.
	// The odd chip goes to the winner closest to the dealer's left.
	d, err := deck.NewPreloaded(deck.MustParseAll(
		"2h", "3h", // carol (folds)
		"2c", "3c", // dave
		"2d", "3d", // alice (dealer)
		"As", "Kh", "Qd", "Jc", "Ts",
	))
	require.NoError(t, err)

	engine := &scriptedEngine{decisions: []Decision{
		{Type: Call},  // alice
		{Type: Fold},  // carol
		{Type: Check}, // dave
		{Type: Check}, {Type: Check}, // flop: dave, alice
		{Type: Check}, {Type: Check}, // turn
		{Type: Check}, {Type: Check}, // river
	}}
	c := NewCore(rules.NewNoLimit(5, 10), WithDefaultEngine(engine))
	_, err = c.StartHand([]Seat{
		{ID: "alice", Stack: 100},
		{ID: "carol", Stack: 100},
		{ID: "dave", Stack: 100},
	}, 0, WithDeck(d))
	require.NoError(t, err)

	results := playOut(t, c)

	last := results[len(results)-1]
	require.Len(t, last.Winners, 2)

	g := c.State()
	assert.Equal(t, 102, g.Players[0].Stack)
	assert.Equal(t, 95, g.Players[1].Stack)
	assert.Equal(t, 103, g.Players[2].Stack, "odd chip lands left of the dealer")
}

func TestHandShortAllInDoesNotReopenBetting(t *testing.T) {
	t.Parallel()

	d, err := deck.NewPreloaded(deck.MustParseAll(
		"Ks", "Kh", // carol
		"As", "Ah", // dave (short stack)
		"2c", "7d", // alice (dealer)
		"3d", "8h", "Jc", "Qs", "5s",
	))
	require.NoError(t, err)

	engine := &scriptedEngine{decisions: []Decision{
		{Type: Call}, {Type: Call}, {Type: Check}, // preflop: alice, carol, dave
		{Type: Bet, Amount: 100},   // carol leads the flop
		{Type: AllIn},              // dave shoves 130, short of a full raise
		{Type: Call},               // alice calls 130
		{Type: Raise, Amount: 300}, // carol tries to reraise: rejected
		{Type: Call},               // carol may only call the 30
		{Type: Check}, {Type: Check}, // turn: carol, alice
		{Type: Check}, {Type: Check}, // river
	}}
	c := NewCore(rules.NewNoLimit(5, 10), WithDefaultEngine(engine))
	_, err = c.StartHand([]Seat{
		{ID: "alice", Stack: 1000},
		{ID: "carol", Stack: 1000},
		{ID: "dave", Stack: 140},
	}, 0, WithDeck(d))
	require.NoError(t, err)

	results := playOut(t, c)

	var rejected *Rejection
	for _, res := range results {
		if res.Event == EventActionRejected {
			rejected = res.Rejection
		}
	}
	require.NotNil(t, rejected)
	assert.Equal(t, ReasonRaiseNotReopened, rejected.Reason)

	g := c.State()
	assert.Equal(t, 420, g.FinalPot.Total())
	assert.Equal(t, 420, g.Players[2].Stack, "short stack's aces hold up")
	assert.Equal(t, 860, g.Players[0].Stack)
	assert.Equal(t, 860, g.Players[1].Stack)
}

func TestHandEngineStuckAfterTwoInvalidActions(t *testing.T) {
	t.Parallel()

	engine := &scriptedEngine{decisions: []Decision{
		{Type: Check}, // illegal: small blind faces the big blind
		{Type: Check}, // illegal again: fatal
	}}
	c := NewCore(rules.NewNoLimit(5, 10), WithDefaultEngine(engine))
	_, err := c.StartHand([]Seat{{ID: "alice", Stack: 1000}, {ID: "bob", Stack: 1000}}, 0)
	require.NoError(t, err)

	var stepErr error
	for i := 0; i < 10 && stepErr == nil && !c.IsHandComplete(); i++ {
		_, stepErr = c.Step()
	}

	require.Error(t, stepErr)
	var failure *HandFailure
	require.ErrorAs(t, stepErr, &failure)
	assert.Equal(t, FailureEngineStuck, failure.Kind)
	assert.Equal(t, PreflopBetting, failure.Phase)
	assert.True(t, c.IsHandComplete())

	// A dead hand stays dead.
	_, err = c.Step()
	assert.Error(t, err)
}

func TestHandWaitsForHumanDecision(t *testing.T) {
	t.Parallel()

	human := NewHumanEngine()
	c := NewCore(rules.NewNoLimit(5, 10), WithDefaultEngine(human))
	_, err := c.StartHand([]Seat{{ID: "alice", Stack: 1000}, {ID: "bob", Stack: 1000}}, 0)
	require.NoError(t, err)

	// Blinds, then hole cards.
	for i := 0; i < 2; i++ {
		_, err := c.Step()
		require.NoError(t, err)
	}

	res, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, EventAwaitingDecision, res.Event)
	assert.Equal(t, "alice", res.Snapshot.ActionID, "turn does not advance without input")

	human.Submit("alice", Decision{Type: Call})
	assert.True(t, human.HasDecisionForPlayer("alice"))

	res, err = c.Step()
	require.NoError(t, err)
	require.Equal(t, EventActionApplied, res.Event)
	assert.Equal(t, Call, res.Action.Type)
	assert.False(t, human.HasDecisionForPlayer("alice"))
}

func TestHandDeterministicReruns(t *testing.T) {
	t.Parallel()

	run := func() ([]Action, []int) {
		d, err := deck.NewPreloaded(deck.MustParseAll("2c", "7d", "As", "Ah", "Kd", "8h", "3s", "Tc", "5h"))
		require.NoError(t, err)
		engine := &scriptedEngine{decisions: []Decision{
			{Type: Raise, Amount: 30}, {Type: Call},
			{Type: Check}, {Type: Bet, Amount: 40}, {Type: Call},
			{Type: Check}, {Type: Check},
			{Type: Check}, {Type: Check},
		}}
		c := NewCore(rules.NewNoLimit(5, 10), WithDefaultEngine(engine), WithEngine("bob", engine))
		_, err = c.StartHand([]Seat{{ID: "alice", Stack: 1000}, {ID: "bob", Stack: 1000}}, 0,
			WithDeck(d), WithHandID("fixed"))
		require.NoError(t, err)
		playOut(t, c)

		g := c.State()
		stacks := make([]int, len(g.Players))
		for i, p := range g.Players {
			stacks[i] = p.Stack
		}
		return g.Actions, stacks
	}

	actions1, stacks1 := run()
	actions2, stacks2 := run()
	assert.Equal(t, actions1, actions2)
	assert.Equal(t, stacks1, stacks2)
}

func TestStartHandRejectsBadSetups(t *testing.T) {
	t.Parallel()

	c := NewCore(rules.NewNoLimit(5, 10))

	_, err := c.StartHand([]Seat{{ID: "alone", Stack: 100}}, 0)
	assert.Error(t, err)

	_, err = c.StartHand([]Seat{{ID: "a", Stack: 100}, {ID: "b", Stack: 0}}, 0)
	assert.Error(t, err)

	_, err = c.StartHand([]Seat{{ID: "a", Stack: 100}, {ID: "b", Stack: 100}}, 5)
	assert.Error(t, err)
}

func TestHandDeckUnderflowIsFatal(t *testing.T) {
	t.Parallel()

	short, err := deck.NewPreloaded(deck.MustParseAll("2c", "7d", "As"))
	require.NoError(t, err)

	c := NewCore(rules.NewNoLimit(5, 10))
	_, err = c.StartHand([]Seat{{ID: "alice", Stack: 100}, {ID: "bob", Stack: 100}}, 0, WithDeck(short))
	require.NoError(t, err)

	_, err = c.Step() // blinds
	require.NoError(t, err)
	_, err = c.Step() // hole cards: underflow
	require.Error(t, err)

	var failure *HandFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, FailureDeckUnderflow, failure.Kind)
	assert.True(t, errors.Is(err, deck.ErrUnderflow))
}

func TestNextDealerSkipsBustedSeats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stacks []int
		dealer int
		want   int
	}{
		{name: "simple rotation", stacks: []int{100, 100, 100}, dealer: 0, want: 1},
		{name: "wraps around", stacks: []int{100, 100, 100}, dealer: 2, want: 0},
		{name: "skips busted", stacks: []int{100, 0, 100}, dealer: 0, want: 2},
		{name: "skips multiple busted", stacks: []int{100, 0, 0, 100}, dealer: 3, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NextDealer(tt.stacks, tt.dealer))
		})
	}
}
