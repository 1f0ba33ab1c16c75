package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakmachine/holdem/internal/rules"
)

// betState builds a flop betting state for validator tests. Stacks and
// street bets are set directly; acted marks seats that already matched the
// current bet this round.
func betState(t *testing.T, currentBet, lastRaise, actionIndex int, players []*Player, acted ...int) *GameState {
	t.Helper()
	g := &GameState{
		Players:         players,
		Phase:           FlopBetting,
		Street:          Flop,
		CurrentBet:      currentBet,
		LastRaise:       lastRaise,
		ActionIndex:     actionIndex,
		actedSinceRaise: make([]bool, len(players)),
	}
	for _, seat := range acted {
		g.actedSinceRaise[seat] = true
	}
	return g
}

func livePlayer(seat int, id string, stack, streetBet int) *Player {
	return &Player{Seat: seat, ID: id, Stack: stack, StreetBet: streetBet, TotalInvested: streetBet}
}

func TestValidateTurnOrder(t *testing.T) {
	t.Parallel()

	v := NewValidator(rules.NewNoLimit(5, 10))
	g := betState(t, 0, 0, 0, []*Player{
		livePlayer(0, "alice", 500, 0),
		livePlayer(1, "bob", 500, 0),
	})

	_, rej := v.Validate(g, "bob", Decision{Type: Check})
	require.NotNil(t, rej)
	assert.Equal(t, ReasonNotYourTurn, rej.Reason)

	_, rej = v.Validate(g, "alice", Decision{Type: Check})
	assert.Nil(t, rej)
}

func TestValidateCheckAndCall(t *testing.T) {
	t.Parallel()

	v := NewValidator(rules.NewNoLimit(5, 10))

	t.Run("check facing bet rejected", func(t *testing.T) {
		g := betState(t, 50, 50, 1, []*Player{
			livePlayer(0, "alice", 450, 50),
			livePlayer(1, "bob", 500, 0),
		}, 0)
		_, rej := v.Validate(g, "bob", Decision{Type: Check})
		require.NotNil(t, rej)
		assert.Equal(t, ReasonCheckFacingBet, rej.Reason)
	})

	t.Run("call with nothing owed rejected", func(t *testing.T) {
		g := betState(t, 0, 0, 0, []*Player{
			livePlayer(0, "alice", 500, 0),
			livePlayer(1, "bob", 500, 0),
		})
		_, rej := v.Validate(g, "alice", Decision{Type: Call})
		require.NotNil(t, rej)
		assert.Equal(t, ReasonNothingToCall, rej.Reason)
	})

	t.Run("call facing bet accepted", func(t *testing.T) {
		g := betState(t, 50, 50, 1, []*Player{
			livePlayer(0, "alice", 450, 50),
			livePlayer(1, "bob", 500, 0),
		}, 0)
		action, rej := v.Validate(g, "bob", Decision{Type: Call})
		require.Nil(t, rej)
		assert.Equal(t, Call, action.Type)
	})
}

func TestValidateBet(t *testing.T) {
	t.Parallel()

	v := NewValidator(rules.NewNoLimit(5, 10))

	tests := []struct {
		name       string
		currentBet int
		decision   Decision
		wantType   ActionType
		wantAmount int
		wantReason RejectReason
		rejected   bool
	}{
		{name: "opening bet", decision: Decision{Type: Bet, Amount: 30}, wantType: Bet, wantAmount: 30},
		{name: "bet below minimum", decision: Decision{Type: Bet, Amount: 5}, wantReason: ReasonBetTooSmall, rejected: true},
		{name: "bet facing bet", currentBet: 30, decision: Decision{Type: Bet, Amount: 60}, wantReason: ReasonBetFacingBet, rejected: true},
		{name: "whole stack normalizes to all-in", decision: Decision{Type: Bet, Amount: 500}, wantType: AllIn, wantAmount: 500},
		{name: "oversized bet clamps to all-in", decision: Decision{Type: Bet, Amount: 9999}, wantType: AllIn, wantAmount: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			players := []*Player{
				livePlayer(0, "alice", 500, 0),
				livePlayer(1, "bob", 500, tt.currentBet),
			}
			g := betState(t, tt.currentBet, tt.currentBet, 0, players)
			action, rej := v.Validate(g, "alice", tt.decision)
			if tt.rejected {
				require.NotNil(t, rej)
				assert.Equal(t, tt.wantReason, rej.Reason)
				return
			}
			require.Nil(t, rej)
			assert.Equal(t, tt.wantType, action.Type)
			assert.Equal(t, tt.wantAmount, action.Amount)
		})
	}
}

func TestValidateRaise(t *testing.T) {
	t.Parallel()

	v := NewValidator(rules.NewNoLimit(5, 10))

	t.Run("raise without bet rejected", func(t *testing.T) {
		g := betState(t, 0, 0, 0, []*Player{
			livePlayer(0, "alice", 500, 0),
			livePlayer(1, "bob", 500, 0),
		})
		_, rej := v.Validate(g, "alice", Decision{Type: Raise, Amount: 30})
		require.NotNil(t, rej)
		assert.Equal(t, ReasonRaiseWithoutBet, rej.Reason)
	})

	t.Run("minimum raise tracks last raise size", func(t *testing.T) {
		// Bet 50 raised to 150: the next raise must be at least to 250.
		g := betState(t, 150, 100, 0, []*Player{
			livePlayer(0, "alice", 450, 50),
			livePlayer(1, "bob", 350, 150),
		}, 1)

		_, rej := v.Validate(g, "alice", Decision{Type: Raise, Amount: 240})
		require.NotNil(t, rej)
		assert.Equal(t, ReasonRaiseTooSmall, rej.Reason)

		action, rej := v.Validate(g, "alice", Decision{Type: Raise, Amount: 250})
		require.Nil(t, rej)
		assert.Equal(t, Raise, action.Type)
		assert.Equal(t, 250, action.Amount)
	})

	t.Run("raise of whole stack normalizes to all-in", func(t *testing.T) {
		g := betState(t, 50, 50, 0, []*Player{
			livePlayer(0, "alice", 200, 0),
			livePlayer(1, "bob", 450, 50),
		}, 1)
		action, rej := v.Validate(g, "alice", Decision{Type: Raise, Amount: 200})
		require.Nil(t, rej)
		assert.Equal(t, AllIn, action.Type)
		assert.Equal(t, 200, action.Amount)
	})
}

func TestValidateShortAllInDoesNotReopen(t *testing.T) {
	t.Parallel()

	v := NewValidator(rules.NewNoLimit(5, 10))

	// Alice bet 100, bob shoved for 130 (short of the 200 minimum). Alice
	// already acted this round, so she may call or fold but not raise.
	alice := livePlayer(0, "alice", 400, 100)
	bob := livePlayer(1, "bob", 0, 130)
	bob.AllIn = true
	g := betState(t, 130, 100, 0, []*Player{alice, bob}, 0)

	_, rej := v.Validate(g, "alice", Decision{Type: Raise, Amount: 300})
	require.NotNil(t, rej)
	assert.Equal(t, ReasonRaiseNotReopened, rej.Reason)

	_, rej = v.Validate(g, "alice", Decision{Type: AllIn})
	require.NotNil(t, rej)
	assert.Equal(t, ReasonRaiseNotReopened, rej.Reason)

	action, rej := v.Validate(g, "alice", Decision{Type: Call})
	require.Nil(t, rej)
	assert.Equal(t, Call, action.Type)
}

func TestValidateDeltaAmountsNormalized(t *testing.T) {
	t.Parallel()

	v := NewValidator(rules.NewNoLimit(5, 10))

	// Alice has 50 in and raises "by 150" in incremental terms; the
	// canonical action carries her new street total of 200.
	g := betState(t, 100, 100, 0, []*Player{
		livePlayer(0, "alice", 450, 50),
		livePlayer(1, "bob", 400, 100),
	}, 1)

	action, rej := v.Validate(g, "alice", Decision{Type: Raise, Amount: 150, AmountIsDelta: true})
	require.Nil(t, rej)
	assert.Equal(t, Raise, action.Type)
	assert.Equal(t, 200, action.Amount)
}

func TestLegalActionsAlwaysIncludeAnOut(t *testing.T) {
	t.Parallel()

	v := NewValidator(rules.NewNoLimit(5, 10))

	t.Run("unopened street offers check and bet", func(t *testing.T) {
		g := betState(t, 0, 0, 0, []*Player{
			livePlayer(0, "alice", 500, 0),
			livePlayer(1, "bob", 500, 0),
		})
		actions := v.LegalActions(g)
		types := actionTypes(actions)
		assert.Contains(t, types, Fold)
		assert.Contains(t, types, Check)
		assert.Contains(t, types, Bet)
	})

	t.Run("facing bet offers call and raise with bounds", func(t *testing.T) {
		g := betState(t, 50, 50, 1, []*Player{
			livePlayer(0, "alice", 450, 50),
			livePlayer(1, "bob", 500, 0),
		}, 0)
		actions := v.LegalActions(g)
		types := actionTypes(actions)
		assert.Contains(t, types, Fold)
		assert.Contains(t, types, Call)
		for _, a := range actions {
			if a.Type == Raise {
				assert.Equal(t, 100, a.Min)
				assert.Equal(t, 500, a.Max)
			}
		}
	})

	t.Run("short stack facing big bet can only fold or shove", func(t *testing.T) {
		g := betState(t, 400, 400, 1, []*Player{
			livePlayer(0, "alice", 100, 400),
			livePlayer(1, "bob", 120, 0),
		}, 0)
		actions := v.LegalActions(g)
		types := actionTypes(actions)
		assert.ElementsMatch(t, []ActionType{Fold, AllIn}, types)
	})
}

func actionTypes(actions []ValidAction) []ActionType {
	types := make([]ActionType, len(actions))
	for i, a := range actions {
		types[i] = a.Type
	}
	return types
}
