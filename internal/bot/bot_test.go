package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakmachine/holdem/internal/game"
)

func openSnapshot() game.Snapshot {
	return game.Snapshot{
		CurrentBet: 0,
		LegalActions: []game.ValidAction{
			{Type: game.Fold},
			{Type: game.Check},
			{Type: game.Bet, Min: 10, Max: 500},
			{Type: game.AllIn, Min: 500, Max: 500},
		},
	}
}

func facingBetSnapshot() game.Snapshot {
	return game.Snapshot{
		CurrentBet: 50,
		LegalActions: []game.ValidAction{
			{Type: game.Fold},
			{Type: game.Call},
			{Type: game.Raise, Min: 100, Max: 500},
			{Type: game.AllIn, Min: 500, Max: 500},
		},
	}
}

func shoveOrFoldSnapshot() game.Snapshot {
	return game.Snapshot{
		CurrentBet: 400,
		LegalActions: []game.ValidAction{
			{Type: game.Fold},
			{Type: game.AllIn, Min: 120, Max: 120},
		},
	}
}

func TestStrategyDecisions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		strategy Strategy
		snap     game.Snapshot
		want     game.ActionType
	}{
		{name: "caller checks for free", strategy: Caller{}, snap: openSnapshot(), want: game.Check},
		{name: "caller calls a bet", strategy: Caller{}, snap: facingBetSnapshot(), want: game.Call},
		{name: "caller shoves when covered", strategy: Caller{}, snap: shoveOrFoldSnapshot(), want: game.AllIn},
		{name: "folder checks for free", strategy: Folder{}, snap: openSnapshot(), want: game.Check},
		{name: "folder folds to a bet", strategy: Folder{}, snap: facingBetSnapshot(), want: game.Fold},
		{name: "raiser opens with a bet", strategy: Raiser{}, snap: openSnapshot(), want: game.Bet},
		{name: "raiser reraises", strategy: Raiser{}, snap: facingBetSnapshot(), want: game.Raise},
		{name: "raiser shoves when it cannot raise", strategy: Raiser{}, snap: shoveOrFoldSnapshot(), want: game.AllIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := tt.strategy.Act("p1", tt.snap)
			assert.Equal(t, tt.want, d.Type)
		})
	}
}

func TestRaiserUsesMinimumSize(t *testing.T) {
	t.Parallel()

	d := Raiser{}.Act("p1", facingBetSnapshot())
	assert.Equal(t, game.Raise, d.Type)
	assert.Equal(t, 100, d.Amount)
}

func TestRandomStaysWithinLegalBounds(t *testing.T) {
	t.Parallel()

	r := NewRandom(42)
	snap := facingBetSnapshot()
	legal := map[game.ActionType]game.ValidAction{}
	for _, a := range snap.LegalActions {
		legal[a.Type] = a
	}

	for i := 0; i < 200; i++ {
		d := r.Act("p1", snap)
		a, ok := legal[d.Type]
		require.True(t, ok, "illegal action %v", d.Type)
		if d.Type == game.Raise {
			assert.GreaterOrEqual(t, d.Amount, a.Min)
			assert.LessOrEqual(t, d.Amount, a.Max)
		}
	}
}

func TestRandomIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()

	snap := openSnapshot()
	a, b := NewRandom(7), NewRandom(7)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Act("p1", snap), b.Act("p1", snap))
	}
}

func TestNewByName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"caller", "folder", "raiser", "random"} {
		s, err := New(name, 1)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}

	_, err := New("gto-wizard", 1)
	assert.Error(t, err)
}

func TestEngineProtocol(t *testing.T) {
	t.Parallel()

	e := NewEngine(Caller{})
	assert.True(t, e.HasDecisionForPlayer("p1"))

	d, err := e.GetDecision("p1", openSnapshot())
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, game.Check, d.Type)
}
