package bot

import (
	"math/rand/v2"

	"github.com/stakmachine/holdem/internal/game"
	"github.com/stakmachine/holdem/internal/randutil"
)

// Caller checks when it can and calls when it must, shoving only when a
// call would cost its whole stack. It never folds, which makes it a good
// baseline opponent: every pot gets contested.
type Caller struct{}

func (Caller) Name() string { return "caller" }

func (Caller) Act(_ string, snap game.Snapshot) game.Decision {
	if _, ok := pick(snap, game.Check); ok {
		return game.Decision{Type: game.Check}
	}
	if _, ok := pick(snap, game.Call); ok {
		return game.Decision{Type: game.Call}
	}
	return game.Decision{Type: game.AllIn}
}

// Folder checks when it is free and folds to any bet.
type Folder struct{}

func (Folder) Name() string { return "folder" }

func (Folder) Act(_ string, snap game.Snapshot) game.Decision {
	if _, ok := pick(snap, game.Check); ok {
		return game.Decision{Type: game.Check}
	}
	return game.Decision{Type: game.Fold}
}

// Raiser applies maximum pressure: minimum bet or raise whenever the
// rules allow one, otherwise call, otherwise shove.
type Raiser struct{}

func (Raiser) Name() string { return "raiser" }

func (Raiser) Act(_ string, snap game.Snapshot) game.Decision {
	if a, ok := pick(snap, game.Bet); ok {
		return game.Decision{Type: game.Bet, Amount: a.Min}
	}
	if a, ok := pick(snap, game.Raise); ok {
		return game.Decision{Type: game.Raise, Amount: a.Min}
	}
	if _, ok := pick(snap, game.Call); ok {
		return game.Decision{Type: game.Call}
	}
	if _, ok := pick(snap, game.Check); ok {
		return game.Decision{Type: game.Check}
	}
	return game.Decision{Type: game.AllIn}
}

// Random picks uniformly among the legal actions, with a size drawn from
// the legal range for bets and raises. Seeded, so runs reproduce.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random strategy from a seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: randutil.New(seed)}
}

func (*Random) Name() string { return "random" }

func (r *Random) Act(_ string, snap game.Snapshot) game.Decision {
	if len(snap.LegalActions) == 0 {
		return game.Decision{Type: game.Fold}
	}
	choice := snap.LegalActions[r.rng.IntN(len(snap.LegalActions))]

	d := game.Decision{Type: choice.Type}
	switch choice.Type {
	case game.Bet, game.Raise:
		d.Amount = choice.Min
		if spread := choice.Max - choice.Min; spread > 0 {
			d.Amount += r.rng.IntN(spread + 1)
		}
	}
	return d
}
