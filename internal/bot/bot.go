// Package bot provides strategy-driven decision engines. A Strategy is a
// pure policy over state snapshots; Engine adapts one to the decision
// engine protocol so the core can drive bot players the same way it
// drives human and replay players.
package bot

import (
	"fmt"

	"github.com/stakmachine/holdem/internal/game"
)

// Strategy computes one decision from the acting player's view. It must
// be synchronous and must not block on I/O.
type Strategy interface {
	Name() string
	Act(playerID string, snap game.Snapshot) game.Decision
}

// Engine adapts a Strategy to the core's decision engine protocol. It
// always has a decision available.
type Engine struct {
	strategy Strategy
}

// NewEngine wraps a strategy.
func NewEngine(s Strategy) *Engine {
	return &Engine{strategy: s}
}

func (e *Engine) GetDecision(playerID string, snap game.Snapshot) (*game.Decision, error) {
	d := e.strategy.Act(playerID, snap)
	return &d, nil
}

func (e *Engine) HasDecisionForPlayer(string) bool { return true }

func (e *Engine) ResetForNewHand() {}

// New builds a named strategy. Recognized names are "caller", "folder",
// "raiser", and "random"; the seed only matters for random.
func New(name string, seed int64) (Strategy, error) {
	switch name {
	case "caller":
		return Caller{}, nil
	case "folder":
		return Folder{}, nil
	case "raiser":
		return Raiser{}, nil
	case "random":
		return NewRandom(seed), nil
	default:
		return nil, fmt.Errorf("unknown bot strategy %q", name)
	}
}

// pick returns the legal action of the given type, if offered.
func pick(snap game.Snapshot, t game.ActionType) (game.ValidAction, bool) {
	for _, a := range snap.LegalActions {
		if a.Type == t {
			return a, true
		}
	}
	return game.ValidAction{}, false
}
