package replay

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/stakmachine/holdem/internal/game"
	"github.com/stakmachine/holdem/internal/rules"
)

// maxSteps bounds a single hand's replay. A full-ring hand with deep
// action stays well under this.
const maxSteps = 1000

// Result summarizes one replayed hand.
type Result struct {
	HandID         string
	FinalStacks    []int
	Pot            int
	Winners        []game.WinnerInfo
	RecordedServed int
	InferredChecks int
	Steps          int
}

// Replayer replays recorded histories through a fresh engine per hand.
type Replayer struct {
	logger *log.Logger
}

// ReplayerOption configures a Replayer.
type ReplayerOption func(*Replayer)

// WithLogger sets the replayer's logger.
func WithLogger(logger *log.Logger) ReplayerOption {
	return func(r *Replayer) { r.logger = logger }
}

// NewReplayer creates a replayer.
func NewReplayer(opts ...ReplayerOption) *Replayer {
	r := &Replayer{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Replay runs one history to completion and checks it against the
// recording. Each call builds a fresh game state, so replaying the same
// history repeatedly yields identical results.
func (r *Replayer) Replay(h *HandHistory) (*Result, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	d, err := h.Deck()
	if err != nil {
		return nil, err
	}

	adapter := NewAdapter(h)
	core := game.NewCore(
		rules.NewNoLimit(h.SmallBlind, h.BigBlind),
		game.WithDefaultEngine(adapter),
		game.WithLogger(r.logger),
	)

	handOpts := []game.HandOption{game.WithDeck(d)}
	if h.HandID != "" {
		handOpts = append(handOpts, game.WithHandID(h.HandID))
	}
	if _, err := core.StartHand(h.GameSeats(), h.Dealer, handOpts...); err != nil {
		return nil, err
	}

	result := &Result{}
	for !core.IsHandComplete() {
		if result.Steps >= maxSteps {
			return nil, fmt.Errorf("hand %s did not complete after %d steps", h.HandID, maxSteps)
		}
		res, err := core.Step()
		if err != nil {
			return nil, err
		}
		result.Steps++
		if res.Event == game.EventPotAwarded {
			result.Winners = res.Winners
		}
	}

	g := core.State()
	result.HandID = g.HandID
	if g.FinalPot != nil {
		result.Pot = g.FinalPot.Total()
	}
	for _, p := range g.Players {
		result.FinalStacks = append(result.FinalStacks, p.Stack)
	}

	cur := adapter.Cursor()
	result.RecordedServed = cur.Served(h)
	result.InferredChecks = cur.Inferred

	if len(h.FinalStacks) > 0 {
		for i, want := range h.FinalStacks {
			if got := result.FinalStacks[i]; got != want {
				return result, fmt.Errorf("hand %s: seat %s finished with %d chips, recording says %d",
					g.HandID, h.Seats[i].ID, got, want)
			}
		}
	}

	r.logger.Debug("hand replayed",
		"hand", result.HandID, "pot", result.Pot,
		"recorded", result.RecordedServed, "inferred", result.InferredChecks)
	return result, nil
}
