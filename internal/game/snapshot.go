package game

import "github.com/stakmachine/holdem/internal/deck"

// PlayerSnapshot is the read-only projection of one seat.
type PlayerSnapshot struct {
	Seat          int
	ID            string
	Stack         int
	StreetBet     int
	TotalInvested int
	Folded        bool
	AllIn         bool
	HoleCards     []deck.Card // only populated for the acting player
}

// ValidAction describes one legal action for the acting player. Min and
// Max are street totals for Bet/Raise and zero otherwise.
type ValidAction struct {
	Type ActionType
	Min  int
	Max  int
}

// Snapshot is a read-only projection of GameState emitted after every
// step. External consumers (renderers, bots, replay bookkeeping) must
// treat it as opaque data; it carries no UI concerns.
type Snapshot struct {
	HandID       string
	Phase        Phase
	Street       Street
	Board        []deck.Card
	Pot          int
	CurrentBet   int
	SmallBlind   int
	BigBlind     int
	Dealer       int
	ActionIndex  int    // -1 when no player is on turn
	ActionID     string // ID of the acting player, "" when none
	Players      []PlayerSnapshot
	LegalActions []ValidAction // for the acting player
	HandComplete bool
}

// snapshot builds the projection. Hole cards are disclosed only for the
// acting seat so decision engines see exactly what that player would.
func (c *Core) snapshot() Snapshot {
	g := c.state
	small, big := c.rules.Blinds()

	snap := Snapshot{
		HandID:       g.HandID,
		Phase:        g.Phase,
		Street:       g.Street,
		Board:        append([]deck.Card(nil), g.Board...),
		Pot:          g.PotSize(),
		CurrentBet:   g.CurrentBet,
		SmallBlind:   small,
		BigBlind:     big,
		Dealer:       g.Dealer,
		ActionIndex:  g.ActionIndex,
		HandComplete: g.Phase == EndHand,
	}

	for _, p := range g.Players {
		ps := PlayerSnapshot{
			Seat:          p.Seat,
			ID:            p.ID,
			Stack:         p.Stack,
			StreetBet:     p.StreetBet,
			TotalInvested: p.TotalInvested,
			Folded:        p.Folded,
			AllIn:         p.AllIn,
		}
		if g.Phase.IsBetting() && p.Seat == g.ActionIndex {
			ps.HoleCards = append([]deck.Card(nil), p.HoleCards...)
		}
		snap.Players = append(snap.Players, ps)
	}

	if acting := g.ActingPlayer(); acting != nil && g.Phase.IsBetting() {
		snap.ActionID = acting.ID
		snap.LegalActions = c.validator.LegalActions(g)
	}

	return snap
}
