package game

import (
	"fmt"

	"github.com/stakmachine/holdem/internal/deck"
)

// GameState is the single mutable root for one hand. It is created by
// Core.StartHand, mutated only by the Core, and discarded at hand end.
type GameState struct {
	HandID  string
	Players []*Player
	Dealer  int
	Phase   Phase
	Street  Street
	Board   []deck.Card
	Deck    *deck.Deck

	// CurrentBet is the street's table-high total commitment; LastRaise is
	// the size of the last full raise this street (zero before any raise).
	CurrentBet  int
	LastRaise   int
	ActionIndex int // seat due to act, -1 when no player is on turn

	// Committed holds chips collected from completed streets. In-flight
	// street bets stay on the players until the street closes.
	Committed int

	// Actions is the canonical historical record of the hand.
	Actions []Action

	// FinalPot is built once, at award time, and never mutated.
	FinalPot *Pot

	startingTotal   int
	actedSinceRaise []bool // per seat: acted since the last full bet/raise
}

// PlayerByID returns the player with the given ID, or nil.
func (g *GameState) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ActingPlayer returns the player currently on turn, or nil.
func (g *GameState) ActingPlayer() *Player {
	if g.ActionIndex < 0 || g.ActionIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.ActionIndex]
}

// PotSize returns committed chips plus in-flight street bets.
func (g *GameState) PotSize() int {
	total := g.Committed
	for _, p := range g.Players {
		total += p.StreetBet
	}
	return total
}

// nextActable returns the first seat at or after from (wrapping) that can
// still act, or -1. Folded, all-in, and busted seats are never returned.
func (g *GameState) nextActable(from int) int {
	n := len(g.Players)
	for i := 0; i < n; i++ {
		seat := ((from + i) % n + n) % n
		if g.Players[seat].CanAct() {
			return seat
		}
	}
	return -1
}

func (g *GameState) nonFoldedCount() int {
	count := 0
	for _, p := range g.Players {
		if !p.Folded {
			count++
		}
	}
	return count
}

func (g *GameState) actableCount() int {
	count := 0
	for _, p := range g.Players {
		if p.CanAct() {
			count++
		}
	}
	return count
}

// foldedOut reports whether all but one player has folded.
func (g *GameState) foldedOut() bool {
	return g.nonFoldedCount() <= 1
}

// bettingComplete is the single authoritative round-completion predicate:
// every non-folded, non-all-in player has acted since the last full
// bet/raise and has matched the street's current bet. The big blind's
// preflop option falls out naturally because posting a blind does not
// count as acting.
func (g *GameState) bettingComplete() bool {
	if g.foldedOut() {
		return true
	}
	// With at most one player still able to act, the round ends as soon as
	// that player has matched the current bet. All-in runouts stop asking
	// a lone player for phantom checks.
	if g.actableCount() <= 1 {
		for _, p := range g.Players {
			if p.CanAct() && p.StreetBet != g.CurrentBet {
				return false
			}
		}
		return true
	}
	for _, p := range g.Players {
		if !p.CanAct() {
			continue
		}
		if p.StreetBet != g.CurrentBet {
			return false
		}
		if !g.actedSinceRaise[p.Seat] {
			return false
		}
	}
	return true
}

// markActed records that the seat has acted since the last full raise.
func (g *GameState) markActed(seat int) {
	g.actedSinceRaise[seat] = true
}

// reopenBetting clears acted flags after a full bet or raise so every
// other player gets to act again. Short all-in raises do not call this.
func (g *GameState) reopenBetting(raiserSeat int) {
	for i := range g.actedSinceRaise {
		g.actedSinceRaise[i] = false
	}
	g.actedSinceRaise[raiserSeat] = true
}

// resetForStreet clears per-street betting state.
func (g *GameState) resetForStreet() {
	g.CurrentBet = 0
	g.LastRaise = 0
	for i := range g.actedSinceRaise {
		g.actedSinceRaise[i] = false
	}
}

// collectStreetBets moves in-flight bets into the committed pot.
func (g *GameState) collectStreetBets() {
	for _, p := range g.Players {
		g.Committed += p.StreetBet
		p.StreetBet = 0
	}
}

// AuditChips verifies chip conservation: stacks plus committed pot plus
// in-flight bets must equal the hand's starting total, exactly.
func (g *GameState) AuditChips() error {
	total := g.Committed
	for _, p := range g.Players {
		total += p.Stack + p.StreetBet
	}
	if total != g.startingTotal {
		return fmt.Errorf("chip conservation violated: have %d, want %d", total, g.startingTotal)
	}
	return nil
}

// record appends an action to the hand's canonical record.
func (g *GameState) record(actor string, typ ActionType, amount int) {
	g.Actions = append(g.Actions, Action{
		Actor:  actor,
		Type:   typ,
		Amount: amount,
		Street: g.Street,
	})
}
