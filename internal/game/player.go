package game

import "github.com/stakmachine/holdem/internal/deck"

// Player represents one seat in a hand.
type Player struct {
	Seat          int
	ID            string
	Stack         int // chips not yet wagered this hand
	StreetBet     int // chips wagered on the active street
	TotalInvested int // chips wagered across the whole hand, for pot eligibility
	Folded        bool
	AllIn         bool
	HoleCards     []deck.Card
}

// CanAct reports whether the player can still take actions this hand.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// commit moves chips from the stack to the player's street bet, flagging
// all-in when the stack empties. It never moves more than the stack holds.
func (p *Player) commit(chips int) int {
	if chips > p.Stack {
		chips = p.Stack
	}
	p.Stack -= chips
	p.StreetBet += chips
	p.TotalInvested += chips
	if p.Stack == 0 {
		p.AllIn = true
	}
	return chips
}

// Seat describes a participant when starting a hand.
type Seat struct {
	ID    string
	Stack int
}
