package game

import (
	"fmt"

	"github.com/stakmachine/holdem/internal/rules"
)

// Validator checks proposed actions against the current state and produces
// the canonical form the core applies. It is the one place in the engine
// where amount conventions are normalized: BET/RAISE amounts are the
// player's new street total, and incremental-style input (common in
// recorded hand histories) is converted here, exactly once.
type Validator struct {
	rules rules.Provider
}

// NewValidator creates a validator for the given rule set.
func NewValidator(r rules.Provider) *Validator {
	return &Validator{rules: r}
}

// Validate returns the canonical action for the proposal, or a rejection.
// A rejection never mutates state; the caller may retry with a different
// action.
func (v *Validator) Validate(g *GameState, playerID string, d Decision) (Action, *Rejection) {
	p := g.ActingPlayer()
	if p == nil || p.ID != playerID {
		return Action{}, &Rejection{Reason: ReasonNotYourTurn, Detail: playerID}
	}

	amount := d.Amount
	if d.AmountIsDelta {
		// Delta-to-total conversion happens here and nowhere else.
		amount = p.StreetBet + d.Amount
	}

	stackTotal := p.Stack + p.StreetBet
	toCall := g.CurrentBet - p.StreetBet

	switch d.Type {
	case Fold:
		return Action{Actor: p.ID, Type: Fold, Street: g.Street}, nil

	case Check:
		if g.CurrentBet != p.StreetBet {
			return Action{}, &Rejection{
				Reason: ReasonCheckFacingBet,
				Detail: fmt.Sprintf("must call %d", toCall),
			}
		}
		return Action{Actor: p.ID, Type: Check, Street: g.Street}, nil

	case Call:
		if toCall <= 0 {
			return Action{}, &Rejection{Reason: ReasonNothingToCall}
		}
		return Action{Actor: p.ID, Type: Call, Street: g.Street}, nil

	case Bet:
		if g.CurrentBet != 0 {
			return Action{}, &Rejection{
				Reason: ReasonBetFacingBet,
				Detail: fmt.Sprintf("current bet is %d, raise instead", g.CurrentBet),
			}
		}
		if amount >= stackTotal {
			// A wager of the whole stack is always an all-in.
			return Action{Actor: p.ID, Type: AllIn, Amount: stackTotal, Street: g.Street}, nil
		}
		if amount < v.rules.MinBet() {
			return Action{}, &Rejection{
				Reason: ReasonBetTooSmall,
				Detail: fmt.Sprintf("minimum bet is %d", v.rules.MinBet()),
			}
		}
		if !v.rules.IsValidVariantAction(amount, stackTotal) {
			return Action{}, &Rejection{Reason: ReasonVariantForbids}
		}
		return Action{Actor: p.ID, Type: Bet, Amount: amount, Street: g.Street}, nil

	case Raise:
		if g.CurrentBet == 0 {
			return Action{}, &Rejection{Reason: ReasonRaiseWithoutBet, Detail: "no bet to raise"}
		}
		if v.raiseNotReopened(g, p) {
			return Action{}, &Rejection{
				Reason: ReasonRaiseNotReopened,
				Detail: "short all-in did not reopen betting",
			}
		}
		if amount >= stackTotal {
			return Action{Actor: p.ID, Type: AllIn, Amount: stackTotal, Street: g.Street}, nil
		}
		minTo := g.CurrentBet + v.rules.MinRaiseIncrement(g.CurrentBet, g.LastRaise)
		if amount < minTo {
			return Action{}, &Rejection{
				Reason: ReasonRaiseTooSmall,
				Detail: fmt.Sprintf("minimum raise is to %d", minTo),
			}
		}
		if !v.rules.IsValidVariantAction(amount, stackTotal) {
			return Action{}, &Rejection{Reason: ReasonVariantForbids}
		}
		return Action{Actor: p.ID, Type: Raise, Amount: amount, Street: g.Street}, nil

	case AllIn:
		if p.Stack == 0 {
			return Action{}, &Rejection{Reason: ReasonInsufficientChips, Detail: "no chips behind"}
		}
		if toCall > 0 && v.raiseNotReopened(g, p) && stackTotal > g.CurrentBet {
			// Betting was not reopened for this player; they may only
			// call the outstanding amount or fold.
			return Action{}, &Rejection{
				Reason: ReasonRaiseNotReopened,
				Detail: "short all-in did not reopen betting",
			}
		}
		return Action{Actor: p.ID, Type: AllIn, Amount: stackTotal, Street: g.Street}, nil

	default:
		return Action{}, &Rejection{Reason: ReasonUnknownAction, Detail: d.Type.String()}
	}
}

// raiseNotReopened reports whether the player already matched a prior bet
// this round and only faces a short all-in since then. Such a player may
// call or fold but not raise again.
func (v *Validator) raiseNotReopened(g *GameState, p *Player) bool {
	return g.actedSinceRaise[p.Seat] && p.StreetBet < g.CurrentBet
}

// LegalActions returns the acting player's legal actions with amount
// bounds. For any non-terminal state at least one of check, call, or fold
// is always present.
func (v *Validator) LegalActions(g *GameState) []ValidAction {
	p := g.ActingPlayer()
	if p == nil {
		return nil
	}

	stackTotal := p.Stack + p.StreetBet
	toCall := g.CurrentBet - p.StreetBet

	actions := []ValidAction{{Type: Fold}}

	if toCall <= 0 {
		actions = append(actions, ValidAction{Type: Check})
	} else if toCall >= p.Stack {
		// Calling puts the whole stack in.
		actions = append(actions, ValidAction{Type: AllIn, Min: stackTotal, Max: stackTotal})
		return actions
	} else {
		actions = append(actions, ValidAction{Type: Call})
	}

	if g.CurrentBet == 0 {
		if minBet := v.rules.MinBet(); stackTotal >= minBet {
			actions = append(actions, ValidAction{Type: Bet, Min: minBet, Max: stackTotal})
		}
		if p.Stack > 0 {
			actions = append(actions, ValidAction{Type: AllIn, Min: stackTotal, Max: stackTotal})
		}
		return actions
	}

	if v.raiseNotReopened(g, p) {
		return actions
	}

	minTo := g.CurrentBet + v.rules.MinRaiseIncrement(g.CurrentBet, g.LastRaise)
	if stackTotal >= minTo {
		actions = append(actions, ValidAction{Type: Raise, Min: minTo, Max: stackTotal})
	}
	if p.Stack > toCall {
		actions = append(actions, ValidAction{Type: AllIn, Min: stackTotal, Max: stackTotal})
	}
	return actions
}
