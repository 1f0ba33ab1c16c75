package game

import (
	"errors"
	"fmt"
)

// RejectReason classifies why the validator refused an action.
type RejectReason int

const (
	ReasonNotYourTurn RejectReason = iota
	ReasonCheckFacingBet
	ReasonNothingToCall
	ReasonBetFacingBet
	ReasonBetTooSmall
	ReasonRaiseWithoutBet
	ReasonRaiseTooSmall
	ReasonRaiseNotReopened
	ReasonInsufficientChips
	ReasonVariantForbids
	ReasonUnknownAction
)

func (r RejectReason) String() string {
	switch r {
	case ReasonNotYourTurn:
		return "not_your_turn"
	case ReasonCheckFacingBet:
		return "check_facing_bet"
	case ReasonNothingToCall:
		return "nothing_to_call"
	case ReasonBetFacingBet:
		return "bet_facing_bet"
	case ReasonBetTooSmall:
		return "bet_too_small"
	case ReasonRaiseWithoutBet:
		return "raise_without_bet"
	case ReasonRaiseTooSmall:
		return "raise_too_small"
	case ReasonRaiseNotReopened:
		return "raise_not_reopened"
	case ReasonInsufficientChips:
		return "insufficient_chips"
	case ReasonVariantForbids:
		return "variant_forbids"
	case ReasonUnknownAction:
		return "unknown_action"
	default:
		return "unknown"
	}
}

// Rejection is the validator's answer to an illegal action. It is a
// returned value, not an error: rejections are an expected part of
// interactive play and the caller may retry with a different action.
type Rejection struct {
	Reason RejectReason
	Detail string
}

func (r *Rejection) String() string {
	if r.Detail == "" {
		return r.Reason.String()
	}
	return fmt.Sprintf("%s: %s", r.Reason, r.Detail)
}

// FailureKind classifies fatal hand failures.
type FailureKind int

const (
	// FailureEngineStuck: two consecutive invalid actions from the same
	// decision engine for the same decision point.
	FailureEngineStuck FailureKind = iota
	// FailureReplayExhausted: the replay adapter has no action matching the
	// engine's expected actor.
	FailureReplayExhausted
	// FailureDeckUnderflow: the deck ran out of cards, which indicates a
	// setup bug upstream.
	FailureDeckUnderflow
)

func (k FailureKind) String() string {
	switch k {
	case FailureEngineStuck:
		return "engine_stuck"
	case FailureReplayExhausted:
		return "replay_exhausted"
	case FailureDeckUnderflow:
		return "deck_underflow"
	default:
		return "unknown"
	}
}

// ErrReplayExhausted is reported by replay decision engines when the
// recorded action list cannot supply the action the engine expects.
var ErrReplayExhausted = errors.New("replay input exhausted")

// HandFailure terminates a hand's simulation. It carries the phase and a
// snapshot of the last good state so batch callers can log and skip the
// hand rather than crash the run.
type HandFailure struct {
	Kind      FailureKind
	Phase     Phase
	Snapshot  Snapshot
	Offending *Decision // the decision that triggered the failure, if any
	Err       error     // underlying cause, if any
}

func (f *HandFailure) Error() string {
	msg := fmt.Sprintf("hand failed (%s) in phase %s", f.Kind, f.Phase)
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *HandFailure) Unwrap() error {
	return f.Err
}
