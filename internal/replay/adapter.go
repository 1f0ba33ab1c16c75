package replay

import (
	"fmt"

	"github.com/stakmachine/holdem/internal/game"
)

// Cursor is the adapter's position in the recorded action list. It is a
// value: Advance returns the successor cursor instead of mutating shared
// adapter state, so replay progress is explicit and testable.
type Cursor struct {
	// Next indexes the first unserved record.
	Next int
	// Inferred counts checks synthesized for gaps in the recording.
	Inferred int

	// inference loop guard
	lastInferredFor string
	inferredRun     int
}

// Served reports how many recorded actions have been consumed.
func (c Cursor) Served(h *HandHistory) int {
	served := 0
	for i := 0; i < c.Next && i < len(h.Actions); i++ {
		if t, _ := game.ParseActionType(h.Actions[i].Action); t != game.PostBlind {
			served++
		}
	}
	return served
}

// Advance produces the decision for the player on turn and the successor
// cursor. Blind records are skipped since the engine posts blinds itself.
//
// Recordings often omit checks that must have happened (a street's first
// recorded action belongs to a later position, or a street has no records
// at all). A check is synthesized whenever the street is post-flop, there
// is no bet to face, and the next record is not this player acting on this
// street. The predicate runs fresh at every decision point, so explicit and
// missing checks coexist in one dataset. Two consecutive syntheses for the
// same player without the recording catching up means the data cannot
// match this engine's action order, which is fatal for the hand.
func Advance(h *HandHistory, cur Cursor, playerID string, snap game.Snapshot) (*game.Decision, Cursor, error) {
	for cur.Next < len(h.Actions) {
		if t, _ := game.ParseActionType(h.Actions[cur.Next].Action); t == game.PostBlind {
			cur.Next++
			continue
		}
		break
	}

	var rec *ActionRecord
	if cur.Next < len(h.Actions) {
		rec = &h.Actions[cur.Next]
	}

	if rec != nil && rec.Actor == playerID && recordStreet(rec) == snap.Street {
		d, err := decode(h, rec)
		if err != nil {
			return nil, cur, err
		}
		cur.Next++
		cur.lastInferredFor = ""
		cur.inferredRun = 0
		return d, cur, nil
	}

	if snap.Street != game.Preflop && snap.CurrentBet == 0 {
		if cur.lastInferredFor == playerID {
			cur.inferredRun++
		} else {
			cur.lastInferredFor = playerID
			cur.inferredRun = 1
		}
		if cur.inferredRun > 2 {
			return nil, cur, fmt.Errorf("%w: inferred checks are not advancing past record %d",
				game.ErrReplayExhausted, cur.Next)
		}
		cur.Inferred++
		return &game.Decision{Type: game.Check}, cur, nil
	}

	if rec == nil {
		return nil, cur, fmt.Errorf("%w: no action recorded for %s", game.ErrReplayExhausted, playerID)
	}
	return nil, cur, fmt.Errorf("%w: next record is %s on the %s but %s is on turn on the %s",
		game.ErrReplayExhausted, rec.Actor, rec.Street, playerID, snap.Street)
}

func recordStreet(rec *ActionRecord) game.Street {
	s, _ := game.ParseStreet(rec.Street)
	return s
}

// decode maps a record to an engine decision, tagging bet and raise
// amounts with the history's convention so the validator normalizes them.
func decode(h *HandHistory, rec *ActionRecord) (*game.Decision, error) {
	t, ok := game.ParseActionType(rec.Action)
	if !ok {
		return nil, fmt.Errorf("unknown recorded action %q", rec.Action)
	}

	d := &game.Decision{Type: t}
	switch t {
	case game.Bet, game.Raise:
		d.Amount = rec.Amount
		d.AmountIsDelta = h.IsDelta()
	}
	return d, nil
}

// Adapter serves a history's actions through the decision engine protocol.
type Adapter struct {
	history *HandHistory
	cursor  Cursor
}

// NewAdapter creates an adapter at the start of the history.
func NewAdapter(h *HandHistory) *Adapter {
	return &Adapter{history: h}
}

// Cursor returns the adapter's current position.
func (a *Adapter) Cursor() Cursor {
	return a.cursor
}

func (a *Adapter) GetDecision(playerID string, snap game.Snapshot) (*game.Decision, error) {
	d, cur, err := Advance(a.history, a.cursor, playerID, snap)
	if err != nil {
		return nil, err
	}
	a.cursor = cur
	return d, nil
}

// HasDecisionForPlayer reports whether unserved records remain. Whether an
// inferred check could also serve depends on betting state the adapter
// does not hold, so exhaustion is only detected at GetDecision time.
func (a *Adapter) HasDecisionForPlayer(string) bool {
	return a.cursor.Next < len(a.history.Actions)
}

func (a *Adapter) ResetForNewHand() {
	a.cursor = Cursor{}
}
