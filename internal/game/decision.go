package game

// Decision is a proposed action from a decision engine. Amount is the new
// street total for Bet/Raise (the engine's canonical convention); engines
// fed by incremental-style sources set AmountIsDelta and the validator
// performs the one and only delta-to-total conversion.
type Decision struct {
	Type          ActionType
	Amount        int
	AmountIsDelta bool
}

// DecisionEngine is the pluggable source of the next action for a player,
// abstracting human, bot, and replay origin. Engines must be synchronous:
// GetDecision either returns immediately or returns nil, and the core
// simply does not advance until a decision exists. A nil decision means
// "no action available" and is never treated as a check.
type DecisionEngine interface {
	// GetDecision returns the player's decision, nil if none is available
	// yet, or an error if the engine can never supply one (fatal for the
	// hand, e.g. exhausted replay input).
	GetDecision(playerID string, snap Snapshot) (*Decision, error)

	// HasDecisionForPlayer reports whether GetDecision would return a
	// decision right now.
	HasDecisionForPlayer(playerID string) bool

	// ResetForNewHand clears any per-hand state.
	ResetForNewHand()
}
