// Package rules supplies variant parameters to the betting engine: blind
// sizes and posting order, minimum bets, and the minimum raise policy.
// The engine itself never hardcodes any of these.
package rules

// Provider abstracts the betting variant. The engine consults it for blind
// sizes, seat-relative blind positions, and raise arithmetic.
type Provider interface {
	// Blinds returns the small and big blind sizes.
	Blinds() (small, big int)

	// BlindSeats returns the seats that post the small and big blind,
	// relative to the dealer. Heads-up the dealer posts the small blind.
	BlindSeats(dealer, numSeats int) (sb, bb int)

	// MinBet returns the minimum opening bet on a street.
	MinBet() int

	// MinRaiseIncrement returns the minimum amount a raise must add on top
	// of the current bet, given the size of the last full raise this street.
	MinRaiseIncrement(currentBet, lastRaise int) int

	// IsValidVariantAction reports whether the variant permits a raise to
	// the given street total. No-limit permits anything up to the stack;
	// capped variants can refuse oversized wagers here.
	IsValidVariantAction(raiseTo, stackTotal int) bool
}

// NoLimit is the standard no-limit hold'em rule set.
type NoLimit struct {
	SmallBlind int
	BigBlind   int
}

// NewNoLimit creates a no-limit rule provider with the given blinds.
func NewNoLimit(smallBlind, bigBlind int) *NoLimit {
	return &NoLimit{SmallBlind: smallBlind, BigBlind: bigBlind}
}

func (r *NoLimit) Blinds() (int, int) {
	return r.SmallBlind, r.BigBlind
}

func (r *NoLimit) BlindSeats(dealer, numSeats int) (int, int) {
	if numSeats == 2 {
		// Heads-up: dealer posts the small blind and acts first preflop.
		return dealer, (dealer + 1) % numSeats
	}
	return (dealer + 1) % numSeats, (dealer + 2) % numSeats
}

func (r *NoLimit) MinBet() int {
	return r.BigBlind
}

func (r *NoLimit) MinRaiseIncrement(currentBet, lastRaise int) int {
	// A raise must be at least the size of the last full raise; before any
	// raise has happened the increment is one big blind.
	if lastRaise > r.BigBlind {
		return lastRaise
	}
	return r.BigBlind
}

func (r *NoLimit) IsValidVariantAction(raiseTo, stackTotal int) bool {
	return raiseTo <= stackTotal
}
