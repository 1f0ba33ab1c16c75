package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/stakmachine/holdem/internal/randutil"
)

// ErrUnderflow is returned when more cards are requested than remain.
// Under a correctly configured hand this never happens, so callers treat
// it as a programming-error-class failure rather than something to retry.
var ErrUnderflow = errors.New("deck: not enough cards remaining")

// Deck supplies the card sequence for a single hand. It comes in three
// flavours: shuffled from an explicit RNG, shuffled from a seed, or
// preloaded with a fixed sequence for replaying recorded hands.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand // nil for preloaded decks
}

// NewShuffled creates a full 52-card deck shuffled with the provided RNG.
// The RNG is required so that randomness stays explicit and reproducible.
func NewShuffled(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("deck: rng is required")
	}
	d := &Deck{cards: Full(), rng: rng}
	d.shuffle()
	return d
}

// NewSeeded creates a shuffled deck from a deterministic seed.
func NewSeeded(seed int64) *Deck {
	return NewShuffled(randutil.New(seed))
}

// NewPreloaded creates a deck that deals exactly the given sequence.
// The sequence may be shorter than 52 cards; duplicates are rejected.
func NewPreloaded(cards []Card) (*Deck, error) {
	if len(cards) == 0 {
		return nil, errors.New("deck: preloaded sequence is empty")
	}
	seen := make(map[Card]struct{}, len(cards))
	for _, c := range cards {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("deck: duplicate card %s in preloaded sequence", c)
		}
		seen[c] = struct{}{}
	}
	return &Deck{cards: append([]Card(nil), cards...)}, nil
}

// Full returns all 52 cards in canonical order.
func Full() []Card {
	cards := make([]Card, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// shuffle performs a Fisher-Yates shuffle and rewinds the deal position.
func (d *Deck) shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the next n cards.
func (d *Deck) Deal(n int) ([]Card, error) {
	if d.next+n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrUnderflow, n, len(d.cards)-d.next)
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards, nil
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Reset rewinds the deck. Shuffled decks are reshuffled with their RNG;
// preloaded decks replay the same fixed sequence from the start.
func (d *Deck) Reset() {
	if d.rng != nil {
		d.shuffle()
		return
	}
	d.next = 0
}
