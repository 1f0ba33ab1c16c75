// Package replay drives hands from recorded histories. Histories are TOML
// documents carrying blinds, seats, hole cards, board, and the ordered
// action list; the adapter serves those actions to the engine, inferring
// checks the recording omitted.
package replay

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/stakmachine/holdem/internal/deck"
	"github.com/stakmachine/holdem/internal/game"
)

// Amount conventions a history may declare. Total is the player's new
// street total for bets and raises; delta is the chips added by that
// action. The engine normalizes deltas at validation, so both replay to
// identical hands.
const (
	AmountsTotal = "total"
	AmountsDelta = "delta"
)

// SeatRecord is one participant at hand start.
type SeatRecord struct {
	ID        string   `toml:"id"`
	Stack     int      `toml:"stack"`
	HoleCards []string `toml:"hole_cards,omitempty"`
}

// ActionRecord is one recorded action in chronological order.
type ActionRecord struct {
	Actor  string `toml:"actor"`
	Action string `toml:"action"`
	Amount int    `toml:"amount,omitzero"`
	Street string `toml:"street"`
}

// HandHistory is the persisted form of one hand.
type HandHistory struct {
	HandID      string         `toml:"hand_id,omitempty"`
	SmallBlind  int            `toml:"small_blind"`
	BigBlind    int            `toml:"big_blind"`
	Dealer      int            `toml:"dealer"`
	Amounts     string         `toml:"amounts,omitempty"` // "total" (default) or "delta"
	Seats       []SeatRecord   `toml:"seats"`
	Board       []string       `toml:"board,omitempty"`
	FinalStacks []int          `toml:"final_stacks,omitempty"`
	Actions     []ActionRecord `toml:"actions"`
}

// Load reads and validates a history file.
func Load(filename string) (*HandHistory, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML history document.
func Parse(data []byte) (*HandHistory, error) {
	var h HandHistory
	if err := toml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parsing history: %w", err)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return &h, nil
}

// Save writes the history as TOML.
func (h *HandHistory) Save(filename string) error {
	var buf bytes.Buffer
	if err := h.Encode(&buf); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0o644)
}

// Encode writes the history as TOML to w.
func (h *HandHistory) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(h); err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return nil
}

// Validate checks structural integrity: sane blinds and seats, a known
// amounts convention, and parseable cards, actions, and streets.
func (h *HandHistory) Validate() error {
	if h.SmallBlind <= 0 || h.BigBlind <= 0 || h.SmallBlind > h.BigBlind {
		return fmt.Errorf("invalid blinds %d/%d", h.SmallBlind, h.BigBlind)
	}
	if len(h.Seats) < 2 {
		return fmt.Errorf("history needs at least 2 seats, got %d", len(h.Seats))
	}
	if h.Dealer < 0 || h.Dealer >= len(h.Seats) {
		return fmt.Errorf("dealer %d out of range for %d seats", h.Dealer, len(h.Seats))
	}
	switch h.Amounts {
	case "", AmountsTotal, AmountsDelta:
	default:
		return fmt.Errorf("unknown amounts convention %q", h.Amounts)
	}

	ids := make(map[string]struct{}, len(h.Seats))
	for i, s := range h.Seats {
		if s.ID == "" {
			return fmt.Errorf("seat %d has no id", i)
		}
		if _, dup := ids[s.ID]; dup {
			return fmt.Errorf("duplicate seat id %q", s.ID)
		}
		ids[s.ID] = struct{}{}
		if s.Stack <= 0 {
			return fmt.Errorf("seat %q has no chips", s.ID)
		}
		if n := len(s.HoleCards); n != 0 && n != 2 {
			return fmt.Errorf("seat %q has %d hole cards", s.ID, n)
		}
		if _, err := deck.ParseAll(s.HoleCards); err != nil {
			return fmt.Errorf("seat %q: %w", s.ID, err)
		}
	}

	if len(h.Board) > 5 {
		return fmt.Errorf("board has %d cards", len(h.Board))
	}
	if _, err := deck.ParseAll(h.Board); err != nil {
		return fmt.Errorf("board: %w", err)
	}

	for i, rec := range h.Actions {
		if _, ok := ids[rec.Actor]; !ok {
			return fmt.Errorf("action %d: unknown actor %q", i, rec.Actor)
		}
		if _, ok := game.ParseActionType(rec.Action); !ok {
			return fmt.Errorf("action %d: unknown action %q", i, rec.Action)
		}
		if _, ok := game.ParseStreet(rec.Street); !ok {
			return fmt.Errorf("action %d: unknown street %q", i, rec.Street)
		}
	}

	if n := len(h.FinalStacks); n != 0 && n != len(h.Seats) {
		return fmt.Errorf("final_stacks has %d entries for %d seats", n, len(h.Seats))
	}
	return nil
}

// IsDelta reports whether recorded bet and raise amounts are increments
// rather than street totals.
func (h *HandHistory) IsDelta() bool {
	return h.Amounts == AmountsDelta
}

// GameSeats converts the seat records to the engine's start-hand form.
func (h *HandHistory) GameSeats() []game.Seat {
	seats := make([]game.Seat, len(h.Seats))
	for i, s := range h.Seats {
		seats[i] = game.Seat{ID: s.ID, Stack: s.Stack}
	}
	return seats
}

// Deck builds the preloaded deck matching the engine's dealing order: two
// consecutive cards per seat starting left of the dealer, then the board.
// Every seat must carry hole cards; the board may be short for hands that
// ended before the river.
func (h *HandHistory) Deck() (*deck.Deck, error) {
	n := len(h.Seats)
	cards := make([]deck.Card, 0, 2*n+len(h.Board))
	for i := 1; i <= n; i++ {
		seat := h.Seats[(h.Dealer+i)%n]
		if len(seat.HoleCards) != 2 {
			return nil, fmt.Errorf("seat %q has no recorded hole cards", seat.ID)
		}
		hole, err := deck.ParseAll(seat.HoleCards)
		if err != nil {
			return nil, err
		}
		cards = append(cards, hole...)
	}

	board, err := deck.ParseAll(h.Board)
	if err != nil {
		return nil, err
	}
	cards = append(cards, board...)

	return deck.NewPreloaded(cards)
}

// RecordHand builds a history from a completed hand so simulated play can
// be persisted and replayed. The engine's canonical record uses street
// totals, so the history does too.
func RecordHand(g *game.GameState, startingStacks []int, smallBlind, bigBlind int) *HandHistory {
	h := &HandHistory{
		HandID:     g.HandID,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		Dealer:     g.Dealer,
		Amounts:    AmountsTotal,
	}

	for i, p := range g.Players {
		rec := SeatRecord{ID: p.ID, Stack: startingStacks[i]}
		for _, c := range p.HoleCards {
			rec.HoleCards = append(rec.HoleCards, c.String())
		}
		h.Seats = append(h.Seats, rec)
		h.FinalStacks = append(h.FinalStacks, p.Stack)
	}

	for _, c := range g.Board {
		h.Board = append(h.Board, c.String())
	}

	for _, a := range g.Actions {
		if a.Type == game.PostBlind {
			continue
		}
		h.Actions = append(h.Actions, ActionRecord{
			Actor:  a.Actor,
			Action: a.Type.String(),
			Amount: a.Amount,
			Street: a.Street.String(),
		})
	}
	return h
}
