package game

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/stakmachine/holdem/internal/deck"
	"github.com/stakmachine/holdem/internal/randutil"
	"github.com/stakmachine/holdem/internal/rules"
)

// StepEvent identifies what a single Step did.
type StepEvent int

const (
	EventBlindsPosted StepEvent = iota
	EventHoleCardsDealt
	EventBoardDealt
	EventAwaitingDecision // no decision available yet; state unchanged
	EventActionApplied
	EventActionRejected // invalid action; state unchanged
	EventStreetComplete // street bets collected, phase advanced
	EventPotAwarded
	EventHandComplete
)

func (e StepEvent) String() string {
	switch e {
	case EventBlindsPosted:
		return "blinds_posted"
	case EventHoleCardsDealt:
		return "hole_cards_dealt"
	case EventBoardDealt:
		return "board_dealt"
	case EventAwaitingDecision:
		return "awaiting_decision"
	case EventActionApplied:
		return "action_applied"
	case EventActionRejected:
		return "action_rejected"
	case EventStreetComplete:
		return "street_complete"
	case EventPotAwarded:
		return "pot_awarded"
	case EventHandComplete:
		return "hand_complete"
	default:
		return "unknown"
	}
}

// WinnerInfo describes one player's share of the awarded pot.
type WinnerInfo struct {
	Seat     int
	ID       string
	Amount   int
	HandRank string // empty when won uncontested
}

// StepResult reports the outcome of one Step. Snapshot is always set so
// external consumers can rerender after every transition.
type StepResult struct {
	Event     StepEvent
	Action    *Action    // set for EventActionApplied
	Rejection *Rejection // set for EventActionRejected
	Winners   []WinnerInfo
	Snapshot  Snapshot
}

// Core drives a single hand. It owns the GameState exclusively; nothing
// outside the core mutates it. A core is single-threaded and synchronous:
// Step performs exactly one transition and returns. Run independent cores
// in parallel for batch simulation; never share one across goroutines.
type Core struct {
	state     *GameState
	rules     rules.Provider
	validator *Validator
	logger    *log.Logger

	defaultEngine DecisionEngine
	engines       map[string]DecisionEngine

	// invalidStreak counts consecutive rejections at the current decision
	// point. Two in a row is fatal, preventing infinite retry loops.
	invalidStreak int
	failure       *HandFailure
}

// CoreOption configures a Core.
type CoreOption func(*Core)

// WithLogger sets the core's logger.
func WithLogger(logger *log.Logger) CoreOption {
	return func(c *Core) { c.logger = logger }
}

// WithDefaultEngine sets the decision engine used for players without a
// dedicated one.
func WithDefaultEngine(e DecisionEngine) CoreOption {
	return func(c *Core) { c.defaultEngine = e }
}

// WithEngine assigns a decision engine to a specific player.
func WithEngine(playerID string, e DecisionEngine) CoreOption {
	return func(c *Core) { c.engines[playerID] = e }
}

// NewCore creates a core for the given rule set.
func NewCore(r rules.Provider, opts ...CoreOption) *Core {
	c := &Core{
		rules:     r,
		validator: NewValidator(r),
		logger:    log.New(io.Discard),
		engines:   make(map[string]DecisionEngine),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandOption configures a single hand.
type HandOption func(*handConfig)

type handConfig struct {
	deck   *deck.Deck
	handID string
}

// WithDeck supplies the deck for this hand. Use a preloaded deck to replay
// a recorded card sequence, or a seeded deck for determinism.
func WithDeck(d *deck.Deck) HandOption {
	return func(cfg *handConfig) { cfg.deck = d }
}

// WithHandID fixes the hand ID instead of generating one.
func WithHandID(id string) HandOption {
	return func(cfg *handConfig) { cfg.handID = id }
}

// StartHand creates the GameState for a new hand. Seats are in table
// order; dealer is an index into seats. Every seat must have chips.
func (c *Core) StartHand(seats []Seat, dealer int, opts ...HandOption) (*GameState, error) {
	if len(seats) < 2 {
		return nil, errors.New("at least 2 players required")
	}
	if dealer < 0 || dealer >= len(seats) {
		return nil, fmt.Errorf("dealer position %d out of range", dealer)
	}

	cfg := &handConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.deck == nil {
		cfg.deck = deck.NewShuffled(randutil.New(time.Now().UnixNano()))
	}
	if cfg.handID == "" {
		cfg.handID = uuid.NewString()
	}

	players := make([]*Player, len(seats))
	total := 0
	for i, s := range seats {
		if s.Stack <= 0 {
			return nil, fmt.Errorf("seat %d (%s) has no chips", i, s.ID)
		}
		players[i] = &Player{Seat: i, ID: s.ID, Stack: s.Stack}
		total += s.Stack
	}

	c.state = &GameState{
		HandID:          cfg.handID,
		Players:         players,
		Dealer:          dealer,
		Phase:           StartHand,
		Street:          Preflop,
		Deck:            cfg.deck,
		ActionIndex:     -1,
		startingTotal:   total,
		actedSinceRaise: make([]bool, len(players)),
	}
	c.invalidStreak = 0
	c.failure = nil

	c.logger.Debug("starting hand", "hand", cfg.handID, "players", len(players), "dealer", dealer)
	return c.state, nil
}

// State returns the hand's game state. Callers outside the core must treat
// it as read-only; use Snapshot for a safe projection.
func (c *Core) State() *GameState {
	return c.state
}

// Snapshot returns the read-only projection of the current state.
func (c *Core) Snapshot() Snapshot {
	return c.snapshot()
}

// IsHandComplete reports whether the hand has ended (normally or fatally).
func (c *Core) IsHandComplete() bool {
	return c.state == nil || c.state.Phase == EndHand || c.failure != nil
}

// Failure returns the fatal failure that ended the hand, if any.
func (c *Core) Failure() *HandFailure {
	return c.failure
}

// Step drives exactly one state transition: posting blinds, dealing,
// requesting and applying one player action, or resolving the pot. It
// returns a *HandFailure-wrapped error for fatal conditions; rejections of
// individual actions are reported in the StepResult, not as errors.
func (c *Core) Step() (StepResult, error) {
	if c.failure != nil {
		return StepResult{}, c.failure
	}
	if c.state == nil {
		return StepResult{}, errors.New("no hand in progress")
	}

	res, err := c.step()
	if err != nil {
		return res, err
	}
	if err := c.state.AuditChips(); err != nil {
		return res, fmt.Errorf("after %s: %w", res.Event, err)
	}
	return res, nil
}

func (c *Core) step() (StepResult, error) {
	g := c.state

	switch g.Phase {
	case StartHand:
		c.postBlinds()
		g.Phase = DealHole
		return c.result(EventBlindsPosted), nil

	case DealHole:
		if err := c.dealHoleCards(); err != nil {
			return StepResult{}, err
		}
		g.Phase = PreflopBetting
		_, bb := c.rules.BlindSeats(g.Dealer, len(g.Players))
		g.ActionIndex = g.nextActable(bb + 1)
		return c.result(EventHoleCardsDealt), nil

	case PreflopBetting, FlopBetting, TurnBetting, RiverBetting:
		if g.bettingComplete() {
			return c.finishStreet(), nil
		}
		return c.requestAndApply()

	case DealFlop:
		return c.dealBoard(Flop, 3, FlopBetting)

	case DealTurn:
		return c.dealBoard(Turn, 1, TurnBetting)

	case DealRiver:
		return c.dealBoard(River, 1, RiverBetting)

	case Showdown:
		return c.resolve()

	case EndHand:
		return c.result(EventHandComplete), nil

	default:
		return StepResult{}, fmt.Errorf("unknown phase %v", g.Phase)
	}
}

func (c *Core) result(event StepEvent) StepResult {
	return StepResult{Event: event, Snapshot: c.snapshot()}
}

// postBlinds commits the blinds and seeds the betting state. The current
// bet is the full big blind even when the big blind is all-in for less.
func (c *Core) postBlinds() {
	g := c.state
	small, big := c.rules.Blinds()
	sbSeat, bbSeat := c.rules.BlindSeats(g.Dealer, len(g.Players))

	sbPaid := g.Players[sbSeat].commit(small)
	g.record(g.Players[sbSeat].ID, PostBlind, sbPaid)
	bbPaid := g.Players[bbSeat].commit(big)
	g.record(g.Players[bbSeat].ID, PostBlind, bbPaid)

	g.CurrentBet = big
	g.LastRaise = 0

	c.logger.Debug("blinds posted",
		"small", g.Players[sbSeat].ID, "small_amount", sbPaid,
		"big", g.Players[bbSeat].ID, "big_amount", bbPaid)
}

// dealHoleCards deals two consecutive cards to each seat, starting left of
// the dealer. Preloaded decks must be ordered accordingly.
func (c *Core) dealHoleCards() error {
	g := c.state
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		p := g.Players[(g.Dealer+i)%n]
		cards, err := g.Deck.Deal(2)
		if err != nil {
			return c.fatal(FailureDeckUnderflow, nil, err)
		}
		p.HoleCards = append([]deck.Card(nil), cards...)
	}
	return nil
}

func (c *Core) dealBoard(street Street, n int, next Phase) (StepResult, error) {
	g := c.state
	cards, err := g.Deck.Deal(n)
	if err != nil {
		return StepResult{}, c.fatal(FailureDeckUnderflow, nil, err)
	}
	g.Board = append(g.Board, cards...)
	g.Street = street
	g.Phase = next
	g.ActionIndex = g.nextActable(g.Dealer + 1)
	c.logger.Debug("board dealt", "street", street, "board", g.Board)
	return c.result(EventBoardDealt), nil
}

// finishStreet closes the betting round: collects in-flight bets and
// advances the phase. A fold-out or the river leads to Showdown; an all-in
// runout flows through the remaining deal phases with betting rounds that
// complete immediately.
func (c *Core) finishStreet() StepResult {
	g := c.state
	g.collectStreetBets()
	g.resetForStreet()
	g.ActionIndex = -1

	switch {
	case g.foldedOut(), g.Street == River:
		g.Phase = Showdown
	case g.Street == Preflop:
		g.Phase = DealFlop
	case g.Street == Flop:
		g.Phase = DealTurn
	case g.Street == Turn:
		g.Phase = DealRiver
	}

	c.logger.Debug("street complete", "street", g.Street, "pot", g.Committed, "next", g.Phase)
	return c.result(EventStreetComplete)
}

// requestAndApply asks the acting player's decision engine for a decision
// and applies it if valid. Exactly one action is processed per call.
func (c *Core) requestAndApply() (StepResult, error) {
	g := c.state
	p := g.ActingPlayer()
	if p == nil {
		return StepResult{}, fmt.Errorf("betting phase %s with no acting player", g.Phase)
	}

	engine := c.engineFor(p.ID)
	if engine == nil {
		return StepResult{}, fmt.Errorf("no decision engine for player %s", p.ID)
	}

	decision, err := engine.GetDecision(p.ID, c.snapshot())
	if err != nil {
		kind := FailureEngineStuck
		if errors.Is(err, ErrReplayExhausted) {
			kind = FailureReplayExhausted
		}
		return StepResult{}, c.fatal(kind, decision, err)
	}
	if decision == nil {
		// No decision available. The core does not advance; pacing and
		// timeouts are the caller's concern.
		return c.result(EventAwaitingDecision), nil
	}

	action, rejection := c.validator.Validate(g, p.ID, *decision)
	if rejection != nil {
		c.invalidStreak++
		c.logger.Warn("action rejected",
			"player", p.ID, "action", decision.Type, "amount", decision.Amount,
			"reason", rejection.String(), "streak", c.invalidStreak)
		if c.invalidStreak >= 2 {
			return StepResult{}, c.fatal(FailureEngineStuck, decision,
				fmt.Errorf("two consecutive invalid actions: %s", rejection))
		}
		res := c.result(EventActionRejected)
		res.Rejection = rejection
		return res, nil
	}
	c.invalidStreak = 0

	c.apply(p, action)
	g.record(p.ID, action.Type, action.Amount)

	if g.bettingComplete() {
		g.ActionIndex = -1
	} else {
		g.ActionIndex = g.nextActable(p.Seat + 1)
	}

	c.logger.Debug("action applied",
		"player", p.ID, "action", action.Type, "amount", action.Amount,
		"street", g.Street, "pot", g.PotSize())

	res := c.result(EventActionApplied)
	res.Action = &action
	return res, nil
}

// apply mutates state for a validated, canonical action.
func (c *Core) apply(p *Player, action Action) {
	g := c.state

	switch action.Type {
	case Fold:
		p.Folded = true
		g.markActed(p.Seat)

	case Check:
		g.markActed(p.Seat)

	case Call:
		p.commit(min(g.CurrentBet-p.StreetBet, p.Stack))
		g.markActed(p.Seat)

	case Bet:
		p.commit(action.Amount - p.StreetBet)
		g.CurrentBet = action.Amount
		g.LastRaise = action.Amount
		g.reopenBetting(p.Seat)

	case Raise:
		p.commit(action.Amount - p.StreetBet)
		g.LastRaise = action.Amount - g.CurrentBet
		g.CurrentBet = action.Amount
		g.reopenBetting(p.Seat)

	case AllIn:
		total := p.Stack + p.StreetBet
		p.commit(p.Stack)
		if total > g.CurrentBet {
			raiseSize := total - g.CurrentBet
			if raiseSize >= c.rules.MinRaiseIncrement(g.CurrentBet, g.LastRaise) {
				g.LastRaise = raiseSize
				g.reopenBetting(p.Seat)
			} else {
				// Short all-in: the bet stands but betting is not
				// reopened for players who already matched.
				g.markActed(p.Seat)
			}
			g.CurrentBet = total
		} else {
			g.markActed(p.Seat)
		}
	}
}

func (c *Core) engineFor(playerID string) DecisionEngine {
	if e, ok := c.engines[playerID]; ok {
		return e
	}
	return c.defaultEngine
}

// fatal records a hand-terminating failure and returns it.
func (c *Core) fatal(kind FailureKind, offending *Decision, err error) *HandFailure {
	c.failure = &HandFailure{
		Kind:      kind,
		Phase:     c.state.Phase,
		Snapshot:  c.snapshot(),
		Offending: offending,
		Err:       err,
	}
	c.logger.Error("hand failed", "kind", kind, "phase", c.state.Phase, "err", err)
	return c.failure
}

// NextDealer advances the dealer one seat, skipping busted stacks.
func NextDealer(stacks []int, dealer int) int {
	n := len(stacks)
	for i := 1; i <= n; i++ {
		seat := (dealer + i) % n
		if stacks[seat] > 0 {
			return seat
		}
	}
	return dealer
}
