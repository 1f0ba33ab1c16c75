package game

// Street represents a betting round.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// ParseStreet converts a hand-history street name back to a Street.
func ParseStreet(s string) (Street, bool) {
	switch s {
	case "preflop":
		return Preflop, true
	case "flop":
		return Flop, true
	case "turn":
		return Turn, true
	case "river":
		return River, true
	default:
		return 0, false
	}
}

// ActionType represents a player action.
type ActionType int

const (
	Fold ActionType = iota
	Check
	Bet
	Call
	Raise
	AllIn
	PostBlind
)

func (a ActionType) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Bet:
		return "bet"
	case Call:
		return "call"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	case PostBlind:
		return "post_blind"
	default:
		return "unknown"
	}
}

// ParseActionType converts a hand-history action name back to an ActionType.
func ParseActionType(s string) (ActionType, bool) {
	switch s {
	case "fold":
		return Fold, true
	case "check":
		return Check, true
	case "bet":
		return Bet, true
	case "call":
		return Call, true
	case "raise":
		return Raise, true
	case "allin", "all_in":
		return AllIn, true
	case "post_blind", "blind":
		return PostBlind, true
	default:
		return 0, false
	}
}

// Phase is the engine's position in the hand lifecycle. Progression is
// linear with two early exits: a fold-out or an all-in runout jumps any
// betting phase straight to Showdown.
type Phase int

const (
	StartHand Phase = iota
	DealHole
	PreflopBetting
	DealFlop
	FlopBetting
	DealTurn
	TurnBetting
	DealRiver
	RiverBetting
	Showdown
	EndHand
)

func (p Phase) String() string {
	switch p {
	case StartHand:
		return "start_hand"
	case DealHole:
		return "deal_hole"
	case PreflopBetting:
		return "preflop_betting"
	case DealFlop:
		return "deal_flop"
	case FlopBetting:
		return "flop_betting"
	case DealTurn:
		return "deal_turn"
	case TurnBetting:
		return "turn_betting"
	case DealRiver:
		return "deal_river"
	case RiverBetting:
		return "river_betting"
	case Showdown:
		return "showdown"
	case EndHand:
		return "end_hand"
	default:
		return "unknown"
	}
}

// IsBetting reports whether the phase is one of the four betting rounds.
func (p Phase) IsBetting() bool {
	switch p {
	case PreflopBetting, FlopBetting, TurnBetting, RiverBetting:
		return true
	}
	return false
}

// street returns the street a betting or dealing phase belongs to.
func (p Phase) street() Street {
	switch p {
	case DealFlop, FlopBetting:
		return Flop
	case DealTurn, TurnBetting:
		return Turn
	case DealRiver, RiverBetting:
		return River
	default:
		return Preflop
	}
}

// Action is one immutable entry in the hand's canonical action record.
// Amount is the actor's new street total for Bet/Raise/AllIn, the chips
// paid for PostBlind, and zero otherwise.
type Action struct {
	Actor  string
	Type   ActionType
	Amount int
	Street Street
}
