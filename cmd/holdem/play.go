package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stakmachine/holdem/cmd/holdem/shared"
	"github.com/stakmachine/holdem/internal/bot"
	"github.com/stakmachine/holdem/internal/deck"
	"github.com/stakmachine/holdem/internal/game"
	"github.com/stakmachine/holdem/internal/randutil"
	"github.com/stakmachine/holdem/internal/rules"
)

// PlayCmd runs interactive practice hands against bots.
type PlayCmd struct {
	Config   string `kong:"help='Table configuration file (HCL)'"`
	Opponent string `kong:"default='caller',help='Bot strategy to practice against'"`
	Seats    int    `kong:"default='0',help='Seats at the table (overrides config)'"`
	Hands    int    `kong:"default='0',help='Stop after this many hands (0 = until quit or bust)'"`
	Seed     *int64 `kong:"help='Deterministic deck seed (optional)'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
}

func (c *PlayCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := rules.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Seats > 1 {
		cfg.Table.Seats = c.Seats
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Debug("table configured",
		"blinds", fmt.Sprintf("%d/%d", cfg.Table.SmallBlind, cfg.Table.BigBlind),
		"seats", cfg.Table.Seats, "seed", seed)

	session := &playSession{
		cfg:    cfg,
		styles: newTableStyles(),
		input:  bufio.NewScanner(os.Stdin),
		human:  game.NewHumanEngine(),
		seed:   seed,
	}

	opts := []game.CoreOption{
		game.WithLogger(logger),
		game.WithEngine("you", session.human),
	}
	stacks := []int{cfg.Table.StartingChips}
	seats := []game.Seat{{ID: "you", Stack: cfg.Table.StartingChips}}
	for i := 1; i < cfg.Table.Seats; i++ {
		strategy, err := bot.New(c.Opponent, seed+int64(i))
		if err != nil {
			return err
		}
		id := fmt.Sprintf("%s-%d", c.Opponent, i)
		seats = append(seats, game.Seat{ID: id, Stack: cfg.Table.StartingChips})
		stacks = append(stacks, cfg.Table.StartingChips)
		opts = append(opts, game.WithEngine(id, bot.NewEngine(strategy)))
	}

	session.core = game.NewCore(cfg.Provider(), opts...)
	session.seats = seats
	session.stacks = stacks
	return session.loop(c.Hands)
}

type playSession struct {
	cfg    *rules.Config
	core   *game.Core
	styles *tableStyles
	input  *bufio.Scanner
	human  *game.HumanEngine

	seats  []game.Seat
	stacks []int
	seed   int64
	dealer int
}

// loop plays hands until the player quits, busts, or the hand limit hits.
func (s *playSession) loop(maxHands int) error {
	for hand := 0; maxHands == 0 || hand < maxHands; hand++ {
		if s.stacks[0] <= 0 {
			fmt.Println(s.styles.Muted.Render("you're bust, game over"))
			return nil
		}

		quit, err := s.playHand(hand)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		s.dealer = game.NextDealer(s.stacks, s.dealer)
	}
	return nil
}

func (s *playSession) playHand(index int) (quit bool, err error) {
	seats := make([]game.Seat, 0, len(s.seats))
	liveSeats := make([]int, 0, len(s.seats)) // table seat per live seat
	for i, seat := range s.seats {
		if s.stacks[i] > 0 {
			seats = append(seats, game.Seat{ID: seat.ID, Stack: s.stacks[i]})
			liveSeats = append(liveSeats, i)
		}
	}
	if len(seats) < 2 {
		fmt.Println(s.styles.Success.Render("you cleaned out the table"))
		return true, nil
	}

	dealer := 0
	for i, tableSeat := range liveSeats {
		if tableSeat == s.dealer {
			dealer = i
		}
	}

	s.human.ResetForNewHand()
	d := deck.NewShuffled(randutil.New(s.seed + int64(index)))
	if _, err := s.core.StartHand(seats, dealer, game.WithDeck(d)); err != nil {
		return false, err
	}

	for !s.core.IsHandComplete() {
		res, err := s.core.Step()
		if err != nil {
			return false, err
		}

		switch res.Event {
		case game.EventAwaitingDecision:
			fmt.Print(s.styles.renderTable(res.Snapshot))
			decision, quit := s.prompt(res.Snapshot)
			if quit {
				return true, nil
			}
			s.human.Submit("you", decision)

		case game.EventActionApplied:
			if res.Action.Actor != "you" {
				fmt.Printf("%s %s", res.Action.Actor, res.Action.Type)
				if res.Action.Amount > 0 {
					fmt.Printf(" %d", res.Action.Amount)
				}
				fmt.Println()
			}

		case game.EventActionRejected:
			fmt.Println(s.styles.Muted.Render("invalid: " + res.Rejection.String()))

		case game.EventBoardDealt:
			fmt.Printf("%s: %s\n", res.Snapshot.Street, s.styles.cards(res.Snapshot.Board))

		case game.EventPotAwarded:
			fmt.Print(s.styles.renderWinners(res.Winners))
		}
	}

	for i, p := range s.core.State().Players {
		s.stacks[liveSeats[i]] = p.Stack
	}
	fmt.Printf("your stack: %d\n\n", s.stacks[0])
	return false, nil
}

// prompt reads one action from the terminal. Bets and raises take the new
// street total, e.g. "raise 120".
func (s *playSession) prompt(snap game.Snapshot) (game.Decision, bool) {
	for {
		fmt.Print("> ")
		if !s.input.Scan() {
			return game.Decision{}, true
		}
		fields := strings.Fields(strings.ToLower(s.input.Text()))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "q", "exit":
			return game.Decision{}, true
		case "help", "?":
			fmt.Println("commands: check, call, fold, bet <total>, raise <total>, allin, quit")
			continue
		}

		t, ok := game.ParseActionType(fields[0])
		if !ok {
			fmt.Println(s.styles.Muted.Render("unknown action, try 'help'"))
			continue
		}

		d := game.Decision{Type: t}
		if t == game.Bet || t == game.Raise {
			if len(fields) < 2 {
				fmt.Println(s.styles.Muted.Render(fmt.Sprintf("%s needs an amount", t)))
				continue
			}
			amount, err := strconv.Atoi(fields[1])
			if err != nil || amount <= 0 {
				fmt.Println(s.styles.Muted.Render("amount must be a positive number"))
				continue
			}
			d.Amount = amount
		}
		return d, false
	}
}
