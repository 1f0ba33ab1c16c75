// Package simulator runs batches of bot-vs-bot hands for throughput and
// strategy comparison. Every hand gets its own core, deck, and seed, so
// batches parallelize freely and any hand can be rerun from its seed.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/stakmachine/holdem/internal/bot"
	"github.com/stakmachine/holdem/internal/deck"
	"github.com/stakmachine/holdem/internal/game"
	"github.com/stakmachine/holdem/internal/rules"
)

// maxStepsPerHand bounds a single hand.
const maxStepsPerHand = 1000

// Config holds simulation parameters.
type Config struct {
	Hands         int
	Seats         int
	StartingChips int
	SmallBlind    int
	BigBlind      int
	Strategies    []string // cycled across seats
	Seed          int64
	Workers       int
	Logger        *log.Logger
	Clock         quartz.Clock
}

// Simulator runs batches of simulated hands.
type Simulator struct {
	config Config
}

// New creates a simulator, filling config defaults.
func New(config Config) *Simulator {
	if config.Seats < 2 {
		config.Seats = 6
	}
	if config.StartingChips <= 0 {
		config.StartingChips = config.BigBlind * 100
	}
	if len(config.Strategies) == 0 {
		config.Strategies = []string{"caller"}
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Simulator{config: config}
}

// Run plays the configured number of hands, at most Workers at a time.
// Hands that fail (a stuck bot, a bad setup) are logged and skipped so one
// bad hand cannot sink a batch; the count of skips is reported in Stats.
func (s *Simulator) Run(ctx context.Context) (*Stats, error) {
	stats := NewStats(s.config.BigBlind)
	start := s.config.Clock.Now()

	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.config.Workers)

	for i := 0; i < s.config.Hands; i++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			outcome, err := s.playHand(i)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				s.config.Logger.Warn("hand skipped", "hand", i, "err", err)
				return nil
			}
			stats.add(outcome)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	stats.Elapsed = s.config.Clock.Since(start)
	return stats, nil
}

// playHand runs one seeded hand to completion. The deck seed and each
// bot's seed derive from the hand index, so the hand replays exactly.
func (s *Simulator) playHand(index int) (HandOutcome, error) {
	cfg := s.config
	seed := cfg.Seed + int64(index)
	dealer := index % cfg.Seats

	opts := []game.CoreOption{game.WithLogger(cfg.Logger)}
	seats := make([]game.Seat, cfg.Seats)
	for seat := 0; seat < cfg.Seats; seat++ {
		name := cfg.Strategies[seat%len(cfg.Strategies)]
		strategy, err := bot.New(name, seed+int64(seat))
		if err != nil {
			return HandOutcome{}, err
		}
		id := fmt.Sprintf("%s-%d", name, seat)
		seats[seat] = game.Seat{ID: id, Stack: cfg.StartingChips}
		opts = append(opts, game.WithEngine(id, bot.NewEngine(strategy)))
	}

	core := game.NewCore(rules.NewNoLimit(cfg.SmallBlind, cfg.BigBlind), opts...)
	_, err := core.StartHand(seats, dealer,
		game.WithDeck(deck.NewSeeded(seed)),
		game.WithHandID(fmt.Sprintf("sim-%d", index)))
	if err != nil {
		return HandOutcome{}, err
	}

	outcome := HandOutcome{Seed: seed, Dealer: dealer}
	for steps := 0; !core.IsHandComplete(); steps++ {
		if steps >= maxStepsPerHand {
			return HandOutcome{}, fmt.Errorf("hand %d exceeded %d steps", index, maxStepsPerHand)
		}
		res, err := core.Step()
		if err != nil {
			return HandOutcome{}, err
		}
		if res.Event == game.EventPotAwarded {
			for _, w := range res.Winners {
				outcome.Winners = append(outcome.Winners, w.ID)
			}
		}
	}

	g := core.State()
	outcome.StreetReached = g.Street
	outcome.Showdown = g.Board != nil && !folded(g)
	if g.FinalPot != nil {
		outcome.Pot = g.FinalPot.Total()
	}
	return outcome, nil
}

// folded reports whether the hand ended with everyone but one player out.
func folded(g *game.GameState) bool {
	live := 0
	for _, p := range g.Players {
		if !p.Folded {
			live++
		}
	}
	return live <= 1
}
