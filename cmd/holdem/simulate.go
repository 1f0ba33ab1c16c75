package main

import (
	"fmt"
	"time"

	"github.com/stakmachine/holdem/cmd/holdem/shared"
	"github.com/stakmachine/holdem/internal/rules"
	"github.com/stakmachine/holdem/internal/simulator"
)

// SimulateCmd runs a batch of bot-vs-bot hands and reports statistics.
type SimulateCmd struct {
	Config    string   `kong:"help='Table configuration file (HCL)'"`
	Hands     int      `kong:"default='1000',help='Number of hands to simulate'"`
	Opponents []string `kong:"help='Bot strategies, cycled across seats (overrides config)'"`
	Workers   int      `kong:"default='0',help='Parallel hands (0 = GOMAXPROCS)'"`
	Seed      *int64   `kong:"help='Deterministic base seed (optional)'"`
	Debug     bool     `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := rules.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	strategies := c.Opponents
	if len(strategies) == 0 {
		for _, b := range cfg.Bots {
			strategies = append(strategies, b.Strategy)
		}
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	logger.Info("starting simulation",
		"hands", c.Hands, "seats", cfg.Table.Seats,
		"blinds", fmt.Sprintf("%d/%d", cfg.Table.SmallBlind, cfg.Table.BigBlind),
		"strategies", strategies, "seed", seed)

	sim := simulator.New(simulator.Config{
		Hands:         c.Hands,
		Seats:         cfg.Table.Seats,
		StartingChips: cfg.Table.StartingChips,
		SmallBlind:    cfg.Table.SmallBlind,
		BigBlind:      cfg.Table.BigBlind,
		Strategies:    strategies,
		Seed:          seed,
		Workers:       c.Workers,
		Logger:        logger,
	})

	ctx := shared.SetupSignalHandler(logger)
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Print(stats.Summary())
	return nil
}
