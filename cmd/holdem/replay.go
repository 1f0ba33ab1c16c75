package main

import (
	"fmt"

	"github.com/stakmachine/holdem/cmd/holdem/shared"
	"github.com/stakmachine/holdem/internal/replay"
)

// ReplayCmd replays recorded hand history files through the engine.
type ReplayCmd struct {
	Files []string `kong:"arg,required,help='Hand history files (TOML)'"`
	Debug bool     `kong:"help='Enable debug logging'"`
}

func (c *ReplayCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	replayer := replay.NewReplayer(replay.WithLogger(logger))

	failed := 0
	for _, file := range c.Files {
		h, err := replay.Load(file)
		if err != nil {
			logger.Error("skipping unreadable history", "file", file, "err", err)
			failed++
			continue
		}

		res, err := replayer.Replay(h)
		if err != nil {
			logger.Error("replay failed", "file", file, "err", err)
			failed++
			continue
		}

		fmt.Printf("%s: pot %d, %d recorded + %d inferred actions\n",
			file, res.Pot, res.RecordedServed, res.InferredChecks)
		for _, w := range res.Winners {
			if w.HandRank != "" {
				fmt.Printf("  %s wins %d with %s\n", w.ID, w.Amount, w.HandRank)
			} else {
				fmt.Printf("  %s wins %d\n", w.ID, w.Amount)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d hands failed to replay", failed, len(c.Files))
	}
	return nil
}
