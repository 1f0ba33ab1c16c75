package simulator

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/stakmachine/holdem/internal/game"
)

// HandOutcome is one completed hand's contribution to batch statistics.
type HandOutcome struct {
	Seed          int64
	Dealer        int
	Pot           int
	Showdown      bool
	StreetReached game.Street
	Winners       []string
}

// Stats aggregates a batch. Pot sizes are tracked in big blinds so runs
// with different stakes compare directly.
type Stats struct {
	bigBlind int

	Hands    int
	Failed   int
	Showdown int
	FoldOuts int

	SumPotBB  float64
	SumPotBB2 float64 // sum of squares, for variance
	MaxPot    int
	BigPots   int // pots of at least 50bb

	StreetCounts [4]int // furthest street reached, indexed by game.Street
	WinsByPlayer map[string]int

	Elapsed time.Duration
}

// NewStats creates an empty aggregate for the given stake.
func NewStats(bigBlind int) *Stats {
	return &Stats{bigBlind: bigBlind, WinsByPlayer: make(map[string]int)}
}

func (s *Stats) add(o HandOutcome) {
	s.Hands++
	if o.Showdown {
		s.Showdown++
	} else {
		s.FoldOuts++
	}

	potBB := float64(o.Pot) / float64(s.bigBlind)
	s.SumPotBB += potBB
	s.SumPotBB2 += potBB * potBB
	if o.Pot > s.MaxPot {
		s.MaxPot = o.Pot
	}
	if potBB >= 50 {
		s.BigPots++
	}

	s.StreetCounts[o.StreetReached]++
	for _, id := range o.Winners {
		s.WinsByPlayer[id]++
	}
}

// MeanPotBB returns the average pot in big blinds.
func (s *Stats) MeanPotBB() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumPotBB / float64(s.Hands)
}

// StdDevPotBB returns the sample standard deviation of pot sizes.
func (s *Stats) StdDevPotBB() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.MeanPotBB()
	variance := (s.SumPotBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// HandsPerSecond returns batch throughput, 0 when no time elapsed.
func (s *Stats) HandsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Hands) / s.Elapsed.Seconds()
}

// ShowdownRate returns the fraction of hands that reached showdown.
func (s *Stats) ShowdownRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Showdown) / float64(s.Hands)
}

// Summary renders a human-readable report.
func (s *Stats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "hands: %d (%d failed)\n", s.Hands, s.Failed)
	fmt.Fprintf(&b, "throughput: %.0f hands/s over %s\n", s.HandsPerSecond(), s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "showdown rate: %.1f%%  fold-outs: %d\n", 100*s.ShowdownRate(), s.FoldOuts)
	fmt.Fprintf(&b, "avg pot: %.1fbb (stddev %.1f)  max pot: %d  pots >= 50bb: %d\n",
		s.MeanPotBB(), s.StdDevPotBB(), s.MaxPot, s.BigPots)

	for street := game.Preflop; street <= game.River; street++ {
		fmt.Fprintf(&b, "ended on %s: %d\n", street, s.StreetCounts[street])
	}

	ids := make([]string, 0, len(s.WinsByPlayer))
	for id := range s.WinsByPlayer {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "wins %s: %d\n", id, s.WinsByPlayer[id])
	}
	return b.String()
}
