package game

import (
	"sort"

	"github.com/chehsunliu/poker"
)

// resolve builds the final pot and awards every layer. When the hand ended
// with a fold-out, or a layer has a single eligible player, chips move
// without evaluating or revealing anybody's cards. Contested layers go to
// the best seven-card hand among the eligible players; ties split the
// layer, with odd chips going to the winners closest to the dealer's left.
func (c *Core) resolve() (StepResult, error) {
	g := c.state

	pot := BuildPots(g.Players)
	g.FinalPot = &pot

	ranks := c.evaluateShowdown()

	won := make(map[int]int, len(g.Players))
	for _, layer := range pot.Layers {
		winners := layerWinners(layer, ranks)
		share := layer.Amount / len(winners)
		odd := layer.Amount % len(winners)

		sortBySeatFromDealer(winners, g.Dealer, len(g.Players))
		for i, seat := range winners {
			amount := share
			if i < odd {
				amount++
			}
			won[seat] += amount
		}
	}

	winners := make([]WinnerInfo, 0, len(won))
	for seat, amount := range won {
		p := g.Players[seat]
		p.Stack += amount
		info := WinnerInfo{Seat: seat, ID: p.ID, Amount: amount}
		if rank, ok := ranks[seat]; ok {
			info.HandRank = poker.RankString(rank)
		}
		winners = append(winners, info)
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i].Seat < winners[j].Seat })

	g.Committed = 0
	g.Phase = EndHand

	for _, w := range winners {
		c.logger.Info("pot awarded",
			"hand", g.HandID, "player", w.ID, "amount", w.Amount, "rank", w.HandRank)
	}

	res := c.result(EventPotAwarded)
	res.Winners = winners
	return res, nil
}

// evaluateShowdown ranks the seven-card hand of every player still in
// contention. A fold-out needs no evaluation and reveals nothing.
func (c *Core) evaluateShowdown() map[int]int32 {
	g := c.state
	if g.foldedOut() {
		return nil
	}

	board := make([]poker.Card, len(g.Board))
	for i, card := range g.Board {
		board[i] = poker.NewCard(card.String())
	}

	ranks := make(map[int]int32)
	for _, p := range g.Players {
		if p.Folded {
			continue
		}
		cards := make([]poker.Card, 0, 7)
		cards = append(cards, board...)
		for _, hc := range p.HoleCards {
			cards = append(cards, poker.NewCard(hc.String()))
		}
		ranks[p.Seat] = poker.Evaluate(cards)
	}
	return ranks
}

// layerWinners picks the eligible seats with the best rank. Lower ranks
// are stronger. Without ranks (fold-out) the single eligible seat wins.
func layerWinners(layer PotLayer, ranks map[int]int32) []int {
	if len(layer.Eligible) == 1 || ranks == nil {
		return append([]int(nil), layer.Eligible...)
	}

	best := ranks[layer.Eligible[0]]
	for _, seat := range layer.Eligible[1:] {
		if ranks[seat] < best {
			best = ranks[seat]
		}
	}

	var winners []int
	for _, seat := range layer.Eligible {
		if ranks[seat] == best {
			winners = append(winners, seat)
		}
	}
	return winners
}

// sortBySeatFromDealer orders seats by table position starting left of the
// dealer, the order in which odd chips are handed out.
func sortBySeatFromDealer(seats []int, dealer, numSeats int) {
	pos := func(seat int) int {
		return ((seat - dealer - 1) % numSeats + numSeats) % numSeats
	}
	sort.Slice(seats, func(i, j int) bool { return pos(seats[i]) < pos(seats[j]) })
}
