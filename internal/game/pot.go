package game

import "sort"

// PotLayer is one layer of the pot: an amount and the seats eligible to win
// it. Folded players fund layers but are never eligible.
type PotLayer struct {
	Amount   int
	Eligible []int
}

// Pot is the final pot structure for a hand: a main pot and zero or more
// side pots. It is built once, at the point contested chips are awarded,
// and never mutated afterwards.
type Pot struct {
	Layers []PotLayer
}

// Main returns the main pot amount.
func (p Pot) Main() int {
	if len(p.Layers) == 0 {
		return 0
	}
	return p.Layers[0].Amount
}

// SidePots returns the side pot layers above the main pot.
func (p Pot) SidePots() []PotLayer {
	if len(p.Layers) <= 1 {
		return nil
	}
	return p.Layers[1:]
}

// Total returns the sum of all layers.
func (p Pot) Total() int {
	total := 0
	for _, l := range p.Layers {
		total += l.Amount
	}
	return total
}

// BuildPots turns the players' total investments into a main pot and side
// pots. Thresholds are the distinct invested totals in ascending order;
// each successive layer holds (threshold - previous) chips from every
// player who invested at least that much. A folded player's chips stay in
// whichever layers their investment reaches, but eligibility is limited to
// non-folded players. Adjacent layers with identical eligibility (which
// arise from folded players' partial investments) are merged, so the layer
// count matches the distinct all-in levels actually contested.
func BuildPots(players []*Player) Pot {
	thresholds := make([]int, 0, len(players))
	seen := make(map[int]struct{}, len(players))
	for _, p := range players {
		if p.TotalInvested > 0 {
			if _, ok := seen[p.TotalInvested]; !ok {
				seen[p.TotalInvested] = struct{}{}
				thresholds = append(thresholds, p.TotalInvested)
			}
		}
	}
	sort.Ints(thresholds)

	var layers []PotLayer
	prev := 0
	for _, threshold := range thresholds {
		layer := PotLayer{}
		for _, p := range players {
			if p.TotalInvested >= threshold {
				layer.Amount += threshold - prev
				if !p.Folded {
					layer.Eligible = append(layer.Eligible, p.Seat)
				}
			}
		}
		prev = threshold

		if layer.Amount == 0 {
			continue
		}
		if n := len(layers); n > 0 && equalSeats(layers[n-1].Eligible, layer.Eligible) {
			layers[n-1].Amount += layer.Amount
			continue
		}
		layers = append(layers, layer)
	}

	return Pot{Layers: layers}
}

func equalSeats(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
