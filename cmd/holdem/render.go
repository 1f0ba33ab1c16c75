package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stakmachine/holdem/internal/deck"
	"github.com/stakmachine/holdem/internal/game"
)

// tableStyles contains the styling for terminal table output.
type tableStyles struct {
	Header    lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Pot       lipgloss.Style
	Turn      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
}

func newTableStyles() *tableStyles {
	return &tableStyles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		RedCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Pot: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Turn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
	}
}

func (s *tableStyles) card(c deck.Card) string {
	if c.IsRed() {
		return s.RedCard.Render(c.Pretty())
	}
	return s.BlackCard.Render(c.Pretty())
}

func (s *tableStyles) cards(cards []deck.Card) string {
	if len(cards) == 0 {
		return s.Muted.Render("--")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = s.card(c)
	}
	return strings.Join(parts, " ")
}

// renderTable draws the full table for one decision point.
func (s *tableStyles) renderTable(snap game.Snapshot) string {
	var b strings.Builder

	b.WriteString(s.Header.Render(fmt.Sprintf(" %s ", snap.Street)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "board: %s   %s\n", s.cards(snap.Board),
		s.Pot.Render(fmt.Sprintf("pot %d", snap.Pot)))

	for _, p := range snap.Players {
		marker := "  "
		if p.Seat == snap.Dealer {
			marker = "D "
		}
		line := fmt.Sprintf("%s%-10s stack %5d  bet %4d", marker, p.ID, p.Stack, p.StreetBet)
		switch {
		case p.Folded:
			line += "  folded"
			b.WriteString(s.Muted.Render(line))
		case p.AllIn:
			line += "  all-in"
			b.WriteString(s.Pot.Render(line))
		case p.Seat == snap.ActionIndex:
			if len(p.HoleCards) > 0 {
				line += "  " + s.cards(p.HoleCards)
			}
			b.WriteString(s.Turn.Render(line + "  <- to act"))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if len(snap.LegalActions) > 0 {
		b.WriteString(s.Muted.Render("actions: " + describeActions(snap.LegalActions)))
		b.WriteString("\n")
	}
	return b.String()
}

func describeActions(actions []game.ValidAction) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		switch a.Type {
		case game.Bet, game.Raise:
			parts = append(parts, fmt.Sprintf("%s %d-%d", a.Type, a.Min, a.Max))
		default:
			parts = append(parts, a.Type.String())
		}
	}
	return strings.Join(parts, ", ")
}

// renderWinners draws the end-of-hand award line.
func (s *tableStyles) renderWinners(winners []game.WinnerInfo) string {
	var b strings.Builder
	for _, w := range winners {
		line := fmt.Sprintf("%s wins %d", w.ID, w.Amount)
		if w.HandRank != "" {
			line += " with " + w.HandRank
		}
		b.WriteString(s.Success.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
