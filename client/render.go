package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/wfunc/mosaic/game"
	"github.com/wfunc/mosaic/network"
)

var colorLetters = map[game.Color]string{
	game.Blue:   "B",
	game.Yellow: "Y",
	game.Red:    "R",
	game.Black:  "K",
	game.White:  "W",
}

func tiles(cs []game.Color) string {
	if len(cs) == 0 {
		return "-"
	}
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// render prints a text view of the table.
func render(w io.Writer, s *game.Snapshot, pending *network.PendingPick) {
	current := ""
	for _, p := range s.Players {
		if p.ID == s.CurrentPlayer {
			current = p.Name
		}
	}
	fmt.Fprintf(w, "\nround %d  %s  %s rules  turn: %s\n", s.Round, s.Phase, s.Variant, current)

	for i, f := range s.Factories {
		fmt.Fprintf(w, "  factory %d: %s\n", i, tiles(f))
	}
	marker := ""
	if s.MarkerInCenter {
		marker = " +marker"
	}
	fmt.Fprintf(w, "  center: %s%s\n", tiles(s.Center), marker)
	fmt.Fprintf(w, "  bag %d  lid %d\n", s.BagCount, s.LidCount)

	for _, p := range s.Players {
		flags := ""
		if p.ID == s.CurrentPlayer {
			flags += " *"
		}
		if !p.Connected {
			flags += " (away)"
		}
		fmt.Fprintf(w, "\n%s  score %d%s\n", p.Name, p.Score, flags)
		for row, l := range p.Lines {
			fmt.Fprintf(w, "  %d %s | %s\n", row, lineCells(l), wallRow(p.Wall[row], row, s.Variant))
		}
		fmt.Fprintf(w, "  floor: %s\n", strings.Join(p.Floor, " "))
	}

	if pending != nil {
		fmt.Fprintf(w, "\nholding %d %s\n", pending.Count, pending.Color)
	}
	if s.Result != nil {
		fmt.Fprintf(w, "\ngame over (%s), winners: %s\n", s.Result.Reason, strings.Join(winnerNames(s), ", "))
		for _, st := range s.Result.Standings {
			fmt.Fprintf(w, "  %-12s %4d  rows %d\n", st.Name, st.Score, st.CompletedRows)
		}
	}
}

// lineCells draws a pattern line right-aligned, as on the board.
func lineCells(l game.LineView) string {
	cells := strings.Repeat(" ", game.WallSize-l.Size) + strings.Repeat(".", l.Size-l.Count)
	if l.Color != nil {
		cells += strings.Repeat(colorLetters[*l.Color], l.Count)
	}
	return cells
}

func wallRow(row [game.WallSize]*game.Color, r int, v game.Variant) string {
	var b strings.Builder
	for col, c := range row {
		switch {
		case c != nil:
			b.WriteString(colorLetters[*c])
		case v == game.Standard:
			b.WriteString(strings.ToLower(colorLetters[game.TemplateColor(r, col)]))
		default:
			b.WriteString(".")
		}
	}
	return b.String()
}

func winnerNames(s *game.Snapshot) []string {
	names := make([]string, 0, len(s.Result.Winners))
	for _, id := range s.Result.Winners {
		for _, p := range s.Players {
			if p.ID == id {
				names = append(names, p.Name)
			}
		}
	}
	return names
}
