package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/wfunc/mosaic/game"
)

// playLocal runs a hot-seat game. Each input is a whole move applied at
// once; a rejected move changes nothing.
func playLocal(in *bufio.Scanner, out io.Writer, players int, v game.Variant, seed uint64) error {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	seats := make([]game.Seat, players)
	for i := range seats {
		seats[i] = game.Seat{ID: fmt.Sprintf("p%d", i+1), Name: fmt.Sprintf("Player %d", i+1)}
	}
	g, err := game.New(seats, game.Options{Variant: v, Rand: rand.New(rand.NewPCG(seed, seed>>1))})
	if err != nil {
		return err
	}

	for g.Phase != game.PhaseGameOver {
		render(out, g.Snapshot(), nil)
		fmt.Fprintf(out, "%s> ", g.Players[g.Turn].Name)
		if !in.Scan() {
			return in.Err()
		}
		cmd, err := parseCommand(in.Text())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		switch cmd.kind {
		case "quit", "leave":
			return nil
		case "move":
		default:
			fmt.Fprintln(out, "local play takes: move <factory#|c> <color> <0-4|floor>")
			continue
		}

		next, err := g.Apply(game.Move{Player: g.Turn, Source: cmd.source, Color: cmd.color, Line: cmd.line})
		if err != nil {
			fmt.Fprintln(out, "rejected:", err)
			continue
		}
		if next.Round != g.Round && next.Phase != game.PhaseGameOver {
			fmt.Fprintf(out, "\nwalls tiled, round %d begins\n", next.Round)
		}
		g = next
	}
	render(out, g.Snapshot(), nil)
	return nil
}
