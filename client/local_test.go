package main

import (
	"bufio"
	"bytes"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/mosaic/game"
)

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed>>1))
}

// scriptGame plays the same seeded game as playLocal and writes the move
// lines it would type.
func scriptGame(t *testing.T, players int, seed uint64) string {
	t.Helper()
	seats := make([]game.Seat, players)
	for i := range seats {
		seats[i] = game.Seat{ID: fmt.Sprintf("p%d", i+1), Name: fmt.Sprintf("Player %d", i+1)}
	}
	g, err := game.New(seats, game.Options{Rand: seededRand(seed)})
	require.NoError(t, err)

	var script strings.Builder
	for moves := 0; g.Phase != game.PhaseGameOver; moves++ {
		require.Less(t, moves, 2000)
		src, c := firstPick(g)
		targets := g.ValidTargets(g.Turn, c)
		line := targets[len(targets)-1]
		srcText := "c"
		if src != game.Center {
			srcText = fmt.Sprint(int(src))
		}
		fmt.Fprintf(&script, "move %s %s %d\n", srcText, c, line)
		g, err = g.Apply(game.Move{Player: g.Turn, Source: src, Color: c, Line: line})
		require.NoError(t, err)
	}
	return script.String()
}

func firstPick(g *game.Game) (game.Source, game.Color) {
	for i, f := range g.Pool.Factories {
		for _, c := range game.AllColors() {
			if f[c] > 0 {
				return game.Source(i), c
			}
		}
	}
	for _, c := range game.AllColors() {
		if g.Pool.Center[c] > 0 {
			return game.Center, c
		}
	}
	panic("empty draft")
}

func TestPlayLocalToGameOver(t *testing.T) {
	script := scriptGame(t, 3, 11)
	var out bytes.Buffer
	require.NoError(t, playLocal(bufio.NewScanner(strings.NewReader(script)), &out, 3, game.Standard, 11))

	text := out.String()
	assert.NotContains(t, text, "rejected:")
	assert.Contains(t, text, "round 2 begins")
	assert.Contains(t, text, "game over (")
}
