package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/mosaic/game"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  command
	}{
		{"join Ada Lovelace", command{kind: "join", name: "Ada Lovelace"}},
		{"start", command{kind: "start"}},
		{"pick 3 red", command{kind: "pick", source: 3, color: game.Red}},
		{"PICK c Blue", command{kind: "pick", source: game.Center, color: game.Blue}},
		{"place floor", command{kind: "place", line: game.FloorLine}},
		{"place 4", command{kind: "place", line: 4}},
		{"move center white 0", command{kind: "move", source: game.Center, color: game.White}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseCommand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	for _, input := range []string{"", "join", "pick 1", "pick x red", "pick 1 purple", "place 5", "place -2", "dance"} {
		_, err := parseCommand(input)
		assert.Error(t, err, input)
	}
}

func TestRenderSnapshot(t *testing.T) {
	g, err := game.New([]game.Seat{{ID: "a", Name: "Ada"}, {ID: "b", Name: "Bo"}},
		game.Options{Rand: seededRand(1)})
	require.NoError(t, err)

	var out bytes.Buffer
	render(&out, g.Snapshot(), nil)
	text := out.String()
	assert.Contains(t, text, "round 1  draft  standard rules  turn: Ada")
	assert.Contains(t, text, "factory 4:")
	assert.Contains(t, text, "center: - +marker")
	assert.Contains(t, text, "Ada  score 0 *")
	assert.Contains(t, text, "  0     . | bykrw")
}

func TestPlayLocalRejectsThenQuits(t *testing.T) {
	in := bufio.NewScanner(strings.NewReader("pick 0 red\nmove c red 0\nquit\n"))
	var out bytes.Buffer
	require.NoError(t, playLocal(in, &out, 2, game.Standard, 5))
	assert.Contains(t, out.String(), "local play takes")
	assert.Contains(t, out.String(), "rejected:")
}
