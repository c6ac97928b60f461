package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tilingGame returns a 2-player game with an empty draft, ready to tile.
func tilingGame(t *testing.T, v Variant) *Game {
	t.Helper()
	g := newTestGame(t, 2, v)
	g.Pool = newDraftPool(2)
	g.Phase = PhaseTiling
	return g
}

func TestTileWallsMovesCompleteLines(t *testing.T) {
	g := tilingGame(t, Standard)
	b := &g.Players[0]
	b.Lines[2] = PatternLine{Color: Red, Count: 3}
	b.Lines[3] = PatternLine{Color: Blue, Count: 2}
	b.Floor = []FloorSlot{{Marker: true}, {Color: Yellow}, {Color: Yellow}}
	b.HasMarker = true
	b.Score = 6
	g.NextStartPlayer = 0
	lid := len(g.Supply.Lid)

	next, err := g.TileWalls()
	require.NoError(t, err)
	nb := next.Players[0]

	assert.Equal(t, Cell{Filled: true, Color: Red}, nb.Wall[2][WallColumn(2, Red)])
	assert.Equal(t, PatternLine{}, nb.Lines[2])
	assert.Equal(t, PatternLine{Color: Blue, Count: 2}, nb.Lines[3], "incomplete lines carry over")
	assert.Empty(t, nb.Floor)
	// 6 + 1 for the isolated tile - 4 for three floor slots
	assert.Equal(t, 3, nb.Score)
	// two spare red tiles and two yellow floor tiles; the marker is not a tile
	assert.Len(t, next.Supply.Lid, lid+4)
	assert.Equal(t, PhaseRoundPrep, next.Phase)
	assert.Equal(t, PhaseTiling, g.Phase, "receiver untouched")
}

func TestTileWallsClampsScore(t *testing.T) {
	g := tilingGame(t, Standard)
	b := &g.Players[1]
	b.Score = 3
	for i := 0; i < FloorSize; i++ {
		b.Floor = append(b.Floor, FloorSlot{Color: Black})
	}

	next, err := g.TileWalls()
	require.NoError(t, err)
	assert.Equal(t, 0, next.Players[1].Score)
}

func TestTileWallsGrayWallFirstFit(t *testing.T) {
	g := tilingGame(t, GrayWall)
	b := &g.Players[0]
	b.Wall[1][0] = Cell{Filled: true, Color: Red}
	b.Lines[0] = PatternLine{Color: Red, Count: 1}

	next, err := g.TileWalls()
	require.NoError(t, err)
	assert.False(t, next.Players[0].Wall[0][0].Filled, "column 0 already holds red")
	assert.Equal(t, Cell{Filled: true, Color: Red}, next.Players[0].Wall[0][1])
	// (0,1) touches nothing horizontally; (1,1) is empty, so it scores alone
	assert.Equal(t, 1, next.Players[0].Score)
}

func TestTileWallsGrayWallNoColumnGoesToFloor(t *testing.T) {
	g := tilingGame(t, GrayWall)
	b := &g.Players[0]
	b.Wall[0][0] = Cell{Filled: true, Color: Blue}
	b.Wall[0][1] = Cell{Filled: true, Color: Yellow}
	b.Wall[0][2] = Cell{Filled: true, Color: Black}
	b.Wall[0][3] = Cell{Filled: true, Color: White}
	b.Wall[1][4] = Cell{Filled: true, Color: Red}
	b.Lines[0] = PatternLine{Color: Red, Count: 1}
	lid := len(g.Supply.Lid)

	next, err := g.TileWalls()
	require.NoError(t, err)
	nb := next.Players[0]
	assert.False(t, nb.Wall[0][4].Filled)
	assert.Equal(t, PatternLine{}, nb.Lines[0])
	assert.Empty(t, nb.Floor)
	assert.Equal(t, 0, nb.Score)
	assert.Len(t, next.Supply.Lid, lid+1)
}

func TestPrepareRound(t *testing.T) {
	g := tilingGame(t, Standard)
	g.Players[1].HasMarker = true
	g.NextStartPlayer = 1
	g.Phase = PhaseRoundPrep

	next, err := g.PrepareRound()
	require.NoError(t, err)
	assert.Equal(t, PhaseDraft, next.Phase)
	assert.Equal(t, 2, next.Round)
	assert.Equal(t, 1, next.Turn)
	assert.Equal(t, 1, next.StartPlayer)
	assert.Equal(t, -1, next.NextStartPlayer)
	assert.True(t, next.Pool.Marker)
	assert.False(t, next.Players[1].HasMarker)
	for _, f := range next.Pool.Factories {
		assert.Equal(t, FactorySize, f.Len())
	}

	_, err = next.PrepareRound()
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestPrepareRoundKeepsStarterWhenMarkerUnclaimed(t *testing.T) {
	g := tilingGame(t, Standard)
	g.StartPlayer = 1
	g.Turn = 0
	g.Phase = PhaseRoundPrep

	next, err := g.PrepareRound()
	require.NoError(t, err)
	assert.Equal(t, 1, next.Turn)
}

func TestCompletedRowEndsGame(t *testing.T) {
	g := tilingGame(t, Standard)
	b := &g.Players[0]
	for col := 0; col < WallSize-1; col++ {
		fill(&b.Wall, [2]int{0, col})
	}
	b.Lines[0] = PatternLine{Color: TemplateColor(0, 4), Count: 1}
	g.Players[1].Score = 6

	next, err := g.Settle()
	require.NoError(t, err)
	assert.Equal(t, PhaseGameOver, next.Phase)
	// run of 5 scores 5, plus the row bonus
	assert.Equal(t, 5+RowBonus, next.Players[0].Score)
	require.NotNil(t, next.Result)
	assert.Equal(t, []string{"p1"}, next.Result.Winners)
	assert.Equal(t, ReasonScore, next.Result.Reason)

	_, err = next.Apply(Move{Player: next.Turn, Source: Center, Color: Red, Line: FloorLine})
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestSnapshotViews(t *testing.T) {
	g := newTestGame(t, 2, Standard)
	g.Players[0].Lines[1] = PatternLine{Color: Red, Count: 1}
	g.Players[0].Floor = []FloorSlot{{Marker: true}, {Color: White}}
	g.Players[0].Wall[0][2] = Cell{Filled: true, Color: Red}

	s := g.Snapshot()
	require.Len(t, s.Players, 2)
	p := s.Players[0]
	assert.Equal(t, "p1", s.CurrentPlayer)
	assert.Nil(t, p.Lines[0].Color)
	require.NotNil(t, p.Lines[1].Color)
	assert.Equal(t, Red, *p.Lines[1].Color)
	assert.Equal(t, 2, p.Lines[1].Size)
	assert.Equal(t, []string{MarkerToken, "white"}, p.Floor)
	require.NotNil(t, p.Wall[0][2])
	assert.Equal(t, Red, *p.Wall[0][2])
	assert.Len(t, s.Factories, 5)
	assert.True(t, s.MarkerInCenter)
	assert.Equal(t, len(g.Supply.Bag), s.BagCount)
}
