package game

import "fmt"

// TileWalls moves every completed pattern line to its wall, scores it,
// applies floor penalties and then either ends the game or enters
// PhaseRoundPrep.
func (g *Game) TileWalls() (*Game, error) {
	next := g.Clone()
	if err := next.tileWalls(); err != nil {
		return nil, err
	}
	return next, nil
}

// PrepareRound refills the factories and starts the next draft.
func (g *Game) PrepareRound() (*Game, error) {
	next := g.Clone()
	if err := next.prepareRound(); err != nil {
		return nil, err
	}
	return next, nil
}

// Settle runs the automatic phases until the game is back in PhaseDraft or
// over.
func (g *Game) Settle() (*Game, error) {
	next := g.Clone()
	if err := next.settle(); err != nil {
		return nil, err
	}
	return next, nil
}

func (g *Game) settle() error {
	for {
		switch g.Phase {
		case PhaseTiling:
			if err := g.tileWalls(); err != nil {
				return err
			}
		case PhaseRoundPrep:
			if err := g.prepareRound(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (g *Game) tileWalls() error {
	if g.Phase != PhaseTiling {
		return fmt.Errorf("%w: %s", ErrInvalidPhase, g.Phase)
	}
	for i := range g.Players {
		g.tileBoard(&g.Players[i])
	}
	for i := range g.Players {
		if g.Players[i].Wall.CompletedRows() > 0 {
			g.finish()
			return nil
		}
	}
	g.Phase = PhaseRoundPrep
	return nil
}

// tileBoard 处理单个玩家的墙面铺砖。未完成的图案行保留到下一轮。
func (g *Game) tileBoard(b *Board) {
	for row := 0; row < WallSize; row++ {
		line := b.Lines[row]
		if !line.Locked() || line.Count != lineSize(row) {
			continue
		}
		col, ok := b.Wall.targetColumn(row, line.Color, g.Variant)
		if !ok {
			g.Supply.DiscardN(line.Color, b.addToFloor(line.Color, line.Count))
			b.Lines[row] = PatternLine{}
			continue
		}
		b.Wall[row][col] = Cell{Filled: true, Color: line.Color}
		b.Score += ScoreTilePlacement(&b.Wall, row, col)
		g.Supply.DiscardN(line.Color, line.Count-1)
		b.Lines[row] = PatternLine{}
	}

	if len(b.Floor) == 0 {
		return
	}
	b.Score = ApplyPenalty(b.Score, FloorPenalty(len(b.Floor)))
	for _, s := range b.Floor {
		if !s.Marker {
			g.Supply.Discard(s.Color)
		}
	}
	b.Floor = nil
}

func (g *Game) prepareRound() error {
	if g.Phase != PhaseRoundPrep {
		return fmt.Errorf("%w: %s", ErrInvalidPhase, g.Phase)
	}
	g.Pool.Fill(&g.Supply)
	for i := range g.Players {
		g.Players[i].HasMarker = false
	}
	if g.NextStartPlayer >= 0 {
		g.StartPlayer = g.NextStartPlayer
	}
	g.NextStartPlayer = -1
	g.Turn = g.StartPlayer
	g.Round++
	g.Phase = PhaseDraft
	// Bag and lid both ran dry: nothing left to draft.
	if g.Pool.Empty() {
		g.finish()
	}
	return nil
}

func (g *Game) finish() {
	for i := range g.Players {
		g.Players[i].Score += EndgameBonus(&g.Players[i].Wall)
	}
	result := DecideWinners(g.Players)
	g.Result = &result
	g.Phase = PhaseGameOver
}
