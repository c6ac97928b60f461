package game

// MarkerToken is how the starting marker appears in a floor-line view.
const MarkerToken = "marker"

// LineView 图案行的只读视图
type LineView struct {
	Size  int    `json:"size"`
	Color *Color `json:"color"`
	Count int    `json:"count"`
}

// PlayerView is a read-only view of one board.
type PlayerView struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Score     int                        `json:"score"`
	Lines     []LineView                 `json:"patternLines"`
	Wall      [WallSize][WallSize]*Color `json:"wall"`
	Floor     []string                   `json:"floorLine"`
	HasMarker bool                       `json:"hasMarker"`
	Connected bool                       `json:"connected"`
}

// Snapshot is the read-only state handed to renderers.
type Snapshot struct {
	Phase          Phase        `json:"phase"`
	Round          int          `json:"round"`
	Variant        Variant      `json:"variant"`
	Turn           int          `json:"turn"`
	CurrentPlayer  string       `json:"currentPlayer"`
	Players        []PlayerView `json:"players"`
	Factories      [][]Color    `json:"factories"`
	Center         []Color      `json:"center"`
	MarkerInCenter bool         `json:"markerInCenter"`
	BagCount       int          `json:"bagCount"`
	LidCount       int          `json:"lidCount"`
	Result         *Result      `json:"result,omitempty"`
}

// Snapshot builds a view of the game. Every player is reported connected;
// networked callers overwrite Connected from their roster.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		Phase:          g.Phase,
		Round:          g.Round,
		Variant:        g.Variant,
		Turn:           g.Turn,
		Players:        make([]PlayerView, len(g.Players)),
		Factories:      make([][]Color, len(g.Pool.Factories)),
		Center:         expand(g.Pool.Center),
		MarkerInCenter: g.Pool.Marker,
		BagCount:       len(g.Supply.Bag),
		LidCount:       len(g.Supply.Lid),
		Result:         g.Result,
	}
	if g.Turn >= 0 && g.Turn < len(g.Players) {
		s.CurrentPlayer = g.Players[g.Turn].ID
	}
	for i, f := range g.Pool.Factories {
		s.Factories[i] = expand(f)
	}
	for i := range g.Players {
		s.Players[i] = viewBoard(&g.Players[i])
	}
	return s
}

func viewBoard(b *Board) PlayerView {
	v := PlayerView{
		ID:        b.ID,
		Name:      b.Name,
		Score:     b.Score,
		Lines:     make([]LineView, WallSize),
		Floor:     make([]string, 0, len(b.Floor)),
		HasMarker: b.HasMarker,
		Connected: true,
	}
	for row, l := range b.Lines {
		v.Lines[row] = LineView{Size: lineSize(row), Count: l.Count}
		if l.Locked() {
			c := l.Color
			v.Lines[row].Color = &c
		}
	}
	for row := 0; row < WallSize; row++ {
		for col := 0; col < WallSize; col++ {
			if b.Wall[row][col].Filled {
				c := b.Wall[row][col].Color
				v.Wall[row][col] = &c
			}
		}
	}
	for _, slot := range b.Floor {
		if slot.Marker {
			v.Floor = append(v.Floor, MarkerToken)
		} else {
			v.Floor = append(v.Floor, slot.Color.String())
		}
	}
	return v
}

func expand(counts [NumColors]int) []Color {
	tiles := make([]Color, 0)
	for c, n := range counts {
		for i := 0; i < n; i++ {
			tiles = append(tiles, Color(c))
		}
	}
	return tiles
}
