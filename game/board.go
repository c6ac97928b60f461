package game

// PatternLine is a staging row. Tiles are identity-less, so a line is its
// locked color plus a count; Count == 0 means the line is unlocked.
type PatternLine struct {
	Color Color
	Count int
}

func (l PatternLine) Locked() bool {
	return l.Count > 0
}

// Cell 墙上的一个格子
type Cell struct {
	Filled bool
	Color  Color
}

// Wall is a player's permanent 5x5 scoring grid.
type Wall [WallSize][WallSize]Cell

// FloorSlot holds either a tile or the starting marker.
type FloorSlot struct {
	Color  Color `json:"color"`
	Marker bool  `json:"marker,omitempty"`
}

// Board 玩家面板
type Board struct {
	ID        string
	Name      string
	Lines     [WallSize]PatternLine
	Wall      Wall
	Floor     []FloorSlot
	Score     int
	HasMarker bool
}

func lineSize(row int) int {
	return row + 1
}

func (w *Wall) RowHas(row int, c Color) bool {
	for col := 0; col < WallSize; col++ {
		if w[row][col].Filled && w[row][col].Color == c {
			return true
		}
	}
	return false
}

func (w *Wall) ColumnHas(col int, c Color) bool {
	for row := 0; row < WallSize; row++ {
		if w[row][col].Filled && w[row][col].Color == c {
			return true
		}
	}
	return false
}

// CompletedRows 统计已填满的横行数
func (w *Wall) CompletedRows() int {
	n := 0
	for row := 0; row < WallSize; row++ {
		full := true
		for col := 0; col < WallSize; col++ {
			if !w[row][col].Filled {
				full = false
				break
			}
		}
		if full {
			n++
		}
	}
	return n
}

func (w *Wall) CompletedColumns() int {
	n := 0
	for col := 0; col < WallSize; col++ {
		full := true
		for row := 0; row < WallSize; row++ {
			if !w[row][col].Filled {
				full = false
				break
			}
		}
		if full {
			n++
		}
	}
	return n
}

// CompletedColors counts colors with all five of their tiles on the wall.
func (w *Wall) CompletedColors() int {
	var counts [NumColors]int
	for row := 0; row < WallSize; row++ {
		for col := 0; col < WallSize; col++ {
			if w[row][col].Filled {
				counts[w[row][col].Color]++
			}
		}
	}
	n := 0
	for _, c := range counts {
		if c == WallSize {
			n++
		}
	}
	return n
}

// targetColumn picks the wall column a completed line of color c moves to.
// The standard wall uses the template; the gray wall takes the first empty
// column in the row whose column does not already hold c.
func (w *Wall) targetColumn(row int, c Color, v Variant) (int, bool) {
	if v == GrayWall {
		for col := 0; col < WallSize; col++ {
			if !w[row][col].Filled && !w.ColumnHas(col, c) {
				return col, true
			}
		}
		return 0, false
	}
	col := WallColumn(row, c)
	if w[row][col].Filled {
		return 0, false
	}
	return col, true
}

// CanPlace reports whether tiles of color c may go onto pattern line row.
// The floor (row -1) always accepts.
func (b *Board) CanPlace(row int, c Color, v Variant) bool {
	if row == FloorLine {
		return true
	}
	if row < 0 || row >= WallSize || !c.Valid() {
		return false
	}
	line := b.Lines[row]
	if line.Count >= lineSize(row) {
		return false
	}
	if line.Locked() && line.Color != c {
		return false
	}
	if v == GrayWall {
		return !b.Wall.RowHas(row, c)
	}
	return !b.Wall[row][WallColumn(row, c)].Filled
}

// addToLine appends up to the line's remaining capacity and returns the
// number of tiles that did not fit.
func (b *Board) addToLine(row int, c Color, n int) int {
	line := &b.Lines[row]
	room := lineSize(row) - line.Count
	placed := min(room, n)
	if placed > 0 {
		line.Color = c
		line.Count += placed
	}
	return n - placed
}

// addToFloor fills free floor slots and returns the number of tiles that
// overflowed past the last slot.
func (b *Board) addToFloor(c Color, n int) int {
	for n > 0 && len(b.Floor) < FloorSize {
		b.Floor = append(b.Floor, FloorSlot{Color: c})
		n--
	}
	return n
}

func (b *Board) addMarkerToFloor() {
	if len(b.Floor) < FloorSize {
		b.Floor = append(b.Floor, FloorSlot{Marker: true})
	}
}

func (b *Board) count(c Color) int {
	n := 0
	for _, l := range b.Lines {
		if l.Locked() && l.Color == c {
			n += l.Count
		}
	}
	for row := 0; row < WallSize; row++ {
		for col := 0; col < WallSize; col++ {
			if b.Wall[row][col].Filled && b.Wall[row][col].Color == c {
				n++
			}
		}
	}
	for _, s := range b.Floor {
		if !s.Marker && s.Color == c {
			n++
		}
	}
	return n
}

func (b Board) clone() Board {
	b.Floor = append([]FloorSlot(nil), b.Floor...)
	return b
}
