package game

import "sort"

const (
	RowBonus    = 2
	ColumnBonus = 7
	ColorBonus  = 10
)

// Win reasons reported in Result.
const (
	ReasonScore  = "score"
	ReasonRows   = "horizontal rows"
	ReasonShared = "shared victory"
)

// ScoreTilePlacement scores a tile just placed at (row, col). A tile with no
// neighbours scores 1; otherwise every axis with at least one contiguous
// neighbour contributes its full run length, the new tile included.
func ScoreTilePlacement(w *Wall, row, col int) int {
	h := run(w, row, col, 0, -1) + run(w, row, col, 0, 1)
	v := run(w, row, col, -1, 0) + run(w, row, col, 1, 0)
	if h == 0 && v == 0 {
		return 1
	}
	score := 0
	if h > 0 {
		score += h + 1
	}
	if v > 0 {
		score += v + 1
	}
	return score
}

func run(w *Wall, row, col, dr, dc int) int {
	n := 0
	for r, c := row+dr, col+dc; r >= 0 && r < WallSize && c >= 0 && c < WallSize; r, c = r+dr, c+dc {
		if !w[r][c].Filled {
			break
		}
		n++
	}
	return n
}

// FloorPenalty 计算 n 块地板瓷砖的扣分 (≤ 0)
func FloorPenalty(n int) int {
	penalty := 0
	for i := 0; i < min(n, FloorSize); i++ {
		penalty += floorPenalties[i]
	}
	return penalty
}

// ApplyPenalty adds a (non-positive) penalty and clamps the score at zero.
func ApplyPenalty(score, penalty int) int {
	return max(0, score+penalty)
}

// EndgameBonus 终局奖励: 每整行 +2，每整列 +7，每种颜色集齐 +10
func EndgameBonus(w *Wall) int {
	return w.CompletedRows()*RowBonus + w.CompletedColumns()*ColumnBonus + w.CompletedColors()*ColorBonus
}

// Standing is one player's final line in a Result.
type Standing struct {
	PlayerID      string `json:"playerId"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
	CompletedRows int    `json:"completedRows"`
}

// Result 终局结果
type Result struct {
	Winners   []string   `json:"winners"`
	Reason    string     `json:"reason"`
	Standings []Standing `json:"standings"`
}

// DecideWinners applies the tie-break: highest score wins outright, then the
// most completed wall rows, and any remaining tie is a shared victory.
func DecideWinners(boards []Board) Result {
	standings := make([]Standing, len(boards))
	for i := range boards {
		standings[i] = Standing{
			PlayerID:      boards[i].ID,
			Name:          boards[i].Name,
			Score:         boards[i].Score,
			CompletedRows: boards[i].Wall.CompletedRows(),
		}
	}

	best := -1
	for _, s := range standings {
		best = max(best, s.Score)
	}
	var tied []Standing
	for _, s := range standings {
		if s.Score == best {
			tied = append(tied, s)
		}
	}

	result := Result{Standings: standings}
	sort.SliceStable(result.Standings, func(i, j int) bool {
		return result.Standings[i].Score > result.Standings[j].Score
	})

	if len(tied) == 1 {
		result.Winners = []string{tied[0].PlayerID}
		result.Reason = ReasonScore
		return result
	}

	mostRows := -1
	for _, s := range tied {
		mostRows = max(mostRows, s.CompletedRows)
	}
	for _, s := range tied {
		if s.CompletedRows == mostRows {
			result.Winners = append(result.Winners, s.PlayerID)
		}
	}
	if len(result.Winners) == 1 {
		result.Reason = ReasonRows
	} else {
		result.Reason = ReasonShared
	}
	return result
}
