package game

import (
	"fmt"
	"strings"
)

// Phase 游戏阶段
type Phase uint8

const (
	PhaseDraft Phase = iota
	PhaseTiling
	PhaseRoundPrep
	PhaseGameOver
)

var phaseNames = [...]string{"draft", "tiling", "round_prep", "game_over"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Variant selects the wall rules.
type Variant uint8

const (
	Standard Variant = iota
	// GrayWall lets a tile go to any empty column of its row as long as the
	// column does not already hold that color.
	GrayWall
)

func (v Variant) String() string {
	if v == GrayWall {
		return "gray"
	}
	return "standard"
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVariant accepts "standard" (or "") and "gray".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return Standard, nil
	case "gray", "grey":
		return GrayWall, nil
	}
	return Standard, fmt.Errorf("unknown variant %q", s)
}

// FloorLine is the target line index of the floor.
const FloorLine = -1

// Seat names a player taking part in a new game.
type Seat struct {
	ID   string
	Name string
}

// Options 创建游戏的参数
type Options struct {
	Variant Variant
	Rand    Random
}

// Game is the full rule state of one session. Exported transition methods
// never modify their receiver; they return the next state or an error.
type Game struct {
	Phase   Phase
	Round   int
	Variant Variant
	Players []Board
	Turn    int
	// StartPlayer began the current round; NextStartPlayer claimed the
	// marker this round, or is -1 while it is still in the center.
	StartPlayer     int
	NextStartPlayer int
	Supply          Supply
	Pool            DraftPool
	Result          *Result
}

// New 创建一局新游戏并发好第一轮的工厂
func New(seats []Seat, opts Options) (*Game, error) {
	if len(seats) < 2 || len(seats) > 4 {
		return nil, fmt.Errorf("%w: got %d", ErrPlayerCount, len(seats))
	}
	if opts.Rand == nil {
		return nil, fmt.Errorf("game: options need a random source")
	}
	g := &Game{
		Phase:           PhaseDraft,
		Round:           1,
		Variant:         opts.Variant,
		Players:         make([]Board, len(seats)),
		NextStartPlayer: -1,
		Supply:          NewSupply(opts.Rand),
		Pool:            newDraftPool(len(seats)),
	}
	for i, s := range seats {
		g.Players[i] = Board{ID: s.ID, Name: s.Name}
	}
	g.Pool.Fill(&g.Supply)
	return g, nil
}

// Clone returns a deep copy sharing only the random source.
func (g *Game) Clone() *Game {
	c := *g
	c.Players = make([]Board, len(g.Players))
	for i := range g.Players {
		c.Players[i] = g.Players[i].clone()
	}
	c.Supply = g.Supply.clone()
	c.Pool = g.Pool.clone()
	if g.Result != nil {
		r := *g.Result
		r.Winners = append([]string(nil), g.Result.Winners...)
		r.Standings = append([]Standing(nil), g.Result.Standings...)
		c.Result = &r
	}
	return &c
}

// PlayerIndex returns the seat index of the player with the given id.
func (g *Game) PlayerIndex(id string) (int, bool) {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// CountColor counts tiles of color c in every location the game owns.
func (g *Game) CountColor(c Color) int {
	n := g.Supply.count(c) + g.Pool.count(c)
	for i := range g.Players {
		n += g.Players[i].count(c)
	}
	return n
}

// CheckConservation verifies that every color still totals TilesPerColor,
// counting held tiles that are between pickup and placement.
func (g *Game) CheckConservation(held ...Hand) error {
	for _, c := range AllColors() {
		n := g.CountColor(c)
		for _, h := range held {
			if h.Color == c {
				n += h.Count
			}
		}
		if n != TilesPerColor {
			return fmt.Errorf("conservation broken: %d %s tiles, want %d", n, c, TilesPerColor)
		}
	}
	return nil
}
