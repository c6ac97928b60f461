package game

import "fmt"

// Hand is the group of tiles a player holds between a pickup and its
// placement.
type Hand struct {
	Player int
	Color  Color
	Count  int
}

func (h Hand) Empty() bool {
	return h.Count == 0
}

// Move is a complete local turn: take color from source and put it on line.
// Tiles the line cannot absorb go to the floor.
type Move struct {
	Player int
	Source Source
	Color  Color
	Line   int
}

// Pickup takes every tile of color c from src for player. The first center
// pick of a round also claims the starting marker.
func (g *Game) Pickup(player int, src Source, c Color) (*Game, Hand, error) {
	next := g.Clone()
	h, err := next.pickup(player, src, c)
	if err != nil {
		return nil, Hand{}, err
	}
	return next, h, nil
}

// Place puts the held tiles onto pattern line `line` (or the floor) and
// returns what the line could not absorb. Placing on the floor consumes
// the whole hand.
func (g *Game) Place(h Hand, line int) (*Game, Hand, error) {
	next := g.Clone()
	rest, err := next.place(h, line)
	if err != nil {
		return nil, Hand{}, err
	}
	return next, rest, nil
}

// EndTurn closes the current player's turn once their pick is fully placed.
// When the draft is exhausted the game enters PhaseTiling.
func (g *Game) EndTurn() (*Game, error) {
	next := g.Clone()
	if err := next.endTurn(); err != nil {
		return nil, err
	}
	return next, nil
}

// FinishTurn is EndTurn followed by Settle.
func (g *Game) FinishTurn() (*Game, error) {
	next := g.Clone()
	if err := next.endTurn(); err != nil {
		return nil, err
	}
	if err := next.settle(); err != nil {
		return nil, err
	}
	return next, nil
}

// Apply runs a whole local move atomically: pickup, placement with floor
// overflow, end of turn and any wall-tiling or round preparation it
// triggers. On error the receiver is untouched and nil is returned.
func (g *Game) Apply(m Move) (*Game, error) {
	next := g.Clone()
	h, err := next.pickup(m.Player, m.Source, m.Color)
	if err != nil {
		return nil, err
	}
	rest, err := next.place(h, m.Line)
	if err != nil {
		return nil, err
	}
	if !rest.Empty() {
		if _, err := next.place(rest, FloorLine); err != nil {
			return nil, err
		}
	}
	if err := next.endTurn(); err != nil {
		return nil, err
	}
	if err := next.settle(); err != nil {
		return nil, err
	}
	return next, nil
}

// ValidTargets lists the lines player may place color c on, floor first.
func (g *Game) ValidTargets(player int, c Color) []int {
	if g.Phase != PhaseDraft || player < 0 || player >= len(g.Players) {
		return []int{}
	}
	return ValidTargets(&g.Players[player], c, g.Variant)
}

// ValidTargets 返回可放置的行 (总是包含地板 -1)
func ValidTargets(b *Board, c Color, v Variant) []int {
	targets := []int{FloorLine}
	for row := 0; row < WallSize; row++ {
		if b.CanPlace(row, c, v) {
			targets = append(targets, row)
		}
	}
	return targets
}

func (g *Game) checkTurn(player int) error {
	if g.Phase != PhaseDraft {
		return fmt.Errorf("%w: %s", ErrInvalidPhase, g.Phase)
	}
	if player != g.Turn {
		return fmt.Errorf("%w: player %d acted on player %d's turn", ErrNotYourTurn, player, g.Turn)
	}
	return nil
}

func (g *Game) pickup(player int, src Source, c Color) (Hand, error) {
	if err := g.checkTurn(player); err != nil {
		return Hand{}, err
	}
	n, claimed, err := g.Pool.Take(src, c)
	if err != nil {
		return Hand{}, err
	}
	if claimed {
		b := &g.Players[player]
		b.HasMarker = true
		b.addMarkerToFloor()
		g.NextStartPlayer = player
	}
	return Hand{Player: player, Color: c, Count: n}, nil
}

func (g *Game) place(h Hand, line int) (Hand, error) {
	if err := g.checkTurn(h.Player); err != nil {
		return Hand{}, err
	}
	if h.Count <= 0 || !h.Color.Valid() {
		return Hand{}, fmt.Errorf("%w: no tiles held", ErrInvalidTarget)
	}
	if line < FloorLine || line >= WallSize {
		return Hand{}, fmt.Errorf("%w: line %d out of range", ErrInvalidTarget, line)
	}
	b := &g.Players[h.Player]
	if !b.CanPlace(line, h.Color, g.Variant) {
		return Hand{}, fmt.Errorf("%w: line %d cannot take %s", ErrInvalidTarget, line, h.Color)
	}
	if line == FloorLine {
		g.Supply.DiscardN(h.Color, b.addToFloor(h.Color, h.Count))
		return Hand{Player: h.Player, Color: h.Color}, nil
	}
	return Hand{Player: h.Player, Color: h.Color, Count: b.addToLine(line, h.Color, h.Count)}, nil
}

func (g *Game) endTurn() error {
	if g.Phase != PhaseDraft {
		return fmt.Errorf("%w: %s", ErrInvalidPhase, g.Phase)
	}
	if g.Pool.Empty() {
		g.Phase = PhaseTiling
		return nil
	}
	g.Turn = (g.Turn + 1) % len(g.Players)
	return nil
}
