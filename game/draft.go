package game

import "fmt"

// Source identifies where a pick is taken from: a factory index, or Center.
type Source int

// Center 中心池
const Center Source = -1

func (s Source) String() string {
	if s == Center {
		return "center"
	}
	return fmt.Sprintf("factory %d", int(s))
}

// Factory holds up to four tiles, kept as per-color counts.
type Factory [NumColors]int

func (f Factory) Len() int {
	n := 0
	for _, c := range f {
		n += c
	}
	return n
}

// DraftPool 工厂展示区 + 中心池 + 起始标记
type DraftPool struct {
	Factories []Factory
	Center    [NumColors]int
	Marker    bool
}

// FactoryCount 根据玩家人数返回工厂数量 (2→5, 3→7, 4→9)
func FactoryCount(players int) int {
	return 2*players + 1
}

func newDraftPool(players int) DraftPool {
	return DraftPool{Factories: make([]Factory, FactoryCount(players))}
}

// Fill draws four tiles per factory from the supply and puts the starting
// marker back into the center.
func (d *DraftPool) Fill(s *Supply) {
	for i := range d.Factories {
		d.Factories[i] = Factory{}
		for _, c := range s.Draw(FactorySize) {
			d.Factories[i][c]++
		}
	}
	d.Marker = true
}

// Empty reports whether every factory and the center hold no tiles.
// The marker alone does not keep the draft open.
func (d *DraftPool) Empty() bool {
	for _, f := range d.Factories {
		if f.Len() > 0 {
			return false
		}
	}
	for _, n := range d.Center {
		if n > 0 {
			return false
		}
	}
	return true
}

// Has reports whether src holds at least one tile of color c.
func (d *DraftPool) Has(src Source, c Color) bool {
	if !c.Valid() {
		return false
	}
	if src == Center {
		return d.Center[c] > 0
	}
	if int(src) < 0 || int(src) >= len(d.Factories) {
		return false
	}
	return d.Factories[src][c] > 0
}

// Take removes every tile of color c from src. A factory pick sends the
// factory's remaining tiles to the center. claimed is true when this pick
// took the starting marker.
func (d *DraftPool) Take(src Source, c Color) (n int, claimed bool, err error) {
	if !d.Has(src, c) {
		return 0, false, fmt.Errorf("%w: %s has no %s tiles", ErrInvalidSource, src, c)
	}
	if src == Center {
		n = d.Center[c]
		d.Center[c] = 0
		claimed = d.Marker
		d.Marker = false
		return n, claimed, nil
	}
	f := &d.Factories[src]
	n = f[c]
	f[c] = 0
	for color, rest := range f {
		d.Center[color] += rest
	}
	*f = Factory{}
	return n, false, nil
}

func (d DraftPool) count(c Color) int {
	n := d.Center[c]
	for _, f := range d.Factories {
		n += f[c]
	}
	return n
}

func (d DraftPool) clone() DraftPool {
	d.Factories = append([]Factory(nil), d.Factories...)
	return d
}
