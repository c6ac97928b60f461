package game

import (
	"fmt"
	"strings"
)

// Color 瓷砖颜色，封闭枚举
type Color uint8

const (
	Blue Color = iota
	Yellow
	Red
	Black
	White
)

const (
	NumColors     = 5
	TilesPerColor = 20
	WallSize      = 5
	FloorSize     = 7
	FactorySize   = 4
)

var colorNames = [NumColors]string{"blue", "yellow", "red", "black", "white"}

// wallTemplate[row][color] is the column a color occupies in a standard wall row.
// Each row is the previous one shifted right by one column.
var wallTemplate = [WallSize][NumColors]int{
	{0, 1, 2, 3, 4},
	{1, 2, 3, 4, 0},
	{2, 3, 4, 0, 1},
	{3, 4, 0, 1, 2},
	{4, 0, 1, 2, 3},
}

// floorPenalties 地板线每个槽位的扣分
var floorPenalties = [FloorSize]int{-1, -1, -2, -2, -2, -3, -3}

// AllColors returns the colors in template order.
func AllColors() [NumColors]Color {
	return [NumColors]Color{Blue, Yellow, Red, Black, White}
}

func (c Color) Valid() bool {
	return c < NumColors
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return colorNames[c]
}

// ParseColor 将颜色名解析为 Color
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", uint8(c))
	}
	return []byte(colorNames[c]), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// WallColumn returns the template column of color c in the given row.
func WallColumn(row int, c Color) int {
	return wallTemplate[row][c]
}

// TemplateColor returns the color the standard template assigns to (row, col).
func TemplateColor(row, col int) Color {
	for c, column := range wallTemplate[row] {
		if column == col {
			return Color(c)
		}
	}
	panic(fmt.Sprintf("wall template has no color for (%d,%d)", row, col))
}
