package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCount(t *testing.T) {
	assert.Equal(t, 5, FactoryCount(2))
	assert.Equal(t, 7, FactoryCount(3))
	assert.Equal(t, 9, FactoryCount(4))
}

func TestDraftPoolFill(t *testing.T) {
	s := NewSupply(seeded(5))
	d := newDraftPool(3)
	d.Fill(&s)

	require.Len(t, d.Factories, 7)
	for _, f := range d.Factories {
		assert.Equal(t, FactorySize, f.Len())
	}
	assert.True(t, d.Marker)
	assert.Len(t, s.Bag, NumColors*TilesPerColor-7*FactorySize)
}

func TestDraftPoolTakeFromFactory(t *testing.T) {
	d := newDraftPool(2)
	d.Factories[1] = Factory{Red: 2, Blue: 1, White: 1}
	d.Marker = true

	n, claimed, err := d.Take(1, Red)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, claimed)
	assert.Zero(t, d.Factories[1].Len())
	assert.Equal(t, [NumColors]int{Blue: 1, White: 1}, d.Center)
	assert.True(t, d.Marker)
}

func TestDraftPoolCenterClaimsMarkerOnce(t *testing.T) {
	d := newDraftPool(2)
	d.Center = [NumColors]int{Yellow: 3, Black: 1}
	d.Marker = true

	n, claimed, err := d.Take(Center, Black)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, claimed)
	assert.False(t, d.Marker)

	n, claimed, err = d.Take(Center, Yellow)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, claimed)
	assert.True(t, d.Empty())
}

func TestDraftPoolTakeInvalidSource(t *testing.T) {
	d := newDraftPool(2)
	d.Factories[0] = Factory{Red: 4}

	tests := []struct {
		name  string
		src   Source
		color Color
	}{
		{"missing color", 0, Blue},
		{"empty factory", 3, Red},
		{"empty center", Center, Red},
		{"factory out of range", 5, Red},
		{"negative factory", -4, Red},
		{"invalid color", 0, Color(9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := d.Take(tt.src, tt.color)
			assert.ErrorIs(t, err, ErrInvalidSource)
		})
	}
	assert.Equal(t, 4, d.Factories[0][Red])
}

func TestDraftPoolEmptyIgnoresMarker(t *testing.T) {
	d := newDraftPool(2)
	d.Marker = true
	assert.True(t, d.Empty())
}
