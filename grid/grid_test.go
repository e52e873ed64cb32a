package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellKeyRoundTrip(t *testing.T) {
	for _, c := range []Cell{{0, 0}, {9, 23}, {-1, 5}, {4, -1}, {-3, -7}} {
		assert.Equal(t, c, keyOf(c).cell(), "%s", c)
	}
}

func TestDiscretize(t *testing.T) {
	x, y := Cell{Col: 4, Row: 20}.Centroid()
	assert.Equal(t, -0.5, x)
	assert.Equal(t, 20.5, y)

	assert.Equal(t, Cell{Col: 4, Row: 20}, Discretize(-0.5, 20.5))
	// drift from repeated float translation still lands on the same cell
	assert.Equal(t, Cell{Col: 0, Row: 0}, Discretize(-4.5000000001, 0.4999999))
	assert.Equal(t, Cell{Col: 9, Row: 23}, Discretize(4.5, 23.5))
}

func TestBounds(t *testing.T) {
	assert.True(t, Well.Contains(Cell{0, 0}))
	assert.True(t, Well.Contains(Cell{9, 23}))
	assert.False(t, Well.Contains(Cell{-1, 0}))
	assert.False(t, Well.Contains(Cell{10, 0}))
	assert.False(t, Well.Contains(Cell{0, -1}))
	assert.False(t, Well.Contains(Cell{0, 24}))
}

func TestGridInsertRemove(t *testing.T) {
	g := New()
	c := Cell{Col: 3, Row: 2}

	require.False(t, g.IsOccupied(c))
	require.NoError(t, g.Insert(c, Occupant{Block: 1, Figure: 1}))
	require.True(t, g.IsOccupied(c))

	err := g.Insert(c, Occupant{Block: 2, Figure: 2})
	require.ErrorIs(t, err, ErrOccupied)
	o, ok := g.Occupant(c)
	require.True(t, ok)
	assert.EqualValues(t, 1, o.Block)

	// same figure replaces without double counting the row
	require.NoError(t, g.Insert(c, Occupant{Block: 3, Figure: 1}))
	assert.Equal(t, 1, g.RowCount(2))

	o, ok = g.Remove(c)
	require.True(t, ok)
	assert.EqualValues(t, 3, o.Block)
	_, ok = g.Remove(c)
	assert.False(t, ok)
	assert.Zero(t, g.Len())
	assert.Empty(t, g.RowsWithOccupancy())
}

func TestGridRows(t *testing.T) {
	g := New()
	for col := range Width {
		require.NoError(t, g.Insert(Cell{Col: col, Row: 0}, Occupant{Block: 1, Figure: 1}))
	}
	require.NoError(t, g.Insert(Cell{Col: 7, Row: 5}, Occupant{Block: 2, Figure: 2}))
	require.NoError(t, g.Insert(Cell{Col: 2, Row: 5}, Occupant{Block: 3, Figure: 2}))

	assert.Equal(t, []int{0, 5}, g.RowsWithOccupancy())
	assert.Equal(t, Width, g.RowCount(0))
	assert.Equal(t, []Cell{{2, 5}, {7, 5}}, g.Row(5))
	assert.Equal(t, 12, g.Len())

	g.Clear()
	assert.Zero(t, g.Len())
	assert.Zero(t, g.RowCount(0))
}
