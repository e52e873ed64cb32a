package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghthor/webtris/grid"
	"github.com/ghthor/webtris/render"
)

func newTestSession(t *testing.T, s *render.Scene) *Session {
	t.Helper()
	g, _ := newTestGame(t, s)
	return g.Session()
}

func TestSweepClearsAndShifts(t *testing.T) {
	s := render.NewScene()
	sess := newTestSession(t, s)
	g := sess.Grid()

	fill(t, s, g, render.Blue, rowCells(0, 3)...)
	fill(t, s, g, render.Blue, grid.Cell{Col: 3, Row: 0})
	fill(t, s, g, render.Red, grid.Cell{Col: 6, Row: 1}, grid.Cell{Col: 6, Row: 4})

	clears := sess.Sweep(s, quiet)
	require.Len(t, clears, 1)
	assert.Equal(t, LineClear{Row: 0, Points: 1700, SingleColor: true}, clears[0])
	assert.EqualValues(t, 1700, sess.Score())
	assert.Equal(t, 1, sess.Lines())

	assert.Empty(t, CompleteRows(g))
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.IsOccupied(grid.Cell{Col: 6, Row: 0}))
	assert.True(t, g.IsOccupied(grid.Cell{Col: 6, Row: 3}))
	assert.Equal(t, 2, s.Len())
	for c, o := range g.All() {
		x, y, err := s.Centroid(o.Block)
		require.NoError(t, err)
		assert.Equal(t, c, grid.Discretize(x, y))
	}
}

func TestSweepMixedColorsAndSeveralRows(t *testing.T) {
	s := render.NewScene()
	sess := newTestSession(t, s)
	g := sess.Grid()

	fill(t, s, g, render.Green, rowCells(0)...)
	fill(t, s, g, render.Green, rowCells(1, 0)...)
	fill(t, s, g, render.Red, grid.Cell{Col: 0, Row: 1})
	fill(t, s, g, render.Yellow, rowCells(2, 2)...)
	fill(t, s, g, render.Orange, rowCells(3)...)
	fill(t, s, g, render.Orange, grid.Cell{Col: 9, Row: 5})

	clears := sess.Sweep(s, quiet)
	require.Len(t, clears, 3)
	// top down
	assert.Equal(t, []int{3, 1, 0}, []int{clears[0].Row, clears[1].Row, clears[2].Row})
	assert.True(t, clears[0].SingleColor)
	assert.False(t, clears[1].SingleColor)
	assert.True(t, clears[2].SingleColor)
	assert.EqualValues(t, 1700+850+1700, sess.Score())

	// row 2 fell to row 0, the lone block from row 5 to row 2
	assert.Equal(t, []int{0, 2}, g.RowsWithOccupancy())
	assert.Equal(t, grid.Width-1, g.RowCount(0))
	assert.False(t, g.IsOccupied(grid.Cell{Col: 2, Row: 0}))
	assert.True(t, g.IsOccupied(grid.Cell{Col: 9, Row: 2}))
	assert.Equal(t, g.Len(), s.Len())
}

func TestSweepPreservesColumnOrder(t *testing.T) {
	s := render.NewScene()
	sess := newTestSession(t, s)
	g := sess.Grid()

	fill(t, s, g, render.Blue, rowCells(2)...)
	fill(t, s, g, render.Red, grid.Cell{Col: 4, Row: 5})
	fill(t, s, g, render.Yellow, grid.Cell{Col: 4, Row: 7})
	lower, _ := g.Occupant(grid.Cell{Col: 4, Row: 5})
	upper, _ := g.Occupant(grid.Cell{Col: 4, Row: 7})

	sess.Sweep(s, quiet)
	o, ok := g.Occupant(grid.Cell{Col: 4, Row: 4})
	require.True(t, ok)
	assert.Equal(t, lower.Block, o.Block)
	o, ok = g.Occupant(grid.Cell{Col: 4, Row: 6})
	require.True(t, ok)
	assert.Equal(t, upper.Block, o.Block)
}

func TestSweepRaisesSpeedEveryTenLines(t *testing.T) {
	s := render.NewScene()
	sess := newTestSession(t, s)
	g := sess.Grid()
	sess.lines = 8
	sess.counter = 5

	fill(t, s, g, render.Blue, rowCells(0, 0)...)
	fill(t, s, g, render.Red, grid.Cell{Col: 0, Row: 0})
	fill(t, s, g, render.Blue, rowCells(1, 0)...)
	fill(t, s, g, render.Red, grid.Cell{Col: 0, Row: 1})

	clears := sess.Sweep(s, quiet)
	require.Len(t, clears, 2)
	// row 1 is line 9 at 0.30, row 0 is line 10 at 0.30 and then the speed drops
	assert.Equal(t, 850, clears[0].Points)
	assert.False(t, clears[0].SpeedChanged)
	assert.Equal(t, 850, clears[1].Points)
	assert.True(t, clears[1].SpeedChanged)
	assert.Equal(t, 10, sess.Speed().Hundredths())
	assert.Zero(t, sess.counter)
}

func TestSpeed(t *testing.T) {
	sp := newSpeed(DefaultConfig())
	assert.Equal(t, 0.3, sp.Multiplier())
	assert.Equal(t, 9, sp.TicksPerDrop(30))
	assert.Equal(t, 850, sp.LinePoints())

	assert.False(t, sp.lineCleared(9))
	assert.True(t, sp.lineCleared(10))
	assert.Equal(t, 3, sp.TicksPerDrop(30))
	assert.Equal(t, 950, sp.LinePoints())

	assert.True(t, sp.lineCleared(20))
	assert.Zero(t, sp.Hundredths())
	assert.Equal(t, 1, sp.TicksPerDrop(30))
	assert.Equal(t, 1000, sp.LinePoints())

	assert.False(t, sp.lineCleared(30))
	assert.Zero(t, sp.Hundredths())
}
