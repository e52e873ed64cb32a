// Package grid tracks which board cells are held by locked blocks. It is the
// only record of settled blocks; it never calls into the renderer.
package grid

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/kamstrup/intmap"

	"github.com/ghthor/webtris/render"
)

var ErrOccupied = errors.New("cell occupied")

// Occupant is the record kept for an occupied cell.
type Occupant struct {
	Block  render.Handle
	Figure render.FigureHandle
	Shader render.Shader
}

type Grid struct {
	cells *intmap.Map[key, Occupant]
	rows  *intmap.Map[int32, int]
}

func New() *Grid {
	return &Grid{
		cells: intmap.New[key, Occupant](Width * Height),
		rows:  intmap.New[int32, int](Height),
	}
}

func (g *Grid) IsOccupied(c Cell) bool { return g.cells.Has(keyOf(c)) }

func (g *Grid) Occupant(c Cell) (Occupant, bool) { return g.cells.Get(keyOf(c)) }

// Insert records o at c. Inserting over a block of another figure fails with
// ErrOccupied; a block of the same figure is replaced.
func (g *Grid) Insert(c Cell, o Occupant) error {
	k := keyOf(c)
	if prev, ok := g.cells.Get(k); ok {
		if prev.Figure != o.Figure {
			return fmt.Errorf("insert figure %d at %s held by figure %d: %w", o.Figure, c, prev.Figure, ErrOccupied)
		}
		g.cells.Put(k, o)
		return nil
	}
	g.cells.Put(k, o)
	n, _ := g.rows.Get(int32(c.Row))
	g.rows.Put(int32(c.Row), n+1)
	return nil
}

// Remove deletes the record at c, if any.
func (g *Grid) Remove(c Cell) (Occupant, bool) {
	k := keyOf(c)
	o, ok := g.cells.Get(k)
	if !ok {
		return o, false
	}
	g.cells.Del(k)
	r := int32(c.Row)
	if n, _ := g.rows.Get(r); n <= 1 {
		g.rows.Del(r)
	} else {
		g.rows.Put(r, n-1)
	}
	return o, true
}

// RowsWithOccupancy returns the rows holding at least one block, ascending.
func (g *Grid) RowsWithOccupancy() []int {
	rows := make([]int, 0, g.rows.Len())
	for r := range g.rows.Keys() {
		rows = append(rows, int(r))
	}
	slices.Sort(rows)
	return rows
}

// RowCount is the number of occupied cells in row.
func (g *Grid) RowCount(row int) int {
	n, _ := g.rows.Get(int32(row))
	return n
}

// Row returns the occupied cells of row ordered by column.
func (g *Grid) Row(row int) []Cell {
	cells := make([]Cell, 0, g.RowCount(row))
	for k := range g.cells.Keys() {
		if c := k.cell(); c.Row == row {
			cells = append(cells, c)
		}
	}
	slices.SortFunc(cells, func(a, b Cell) int { return a.Col - b.Col })
	return cells
}

func (g *Grid) Len() int { return g.cells.Len() }

// All yields every occupied cell with its record, in no particular order.
func (g *Grid) All() iter.Seq2[Cell, Occupant] {
	return func(yield func(Cell, Occupant) bool) {
		for k, o := range g.cells.All() {
			if !yield(k.cell(), o) {
				return
			}
		}
	}
}

func (g *Grid) Clear() {
	g.cells.Clear()
	g.rows.Clear()
}
