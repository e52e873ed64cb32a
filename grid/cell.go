package grid

import (
	"fmt"
	"math"
)

const (
	Width  = 10
	Height = 24
)

// Well is the playing field. Both intervals are open, so a cell on either
// limit is out of bounds.
var Well = Bounds{
	Min: Cell{Col: -1, Row: -1},
	Max: Cell{Col: Width, Row: Height},
}

// World coordinates of the lower left corner of cell (0,0).
const (
	OriginX = -Width / 2
	OriginY = 0
)

// Cell is a board address. Row 0 is the bottom of the well.
type Cell struct {
	Col, Row int
}

func (c Cell) Add(o Cell) Cell { return Cell{Col: c.Col + o.Col, Row: c.Row + o.Row} }
func (c Cell) Sub(o Cell) Cell { return Cell{Col: c.Col - o.Col, Row: c.Row - o.Row} }

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Col, c.Row) }

// Centroid returns the world-space center of the cell.
func (c Cell) Centroid() (x, y float64) {
	return float64(c.Col+OriginX) + 0.5, float64(c.Row+OriginY) + 0.5
}

// Discretize maps a world-space point to the cell whose center is nearest.
func Discretize(x, y float64) Cell {
	return Cell{
		Col: int(math.Round(x - OriginX - 0.5)),
		Row: int(math.Round(y - OriginY - 0.5)),
	}
}

type Bounds struct {
	Min, Max Cell
}

func (b Bounds) Contains(c Cell) bool {
	return b.Min.Col < c.Col && c.Col < b.Max.Col &&
		b.Min.Row < c.Row && c.Row < b.Max.Row
}

// key packs a cell into a single integer for the occupancy map.
type key int64

func keyOf(c Cell) key {
	return key(int64(int32(c.Col))<<32 | int64(uint32(int32(c.Row))))
}

func (k key) cell() Cell {
	return Cell{Col: int(int32(k >> 32)), Row: int(int32(uint32(k)))}
}
