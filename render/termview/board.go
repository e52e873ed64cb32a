// Package termview draws a render.Scene as terminal text.
package termview

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/ghthor/webtris/figure"
	"github.com/ghthor/webtris/grid"
	"github.com/ghthor/webtris/render"
)

const (
	DebugBlock   = "╺╸"
	DefaultBlock = "  "
	DefaultEmpty = "  "
)

type Board struct {
	Width, Height int

	Filled string
	Empty  string

	Colors  [render.NumShaders]lipgloss.Style
	Preview lipgloss.Style

	cells [][]int
}

// NewBoard styles blocks with r, so SSH sessions get their own color profile.
func NewBoard(r *lipgloss.Renderer) *Board {
	b := &Board{
		Width:   grid.Width,
		Height:  grid.Height,
		Filled:  DefaultBlock,
		Empty:   DefaultEmpty,
		Preview: r.NewStyle().Background(lipgloss.ANSIColor(244)),
		cells:   make([][]int, grid.Height),
	}
	for i := range b.cells {
		b.cells[i] = make([]int, grid.Width)
	}
	for s := range render.Shader(render.NumShaders) {
		b.Colors[s] = r.NewStyle().Background(s.Color())
	}
	return b
}

// Print draws every block of scene at the cell its centroid falls in, top
// row first.
func (b *Board) Print(w io.Writer, scene *render.Scene) {
	for _, row := range b.cells {
		for i := range row {
			row[i] = -1
		}
	}
	for blk := range scene.Blocks() {
		c := grid.Discretize(blk.X, blk.Y)
		if c.Row < 0 || c.Row >= b.Height || c.Col < 0 || c.Col >= b.Width {
			continue
		}
		if sh, ok := scene.Material(blk.Handle); ok {
			b.cells[c.Row][c.Col] = int(sh)
		}
	}

	for row := b.Height - 1; row >= 0; row-- {
		for _, cell := range b.cells[row] {
			if cell < 0 {
				fmt.Fprint(w, b.Empty)
			} else {
				fmt.Fprint(w, b.Colors[cell].Render(b.Filled))
			}
		}
		if row > 0 {
			fmt.Fprintln(w)
		}
	}
}

// PrintShape draws shape in its spawn orientation inside a box large enough
// for any shape.
func (b *Board) PrintShape(w io.Writer, id figure.ShapeID) {
	shape := id.Shape()
	rng := figure.ShapeRange
	for row := rng.Max.Row; row >= rng.Min.Row; row-- {
		for col := rng.Min.Col; col <= rng.Max.Col; col++ {
			filled := false
			for _, o := range shape.Offsets {
				if o.Col == col && o.Row == row {
					filled = true
					break
				}
			}
			if filled {
				fmt.Fprint(w, b.Preview.Render(b.Filled))
			} else {
				fmt.Fprint(w, b.Empty)
			}
		}
		if row > rng.Min.Row {
			fmt.Fprintln(w)
		}
	}
}
