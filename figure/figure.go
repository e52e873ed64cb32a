// Package figure models the falling pieces. A Figure owns the logical cell of
// each of its blocks and mirrors every change to a render.Renderer.
package figure

import (
	"errors"
	"fmt"

	"github.com/ghthor/webtris/grid"
	"github.com/ghthor/webtris/render"
)

var ErrLocked = errors.New("figure is locked")

type Block struct {
	Handle render.Handle
	Cell   grid.Cell
}

type Figure struct {
	ID     render.FigureHandle
	Shape  *Shape
	Shader render.Shader
	Pivot  grid.Cell
	// Turns counts quarter turns counter-clockwise from the spawn pose, mod 4.
	Turns  int
	Blocks []Block

	locked bool
	r      render.Renderer
}

// Spawn creates the figure's blocks with r with the shape's pivot at pivot.
// Any blocks created before a failure are deleted again.
func Spawn(r render.Renderer, id render.FigureHandle, shape *Shape, shader render.Shader, pivot grid.Cell) (*Figure, error) {
	f := &Figure{
		ID:     id,
		Shape:  shape,
		Shader: shader,
		Pivot:  pivot,
		Blocks: make([]Block, 0, len(shape.Offsets)),
		r:      r,
	}
	for _, o := range shape.Offsets {
		c := pivot.Add(o)
		x, y := c.Centroid()
		h, err := r.CreateBlock(render.BlockDescriptor{Shape: shape.Name, X: x, Y: y}, id)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("spawn %s: %w", shape.Name, err), f.Destroy())
		}
		f.Blocks = append(f.Blocks, Block{Handle: h, Cell: c})
	}
	if err := r.AssignMaterial(id, shader); err != nil {
		return nil, errors.Join(fmt.Errorf("spawn %s: %w", shape.Name, err), f.Destroy())
	}
	return f, nil
}

func (f *Figure) Locked() bool { return f.locked }

func (f *Figure) Cells() []grid.Cell {
	cells := make([]grid.Cell, len(f.Blocks))
	for i, b := range f.Blocks {
		cells[i] = b.Cell
	}
	return cells
}

// Project returns the cells the blocks would hold after d, in block order,
// without changing anything.
func (f *Figure) Project(d Delta) []grid.Cell {
	cells := f.Cells()
	if d.IsRotation() && !f.Shape.Rotates {
		return cells
	}
	shift := grid.Cell{Col: d.Col, Row: d.Row}
	pivot := f.Pivot.Add(shift)
	for i, c := range cells {
		cells[i] = pivot.Add(d.rotate(c.Sub(f.Pivot)))
	}
	return cells
}

type adapterCall struct {
	h     render.Handle
	axis  render.Axis
	delta float64
	turn  bool
}

func (f *Figure) issue(c adapterCall) error {
	if c.turn {
		return f.r.Rotate(c.h, c.axis, c.delta)
	}
	return f.r.Translate(c.h, c.axis, c.delta)
}

// ApplyTransform moves every block by d and mirrors the move to the
// renderer. The logical cells only change once every renderer call has
// succeeded; on failure the calls already made are undone.
func (f *Figure) ApplyTransform(d Delta) error {
	if f.locked {
		return ErrLocked
	}
	if d.IsRotation() && !f.Shape.Rotates {
		return nil
	}

	next := f.Project(d)
	calls := make([]adapterCall, 0, 3*len(f.Blocks))
	for i, b := range f.Blocks {
		move := next[i].Sub(b.Cell)
		if move.Col != 0 {
			calls = append(calls, adapterCall{h: b.Handle, axis: render.AxisX, delta: float64(move.Col)})
		}
		if move.Row != 0 {
			calls = append(calls, adapterCall{h: b.Handle, axis: render.AxisY, delta: float64(move.Row)})
		}
		if d.IsRotation() {
			calls = append(calls, adapterCall{h: b.Handle, axis: render.AxisZ, delta: 90 * float64(d.Turns), turn: true})
		}
	}

	for i, c := range calls {
		if err := f.issue(c); err != nil {
			err = fmt.Errorf("figure %d %s: %w", f.ID, f.Shape.Name, err)
			for j := i - 1; j >= 0; j-- {
				undo := calls[j]
				undo.delta = -undo.delta
				if uerr := f.issue(undo); uerr != nil {
					err = errors.Join(err, uerr)
				}
			}
			return err
		}
	}

	for i := range f.Blocks {
		f.Blocks[i].Cell = next[i]
	}
	f.Pivot = f.Pivot.Add(grid.Cell{Col: d.Col, Row: d.Row})
	f.Turns = ((f.Turns+d.Turns)%4 + 4) % 4
	return nil
}

// RevertTransform undoes a previously applied d.
func (f *Figure) RevertTransform(d Delta) error {
	return f.ApplyTransform(d.Inverse())
}

// Lock hands every block to g. The figure must not be used afterwards.
func (f *Figure) Lock(g *grid.Grid) error {
	if f.locked {
		return ErrLocked
	}
	var errs []error
	for _, b := range f.Blocks {
		err := g.Insert(b.Cell, grid.Occupant{Block: b.Handle, Figure: f.ID, Shader: f.Shader})
		if err != nil {
			// the cell belongs to someone else, so this block has nowhere to live
			errs = append(errs, err, f.r.DeleteBlock(b.Handle))
		}
	}
	f.locked = true
	return errors.Join(errs...)
}

// Destroy deletes the renderables of a figure that was never locked.
func (f *Figure) Destroy() error {
	if f.locked {
		return ErrLocked
	}
	var errs []error
	for _, b := range f.Blocks {
		if err := f.r.DeleteBlock(b.Handle); err != nil {
			errs = append(errs, err)
		}
	}
	f.Blocks = nil
	f.locked = true
	return errors.Join(errs...)
}
