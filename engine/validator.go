package engine

import (
	"github.com/ghthor/webtris/figure"
	"github.com/ghthor/webtris/grid"
)

type Verdict uint8

const (
	Allowed Verdict = iota
	// BlockedVertical means a drop hit the floor or a locked block; the
	// figure locks where it is.
	BlockedVertical
	// BlockedHorizontal means a sideways move or a rotation hit a wall or a
	// locked block; the move is dropped.
	BlockedHorizontal
)

func (v Verdict) String() string {
	switch v {
	case Allowed:
		return "allowed"
	case BlockedVertical:
		return "blocked-vertical"
	case BlockedHorizontal:
		return "blocked-horizontal"
	}
	return "unknown"
}

// Validate reports whether f may move by d. Only cells held by other figures
// and cells outside bounds block a move.
func Validate(g *grid.Grid, bounds grid.Bounds, f *figure.Figure, d figure.Delta) Verdict {
	for i, c := range f.Project(d) {
		if bounds.Contains(c) {
			o, ok := g.Occupant(c)
			if !ok || o.Figure == f.ID {
				continue
			}
		}
		if !d.IsRotation() && c.Row != f.Blocks[i].Cell.Row {
			return BlockedVertical
		}
		return BlockedHorizontal
	}
	return Allowed
}
