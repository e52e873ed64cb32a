package engine

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/ghthor/webtris/grid"
	"github.com/ghthor/webtris/render"
)

// LineClear describes one completed row removed by a sweep.
type LineClear struct {
	Row         int
	Points      int
	SingleColor bool
	// SpeedChanged is set when this line raised the difficulty.
	SpeedChanged bool
}

// CompleteRows lists the full rows of g from the top down.
func CompleteRows(g *grid.Grid) []int {
	var rows []int
	for _, row := range g.RowsWithOccupancy() {
		if g.RowCount(row) == grid.Width {
			rows = append(rows, row)
		}
	}
	slices.Reverse(rows)
	return rows
}

// Sweep removes every complete row, shifts the blocks above each one down a
// row and scores it. Rows are handled one at a time from the top, so lower
// row numbers stay valid while higher ones collapse.
func (s *Session) Sweep(r render.Renderer, l *log.Logger) []LineClear {
	var clears []LineClear
	for _, row := range CompleteRows(s.grid) {
		cells := s.grid.Row(row)
		if len(cells) != grid.Width {
			l.Warn("skipping inconsistent row", "row", row, "count", s.grid.RowCount(row), "cells", len(cells))
			continue
		}

		single := true
		first, _ := s.grid.Occupant(cells[0])
		for _, c := range cells {
			o, _ := s.grid.Remove(c)
			if o.Shader != first.Shader {
				single = false
			}
			if err := r.DeleteBlock(o.Block); err != nil {
				l.Warn("delete block", "cell", c, "err", err)
			}
		}
		s.shiftDown(row, r, l)

		lc := LineClear{Row: row, Points: s.speed.LinePoints(), SingleColor: single}
		if single {
			lc.Points *= 2
		}
		s.score += uint64(lc.Points)
		s.lines++
		if s.speed.lineCleared(s.lines) {
			lc.SpeedChanged = true
			s.counter = 0
		}
		clears = append(clears, lc)
	}
	return clears
}

// shiftDown moves every block above row down by one, lowest rows first so
// each destination is already empty.
func (s *Session) shiftDown(row int, r render.Renderer, l *log.Logger) {
	for _, above := range s.grid.RowsWithOccupancy() {
		if above <= row {
			continue
		}
		for _, c := range s.grid.Row(above) {
			o, ok := s.grid.Remove(c)
			if !ok {
				l.Warn("occupant vanished during shift", "cell", c)
				continue
			}
			if err := r.Translate(o.Block, render.AxisY, -1); err != nil {
				l.Warn("translate block", "cell", c, "err", err)
			}
			dst := grid.Cell{Col: c.Col, Row: c.Row - 1}
			if err := s.grid.Insert(dst, o); err != nil {
				l.Warn("shift into held cell", "cell", dst, "err", err)
				if err := r.DeleteBlock(o.Block); err != nil {
					l.Warn("delete block", "cell", c, "err", err)
				}
			}
		}
	}
}
