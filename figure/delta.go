package figure

import "github.com/ghthor/webtris/grid"

// Delta is a single move: a one cell translation or a quarter turn about
// the pivot. Turns is +1 for counter-clockwise and -1 for clockwise.
type Delta struct {
	Col, Row int
	Turns    int
}

var (
	MoveLeft  = Delta{Col: -1}
	MoveRight = Delta{Col: 1}
	MoveDown  = Delta{Row: -1}
	TurnCCW   = Delta{Turns: 1}
	TurnCW    = Delta{Turns: -1}
)

func (d Delta) Inverse() Delta {
	return Delta{Col: -d.Col, Row: -d.Row, Turns: -d.Turns}
}

func (d Delta) IsRotation() bool { return d.Turns != 0 }

// IsDrop reports whether d moves straight down.
func (d Delta) IsDrop() bool { return d.Turns == 0 && d.Col == 0 && d.Row < 0 }

// rotate turns an offset by d.Turns quarter turns.
func (d Delta) rotate(o grid.Cell) grid.Cell {
	t := ((d.Turns % 4) + 4) % 4
	for range t {
		o = grid.Cell{Col: -o.Row, Row: o.Col}
	}
	return o
}
