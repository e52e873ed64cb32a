package figure

import (
	"fmt"
	"strings"

	"github.com/ghthor/webtris/grid"
)

type ShapeID uint8

const (
	ShapeO ShapeID = iota
	ShapeL
	ShapeJ
	ShapeT
	ShapeZ
	ShapeS
	ShapeI
)

const NumShapes = 7

// Shape is a fixed block layout. Offsets are relative to the pivot block and
// the first offset is always the pivot itself.
type Shape struct {
	ID      ShapeID
	Name    string
	Offsets []grid.Cell
	Rotates bool
}

// SpawnPivot is where every shape's pivot appears.
var SpawnPivot = grid.Cell{Col: 5, Row: 21}

var Shapes [NumShapes]*Shape

// ShapeRange bounds the offsets of every shape, used to size previews.
var ShapeRange struct {
	Min, Max grid.Cell
}

func init() {
	visualDefs := [NumShapes]struct {
		name    string
		rotates bool
		visual  string
	}{
		ShapeO: {"O", false, `
|OX
|OO
`},
		ShapeL: {"L", true, `
|OO
| X
| O
`},
		ShapeJ: {"J", true, `
| O
| X
|OO
`},
		ShapeT: {"T", true, `
| O
|OX
| O
`},
		ShapeZ: {"Z", true, `
| O
|OX
|O
`},
		ShapeS: {"S", true, `
|O
|OX
| O
`},
		ShapeI: {"I", true, `
| O
| O
| X
| O
`},
	}

	for id, def := range visualDefs {
		offsets, err := parseVisual(def.visual)
		if err != nil {
			panic(fmt.Sprintf("failed to parse visual for %s: %v", def.name, err))
		}
		Shapes[id] = &Shape{
			ID:      ShapeID(id),
			Name:    def.name,
			Offsets: offsets,
			Rotates: def.rotates,
		}
		for _, o := range offsets {
			ShapeRange.Min.Col = min(ShapeRange.Min.Col, o.Col)
			ShapeRange.Min.Row = min(ShapeRange.Min.Row, o.Row)
			ShapeRange.Max.Col = max(ShapeRange.Max.Col, o.Col)
			ShapeRange.Max.Row = max(ShapeRange.Max.Row, o.Row)
		}
	}
}

func (id ShapeID) Shape() *Shape {
	if int(id) >= NumShapes {
		return nil
	}
	return Shapes[id]
}

func (id ShapeID) String() string {
	if s := id.Shape(); s != nil {
		return s.Name
	}
	return fmt.Sprintf("shape(%d)", uint8(id))
}

// parseVisual converts a visual raw string into pivot relative offsets. Only
// lines that begin with '|' are read, the characters after it are columns.
// 'X' marks the pivot and 'O' any other block. The top line of the visual is
// the highest row.
func parseVisual(v string) ([]grid.Cell, error) {
	v = strings.TrimSpace(v)
	lines := make([]string, 0, 4)
	for ln := range strings.SplitSeq(v, "\n") {
		if !strings.HasPrefix(ln, "|") {
			continue
		}
		lines = append(lines, ln[1:])
	}

	pivotY, pivotX := -1, -1
	pivots := 0
	for y, row := range lines {
		if x := strings.IndexByte(row, 'X'); x >= 0 {
			pivotY, pivotX = y, x
		}
		pivots += strings.Count(row, "X")
	}
	if pivots > 1 {
		return nil, fmt.Errorf("more than one pivot 'X'")
	}
	if pivotY < 0 {
		return nil, fmt.Errorf("no pivot 'X' found")
	}

	offsets := []grid.Cell{{}}
	for y, row := range lines {
		for x, ch := range row {
			switch ch {
			case 'O':
				offsets = append(offsets, grid.Cell{Col: x - pivotX, Row: pivotY - y})
			case 'X', ' ':
			default:
				return nil, fmt.Errorf("unexpected %q at line %d", ch, y)
			}
		}
	}
	return offsets, nil
}
