package termview

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghthor/webtris/figure"
	"github.com/ghthor/webtris/grid"
	"github.com/ghthor/webtris/render"
)

func newTestBoard() *Board {
	b := NewBoard(lipgloss.NewRenderer(io.Discard))
	b.Filled = "[]"
	b.Empty = " ."
	return b
}

func TestPrintScene(t *testing.T) {
	s := render.NewScene()
	_, err := figure.Spawn(s, 1, figure.ShapeT.Shape(), render.Red, grid.Cell{Col: 1, Row: 1})
	require.NoError(t, err)

	var sb strings.Builder
	newTestBoard().Print(&sb, s)
	lines := strings.Split(sb.String(), "\n")
	require.Len(t, lines, grid.Height)

	empty := strings.Repeat(" .", grid.Width)
	for _, ln := range lines[:grid.Height-3] {
		assert.Equal(t, empty, ln)
	}
	assert.Equal(t, " .[] . . . . . . . .", lines[grid.Height-3])
	assert.Equal(t, "[][] . . . . . . . .", lines[grid.Height-2])
	assert.Equal(t, " .[] . . . . . . . .", lines[grid.Height-1])
}

func TestPrintShape(t *testing.T) {
	var sb strings.Builder
	newTestBoard().PrintShape(&sb, figure.ShapeO)
	lines := strings.Split(sb.String(), "\n")

	rng := figure.ShapeRange
	require.Len(t, lines, rng.Max.Row-rng.Min.Row+1)
	width := 2 * (rng.Max.Col - rng.Min.Col + 1)
	for _, ln := range lines {
		assert.Len(t, ln, width)
	}
	assert.Equal(t, 4, strings.Count(sb.String(), "[]"))
}
