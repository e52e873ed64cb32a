package engine

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/ghthor/webtris/figure"
	"github.com/ghthor/webtris/grid"
	"github.com/ghthor/webtris/render"
)

var errInjected = errors.New("injected")

var quiet = log.NewWithOptions(io.Discard, log.Options{})

func newTestGame(t *testing.T, r render.Renderer, mod ...func(*Config)) (*Game, *ManualClock) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	for _, m := range mod {
		m(&cfg)
	}
	clock := NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	g, err := New(r, cfg, WithLogger(quiet), WithClock(clock))
	require.NoError(t, err)
	return g, clock
}

// fill locks blocks of a foreign figure into cells, with scene blocks behind them.
func fill(t *testing.T, s *render.Scene, g *grid.Grid, shader render.Shader, cells ...grid.Cell) {
	t.Helper()
	const owner render.FigureHandle = 10_000
	for _, c := range cells {
		x, y := c.Centroid()
		h, err := s.CreateBlock(render.BlockDescriptor{Shape: "fill", X: x, Y: y}, owner)
		require.NoError(t, err)
		require.NoError(t, g.Insert(c, grid.Occupant{Block: h, Figure: owner, Shader: shader}))
	}
	require.NoError(t, s.AssignMaterial(owner, shader))
}

func rowCells(row int, skip ...int) []grid.Cell {
	var cells []grid.Cell
next:
	for col := range grid.Width {
		for _, sk := range skip {
			if col == sk {
				continue next
			}
		}
		cells = append(cells, grid.Cell{Col: col, Row: row})
	}
	return cells
}

// replaceActive swaps the falling figure for one of shape.
func replaceActive(t *testing.T, g *Game, id figure.ShapeID) *figure.Figure {
	t.Helper()
	s := g.Session()
	if s.active != nil {
		require.NoError(t, s.active.Destroy())
	}
	f, err := s.spawner.Spawn(id.Shape())
	require.NoError(t, err)
	s.active = f
	return f
}

// requireSceneMatchesGrid checks that every locked block is drawn where the
// grid says it is.
func requireSceneMatchesGrid(t *testing.T, s *render.Scene, g *Game) {
	t.Helper()
	want := g.Grid().Len()
	if f := g.Active(); f != nil {
		want += len(f.Blocks)
	}
	require.Equal(t, want, s.Len())
	for c, o := range g.Grid().All() {
		x, y, err := s.Centroid(o.Block)
		require.NoError(t, err)
		require.Equal(t, c, grid.Discretize(x, y))
	}
}

type faultyScene struct {
	*render.Scene
	failTranslate bool
	failCreate    bool
}

func (s *faultyScene) CreateBlock(desc render.BlockDescriptor, parent render.FigureHandle) (render.Handle, error) {
	if s.failCreate {
		return 0, errInjected
	}
	return s.Scene.CreateBlock(desc, parent)
}

func (s *faultyScene) Translate(h render.Handle, axis render.Axis, delta float64) error {
	if s.failTranslate {
		return errInjected
	}
	return s.Scene.Translate(h, axis, delta)
}
