package engine

import (
	"errors"
	"time"

	"github.com/ghthor/webtris/figure"
	"github.com/ghthor/webtris/grid"
	"github.com/ghthor/webtris/render"
)

// SpawnCheck is the cell that ends the game when it is still held by a
// locked block at spawn time.
var SpawnCheck = grid.Cell{Col: 4, Row: 20}

// Session is the state of one game from Start until the next restart.
type Session struct {
	grid    *grid.Grid
	spawner *figure.Spawner
	active  *figure.Figure
	speed   Speed
	score   uint64
	lines   int
	// counter counts frames since the last automatic drop.
	counter int
	started time.Time
}

func (s *Session) Grid() *grid.Grid          { return s.grid }
func (s *Session) Active() *figure.Figure    { return s.active }
func (s *Session) Score() uint64             { return s.score }
func (s *Session) Lines() int                { return s.lines }
func (s *Session) Speed() Speed              { return s.speed }
func (s *Session) Preview() []figure.ShapeID { return s.spawner.Preview() }

// teardown deletes every renderable the session still owns.
func (s *Session) teardown(r render.Renderer) error {
	var errs []error
	if s.active != nil {
		errs = append(errs, s.active.Destroy())
		s.active = nil
	}
	for _, o := range s.grid.All() {
		errs = append(errs, r.DeleteBlock(o.Block))
	}
	s.grid.Clear()
	return errors.Join(errs...)
}
