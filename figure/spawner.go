package figure

import (
	"math/rand/v2"
	"slices"

	"github.com/ghthor/webtris/grid"
	"github.com/ghthor/webtris/render"
	"github.com/ghthor/webtris/unsafering"
)

// Spawner creates figures at SpawnPivot. It keeps a queue of upcoming shapes
// so a host can preview them.
type Spawner struct {
	r       render.Renderer
	rng     *rand.Rand
	shaders *ShaderPicker
	next    *unsafering.Buffer[ShapeID]
	lastID  render.FigureHandle
}

func NewSpawner(r render.Renderer, rng *rand.Rand, preview int) *Spawner {
	s := &Spawner{
		r:       r,
		rng:     rng,
		shaders: NewShaderPicker(rng),
		next:    unsafering.New[ShapeID](max(preview, 1)),
	}
	for !s.next.Full() {
		s.next.Push(s.randShape())
	}
	return s
}

func (s *Spawner) randShape() ShapeID {
	return ShapeID(s.rng.IntN(NumShapes))
}

// Preview lists the queued shapes, soonest first.
func (s *Spawner) Preview() []ShapeID {
	return slices.Collect(s.next.Iter())
}

// PeekShape returns the soonest queued shape without taking it.
func (s *Spawner) PeekShape() *Shape {
	id, _ := s.next.Oldest()
	return id.Shape()
}

// NextShape takes the soonest queued shape and refills the queue.
func (s *Spawner) NextShape() *Shape {
	id, _ := s.next.Pop()
	s.next.Push(s.randShape())
	return id.Shape()
}

// Cells returns where shape's blocks appear when spawned.
func (s *Spawner) Cells(shape *Shape) []grid.Cell {
	cells := make([]grid.Cell, len(shape.Offsets))
	for i, o := range shape.Offsets {
		cells[i] = SpawnPivot.Add(o)
	}
	return cells
}

// Spawn creates a figure of shape, or of the next queued shape when shape
// is nil. The queue and the shader history only advance when the figure
// was created.
func (s *Spawner) Spawn(shape *Shape) (*Figure, error) {
	queued := shape == nil
	if queued {
		shape = s.PeekShape()
	}
	shader, reused := s.shaders.pick()
	s.lastID++
	f, err := Spawn(s.r, s.lastID, shape, shader, SpawnPivot)
	if err != nil {
		return nil, err
	}
	s.shaders.record(shader, reused)
	if queued {
		s.NextShape()
	}
	return f, nil
}
