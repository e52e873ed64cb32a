package render

import (
	"fmt"
	"iter"
	"slices"

	"github.com/kamstrup/intmap"
)

// SceneBlock is the pose of one block held by a Scene.
type SceneBlock struct {
	Handle Handle
	Figure FigureHandle
	Shape  string
	X, Y   float64
	RotZ   float64
}

// Scene is an in-memory Renderer. It keeps world-space poses and materials
// for every live block so that a host can draw them, and so tests can check
// what the engine asked to present.
type Scene struct {
	next      Handle
	blocks    *intmap.Map[Handle, *SceneBlock]
	materials *intmap.Map[FigureHandle, Shader]

	// OnPump, if set, runs on every PumpEvents call.
	OnPump func()
	Pumps  int
}

var _ Renderer = (*Scene)(nil)

func NewScene() *Scene {
	return &Scene{
		blocks:    intmap.New[Handle, *SceneBlock](256),
		materials: intmap.New[FigureHandle, Shader](64),
	}
}

func (s *Scene) block(h Handle) (*SceneBlock, error) {
	b, ok := s.blocks.Get(h)
	if !ok {
		return nil, fmt.Errorf("block %d: %w", h, ErrUnknownBlock)
	}
	return b, nil
}

func (s *Scene) CreateBlock(desc BlockDescriptor, parent FigureHandle) (Handle, error) {
	s.next++
	s.blocks.Put(s.next, &SceneBlock{
		Handle: s.next,
		Figure: parent,
		Shape:  desc.Shape,
		X:      desc.X,
		Y:      desc.Y,
	})
	return s.next, nil
}

func (s *Scene) DeleteBlock(h Handle) error {
	if !s.blocks.Del(h) {
		return fmt.Errorf("delete block %d: %w", h, ErrUnknownBlock)
	}
	return nil
}

func (s *Scene) Translate(h Handle, axis Axis, delta float64) error {
	b, err := s.block(h)
	if err != nil {
		return err
	}
	switch axis {
	case AxisX:
		b.X += delta
	case AxisY:
		b.Y += delta
	case AxisZ:
		// blocks are flat on the board
	default:
		return fmt.Errorf("translate block %d: invalid %s", h, axis)
	}
	return nil
}

func (s *Scene) Rotate(h Handle, axis Axis, degrees float64) error {
	b, err := s.block(h)
	if err != nil {
		return err
	}
	if axis != AxisZ {
		return fmt.Errorf("rotate block %d: unsupported %s", h, axis)
	}
	b.RotZ += degrees
	return nil
}

func (s *Scene) Centroid(h Handle) (x, y float64, err error) {
	b, err := s.block(h)
	if err != nil {
		return 0, 0, err
	}
	return b.X, b.Y, nil
}

func (s *Scene) AssignMaterial(f FigureHandle, sh Shader) error {
	if !sh.Valid() {
		return fmt.Errorf("assign material to figure %d: invalid %s", f, sh)
	}
	s.materials.Put(f, sh)
	return nil
}

func (s *Scene) PumpEvents() {
	s.Pumps++
	if s.OnPump != nil {
		s.OnPump()
	}
}

// Material returns the shader assigned to the figure that owns the block.
func (s *Scene) Material(h Handle) (Shader, bool) {
	b, ok := s.blocks.Get(h)
	if !ok {
		return 0, false
	}
	return s.materials.Get(b.Figure)
}

func (s *Scene) Len() int { return s.blocks.Len() }

// Blocks yields every live block ordered by handle.
func (s *Scene) Blocks() iter.Seq[SceneBlock] {
	return func(yield func(SceneBlock) bool) {
		handles := slices.Sorted(s.blocks.Keys())
		for _, h := range handles {
			b, _ := s.blocks.Get(h)
			if !yield(*b) {
				return
			}
		}
	}
}

// Reset drops every block and material.
func (s *Scene) Reset() {
	s.blocks.Clear()
	s.materials.Clear()
}
