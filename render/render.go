// Package render defines the boundary between the game engine and whatever
// presents it. The engine owns all game state; a Renderer only mirrors block
// poses and materials and gives the host a chance to process its own events.
package render

import (
	"errors"
	"fmt"
)

var ErrUnknownBlock = errors.New("unknown block")

// Handle identifies one renderable block.
type Handle uint64

// FigureHandle groups the blocks of a single figure.
type FigureHandle uint64

type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", uint8(a))
}

// BlockDescriptor describes a block to be created: the shape it belongs to
// and its initial world-space centroid.
type BlockDescriptor struct {
	Shape string
	X, Y  float64
}

// Renderer is implemented by the presentation layer. Translate and Rotate are
// relative to the block's current pose.
type Renderer interface {
	CreateBlock(desc BlockDescriptor, parent FigureHandle) (Handle, error)
	DeleteBlock(h Handle) error
	Translate(h Handle, axis Axis, delta float64) error
	Rotate(h Handle, axis Axis, degrees float64) error
	Centroid(h Handle) (x, y float64, err error)
	AssignMaterial(f FigureHandle, s Shader) error
	// PumpEvents yields to the host once per frame.
	PumpEvents()
}
