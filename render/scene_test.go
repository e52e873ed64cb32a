package render

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScene(t *testing.T) {
	s := NewScene()
	a, err := s.CreateBlock(BlockDescriptor{Shape: "T", X: -0.5, Y: 20.5}, 1)
	require.NoError(t, err)
	b, err := s.CreateBlock(BlockDescriptor{Shape: "T", X: 0.5, Y: 20.5}, 1)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	require.NoError(t, s.Translate(a, AxisX, 1))
	require.NoError(t, s.Translate(a, AxisY, -2))
	require.NoError(t, s.Rotate(a, AxisZ, 90))
	require.Error(t, s.Rotate(a, AxisX, 90))

	x, y, err := s.Centroid(a)
	require.NoError(t, err)
	assert.Equal(t, 0.5, x)
	assert.Equal(t, 18.5, y)

	_, ok := s.Material(a)
	assert.False(t, ok)
	require.NoError(t, s.AssignMaterial(1, Yellow))
	require.Error(t, s.AssignMaterial(1, Shader(9)))
	sh, ok := s.Material(b)
	require.True(t, ok)
	assert.Equal(t, Yellow, sh)

	blocks := slices.Collect(s.Blocks())
	require.Len(t, blocks, 2)
	assert.Equal(t, a, blocks[0].Handle)
	assert.Equal(t, 90.0, blocks[0].RotZ)

	require.NoError(t, s.DeleteBlock(a))
	require.ErrorIs(t, s.DeleteBlock(a), ErrUnknownBlock)
	_, _, err = s.Centroid(a)
	require.ErrorIs(t, err, ErrUnknownBlock)
	require.ErrorIs(t, s.Translate(a, AxisX, 1), ErrUnknownBlock)

	pumped := 0
	s.OnPump = func() { pumped++ }
	s.PumpEvents()
	s.PumpEvents()
	assert.Equal(t, 2, pumped)
	assert.Equal(t, 2, s.Pumps)

	s.Reset()
	assert.Zero(t, s.Len())
}

func TestShaderPalette(t *testing.T) {
	assert.Equal(t, "blue", Blue.String())
	assert.Equal(t, RGB{1, 0, 0}, Red.RGB())
	assert.False(t, Shader(NumShaders).Valid())
	assert.Equal(t, "shader(5)", Shader(5).String())
}
