package figure

import (
	"math/rand/v2"

	"github.com/ghthor/webtris/render"
	"github.com/ghthor/webtris/unsafering"
)

// historyLen is how many recent picks the ShaderPicker remembers.
const historyLen = 3

// ShaderPicker chooses a material for each new figure. Picks are uniform,
// except that once three picks are remembered there is a one in three chance
// of reusing the oldest of them, which also forgets the history.
type ShaderPicker struct {
	rng     *rand.Rand
	history *unsafering.Buffer[render.Shader]
}

func NewShaderPicker(rng *rand.Rand) *ShaderPicker {
	return &ShaderPicker{
		rng:     rng,
		history: unsafering.New[render.Shader](historyLen),
	}
}

func (p *ShaderPicker) Choose() render.Shader {
	s, reused := p.pick()
	p.record(s, reused)
	return s
}

// pick draws the next shader without touching the history.
func (p *ShaderPicker) pick() (s render.Shader, reused bool) {
	if p.history.Full() && p.rng.IntN(3) == 2 {
		s, _ = p.history.Oldest()
		return s, true
	}
	return render.Shader(p.rng.IntN(render.NumShaders)), false
}

func (p *ShaderPicker) record(s render.Shader, reused bool) {
	if reused {
		p.history.Clear()
	}
	p.history.Push(s)
}

// History returns the remembered picks, oldest first.
func (p *ShaderPicker) History() []render.Shader {
	return p.history.ReadRecent(historyLen)
}
