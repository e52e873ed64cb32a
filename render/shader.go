package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Shader is one of the fixed block materials.
type Shader uint8

const (
	Blue Shader = iota
	Green
	Yellow
	Orange
	Red
)

// NumShaders is the size of the palette.
const NumShaders = 5

type RGB struct{ R, G, B float64 }

var palette = [NumShaders]struct {
	name string
	rgb  RGB
	hex  string
}{
	Blue:   {"blue", RGB{0.01, 0.25, 0.68}, "#0340AD"},
	Green:  {"green", RGB{0, 0.9, 0}, "#00E500"},
	Yellow: {"yellow", RGB{1, 0.83, 0}, "#FFD400"},
	Orange: {"orange", RGB{1, 0.28, 0}, "#FF4700"},
	Red:    {"red", RGB{1, 0, 0}, "#FF0000"},
}

func (s Shader) Valid() bool { return s < NumShaders }

func (s Shader) String() string {
	if !s.Valid() {
		return fmt.Sprintf("shader(%d)", uint8(s))
	}
	return palette[s].name
}

func (s Shader) RGB() RGB {
	if !s.Valid() {
		return RGB{}
	}
	return palette[s].rgb
}

// Color is the terminal color used to draw the shader.
func (s Shader) Color() lipgloss.TerminalColor {
	if !s.Valid() {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(palette[s].hex)
}
