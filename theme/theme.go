package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-pulsator/score"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Lane cells
	Rest       rune // · nothing sounding
	Note       rune // ● note
	Trill      rune // ≈ trill
	Tremolo    rune // ⁄ tremolo (slashed head)
	Continuous rune // ━ continuous
	Noise      rune // × noise (cross head)

	// Progress bar
	Played   rune // █ elapsed
	Playhead rune // ▶ current beat
	Ahead    rune // ░ remaining
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Rest:       '·',
			Note:       '●',
			Trill:      '≈',
			Tremolo:    '⁄',
			Continuous: '━',
			Noise:      '×',

			Played:   '█',
			Playhead: '▶',
			Ahead:    '░',
		},
	}
}

// Load builds a theme from a GIMP palette file, or the built-in palette
// when path is empty.
func Load(path string) (*Theme, error) {
	if path == "" {
		return New(DefaultPalette()), nil
	}
	p, err := LoadGPL(path)
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// KindSymbol returns the lane cell for an element kind.
func (t *Theme) KindSymbol(k score.Kind) rune {
	switch k {
	case score.KindNote:
		return t.Symbols.Note
	case score.KindTrill:
		return t.Symbols.Trill
	case score.KindTremolo:
		return t.Symbols.Tremolo
	case score.KindContinuous:
		return t.Symbols.Continuous
	case score.KindNoise:
		return t.Symbols.Noise
	}
	return t.Symbols.Rest
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleSurface = 0.1 // dark purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Dynamic colours a loudness level along the palette.
func (t *Theme) Dynamic(d score.Dynamic) lipgloss.Color {
	return t.Color(float64(d) / float64(score.FFF))
}

// Voice picks a distinct palette entry for the i-th lane, skipping the
// darkest colours.
func (t *Theme) Voice(i int) lipgloss.Color {
	n := len(t.Palette.Colors)
	if n <= 3 {
		return rgbToLipgloss(t.Palette.Index(n - 1))
	}
	return rgbToLipgloss(t.Palette.Index(3 + i%(n-3)))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
