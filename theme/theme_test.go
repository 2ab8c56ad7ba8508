package theme

import (
	"errors"
	"strings"
	"testing"

	"go-pulsator/score"
)

const gpl = `GIMP Palette
Name: two tone
Columns: 2
# comment
  0   0   0	black
255 128  64	orange
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(gpl))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "two tone" || len(p.Colors) != 2 {
		t.Fatalf("palette = %+v", p)
	}
	if got := p.Lookup(0.5); got != (RGB{127, 64, 32}) {
		t.Errorf("Lookup(0.5) = %v", got)
	}
	if p.Lookup(-1) != p.Colors[0] || p.Lookup(2) != p.Colors[1] {
		t.Error("Lookup does not clamp")
	}

	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n")); !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("empty palette err = %v", err)
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	th, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if th.Palette.Name != "pulsator" {
		t.Errorf("palette = %s", th.Palette.Name)
	}
	if th.Color(0) != th.BG() || th.Dynamic(score.FFF) != th.Success() {
		t.Error("role colours disagree with palette ends")
	}
	if _, err := Load("/nonexistent/palette.gpl"); err == nil {
		t.Error("expected error for missing palette")
	}
}

func TestKindSymbols(t *testing.T) {
	th := New(DefaultPalette())
	seen := map[rune]bool{}
	for _, k := range score.Kinds {
		r := th.KindSymbol(k)
		if r == th.Symbols.Rest || seen[r] {
			t.Errorf("kind %s has symbol %q", k, r)
		}
		seen[r] = true
	}
}

func TestVoiceColours(t *testing.T) {
	th := New(DefaultPalette())
	if th.Voice(0) == th.Voice(1) {
		t.Error("adjacent voices share a colour")
	}
	n := len(th.Palette.Colors) - 3
	if th.Voice(0) != th.Voice(n) {
		t.Error("voice colours do not wrap")
	}
	if th.Voice(0) == th.BG() {
		t.Error("voice uses the background colour")
	}
}
