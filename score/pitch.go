package score

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPitch = errors.New("invalid pitch")

// Step is a diatonic step name.
type Step int

const (
	StepC Step = iota
	StepD
	StepE
	StepF
	StepG
	StepA
	StepB
)

var stepNames = [...]string{"C", "D", "E", "F", "G", "A", "B"}

// chromatic offset of each step from C
var stepSemitones = [...]int{0, 2, 4, 5, 7, 9, 11}

func (s Step) String() string {
	if s < StepC || s > StepB {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// Accidental alters a step in quarter tones.
type Accidental int

const (
	DoubleFlat        Accidental = -4
	ThreeQuarterFlat  Accidental = -3
	Flat              Accidental = -2
	QuarterFlat       Accidental = -1
	Natural           Accidental = 0
	QuarterSharp      Accidental = 1
	Sharp             Accidental = 2
	ThreeQuarterSharp Accidental = 3
	DoubleSharp       Accidental = 4
)

// suffixes used by ParsePitch and Pitch.String, indexed by quarter tones + 4
var accidentalSuffixes = [...]string{"bb", "db", "b", "d", "", "+", "#", "#+", "x"}

// Semitones per full pitch-bend deflection assumed for the output device.
const BendSemitones = 2

// BendPerSemitone is the pitch-bend value of one semitone.
const BendPerSemitone = 8192 / BendSemitones

// Pitch is a notated pitch: step, octave register (4 holds middle C) and a
// possibly microtonal accidental. Pitches marshal as their names ("C#4").
type Pitch struct {
	Step       Step
	Octave     int
	Accidental Accidental
}

// MIDIKey returns the device key, rounding quarter tones down; the remainder
// is carried by Bend.
func (p Pitch) MIDIKey() int {
	semis := floorDiv(int(p.Accidental), 2)
	return 12*(p.Octave+1) + stepSemitones[p.Step] + semis
}

// Bend returns the pitch-bend offset completing MIDIKey for microtonal
// accidentals: 0 or a quarter tone up.
func (p Pitch) Bend() int {
	q := int(p.Accidental)
	rem := q - 2*floorDiv(q, 2)
	return rem * BendPerSemitone / 2
}

// Cents returns the pitch in cents above MIDI key 0.
func (p Pitch) Cents() int {
	return p.MIDIKey()*100 + p.Bend()*100/BendPerSemitone
}

func (p Pitch) String() string {
	return p.Step.String() + accidentalSuffix(p.Accidental) + strconv.Itoa(p.Octave)
}

// Valid reports whether the pitch maps onto the MIDI key range.
func (p Pitch) Valid() bool {
	if p.Step < StepC || p.Step > StepB || p.Accidental < DoubleFlat || p.Accidental > DoubleSharp {
		return false
	}
	k := p.MIDIKey()
	return k >= 0 && k <= 127
}

func accidentalSuffix(a Accidental) string {
	if a < DoubleFlat || a > DoubleSharp {
		return "?"
	}
	return accidentalSuffixes[a+4]
}

// PitchFromKey spells a MIDI key using sharps.
func PitchFromKey(key int) Pitch {
	octave := floorDiv(key, 12) - 1
	pc := key - 12*(octave+1)
	for s := StepB; s >= StepC; s-- {
		if stepSemitones[s] <= pc {
			return Pitch{Step: s, Octave: octave, Accidental: Accidental(2 * (pc - stepSemitones[s]))}
		}
	}
	return Pitch{Octave: octave}
}

// ParsePitch parses names like "C4", "F#3", "Bb5", "Ed4" (E quarter-flat)
// or "G#+2" (G three-quarter-sharp).
func ParsePitch(s string) (Pitch, error) {
	if len(s) < 2 {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}
	step := -1
	for i, name := range stepNames {
		if strings.EqualFold(s[:1], name) {
			step = i
		}
	}
	if step < 0 {
		return Pitch{}, fmt.Errorf("%w: unknown step in %q", ErrInvalidPitch, s)
	}

	rest := s[1:]
	end := len(rest)
	for end > 0 && (rest[end-1] >= '0' && rest[end-1] <= '9' || rest[end-1] == '-') {
		end--
	}
	octave, err := strconv.Atoi(rest[end:])
	if err != nil {
		return Pitch{}, fmt.Errorf("%w: octave in %q", ErrInvalidPitch, s)
	}

	suffix := rest[:end]
	acc := Accidental(-5)
	for i, sfx := range accidentalSuffixes {
		if sfx == suffix {
			acc = Accidental(i - 4)
		}
	}
	if suffix == "##" {
		acc = DoubleSharp
	}
	if acc < DoubleFlat {
		return Pitch{}, fmt.Errorf("%w: accidental %q in %q", ErrInvalidPitch, suffix, s)
	}

	p := Pitch{Step: Step(step), Octave: octave, Accidental: acc}
	if !p.Valid() {
		return Pitch{}, fmt.Errorf("%w: %q outside MIDI range", ErrInvalidPitch, s)
	}
	return p, nil
}

func (p Pitch) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPitch, p)
	}
	return []byte(p.String()), nil
}

func (p *Pitch) UnmarshalText(text []byte) error {
	parsed, err := ParsePitch(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MustParsePitch is ParsePitch that panics on error.
func MustParsePitch(s string) Pitch {
	p, err := ParsePitch(s)
	if err != nil {
		panic(err)
	}
	return p
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
