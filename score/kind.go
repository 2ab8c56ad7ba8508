package score

import (
	"errors"
	"fmt"
)

var ErrInvalidKind = errors.New("invalid element kind")

// Kind is the closed set of element variants.
type Kind int

const (
	KindNote Kind = iota
	KindTrill
	KindTremolo
	KindContinuous
	KindNoise
)

// Kinds lists every variant.
var Kinds = []Kind{KindNote, KindTrill, KindTremolo, KindContinuous, KindNoise}

// NoteHead is the notated head shape of an element.
type NoteHead string

const (
	HeadNormal  NoteHead = "normal"
	HeadSlashed NoteHead = "slashed"
	HeadCross   NoteHead = "cross"
)

// Capability describes what a kind needs and produces. The table is
// consulted by both the generator and the event builder.
type Capability struct {
	Name       string
	Pitched    bool // requires a pitch
	Secondary  bool // requires a secondary pitch (trill target)
	Phases     bool // may carry dynamic phases
	Periodic   bool // re-attacks at a pulse period (tremolo)
	Percussion bool // playable by percussion instruments
	Head       NoteHead
}

var capabilities = map[Kind]Capability{
	KindNote:       {Name: "note", Pitched: true, Percussion: true, Head: HeadNormal},
	KindTrill:      {Name: "trill", Pitched: true, Secondary: true, Head: HeadNormal},
	KindTremolo:    {Name: "tremolo", Pitched: true, Periodic: true, Percussion: true, Head: HeadSlashed},
	KindContinuous: {Name: "continuous", Pitched: true, Phases: true, Head: HeadNormal},
	KindNoise:      {Name: "noise", Phases: true, Percussion: true, Head: HeadCross},
}

// Capabilities returns the table row for k.
func (k Kind) Capabilities() Capability {
	return capabilities[k]
}

func (k Kind) Valid() bool {
	_, ok := capabilities[k]
	return ok
}

func (k Kind) String() string {
	if c, ok := capabilities[k]; ok {
		return c.Name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for kind, c := range capabilities {
		if c.Name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidKind, text)
}
