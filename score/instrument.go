package score

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownInstrument = errors.New("unknown instrument")

// Instrument selects a sound on the output device.
type Instrument struct {
	Name       string `json:"name"`
	Program    uint8  `json:"program"`
	Bank       uint8  `json:"bank,omitempty"`
	Percussion bool   `json:"percussion,omitempty"`
	Key        uint8  `json:"key,omitempty"` // key played by unpitched elements
}

// DefaultUnpitchedKey is used by unpitched elements when the instrument
// does not name a key.
const DefaultUnpitchedKey = 60

// UnpitchedKey returns the key for elements without a pitch.
func (i Instrument) UnpitchedKey() uint8 {
	if i.Key != 0 {
		return i.Key
	}
	return DefaultUnpitchedKey
}

// General MIDI presets
var Instruments = map[string]Instrument{
	"piano":      {Name: "piano", Program: 0},
	"marimba":    {Name: "marimba", Program: 12},
	"violin":     {Name: "violin", Program: 40},
	"viola":      {Name: "viola", Program: 41},
	"cello":      {Name: "cello", Program: 42},
	"contrabass": {Name: "contrabass", Program: 43},
	"trumpet":    {Name: "trumpet", Program: 56},
	"horn":       {Name: "horn", Program: 60},
	"clarinet":   {Name: "clarinet", Program: 71},
	"flute":      {Name: "flute", Program: 73},
	"percussion": {Name: "percussion", Percussion: true, Key: 39},
	"cymbal":     {Name: "cymbal", Percussion: true, Key: 49},
}

// LookupInstrument returns the preset with the given name.
func LookupInstrument(name string) (Instrument, error) {
	inst, ok := Instruments[name]
	if !ok {
		return Instrument{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, name)
	}
	return inst, nil
}

// InstrumentNames returns the preset names in sorted order.
func InstrumentNames() []string {
	names := make([]string, 0, len(Instruments))
	for name := range Instruments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
