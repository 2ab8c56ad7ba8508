package score

import (
	"errors"
	"fmt"
)

var ErrInvalidElement = errors.New("invalid element")

// Element is one musical gesture. Times are in beats.
type Element struct {
	ID            int        `json:"id"`
	Kind          Kind       `json:"kind"`
	Start         float64    `json:"start"`
	End           float64    `json:"end"`
	Pitch         *Pitch     `json:"pitch,omitempty"`
	Secondary     *Pitch     `json:"secondary,omitempty"`
	Dynamic       Dynamic    `json:"dynamic"`
	Instrument    Instrument `json:"instrument"`
	TremoloPulses int        `json:"tremoloPulses,omitempty"`
	Phases        []Phase    `json:"phases,omitempty"`
}

// Phase marks a dynamic target inside a continuous element. It refers to
// its owner by ID; the element owns the phase, never the other way round.
type Phase struct {
	ElementID int     `json:"elementId"`
	Time      float64 `json:"time"`
	Dynamic   Dynamic `json:"dynamic"`
}

// AddPhase appends a phase owned by e.
func (e *Element) AddPhase(time float64, d Dynamic) {
	e.Phases = append(e.Phases, Phase{ElementID: e.ID, Time: time, Dynamic: d})
}

// Duration returns End-Start in beats.
func (e *Element) Duration() float64 { return e.End - e.Start }

// Validate checks e against its kind's capabilities.
func (e *Element) Validate() error {
	caps := e.Kind.Capabilities()
	switch {
	case !e.Kind.Valid():
		return fmt.Errorf("%w %d: %w", ErrInvalidElement, e.ID, ErrInvalidKind)
	case !e.Dynamic.Valid():
		return fmt.Errorf("%w %d: %w", ErrInvalidElement, e.ID, ErrInvalidDynamic)
	case e.Start < 0:
		return fmt.Errorf("%w %d: negative start %g", ErrInvalidElement, e.ID, e.Start)
	case e.End <= e.Start:
		return fmt.Errorf("%w %d: end %g not after start %g", ErrInvalidElement, e.ID, e.End, e.Start)
	case caps.Pitched && (e.Pitch == nil || !e.Pitch.Valid()):
		return fmt.Errorf("%w %d: %s needs a valid pitch", ErrInvalidElement, e.ID, e.Kind)
	case caps.Secondary && (e.Secondary == nil || !e.Secondary.Valid()):
		return fmt.Errorf("%w %d: %s needs a secondary pitch", ErrInvalidElement, e.ID, e.Kind)
	case caps.Periodic && e.TremoloPulses < 2:
		return fmt.Errorf("%w %d: tremolo period %d below 2 pulses", ErrInvalidElement, e.ID, e.TremoloPulses)
	case !caps.Phases && len(e.Phases) > 0:
		return fmt.Errorf("%w %d: %s cannot carry phases", ErrInvalidElement, e.ID, e.Kind)
	case e.Instrument.Percussion && !caps.Percussion:
		return fmt.Errorf("%w %d: %s not playable by %s", ErrInvalidElement, e.ID, e.Kind, e.Instrument.Name)
	}

	prev := e.Start
	for i, ph := range e.Phases {
		if ph.ElementID != e.ID {
			return fmt.Errorf("%w %d: phase %d belongs to element %d", ErrInvalidElement, e.ID, i, ph.ElementID)
		}
		if ph.Time < prev || (i > 0 && ph.Time == prev) || ph.Time >= e.End {
			return fmt.Errorf("%w %d: phase %d at %g out of order or outside [%g, %g)", ErrInvalidElement, e.ID, i, ph.Time, e.Start, e.End)
		}
		if !ph.Dynamic.Valid() {
			return fmt.Errorf("%w %d: phase %d: %w", ErrInvalidElement, e.ID, i, ErrInvalidDynamic)
		}
		prev = ph.Time
	}
	return nil
}
