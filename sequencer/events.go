package sequencer

import (
	"fmt"
	"sort"

	"go-pulsator/midi"
	"go-pulsator/score"
)

// EventKind says what an event does to its element's handle.
type EventKind int

const (
	EventNoteOn EventKind = iota
	EventRamp
	EventNoteOff
)

func (k EventKind) String() string {
	switch k {
	case EventNoteOn:
		return "note-on"
	case EventRamp:
		return "ramp"
	case EventNoteOff:
		return "note-off"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one action bound to an absolute pulse. Element, Kind, Target
// and Dynamic describe the action for inspection; only Action is executed.
type Event struct {
	Pulse   int
	Element int
	Kind    EventKind
	Target  int           // ramp: pulse at which Dynamic is reached
	Dynamic score.Dynamic // note-on and ramp level
	Action  func() error
}

// voice holds the handle of one element between its events.
type voice struct {
	device midi.Device
	handle midi.NoteHandle
}

func (v *voice) noteOn(e *score.Element) error {
	// a fresh handle per attack, so a replay never reuses a stopped one
	v.handle = v.device.NewNoteHandle()
	if err := v.handle.SetInstrument(e.Instrument); err != nil {
		return fmt.Errorf("element %d: %w", e.ID, err)
	}
	if err := v.handle.NoteOn(e.Pitch, e.Dynamic.Velocity()); err != nil {
		return fmt.Errorf("element %d: %w", e.ID, err)
	}

	var err error
	switch e.Kind {
	case score.KindTrill:
		err = v.handle.Trill(*e.Secondary)
	case score.KindTremolo:
		err = v.handle.Tremolo(e.TremoloPulses)
	}
	if err != nil {
		return fmt.Errorf("element %d: %w", e.ID, err)
	}
	return nil
}

func (v *voice) ramp(id, target int, d score.Dynamic) error {
	if v.handle == nil {
		return fmt.Errorf("element %d ramp: %w", id, midi.ErrInactive)
	}
	if err := v.handle.GradualVolumeChange(target, d.Velocity()); err != nil {
		return fmt.Errorf("element %d ramp: %w", id, err)
	}
	return nil
}

func (v *voice) noteOff(id int) error {
	if v.handle == nil {
		return nil
	}
	h := v.handle
	v.handle = nil
	if err := h.NoteOff(); err != nil {
		return fmt.Errorf("element %d: %w", id, err)
	}
	return nil
}

// BuildEvents converts every element of s into pulse-stamped actions on
// device: a note-on, one ramp per phase and a note-off. The result is
// ordered by pulse; within a pulse, by element then emission order.
func BuildEvents(s *score.Score, device midi.Device) ([]Event, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var events []Event
	for i := range s.Elements {
		events = append(events, elementEvents(s, &s.Elements[i], device)...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Pulse < events[j].Pulse
	})
	return events, nil
}

func elementEvents(s *score.Score, e *score.Element, device midi.Device) []Event {
	el := *e
	v := &voice{device: device}

	on := s.Pulse(el.Start)
	off := max(s.Pulse(el.End), on+1)

	events := []Event{{
		Pulse:   on,
		Element: el.ID,
		Kind:    EventNoteOn,
		Dynamic: el.Dynamic,
		Action:  func() error { return v.noteOn(&el) },
	}}

	for i, ph := range el.Phases {
		at := s.Pulse(ph.Time)
		target := off
		if i+1 < len(el.Phases) {
			target = s.Pulse(el.Phases[i+1].Time)
		}
		dyn := ph.Dynamic
		events = append(events, Event{
			Pulse:   at,
			Element: el.ID,
			Kind:    EventRamp,
			Target:  target,
			Dynamic: dyn,
			Action:  func() error { return v.ramp(el.ID, target, dyn) },
		})
	}

	events = append(events, Event{
		Pulse:   off,
		Element: el.ID,
		Kind:    EventNoteOff,
		Action:  func() error { return v.noteOff(el.ID) },
	})
	return events
}

// MaxPulse returns the last pulse any event is scheduled at, or -1.
func MaxPulse(events []Event) int {
	last := -1
	for _, e := range events {
		last = max(last, e.Pulse)
	}
	return last
}
