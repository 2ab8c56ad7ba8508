// Package score holds the element model shared by the generator and the
// playback scheduler, and its JSON file format.
package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// DefaultPulsesPerBeat is the scheduling resolution used unless a score
// says otherwise.
const DefaultPulsesPerBeat = 64

var ErrInvalidScore = errors.New("invalid score")

// Score is a flat list of elements at a fixed pulse resolution.
type Score struct {
	Title         string    `json:"title,omitempty"`
	PulsesPerBeat int       `json:"pulsesPerBeat"`
	Elements      []Element `json:"elements"`
}

// New creates an empty score.
func New(title string, pulsesPerBeat int) *Score {
	if pulsesPerBeat <= 0 {
		pulsesPerBeat = DefaultPulsesPerBeat
	}
	return &Score{Title: title, PulsesPerBeat: pulsesPerBeat}
}

// Add appends e, assigning the next free ID when e.ID is zero. Phases are
// re-pointed at the assigned ID.
func (s *Score) Add(e Element) *Element {
	if e.ID == 0 {
		e.ID = s.nextID()
	}
	for i := range e.Phases {
		e.Phases[i].ElementID = e.ID
	}
	s.Elements = append(s.Elements, e)
	return &s.Elements[len(s.Elements)-1]
}

func (s *Score) nextID() int {
	max := 0
	for _, e := range s.Elements {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}

// Index returns a lookup table from element ID to element.
func (s *Score) Index() map[int]*Element {
	idx := make(map[int]*Element, len(s.Elements))
	for i := range s.Elements {
		idx[s.Elements[i].ID] = &s.Elements[i]
	}
	return idx
}

// Lookup finds an element by ID.
func (s *Score) Lookup(id int) (*Element, bool) {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return &s.Elements[i], true
		}
	}
	return nil, false
}

// Owner resolves the element a phase belongs to.
func (s *Score) Owner(ph Phase) (*Element, bool) {
	return s.Lookup(ph.ElementID)
}

// Pulse converts a time in beats to an absolute pulse.
func (s *Score) Pulse(beat float64) int {
	return int(math.Round(beat * float64(s.PulsesPerBeat)))
}

// Length returns the end of the last element in beats.
func (s *Score) Length() float64 {
	end := 0.0
	for _, e := range s.Elements {
		end = math.Max(end, e.End)
	}
	return end
}

// Validate checks the resolution, ID uniqueness and every element.
func (s *Score) Validate() error {
	if s.PulsesPerBeat <= 0 {
		return fmt.Errorf("%w: pulses per beat %d", ErrInvalidScore, s.PulsesPerBeat)
	}
	seen := make(map[int]bool, len(s.Elements))
	for i := range s.Elements {
		e := &s.Elements[i]
		if seen[e.ID] {
			return fmt.Errorf("%w: duplicate element id %d", ErrInvalidScore, e.ID)
		}
		seen[e.ID] = true
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Load reads and validates a score file.
func Load(path string) (*Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Score
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if s.PulsesPerBeat == 0 {
		s.PulsesPerBeat = DefaultPulsesPerBeat
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes the score as indented JSON, creating parent directories.
func (s *Score) Save(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
