package midi

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type stamped struct {
	pulse int
	msg   gomidi.Message
}

// Recorder captures messages with the pulse they were sent at and writes
// them as a standard MIDI file, one tick per pulse.
type Recorder struct {
	mu            sync.Mutex
	pulsesPerBeat int
	clock         func() int
	messages      []stamped
	last          int
}

// NewRecorder creates a recorder at the given resolution. Until SetClock is
// called every message is stamped at pulse 0.
func NewRecorder(pulsesPerBeat int) *Recorder {
	return &Recorder{pulsesPerBeat: pulsesPerBeat, clock: func() int { return 0 }}
}

// SetClock sets the pulse source, usually Output.Pulse.
func (r *Recorder) SetClock(clock func() int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = clock
}

// Send records msg. It satisfies Sender.
func (r *Recorder) Send(msg gomidi.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// stamps never go backwards, a rewinding device clock included
	p := max(r.clock(), r.last)
	r.last = p
	r.messages = append(r.messages, stamped{pulse: p, msg: append(gomidi.Message(nil), msg...)})
	return nil
}

// Len returns the number of recorded messages.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// Reset drops every recorded message.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
	r.last = 0
}

func (r *Recorder) build(bpm float64) (*smf.SMF, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.messages) == 0 {
		return nil, ErrNothingToWrite
	}
	if r.pulsesPerBeat <= 0 || r.pulsesPerBeat > 0x7FFF {
		return nil, fmt.Errorf("invalid resolution %d", r.pulsesPerBeat)
	}

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(uint16(r.pulsesPerBeat))

	var track smf.Track
	track.Add(0, smf.MetaMeter(4, 4))
	track.Add(0, smf.MetaTempo(bpm))
	prev := 0
	for _, m := range r.messages {
		track.Add(uint32(m.pulse-prev), m.msg)
		prev = m.pulse
	}
	track.Close(0)

	if err := sm.Add(track); err != nil {
		return nil, err
	}
	return sm, nil
}

// Encode writes the recording as a single-track MIDI file.
func (r *Recorder) Encode(w io.Writer, bpm float64) (int64, error) {
	sm, err := r.build(bpm)
	if err != nil {
		return 0, err
	}
	return sm.WriteTo(w)
}

// WriteFile writes the recording to path, creating parent directories.
func (r *Recorder) WriteFile(path string, bpm float64) error {
	sm, err := r.build(bpm)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return sm.WriteFile(path)
}
