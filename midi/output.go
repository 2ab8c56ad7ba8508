package midi

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-pulsator/debug"
)

// Sender delivers one message to a port, a recorder or a test sink.
type Sender func(gomidi.Message) error

// Output is a Device that renders note handles as channel messages.
type Output struct {
	mu     sync.Mutex
	send   Sender
	pool   *ChannelPool
	active []*handle
	paused bool
	pulse  atomic.Int64 // next pulse to be received
}

// Option configures an Output.
type Option func(*Output)

// WithPool shares a channel pool between outputs.
func WithPool(p *ChannelPool) Option {
	return func(o *Output) { o.pool = p }
}

// NewOutput creates an output sending through send.
func NewOutput(send Sender, opts ...Option) *Output {
	o := &Output{send: send, pool: NewChannelPool()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Pulse returns the pulse the output expects to receive next. It does not
// take the output lock, so a Sender may call it.
func (o *Output) Pulse() int {
	return int(o.pulse.Load())
}

// Pool returns the channel pool.
func (o *Output) Pool() *ChannelPool {
	return o.pool
}

// ActiveHandles returns the number of sounding handles.
func (o *Output) ActiveHandles() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.active)
}

// NewNoteHandle creates an inactive handle bound to the output.
func (o *Output) NewNoteHandle() NoteHandle {
	return &handle{out: o}
}

// ReceivePulse advances every active handle's effects by one pulse.
func (o *Output) ReceivePulse(pulse int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var errs []error
	for _, h := range slices.Clone(o.active) {
		if err := h.tick(pulse); err != nil {
			errs = append(errs, err)
		}
	}
	o.pulse.Store(int64(pulse + 1))
	return errors.Join(errs...)
}

// Pause silences every sounding handle but keeps its state for Resume.
func (o *Output) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.paused {
		return nil
	}
	o.paused = true
	var errs []error
	for _, h := range o.active {
		if h.sounding {
			errs = append(errs, o.emit(gomidi.NoteOff(h.channel, h.key)))
		}
	}
	debug.Log("midi", "paused %d handles at pulse %d", len(o.active), o.Pulse())
	return errors.Join(errs...)
}

// Resume re-attacks every active handle at its last pitch and volume.
func (o *Output) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.paused {
		return nil
	}
	o.paused = false
	var errs []error
	for _, h := range o.active {
		errs = append(errs, h.attack())
	}
	debug.Log("midi", "resumed %d handles at pulse %d", len(o.active), o.Pulse())
	return errors.Join(errs...)
}

// StopAll sends All Notes Off on every channel, releases every handle and
// rewinds the pulse counter.
func (o *Output) StopAll() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var errs []error
	for ch := uint8(0); ch < Channels; ch++ {
		errs = append(errs, o.emit(gomidi.ControlChange(ch, gomidi.AllNotesOff, gomidi.Off)))
	}
	for _, h := range o.active {
		h.reset()
	}
	o.active = nil
	o.paused = false
	o.pulse.Store(0)
	debug.Log("midi", "stopped all")
	return errors.Join(errs...)
}

func (o *Output) register(h *handle) {
	o.active = append(o.active, h)
}

func (o *Output) unregister(h *handle) {
	if i := slices.Index(o.active, h); i >= 0 {
		o.active = slices.Delete(o.active, i, i+1)
	}
}

// emit sends one message. Callers hold o.mu.
func (o *Output) emit(msg gomidi.Message) error {
	if o.send == nil {
		return nil
	}
	if err := o.send(msg); err != nil {
		return fmt.Errorf("send %s: %w", msg, err)
	}
	return nil
}
