package sequencer

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"go-pulsator/debug"
	"go-pulsator/midi"
)

var (
	ErrPlaying    = errors.New("player is playing")
	ErrNotPlaying = errors.New("player is not playing")
	ErrNotPaused  = errors.New("player is not paused")
)

// Listener is called on the playback goroutine after each pulse, with the
// pulse that just elapsed. Listeners may call Pause and Stop but not Play.
type Listener func(pulse int)

// Player walks pulses in order, runs the events due at each one and
// reports the pulse to the device and to listeners. It has no clock of its
// own: a pacing listener such as RealTime sets the speed.
type Player struct {
	device midi.Device

	mu        sync.Mutex
	index     map[int][]Event
	maxPulse  int
	pulse     int
	playing   bool
	paused    bool
	running   bool // a loop goroutine owns the device
	gen       int  // bumped by every stop; a loop exits when it changes
	done      chan struct{}
	listeners []Listener
	onFailure func(error)
}

// NewPlayer creates a stopped player driving device.
func NewPlayer(device midi.Device) *Player {
	return &Player{device: device, index: map[int][]Event{}, maxPulse: -1}
}

// SetEvents replaces the schedule. Events keep their order within a pulse.
func (p *Player) SetEvents(events []Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing {
		return ErrPlaying
	}
	index := make(map[int][]Event)
	for _, e := range events {
		index[e.Pulse] = append(index[e.Pulse], e)
	}
	p.index = index
	p.maxPulse = MaxPulse(events)
	debug.Log("player", "scheduled %d events up to pulse %d", len(events), p.maxPulse)
	return nil
}

// AddListener registers l for every subsequent pulse.
func (p *Player) AddListener(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// OnFailure sets the handler called when an event or the device fails.
// Playback is already stopped when it runs.
func (p *Player) OnFailure(f func(error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFailure = f
}

// Play starts playback from the current pulse, resuming the device when
// the player was paused.
func (p *Player) Play() error {
	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return ErrPlaying
	}
	prev := p.done
	p.mu.Unlock()

	// the previous loop must hand the device back first
	if prev != nil {
		<-prev
	}

	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return ErrPlaying
	}
	resume := p.paused
	p.playing = true
	p.paused = false
	p.running = true
	gen := p.gen
	done := make(chan struct{})
	p.done = done
	p.mu.Unlock()

	if resume {
		if err := p.device.Resume(); err != nil {
			p.fail(gen, fmt.Errorf("resume: %w", err))
			close(done)
			return err
		}
	}

	debug.Logger().Debug("play", zap.Int("pulse", p.CurrentPulse()), zap.Bool("resume", resume))
	go p.run(gen, done)
	return nil
}

// Resume continues a paused player.
func (p *Player) Resume() error {
	p.mu.Lock()
	paused := p.paused
	p.mu.Unlock()
	if !paused {
		return ErrNotPaused
	}
	return p.Play()
}

// Pause stops the loop at the next pulse boundary without rewinding. The
// device silences sounding notes but keeps them for Resume.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		return ErrNotPlaying
	}
	p.playing = false
	p.paused = true
	return nil
}

// Stop ends playback, rewinds to pulse 0 and silences every channel. A
// running loop performs the device cleanup when it exits; use Wait to
// block until then.
func (p *Player) Stop() error {
	p.mu.Lock()
	p.reset()
	running := p.running
	p.mu.Unlock()

	if running {
		return nil
	}
	return p.device.StopAll()
}

// Wait blocks until the current playback loop has exited.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Done returns a channel closed when the current loop exits.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return p.done
}

func (p *Player) CurrentPulse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pulse
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// MaxPulse returns the last scheduled pulse, or -1 with no events.
func (p *Player) MaxPulse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxPulse
}

// reset moves to Stopped. Callers hold p.mu.
func (p *Player) reset() {
	p.gen++
	p.pulse = 0
	p.playing = false
	p.paused = false
}

func (p *Player) run(gen int, done chan struct{}) {
	defer close(done)

	for {
		p.mu.Lock()
		switch {
		case p.gen != gen:
			p.running = false
			p.mu.Unlock()
			p.silence()
			return
		case !p.playing:
			p.running = false
			pulse := p.pulse
			p.mu.Unlock()
			if err := p.device.Pause(); err != nil {
				debug.Log("player", "pause at %d: %v", pulse, err)
			}
			return
		case p.pulse > p.maxPulse:
			p.reset()
			p.running = false
			p.mu.Unlock()
			debug.Log("player", "finished")
			p.silence()
			return
		}
		pulse := p.pulse
		events := p.index[pulse]
		listeners := slices.Clone(p.listeners)
		p.mu.Unlock()

		if err := p.tick(pulse, events); err != nil {
			p.fail(gen, err)
			return
		}
		for _, l := range listeners {
			l(pulse)
		}
		debug.LogEvery(256, "player", "pulse %d", pulse)

		p.mu.Lock()
		if p.gen == gen {
			p.pulse = pulse + 1
		}
		p.mu.Unlock()
	}
}

func (p *Player) tick(pulse int, events []Event) error {
	for _, e := range events {
		if err := e.Action(); err != nil {
			return fmt.Errorf("pulse %d %s: %w", pulse, e.Kind, err)
		}
	}
	if err := p.device.ReceivePulse(pulse); err != nil {
		return fmt.Errorf("pulse %d: %w", pulse, err)
	}
	return nil
}

// fail stops the session of generation gen and reports err. A session
// already stopped by someone else is not reported.
func (p *Player) fail(gen int, err error) {
	p.mu.Lock()
	current := p.gen == gen
	if current {
		p.reset()
	}
	p.running = false
	handler := p.onFailure
	p.mu.Unlock()

	debug.Logger().Error("playback failed", zap.Error(err), zap.Bool("reported", current))
	p.silence()
	if current && handler != nil {
		handler(err)
	}
}

func (p *Player) silence() {
	if err := p.device.StopAll(); err != nil {
		debug.Log("player", "stop all: %v", err)
	}
}
