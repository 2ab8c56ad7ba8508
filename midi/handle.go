package midi

import (
	"errors"
	"fmt"
	"math"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-pulsator/score"
)

var ErrPercussion = errors.New("effect not available on the percussion channel")

// ramp is a linear volume change between two pulses.
type ramp struct {
	startPulse, endPulse   int
	startVolume, endVolume uint8
}

func (r ramp) at(pulse int) uint8 {
	switch {
	case pulse >= r.endPulse:
		return r.endVolume
	case pulse <= r.startPulse:
		return r.startVolume
	}
	frac := float64(pulse-r.startPulse) / float64(r.endPulse-r.startPulse)
	v := float64(r.startVolume) + frac*(float64(r.endVolume)-float64(r.startVolume))
	return uint8(math.Round(v))
}

// handle is the NoteHandle of an Output. All state is guarded by the
// output's mutex.
type handle struct {
	out  *Output
	inst score.Instrument

	active   bool
	channel  uint8
	key      uint8
	bend     int
	volume   uint8
	sounding bool

	ramp *ramp

	trilling   bool
	trillBend  int
	trillStart int

	tremolo      int
	tremoloStart int
}

func (h *handle) SetInstrument(inst score.Instrument) error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	h.inst = inst
	if h.active && h.channel != PercussionChannel {
		return h.program()
	}
	return nil
}

func (h *handle) NoteOn(pitch *score.Pitch, velocity uint8) error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	if h.active {
		return ErrAlreadyActive
	}

	key, bend := h.inst.UnpitchedKey(), 0
	if pitch != nil && !h.inst.Percussion {
		if !pitch.Valid() {
			return fmt.Errorf("note on: %w: %v", score.ErrInvalidPitch, *pitch)
		}
		key, bend = uint8(pitch.MIDIKey()), pitch.Bend()
	}

	ch, err := h.out.pool.Acquire(h.inst.Percussion)
	if err != nil {
		return fmt.Errorf("note on %s: %w", h.inst.Name, err)
	}
	h.active = true
	h.channel = ch
	h.key = key
	h.bend = bend
	h.volume = velocity
	h.out.register(h)

	if ch != PercussionChannel {
		if err := h.program(); err != nil {
			return err
		}
	}
	return h.attack()
}

func (h *handle) NoteOff() error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	if !h.active {
		return nil
	}
	var err error
	if h.sounding {
		err = h.out.emit(gomidi.NoteOff(h.channel, h.key))
	}
	h.out.unregister(h)
	h.reset()
	return err
}

func (h *handle) Trill(secondary score.Pitch) error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	switch {
	case !h.active:
		return ErrInactive
	case h.channel == PercussionChannel:
		return fmt.Errorf("trill: %w", ErrPercussion)
	case !secondary.Valid():
		return fmt.Errorf("trill: %w: %v", score.ErrInvalidPitch, secondary)
	}
	bend := (secondary.MIDIKey()-int(h.key))*score.BendPerSemitone + secondary.Bend()
	// a full-range whole tone lands one step past the top of the wheel
	if bend < minBend || bend > maxBend+1 {
		return fmt.Errorf("%w: %s from key %d", ErrTrillRange, secondary, h.key)
	}
	h.trilling = true
	h.trillBend = min(bend, maxBend)
	h.trillStart = h.out.Pulse()
	return nil
}

func (h *handle) Tremolo(pulsesPerRepetition int) error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	if !h.active {
		return ErrInactive
	}
	if pulsesPerRepetition < 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidPeriod, pulsesPerRepetition)
	}
	h.tremolo = pulsesPerRepetition
	h.tremoloStart = h.out.Pulse()
	return nil
}

func (h *handle) GradualVolumeChange(targetPulse int, targetVelocity uint8) error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	if !h.active {
		return ErrInactive
	}
	now := h.out.Pulse()
	if targetPulse <= now {
		h.ramp = nil
		return h.setVolume(targetVelocity)
	}
	h.ramp = &ramp{
		startPulse:  now,
		endPulse:    targetPulse,
		startVolume: h.volume,
		endVolume:   targetVelocity,
	}
	return nil
}

func (h *handle) ReceivePulse(pulse int) error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	if !h.active {
		return ErrInactive
	}
	return h.tick(pulse)
}

func (h *handle) Active() bool {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	return h.active
}

// tick applies one step of each armed effect: ramp, then trill, then
// tremolo.
func (h *handle) tick(pulse int) error {
	var errs []error

	if h.ramp != nil {
		v := h.ramp.at(pulse)
		if pulse >= h.ramp.endPulse {
			h.ramp = nil
		}
		if v != h.volume {
			errs = append(errs, h.setVolume(v))
		}
	}

	if d := pulse - h.trillStart; h.trilling && d >= 0 {
		switch d % trillCycle {
		case 0:
			errs = append(errs, h.out.emit(gomidi.Pitchbend(h.channel, int16(h.bend))))
		case trillHalf:
			errs = append(errs, h.out.emit(gomidi.Pitchbend(h.channel, int16(h.trillBend))))
		}
	}

	if d := pulse - h.tremoloStart; h.tremolo > 0 && d >= 0 {
		switch d % h.tremolo {
		case 0:
			if !h.sounding {
				errs = append(errs, h.out.emit(gomidi.NoteOn(h.channel, h.key, h.volume)))
				h.sounding = true
			}
		case h.tremolo / 2:
			if h.sounding {
				errs = append(errs, h.out.emit(gomidi.NoteOff(h.channel, h.key)))
				h.sounding = false
			}
		}
	}

	return errors.Join(errs...)
}

// attack (re)starts the note at the current pitch and volume.
func (h *handle) attack() error {
	var errs []error
	errs = append(errs, h.out.emit(gomidi.ControlChange(h.channel, ccVolume, h.volume)))
	if h.channel != PercussionChannel {
		errs = append(errs, h.out.emit(gomidi.Pitchbend(h.channel, int16(h.bend))))
	}
	errs = append(errs, h.out.emit(gomidi.NoteOn(h.channel, h.key, h.volume)))
	h.sounding = true
	return errors.Join(errs...)
}

func (h *handle) program() error {
	return errors.Join(
		h.out.emit(gomidi.ControlChange(h.channel, ccBankSelect, h.inst.Bank)),
		h.out.emit(gomidi.ProgramChange(h.channel, h.inst.Program)),
	)
}

func (h *handle) setVolume(v uint8) error {
	h.volume = v
	return h.out.emit(gomidi.ControlChange(h.channel, ccVolume, v))
}

// reset returns the channel and clears everything but the instrument.
func (h *handle) reset() {
	if h.active {
		h.out.pool.Release(h.channel)
	}
	*h = handle{out: h.out, inst: h.inst}
}
