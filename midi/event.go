package midi

import (
	"errors"

	"go-pulsator/score"
)

// Controller numbers sent by the output
const (
	ccBankSelect uint8 = 0
	ccVolume     uint8 = 7
)

const (
	// Channels is the number of device channels.
	Channels = 16
	// PercussionChannel is the reserved, shared General MIDI drum channel.
	PercussionChannel uint8 = 9

	// trill alternation: primary on phase 0, secondary on phase trillHalf
	trillCycle = 10
	trillHalf  = 5

	maxBend = 8191
	minBend = -8192
)

var (
	ErrNoChannel      = errors.New("no free output channel")
	ErrInactive       = errors.New("note handle is not active")
	ErrAlreadyActive  = errors.New("note handle is already active")
	ErrTrillRange     = errors.New("trill interval exceeds pitch-bend range")
	ErrInvalidPeriod  = errors.New("tremolo period must be at least 2 pulses")
	ErrPortNotFound   = errors.New("midi output port not found")
	ErrScanTimeout    = errors.New("midi port scan timed out")
	ErrNothingToWrite = errors.New("recorder holds no messages")
)

// Device is the output contract driven by the pulse scheduler.
type Device interface {
	NewNoteHandle() NoteHandle
	ReceivePulse(pulse int) error
	Pause() error
	Resume() error
	StopAll() error
}

// NoteHandle is the playback state of one sounding element. A handle is
// active exactly while it holds a channel.
type NoteHandle interface {
	SetInstrument(inst score.Instrument) error
	// NoteOn acquires a channel and starts the note. A nil pitch plays the
	// instrument's unpitched key.
	NoteOn(pitch *score.Pitch, velocity uint8) error
	// NoteOff releases the channel. Calling it on an inactive handle does
	// nothing.
	NoteOff() error
	Trill(secondary score.Pitch) error
	Tremolo(pulsesPerRepetition int) error
	GradualVolumeChange(targetPulse int, targetVelocity uint8) error
	ReceivePulse(pulse int) error
	Active() bool
}
