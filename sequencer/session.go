package sequencer

import (
	"sync"

	"go-pulsator/midi"
	"go-pulsator/score"
)

// Session binds a score to a player, paces it at a tempo and notifies a UI.
type Session struct {
	*Player

	mu     sync.Mutex
	device midi.Device
	score  *score.Score
	tempo  float64
	pacer  Listener

	// Notify UI of pulse updates
	UpdateChan chan struct{}
}

// NewSession schedules s on device. A tempo of zero plays as fast as the
// device accepts pulses.
func NewSession(device midi.Device, s *score.Score, tempo float64) (*Session, error) {
	ss := &Session{
		Player:     NewPlayer(device),
		device:     device,
		tempo:      tempo,
		UpdateChan: make(chan struct{}, 1),
	}
	if err := ss.Load(s); err != nil {
		return nil, err
	}
	ss.AddListener(ss.pace)
	ss.AddListener(ss.notify)
	return ss, nil
}

// Load replaces the score. It fails with ErrPlaying during playback.
func (ss *Session) Load(s *score.Score) error {
	events, err := BuildEvents(s, ss.device)
	if err != nil {
		return err
	}
	if err := ss.SetEvents(events); err != nil {
		return err
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.score = s
	ss.pacer = ss.newPacer()
	return nil
}

func (ss *Session) Score() *score.Score {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.score
}

func (ss *Session) Tempo() float64 {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.tempo
}

// SetTempo changes the pace, taking effect at the next pulse.
func (ss *Session) SetTempo(bpm float64) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.tempo = bpm
	ss.pacer = ss.newPacer()
}

// Beat returns the playhead position in beats.
func (ss *Session) Beat() float64 {
	s := ss.Score()
	return float64(ss.CurrentPulse()) / float64(s.PulsesPerBeat)
}

func (ss *Session) newPacer() Listener {
	if ss.tempo <= 0 {
		return nil
	}
	return TempoPacer(ss.tempo, ss.score.PulsesPerBeat)
}

func (ss *Session) pace(pulse int) {
	ss.mu.Lock()
	pacer := ss.pacer
	ss.mu.Unlock()
	if pacer != nil {
		pacer(pulse)
	}
}

func (ss *Session) notify(int) {
	select {
	case ss.UpdateChan <- struct{}{}:
	default:
	}
}
