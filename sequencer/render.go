package sequencer

import (
	"go-pulsator/debug"
	"go-pulsator/midi"
	"go-pulsator/score"
)

// Render plays s as fast as possible into a recorder stamped with the
// output's pulse, ready for WriteFile.
func Render(s *score.Score) (*midi.Recorder, error) {
	rec := midi.NewRecorder(s.PulsesPerBeat)
	out := midi.NewOutput(rec.Send)
	rec.SetClock(out.Pulse)

	session, err := NewSession(out, s, 0)
	if err != nil {
		return nil, err
	}

	var failure error
	session.OnFailure(func(err error) { failure = err })
	if err := session.Play(); err != nil {
		return nil, err
	}
	session.Wait()
	if failure != nil {
		return nil, failure
	}

	debug.Log("player", "rendered %q: %d messages", s.Title, rec.Len())
	return rec, nil
}
