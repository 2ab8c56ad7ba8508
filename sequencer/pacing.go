package sequencer

import (
	"time"
)

// RealTime returns a listener that holds each pulse for d of wall time.
// Sleeps are measured against a running deadline so time spent in events
// does not accumulate; after a stall longer than d (a pause, a slow
// device) the deadline restarts from now.
func RealTime(d time.Duration) Listener {
	var next time.Time
	return func(int) {
		now := time.Now()
		if next.IsZero() || now.Sub(next) > d {
			next = now
		}
		next = next.Add(d)
		time.Sleep(time.Until(next))
	}
}

// PulseDuration returns the wall time of one pulse at bpm beats per minute.
func PulseDuration(bpm float64, pulsesPerBeat int) time.Duration {
	if bpm <= 0 || pulsesPerBeat <= 0 {
		return 0
	}
	return time.Duration(float64(time.Minute) / (bpm * float64(pulsesPerBeat)))
}

// TempoPacer paces playback at bpm.
func TempoPacer(bpm float64, pulsesPerBeat int) Listener {
	return RealTime(PulseDuration(bpm, pulsesPerBeat))
}
