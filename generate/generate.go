// Package generate builds scores by sampling developments beat by beat.
package generate

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go-pulsator/debug"
	dev "go-pulsator/development"
	"go-pulsator/score"
)

var ErrInvalidPlan = errors.New("invalid plan")

// Voice is one monophonic line of the generated piece.
type Voice struct {
	Instrument score.Instrument
	Offset     int // semitones added to the plan's pitch centre
	Low, High  int // key range the voice is clamped to
}

// Plan describes a piece as developments over its whole length. Every
// development except Density is sampled at normalized time beat/Beats.
type Plan struct {
	Title         string
	Beats         int
	PulsesPerBeat int
	Voices        []Voice

	Density  dev.FixedDuration[float64] // chance a voice starts an element
	Pitch    dev.Development[int]       // centre MIDI key
	Length   dev.Development[int]       // element length in beats
	Dynamic  dev.Development[int]       // index into score.Dynamics
	Kind     dev.Development[score.Kind]
	Interval dev.Development[int] // trill interval in semitones
	Tremolo  dev.Development[int] // tremolo period in pulses
}

// Validate checks the plan's shape before any sampling.
func (p *Plan) Validate() error {
	switch {
	case p.Beats <= 0:
		return fmt.Errorf("%w: %d beats", ErrInvalidPlan, p.Beats)
	case len(p.Voices) == 0:
		return fmt.Errorf("%w: no voices", ErrInvalidPlan)
	case p.Density.Development() == nil:
		return fmt.Errorf("%w: no density", ErrInvalidPlan)
	case p.Density.Duration() != p.Beats:
		return fmt.Errorf("%w: density covers %d beats, plan has %d: %w", ErrInvalidPlan, p.Density.Duration(), p.Beats, dev.ErrDurationMismatch)
	case p.Pitch == nil || p.Length == nil || p.Dynamic == nil || p.Kind == nil:
		return fmt.Errorf("%w: missing development", ErrInvalidPlan)
	}
	for i, v := range p.Voices {
		if v.Low < 0 || v.High > 127 || v.Low > v.High {
			return fmt.Errorf("%w: voice %d range [%d, %d]", ErrInvalidPlan, i, v.Low, v.High)
		}
	}
	return nil
}

// Generate walks every voice through the plan's beats. At each free beat
// the voice starts an element with probability Density; the element then
// occupies the voice for its length. Continuous elements get one phase at
// their midpoint. The same plan and rng seed give the same score.
func Generate(plan Plan, rng *rand.Rand) (*score.Score, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	s := score.New(plan.Title, plan.PulsesPerBeat)

	for vi, v := range plan.Voices {
		for beat := 0; beat < plan.Beats; {
			density, err := plan.Density.AtBeatE(beat)
			if err != nil {
				return nil, fmt.Errorf("voice %d beat %d: %w", vi, beat, err)
			}
			if rng.Float64() >= density {
				beat++
				continue
			}

			e, err := plan.element(v, beat)
			if err != nil {
				return nil, fmt.Errorf("voice %d beat %d: %w", vi, beat, err)
			}
			added := s.Add(e)
			if added.Kind == score.KindContinuous {
				mid := (added.Start + added.End) / 2
				d, err := plan.dynamic(mid)
				if err != nil {
					return nil, fmt.Errorf("voice %d beat %d phase: %w", vi, beat, err)
				}
				added.AddPhase(mid, d)
			}
			beat = int(added.End)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	debug.Log("generate", "%q: %d elements over %d beats", plan.Title, len(s.Elements), plan.Beats)
	return s, nil
}

func (p *Plan) element(v Voice, beat int) (score.Element, error) {
	t := float64(beat) / float64(p.Beats)

	length, err := dev.Try(p.Length, t)
	if err != nil {
		return score.Element{}, err
	}
	length = clamp(length, 1, p.Beats-beat)

	kind, err := dev.Try(p.Kind, t)
	if err != nil {
		return score.Element{}, err
	}
	caps := kind.Capabilities()
	if v.Instrument.Percussion && !caps.Percussion {
		kind = score.KindNote
		caps = kind.Capabilities()
	}

	d, err := p.dynamic(float64(beat))
	if err != nil {
		return score.Element{}, err
	}

	e := score.Element{
		Kind:       kind,
		Start:      float64(beat),
		End:        float64(beat + length),
		Dynamic:    d,
		Instrument: v.Instrument,
	}

	if caps.Pitched {
		centre, err := dev.Try(p.Pitch, t)
		if err != nil {
			return score.Element{}, err
		}
		key := clamp(centre+v.Offset, v.Low, v.High)
		pitch := score.PitchFromKey(key)
		e.Pitch = &pitch
	}

	if caps.Secondary {
		interval := 2
		if p.Interval != nil {
			if interval, err = dev.Try(p.Interval, t); err != nil {
				return score.Element{}, err
			}
		}
		key := e.Pitch.MIDIKey() + clamp(interval, 1, 2)
		if key > 127 {
			key = e.Pitch.MIDIKey() - clamp(interval, 1, 2)
		}
		secondary := score.PitchFromKey(key)
		e.Secondary = &secondary
	}

	if caps.Periodic {
		period := 8
		if p.Tremolo != nil {
			if period, err = dev.Try(p.Tremolo, t); err != nil {
				return score.Element{}, err
			}
		}
		e.TremoloPulses = max(period, 2)
	}
	return e, nil
}

func (p *Plan) dynamic(beat float64) (score.Dynamic, error) {
	i, err := dev.Try(p.Dynamic, beat/float64(p.Beats))
	if err != nil {
		return 0, err
	}
	return score.Dynamics[clamp(i, 0, len(score.Dynamics)-1)], nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
