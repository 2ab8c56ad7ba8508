package generate

import (
	"math"
	"math/rand/v2"

	dev "go-pulsator/development"
	"go-pulsator/score"
)

// DefaultVoices is the ensemble of DefaultPlan, lowest first.
var DefaultVoices = []Voice{
	{Instrument: score.Instruments["cello"], Offset: -12, Low: 36, High: 67},
	{Instrument: score.Instruments["viola"], Offset: -5, Low: 48, High: 79},
	{Instrument: score.Instruments["violin"], Offset: 0, Low: 55, High: 96},
	{Instrument: score.Instruments["flute"], Offset: 7, Low: 60, High: 96},
	{Instrument: score.Instruments["percussion"], Low: 35, High: 81},
}

// DefaultPlan is a three-part arc: a sparse opening that thickens, a dense
// middle, and a thinning close. The pitch centre drifts upward with eased
// ends; trills and tremolos grow likelier towards the middle and noise
// towards the end. voices takes the first n of DefaultVoices.
func DefaultPlan(rng *rand.Rand, beats, voices int) Plan {
	beats = max(beats, 3)
	voices = clamp(voices, 1, len(DefaultVoices))

	third := beats / 3
	density := dev.MustSequential(
		dev.WithDuration(dev.Linear(0.15, 0.5), third),
		dev.WithDuration(dev.Constant(0.7), third),
		dev.WithDuration(dev.Linear(0.5, 0.1), beats-2*third),
	)

	drift, err := dev.SmoothInOut(dev.LinearInt(57, 69), 2, 2)
	if err != nil {
		panic(err)
	}

	// louder in the middle
	arch := dev.Func("arch", func(t float64) int {
		return int(math.Round(1 + 4*math.Sin(math.Pi*t)))
	})

	middle := dev.Func("middle", func(t float64) float64 { return math.Sin(math.Pi * t) })
	kind := dev.MustStochastic(rng,
		dev.Weighted(4, dev.Constant(score.KindNote)),
		dev.Option[score.Kind]{Probability: middle, Value: dev.Constant(score.KindTrill)},
		dev.Option[score.Kind]{Probability: middle, Value: dev.Constant(score.KindTremolo)},
		dev.Weighted(2, dev.Constant(score.KindContinuous)),
		dev.Option[score.Kind]{Probability: dev.Linear(0, 2), Value: dev.Constant(score.KindNoise)},
	)

	return Plan{
		Title:         "default",
		Beats:         beats,
		PulsesPerBeat: score.DefaultPulsesPerBeat,
		Voices:        DefaultVoices[:voices],
		Density:       density,
		Pitch:         dev.RangeInt(rng, drift, dev.Constant(5), dev.Constant(2.0)),
		Length:        dev.RangeInt(rng, dev.Constant(2), dev.Constant(1), dev.Constant(1.0)),
		Dynamic:       dev.RangeInt(rng, arch, dev.Constant(1), dev.Constant(1.5)),
		Kind:          kind,
		Interval:      dev.Transform(dev.Range(rng, dev.Constant(1.5), dev.Constant(0.5), dev.Constant(1.0)), "round", roundInt),
		Tremolo:       dev.Transform(dev.Reverse(dev.LinearInt(4, 16)), "even", func(n int) int { return n &^ 1 }),
	}
}

func roundInt(f float64) int { return int(math.Round(f)) }
