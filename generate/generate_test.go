package generate

import (
	"encoding/json"
	"errors"
	"testing"

	dev "go-pulsator/development"
	"go-pulsator/score"
)

func generateSeed(t *testing.T, seed uint64) *score.Score {
	t.Helper()
	rng := dev.NewRand(seed)
	s, err := Generate(DefaultPlan(rng, 48, len(DefaultVoices)), rng)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := json.Marshal(generateSeed(t, 7))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(generateSeed(t, 7))
	if string(a) != string(b) {
		t.Error("same seed produced different scores")
	}
	c, _ := json.Marshal(generateSeed(t, 8))
	if string(a) == string(c) {
		t.Error("different seeds produced identical scores")
	}
}

func TestGenerateShape(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		s := generateSeed(t, seed)
		if err := s.Validate(); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(s.Elements) == 0 {
			t.Fatalf("seed %d: empty score", seed)
		}
		// voices are monophonic: elements of one instrument never overlap
		lastEnd := map[string]float64{}
		for _, e := range s.Elements {
			if e.Start < lastEnd[e.Instrument.Name] {
				t.Fatalf("seed %d: element %d overlaps its voice", seed, e.ID)
			}
			lastEnd[e.Instrument.Name] = e.End
			if e.End > 48 {
				t.Fatalf("seed %d: element %d ends at %g", seed, e.ID, e.End)
			}
			if e.Kind == score.KindContinuous && len(e.Phases) != 1 {
				t.Fatalf("seed %d: continuous element %d has %d phases", seed, e.ID, len(e.Phases))
			}
			if e.Instrument.Percussion && !e.Kind.Capabilities().Percussion {
				t.Fatalf("seed %d: %s on percussion", seed, e.Kind)
			}
		}
	}
}

func TestGenerateCustomPlan(t *testing.T) {
	rng := dev.NewRand(1)
	plan := Plan{
		Title:    "drone",
		Beats:    8,
		Voices:   []Voice{{Instrument: score.Instruments["cello"], Low: 0, High: 127}},
		Density:  dev.WithDuration(dev.Constant(1.0), 8),
		Pitch:    dev.Constant(48),
		Length:   dev.Constant(4),
		Dynamic:  dev.LinearInt(0, 7),
		Kind:     dev.Constant(score.KindContinuous),
		Interval: nil,
	}
	s, err := Generate(plan, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Elements) != 2 {
		t.Fatalf("elements = %d", len(s.Elements))
	}
	first, second := s.Elements[0], s.Elements[1]
	if first.Start != 0 || first.End != 4 || second.Start != 4 || second.End != 8 {
		t.Errorf("spans = [%g,%g] [%g,%g]", first.Start, first.End, second.Start, second.End)
	}
	if first.Pitch.String() != "C3" || first.Dynamic != score.PPP {
		t.Errorf("first = %s %s", first.Pitch, first.Dynamic)
	}
	// phase at beat 2 samples the dynamic at t=0.25: round(1.75)
	if ph := first.Phases[0]; ph.Time != 2 || ph.Dynamic != score.P {
		t.Errorf("phase = %+v", ph)
	}
	if s.PulsesPerBeat != score.DefaultPulsesPerBeat {
		t.Errorf("PulsesPerBeat = %d", s.PulsesPerBeat)
	}
}

func TestGenerateRejectsBadPlan(t *testing.T) {
	rng := dev.NewRand(1)
	plan := DefaultPlan(rng, 12, 2)
	plan.Beats = 10
	if _, err := Generate(plan, rng); !errors.Is(err, dev.ErrDurationMismatch) {
		t.Errorf("mismatched density err = %v", err)
	}

	plan = DefaultPlan(rng, 12, 2)
	plan.Voices = nil
	if _, err := Generate(plan, rng); !errors.Is(err, ErrInvalidPlan) {
		t.Errorf("no voices err = %v", err)
	}

	plan = DefaultPlan(rng, 12, 1)
	plan.Density = dev.WithDuration(dev.Constant(1.0), 12)
	plan.Kind = dev.MustStochastic(rng,
		dev.Weighted(1, dev.Constant(score.KindNote)),
		dev.Weighted(-1, dev.Constant(score.KindTrill)),
	)
	var pe *dev.PreconditionError
	if _, err := Generate(plan, rng); !errors.Is(err, dev.ErrNegativeProbability) || !errors.As(err, &pe) {
		t.Errorf("precondition failure err = %v", err)
	}
}
