package development

import (
	"errors"
	"testing"
)

func TestRangeStaysWithinBounds(t *testing.T) {
	r := Range(NewRand(5), Constant(10.0), Constant(2.5), Constant(1.0))
	for i := 0; i < 10000; i++ {
		v := r.At(0.3)
		if v < 7.5 || v > 12.5 {
			t.Fatalf("sample %g outside [7.5, 12.5]", v)
		}
	}
}

func TestRangeIntStaysWithinBounds(t *testing.T) {
	for _, gravity := range []float64{1, 2, 0.5} {
		r := RangeInt(NewRand(11), Constant(60), Constant(7), Constant(gravity))
		seen := map[int]bool{}
		for i := 0; i < 20000; i++ {
			v := r.At(0.8)
			if v < 53 || v > 67 {
				t.Fatalf("gravity %g: sample %d outside [53, 67]", gravity, v)
			}
			seen[v] = true
		}
		if !seen[53] && !seen[67] && gravity <= 1 {
			t.Errorf("gravity %g: extremes never reached", gravity)
		}
	}
}

func TestRangeGravityFavoursSmallDerivations(t *testing.T) {
	mean := func(gravity float64) float64 {
		r := Range(NewRand(2), Constant(0.0), Constant(1.0), Constant(gravity))
		sum := 0.0
		for i := 0; i < 20000; i++ {
			v := r.At(0)
			if v < 0 {
				v = -v
			}
			sum += v
		}
		return sum / 20000
	}
	uniform, heavy := mean(1), mean(3)
	if heavy >= uniform {
		t.Errorf("gravity 3 mean |d| %g should be below gravity 1 mean %g", heavy, uniform)
	}
}

func TestRangeInvalidParameters(t *testing.T) {
	neg := Range(NewRand(1), Constant(0.0), Constant(-1.0), Constant(1.0))
	if _, err := Try(neg, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("negative max: err = %v", err)
	}
	flat := Range(NewRand(1), Constant(0.0), Constant(1.0), Constant(0.0))
	if _, err := Try(flat, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero gravity: err = %v", err)
	}
}

func TestRangeDeterministicForSeed(t *testing.T) {
	a := RangeInt(NewRand(99), LinearInt(40, 80), Constant(5), Constant(1.5))
	b := RangeInt(NewRand(99), LinearInt(40, 80), Constant(5), Constant(1.5))
	for i := 0; i < 100; i++ {
		tm := float64(i) / 99
		if a.At(tm) != b.At(tm) {
			t.Fatalf("diverged at %g", tm)
		}
	}
}
