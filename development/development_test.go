package development

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestConstantIgnoresTime(t *testing.T) {
	c := Constant("x")
	for _, tm := range []float64{0, 0.3, 1} {
		if got := c.At(tm); got != "x" {
			t.Fatalf("At(%g) = %q, want x", tm, got)
		}
	}
}

func TestLinear(t *testing.T) {
	l := Linear(10, 20)
	tests := []struct {
		t    float64
		want float64
	}{
		{0, 10},
		{0.5, 15},
		{1, 20},
	}
	for _, tt := range tests {
		if got := l.At(tt.t); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Linear.At(%g) = %g, want %g", tt.t, got, tt.want)
		}
	}
}

func TestLinearIntRounds(t *testing.T) {
	l := LinearInt(0, 3)
	if got := l.At(0.5); got != 2 {
		t.Errorf("LinearInt(0,3).At(0.5) = %d, want 2", got)
	}
	if got := l.At(0.1); got != 0 {
		t.Errorf("LinearInt(0,3).At(0.1) = %d, want 0", got)
	}
}

func TestTransformAndTimeMaps(t *testing.T) {
	doubled := Transform(Linear(0, 1), "double", func(v float64) float64 { return 2 * v })
	if got := doubled.At(0.25); got != 0.5 {
		t.Errorf("double at 0.25 = %g", got)
	}
	if got := Reverse(Linear(0, 1)).At(0.25); got != 0.75 {
		t.Errorf("reverse at 0.25 = %g", got)
	}
	if got := SmoothIn(Linear(0, 1)).At(0.5); got != 0.25 {
		t.Errorf("smoothIn at 0.5 = %g", got)
	}
	if got := SmoothOut(Linear(0, 1)).At(0.25); got != 0.5 {
		t.Errorf("smoothOut at 0.25 = %g", got)
	}
	if !strings.Contains(doubled.String(), "double(linear") {
		t.Errorf("unexpected description %q", doubled.String())
	}
}

func TestSmoothInOutContinuity(t *testing.T) {
	for _, exps := range [][2]float64{{1, 1}, {2, 2}, {3, 1.5}, {0.5, 4}} {
		f, err := SmoothInOutCurve(exps[0], exps[1])
		if err != nil {
			t.Fatal(err)
		}
		if f(0) != 0 || math.Abs(f(1)-1) > 1e-12 {
			t.Errorf("%v: endpoints f(0)=%g f(1)=%g", exps, f(0), f(1))
		}
		for _, join := range []float64{0.25, 0.75} {
			const h = 1e-9
			left, right := f(join-h), f(join+h)
			if math.Abs(left-right) > 1e-6 {
				t.Errorf("%v: discontinuity at %g: %g vs %g", exps, join, left, right)
			}
			slopeL := (f(join-h) - f(join-2*h)) / h
			slopeR := (f(join+2*h) - f(join+h)) / h
			if math.Abs(slopeL-slopeR) > 1e-3 {
				t.Errorf("%v: slope mismatch at %g: %g vs %g", exps, join, slopeL, slopeR)
			}
		}
		prev := -1.0
		for i := 0; i <= 100; i++ {
			v := f(float64(i) / 100)
			if v < prev {
				t.Fatalf("%v: not monotone at %d", exps, i)
			}
			prev = v
		}
	}

	identity, _ := SmoothInOutCurve(1, 1)
	if math.Abs(identity(0.4)-0.4) > 1e-12 {
		t.Errorf("in=out=1 should be identity, got %g", identity(0.4))
	}

	if _, err := SmoothInOutCurve(0, 1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestFixedDurationIntegerOverloadMatchesNormalized(t *testing.T) {
	devs := []FixedDuration[float64]{
		WithDuration(Linear(-3, 9), 7),
		WithDuration(SmoothIn(Linear(0, 1)), 13),
		MustSequential(
			WithDuration(Linear(0, 1), 3),
			WithDuration(Constant(5.0), 0),
			WithDuration(Linear(2, 4), 5),
		),
	}
	for _, d := range devs {
		for i := 0; i < d.Duration(); i++ {
			byBeat := d.AtBeat(i)
			byTime := d.At(float64(i) / float64(d.Duration()))
			if byBeat != byTime {
				t.Errorf("%s: AtBeat(%d)=%g, At=%g", d, i, byBeat, byTime)
			}
		}
	}

	// stochastic: same seed, one sample by each overload
	a := WithDuration(Range(NewRand(3), Constant(0.0), Constant(1.0), Constant(1.0)), 10)
	b := WithDuration(Range(NewRand(3), Constant(0.0), Constant(1.0), Constant(1.0)), 10)
	for i := 0; i < 10; i++ {
		if a.AtBeat(i) != b.At(float64(i)/10) {
			t.Fatalf("stochastic overloads diverged at %d", i)
		}
	}
}

func TestFixedDurationOutOfRange(t *testing.T) {
	d := WithDuration(Linear(0, 1), 4)
	for _, i := range []int{-1, 4, 10} {
		if _, err := d.AtBeatE(i); !errors.Is(err, ErrTimeOutOfRange) {
			t.Errorf("AtBeatE(%d) err = %v, want ErrTimeOutOfRange", i, err)
		}
	}

	defer func() {
		r := recover()
		pe, ok := r.(*PreconditionError)
		if !ok || !errors.Is(pe, ErrTimeOutOfRange) {
			t.Fatalf("expected precondition panic, got %v", r)
		}
	}()
	d.AtBeat(4)
}
