package development

import (
	"errors"
	"testing"
)

func TestStochasticDeterministicForSeed(t *testing.T) {
	build := func() Development[string] {
		return MustStochastic(NewRand(42),
			Weighted(1, Constant("a")),
			Option[string]{Probability: Linear(0, 3), Value: Constant("b")},
			Weighted(0.5, Constant("c")),
		)
	}
	first, second := build(), build()
	for i := 0; i < 200; i++ {
		tm := float64(i%20) / 19
		if a, b := first.At(tm), second.At(tm); a != b {
			t.Fatalf("sample %d diverged: %q vs %q", i, a, b)
		}
	}
}

func TestStochasticSingleNonZeroOption(t *testing.T) {
	d := MustStochastic(NewRand(1),
		Weighted(1, Constant(0)),
		Weighted(0, Constant(1)),
		Weighted(0, Constant(2)),
	)
	for i := 0; i < 1000; i++ {
		if got := d.At(0.5); got != 0 {
			t.Fatalf("selected option %d with zero probability", got)
		}
	}

	lead := MustStochastic(NewRand(1),
		Weighted(0, Constant(0)),
		Weighted(2, Constant(1)),
	)
	for i := 0; i < 1000; i++ {
		if got := lead.At(0.5); got != 1 {
			t.Fatalf("selected zero-weight leading option")
		}
	}
}

func TestStochasticDistribution(t *testing.T) {
	d := MustStochastic(NewRand(9),
		Weighted(1, Constant(0)),
		Weighted(3, Constant(1)),
	)
	counts := [2]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[d.At(0)]++
	}
	ratio := float64(counts[1]) / n
	if ratio < 0.72 || ratio > 0.78 {
		t.Errorf("option 1 chosen %.3f of the time, want ~0.75", ratio)
	}
}

func TestStochasticNegativeProbability(t *testing.T) {
	d := MustStochastic(NewRand(1),
		Weighted(1, Constant("a")),
		Option[string]{Probability: Linear(1, -1), Value: Constant("b")},
	)
	if _, err := Try(d, 0.25); err != nil {
		t.Fatalf("unexpected error at 0.25: %v", err)
	}
	_, err := Try(d, 0.75)
	if !errors.Is(err, ErrNegativeProbability) {
		t.Fatalf("err = %v, want ErrNegativeProbability", err)
	}
	var pe *PreconditionError
	if !errors.As(err, &pe) || pe.Time != 0.75 {
		t.Errorf("precondition error should carry the query time: %v", err)
	}
}

func TestStochasticConstruction(t *testing.T) {
	if _, err := Stochastic[int](NewRand(1)); !errors.Is(err, ErrNoOptions) {
		t.Errorf("err = %v, want ErrNoOptions", err)
	}
	if _, err := Stochastic(nil, Weighted(1, Constant(1))); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("err = %v, want ErrInvalidParameter", err)
	}
	zero := MustStochastic(NewRand(1), Weighted(0, Constant(1)))
	if _, err := Try(zero, 0); !errors.Is(err, ErrZeroProbability) {
		t.Errorf("err = %v, want ErrZeroProbability", err)
	}
}
