package development

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// start returns a development whose value at t=0 is id and which grows
// afterwards, so a sample reveals both segment and local time.
func start(id float64) Development[float64] {
	return Linear(id, id+0.5)
}

func TestSequentialBoundarySelectsNextSegment(t *testing.T) {
	durations := []int{2, 3, 1, 4}
	segs := make([]FixedDuration[float64], len(durations))
	for i, d := range durations {
		segs[i] = WithDuration(start(float64(i*10)), d)
	}
	seq := MustSequential(segs...)
	if seq.Duration() != 10 {
		t.Fatalf("duration = %d, want 10", seq.Duration())
	}

	cum := 0
	for i := 0; i < len(durations)-1; i++ {
		cum += durations[i]
		boundary := float64(cum) / float64(seq.Duration())
		want := float64((i + 1) * 10)
		if got := seq.At(boundary); got != want {
			t.Errorf("At(%g) = %g, want start of segment %d (%g)", boundary, got, i+1, want)
		}
	}
	if got := seq.At(1); math.Abs(got-30.5) > 1e-9 {
		t.Errorf("At(1) = %g, want end of last segment", got)
	}
}

func TestSequentialZeroLengthTiesResolveToLast(t *testing.T) {
	seq := MustSequential(
		WithDuration(Constant("a"), 2),
		WithDuration(Constant("zero1"), 0),
		WithDuration(Constant("zero2"), 0),
		WithDuration(Constant("b"), 2),
	)
	if got := seq.At(0.5); got != "b" {
		t.Errorf("At(0.5) = %q, want b", got)
	}

	trailing := MustSequential(
		WithDuration(Constant("a"), 2),
		WithDuration(Constant("z1"), 0),
		WithDuration(Constant("z2"), 0),
	)
	if got := trailing.At(1); got != "z2" {
		t.Errorf("At(1) = %q, want last zero-length segment z2", got)
	}
	if got := trailing.At(0.99); got != "a" {
		t.Errorf("At(0.99) = %q, want a", got)
	}
}

func TestSequentialFlattening(t *testing.T) {
	a := WithDuration(Linear(0, 1), 3)
	b := WithDuration(Linear(5, 7), 2)
	c := WithDuration(Linear(-1, -4), 5)

	nested := MustSequential(MustSequential(a, b), c)
	flat := MustSequential(a, b, c)

	for i := 0; i <= 1000; i++ {
		tm := float64(i) / 1000
		if nested.At(tm) != flat.At(tm) {
			t.Fatalf("At(%g): nested %g != flat %g", tm, nested.At(tm), flat.At(tm))
		}
	}
	if nested.String() != flat.String() {
		t.Errorf("descriptions differ:\n%s\n%s", nested, flat)
	}
	if strings.Count(nested.String(), "sequential") != 1 {
		t.Errorf("nested sequential not flattened: %s", nested)
	}
}

func TestSequentialRewrappedNestingKeepsProportions(t *testing.T) {
	inner := MustSequential(
		WithDuration(Constant(1), 1),
		WithDuration(Constant(2), 1),
	)
	stretched := WithDuration(inner.Development(), 4)
	seq := MustSequential(stretched, WithDuration(Constant(3), 4))

	if seq.Duration() != 8 {
		t.Fatalf("duration = %d, want 8", seq.Duration())
	}
	tests := []struct {
		beat int
		want int
	}{{0, 1}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {7, 3}}
	for _, tt := range tests {
		if got := seq.AtBeat(tt.beat); got != tt.want {
			t.Errorf("AtBeat(%d) = %d, want %d", tt.beat, got, tt.want)
		}
	}
	if strings.Count(seq.String(), "sequential") != 2 {
		t.Errorf("re-wrapped sequential was flattened: %s", seq)
	}
}

func TestSequentialDurationMismatch(t *testing.T) {
	_, err := SequentialWithDuration(6,
		WithDuration(Constant(1), 2),
		WithDuration(Constant(2), 3),
	)
	if !errors.Is(err, ErrDurationMismatch) {
		t.Fatalf("err = %v, want ErrDurationMismatch", err)
	}
	if !strings.Contains(err.Error(), "expected 6, got 5") {
		t.Errorf("error should list expected vs actual: %v", err)
	}

	if _, err := Sequential[int](); !errors.Is(err, ErrNoSegments) {
		t.Errorf("empty sequential err = %v", err)
	}
	if _, err := Sequential(WithDuration(Constant(1), 0)); !errors.Is(err, ErrNoSegments) {
		t.Errorf("zero-length sequential err = %v", err)
	}
}

func TestSequentialLocalTimeRescaling(t *testing.T) {
	seq := MustSequential(
		WithDuration(Linear(0, 10), 1),
		WithDuration(Linear(100, 200), 3),
	)
	// t=0.625 is halfway through the second segment (0.25 + 0.5*0.75)
	if got := seq.At(0.625); got != 150 {
		t.Errorf("At(0.625) = %g, want 150", got)
	}
}
