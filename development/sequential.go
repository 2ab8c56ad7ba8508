package development

import (
	"fmt"
	"sort"
	"strings"
)

type sequential[T any] struct {
	segments []FixedDuration[T]
	starts   []float64 // normalized start of each segment
	total    int
}

// Sequential concatenates segments, each occupying a share of normalized
// time proportional to its duration. Nested sequential segments are
// flattened so lookups at shared boundaries do not depend on nesting. A
// nested sequential re-wrapped with WithDuration at a duration other than
// its own total is kept as a single segment: its parts keep their
// proportions within the new span.
func Sequential[T any](segments ...FixedDuration[T]) (FixedDuration[T], error) {
	var flat []FixedDuration[T]
	for _, seg := range segments {
		if inner, ok := seg.dev.(*sequential[T]); ok && inner.total == seg.duration {
			flat = append(flat, inner.segments...)
			continue
		}
		flat = append(flat, seg)
	}
	if len(flat) == 0 {
		return FixedDuration[T]{}, ErrNoSegments
	}

	total := 0
	for _, seg := range flat {
		total += seg.duration
	}
	if total == 0 {
		return FixedDuration[T]{}, fmt.Errorf("%w: total duration is zero", ErrNoSegments)
	}

	s := &sequential[T]{segments: flat, starts: make([]float64, len(flat)), total: total}
	cum := 0
	for i, seg := range flat {
		s.starts[i] = float64(cum) / float64(total)
		cum += seg.duration
	}
	return FixedDuration[T]{dev: s, duration: total}, nil
}

// SequentialWithDuration is Sequential with a check that the segment
// durations add up to the expected parent duration.
func SequentialWithDuration[T any](duration int, segments ...FixedDuration[T]) (FixedDuration[T], error) {
	sum := 0
	for _, seg := range segments {
		sum += seg.duration
	}
	if sum != duration {
		return FixedDuration[T]{}, fmt.Errorf("%w: expected %d, got %d", ErrDurationMismatch, duration, sum)
	}
	return Sequential(segments...)
}

// MustSequential is Sequential that panics on error.
func MustSequential[T any](segments ...FixedDuration[T]) FixedDuration[T] {
	f, err := Sequential(segments...)
	if err != nil {
		panic(err)
	}
	return f
}

// segment returns the index of the last segment whose start is <= t. Empty
// segments share their start with the following one, so ties resolve to the
// latest segment starting at that boundary.
func (s *sequential[T]) segment(t float64) int {
	i := sort.Search(len(s.starts), func(i int) bool { return s.starts[i] > t }) - 1
	if i < 0 {
		return 0
	}
	return i
}

func (s *sequential[T]) At(t float64) T {
	i := s.segment(t)
	seg := s.segments[i]
	if seg.duration == 0 {
		return seg.dev.At(0)
	}
	local := (t - s.starts[i]) * float64(s.total) / float64(seg.duration)
	return seg.dev.At(local)
}

func (s *sequential[T]) String() string {
	parts := make([]string, len(s.segments))
	for i, seg := range s.segments {
		parts[i] = seg.String()
	}
	return "sequential[" + strings.Join(parts, ", ") + "]"
}
