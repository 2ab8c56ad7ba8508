package development

import "fmt"

// FixedDuration pairs a development with an integer duration in beats so it
// can be sampled at discrete beat indices. The underlying development is
// still queried with time normalized over the whole duration.
type FixedDuration[T any] struct {
	dev      Development[T]
	duration int
}

// WithDuration lifts d into a FixedDuration of n beats. Zero is allowed so
// that sequential compositions can hold empty segments.
func WithDuration[T any](d Development[T], n int) FixedDuration[T] {
	if n < 0 {
		panic(fmt.Sprintf("development: negative duration %d", n))
	}
	return FixedDuration[T]{dev: d, duration: n}
}

// Duration returns the number of beats.
func (f FixedDuration[T]) Duration() int { return f.duration }

// Development returns the wrapped development.
func (f FixedDuration[T]) Development() Development[T] { return f.dev }

// At samples at normalized time t.
func (f FixedDuration[T]) At(t float64) T { return f.dev.At(t) }

// AtBeat samples at beat i, i.e. At(i/duration). It panics with a
// *PreconditionError unless 0 <= i < duration.
func (f FixedDuration[T]) AtBeat(i int) T {
	if i < 0 || i >= f.duration {
		fail("atBeat", float64(i), fmt.Errorf("%w: beat %d not in [0,%d)", ErrTimeOutOfRange, i, f.duration))
	}
	return f.dev.At(float64(i) / float64(f.duration))
}

// AtBeatE is AtBeat returning precondition failures as errors.
func (f FixedDuration[T]) AtBeatE(i int) (v T, err error) {
	if i < 0 || i >= f.duration {
		return v, fmt.Errorf("%w: beat %d not in [0,%d)", ErrTimeOutOfRange, i, f.duration)
	}
	return Try(f.dev, float64(i)/float64(f.duration))
}

func (f FixedDuration[T]) String() string {
	return fmt.Sprintf("%d:%s", f.duration, f.dev)
}
