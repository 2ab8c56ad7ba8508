package development

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
)

// Option is one weighted alternative of a stochastic development.
type Option[T any] struct {
	Probability Development[float64]
	Value       Development[T]
}

// Weighted builds an Option with a constant weight.
func Weighted[T any](weight float64, value Development[T]) Option[T] {
	return Option[T]{Probability: Constant(weight), Value: value}
}

type stochastic[T any] struct {
	rng     *rand.Rand
	options []Option[T]
}

// Stochastic chooses among options at every query, weighting each by its
// probability development sampled at the same time. Weights need not sum to
// one. Selection is left-biased: the first cumulative bucket reaching the
// draw wins.
func Stochastic[T any](rng *rand.Rand, options ...Option[T]) (Development[T], error) {
	if len(options) == 0 {
		return nil, ErrNoOptions
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidParameter)
	}
	return &stochastic[T]{rng: rng, options: options}, nil
}

// MustStochastic is Stochastic that panics on error.
func MustStochastic[T any](rng *rand.Rand, options ...Option[T]) Development[T] {
	d, err := Stochastic(rng, options...)
	if err != nil {
		panic(err)
	}
	return d
}

func (s *stochastic[T]) At(t float64) T {
	cum := make([]float64, len(s.options))
	total := 0.0
	for i, opt := range s.options {
		p := opt.Probability.At(t)
		if !(p >= 0) {
			fail("stochastic", t, fmt.Errorf("%w: option %d has probability %g", ErrNegativeProbability, i, p))
		}
		total += p
		cum[i] = total
	}
	if total == 0 {
		fail("stochastic", t, ErrZeroProbability)
	}

	// draw lies in (0, total] so a zero-weight leading option is never hit
	// and the last bucket always contains it.
	draw := (1 - s.rng.Float64()) * total
	i := sort.Search(len(cum), func(i int) bool { return cum[i] >= draw })
	if i == len(cum) {
		i = len(cum) - 1
	}
	return s.options[i].Value.At(t)
}

func (s *stochastic[T]) String() string {
	parts := make([]string, len(s.options))
	for i, opt := range s.options {
		parts[i] = fmt.Sprintf("%s: %s", opt.Probability, opt.Value)
	}
	return "stochastic{" + strings.Join(parts, ", ") + "}"
}
