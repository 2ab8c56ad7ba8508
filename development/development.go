// Package development provides composable, time-parameterized value
// generators used to drive algorithmic composition.
//
// A Development maps normalized time t in [0,1] to a value. Deterministic
// developments are pure; stochastic ones draw from a *rand.Rand that is
// injected at construction so a fixed seed reproduces a whole generative run.
// Every development describes its own composition through String.
package development

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrNegativeProbability = errors.New("negative probability")
	ErrZeroProbability     = errors.New("all option probabilities are zero")
	ErrDurationMismatch    = errors.New("segment durations do not sum to parent duration")
	ErrTimeOutOfRange      = errors.New("time out of range")
	ErrNoOptions           = errors.New("no options")
	ErrNoSegments          = errors.New("no segments")
	ErrInvalidParameter    = errors.New("invalid parameter")
)

// Development is a time-parameterized value generator.
type Development[T any] interface {
	At(t float64) T
	String() string
}

// PreconditionError is raised (as a panic value) when a development is
// queried in a state that indicates a composition bug, e.g. a negative
// sampled probability. Use Try to turn it into an error.
type PreconditionError struct {
	Op   string
	Time float64
	Err  error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s at t=%g: %v", e.Op, e.Time, e.Err)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

func fail(op string, t float64, err error) {
	panic(&PreconditionError{Op: op, Time: t, Err: err})
}

// Try samples d at t, converting a precondition panic into an error.
// Other panics are propagated.
func Try[T any](d Development[T], t float64) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*PreconditionError)
			if !ok {
				panic(r)
			}
			err = pe
		}
	}()
	return d.At(t), nil
}

// NewRand returns the random source shared by all stochastic nodes of one
// generative run.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type constant[T any] struct {
	value T
}

// Constant ignores time and always returns v.
func Constant[T any](v T) Development[T] {
	return constant[T]{value: v}
}

func (c constant[T]) At(float64) T { return c.value }

func (c constant[T]) String() string { return fmt.Sprintf("constant(%v)", c.value) }

type transform[T, U any] struct {
	inner Development[T]
	name  string
	f     func(T) U
}

// Transform post-processes the values of d; time is passed through.
func Transform[T, U any](d Development[T], name string, f func(T) U) Development[U] {
	return transform[T, U]{inner: d, name: name, f: f}
}

func (tr transform[T, U]) At(t float64) U { return tr.f(tr.inner.At(t)) }

func (tr transform[T, U]) String() string {
	return fmt.Sprintf("%s(%s)", tr.name, tr.inner)
}

type function[T any] struct {
	name string
	f    func(float64) T
}

// Func wraps an arbitrary function of time. The name is used in String.
func Func[T any](name string, f func(t float64) T) Development[T] {
	return function[T]{name: name, f: f}
}

func (fn function[T]) At(t float64) T { return fn.f(t) }

func (fn function[T]) String() string { return fn.name }
