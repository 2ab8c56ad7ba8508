package development

import (
	"fmt"
	"math"
)

type timeMap[T any] struct {
	inner Development[T]
	name  string
	f     func(float64) float64
}

// TransformTime remaps time before it reaches d; values pass through.
func TransformTime[T any](d Development[T], name string, f func(float64) float64) Development[T] {
	return timeMap[T]{inner: d, name: name, f: f}
}

func (m timeMap[T]) At(t float64) T { return m.inner.At(m.f(t)) }

func (m timeMap[T]) String() string {
	return fmt.Sprintf("%s(%s)", m.name, m.inner)
}

// Reverse plays d backwards: t -> 1-t.
func Reverse[T any](d Development[T]) Development[T] {
	return TransformTime(d, "reverse", func(t float64) float64 { return 1 - t })
}

// SmoothIn slows the start of d: t -> t².
func SmoothIn[T any](d Development[T]) Development[T] {
	return TransformTime(d, "smoothIn", func(t float64) float64 { return t * t })
}

// SmoothOut slows the end of d: t -> sqrt(t).
func SmoothOut[T any](d Development[T]) Development[T] {
	return TransformTime(d, "smoothOut", math.Sqrt)
}

// SmoothInOut eases both ends of d. See SmoothInOutCurve.
func SmoothInOut[T any](d Development[T], in, out float64) (Development[T], error) {
	curve, err := SmoothInOutCurve(in, out)
	if err != nil {
		return nil, err
	}
	return TransformTime(d, fmt.Sprintf("smoothInOut[%g,%g]", in, out), curve), nil
}

// SmoothInOutCurve returns a monotone time map made of three pieces:
// a*t^in on [0,0.25], an affine segment on [0.25,0.75] and
// 1-b*(1-t)^out on [0.75,1]. The coefficients are solved so that value and
// slope agree at both joins; in=out=1 yields the identity.
func SmoothInOutCurve(in, out float64) (func(float64) float64, error) {
	if in <= 0 || out <= 0 {
		return nil, fmt.Errorf("%w: smoothInOut exponents must be positive, got in=%g out=%g", ErrInvalidParameter, in, out)
	}
	// slope of the middle segment
	m := 1 / (0.5 + 1/(4*in) + 1/(4*out))
	headValue := m / (4 * in) // value at t=0.25
	tailGap := m / (4 * out)  // 1 - value at t=0.75
	a := headValue / math.Pow(0.25, in)
	b := tailGap / math.Pow(0.25, out)
	c := headValue - m*0.25

	return func(t float64) float64 {
		switch {
		case t < 0.25:
			return a * math.Pow(t, in)
		case t <= 0.75:
			return m*t + c
		default:
			return 1 - b*math.Pow(1-t, out)
		}
	}, nil
}
