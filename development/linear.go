package development

import (
	"fmt"
	"math"
)

type linear struct {
	start, end float64
}

// Linear interpolates from start (t=0) to end (t=1).
func Linear(start, end float64) Development[float64] {
	return linear{start: start, end: end}
}

func (l linear) At(t float64) float64 {
	return (1-t)*l.start + t*l.end
}

func (l linear) String() string {
	return fmt.Sprintf("linear(%g -> %g)", l.start, l.end)
}

type linearInt struct {
	start, end int
}

// LinearInt interpolates in floating point and rounds to the nearest integer.
func LinearInt(start, end int) Development[int] {
	return linearInt{start: start, end: end}
}

func (l linearInt) At(t float64) int {
	return int(math.Round((1-t)*float64(l.start) + t*float64(l.end)))
}

func (l linearInt) String() string {
	return fmt.Sprintf("linearInt(%d -> %d)", l.start, l.end)
}
