package development

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// derivation draws sign * draw^gravity with draw uniform in
// [0, limit^(1/gravity)]. gravity=1 is uniform; larger values favour small
// magnitudes.
func derivation(rng *rand.Rand, t, limit, gravity float64) float64 {
	if limit < 0 || math.IsNaN(limit) {
		fail("range", t, fmt.Errorf("%w: max derivation %g", ErrInvalidParameter, limit))
	}
	if !(gravity > 0) {
		fail("range", t, fmt.Errorf("%w: gravity %g", ErrInvalidParameter, gravity))
	}
	draw := rng.Float64() * math.Pow(limit, 1/gravity)
	sign := 1.0
	if rng.IntN(2) == 0 {
		sign = -1
	}
	return sign * math.Pow(draw, gravity)
}

type rangeDev struct {
	rng                    *rand.Rand
	average, maxDerivation Development[float64]
	gravity                Development[float64]
}

// Range returns average(t) plus a random derivation of magnitude at most
// maxDerivation(t), shaped by gravity(t).
func Range(rng *rand.Rand, average, maxDerivation, gravity Development[float64]) Development[float64] {
	return rangeDev{rng: rng, average: average, maxDerivation: maxDerivation, gravity: gravity}
}

func (r rangeDev) At(t float64) float64 {
	return r.average.At(t) + derivation(r.rng, t, r.maxDerivation.At(t), r.gravity.At(t))
}

func (r rangeDev) String() string {
	return fmt.Sprintf("range(avg=%s, max=%s, gravity=%s)", r.average, r.maxDerivation, r.gravity)
}

type rangeInt struct {
	rng                    *rand.Rand
	average, maxDerivation Development[int]
	gravity                Development[float64]
}

// RangeInt is the integer form of Range. The derivation is computed with the
// same formula in floating point and rounded, so it never exceeds the integer
// bound; the result is average plus the rounded derivation.
func RangeInt(rng *rand.Rand, average, maxDerivation Development[int], gravity Development[float64]) Development[int] {
	return rangeInt{rng: rng, average: average, maxDerivation: maxDerivation, gravity: gravity}
}

func (r rangeInt) At(t float64) int {
	d := derivation(r.rng, t, float64(r.maxDerivation.At(t)), r.gravity.At(t))
	return r.average.At(t) + int(math.Round(d))
}

func (r rangeInt) String() string {
	return fmt.Sprintf("rangeInt(avg=%s, max=%s, gravity=%s)", r.average, r.maxDerivation, r.gravity)
}
