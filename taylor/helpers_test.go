package taylor

import "math"

// approxEqual reports whether got and want differ by no more than tol in
// absolute value, the ordinary tolerance check used across this
// package's tests for quantities where an ULP comparison isn't
// meaningful (e.g. a finite-difference slope estimate).
func approxEqual(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

// approxULP reports whether got and want are within maxULPs representable
// steps of each other, per spec.md §8's "approximately (within, say, 1000
// ulps)" comparison. Equal signs are required; a value and its negation
// are never within any number of ULPs of each other here regardless of
// magnitude.
func approxULP(got, want float64, maxULPs uint64) bool {
	if got == want {
		return true
	}
	if math.IsNaN(got) || math.IsNaN(want) {
		return false
	}
	if (got < 0) != (want < 0) {
		return false
	}
	a := int64(math.Float64bits(math.Abs(got)))
	b := int64(math.Float64bits(math.Abs(want)))
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return uint64(diff) <= maxULPs
}
