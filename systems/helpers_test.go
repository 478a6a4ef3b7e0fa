package systems

import "math"

// approxEqual reports whether got and want differ by no more than tol in
// absolute value.
func approxEqual(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}
