package taylor

import "github.com/pkg/errors"

// Kind classifies a construction-time or API-misuse failure. Runtime
// numerical conditions encountered while stepping are never represented
// here; see Outcome.
type Kind int

const (
	// InvalidInput covers bad shape: nil decomposition, size mismatches,
	// non-positive or non-finite tolerances, non-finite initial state or
	// time, or a NaN max_delta_t.
	InvalidInput Kind = iota
	// OutOfRange covers a parameter index beyond the parameter vector.
	OutOfRange
	// Overflow covers a computed order, jet size, or propagate target
	// that does not fit the chosen numeric range.
	Overflow
	// UnsupportedOp covers a decomposition entry this package's
	// interpreter engine has no recurrence for.
	UnsupportedOp
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case OutOfRange:
		return "OutOfRange"
	case Overflow:
		return "Overflow"
	case UnsupportedOp:
		return "UnsupportedOp"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every construction-time or
// API-misuse failure in this package.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.msg }

func newError(k Kind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: k, msg: errors.Errorf(format, args...).Error()})
}

// IsKind reports whether err wraps an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func isFinite(x float64) bool { return x-x == 0 }
