package expr

import "github.com/pkg/errors"

// Kind classifies a construction-time or evaluation-time failure. Runtime
// numerical issues encountered while stepping an integrator are not
// represented here; those are outcome values, not errors (see package
// taylor).
type Kind int

const (
	// InvalidInput covers bad shape: empty systems, size mismatches,
	// duplicate or non-variable left-hand sides, dangling right-hand-side
	// variables, non-positive or non-finite tolerances, arity mismatches,
	// non-finite state or time, and missing variables in an eval
	// environment.
	InvalidInput Kind = iota
	// OutOfRange covers a parameter index at or beyond the parameter
	// vector's length.
	OutOfRange
	// Overflow covers an order or jet size that does not fit the chosen
	// index type.
	Overflow
	// UnsupportedOp covers an elementary operation invoked without the
	// capability it needs (differentiate, eval, decompose, recurrence).
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
// evaluation-time failure in this package.
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
