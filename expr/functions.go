package expr

import "math"

// FuncKind is the closed set of elementary functions this package knows
// how to differentiate, evaluate, decompose, and Taylor-recur. Unlike the
// source (heyoka), which stores each function's behavior as a bundle of
// polymorphic closures with runtime absence checks, every FuncKind here
// has every capability: dispatch is a type switch, not a nil check.
type FuncKind int

const (
	FuncSin FuncKind = iota
	FuncCos
	FuncLog
	FuncExp
	FuncPow
	FuncSquare
	FuncErf
	FuncTime
)

func (k FuncKind) String() string {
	switch k {
	case FuncSin:
		return "sin"
	case FuncCos:
		return "cos"
	case FuncLog:
		return "log"
	case FuncExp:
		return "exp"
	case FuncPow:
		return "pow"
	case FuncSquare:
		return "square"
	case FuncErf:
		return "erf"
	case FuncTime:
		return "time"
	default:
		return "?"
	}
}

// arity returns the number of operands FuncKind expects.
func (k FuncKind) arity() int {
	switch k {
	case FuncPow:
		return 2
	case FuncTime:
		return 0
	default:
		return 1
	}
}

func newFunc(k FuncKind, args ...Expr) Expr {
	if len(args) != k.arity() {
		panic(&Error{Kind: InvalidInput, msg: k.String() + ": arity mismatch"})
	}
	return &functionExpr{kind: k, args: args}
}

func Sin(e Expr) Expr    { return newFunc(FuncSin, e) }
func Cos(e Expr) Expr    { return newFunc(FuncCos, e) }
func Log(e Expr) Expr    { return newFunc(FuncLog, e) }
func Exp(e Expr) Expr    { return newFunc(FuncExp, e) }
func Pow(e, p Expr) Expr { return newFunc(FuncPow, e, p) }
func Square(e Expr) Expr { return newFunc(FuncSquare, e) }
func Erf(e Expr) Expr    { return newFunc(FuncErf, e) }
func Time() Expr         { return newFunc(FuncTime) }

// twoOverSqrtPi is the constant factor in erf's derivative and in its
// Taylor companion, 2/sqrt(pi).
const twoOverSqrtPi = 1.1283791670955126 // 2/sqrt(pi)

// checkArity validates a function call's argument count against its own
// kind, failing with ArityMismatch (an InvalidInput) rather than the
// constructor-time panic, for callers evaluating an expression tree built
// by other means (e.g. deserialized or hand-assembled).
func checkArity(k FuncKind, args []Expr) error {
	if len(args) != k.arity() {
		return newError(InvalidInput, "%s: arity mismatch, expected %d got %d", k, k.arity(), len(args))
	}
	return nil
}

// diffFunc returns the symbolic derivative of a Function call w.r.t.
// varName, per the classical rules in spec.md §4.B.
func diffFunc(f *functionExpr, varName string) (Expr, error) {
	if err := checkArity(f.kind, f.args); err != nil {
		return nil, err
	}
	switch f.kind {
	case FuncSin:
		u := f.args[0]
		du, err := Diff(u, varName)
		if err != nil {
			return nil, err
		}
		return MulOf(Cos(u), du), nil
	case FuncCos:
		u := f.args[0]
		du, err := Diff(u, varName)
		if err != nil {
			return nil, err
		}
		return MulOf(Neg(Sin(u)), du), nil
	case FuncLog:
		u := f.args[0]
		du, err := Diff(u, varName)
		if err != nil {
			return nil, err
		}
		return DivOf(du, u), nil
	case FuncExp:
		u := f.args[0]
		du, err := Diff(u, varName)
		if err != nil {
			return nil, err
		}
		return MulOf(Exp(u), du), nil
	case FuncPow:
		u, v := f.args[0], f.args[1]
		du, err := Diff(u, varName)
		if err != nil {
			return nil, err
		}
		dv, err := Diff(v, varName)
		if err != nil {
			return nil, err
		}
		// v*pow(u,v-1)*u' + pow(u,v)*log(u)*v'
		term1 := MulOf(MulOf(v, Pow(u, SubOf(v, Num(1)))), du)
		term2 := MulOf(MulOf(Pow(u, v), Log(u)), dv)
		return AddOf(term1, term2), nil
	case FuncSquare:
		u := f.args[0]
		du, err := Diff(u, varName)
		if err != nil {
			return nil, err
		}
		return MulOf(MulOf(Num(2), u), du), nil
	case FuncErf:
		u := f.args[0]
		du, err := Diff(u, varName)
		if err != nil {
			return nil, err
		}
		// (2/sqrt(pi)) * exp(-u^2) * u'
		return MulOf(MulOf(Num(twoOverSqrtPi), Exp(Neg(Square(u)))), du), nil
	case FuncTime:
		// Time is an independent primitive, not a declared Variable — it
		// never depends on whatever varName names, regardless of what
		// name is passed.
		return Num(0), nil
	default:
		return nil, newError(UnsupportedOp, "diff: unsupported function %s", f.kind)
	}
}

// evalFunc evaluates a Function call numerically.
func evalFunc(k FuncKind, args []float64, timeVal float64) (float64, error) {
	switch k {
	case FuncSin:
		return math.Sin(args[0]), nil
	case FuncCos:
		return math.Cos(args[0]), nil
	case FuncLog:
		return math.Log(args[0]), nil
	case FuncExp:
		return math.Exp(args[0]), nil
	case FuncPow:
		return math.Pow(args[0], args[1]), nil
	case FuncSquare:
		return args[0] * args[0], nil
	case FuncErf:
		return math.Erf(args[0]), nil
	case FuncTime:
		return timeVal, nil
	default:
		return 0, newError(UnsupportedOp, "eval: unsupported function %s", k)
	}
}
