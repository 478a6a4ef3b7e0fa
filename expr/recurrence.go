package expr

import "math"

// Coeffs is the jet accessor the taylor package's batch integrator
// implements. Recurrence only ever reads coefficients of an earlier
// entry (u_j, j < u) at any order up to the one being computed, or of
// any entry (u itself, or a companion such as sin's cos, which may sit
// later in the decomposition) at a strictly lower order — both are guaranteed
// available by the integrator's order-major evaluation loop (every
// entry advances to order n only after every entry has reached order
// n-1).
type Coeffs interface {
	Get(u, n int) float64
	Set(u, n int, v float64)
}

// Recurrence computes and stores the order-n normalized Taylor
// coefficient of decomposition entry u (u must be >= d.NEq: state
// variables are advanced by the integrator itself, not by this table).
// t0 is the expansion point's time value, needed only by the FuncTime
// entry's order-0 coefficient; pars holds the runtime parameter values,
// needed only by a UParam entry.
func Recurrence(d *Decomposition, u, n int, c Coeffs, t0 float64, pars []float64) error {
	if u < d.NEq || u >= len(d.U) {
		return newError(OutOfRange, "recurrence: entry %d is not a middle or tail entry", u)
	}
	e := d.U[u]
	switch e.Kind {
	case UConst:
		c.Set(u, n, constOrZero(e.Const, n))
		return nil
	case UParam:
		if e.ParamIdx >= len(pars) {
			return newError(OutOfRange, "recurrence: entry %d: parameter index %d out of range (have %d)", u, e.ParamIdx, len(pars))
		}
		c.Set(u, n, constOrZero(pars[e.ParamIdx], n))
		return nil
	case URef:
		c.Set(u, n, c.Get(e.Ref, n))
		return nil
	case UBinary:
		return recurrenceBinary(e, u, n, c)
	case UElem:
		return recurrenceElem(d, e, u, n, c, t0)
	default:
		return newError(InvalidInput, "recurrence: entry %d has an unknown kind", u)
	}
}

func constOrZero(v float64, n int) float64 {
	if n == 0 {
		return v
	}
	return 0
}

func operand(c Coeffs, op Operand, n int) float64 {
	if op.IsConst {
		return constOrZero(op.Const, n)
	}
	return c.Get(op.UIndex, n)
}

func recurrenceBinary(e UEntry, u, n int, c Coeffs) error {
	a := func(k int) float64 { return operand(c, e.Lhs, k) }
	b := func(k int) float64 { return operand(c, e.Rhs, k) }
	switch e.BinOp {
	case Add:
		c.Set(u, n, a(n)+b(n))
	case Sub:
		c.Set(u, n, a(n)-b(n))
	case Mul:
		var sum float64
		for k := 0; k <= n; k++ {
			sum += a(k) * b(n-k)
		}
		c.Set(u, n, sum)
	case Div:
		b0 := b(0)
		if b0 == 0 {
			return newError(InvalidInput, "recurrence: entry %d: division by a zero leading coefficient", u)
		}
		if n == 0 {
			c.Set(u, 0, a(0)/b0)
			return nil
		}
		var sum float64
		for k := 0; k < n; k++ {
			sum += c.Get(u, k) * b(n-k)
		}
		c.Set(u, n, (a(n)-sum)/b0)
	default:
		return newError(InvalidInput, "recurrence: unknown binary op")
	}
	return nil
}

func recurrenceElem(d *Decomposition, e UEntry, u, n int, c Coeffs, t0 float64) error {
	v := func(k int) float64 { return operand(c, e.Arg, k) }
	switch e.Func {
	case FuncTime:
		switch {
		case n == 0:
			c.Set(u, 0, t0)
		case n == 1:
			c.Set(u, 1, 1)
		default:
			c.Set(u, n, 0)
		}
		return nil

	case FuncSquare:
		var sum float64
		for k := 0; 2*k < n; k++ {
			sum += v(k) * v(n-k)
		}
		sum *= 2
		if n%2 == 0 {
			mid := v(n / 2)
			sum += mid * mid
		}
		c.Set(u, n, sum)
		return nil

	case FuncSin, FuncCos:
		if e.Companion < 0 {
			return newError(InvalidInput, "recurrence: entry %d (%s) has no resolved companion", u, e.Func)
		}
		if n == 0 {
			v0 := v(0)
			if e.Func == FuncSin {
				c.Set(u, 0, math.Sin(v0))
			} else {
				c.Set(u, 0, math.Cos(v0))
			}
			return nil
		}
		var sum float64
		for k := 0; k < n; k++ {
			sum += float64(n-k) * v(n-k) * c.Get(e.Companion, k)
		}
		sum /= float64(n)
		if e.Func == FuncCos {
			sum = -sum
		}
		c.Set(u, n, sum)
		return nil

	case FuncLog:
		v0 := v(0)
		if v0 == 0 {
			return newError(InvalidInput, "recurrence: entry %d: log of a zero leading coefficient", u)
		}
		if n == 0 {
			c.Set(u, 0, math.Log(v0))
			return nil
		}
		var sum float64
		for k := 1; k < n; k++ {
			sum += float64(k) * c.Get(u, k) * v(n-k)
		}
		c.Set(u, n, (v(n)-sum/float64(n))/v0)
		return nil

	case FuncExp:
		if n == 0 {
			c.Set(u, 0, math.Exp(v(0)))
			return nil
		}
		var sum float64
		for k := 0; k < n; k++ {
			sum += float64(n-k) * v(n-k) * c.Get(u, k)
		}
		c.Set(u, n, sum/float64(n))
		return nil

	case FuncPow:
		v0 := v(0)
		alpha := e.Alpha
		if n == 0 {
			c.Set(u, 0, math.Pow(v0, alpha))
			return nil
		}
		if v0 == 0 {
			return newError(InvalidInput, "recurrence: entry %d: pow recurrence needs a nonzero leading coefficient", u)
		}
		var sum float64
		for k := 0; k < n; k++ {
			sum += (alpha*float64(n-k) - float64(k)) * v(n-k) * c.Get(u, k)
		}
		c.Set(u, n, sum/(float64(n)*v0))
		return nil

	case FuncErf:
		if e.Companion < 0 {
			return newError(InvalidInput, "recurrence: entry %d (erf) has no resolved companion", u)
		}
		if n == 0 {
			c.Set(u, 0, math.Erf(v(0)))
			return nil
		}
		var sum float64
		for k := 0; k < n; k++ {
			sum += float64(n-k) * v(n-k) * c.Get(e.Companion, k)
		}
		c.Set(u, n, sum/float64(n))
		return nil

	default:
		return newError(UnsupportedOp, "recurrence: entry %d: function kind %s has no Taylor recurrence", u, e.Func)
	}
}
