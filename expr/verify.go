package expr

import "math"

// verifyRaw is a cheap shape check run right after the recursive
// decomposition pass, before CSE: the decomposition must be at least as
// long as twice the equation count (the state-variable head plus the
// tail, even for a system with an empty middle region).
func verifyRaw(renamed []Expr, raw []Expr, nEq int) error {
	if len(raw) < 2*nEq {
		return newError(InvalidInput, "decompose: internal error: raw decomposition shorter than twice the equation count")
	}
	return nil
}

// verifyDecomposition is the post-condition check from the decomposition
// algorithm's final step: evaluate the original (renamed) right-hand
// sides and the tail of the built Decomposition at a couple of sample
// points and require they agree. This is a cheap proxy for full symbolic
// equivalence, run unconditionally since decomposition happens once at
// construction time rather than in any hot loop.
func verifyDecomposition(renamed []Expr, d *Decomposition) error {
	if len(d.U) < 2*d.NEq {
		return newError(InvalidInput, "decompose: internal error: final decomposition shorter than twice the equation count")
	}

	maxParam := -1
	for _, e := range renamed {
		if m := maxParamIndex(e); m > maxParam {
			maxParam = m
		}
	}
	pars := make([]float64, maxParam+1)
	for i := range pars {
		pars[i] = 0.5 + float64(i)*0.25
	}

	samples := []struct {
		state []float64
		t     float64
	}{
		{state: []float64{0.7, -1.3, 2.1, 0.4, -0.9, 1.6, 0.25, -2.2, 1.05, -0.35}, t: 0.6},
		{state: []float64{1.1, 0.3, -0.6, 1.9, -1.4, 0.8, -0.2, 2.5, -1.75, 0.95}, t: -0.4},
	}

	for _, sample := range samples {
		values := make([]float64, len(d.U))
		env := Env{"t": sample.t}
		for i := 0; i < d.NEq; i++ {
			v := sample.state[i%len(sample.state)]
			values[i] = v
			env[uName(i)] = v
		}
		for i := d.NEq; i < len(d.U); i++ {
			v, err := evalUEntry(d.U[i], values, pars, sample.t)
			if err != nil {
				return err
			}
			values[i] = v
		}

		tailStart := len(d.U) - d.NEq
		for k := 0; k < d.NEq; k++ {
			want, err := EvalScalar(renamed[k], env, pars)
			if err != nil {
				return err
			}
			got := values[tailStart+k]
			if math.IsNaN(want) || math.IsNaN(got) {
				return newError(InvalidInput,
					"decompose: post-condition check produced NaN for equation %d (want %v, got %v)", k, want, got)
			}
			if math.Abs(got-want) > 1e-8*(1+math.Abs(want)) {
				return newError(InvalidInput,
					"decompose: post-condition check failed for equation %d (want %v, got %v)", k, want, got)
			}
		}
	}
	return nil
}

func maxParamIndex(e Expr) int {
	switch v := e.(type) {
	case *numberExpr, *variableExpr:
		return -1
	case *paramExpr:
		return v.idx
	case *binaryExpr:
		l, r := maxParamIndex(v.lhs), maxParamIndex(v.rhs)
		if l > r {
			return l
		}
		return r
	case *functionExpr:
		m := -1
		for _, a := range v.args {
			if am := maxParamIndex(a); am > m {
				m = am
			}
		}
		return m
	default:
		return -1
	}
}

func evalUEntry(e UEntry, values []float64, pars []float64, t float64) (float64, error) {
	switch e.Kind {
	case UConst:
		return e.Const, nil
	case UParam:
		if e.ParamIdx >= len(pars) {
			return 0, newError(OutOfRange, "decompose: parameter index %d out of range", e.ParamIdx)
		}
		return pars[e.ParamIdx], nil
	case URef:
		return values[e.Ref], nil
	case UBinary:
		a := operandValue(e.Lhs, values)
		b := operandValue(e.Rhs, values)
		switch e.BinOp {
		case Add:
			return a + b, nil
		case Sub:
			return a - b, nil
		case Mul:
			return a * b, nil
		case Div:
			return a / b, nil
		default:
			panic("expr: evalUEntry: unknown BinOp")
		}
	case UElem:
		if e.Func == FuncTime {
			return t, nil
		}
		arg := operandValue(e.Arg, values)
		if e.Func == FuncPow {
			return evalFunc(FuncPow, []float64{arg, e.Alpha}, t)
		}
		return evalFunc(e.Func, []float64{arg}, t)
	default:
		return 0, newError(InvalidInput, "decompose: post-condition check: entry %d has an unexpected kind", e.Kind)
	}
}

func operandValue(op Operand, values []float64) float64 {
	if op.IsConst {
		return op.Const
	}
	return values[op.UIndex]
}
