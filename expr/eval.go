package expr

// Env maps variable names to numeric values for evaluation.
type Env map[string]float64

// EvalScalar evaluates e given an environment of variable bindings and a
// parameter array. Fails with InvalidInput if a Variable is missing from
// env, OutOfRange if a Param index is beyond pars, and UnsupportedOp if a
// Function kind has no evaluator (none currently lack one).
func EvalScalar(e Expr, env Env, pars []float64) (float64, error) {
	switch v := e.(type) {
	case *numberExpr:
		return v.v, nil
	case *variableExpr:
		val, ok := env[v.name]
		if !ok {
			return 0, newError(InvalidInput, "eval: missing variable %q", v.name)
		}
		return val, nil
	case *paramExpr:
		if v.idx >= len(pars) {
			return 0, newError(OutOfRange, "eval: parameter index %d out of range (have %d)", v.idx, len(pars))
		}
		return pars[v.idx], nil
	case *binaryExpr:
		a, err := EvalScalar(v.lhs, env, pars)
		if err != nil {
			return 0, err
		}
		b, err := EvalScalar(v.rhs, env, pars)
		if err != nil {
			return 0, err
		}
		switch v.op {
		case Add:
			return a + b, nil
		case Sub:
			return a - b, nil
		case Mul:
			return a * b, nil
		case Div:
			return a / b, nil
		default:
			panic("expr: EvalScalar: unknown BinOp")
		}
	case *functionExpr:
		if err := checkArity(v.kind, v.args); err != nil {
			return 0, err
		}
		args := make([]float64, len(v.args))
		var timeVal float64
		if v.kind == FuncTime {
			tv, ok := env["t"]
			if !ok {
				return 0, newError(InvalidInput, "eval: time requested but no \"t\" binding in env")
			}
			timeVal = tv
		}
		for i, a := range v.args {
			av, err := EvalScalar(a, env, pars)
			if err != nil {
				return 0, err
			}
			args[i] = av
		}
		return evalFunc(v.kind, args, timeVal)
	default:
		panic("expr: EvalScalar: unknown Expr variant")
	}
}

// EvalBatch evaluates e once per row of envs (a slice of Env, one per
// batch lane), returning one value per lane. Parameters are shared across
// lanes.
func EvalBatch(e Expr, envs []Env, pars []float64) ([]float64, error) {
	out := make([]float64, len(envs))
	for i, env := range envs {
		v, err := EvalScalar(e, env, pars)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
