package expr

// Diff returns the symbolic derivative of e with respect to varName.
// Number, Param -> 0. Variable v -> 1 if v==varName else 0. BinaryOp
// follows the standard chain rule (sum linear, product Leibniz, quotient
// rule). Function dispatches to the per-kind rule in functions.go and
// fails with UnsupportedOp if the kind has none (none currently lack
// one — every FuncKind in this package differentiates).
func Diff(e Expr, varName string) (Expr, error) {
	switch v := e.(type) {
	case *numberExpr:
		return Num(0), nil
	case *paramExpr:
		return Num(0), nil
	case *variableExpr:
		if v.name == varName {
			return Num(1), nil
		}
		return Num(0), nil
	case *binaryExpr:
		return diffBinary(v, varName)
	case *functionExpr:
		return diffFunc(v, varName)
	default:
		panic("expr: Diff: unknown Expr variant")
	}
}

func diffBinary(b *binaryExpr, varName string) (Expr, error) {
	da, err := Diff(b.lhs, varName)
	if err != nil {
		return nil, err
	}
	db, err := Diff(b.rhs, varName)
	if err != nil {
		return nil, err
	}
	switch b.op {
	case Add:
		return AddOf(da, db), nil
	case Sub:
		return SubOf(da, db), nil
	case Mul:
		// Leibniz: (a*b)' = a'*b + a*b'
		return AddOf(MulOf(da, b.rhs), MulOf(b.lhs, db)), nil
	case Div:
		// Quotient rule: (a/b)' = (a'*b - a*b') / b^2
		num := SubOf(MulOf(da, b.rhs), MulOf(b.lhs, db))
		den := MulOf(b.rhs, b.rhs)
		return DivOf(num, den), nil
	default:
		panic("expr: diffBinary: unknown BinOp")
	}
}
