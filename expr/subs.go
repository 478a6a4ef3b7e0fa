package expr

// Subs performs structural substitution of variables only: every
// Variable node named k in the map is replaced, as a subtree, by the
// corresponding Expr. Numbers and parameters pass through untouched; no
// simplification is applied to the result.
func Subs(e Expr, m map[string]Expr) Expr {
	switch v := e.(type) {
	case *numberExpr, *paramExpr:
		return e
	case *variableExpr:
		if r, ok := m[v.name]; ok {
			return r
		}
		return e
	case *binaryExpr:
		return &binaryExpr{op: v.op, lhs: Subs(v.lhs, m), rhs: Subs(v.rhs, m)}
	case *functionExpr:
		newArgs := make([]Expr, len(v.args))
		for i, a := range v.args {
			newArgs[i] = Subs(a, m)
		}
		return &functionExpr{kind: v.kind, args: newArgs}
	default:
		panic("expr: Subs: unknown Expr variant")
	}
}
