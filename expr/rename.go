package expr

import "sort"

// Variables returns the sorted, unique set of variable names appearing in
// e. Parameters and numbers do not contribute.
func Variables(e Expr) []string {
	seen := map[string]bool{}
	collectVariables(e, seen)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func collectVariables(e Expr, seen map[string]bool) {
	switch v := e.(type) {
	case *numberExpr, *paramExpr:
		// contribute nothing
	case *variableExpr:
		seen[v.name] = true
	case *binaryExpr:
		collectVariables(v.lhs, seen)
		collectVariables(v.rhs, seen)
	case *functionExpr:
		for _, a := range v.args {
			collectVariables(a, seen)
		}
	default:
		panic("expr: Variables: unknown Expr variant")
	}
}

// RenameVariables renames every Variable node in e whose name is a key of
// rename to the corresponding value, in place conceptually — since Expr
// trees here are immutable values, it returns the renamed tree rather
// than mutating through a pointer. Parameters and numbers are unaffected.
func RenameVariables(e Expr, rename map[string]string) Expr {
	switch v := e.(type) {
	case *numberExpr, *paramExpr:
		return e
	case *variableExpr:
		if nn, ok := rename[v.name]; ok {
			return &variableExpr{name: nn}
		}
		return e
	case *binaryExpr:
		return &binaryExpr{op: v.op, lhs: RenameVariables(v.lhs, rename), rhs: RenameVariables(v.rhs, rename)}
	case *functionExpr:
		newArgs := make([]Expr, len(v.args))
		for i, a := range v.args {
			newArgs[i] = RenameVariables(a, rename)
		}
		return &functionExpr{kind: v.kind, args: newArgs}
	default:
		panic("expr: RenameVariables: unknown Expr variant")
	}
}
