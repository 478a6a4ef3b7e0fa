package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders e in infix notation: parentheses around every binary
// op, "name(arg, ...)" for function calls, the variable's own name for
// Variable nodes (internal decomposition variables are plain variables
// named "u_k", so they render as "u_k" with no special case), "par[k]"
// for parameters, and "t" for the independent-variable function.
func String(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch v := e.(type) {
	case *numberExpr:
		b.WriteString(strconv.FormatFloat(v.v, 'g', -1, 64))
	case *variableExpr:
		b.WriteString(v.name)
	case *paramExpr:
		b.WriteString(fmt.Sprintf("par[%d]", v.idx))
	case *binaryExpr:
		b.WriteByte('(')
		writeExpr(b, v.lhs)
		b.WriteByte(' ')
		b.WriteString(v.op.String())
		b.WriteByte(' ')
		writeExpr(b, v.rhs)
		b.WriteByte(')')
	case *functionExpr:
		if v.kind == FuncTime {
			b.WriteByte('t')
			return
		}
		b.WriteString(v.kind.String())
		b.WriteByte('(')
		for i, a := range v.args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	default:
		panic("expr: String: unknown Expr variant")
	}
}
