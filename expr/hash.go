package expr

import (
	"hash/fnv"
	"math"
	"strconv"
)

// Hash returns a structural hash of e: structurally equal trees hash
// equally. Function equality (and hence hashing) compares the function's
// kind and argument tuple only; there is no callback identity to compare
// in this design (Design Note #1 removed the callback bundle entirely).
func Hash(e Expr) uint64 {
	h := fnv.New64a()
	hashInto(h, e)
	return h.Sum64()
}

func hashInto(h interface{ Write([]byte) (int, error) }, e Expr) {
	switch v := e.(type) {
	case *numberExpr:
		h.Write([]byte{'N'})
		var buf [8]byte
		x := v.v
		if x == 0 {
			// -0 and +0 compare Equal, so they must hash alike.
			x = 0
		}
		bits := math.Float64bits(x)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		h.Write(buf[:])
	case *variableExpr:
		h.Write([]byte{'V'})
		h.Write([]byte(v.name))
	case *paramExpr:
		h.Write([]byte{'P'})
		h.Write([]byte(strconv.Itoa(v.idx)))
	case *binaryExpr:
		h.Write([]byte{'B', byte(v.op)})
		hashInto(h, v.lhs)
		h.Write([]byte{'|'})
		hashInto(h, v.rhs)
	case *functionExpr:
		h.Write([]byte{'F', byte(v.kind)})
		for _, a := range v.args {
			hashInto(h, a)
			h.Write([]byte{','})
		}
	default:
		panic("expr: Hash: unknown Expr variant")
	}
}

// Equal reports whether e1 and e2 are structurally identical: same
// variant, same scalar payload (or, for Function, same kind), and
// recursively equal operands in the same order.
func Equal(e1, e2 Expr) bool {
	switch a := e1.(type) {
	case *numberExpr:
		b, ok := e2.(*numberExpr)
		return ok && a.v == b.v
	case *variableExpr:
		b, ok := e2.(*variableExpr)
		return ok && a.name == b.name
	case *paramExpr:
		b, ok := e2.(*paramExpr)
		return ok && a.idx == b.idx
	case *binaryExpr:
		b, ok := e2.(*binaryExpr)
		return ok && a.op == b.op && Equal(a.lhs, b.lhs) && Equal(a.rhs, b.rhs)
	case *functionExpr:
		b, ok := e2.(*functionExpr)
		if !ok || a.kind != b.kind || len(a.args) != len(b.args) {
			return false
		}
		for i := range a.args {
			if !Equal(a.args[i], b.args[i]) {
				return false
			}
		}
		return true
	default:
		panic("expr: Equal: unknown Expr variant")
	}
}
