package expr

import (
	"sort"
	"strconv"
	"strings"
)

// Equation is an explicit (lhs, rhs) pair for DecomposeEquations: lhs must
// be a bare Variable, with no duplicate lhs across the system and every
// variable appearing in some rhs also appearing as some lhs.
type Equation struct {
	Lhs, Rhs Expr
}

// UKind is the tag of a Decomposition entry.
type UKind int

const (
	// UState is one of the n leading state-variable entries.
	UState UKind = iota
	// UConst is a numeric literal.
	UConst
	// UParam is a runtime parameter reference; it cannot appear bare in
	// the head or tail region (see spec.md §3 invariant 2), only as an
	// operand of a middle-region op, so it always gets its own entry.
	UParam
	// URef is a pass-through alias, "this entry is just u_j" — the shape
	// a bare-variable or bare-number tail equation takes once lowered.
	URef
	// UBinary is one of Add/Sub/Mul/Div over two operands.
	UBinary
	// UElem is an elementary function call.
	UElem
)

// Operand is a middle-region operand: either a numeric literal or a
// reference to an earlier entry u_j (j < i).
type Operand struct {
	IsConst bool
	Const   float64
	UIndex  int
}

// UEntry is one decomposition entry, u_k.
type UEntry struct {
	Kind UKind

	// UState
	Name string
	// UConst, URef-to-number is represented via Kind=UConst instead
	Const float64
	// UParam
	ParamIdx int
	// URef
	Ref int
	// UBinary
	BinOp    BinOp
	Lhs, Rhs Operand
	// UElem
	Func  FuncKind
	Arg   Operand // primary (or base, for Pow) operand
	Alpha float64 // Pow's literal exponent
	// Companion is the index of the co-generated elementary op this
	// entry's Taylor recurrence needs (sin's cos, cos's sin, erf's
	// scaled-exp neighbor); -1 if none. Resolved once at decomposition
	// time to an explicit index — never computed as idx±1.
	Companion int
}

// Decomposition is the ordered list U = [u_0, ..., u_{M-1}] spec.md §3
// describes: the first NEq entries are the state variables, the last NEq
// are the decomposed right-hand sides, and the middle is CSE'd elementary
// ops.
type Decomposition struct {
	NEq  int
	U    []UEntry
	// Defs mirrors U as plain expressions (post-CSE), kept for IR
	// printing and for the post-condition verification in verify.go.
	Defs []Expr
}

// Decompose builds a Decomposition from a system of RHS expressions with
// variables deduced automatically: the equation count must equal the
// number of distinct variable names across the system, and the
// state-variable <-> equation assignment is alphabetical order of names.
func Decompose(system []Expr) (*Decomposition, error) {
	if len(system) == 0 {
		return nil, newError(InvalidInput, "cannot decompose a system of zero equations")
	}
	varSet := map[string]bool{}
	for _, rhs := range system {
		for _, v := range Variables(rhs) {
			varSet[v] = true
		}
	}
	vars := make([]string, 0, len(varSet))
	for v := range varSet {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	if len(vars) != len(system) {
		return nil, newError(InvalidInput,
			"the number of deduced variables (%d) differs from the number of equations (%d)", len(vars), len(system))
	}
	return decomposeCore(vars, system)
}

// DecomposeEquations builds a Decomposition from explicit (lhs, rhs)
// pairs, in declared order.
func DecomposeEquations(pairs []Equation) (*Decomposition, error) {
	if len(pairs) == 0 {
		return nil, newError(InvalidInput, "cannot decompose a system of zero equations")
	}
	vars := make([]string, len(pairs))
	seen := map[string]bool{}
	for i, p := range pairs {
		if !IsVariable(p.Lhs) {
			return nil, newError(InvalidInput, "equation %d: left-hand side must be a bare variable", i)
		}
		name := Name(p.Lhs)
		if seen[name] {
			return nil, newError(InvalidInput, "duplicate left-hand side variable %q", name)
		}
		seen[name] = true
		vars[i] = name
	}
	rhsList := make([]Expr, len(pairs))
	for i, p := range pairs {
		for _, v := range Variables(p.Rhs) {
			if !seen[v] {
				return nil, newError(InvalidInput, "right-hand side variable %q has no matching left-hand side", v)
			}
		}
		rhsList[i] = p.Rhs
	}
	return decomposeCore(vars, rhsList)
}

func uName(i int) string { return "u_" + strconv.Itoa(i) }

func parseUIndex(name string) (int, error) {
	if !strings.HasPrefix(name, "u_") {
		return 0, newError(InvalidInput, "expected an internal u-variable, got %q", name)
	}
	idx, err := strconv.Atoi(name[2:])
	if err != nil {
		return 0, newError(InvalidInput, "malformed internal variable %q", name)
	}
	return idx, nil
}

func decomposeCore(vars []string, rhsList []Expr) (*Decomposition, error) {
	nEq := len(vars)

	replMap := make(map[string]string, nEq)
	for i, v := range vars {
		replMap[v] = uName(i)
	}

	renamed := make([]Expr, nEq)
	for i, e := range rhsList {
		renamed[i] = RenameVariables(e, replMap)
	}

	raw := make([]Expr, 0, nEq*3)
	companionRaw := make([]int, 0, nEq*3)
	for i := range vars {
		raw = append(raw, Var(uName(i)))
		companionRaw = append(companionRaw, -1)
	}

	tail := make([]Expr, nEq)
	for i, e := range renamed {
		idx, decomposed, err := decomposeInPlace(e, &raw, &companionRaw)
		if err != nil {
			return nil, err
		}
		if decomposed {
			tail[i] = Var(uName(idx))
		} else {
			tail[i] = e
		}
	}
	for _, e := range tail {
		raw = append(raw, e)
		companionRaw = append(companionRaw, -1)
	}

	if err := verifyRaw(renamed, raw, nEq); err != nil {
		return nil, err
	}

	final, rawToFinal, finalOrigin := cse(raw, nEq)

	finalCompanion := make([]int, len(final))
	for i := range finalCompanion {
		finalCompanion[i] = -1
	}
	for f, origin := range finalOrigin {
		if origin < 0 {
			continue
		}
		if c := companionRaw[origin]; c != -1 {
			finalCompanion[f] = rawToFinal[c]
		}
	}

	d, err := lower(final, finalCompanion, nEq)
	if err != nil {
		return nil, err
	}

	if err := verifyDecomposition(renamed, d); err != nil {
		return nil, err
	}

	return d, nil
}

// decomposeInPlace recursively decomposes e, appending new entries to
// *defs (and *companion in lockstep) as needed. It returns (0, false,
// nil) for a Number or a Variable (these are never decomposed; they pass
// through unchanged into whatever referenced them), or (idx, true, nil)
// with idx the new entry's index otherwise.
func decomposeInPlace(e Expr, defs *[]Expr, companion *[]int) (int, bool, error) {
	switch v := e.(type) {
	case *numberExpr, *variableExpr:
		return 0, false, nil
	case *paramExpr:
		*defs = append(*defs, v)
		*companion = append(*companion, -1)
		return len(*defs) - 1, true, nil
	case *binaryExpr:
		lhsIdx, lhsDec, err := decomposeInPlace(v.lhs, defs, companion)
		if err != nil {
			return 0, false, err
		}
		rhsIdx, rhsDec, err := decomposeInPlace(v.rhs, defs, companion)
		if err != nil {
			return 0, false, err
		}
		newLhs, newRhs := v.lhs, v.rhs
		if lhsDec {
			newLhs = Var(uName(lhsIdx))
		}
		if rhsDec {
			newRhs = Var(uName(rhsIdx))
		}
		*defs = append(*defs, &binaryExpr{op: v.op, lhs: newLhs, rhs: newRhs})
		*companion = append(*companion, -1)
		return len(*defs) - 1, true, nil
	case *functionExpr:
		return decomposeFunction(v, defs, companion)
	default:
		panic("expr: decomposeInPlace: unknown Expr variant")
	}
}

func appendEntry(defs *[]Expr, companion *[]int, e Expr) int {
	*defs = append(*defs, e)
	*companion = append(*companion, -1)
	return len(*defs) - 1
}

func decomposeFunction(f *functionExpr, defs *[]Expr, companion *[]int) (int, bool, error) {
	if err := checkArity(f.kind, f.args); err != nil {
		return 0, false, err
	}
	switch f.kind {
	case FuncSin:
		arg, err := decomposeOperand(f.args[0], defs, companion)
		if err != nil {
			return 0, false, err
		}
		sinIdx := appendEntry(defs, companion, newFunc(FuncSin, arg))
		cosIdx := appendEntry(defs, companion, newFunc(FuncCos, arg))
		(*companion)[sinIdx] = cosIdx
		(*companion)[cosIdx] = sinIdx
		return sinIdx, true, nil
	case FuncCos:
		arg, err := decomposeOperand(f.args[0], defs, companion)
		if err != nil {
			return 0, false, err
		}
		sinIdx := appendEntry(defs, companion, newFunc(FuncSin, arg))
		cosIdx := appendEntry(defs, companion, newFunc(FuncCos, arg))
		(*companion)[sinIdx] = cosIdx
		(*companion)[cosIdx] = sinIdx
		return cosIdx, true, nil
	case FuncErf:
		arg, err := decomposeOperand(f.args[0], defs, companion)
		if err != nil {
			return 0, false, err
		}
		squareIdx := appendEntry(defs, companion, newFunc(FuncSquare, arg))
		negIdx := appendEntry(defs, companion, SubOf(Num(0), Var(uName(squareIdx))))
		expIdx := appendEntry(defs, companion, newFunc(FuncExp, Var(uName(negIdx))))
		eIdx := appendEntry(defs, companion, MulOf(Num(twoOverSqrtPi), Var(uName(expIdx))))
		erfIdx := appendEntry(defs, companion, newFunc(FuncErf, arg))
		(*companion)[erfIdx] = eIdx
		return erfIdx, true, nil
	case FuncTime:
		idx := appendEntry(defs, companion, newFunc(FuncTime))
		return idx, true, nil
	case FuncPow:
		base, err := decomposeOperand(f.args[0], defs, companion)
		if err != nil {
			return 0, false, err
		}
		if _, ok := IsNumber(f.args[1]); !ok {
			return 0, false, newError(UnsupportedOp, "pow: taylor decomposition requires a literal numeric exponent")
		}
		idx := appendEntry(defs, companion, newFunc(FuncPow, base, f.args[1]))
		return idx, true, nil
	default: // FuncLog, FuncExp, FuncSquare
		arg, err := decomposeOperand(f.args[0], defs, companion)
		if err != nil {
			return 0, false, err
		}
		idx := appendEntry(defs, companion, newFunc(f.kind, arg))
		return idx, true, nil
	}
}

// decomposeOperand decomposes e if needed and returns either e itself
// (Number/Variable, left untouched) or a reference to the new entry.
func decomposeOperand(e Expr, defs *[]Expr, companion *[]int) (Expr, error) {
	idx, decomposed, err := decomposeInPlace(e, defs, companion)
	if err != nil {
		return nil, err
	}
	if decomposed {
		return Var(uName(idx)), nil
	}
	return e, nil
}
