package expr

import "strconv"

// cse performs common subexpression elimination over the middle region of
// raw (the region strictly between the nEq state-variable head and the
// nEq tail entries), matching heyoka's single left-to-right pass: walk
// the middle entries in order, rename any reference to an earlier entry
// through the entries already folded, and merge an entry into an earlier
// structurally-equal survivor instead of appending a duplicate. Head and
// tail entries are never merged, matching the original's treatment of
// the state variables and the final right-hand sides as fixed points.
//
// Companion adjacency survives this pass even when one half of a pair
// gets merged away: sin/cos are always emitted back to back with nothing
// between them, so if both survive they remain adjacent in the result,
// and if one is merged its rename entry still resolves to the correct
// final index via rawToFinal.
//
// It returns the deduplicated entries, a map from every raw index to its
// final index, and, per final index, the raw index whose append first
// produced it (-1 for head/tail entries, which are copied verbatim and
// have no single "origin" in that sense).
func cse(raw []Expr, nEq int) (final []Expr, rawToFinal map[int]int, finalOrigin []int) {
	n := len(raw)
	final = make([]Expr, 0, n)
	finalOrigin = make([]int, 0, n)
	rawToFinal = make(map[int]int, n)
	renameMap := map[string]string{}

	for i := 0; i < nEq; i++ {
		final = append(final, raw[i])
		finalOrigin = append(finalOrigin, -1)
		rawToFinal[i] = i
	}

	exMap := map[string]int{}
	midEnd := n - nEq
	for i := nEq; i < midEnd; i++ {
		renamed := RenameVariables(raw[i], renameMap)
		key := String(renamed)
		if j, ok := exMap[key]; ok {
			renameMap["u_"+strconv.Itoa(i)] = "u_" + strconv.Itoa(j)
			rawToFinal[i] = j
			continue
		}
		final = append(final, renamed)
		finalOrigin = append(finalOrigin, i)
		j := len(final) - 1
		exMap[key] = j
		renameMap["u_"+strconv.Itoa(i)] = "u_" + strconv.Itoa(j)
		rawToFinal[i] = j
	}

	for i := midEnd; i < n; i++ {
		renamed := RenameVariables(raw[i], renameMap)
		final = append(final, renamed)
		finalOrigin = append(finalOrigin, -1)
		rawToFinal[i] = len(final) - 1
	}

	return final, rawToFinal, finalOrigin
}

// lower converts the post-CSE expression list into the typed
// Decomposition the taylor package consumes.
func lower(final []Expr, companion []int, nEq int) (*Decomposition, error) {
	u := make([]UEntry, len(final))
	for i, e := range final {
		entry, err := lowerEntry(i, e, nEq, companion[i])
		if err != nil {
			return nil, err
		}
		u[i] = entry
	}
	return &Decomposition{NEq: nEq, U: u, Defs: final}, nil
}

func lowerEntry(i int, e Expr, nEq int, companion int) (UEntry, error) {
	if i < nEq {
		v, ok := e.(*variableExpr)
		if !ok {
			return UEntry{}, newError(InvalidInput, "decompose: entry %d of the state-variable head is not a bare variable", i)
		}
		return UEntry{Kind: UState, Name: v.name}, nil
	}
	switch v := e.(type) {
	case *numberExpr:
		return UEntry{Kind: UConst, Const: v.v}, nil
	case *variableExpr:
		idx, err := parseUIndex(v.name)
		if err != nil {
			return UEntry{}, err
		}
		if idx >= i {
			return UEntry{}, newError(InvalidInput, "decompose: entry %d references u_%d, which is not earlier", i, idx)
		}
		return UEntry{Kind: URef, Ref: idx}, nil
	case *paramExpr:
		return UEntry{Kind: UParam, ParamIdx: v.idx}, nil
	case *binaryExpr:
		lhs, err := operandFromExpr(v.lhs, i)
		if err != nil {
			return UEntry{}, err
		}
		rhs, err := operandFromExpr(v.rhs, i)
		if err != nil {
			return UEntry{}, err
		}
		return UEntry{Kind: UBinary, BinOp: v.op, Lhs: lhs, Rhs: rhs}, nil
	case *functionExpr:
		if v.kind == FuncTime {
			return UEntry{Kind: UElem, Func: FuncTime, Companion: companion}, nil
		}
		arg, err := operandFromExpr(v.args[0], i)
		if err != nil {
			return UEntry{}, err
		}
		entry := UEntry{Kind: UElem, Func: v.kind, Arg: arg, Companion: companion}
		if v.kind == FuncPow {
			alpha, ok := IsNumber(v.args[1])
			if !ok {
				return UEntry{}, newError(InvalidInput, "decompose: entry %d: pow exponent is not a literal number", i)
			}
			entry.Alpha = alpha
		}
		return entry, nil
	default:
		return UEntry{}, newError(InvalidInput, "decompose: entry %d has an unsupported shape", i)
	}
}

func operandFromExpr(e Expr, i int) (Operand, error) {
	switch v := e.(type) {
	case *numberExpr:
		return Operand{IsConst: true, Const: v.v}, nil
	case *variableExpr:
		idx, err := parseUIndex(v.name)
		if err != nil {
			return Operand{}, err
		}
		if idx >= i {
			return Operand{}, newError(InvalidInput, "decompose: entry %d references u_%d, which is not earlier", i, idx)
		}
		return Operand{UIndex: idx}, nil
	default:
		return Operand{}, newError(InvalidInput, "decompose: entry %d has a non-operand child of type %T", i, e)
	}
}
