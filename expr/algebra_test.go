package expr

import "testing"

func TestDiffConstantIsZero(t *testing.T) {
	d, err := Diff(Num(3.5), "x")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if v, ok := IsNumber(d); !ok || v != 0 {
		t.Errorf("d/dx(3.5) = %v, want 0", String(d))
	}
}

func TestDiffSumAndProduct(t *testing.T) {
	x, y := Var("x"), Var("y")
	sum := AddOf(x, y)
	d, err := Diff(sum, "x")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	want := AddOf(Num(1), Num(0))
	if !Equal(d, want) {
		t.Errorf("d/dx(x+y) = %s, want %s", String(d), String(want))
	}

	prod := MulOf(x, y)
	d, err = Diff(prod, "x")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	want = AddOf(MulOf(Num(1), y), MulOf(x, Num(0)))
	if !Equal(d, want) {
		t.Errorf("d/dx(x*y) = %s, want %s", String(d), String(want))
	}
}

func TestDiffQuotient(t *testing.T) {
	x, y := Var("x"), Var("y")
	q := DivOf(x, y)
	d, err := Diff(q, "x")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	want := DivOf(SubOf(MulOf(Num(1), y), MulOf(x, Num(0))), MulOf(y, y))
	if !Equal(d, want) {
		t.Errorf("d/dx(x/y) = %s, want %s", String(d), String(want))
	}
}

// S5: diff(sin(cos(x)), x) matches the chain rule applied structurally.
func TestDiffSinCosChainRule(t *testing.T) {
	x := Var("x")
	e := Sin(Cos(x))
	d, err := Diff(e, "x")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	inner, err := Diff(Cos(x), "x")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	want := MulOf(Cos(Cos(x)), inner)
	if !Equal(d, want) {
		t.Errorf("diff(sin(cos(x)),x) = %s, want %s", String(d), String(want))
	}
}

// S6: subs(x*y+3, {x: y}) produces a structurally new tree, y*y+3.
func TestSubsStructural(t *testing.T) {
	x, y := Var("x"), Var("y")
	e := AddOf(MulOf(x, y), Num(3))
	got := Subs(e, map[string]Expr{"x": y})
	want := AddOf(MulOf(y, y), Num(3))
	if !Equal(got, want) {
		t.Errorf("subs(x*y+3,{x:y}) = %s, want %s", String(got), String(want))
	}
	// e itself is untouched: Subs never mutates.
	if !Equal(e, AddOf(MulOf(x, y), Num(3))) {
		t.Errorf("Subs mutated its input")
	}
}

func TestNoSimplification(t *testing.T) {
	x := Var("x")
	e := AddOf(x, Num(0))
	if Equal(e, x) {
		t.Errorf("AddOf(x, 0) must not simplify to x")
	}
	p := MulOf(x, Num(1))
	if Equal(p, x) {
		t.Errorf("MulOf(x, 1) must not simplify to x")
	}
}

func TestStructuralEqualityImpliesEqualHash(t *testing.T) {
	x, y := Var("x"), Var("y")
	a := AddOf(MulOf(x, y), Sin(x))
	b := AddOf(MulOf(Var("x"), Var("y")), Sin(Var("x")))
	if !Equal(a, b) {
		t.Fatalf("expected a and b to be structurally equal")
	}
	if Hash(a) != Hash(b) {
		t.Errorf("structurally equal trees hashed differently: %d vs %d", Hash(a), Hash(b))
	}
}

func TestEvalSubsCommute(t *testing.T) {
	x, y := Var("x"), Var("y")
	e := AddOf(MulOf(x, y), Sin(x))
	env := Env{"x": 0.5, "y": 2.0}

	direct, err := EvalScalar(e, env, nil)
	if err != nil {
		t.Fatalf("EvalScalar: %v", err)
	}

	substituted := Subs(e, map[string]Expr{"x": Num(0.5), "y": Num(2.0)})
	viaSubs, err := EvalScalar(substituted, Env{}, nil)
	if err != nil {
		t.Fatalf("EvalScalar after Subs: %v", err)
	}

	if direct != viaSubs {
		t.Errorf("eval/subs did not commute: %v vs %v", direct, viaSubs)
	}
}

func TestVariablesSortedUnique(t *testing.T) {
	e := AddOf(MulOf(Var("z"), Var("a")), Sin(Var("a")))
	got := Variables(e)
	want := []string{"a", "z"}
	if len(got) != len(want) {
		t.Fatalf("Variables() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Variables()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParamOutOfRange(t *testing.T) {
	_, err := EvalScalar(Param(2), Env{}, []float64{1, 2})
	if !IsKind(err, OutOfRange) {
		t.Errorf("expected OutOfRange, got %v", err)
	}
}

func TestMissingVariable(t *testing.T) {
	_, err := EvalScalar(Var("x"), Env{}, nil)
	if !IsKind(err, InvalidInput) {
		t.Errorf("expected InvalidInput, got %v", err)
	}
}
