package expr

import (
	"math"
	"testing"
)

type mapCoeffs map[[2]int]float64

func (m mapCoeffs) Get(u, n int) float64 { return m[[2]int{u, n}] }
func (m mapCoeffs) Set(u, n int, v float64) { m[[2]int{u, n}] = v }

// TestRecurrenceMulCauchyProduct checks the binary-Mul recurrence against
// a hand-computed Cauchy product for two arbitrary jets.
func TestRecurrenceMulCauchyProduct(t *testing.T) {
	// u_0, u_1 are state variables standing in for two arbitrary series
	// a, b; u_2 = a*b.
	d := &Decomposition{
		NEq: 2,
		U: []UEntry{
			{Kind: UState},
			{Kind: UState},
			{Kind: UBinary, BinOp: Mul, Lhs: Operand{UIndex: 0}, Rhs: Operand{UIndex: 1}},
		},
	}
	c := mapCoeffs{}
	a := []float64{2, 3, -1, 0.5}
	b := []float64{1, -2, 0.25, 4}
	for n := range a {
		c.Set(0, n, a[n])
		c.Set(1, n, b[n])
	}
	for n := 0; n < len(a); n++ {
		if err := Recurrence(d, 2, n, c, 0, nil); err != nil {
			t.Fatalf("Recurrence: %v", err)
		}
	}
	for n := 0; n < len(a); n++ {
		var want float64
		for k := 0; k <= n; k++ {
			want += a[k] * b[n-k]
		}
		got := c.Get(2, n)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("(a*b)^[%d] = %v, want %v", n, got, want)
		}
	}
}

// TestRecurrenceSinCosAgainstMaclaurin expands sin(t) around t=0 (so the
// argument's own jet is 0,1,0,0,...) and checks the resulting normalized
// coefficients against sin's and cos's known Maclaurin series.
func TestRecurrenceSinCosAgainstMaclaurin(t *testing.T) {
	d := &Decomposition{
		NEq: 1,
		U: []UEntry{
			{Kind: UState},
			{Kind: UElem, Func: FuncSin, Arg: Operand{UIndex: 0}, Companion: 2},
			{Kind: UElem, Func: FuncCos, Arg: Operand{UIndex: 0}, Companion: 1},
		},
	}
	c := mapCoeffs{}
	const order = 6
	c.Set(0, 0, 0)
	c.Set(0, 1, 1)
	for n := 2; n <= order; n++ {
		c.Set(0, n, 0)
	}
	for n := 0; n <= order; n++ {
		if err := Recurrence(d, 1, n, c, 0, nil); err != nil {
			t.Fatalf("sin Recurrence: %v", err)
		}
		if err := Recurrence(d, 2, n, c, 0, nil); err != nil {
			t.Fatalf("cos Recurrence: %v", err)
		}
	}
	// sin(t) = t - t^3/6 + t^5/120 - ...; normalized coefficient at order
	// n is the Maclaurin coefficient itself (a^[n] = a^(n)(0)/n!).
	wantSin := map[int]float64{0: 0, 1: 1, 2: 0, 3: -1.0 / 6, 4: 0, 5: 1.0 / 120, 6: 0}
	wantCos := map[int]float64{0: 1, 1: 0, 2: -0.5, 3: 0, 4: 1.0 / 24, 5: 0, 6: -1.0 / 720}
	for n := 0; n <= order; n++ {
		if got, want := c.Get(1, n), wantSin[n]; math.Abs(got-want) > 1e-9 {
			t.Errorf("sin^[%d] = %v, want %v", n, got, want)
		}
		if got, want := c.Get(2, n), wantCos[n]; math.Abs(got-want) > 1e-9 {
			t.Errorf("cos^[%d] = %v, want %v", n, got, want)
		}
	}
}

// TestRecurrenceExpAgainstMaclaurin checks exp(t) around t=0: exp's
// normalized coefficients are all 1/n!.
func TestRecurrenceExpAgainstMaclaurin(t *testing.T) {
	d := &Decomposition{
		NEq: 1,
		U: []UEntry{
			{Kind: UState},
			{Kind: UElem, Func: FuncExp, Arg: Operand{UIndex: 0}},
		},
	}
	c := mapCoeffs{}
	const order = 5
	c.Set(0, 0, 0)
	c.Set(0, 1, 1)
	for n := 2; n <= order; n++ {
		c.Set(0, n, 0)
	}
	fact := 1.0
	for n := 0; n <= order; n++ {
		if err := Recurrence(d, 1, n, c, 0, nil); err != nil {
			t.Fatalf("Recurrence: %v", err)
		}
		if n > 0 {
			fact *= float64(n)
		}
		want := 1.0 / fact
		if got := c.Get(1, n); math.Abs(got-want) > 1e-9 {
			t.Errorf("exp^[%d] = %v, want %v", n, got, want)
		}
	}
}

// TestRecurrenceSquareCauchySelfProduct checks Square's dedicated
// recurrence against the same Cauchy self-product a hand-rolled Mul(a,a)
// would give.
func TestRecurrenceSquareCauchySelfProduct(t *testing.T) {
	d := &Decomposition{
		NEq: 1,
		U: []UEntry{
			{Kind: UState},
			{Kind: UElem, Func: FuncSquare, Arg: Operand{UIndex: 0}},
		},
	}
	c := mapCoeffs{}
	a := []float64{2, 3, -1, 0.5}
	for n := range a {
		c.Set(0, n, a[n])
	}
	for n := 0; n < len(a); n++ {
		if err := Recurrence(d, 1, n, c, 0, nil); err != nil {
			t.Fatalf("Recurrence: %v", err)
		}
	}
	for n := 0; n < len(a); n++ {
		var want float64
		for k := 0; k <= n; k++ {
			want += a[k] * a[n-k]
		}
		got := c.Get(1, n)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("(a^2)^[%d] = %v, want %v", n, got, want)
		}
	}
}

// TestRecurrenceLogAgainstMaclaurin expands log(1+t) (so the argument's
// jet is 1,1,0,0,...) and checks against ln(1+t)'s known series
// t - t^2/2 + t^3/3 - t^4/4 + ...
func TestRecurrenceLogAgainstMaclaurin(t *testing.T) {
	d := &Decomposition{
		NEq: 1,
		U: []UEntry{
			{Kind: UState},
			{Kind: UElem, Func: FuncLog, Arg: Operand{UIndex: 0}},
		},
	}
	c := mapCoeffs{}
	const order = 5
	c.Set(0, 0, 1)
	c.Set(0, 1, 1)
	for n := 2; n <= order; n++ {
		c.Set(0, n, 0)
	}
	for n := 0; n <= order; n++ {
		if err := Recurrence(d, 1, n, c, 0, nil); err != nil {
			t.Fatalf("Recurrence: %v", err)
		}
	}
	want := map[int]float64{0: 0, 1: 1, 2: -0.5, 3: 1.0 / 3, 4: -0.25, 5: 0.2}
	for n := 0; n <= order; n++ {
		if got := c.Get(1, n); math.Abs(got-want[n]) > 1e-9 {
			t.Errorf("log(1+t)^[%d] = %v, want %v", n, got, want[n])
		}
	}
}

// TestRecurrencePowAgainstBinomialSeries expands pow(1+t, 0.5) and checks
// against sqrt(1+t)'s generalized binomial series.
func TestRecurrencePowAgainstBinomialSeries(t *testing.T) {
	d := &Decomposition{
		NEq: 1,
		U: []UEntry{
			{Kind: UState},
			{Kind: UElem, Func: FuncPow, Arg: Operand{UIndex: 0}, Alpha: 0.5},
		},
	}
	c := mapCoeffs{}
	const order = 4
	c.Set(0, 0, 1)
	c.Set(0, 1, 1)
	for n := 2; n <= order; n++ {
		c.Set(0, n, 0)
	}
	for n := 0; n <= order; n++ {
		if err := Recurrence(d, 1, n, c, 0, nil); err != nil {
			t.Fatalf("Recurrence: %v", err)
		}
	}
	want := map[int]float64{0: 1, 1: 0.5, 2: -0.125, 3: 0.0625, 4: -0.0390625}
	for n := 0; n <= order; n++ {
		if got := c.Get(1, n); math.Abs(got-want[n]) > 1e-9 {
			t.Errorf("sqrt(1+t)^[%d] = %v, want %v", n, got, want[n])
		}
	}
}

func TestRecurrenceDivSelfReferential(t *testing.T) {
	// u_2 = u_0 / u_1, with u_0 = 1 (constant), u_1 = 1+t (so u_1^[0]=1,
	// u_1^[1]=1, higher orders 0). u_2 should be the Maclaurin series of
	// 1/(1+t) = 1 - t + t^2 - t^3 + ...
	d := &Decomposition{
		NEq: 2,
		U: []UEntry{
			{Kind: UState},
			{Kind: UState},
			{Kind: UBinary, BinOp: Div, Lhs: Operand{UIndex: 0}, Rhs: Operand{UIndex: 1}},
		},
	}
	c := mapCoeffs{}
	const order = 5
	c.Set(0, 0, 1)
	c.Set(1, 0, 1)
	c.Set(1, 1, 1)
	for n := 2; n <= order; n++ {
		c.Set(0, n, 0)
		c.Set(1, n, 0)
	}
	for n := 0; n <= order; n++ {
		if err := Recurrence(d, 2, n, c, 0, nil); err != nil {
			t.Fatalf("Recurrence: %v", err)
		}
	}
	want := []float64{1, -1, 1, -1, 1, -1}
	for n := 0; n <= order; n++ {
		if got := c.Get(2, n); math.Abs(got-want[n]) > 1e-9 {
			t.Errorf("(1/(1+t))^[%d] = %v, want %v", n, got, want[n])
		}
	}
}
