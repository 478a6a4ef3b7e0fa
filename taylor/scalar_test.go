package taylor

import (
	"math"
	"testing"

	"github.com/adriftlabs/taylorint/expr"
)

func exponentialDecomposition(t *testing.T) *expr.Decomposition {
	t.Helper()
	x := expr.Var("x")
	d, err := expr.Decompose([]expr.Expr{x})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	return d
}

func TestScalarExponentialGrowth(t *testing.T) {
	d := exponentialDecomposition(t)
	in, err := NewIntegrator(d, []float64{1}, 0, 1e-12, 1e-12, nil, Config{}, nil)
	if err != nil {
		t.Fatalf("NewIntegrator: %v", err)
	}
	res, err := in.PropagateUntil(1, 10000)
	if err != nil {
		t.Fatalf("PropagateUntil: %v", err)
	}
	if res.Outcome != TimeLimit {
		t.Fatalf("outcome = %v, want TimeLimit", res.Outcome)
	}
	got := in.GetState()[0]
	want := math.Exp(1)
	if !approxEqual(got, want, 1e-8) {
		t.Errorf("x(1) = %v, want %v", got, want)
	}
	if !approxEqual(in.GetTime(), 1, 1e-12) {
		t.Errorf("final time = %v, want 1", in.GetTime())
	}
}

func TestScalarStepAdvancesTime(t *testing.T) {
	d := exponentialDecomposition(t)
	in, err := NewIntegrator(d, []float64{1}, 0, 1e-8, 1e-8, nil, Config{}, nil)
	if err != nil {
		t.Fatalf("NewIntegrator: %v", err)
	}
	outcome, h, order, err := in.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if outcome != Success {
		t.Fatalf("outcome = %v, want Success", outcome)
	}
	if h <= 0 {
		t.Errorf("step size = %v, want positive", h)
	}
	if order < 2 {
		t.Errorf("order = %d, want >= 2", order)
	}
	if in.GetTime() != h {
		t.Errorf("time after one step = %v, want %v", in.GetTime(), h)
	}
}

func TestScalarStepMaxDeltaClampsToTimeLimit(t *testing.T) {
	d := exponentialDecomposition(t)
	in, err := NewIntegrator(d, []float64{1}, 0, 1e-12, 1e-12, nil, Config{}, nil)
	if err != nil {
		t.Fatalf("NewIntegrator: %v", err)
	}
	outcome, h, _, err := in.StepMaxDelta(1e-9)
	if err != nil {
		t.Fatalf("StepMaxDelta: %v", err)
	}
	if outcome != TimeLimit {
		t.Fatalf("outcome = %v, want TimeLimit", outcome)
	}
	if h != 1e-9 {
		t.Errorf("h = %v, want exactly the requested bound 1e-9", h)
	}
}

func TestScalarPropagateForAndBackRoundTrips(t *testing.T) {
	d := exponentialDecomposition(t)
	in, err := NewIntegrator(d, []float64{2}, 0, 1e-12, 1e-12, nil, Config{}, nil)
	if err != nil {
		t.Fatalf("NewIntegrator: %v", err)
	}
	if _, err := in.PropagateFor(0.5, 10000); err != nil {
		t.Fatalf("PropagateFor: %v", err)
	}
	if _, err := in.PropagateFor(-0.5, 10000); err != nil {
		t.Fatalf("PropagateFor back: %v", err)
	}
	got := in.GetState()[0]
	if !approxEqual(got, 2, 1e-6) {
		t.Errorf("round trip state = %v, want ~2", got)
	}
	if !approxEqual(in.GetTime(), 0, 1e-9) {
		t.Errorf("round trip time = %v, want ~0", in.GetTime())
	}
}

func TestScalarNonFiniteStateIsSticky(t *testing.T) {
	d := exponentialDecomposition(t)
	in, err := NewIntegrator(d, []float64{1}, 0, 1e-8, 1e-8, nil, Config{}, nil)
	if err != nil {
		t.Fatalf("NewIntegrator: %v", err)
	}
	if err := in.SetState([]float64{math.NaN()}); err == nil {
		t.Fatalf("SetState accepted a non-finite state")
	}
	// SetState rejects non-finite values, so put the NaN in place directly.
	in.b.state[0] = math.NaN()
	outcome1, _, _, err := in.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if outcome1 != ErrNonFiniteState {
		t.Fatalf("outcome = %v, want ErrNonFiniteState", outcome1)
	}
	outcome2, h2, _, err := in.Step()
	if err != nil {
		t.Fatalf("Step (repeat): %v", err)
	}
	if outcome2 != ErrNonFiniteState {
		t.Fatalf("repeat outcome = %v, want ErrNonFiniteState again", outcome2)
	}
	if h2 != 0 {
		t.Errorf("h on a failed step = %v, want 0", h2)
	}
	if !math.IsNaN(in.GetState()[0]) {
		t.Errorf("state after repeated failure = %v, want to remain NaN", in.GetState()[0])
	}
}

func TestSetStateRejectsWrongLength(t *testing.T) {
	d := exponentialDecomposition(t)
	in, err := NewIntegrator(d, []float64{1}, 0, 1e-8, 1e-8, nil, Config{}, nil)
	if err != nil {
		t.Fatalf("NewIntegrator: %v", err)
	}
	if err := in.SetState([]float64{1, 2}); err == nil {
		t.Fatal("expected an error for a mismatched state length")
	}
}

func TestNewIntegratorRejectsNonPositiveTolerance(t *testing.T) {
	d := exponentialDecomposition(t)
	if _, err := NewIntegrator(d, []float64{1}, 0, 0, 1e-8, nil, Config{}, nil); err == nil {
		t.Fatal("expected an error for a zero rtol")
	}
}

func TestNewIntegratorRejectsNonFiniteInitialState(t *testing.T) {
	d := exponentialDecomposition(t)
	if _, err := NewIntegrator(d, []float64{math.Inf(1)}, 0, 1e-8, 1e-8, nil, Config{}, nil); err == nil {
		t.Fatal("expected an error for a non-finite initial state")
	}
}
