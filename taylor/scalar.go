package taylor

import "github.com/adriftlabs/taylorint/expr"

// Integrator is the scalar adaptive stepper, a batch size 1
// specialization of BatchIntegrator. Every method just unwraps or wraps
// the single-lane slices the batch API expects, per Design Note #5: one
// implementation, no duplicated stepping logic to drift out of sync.
type Integrator struct {
	b *BatchIntegrator
}

// NewIntegrator builds a scalar stepper over decomposition d.
func NewIntegrator(d *expr.Decomposition, state []float64, t0, rtol, atol float64, pars []float64, cfg Config, engine DerivativeEngine) (*Integrator, error) {
	b, err := NewBatchIntegrator(d, state, []float64{t0}, rtol, atol, 1, pars, cfg, engine)
	if err != nil {
		return nil, err
	}
	return &Integrator{b: b}, nil
}

// PropagateResult mirrors BatchPropagateResult for the single lane.
type PropagateResult struct {
	Outcome  Outcome
	MinH     float64
	MaxH     float64
	MinOrder int
	MaxOrder int
	NSteps   int
}

func single(r *BatchPropagateResult) *PropagateResult {
	return &PropagateResult{
		Outcome:  r.Outcomes[0],
		MinH:     r.MinH[0],
		MaxH:     r.MaxH[0],
		MinOrder: r.MinOrder[0],
		MaxOrder: r.MaxOrder[0],
		NSteps:   r.NSteps[0],
	}
}

// Step advances by as much as the dynamics allow, with no external time
// bound.
func (in *Integrator) Step() (Outcome, float64, int, error) {
	outcomes, hs, orders, err := in.b.Step()
	if err != nil {
		return 0, 0, 0, err
	}
	return outcomes[0], hs[0], orders[0], nil
}

// StepBackward is Step in the negative time direction.
func (in *Integrator) StepBackward() (Outcome, float64, int, error) {
	outcomes, hs, orders, err := in.b.StepBackward()
	if err != nil {
		return 0, 0, 0, err
	}
	return outcomes[0], hs[0], orders[0], nil
}

// StepMaxDelta advances by at most maxDeltaT.
func (in *Integrator) StepMaxDelta(maxDeltaT float64) (Outcome, float64, int, error) {
	outcomes, hs, orders, err := in.b.StepMaxDelta([]float64{maxDeltaT})
	if err != nil {
		return 0, 0, 0, err
	}
	return outcomes[0], hs[0], orders[0], nil
}

// PropagateUntil advances toward the target time t.
func (in *Integrator) PropagateUntil(t float64, maxSteps int) (*PropagateResult, error) {
	r, err := in.b.PropagateUntil(t, maxSteps)
	if err != nil {
		return nil, err
	}
	return single(r), nil
}

// PropagateFor advances by dt relative to the current time.
func (in *Integrator) PropagateFor(dt float64, maxSteps int) (*PropagateResult, error) {
	r, err := in.b.PropagateFor(dt, maxSteps)
	if err != nil {
		return nil, err
	}
	return single(r), nil
}

// GetState returns a copy of the current state vector.
func (in *Integrator) GetState() []float64 { return in.b.GetState() }

// SetState overwrites the state vector.
func (in *Integrator) SetState(state []float64) error { return in.b.SetState(state) }

// GetTime returns the current time.
func (in *Integrator) GetTime() float64 { return in.b.GetTime()[0] }

// SetTime sets the current time.
func (in *Integrator) SetTime(t float64) error { return in.b.SetTime(t) }

// GetDecomposition exposes the decomposition this integrator was built
// from.
func (in *Integrator) GetDecomposition() *expr.Decomposition { return in.b.GetDecomposition() }

// GetIR renders the decomposition as text.
func (in *Integrator) GetIR() string { return in.b.GetIR() }

// NVars reports the number of state variables.
func (in *Integrator) NVars() int { return in.b.NVars() }
