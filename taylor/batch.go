package taylor

import (
	"math"
	"strconv"

	"github.com/adriftlabs/taylorint/expr"
	"gonum.org/v1/gonum/floats"
)

// BatchIntegrator is the batch adaptive stepper: B independent state
// vectors, each advancing with its own deduced step, sharing one
// decomposition and one per-step max order. Integrator (scalar.go) is
// the B=1 specialization of this type.
type BatchIntegrator struct {
	d      *expr.Decomposition
	engine DerivativeEngine
	cfg    Config

	nVars, batch int

	// state[v*batch+b] is variable v's value in lane b.
	state []float64
	time  []float64
	pars  []float64

	rtol, atol       float64
	orderR, orderA   int
	maxOrder         int
	invOrder         []float64
	rhofacR, rhofacA float64

	jet *Jet

	lastOutcome []Outcome

	// scratch, reused across stepImpl calls for the per-lane state and
	// coefficient rows. stepImpl still allocates its per-call result and
	// bookkeeping slices, and Estrin works on its own copy of the
	// coefficients, so a step is not allocation-free.
	scratchLane   []float64
	scratchCoeffs []float64
}

// NewBatchIntegrator builds a batch stepper over decomposition d. engine
// may be nil, in which case the reference interpreter is used.
func NewBatchIntegrator(d *expr.Decomposition, state, times []float64, rtol, atol float64, batch int, pars []float64, cfg Config, engine DerivativeEngine) (*BatchIntegrator, error) {
	if d == nil {
		return nil, newError(InvalidInput, "nil decomposition")
	}
	if batch < 1 {
		return nil, newError(InvalidInput, "batch size must be at least 1, got %d", batch)
	}
	nVars := d.NEq
	if len(state) != nVars*batch {
		return nil, newError(InvalidInput, "state has length %d, want %d (n_vars * batch)", len(state), nVars*batch)
	}
	if len(times) != batch {
		return nil, newError(InvalidInput, "times has length %d, want %d (batch)", len(times), batch)
	}
	if !isFinite(rtol) || rtol <= 0 {
		return nil, newError(InvalidInput, "rtol must be finite and positive, got %v", rtol)
	}
	if !isFinite(atol) || atol <= 0 {
		return nil, newError(InvalidInput, "atol must be finite and positive, got %v", atol)
	}
	for i, v := range state {
		if !isFinite(v) {
			return nil, newError(InvalidInput, "initial state[%d] is not finite: %v", i, v)
		}
	}
	for i, v := range times {
		if !isFinite(v) {
			return nil, newError(InvalidInput, "initial time[%d] is not finite: %v", i, v)
		}
	}

	orderR, err := computeOrder(rtol)
	if err != nil {
		return nil, err
	}
	orderA, err := computeOrder(atol)
	if err != nil {
		return nil, err
	}
	maxOrder := orderR
	if orderA > maxOrder {
		maxOrder = orderA
	}

	invOrder := make([]float64, maxOrder+1)
	for i := 1; i <= maxOrder; i++ {
		invOrder[i] = 1.0 / float64(i)
	}

	if engine == nil {
		engine = NewInterpreterEngine()
	}

	jet, err := newJet(maxOrder, len(d.U), batch)
	if err != nil {
		return nil, err
	}

	bi := &BatchIntegrator{
		d:             d,
		engine:        engine,
		cfg:           cfg,
		nVars:         nVars,
		batch:         batch,
		state:         append([]float64(nil), state...),
		time:          append([]float64(nil), times...),
		pars:          append([]float64(nil), pars...),
		rtol:          rtol,
		atol:          atol,
		orderR:        orderR,
		orderA:        orderA,
		maxOrder:      maxOrder,
		invOrder:      invOrder,
		rhofacR:       rhofac(orderR),
		rhofacA:       rhofac(orderA),
		jet:           jet,
		lastOutcome:   make([]Outcome, batch),
		scratchLane:   make([]float64, nVars),
		scratchCoeffs: make([]float64, maxOrder+1),
	}

	for b := 0; b < batch; b++ {
		bi.copyStateToJet(b)
		if err := engine.FillJet(d, jet, b, maxOrder, bi.time[b], bi.pars, invOrder); err != nil {
			return nil, err
		}
		for i := 0; i < nVars; i++ {
			for n := 0; n <= maxOrder; n++ {
				if !isFinite(jet.at(n, i, b)) {
					return nil, newError(InvalidInput, "initial derivatives are not finite for lane %d, variable %d", b, i)
				}
			}
		}
	}

	return bi, nil
}

func computeOrder(tol float64) (int, error) {
	v := -math.Log(tol)/2 + 1
	order := int(math.Ceil(v))
	if order < 2 {
		order = 2
	}
	if order > math.MaxUint32 {
		return 0, newError(Overflow, "computed order %d overflows the supported range", order)
	}
	return order, nil
}

func rhofac(order int) float64 {
	return math.Exp(-2) * math.Exp(-0.7/float64(order-1))
}

func (bi *BatchIntegrator) copyStateToJet(b int) {
	for v := 0; v < bi.nVars; v++ {
		bi.jet.setAt(0, v, b, bi.state[v*bi.batch+b])
	}
}

func (bi *BatchIntegrator) laneState(b int, into []float64) []float64 {
	for v := 0; v < bi.nVars; v++ {
		into[v] = bi.state[v*bi.batch+b]
	}
	return into
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if !isFinite(x) {
			return false
		}
	}
	return true
}

// stepImpl advances every lane by at most maxDeltaT[lane] (sign chooses
// direction, magnitude bounds the step) and reports each lane's outcome,
// actual step, and order used.
func (bi *BatchIntegrator) stepImpl(maxDeltaT []float64) ([]Outcome, []float64, []int, error) {
	batch, nVars := bi.batch, bi.nVars
	outcomes := make([]Outcome, batch)
	hs := make([]float64, batch)
	orders := make([]int, batch)
	good := make([]bool, batch)
	chosenOrder := make([]int, batch)
	rhofacs := make([]float64, batch)
	maxAbs := make([]float64, batch)

	for b := 0; b < batch; b++ {
		if math.IsNaN(maxDeltaT[b]) {
			return nil, nil, nil, newError(InvalidInput, "max_delta_t for lane %d is NaN", b)
		}
	}

	oStar := 0
	anyGood := false
	for b := 0; b < batch; b++ {
		bi.copyStateToJet(b)
		if maxDeltaT[b] == 0 {
			outcomes[b] = TimeLimit
			continue
		}
		bi.laneState(b, bi.scratchLane)
		if !allFinite(bi.scratchLane) {
			outcomes[b] = ErrNonFiniteState
			continue
		}
		m := floats.Norm(bi.scratchLane, math.Inf(1))
		maxAbs[b] = m
		if bi.rtol*m <= bi.atol {
			chosenOrder[b] = bi.orderA
			rhofacs[b] = bi.rhofacA
		} else {
			chosenOrder[b] = bi.orderR
			rhofacs[b] = bi.rhofacR
		}
		good[b] = true
		anyGood = true
		if chosenOrder[b] > oStar {
			oStar = chosenOrder[b]
		}
	}

	if !anyGood {
		copy(bi.lastOutcome, outcomes)
		return outcomes, hs, orders, nil
	}

	for b := 0; b < batch; b++ {
		if !good[b] {
			continue
		}
		if err := bi.engine.FillJet(bi.d, bi.jet, b, oStar, bi.time[b], bi.pars, bi.invOrder); err != nil {
			return nil, nil, nil, err
		}
	}

	for b := 0; b < batch; b++ {
		if !good[b] {
			continue
		}
		ord := chosenOrder[b]
		var do, dom1 float64
		for i := 0; i < nVars; i++ {
			if v := math.Abs(bi.jet.at(ord, i, b)); v > do {
				do = v
			}
			if v := math.Abs(bi.jet.at(ord-1, i, b)); v > dom1 {
				dom1 = v
			}
		}
		if !isFinite(do) || !isFinite(dom1) {
			outcomes[b] = ErrNonFiniteDerivative
			continue
		}
		num := 1.0
		if bi.rtol*maxAbs[b] > bi.atol {
			num = maxAbs[b]
		}
		rhoO := math.Pow(num/do, 1.0/float64(ord))
		rhoOm1 := math.Pow(num/dom1, 1.0/float64(ord-1))
		if math.IsNaN(rhoO) || math.IsNaN(rhoOm1) {
			outcomes[b] = ErrNanRho
			continue
		}
		h := math.Min(rhoO, rhoOm1) * rhofacs[b]
		limit := math.Abs(maxDeltaT[b])
		outcome := Success
		if h > limit {
			h = limit
			outcome = TimeLimit
		}
		if maxDeltaT[b] < 0 {
			h = -h
		}
		outcomes[b] = outcome
		hs[b] = h
		orders[b] = ord
	}

	for b := 0; b < batch; b++ {
		ord := orders[b]
		h := hs[b]
		coeffs := bi.scratchCoeffs[:ord+1]
		for i := 0; i < nVars; i++ {
			for n := 0; n <= ord; n++ {
				coeffs[n] = bi.jet.at(n, i, b)
			}
			bi.state[i*batch+b] = Estrin(coeffs, h)
		}
		bi.time[b] += h
	}

	copy(bi.lastOutcome, outcomes)
	return outcomes, hs, orders, nil
}

// Step advances every lane by as much as its own dynamics allow, with no
// external time bound.
func (bi *BatchIntegrator) Step() ([]Outcome, []float64, []int, error) {
	inf := make([]float64, bi.batch)
	for b := range inf {
		inf[b] = math.Inf(1)
	}
	return bi.stepImpl(inf)
}

// StepBackward is Step in the negative time direction.
func (bi *BatchIntegrator) StepBackward() ([]Outcome, []float64, []int, error) {
	inf := make([]float64, bi.batch)
	for b := range inf {
		inf[b] = math.Inf(-1)
	}
	return bi.stepImpl(inf)
}

// StepMaxDelta advances every lane by at most maxDeltaT[lane].
func (bi *BatchIntegrator) StepMaxDelta(maxDeltaT []float64) ([]Outcome, []float64, []int, error) {
	if len(maxDeltaT) != bi.batch {
		return nil, nil, nil, newError(InvalidInput, "max_delta_t has length %d, want %d", len(maxDeltaT), bi.batch)
	}
	return bi.stepImpl(maxDeltaT)
}

// BatchPropagateResult mirrors the scalar PropagateResult, per lane.
type BatchPropagateResult struct {
	Outcomes []Outcome
	MinH     []float64
	MaxH     []float64
	MinOrder []int
	MaxOrder []int
	NSteps   []int
}

func newBatchPropagateResult(batch int) *BatchPropagateResult {
	r := &BatchPropagateResult{
		Outcomes: make([]Outcome, batch),
		MinH:     make([]float64, batch),
		MaxH:     make([]float64, batch),
		MinOrder: make([]int, batch),
		MaxOrder: make([]int, batch),
		NSteps:   make([]int, batch),
	}
	for b := 0; b < batch; b++ {
		r.MinH[b] = math.Inf(1)
		r.MaxH[b] = math.Inf(-1)
		r.MinOrder[b] = math.MaxInt32
	}
	return r
}

func (bi *BatchIntegrator) propagateToTargets(targets []float64, maxSteps int) (*BatchPropagateResult, error) {
	batch := bi.batch
	res := newBatchPropagateResult(batch)

	active := make([]bool, batch)
	anyActive := false
	for b := 0; b < batch; b++ {
		if targets[b] == bi.time[b] {
			res.Outcomes[b] = TimeLimit
			continue
		}
		active[b] = true
		anyActive = true
	}
	if !anyActive {
		bi.finalizeNoStepLanes(res)
		return res, nil
	}

	for step := 0; ; step++ {
		maxDeltaT := make([]float64, batch)
		for b := 0; b < batch; b++ {
			if !active[b] {
				continue
			}
			delta := targets[b] - bi.time[b]
			if math.IsInf(delta, 0) || math.IsNaN(delta) {
				return nil, newError(Overflow, "propagate: target time overflows for lane %d", b)
			}
			maxDeltaT[b] = delta
		}

		outcomes, hs, orders, err := bi.stepImpl(maxDeltaT)
		if err != nil {
			return nil, err
		}

		allDone := true
		for b := 0; b < batch; b++ {
			if !active[b] {
				continue
			}
			switch outcomes[b] {
			case Success:
				if hs[b] != 0 {
					recordStep(res, b, hs[b], orders[b])
				}
				res.Outcomes[b] = Success
				allDone = false
			case TimeLimit:
				if hs[b] != 0 {
					recordStep(res, b, hs[b], orders[b])
				}
				res.Outcomes[b] = TimeLimit
				active[b] = false
			default:
				res.Outcomes[b] = outcomes[b]
				active[b] = false
			}
		}

		if allDone {
			break
		}
		stillActive := false
		for b := 0; b < batch; b++ {
			if active[b] {
				stillActive = true
			}
		}
		if !stillActive {
			break
		}
		if step+1 >= maxSteps {
			for b := 0; b < batch; b++ {
				if active[b] {
					res.Outcomes[b] = StepLimit
					active[b] = false
				}
			}
			break
		}
	}

	bi.finalizeNoStepLanes(res)
	return res, nil
}

func recordStep(res *BatchPropagateResult, b int, h float64, order int) {
	ah := math.Abs(h)
	if ah < res.MinH[b] {
		res.MinH[b] = ah
	}
	if ah > res.MaxH[b] {
		res.MaxH[b] = ah
	}
	if order < res.MinOrder[b] {
		res.MinOrder[b] = order
	}
	if order > res.MaxOrder[b] {
		res.MaxOrder[b] = order
	}
	res.NSteps[b]++
}

func (bi *BatchIntegrator) finalizeNoStepLanes(res *BatchPropagateResult) {
	for b := 0; b < bi.batch; b++ {
		if res.NSteps[b] == 0 {
			res.MinH[b] = 0
			res.MaxH[b] = 0
			res.MinOrder[b] = 0
			res.MaxOrder[b] = 0
		}
	}
}

// PropagateUntil advances every lane toward the single shared target
// time t, until every lane has reached it or failed, or maxSteps steps
// have been taken. A lane that fails stops on its own; the other lanes
// go on.
func (bi *BatchIntegrator) PropagateUntil(t float64, maxSteps int) (*BatchPropagateResult, error) {
	targets := make([]float64, bi.batch)
	for b := range targets {
		targets[b] = t
	}
	return bi.propagateToTargets(targets, maxSteps)
}

// PropagateFor advances every lane by dt relative to its own current
// time.
func (bi *BatchIntegrator) PropagateFor(dt float64, maxSteps int) (*BatchPropagateResult, error) {
	targets := make([]float64, bi.batch)
	for b := range targets {
		targets[b] = bi.time[b] + dt
	}
	return bi.propagateToTargets(targets, maxSteps)
}

// GetState returns a copy of the current state, laid out state[v*batch+b].
func (bi *BatchIntegrator) GetState() []float64 { return append([]float64(nil), bi.state...) }

// SetState overwrites the state. Rejects a non-finite value or a size
// mismatch; rejects passing bi's own backing slice by reference identity
// (a self-copy is a no-op that would otherwise silently succeed for the
// wrong reason).
func (bi *BatchIntegrator) SetState(state []float64) error {
	if len(state) != len(bi.state) {
		return newError(InvalidInput, "state has length %d, want %d", len(state), len(bi.state))
	}
	if &state[0] == &bi.state[0] {
		return newError(InvalidInput, "SetState called with the integrator's own state slice")
	}
	for i, v := range state {
		if !isFinite(v) {
			return newError(InvalidInput, "state[%d] is not finite: %v", i, v)
		}
	}
	copy(bi.state, state)
	return nil
}

// GetTime returns a copy of the current per-lane time.
func (bi *BatchIntegrator) GetTime() []float64 { return append([]float64(nil), bi.time...) }

// SetTime sets every lane to the same time value.
func (bi *BatchIntegrator) SetTime(t float64) error {
	if !isFinite(t) {
		return newError(InvalidInput, "time is not finite: %v", t)
	}
	for b := range bi.time {
		bi.time[b] = t
	}
	return nil
}

// SetTimes sets each lane's time independently.
func (bi *BatchIntegrator) SetTimes(times []float64) error {
	if len(times) != bi.batch {
		return newError(InvalidInput, "times has length %d, want %d", len(times), bi.batch)
	}
	for i, t := range times {
		if !isFinite(t) {
			return newError(InvalidInput, "times[%d] is not finite: %v", i, t)
		}
	}
	copy(bi.time, times)
	return nil
}

// GetDecomposition exposes the decomposition this integrator was built
// from.
func (bi *BatchIntegrator) GetDecomposition() *expr.Decomposition { return bi.d }

// GetIR renders the decomposition as text, the debugging stand-in for a
// compiled backend's opaque IR dump.
func (bi *BatchIntegrator) GetIR() string {
	var out string
	for i, e := range bi.d.Defs {
		if i > 0 {
			out += "\n"
		}
		out += "u_" + strconv.Itoa(i) + " = " + expr.String(e)
	}
	return out
}

// Batch reports the number of parallel lanes.
func (bi *BatchIntegrator) Batch() int { return bi.batch }

// NVars reports the number of state variables.
func (bi *BatchIntegrator) NVars() int { return bi.nVars }
