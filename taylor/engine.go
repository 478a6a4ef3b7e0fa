package taylor

import "github.com/adriftlabs/taylorint/expr"

// DerivativeEngine fills one lane of a Jet with every decomposition
// entry's normalized Taylor coefficients from order 0 through order,
// given the lane's current state already written into the jet's state
// rows at order 0 and the integrator's precomputed 1/n table. This is
// the boundary a JIT/codegen backend occupies in the source; the only
// implementation shipped here is an interpreter that walks the
// decomposition directly, correct but not specialized to any
// floating-point width or instruction set.
type DerivativeEngine interface {
	FillJet(d *expr.Decomposition, j *Jet, lane, order int, t0 float64, pars, invOrder []float64) error
}

type interpreterEngine struct{}

// NewInterpreterEngine returns the reference DerivativeEngine.
func NewInterpreterEngine() DerivativeEngine { return interpreterEngine{} }

func (interpreterEngine) FillJet(d *expr.Decomposition, j *Jet, lane, order int, t0 float64, pars, invOrder []float64) error {
	c := laneCoeffs{jet: j, lane: lane}
	nEq := d.NEq
	m := len(d.U)

	for n := 0; n <= order; n++ {
		if n > 0 {
			// x_i^[n] = f_i^[n-1] / n, the classical relation turning
			// the decomposed right-hand side into the state's own next
			// Taylor coefficient. The tail region (the decomposed RHS)
			// occupies the last nEq entries of U.
			for i := 0; i < nEq; i++ {
				tailIdx := m - nEq + i
				j.setAt(n, i, lane, j.at(n-1, tailIdx, lane)*invOrder[n])
			}
		}
		for u := nEq; u < m; u++ {
			if err := expr.Recurrence(d, u, n, c, t0, pars); err != nil {
				return err
			}
		}
	}
	return nil
}
