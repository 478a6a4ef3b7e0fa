package taylor

import "math"

// Jet is the dense contiguous Taylor-coefficient buffer: shape
// (maxOrder+1, entries, batch), order-major then decomposition entry
// then batch lane, exactly the layout spec §3 describes for the public
// per-variable jet, generalized here to cover every decomposition entry
// (state variables, elementary middle ops, and the tail) since the
// interpreter needs somewhere to hold every u_k's coefficients, not just
// the state variables it ultimately reports.
type Jet struct {
	maxOrder int
	entries  int
	batch    int
	buf      []float64
}

// newJet allocates a jet sized (maxOrder+1)*entries*batch, rejecting a
// size that overflows the supported range rather than letting it wrap or
// panic inside make.
func newJet(maxOrder, entries, batch int) (*Jet, error) {
	size := int64(maxOrder+1) * int64(entries) * int64(batch)
	if size > math.MaxUint32 {
		return nil, newError(Overflow, "jet size %d ((maxOrder+1)*entries*batch) overflows the supported range", size)
	}
	return &Jet{
		maxOrder: maxOrder,
		entries:  entries,
		batch:    batch,
		buf:      make([]float64, size),
	}, nil
}

func (j *Jet) index(order, entry, lane int) int {
	return order*j.entries*j.batch + entry*j.batch + lane
}

// at returns the order-th normalized coefficient of decomposition entry
// entry for lane.
func (j *Jet) at(order, entry, lane int) float64 { return j.buf[j.index(order, entry, lane)] }

func (j *Jet) setAt(order, entry, lane int, v float64) { j.buf[j.index(order, entry, lane)] = v }

// MaxOrder is the highest order this jet was allocated to hold.
func (j *Jet) MaxOrder() int { return j.maxOrder }

// Entries is the number of decomposition entries this jet has a row for.
func (j *Jet) Entries() int { return j.entries }

// Batch is the number of lanes this jet was allocated for.
func (j *Jet) Batch() int { return j.batch }

// laneCoeffs adapts a single lane of a Jet to expr.Coeffs, letting the
// interpreter engine drive expr.Recurrence one lane at a time without the
// expr package needing to know about batching at all.
type laneCoeffs struct {
	jet  *Jet
	lane int
}

func (c laneCoeffs) Get(u, n int) float64    { return c.jet.at(n, u, c.lane) }
func (c laneCoeffs) Set(u, n int, v float64) { c.jet.setAt(n, u, c.lane, v) }
