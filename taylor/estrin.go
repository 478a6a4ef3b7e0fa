package taylor

// Estrin evaluates the polynomial sum(coeffs[i] * h^i) via Estrin's
// scheme: pair-reduce adjacent terms with the current power of h, then
// square h for the next round, in ceil(log2(len(coeffs))) rounds instead
// of a serial Horner recurrence. An odd tail element passes through a
// round unmultiplied and is correctly combined at the next round's
// higher power of h.
func Estrin(coeffs []float64, h float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	cur := append([]float64(nil), coeffs...)
	step := h
	for len(cur) > 1 {
		next := make([]float64, (len(cur)+1)/2)
		for i := range next {
			lo := cur[2*i]
			if 2*i+1 < len(cur) {
				next[i] = lo + step*cur[2*i+1]
			} else {
				next[i] = lo
			}
		}
		cur = next
		step *= step
	}
	return cur[0]
}
