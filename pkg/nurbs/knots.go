package nurbs

// KnotVector builds the clamped uniform knot vector for n control points of the
// given order: order zeros, then 1..n-order, then order copies of n-order+1.
// The result has n+order entries. It returns nil when order is outside [1, n].
func KnotVector(n, order int) []int {
	if order < 1 || order > n {
		return nil
	}

	knots := make([]int, 0, n+order)
	for i := 0; i < order; i++ {
		knots = append(knots, 0)
	}
	for v := 1; v <= n-order; v++ {
		knots = append(knots, v)
	}
	last := n - order + 1
	for i := 0; i < order; i++ {
		knots = append(knots, last)
	}
	return knots
}

// findSpan returns i such that knots[i] <= t < knots[i+1]: the first index whose
// knot exceeds t, minus one. It returns -1 when no knot exceeds t.
func findSpan(knots []int, t float64) int {
	for i := 0; i < len(knots)-1; i++ {
		if float64(knots[i]) > t {
			return i - 1
		}
	}
	return -1
}
