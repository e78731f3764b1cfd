package engine

import "math"

// reconcileTolerance is the largest drift between proposed sub-task hours and
// the group total accepted without correction.
const reconcileTolerance = 1e-3

// ReconcileHours forces a proposed list of sub-task hours to sum to
// totalHours. When the proposed sum drifts by more than the tolerance, the
// entire delta lands on the last element; the error is never spread across
// items. The input slice is not modified.
func ReconcileHours(hours []float64, totalHours float64) []float64 {
	if len(hours) == 0 {
		return nil
	}
	out := make([]float64, len(hours))
	copy(out, hours)

	var sum float64
	for _, h := range out {
		sum += h
	}
	if math.Abs(sum-totalHours) > reconcileTolerance {
		out[len(out)-1] += totalHours - sum
	}
	return out
}
