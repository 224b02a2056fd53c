package engine

import "math"

// ============================================================================
// GROWTH — Derived per-row measures
// ============================================================================
// Each function returns a slice aligned with the view's row order, ready to be
// attached with WithMeasure. Missing inputs produce NaN outputs.
// ============================================================================

// PctChange computes, for each row, the percent change of measure against the
// previous row of the same group in view order:
//
//	(v - prev) / prev * 100
//
// Sort the view by group and period first. Within a group a missing value is
// padded with the group's last known value, so a gap contributes a 0% year
// and the following year grows from the padded value. Values before a group's
// first known value stay missing. The first row of each group and prev == 0
// yield NaN. Rows with no group value belong to no group.
func PctChange(view RecordView, groupDim, measure string) []float64 {
	n := view.Len()
	out := make([]float64, n)
	// padded value of the group's previous row; NaN until the first known value
	last := make(map[string]float64, 64)

	for i := 0; i < n; i++ {
		out[i] = math.NaN()
		key := view.Dimension(i, groupDim)
		if key == "" {
			continue
		}
		prev, seen := last[key]
		cur := view.Measure(i, measure)
		if math.IsNaN(cur) && seen {
			cur = prev
		}
		last[key] = cur
		if !seen || math.IsNaN(cur) || math.IsNaN(prev) || prev == 0 {
			continue
		}
		out[i] = (cur - prev) / prev * 100
	}
	return out
}

// Ratio divides num by den per row. A missing operand or zero denominator
// yields NaN.
func Ratio(view RecordView, num, den string) []float64 {
	n := view.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		a, b := view.Measure(i, num), view.Measure(i, den)
		if math.IsNaN(a) || math.IsNaN(b) || b == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = a / b
	}
	return out
}

// Difference computes a - b per row, NaN when either side is missing.
func Difference(view RecordView, a, b string) []float64 {
	n := view.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = view.Measure(i, a) - view.Measure(i, b)
	}
	return out
}
