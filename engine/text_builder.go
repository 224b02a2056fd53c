package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// TEXT BUILDER — Highlight statements for charts
// ============================================================================

// BuildHighlight describes the leading group of a ranking:
//
//	🌟 Top Country: Equatorial Guinea · Avg GDP Growth: 21.45%
//
// Returns nil when every group is NaN.
func BuildHighlight(label, metric string, groups []Group, percent bool) *TextData {
	top, ok := TopGroup(groups)
	if !ok {
		return nil
	}

	value := FormatFloat(top.Value, 2)
	if percent {
		value = FormatPercent(top.Value)
	}

	return &TextData{
		Label:    label,
		Subject:  top.Label,
		Metric:   metric,
		Value:    value,
		RawValue: top.Value,
		Count:    top.Count,
	}
}

// ============================================================================
// PERIOD HELPER
// ============================================================================

// DerivePeriod builds a "first–last" span from a numeric period measure,
// e.g. "1960–2018". Returns "All time" when no period value exists.
func DerivePeriod(view RecordView, periodKey string) string {
	lo, hi := MinMeasure(view, periodKey), MaxMeasure(view, periodKey)
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return "All time"
	}
	if lo == hi {
		return fmt.Sprintf("%.0f", lo)
	}
	return fmt.Sprintf("%.0f–%.0f", lo, hi)
}
