package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// Grouping produces SubViews (index lists into parent view).
// Missing measures (NaN) are skipped by every aggregation except count.
// ============================================================================

// Aggregations.
const (
	AggMean  = "mean"
	AggSum   = "sum"
	AggCount = "count"
	AggMax   = "max"
	AggMin   = "min"
)

// Sort modes.
const (
	SortValueDesc = "value_desc"
	SortValueAsc  = "value_asc"
	SortLabelAsc  = "label_asc"
	SortLabelDesc = "label_desc"
)

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Pipeline: group → aggregate → sort → limit.
// Rows with an empty groupBy value are not grouped.
func GroupAndAggregate(
	view RecordView,
	groupBy string,
	measure string,
	aggregation string,
	sortBy string,
	limit int,
) []Group {
	if view.Len() == 0 {
		return nil
	}

	var groups []Group
	if groupBy == "" {
		groups = []Group{{Key: "all", Label: "Total", View: view}}
	} else {
		groups = groupBySingle(view, groupBy)
	}

	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
	}

	SortGroups(groups, sortBy)

	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string) []Group {
	view = DropMissing(view, dimension)
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()
	if group.Count == 0 {
		group.Value = math.NaN()
		return
	}

	switch aggregation {
	case AggCount:
		group.Value = float64(group.Count)
	case AggSum:
		group.Value = SumMeasure(group.View, measure)
	case AggMax:
		group.Value = MaxMeasure(group.View, measure)
	case AggMin:
		group.Value = MinMeasure(group.View, measure)
	default:
		group.Value = MeanMeasure(group.View, measure)
	}
}

// SumMeasure sums the non-missing values of a measure.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		if v := view.Measure(i, measure); !math.IsNaN(v) {
			total += v
		}
	}
	return total
}

// MeanMeasure averages the non-missing values of a measure.
// Returns NaN when no value is present.
func MeanMeasure(view RecordView, measure string) float64 {
	var total float64
	n := 0
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		total += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return total / float64(n)
}

// MaxMeasure returns the largest non-missing value, NaN if none.
func MaxMeasure(view RecordView, measure string) float64 {
	m := math.NaN()
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(m) || v > m {
			m = v
		}
	}
	return m
}

// MinMeasure returns the smallest non-missing value, NaN if none.
func MinMeasure(view RecordView, measure string) float64 {
	m := math.NaN()
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(m) || v < m {
			m = v
		}
	}
	return m
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts aggregate groups by the specified sort mode.
// NaN values sort last for both value orders. The sort is stable.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case SortValueDesc:
		sort.SliceStable(groups, func(i, j int) bool { return valueLess(groups[j].Value, groups[i].Value, groups[i].Value) })
	case SortValueAsc:
		sort.SliceStable(groups, func(i, j int) bool { return valueLess(groups[i].Value, groups[j].Value, groups[i].Value) })
	case SortLabelAsc:
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Label) < strings.ToLower(groups[j].Label) })
	case SortLabelDesc:
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Label) > strings.ToLower(groups[j].Label) })
	default:
		// preserve grouping order
	}
}

// valueLess reports lo < hi for sorting, where lead is the element being
// placed. A NaN lead never moves ahead; a NaN opponent always falls behind.
func valueLess(lo, hi, lead float64) bool {
	if math.IsNaN(lead) {
		return false
	}
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return true
	}
	return lo < hi
}

// DropNaN returns the groups whose value is a number.
func DropNaN(groups []Group) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if !math.IsNaN(g.Value) && !math.IsInf(g.Value, 0) {
			out = append(out, g)
		}
	}
	return out
}

// TopGroup returns the group with the largest non-NaN value.
// Ties resolve to the first occurrence.
func TopGroup(groups []Group) (Group, bool) {
	best := -1
	for i, g := range groups {
		if math.IsNaN(g.Value) {
			continue
		}
		if best < 0 || g.Value > groups[best].Value {
			best = i
		}
	}
	if best < 0 {
		return Group{}, false
	}
	return groups[best], true
}

// Overlap returns the labels present in both a and b, in a's order.
func Overlap(a, b []Group) []string {
	inB := make(map[string]bool, len(b))
	for _, g := range b {
		inB[g.Label] = true
	}
	var out []string
	for _, g := range a {
		if inB[g.Label] {
			out = append(out, g.Label)
		}
	}
	return out
}

// Head returns at most n groups.
func Head(groups []Group, n int) []Group {
	if n <= 0 || len(groups) <= n {
		return groups
	}
	return groups[:n]
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// RoundTo rounds v to the given number of decimals. NaN passes through.
func RoundTo(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// FormatFloat formats v with fixed decimals; missing values render as "—".
func FormatFloat(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

// FormatPercent formats v as a percentage with two decimals.
func FormatPercent(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}
