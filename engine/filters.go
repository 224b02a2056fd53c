package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// FILTERS — Row selection and ordering via RecordView
// ============================================================================
// Every function returns a SubView (index list into parent) — zero data copy.
// ============================================================================

// ApplyFilters returns a view of records matching all dimension filters.
// Dimensions are AND-combined; values within a dimension are OR-combined.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for dim, set := range sets {
			if !set[strings.ToLower(view.Dimension(i, dim))] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// DropMissing returns the rows whose listed dimensions are all non-empty.
// Grouping on a missing key never forms a group of its own.
func DropMissing(view RecordView, dimensions ...string) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		keep := true
		for _, dim := range dimensions {
			if strings.TrimSpace(view.Dimension(i, dim)) == "" {
				keep = false
				break
			}
		}
		if keep {
			indices = append(indices, i)
		}
	}
	if len(indices) == n {
		return view
	}
	return newSubView(view, indices)
}

// SortKey names a column to order by.
// Measures compare numerically; dimensions compare numerically when both
// values parse as numbers, otherwise as strings.
type SortKey struct {
	Key        string
	Descending bool
}

// SortBy returns view reordered by keys. The sort is stable; missing values
// go last regardless of direction.
func SortBy(view RecordView, keys ...SortKey) RecordView {
	n := view.Len()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	measure := make([]bool, len(keys))
	for k, key := range keys {
		measure[k] = IsMeasure(view, key.Key)
	}

	sort.SliceStable(indices, func(a, b int) bool {
		ia, ib := indices[a], indices[b]
		for k, key := range keys {
			var c int
			if measure[k] {
				c = compareFloat(view.Measure(ia, key.Key), view.Measure(ib, key.Key))
			} else {
				c = compareDimension(view.Dimension(ia, key.Key), view.Dimension(ib, key.Key))
			}
			if c == 0 {
				continue
			}
			if key.Descending && c != missingLast && c != -missingLast {
				c = -c
			}
			return c < 0
		}
		return false
	})

	return newSubView(view, indices)
}

// missingLast is returned by the comparators when exactly one side is missing,
// so that descending order does not flip it to the front.
const missingLast = 2

func compareFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return missingLast
	case bn:
		return -missingLast
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareDimension(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return missingLast
	case b == "":
		return -missingLast
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return compareFloat(fa, fb)
	}
	return strings.Compare(a, b)
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
