package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regionRecord(region string, delta float64) Record {
	r := NewRecord()
	r.Dimensions["region"] = region
	if !math.IsNaN(delta) {
		r.Measures["delta"] = delta
	}
	return r
}

func regionView() RecordView {
	return NewSliceView([]Record{
		regionRecord("South Asia", 0.10),
		regionRecord("South Asia", 0.20),
		regionRecord("Arab States", 0.05),
		regionRecord("", 0.90),
		regionRecord("Arab States", math.NaN()),
		regionRecord("Europe", math.NaN()),
		regionRecord("Sub-Saharan Africa", 0.30),
	})
}

func TestGroupMeanIsArithmeticMeanOfMappedRows(t *testing.T) {
	groups := GroupAndAggregate(regionView(), "region", "delta", AggMean, SortValueDesc, 0)
	require.Len(t, groups, 4, "empty region is not a group")

	assert.Equal(t, "Sub-Saharan Africa", groups[0].Label)
	assert.InDelta(t, 0.30, groups[0].Value, 1e-12)
	assert.Equal(t, "South Asia", groups[1].Label)
	assert.InDelta(t, (0.10+0.20)/2, groups[1].Value, 1e-12)
	assert.Equal(t, "Arab States", groups[2].Label)
	assert.InDelta(t, 0.05, groups[2].Value, 1e-12, "missing values are skipped")
	assert.Equal(t, 2, groups[2].Count)
	assert.Equal(t, "Europe", groups[3].Label)
	assert.True(t, math.IsNaN(groups[3].Value), "all-missing group is NaN and sorts last")
}

func TestGroupAndAggregateLimit(t *testing.T) {
	groups := GroupAndAggregate(regionView(), "region", "delta", AggMean, SortValueDesc, 2)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"Sub-Saharan Africa", "South Asia"}, []string{groups[0].Label, groups[1].Label})
}

func TestGroupAndAggregateOtherAggregations(t *testing.T) {
	view := regionView()
	sum := GroupAndAggregate(view, "region", "delta", AggSum, SortLabelAsc, 0)
	assert.Equal(t, "Arab States", sum[0].Label)
	assert.InDelta(t, 0.05, sum[0].Value, 1e-12)

	count := GroupAndAggregate(view, "region", "delta", AggCount, SortValueDesc, 1)
	assert.Equal(t, 2.0, count[0].Value)

	maxG := GroupAndAggregate(view, "region", "delta", AggMax, SortLabelDesc, 0)
	assert.Equal(t, "Sub-Saharan Africa", maxG[0].Label)

	total := GroupAndAggregate(view, "", "delta", AggMin, "", 0)
	require.Len(t, total, 1)
	assert.InDelta(t, 0.05, total[0].Value, 1e-12)
}

func TestSortGroupsAscendingKeepsNaNLast(t *testing.T) {
	groups := []Group{
		{Label: "a", Value: math.NaN()},
		{Label: "b", Value: 3},
		{Label: "c", Value: -1},
	}
	SortGroups(groups, SortValueAsc)
	assert.Equal(t, "c", groups[0].Label)
	assert.Equal(t, "b", groups[1].Label)
	assert.Equal(t, "a", groups[2].Label)
}

func TestTopGroupAndOverlap(t *testing.T) {
	a := []Group{{Label: "Qatar", Value: 9}, {Label: "Chad", Value: 12}, {Label: "Oman", Value: math.NaN()}}
	b := []Group{{Label: "Oman", Value: 4}, {Label: "Chad", Value: 3}}

	top, ok := TopGroup(a)
	require.True(t, ok)
	assert.Equal(t, "Chad", top.Label)

	assert.Equal(t, []string{"Chad", "Oman"}, Overlap(a, b))
	assert.Empty(t, Overlap(a[:1], b))

	_, ok = TopGroup([]Group{{Value: math.NaN()}})
	assert.False(t, ok)
}

func TestDropMissingAndFilters(t *testing.T) {
	view := regionView()
	assert.Equal(t, 6, DropMissing(view, "region").Len())

	total := 0
	for _, g := range GroupAndAggregate(view, "region", "delta", AggCount, "", 0) {
		assert.NotEmpty(t, g.Key)
		total += g.Count
	}
	assert.Equal(t, 6, total, "rows without a region form no group")

	filtered := ApplyFilters(view, Filters{Dimensions: map[string][]string{"region": {"south asia", "Europe"}}})
	assert.Equal(t, 3, filtered.Len())
	assert.Equal(t, view, ApplyFilters(view, Filters{}))
}

func TestSortByDescendingKeepsMissingLast(t *testing.T) {
	sorted := SortBy(regionView(), SortKey{Key: "delta", Descending: true})
	assert.InDelta(t, 0.90, sorted.Measure(0, "delta"), 1e-12)
	assert.True(t, math.IsNaN(sorted.Measure(sorted.Len()-1, "delta")))
	assert.True(t, math.IsNaN(sorted.Measure(sorted.Len()-2, "delta")))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "12.35%", FormatPercent(12.345678))
	assert.Equal(t, "—", FormatPercent(math.NaN()))
	assert.Equal(t, "0.123", FormatFloat(0.12345, 3))
	assert.Equal(t, 0.123, RoundTo(0.12345, 3))
	assert.Equal(t, "1,234,567", FormatInt(1234567))
}
