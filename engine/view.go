package engine

import (
	"math"
	"sort"
)

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// Sections read the source tables through this interface and never copy rows.
//
// Implementations:
//   SliceView   — wraps []Record as loaded from xlsx / csv
//   SubView     — filtered or reordered subset (indices into parent)
//   DerivedView — parent plus one computed measure column
// ============================================================================

// RecordView provides indexed access to a dataset.
// Measure returns NaN when the row has no value for key.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string // available dimension keys, source column order
	MeasureKeys() []string   // available measure keys, source column order
}

// HasColumn reports whether key is a dimension or measure of view.
func HasColumn(view RecordView, key string) bool {
	return IsDimension(view, key) || IsMeasure(view, key)
}

// IsMeasure reports whether key is one of view's measure keys.
func IsMeasure(view RecordView, key string) bool {
	for _, k := range view.MeasureKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// IsDimension reports whether key is one of view's dimension keys.
func IsDimension(view RecordView, key string) bool {
	for _, k := range view.DimensionKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// ============================================================================
// SLICE VIEW — wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	dimKeys []string
	mesKeys []string
}

// NewSliceView creates a RecordView from records, discovering keys from the
// rows themselves. Keys are sorted since map order carries no column order.
func NewSliceView(records []Record) RecordView {
	v := &SliceView{records: records}
	v.cacheKeys()
	return v
}

// NewSliceViewWithKeys creates a RecordView with an explicit column order,
// normally the header order of the source file.
func NewSliceViewWithKeys(records []Record, dimKeys, mesKeys []string) RecordView {
	return &SliceView{records: records, dimKeys: dimKeys, mesKeys: mesKeys}
}

func (v *SliceView) cacheKeys() {
	dimSeen := make(map[string]bool)
	mesSeen := make(map[string]bool)
	for _, r := range v.records {
		for k := range r.Dimensions {
			if !dimSeen[k] {
				dimSeen[k] = true
				v.dimKeys = append(v.dimKeys, k)
			}
		}
		for k := range r.Measures {
			if !mesSeen[k] {
				mesSeen[k] = true
				v.mesKeys = append(v.mesKeys, k)
			}
		}
	}
	sort.Strings(v.dimKeys)
	sort.Strings(v.mesKeys)
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	return v.records[i].Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.records) {
		return math.NaN()
	}
	val, ok := v.records[i].Measures[key]
	if !ok {
		return math.NaN()
	}
	return val
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }

// ============================================================================
// SUB VIEW — filtered / reordered subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView in a possibly different order.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return math.NaN()
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DERIVED VIEW — parent plus one computed measure
// ============================================================================

// DerivedView exposes a computed measure column on top of its parent.
// values is aligned with the parent's row order.
type DerivedView struct {
	parent  RecordView
	key     string
	values  []float64
	mesKeys []string
}

// WithMeasure returns a view of parent with an extra measure column.
// If key already exists on parent it is shadowed. A short values slice
// leaves the remaining rows missing.
func WithMeasure(parent RecordView, key string, values []float64) RecordView {
	keys := make([]string, 0, len(parent.MeasureKeys())+1)
	for _, k := range parent.MeasureKeys() {
		if k != key {
			keys = append(keys, k)
		}
	}
	keys = append(keys, key)
	return &DerivedView{parent: parent, key: key, values: values, mesKeys: keys}
}

func (v *DerivedView) Len() int { return v.parent.Len() }

func (v *DerivedView) Dimension(i int, key string) string { return v.parent.Dimension(i, key) }

func (v *DerivedView) Measure(i int, key string) float64 {
	if key != v.key {
		return v.parent.Measure(i, key)
	}
	if i < 0 || i >= len(v.values) {
		return math.NaN()
	}
	return v.values[i]
}

func (v *DerivedView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *DerivedView) MeasureKeys() []string   { return v.mesKeys }

// ============================================================================
// DIMENSION OVERRIDE VIEW — remapped categorical column
// ============================================================================

// RemapView exposes a dimension whose values are translated through a map.
// Values with no entry become empty (missing).
type RemapView struct {
	parent  RecordView
	key     string
	mapping map[string]string
}

// Remap returns a view of parent where dimension key is translated via mapping.
func Remap(parent RecordView, key string, mapping map[string]string) RecordView {
	return &RemapView{parent: parent, key: key, mapping: mapping}
}

func (v *RemapView) Len() int { return v.parent.Len() }

func (v *RemapView) Dimension(i int, key string) string {
	val := v.parent.Dimension(i, key)
	if key != v.key {
		return val
	}
	return v.mapping[val]
}

func (v *RemapView) Measure(i int, key string) float64 { return v.parent.Measure(i, key) }
func (v *RemapView) DimensionKeys() []string           { return v.parent.DimensionKeys() }
func (v *RemapView) MeasureKeys() []string             { return v.parent.MeasureKeys() }
