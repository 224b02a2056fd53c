package engine

import (
	"encoding/json"
	"math"
)

// ============================================================================
// WORLDDASH ENGINE TYPES — Tabular records and render-ready payloads
// ============================================================================
// Record carries one source row. Builders turn aggregated Groups into
// ChartConfig / TableData / TextData that renderers draw without recomputing.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// A measure key that is absent from Measures is missing (NaN when read
// through a RecordView).
//
//	Record{Dimensions["Country Name"]="Kenya", Measures["GDP (USD)"]=1.1e11}
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// NewRecord returns a Record with both maps allocated.
func NewRecord() Record {
	return Record{
		Dimensions: make(map[string]string),
		Measures:   make(map[string]float64),
	}
}

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions" yaml:"dimensions"`
}

// HasFilter returns true if a specific dimension filter is set.
func (f Filters) HasFilter(dimension string) bool {
	if f.Dimensions == nil {
		return false
	}
	vals, ok := f.Dimensions[dimension]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
// Value is NaN when every row of the group was missing the measure.
type Group struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	View  RecordView `json:"-"`
}

// MarshalJSON writes a missing value as null.
func (g Group) MarshalJSON() ([]byte, error) {
	type alias Group
	return json.Marshal(struct {
		alias
		Value *float64 `json:"value"`
	}{alias(g), nullable(g.Value)})
}

// ============================================================================
// CHART TYPES
// ============================================================================

// Chart types understood by the renderers.
const (
	ChartBar      = "bar"  // vertical bars, one or more series
	ChartBarH     = "hbar" // horizontal bars, label axis reversed (first on top)
	ChartDonut    = "donut"
	defaultSeries = "Value"
)

// ChartSpec describes the chart a section wants built from its groups.
type ChartSpec struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	XAxis      string `json:"xAxis,omitempty"`
	YAxis      string `json:"yAxis,omitempty"`
	SeriesName string `json:"seriesName,omitempty"`
	Precision  int    `json:"precision"`           // decimals kept on point values
	Limit      int    `json:"limit,omitempty"`     // 0 = all groups
	Highlight  int    `json:"highlight,omitempty"` // index of the emphasised point, -1 for none
	CenterText string `json:"centerText,omitempty"`
	Diverging  bool   `json:"diverging,omitempty"` // color by sign (correlations)
}

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
	Highlight  int           `json:"highlight"`
	CenterText string        `json:"centerText,omitempty"`
	Diverging  bool          `json:"diverging,omitempty"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MarshalJSON writes a missing value as null.
func (p ChartPoint) MarshalJSON() ([]byte, error) {
	type alias ChartPoint
	return json.Marshal(struct {
		alias
		Value *float64 `json:"value"`
	}{alias(p), nullable(p.Value)})
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "percent"
	Align string `json:"align"` // "left", "right"
}

// Headers returns the column labels in order.
func (t *TableData) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// TextData is a short highlighted statement attached to a chart,
// e.g. the leading country of a growth ranking.
type TextData struct {
	Label    string  `json:"label"`    // "Top Country"
	Subject  string  `json:"subject"`  // "Equatorial Guinea"
	Metric   string  `json:"metric"`   // "Avg GDP Growth"
	Value    string  `json:"value"`    // "21.45%"
	RawValue float64 `json:"rawValue"` // 21.4512
	Count    int     `json:"count"`    // rows behind the value
}

// String renders the statement on a single line.
func (t *TextData) String() string {
	if t == nil {
		return ""
	}
	return "🌟 " + t.Label + ": " + t.Subject + " · " + t.Metric + ": " + t.Value
}
