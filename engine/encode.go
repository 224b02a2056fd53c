package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ============================================================================
// ENCODING — Feature matrix with one-hot categoricals
// ============================================================================
// Numeric measures are kept as-is (missing → fill value), categorical
// dimensions expand into 0/1 indicator columns named "<column>_<category>".
// Columns are stored column-major so correlation can read them directly.
// ============================================================================

// ErrMissingColumn is returned when a required column is absent from a view.
var ErrMissingColumn = errors.New("missing column")

// Features is a dense numeric matrix with named columns.
type Features struct {
	Columns []string    `json:"columns"`
	Data    [][]float64 `json:"-"` // Data[c][r]
	Rows    int         `json:"rows"`
}

// Column returns the values of a named column.
func (f *Features) Column(name string) ([]float64, bool) {
	for i, c := range f.Columns {
		if c == name {
			return f.Data[i], true
		}
	}
	return nil, false
}

// OneHot encodes values into indicator columns. Categories are sorted; with
// dropFirst the first category gets no column. Empty values are missing and
// produce a row of zeros, so every row sums to at most 1.
func OneHot(values []string, prefix string, dropFirst bool) ([]string, [][]float64) {
	seen := make(map[string]bool)
	var cats []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		cats = append(cats, v)
	}
	sort.Strings(cats)
	if dropFirst && len(cats) > 0 {
		cats = cats[1:]
	}

	index := make(map[string]int, len(cats))
	names := make([]string, len(cats))
	data := make([][]float64, len(cats))
	for i, c := range cats {
		index[c] = i
		names[i] = prefix + "_" + c
		data[i] = make([]float64, len(values))
	}
	for r, v := range values {
		if c, ok := index[v]; ok {
			data[c][r] = 1
		}
	}
	return names, data
}

// FeatureMatrix builds the numeric matrix used for correlation analysis.
//
// Steps: drop listed columns → fill missing measures → one-hot every
// remaining dimension. Measures come first in source order, indicator
// columns follow.
func FeatureMatrix(view RecordView, opts ...Option) (*Features, error) {
	cfg := applyOptions(opts)

	drop := make(map[string]bool, len(cfg.Drop))
	var missing []string
	for _, col := range cfg.Drop {
		if !HasColumn(view, col) {
			missing = append(missing, col)
		}
		drop[col] = true
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	for col := range cfg.Exclude {
		drop[col] = true
	}

	n := view.Len()
	f := &Features{Rows: n}

	for _, key := range view.MeasureKeys() {
		if drop[key] {
			continue
		}
		col := make([]float64, n)
		for i := 0; i < n; i++ {
			v := view.Measure(i, key)
			if math.IsNaN(v) {
				v = cfg.FillValue
			}
			col[i] = v
		}
		f.Columns = append(f.Columns, key)
		f.Data = append(f.Data, col)
	}

	for _, key := range view.DimensionKeys() {
		if drop[key] {
			continue
		}
		values := make([]string, n)
		for i := 0; i < n; i++ {
			values[i] = strings.TrimSpace(view.Dimension(i, key))
		}
		names, data := OneHot(values, key, cfg.DropFirst)
		f.Columns = append(f.Columns, names...)
		f.Data = append(f.Data, data...)
	}

	if len(f.Columns) == 0 {
		return nil, errors.New("no feature columns left after dropping identifiers")
	}
	return f, nil
}
