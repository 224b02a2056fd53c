package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from Groups or raw rows
// ============================================================================

// BuildRankingTable produces a two-column ranking table (label, value) with a
// leading rank column, in the order the groups are given.
func BuildRankingTable(title, labelHeader, valueHeader string, groups []Group, precision int) *TableData {
	columns := []Column{
		{Key: "rank", Label: "#", Type: "number", Align: "right"},
		{Key: "label", Label: labelHeader, Type: "text", Align: "left"},
		{Key: "value", Label: valueHeader, Type: "number", Align: "right"},
	}

	rows := make([][]string, 0, len(groups))
	for i, g := range groups {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			g.Label,
			FormatFloat(g.Value, precision),
		})
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
	}
}

// BuildListTable produces a single-column table of labels.
func BuildListTable(title, header string, labels []string) *TableData {
	rows := make([][]string, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, []string{l})
	}
	return &TableData{
		Title:   title,
		Columns: []Column{{Key: "label", Label: header, Type: "text", Align: "left"}},
		Rows:    rows,
	}
}

// BuildPreviewTable renders the first n rows of view. With no columns given,
// every dimension then every measure is shown.
func BuildPreviewTable(title string, view RecordView, columns []string, n int) *TableData {
	if len(columns) == 0 {
		columns = append(append(columns, view.DimensionKeys()...), view.MeasureKeys()...)
	}

	measure := make(map[string]bool)
	for _, k := range view.MeasureKeys() {
		measure[k] = true
	}

	cols := make([]Column, 0, len(columns))
	for _, key := range columns {
		col := Column{Key: key, Label: key, Type: "text", Align: "left"}
		if measure[key] {
			col.Type, col.Align = "number", "right"
		}
		cols = append(cols, col)
	}

	if n <= 0 || n > view.Len() {
		n = view.Len()
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, 0, len(columns))
		for _, key := range columns {
			if measure[key] {
				row = append(row, formatCell(view.Measure(i, key)))
			} else {
				row = append(row, view.Dimension(i, key))
			}
		}
		rows = append(rows, row)
	}

	return &TableData{Title: title, Columns: cols, Rows: rows}
}

// formatCell prints whole numbers without decimals and keeps up to four
// otherwise; missing cells are blank.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.4g", v)
}
