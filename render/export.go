package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spektr-org/worlddash/engine"
	"github.com/spektr-org/worlddash/report"
)

// ============================================================================
// CSV OUTPUT — Section data ready for a spreadsheet
// ============================================================================

// CSV writes a section's chart data, falling back to its first table, then
// to its annotation or error.
func CSV(w io.Writer, sec *report.Section) error {
	cw := csv.NewWriter(w)

	switch {
	case sec.Failed():
		cw.Write([]string{"Section", "Error"})
		cw.Write([]string{string(sec.ID), sec.Err.Error()})
	case sec.Chart != nil && writeChartCSV(cw, sec.Chart):
	case len(sec.Tables) > 0 && writeTableCSV(cw, sec.Tables[0]):
	default:
		cw.Write([]string{"Summary", "Value"})
		cw.Write([]string{sec.Annotation.String(), ""})
	}

	cw.Flush()
	return cw.Error()
}

// ReportCSV writes every section back to back, each preceded by its header.
func ReportCSV(w io.Writer, rep *report.Report) error {
	for i, sec := range rep.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# %s\n", sec.Header)
		if err := CSV(w, sec); err != nil {
			return err
		}
	}
	return nil
}

func writeChartCSV(cw *csv.Writer, chart *engine.ChartConfig) bool {
	if len(chart.Series) == 0 {
		return false
	}

	xLabel := chart.XAxis
	if chart.ChartType == engine.ChartBarH {
		xLabel = chart.YAxis
	}
	if xLabel == "" {
		xLabel = "Label"
	}

	// Single series → two columns
	if len(chart.Series) == 1 {
		cw.Write([]string{xLabel, chart.Series[0].Name})
		for _, d := range chart.Series[0].Data {
			cw.Write([]string{d.Label, fmtNum(d.Value)})
		}
		return true
	}

	// Multi-series → label + one column per series
	headers := []string{xLabel}
	for _, s := range chart.Series {
		headers = append(headers, s.Name)
	}
	cw.Write(headers)

	for i, d := range chart.Series[0].Data {
		row := []string{d.Label}
		for _, s := range chart.Series {
			if i < len(s.Data) {
				row = append(row, fmtNum(s.Data[i].Value))
			} else {
				row = append(row, "")
			}
		}
		cw.Write(row)
	}
	return true
}

func writeTableCSV(cw *csv.Writer, table *engine.TableData) bool {
	if len(table.Columns) == 0 {
		return false
	}
	cw.Write(table.Headers())
	for _, row := range table.Rows {
		cw.Write(row)
	}
	return true
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

// JSON writes v as JSON, indented when pretty.
func JSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// ============================================================================
// HELPERS
// ============================================================================

func fmtNum(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
