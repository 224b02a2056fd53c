package helpers

import (
	"strings"

	"github.com/spektr-org/worlddash/engine"
	"github.com/spektr-org/worlddash/schema"
)

// ============================================================================
// RECORDS — Converts raw rows into []engine.Record
// ============================================================================
// Loaders read the file however suits its format, then hand header + rows
// here. Measures that fail to parse are left out of the record (missing);
// null markers in dimension columns become "".
// ============================================================================

// Table is one loaded source: its records plus the discovered schema.
type Table struct {
	Name    string
	Path    string
	Records []engine.Record
	Schema  *schema.Config
}

// View returns a RecordView over the table with keys in source order.
func (t *Table) View() engine.RecordView {
	return engine.NewSliceViewWithKeys(t.Records, t.Schema.DimensionKeys(), t.Schema.MeasureKeys())
}

// ParseRows converts rows into Records using sch for classification.
// Columns the schema does not know are skipped.
func ParseRows(headers []string, rows [][]string, sch *schema.Config) []engine.Record {
	type colMapping struct {
		key       string
		isMeasure bool
		known     bool
	}

	dimSet := make(map[string]bool, len(sch.Dimensions))
	for _, d := range sch.Dimensions {
		dimSet[d.Key] = true
	}

	mappings := make([]colMapping, len(headers))
	for i, h := range headers {
		key := strings.TrimSpace(h)
		switch {
		case sch.IsMeasure(key):
			mappings[i] = colMapping{key: key, isMeasure: true, known: true}
		case dimSet[key]:
			mappings[i] = colMapping{key: key, known: true}
		}
	}

	records := make([]engine.Record, 0, len(rows))
	for _, row := range rows {
		rec := engine.NewRecord()
		for i, m := range mappings {
			if !m.known {
				continue
			}
			val := ""
			if i < len(row) {
				val = strings.TrimSpace(row[i])
			}

			if m.isMeasure {
				if f, ok := schema.ParseNumber(val); ok {
					rec.Measures[m.key] = f
				}
				continue
			}
			if schema.IsNull(val) {
				val = ""
			}
			rec.Dimensions[m.key] = val
		}
		records = append(records, rec)
	}
	return records
}

// isBlankRow reports whether every cell of row is empty.
func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
