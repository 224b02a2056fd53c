package helpers

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/worlddash/schema"
)

// ============================================================================
// XLSX HELPER — Loads the economic indicators workbook
// ============================================================================

// LoadIndicatorsXLSX reads one sheet of a workbook (the first when sheet is
// empty). The first non-blank row is the header; blank rows are skipped.
func LoadIndicatorsXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("workbook %s: sheet %q not found", path, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var headers []string
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if headers == nil {
			headers = row
			continue
		}
		data = append(data, row)
	}
	if headers == nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, schema.ErrNoColumns)
	}

	sch, err := schema.Discover("indicators", headers, data)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", path, err)
	}

	records := ParseRows(headers, data, sch)
	log.Infof("📗 Loaded %d indicator rows from %s [%s] (%d dims, %d measures)",
		len(records), path, sheet, len(sch.Dimensions), len(sch.Measures))

	return &Table{Name: "indicators", Path: path, Records: records, Schema: sch}, nil
}
