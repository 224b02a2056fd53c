package helpers

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	log "github.com/sirupsen/logrus"

	"github.com/spektr-org/worlddash/schema"
)

// ============================================================================
// CSV HELPER — Loads the HDI table through a dataframe
// ============================================================================
// The dataframe does type detection; its float/int columns become measures
// directly, everything else goes through schema.Describe as text.
// ============================================================================

var csvNaNValues = []string{"", "NA", "NaN", "N/A", "..", "<nil>"}

// LoadHDICSV reads the human development table from path.
func LoadHDICSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := ReadHDICSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	table.Path = path
	log.Infof("📘 Loaded %d HDI rows from %s (%d dims, %d measures)",
		len(table.Records), path, len(table.Schema.Dimensions), len(table.Schema.Measures))
	return table, nil
}

// ReadHDICSV parses delimited HDI data from r.
func ReadHDICSV(r io.Reader) (*Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(csvNaNValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}

	headers := df.Names()
	types := df.Types()
	nrow := df.Nrow()

	columns := make([]schema.ColumnInfo, len(headers))
	rows := make([][]string, nrow)
	for r := range rows {
		rows[r] = make([]string, len(headers))
	}

	for c, name := range headers {
		kind := schema.KindText
		if types[c] == series.Float || types[c] == series.Int {
			kind = schema.KindNumeric
		}

		col := df.Col(name)
		var floats []float64
		if kind == schema.KindNumeric {
			floats = col.Float()
		}
		values := make([]string, nrow)
		for r := 0; r < nrow; r++ {
			e := col.Elem(r)
			if e.IsNA() {
				continue
			}
			if floats != nil {
				// Elem.String keeps only six decimals
				values[r] = strconv.FormatFloat(floats[r], 'g', -1, 64)
			} else {
				values[r] = e.String()
			}
			rows[r][c] = values[r]
		}
		columns[c] = schema.ColumnInfo{Header: name, Kind: kind, Values: values}
	}

	sch, err := schema.Describe("hdi", columns)
	if err != nil {
		return nil, err
	}
	return &Table{Name: "hdi", Records: ParseRows(headers, rows, sch), Schema: sch}, nil
}
