package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/spektr-org/worlddash/engine"
	"github.com/spektr-org/worlddash/report"
)

// ============================================================================
// FIXTURES
// ============================================================================

func growthGroups() []engine.Group {
	return []engine.Group{
		{Label: "Bora", Value: 50, Count: 2},
		{Label: "Aland", Value: 10, Count: 3},
		{Label: "Cato", Value: -10, Count: 2},
	}
}

func barChart() *engine.ChartConfig {
	return engine.BuildChart(engine.ChartSpec{
		Type: engine.ChartBar, Title: "Average GDP Growth by Country (%)",
		XAxis: "Country Name", YAxis: "Avg GDP Growth %", SeriesName: "GDP Growth (%)", Precision: 2,
	}, growthGroups())
}

func correlationChart() *engine.ChartConfig {
	return engine.BuildChart(engine.ChartSpec{
		Type: engine.ChartBarH, Title: "Correlation with Life Expectancy at Birth",
		XAxis: "Correlation Coefficient", YAxis: "Feature", SeriesName: "Correlation",
		Precision: 3, Highlight: -1, Diverging: true,
	}, []engine.Group{
		{Label: "GDP per capita (USD)", Value: 0.61},
		{Label: "IncomeGroup_Low income", Value: -0.72},
	})
}

func donutChart() *engine.ChartConfig {
	return engine.BuildChart(engine.ChartSpec{
		Type: engine.ChartDonut, Title: "Top Regions", SeriesName: "hdi growth",
		Precision: 4, CenterText: "HDI Growth",
	}, []engine.Group{
		{Label: "South Asia", Value: 0.15},
		{Label: "Europe and Central Asia", Value: 0.1},
	})
}

func comparisonChart() *engine.ChartConfig {
	g := growthGroups()
	return engine.BuildComparisonChart(engine.ChartSpec{Title: "GDP vs Population", XAxis: "Country Name", Precision: 2},
		[]string{"Bora", "Aland", "Cato"},
		[]engine.NamedGroups{
			{Name: "GDP Growth (%)", Groups: g[:2]},
			{Name: "Population Growth (%)", Groups: []engine.Group{{Label: "Bora", Value: 50}, {Label: "Cato", Value: 12.5}}},
		})
}

func sampleReport() *report.Report {
	return &report.Report{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Title:       "Dashboard <test>",
		Previews: []*engine.TableData{
			{Title: "Economic indicators", Columns: []engine.Column{{Key: "c", Label: "Country Name"}}, Rows: [][]string{{"Aland"}}},
		},
		Sections: []*report.Section{
			{
				ID: report.SectionGDPGrowth, Header: "1.1: Countries with Highest GDP Growth",
				Chart:      barChart(),
				Annotation: engine.BuildHighlight("Top Country", "Avg GDP Growth", growthGroups(), true),
				Groups:     growthGroups(),
			},
			{
				ID: report.SectionHDIRegion, Header: "2: HDI Growth by Region",
				Err: errors.New("boom"), Error: "boom",
			},
			{
				ID: report.SectionOverlap, Header: "1.3: Overlap",
				Tables: []*engine.TableData{engine.BuildListTable("In both rankings", "Country Name", []string{"Bora"})},
			},
		},
	}
}

// ============================================================================
// SVG TESTS
// ============================================================================

func TestSVGChartKinds(t *testing.T) {
	charts := map[string]*engine.ChartConfig{
		"bar":        barChart(),
		"hbar":       correlationChart(),
		"donut":      donutChart(),
		"comparison": comparisonChart(),
	}
	for name, cfg := range charts {
		t.Run(name, func(t *testing.T) {
			out, err := SVG(cfg)
			require.NoError(t, err)
			assert.Contains(t, string(out), "<svg")
		})
	}
}

func TestSVGFlatBars(t *testing.T) {
	cases := map[string][]float64{
		"single":   {5},
		"equal":    {3, 3},
		"zero":     {0},
		"negative": {-2},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			groups := make([]engine.Group, len(values))
			for i, v := range values {
				groups[i] = engine.Group{Label: fmt.Sprintf("C%d", i), Value: v}
			}
			out, err := SVG(engine.BuildChart(engine.ChartSpec{Type: engine.ChartBar, Highlight: -1}, groups))
			require.NoError(t, err)
			assert.Contains(t, string(out), "<svg")
		})
	}
}

func TestBarRangeSpansZero(t *testing.T) {
	r := barRange([]chart.Value{{Value: 5}, {Value: 2}})
	assert.Equal(t, 0.0, r.Min)
	assert.Equal(t, 5.0, r.Max)

	r = barRange([]chart.Value{{Value: -4}})
	assert.Equal(t, -4.0, r.Min)
	assert.Equal(t, 0.0, r.Max)

	r = barRange([]chart.Value{{Value: 0}})
	assert.Equal(t, 1.0, r.Max-r.Min)
}

func TestSVGEmpty(t *testing.T) {
	_, err := SVG(nil)
	assert.ErrorIs(t, err, ErrEmptyChart)

	_, err = SVG(&engine.ChartConfig{ChartType: engine.ChartBar})
	assert.ErrorIs(t, err, ErrEmptyChart)

	negative := donutChart()
	for i := range negative.Series[0].Data {
		negative.Series[0].Data[i].Value = -1
	}
	_, err = SVG(negative)
	assert.ErrorIs(t, err, ErrEmptyChart)
}

// ============================================================================
// HTML TESTS
// ============================================================================

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sampleReport(), false))
	out := buf.String()

	assert.Contains(t, out, "Dashboard &lt;test&gt;")
	assert.Contains(t, out, "Run run-1")
	assert.Contains(t, out, "1.1: Countries with Highest GDP Growth")
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "<b>Top Country:</b> Bora")
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "Section unavailable: boom")
	assert.Contains(t, out, "<td>Bora</td>")
	assert.Contains(t, out, "Dataset preview")

	// Sections keep report order
	assert.Less(t, strings.Index(out, `id="gdp_growth"`), strings.Index(out, `id="hdi_region"`))
}

func TestHTMLLinkedCharts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sampleReport(), true))
	out := buf.String()

	assert.Contains(t, out, `<img src="/sections/gdp_growth.svg"`)
	assert.NotContains(t, out, "<svg")
}

// ============================================================================
// CONSOLE TESTS
// ============================================================================

func TestConsole(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	Console(&buf, sampleReport(), true)
	out := buf.String()

	assert.Contains(t, out, "=== Dashboard <test> ===")
	assert.Contains(t, out, "🌟 Top Country: Bora · Avg GDP Growth: 50.00%")
	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, "In both rankings")
	assert.Contains(t, out, "Aland")
	// Chart without tables prints its points
	assert.Contains(t, out, "50.00")
}

// ============================================================================
// EXPORT TESTS
// ============================================================================

func TestCSVSingleSeries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, &report.Section{Chart: barChart()}))
	assert.Equal(t, "Country Name,GDP Growth (%)\nBora,50\nAland,10\nCato,-10\n", buf.String())
}

func TestCSVHorizontalUsesFeatureColumn(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, &report.Section{Chart: correlationChart()}))
	assert.Equal(t, "Feature,Correlation\nGDP per capita (USD),0.61\nIncomeGroup_Low income,-0.72\n", buf.String())
}

func TestCSVMultiSeries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, &report.Section{Chart: comparisonChart()}))
	assert.Equal(t,
		"Country Name,GDP Growth (%),Population Growth (%)\nBora,50,50\nAland,10,\nCato,,12.5\n",
		buf.String())
}

func TestCSVFallbacks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, &report.Section{
		Tables: []*engine.TableData{engine.BuildListTable("t", "Country Name", []string{"Bora"})},
	}))
	assert.Equal(t, "Country Name\nBora\n", buf.String())

	buf.Reset()
	require.NoError(t, CSV(&buf, &report.Section{ID: report.SectionIncome, Err: errors.New("missing column")}))
	assert.Equal(t, "Section,Error\nincome_corr,missing column\n", buf.String())
}

func TestReportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ReportCSV(&buf, sampleReport()))
	out := buf.String()
	assert.Contains(t, out, "# 1.1: Countries with Highest GDP Growth\n")
	assert.Contains(t, out, "# 2: HDI Growth by Region\nSection,Error\nhdi_region,boom\n")
}

func TestJSONMissingValues(t *testing.T) {
	sec := &report.Section{
		ID:     report.SectionHDIRegion,
		Groups: []engine.Group{{Label: "Latin America and the Caribbean", Value: math.NaN()}},
	}

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sec, false))
	assert.Contains(t, buf.String(), `"value":null`)
}
