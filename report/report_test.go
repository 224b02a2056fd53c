package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/worlddash/engine"
	"github.com/spektr-org/worlddash/helpers"
	"github.com/spektr-org/worlddash/schema"
)

// ============================================================================
// FIXTURES
// ============================================================================

var indicatorHeaders = []string{
	"Country Name", "Country Code", "Year", "Region", "IncomeGroup",
	"GDP (USD)", "GDP per capita (USD)", "Life expectancy at birth (years)",
}

// Growth by country (after sorting by year):
//
//	Aland  GDP 100 → 110 → 121   pop 10 → 11 → 11      gdp 10%, pop 5%
//	Bora   GDP 200 → 300         pop 10 → 15           gdp 50%, pop 50%
//	Cato   GDP 50 → 45           pop 10 → 11.25        gdp -10%, pop 12.5%
var indicatorRows = [][]string{
	{"Aland", "ALD", "2002", "Europe", "High income: OECD", "121", "11", "80"},
	{"Aland", "ALD", "2001", "Europe", "High income: OECD", "110", "10", "80"},
	{"Aland", "ALD", "2000", "Europe", "High income: OECD", "100", "10", "80"},
	{"Bora", "BOR", "2000", "Africa", "Low income", "200", "20", "50"},
	{"Bora", "BOR", "2001", "Africa", "Low income", "300", "20", "50"},
	{"Cato", "CAT", "2000", "Africa", "Lower middle income", "50", "5", "55"},
	{"Cato", "CAT", "2001", "Africa", "Lower middle income", "45", "4", "55"},
}

var hdiHeaders = []string{"iso3", "country", "hdicode", "region", "hdi_2000", "hdi_2021"}

var hdiRows = [][]string{
	{"AA1", "Alpha", "Low", "SA", "0.3", "0.5"},
	{"AA2", "Beta", "Low", "SA", "0.4", "0.5"},
	{"BB1", "Gamma", "High", "ECA", "0.7", "0.8"},
	{"CC1", "Delta", "Medium", "ZZ", "0.1", "0.9"},
	{"DD1", "Epsilon", "High", "LAC", "", "0.8"},
	{"EE1", "Zeta", "Medium", "EAP", "0.5", "0.55"},
}

func table(t *testing.T, name string, headers []string, rows [][]string) *helpers.Table {
	t.Helper()
	sch, err := schema.Discover(name, headers, rows)
	require.NoError(t, err)
	return &helpers.Table{Name: name, Records: helpers.ParseRows(headers, rows, sch), Schema: sch}
}

func dataset(t *testing.T) *helpers.Dataset {
	t.Helper()
	return &helpers.Dataset{
		Indicators: table(t, "indicators", indicatorHeaders, indicatorRows),
		HDI:        table(t, "hdi", hdiHeaders, hdiRows),
	}
}

func labels(groups []engine.Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Label
	}
	return out
}

func section(t *testing.T, ds *helpers.Dataset, cfg Config, id SectionID) *Section {
	t.Helper()
	sec, err := BuildSection(ds, cfg, id)
	require.NoError(t, err)
	require.NoError(t, sec.Err)
	return sec
}

// ============================================================================
// GROWTH SECTIONS
// ============================================================================

func TestGDPGrowth(t *testing.T) {
	sec := section(t, dataset(t), DefaultConfig(), SectionGDPGrowth)

	assert.Equal(t, "1.1: Countries with Highest GDP Growth", sec.Header)
	assert.Equal(t, []string{"Bora", "Aland", "Cato"}, labels(sec.Groups))
	assert.InDelta(t, 50, sec.Groups[0].Value, 1e-9)
	assert.InDelta(t, 10, sec.Groups[1].Value, 1e-9)
	assert.InDelta(t, -10, sec.Groups[2].Value, 1e-9)

	require.NotNil(t, sec.Annotation)
	assert.Equal(t, "🌟 Top Country: Bora · Avg GDP Growth: 50.00%", sec.Annotation.String())
	assert.Equal(t, "2000–2002", sec.Period)

	require.NotNil(t, sec.Chart)
	assert.Equal(t, engine.ChartBar, sec.Chart.ChartType)
	assert.Len(t, sec.Chart.Series[0].Data, 3)
}

func TestGDPGrowthPadsGaps(t *testing.T) {
	rows := [][]string{
		{"Dora", "DOR", "2000", "Europe", "Low income", "100", "10", "70"},
		{"Dora", "DOR", "2001", "Europe", "Low income", "110", "11", "70"},
		{"Dora", "DOR", "2002", "Europe", "Low income", "", "11", "70"},
		{"Dora", "DOR", "2003", "Europe", "Low income", "121", "11", "70"},
	}
	ds := dataset(t)
	ds.Indicators = table(t, "indicators", indicatorHeaders, rows)

	sec := section(t, ds, DefaultConfig(), SectionGDPGrowth)
	require.Len(t, sec.Groups, 1)
	assert.InDelta(t, 20.0/3, sec.Groups[0].Value, 1e-9, "missing year counts as 0% growth")
	require.NotNil(t, sec.Chart)
}

func TestPopulationGrowth(t *testing.T) {
	sec := section(t, dataset(t), DefaultConfig(), SectionPopulationGrowth)

	assert.Equal(t, []string{"Bora", "Cato", "Aland"}, labels(sec.Groups))
	assert.InDelta(t, 12.5, sec.Groups[1].Value, 1e-9)
	assert.InDelta(t, 5, sec.Groups[2].Value, 1e-9)
	assert.Equal(t, "Bora", sec.Annotation.Subject)
}

func TestOverlap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopN.Table = 2

	sec := section(t, dataset(t), cfg, SectionOverlap)

	require.Len(t, sec.Tables, 3)
	assert.Equal(t, "Top 2 GDP Growth Countries", sec.Tables[0].Title)
	assert.Equal(t, [][]string{{"1", "Bora", "50.00"}, {"2", "Aland", "10.00"}}, sec.Tables[0].Rows)
	assert.Equal(t, [][]string{{"1", "Bora", "50.00"}, {"2", "Cato", "12.50"}}, sec.Tables[1].Rows)
	assert.Equal(t, [][]string{{"Bora"}}, sec.Tables[2].Rows)
	assert.Equal(t, "Bora", sec.Annotation.Subject)

	require.NotNil(t, sec.Chart)
	require.Len(t, sec.Chart.Series, 2)
	gdp := sec.Chart.Series[0].Data
	require.Len(t, gdp, 3)
	assert.Equal(t, "Cato", gdp[2].Label)
	assert.True(t, math.IsNaN(gdp[2].Value), "Cato is not in the GDP top list")
}

func TestGrowthFilters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filters = engine.Filters{Dimensions: map[string][]string{"Region": {"africa"}}}

	sec := section(t, dataset(t), cfg, SectionGDPGrowth)
	assert.Equal(t, []string{"Bora", "Cato"}, labels(sec.Groups))
}

// ============================================================================
// HDI SECTION
// ============================================================================

func TestHDIByRegion(t *testing.T) {
	sec := section(t, dataset(t), DefaultConfig(), SectionHDIRegion)

	assert.Equal(t, "2: HDI Growth by Region (2000–2021)", sec.Header)
	// ZZ is unmapped and dropped; LAC has no 2000 value and sorts last
	assert.Equal(t,
		[]string{"South Asia", "Europe and Central Asia", "East Asia and the Pacific", "Latin America and the Caribbean"},
		labels(sec.Groups))
	assert.InDelta(t, 0.15, sec.Groups[0].Value, 1e-9)
	assert.InDelta(t, 0.1, sec.Groups[1].Value, 1e-9)
	assert.True(t, math.IsNaN(sec.Groups[3].Value))

	require.NotNil(t, sec.Chart)
	assert.Equal(t, engine.ChartDonut, sec.Chart.ChartType)
	assert.Len(t, sec.Chart.Series[0].Data, 3)
	assert.Equal(t, 0, sec.Chart.Highlight)
	assert.Equal(t, "HDI Growth", sec.Chart.CenterText)
	assert.Equal(t, "South Asia", sec.Annotation.Subject)
}

func TestHDITopN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopN.Regions = 2

	sec := section(t, dataset(t), cfg, SectionHDIRegion)
	assert.Len(t, sec.Groups, 2)
	assert.Equal(t, "Top 2 Regions by Average HDI Growth (2000–2021)", sec.Title)
}

// ============================================================================
// CORRELATION SECTIONS
// ============================================================================

func TestLifeExpectancyCorrelation(t *testing.T) {
	sec := section(t, dataset(t), DefaultConfig(), SectionLifeExpectancy)

	names := labels(sec.Groups)
	assert.NotContains(t, names, "Life expectancy at birth (years)")
	assert.NotContains(t, names, "Year")
	assert.NotContains(t, names, "Population")
	assert.Contains(t, names, "GDP (USD)")
	assert.Contains(t, names, "IncomeGroup_Low income")
	assert.NotContains(t, names, "IncomeGroup_High income: OECD", "first category is dropped")

	for i, g := range sec.Groups {
		assert.GreaterOrEqual(t, g.Value, -1.0)
		assert.LessOrEqual(t, g.Value, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, sec.Groups[i-1].Value, g.Value)
		}
	}
	assert.True(t, sec.Chart.Diverging)
}

func TestIncomeCorrelation(t *testing.T) {
	sec := section(t, dataset(t), DefaultConfig(), SectionIncome)

	var life float64
	found := false
	for _, g := range sec.Groups {
		assert.NotEqual(t, "IncomeGroup_Low Income", g.Label)
		if g.Label == "Life expectancy at birth (years)" {
			life, found = g.Value, true
		}
	}
	require.True(t, found)
	assert.Less(t, life, -0.9)
}

func TestIncomeCorrelationMissingTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncomeGroups = map[string]string{"Low income": "Poor", "High income: OECD": "Rich"}

	sec, err := BuildSection(dataset(t), cfg, SectionIncome)
	require.NoError(t, err)
	assert.ErrorIs(t, sec.Err, engine.ErrMissingColumn)
	assert.NotEmpty(t, sec.Error)
}

// ============================================================================
// BUILD
// ============================================================================

func TestBuild(t *testing.T) {
	rep := Build(dataset(t), DefaultConfig())

	assert.NotEmpty(t, rep.RunID)
	require.Len(t, rep.Sections, 6)
	for i, id := range SectionIDs() {
		assert.Equal(t, id, rep.Sections[i].ID)
		assert.NoError(t, rep.Sections[i].Err, id)
	}
	assert.Empty(t, rep.Failed())
	require.Len(t, rep.Previews, 2)
	assert.Len(t, rep.Previews[0].Rows, 5)
	assert.Len(t, rep.Previews[1].Rows, 5)
}

func TestBuildSectionsAreIndependent(t *testing.T) {
	ds := dataset(t)
	// No Region column: the correlation sections cannot drop it
	headers := []string{"Country Name", "Country Code", "Year", "IncomeGroup", "GDP (USD)", "GDP per capita (USD)", "Life expectancy at birth (years)"}
	var rows [][]string
	for _, r := range indicatorRows {
		rows = append(rows, append(append([]string{}, r[:3]...), r[4:]...))
	}
	ds.Indicators = table(t, "indicators", headers, rows)
	ds.HDI = table(t, "hdi", []string{"iso3", "region", "hdi_2021"}, [][]string{{"A", "SA", "0.5"}})

	rep := Build(ds, DefaultConfig())
	require.Len(t, rep.Sections, 6)

	failed := make(map[SectionID]error)
	for _, s := range rep.Failed() {
		failed[s.ID] = s.Err
	}
	assert.Len(t, failed, 3)
	assert.ErrorIs(t, failed[SectionHDIRegion], engine.ErrMissingColumn)
	assert.ErrorIs(t, failed[SectionLifeExpectancy], engine.ErrMissingColumn)
	assert.ErrorIs(t, failed[SectionIncome], engine.ErrMissingColumn)

	gdp, ok := rep.Section(SectionGDPGrowth)
	require.True(t, ok)
	assert.Equal(t, "Bora", gdp.Annotation.Subject)
}

func TestBuildSubset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sections = []string{string(SectionHDIRegion), string(SectionGDPGrowth)}

	rep := Build(dataset(t), cfg)
	require.Len(t, rep.Sections, 2)
	assert.Equal(t, SectionHDIRegion, rep.Sections[0].ID)
}

func TestBuildSectionUnknown(t *testing.T) {
	_, err := BuildSection(dataset(t), DefaultConfig(), "nope")
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestNoGrowthData(t *testing.T) {
	ds := dataset(t)
	ds.Indicators = table(t, "indicators", indicatorHeaders, indicatorRows[:1])

	sec, err := BuildSection(ds, DefaultConfig(), SectionGDPGrowth)
	require.NoError(t, err)
	assert.ErrorIs(t, sec.Err, ErrNoData)
}
