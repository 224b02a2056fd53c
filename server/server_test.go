package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/worlddash/helpers"
	"github.com/spektr-org/worlddash/report"
	"github.com/spektr-org/worlddash/schema"
)

// ============================================================================
// FIXTURES
// ============================================================================

type stubLoader struct {
	dataset     *helpers.Dataset
	err         error
	loads       int
	invalidated int
}

func (l *stubLoader) Load(helpers.Source) (*helpers.Dataset, error) {
	l.loads++
	return l.dataset, l.err
}

func (l *stubLoader) Invalidate() { l.invalidated++ }

func table(t *testing.T, name string, headers []string, rows [][]string) *helpers.Table {
	t.Helper()
	sch, err := schema.Discover(name, headers, rows)
	require.NoError(t, err)
	return &helpers.Table{Name: name, Records: helpers.ParseRows(headers, rows, sch), Schema: sch}
}

func fixtureDataset(t *testing.T) *helpers.Dataset {
	t.Helper()
	indicators := table(t, "indicators",
		[]string{"Country Name", "Country Code", "Year", "Region", "IncomeGroup", "GDP (USD)", "GDP per capita (USD)", "Life expectancy at birth (years)"},
		[][]string{
			{"Aland", "ALD", "2000", "Europe", "High income: OECD", "100", "10", "80"},
			{"Aland", "ALD", "2001", "Europe", "High income: OECD", "110", "10", "81"},
			{"Bora", "BOR", "2000", "Africa", "Low income", "200", "20", "50"},
			{"Bora", "BOR", "2001", "Africa", "Low income", "300", "20", "52"},
		})
	hdi := table(t, "hdi",
		[]string{"iso3", "region", "hdi_2000", "hdi_2021"},
		[][]string{{"AA1", "SA", "0.3", "0.5"}, {"BB1", "ECA", "0.7", "0.8"}})
	return &helpers.Dataset{Indicators: indicators, HDI: hdi}
}

func newTestServer(t *testing.T) (*Server, *stubLoader) {
	t.Helper()
	loader := &stubLoader{dataset: fixtureDataset(t)}
	return New(report.DefaultConfig(), loader), loader
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// ============================================================================
// ROUTE TESTS
// ============================================================================

func TestPage(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "1.1: Countries with Highest GDP Growth")
	assert.Contains(t, body, `/sections/hdi_region.svg`)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestReportIsMemoizedPerDataset(t *testing.T) {
	s, loader := newTestServer(t)

	var first, second struct {
		RunID string `json:"runId"`
	}
	require.NoError(t, json.Unmarshal(get(t, s, "/api/report").Body.Bytes(), &first))
	require.NoError(t, json.Unmarshal(get(t, s, "/api/report").Body.Bytes(), &second))
	assert.Equal(t, first.RunID, second.RunID)
	assert.Equal(t, 2, loader.loads)

	// A new dataset from the loader rebuilds the report
	loader.dataset = fixtureDataset(t)
	var third struct {
		RunID string `json:"runId"`
	}
	require.NoError(t, json.Unmarshal(get(t, s, "/api/report").Body.Bytes(), &third))
	assert.NotEqual(t, first.RunID, third.RunID)
}

func TestSectionJSON(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/sections/gdp_growth")
	require.Equal(t, http.StatusOK, rec.Code)

	var sec struct {
		ID     string `json:"id"`
		Groups []struct {
			Label string   `json:"label"`
			Value *float64 `json:"value"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sec))
	assert.Equal(t, "gdp_growth", sec.ID)
	require.Len(t, sec.Groups, 2)
	assert.Equal(t, "Bora", sec.Groups[0].Label)
	require.NotNil(t, sec.Groups[0].Value)
	assert.InDelta(t, 50, *sec.Groups[0].Value, 1e-9)
}

func TestSectionCSV(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/sections/gdp_growth.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Country Name,GDP Growth (%)\nBora,50\n"))
}

func TestSectionSVG(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/sections/hdi_region.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestUnknownSection(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/api/sections/maps", "/sections/maps.svg", "/api/sections/maps.csv"} {
		rec := get(t, s, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "unknown section", path)
	}
}

func TestFailedSectionSVG(t *testing.T) {
	s, loader := newTestServer(t)
	loader.dataset.HDI = table(t, "hdi", []string{"iso3", "region"}, [][]string{{"AA1", "SA"}})

	rec := get(t, s, "/sections/hdi_region.svg")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing column")

	// The page still renders the other sections
	page := get(t, s, "/")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Section unavailable")
	assert.Contains(t, page.Body.String(), "/sections/gdp_growth.svg")
}

func TestLoaderError(t *testing.T) {
	s, loader := newTestServer(t)
	loader.err = errors.New("workbook locked")

	assert.Equal(t, http.StatusInternalServerError, get(t, s, "/").Code)

	rec := get(t, s, "/api/report")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "workbook locked")
}

func TestReload(t *testing.T) {
	s, loader := newTestServer(t)
	get(t, s, "/api/report")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, loader.invalidated)
	assert.Contains(t, rec.Body.String(), `"sections":6`)

	assert.Equal(t, http.StatusMethodNotAllowed, get(t, s, "/reload").Code)
}

func TestHealth(t *testing.T) {
	s, loader := newTestServer(t)
	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, 0, loader.loads)
}

func TestListenAndServeShutsDown(t *testing.T) {
	cfg := report.DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:0"
	s := New(cfg, &stubLoader{dataset: fixtureDataset(t)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
