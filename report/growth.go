package report

import (
	"fmt"
	"strings"

	"github.com/spektr-org/worlddash/engine"
	"github.com/spektr-org/worlddash/helpers"
)

// ============================================================================
// GROWTH RANKINGS — Sections 1.1, 1.2 and 1.3
// ============================================================================
// Population is GDP ÷ GDP per capita. Growth is the year-over-year percent
// change within each country after sorting by country then year, averaged
// per country and ranked descending.
// ============================================================================

// derivedIndicators returns the filtered indicator view sorted by country
// and year, with Population and both growth columns attached.
func derivedIndicators(ds *helpers.Dataset, cfg Config) (engine.RecordView, error) {
	c := cfg.Columns
	sch := ds.Indicators.Schema
	if err := sch.Require(c.Country); err != nil {
		return nil, err
	}
	if err := sch.RequireMeasure(c.Year, c.GDP, c.GDPPerCapita); err != nil {
		return nil, err
	}

	view := engine.ApplyFilters(ds.Indicators.View(), cfg.Filters)
	view = engine.SortBy(view, engine.SortKey{Key: c.Country}, engine.SortKey{Key: c.Year})
	view = engine.WithMeasure(view, c.Population, engine.Ratio(view, c.GDP, c.GDPPerCapita))
	view = engine.WithMeasure(view, c.GDPGrowth, engine.PctChange(view, c.Country, c.GDP))
	view = engine.WithMeasure(view, c.PopulationGrowth, engine.PctChange(view, c.Country, c.Population))
	return view, nil
}

// growthRanking averages a growth column per country, descending.
func growthRanking(view engine.RecordView, cfg Config, growth string) []engine.Group {
	return engine.GroupAndAggregate(view, cfg.Columns.Country, growth, engine.AggMean, engine.SortValueDesc, 0)
}

type growthText struct {
	title  string // chart title
	metric string // "Avg GDP Growth"
}

func buildGrowth(ds *helpers.Dataset, cfg Config, growth string, text growthText) (*Section, error) {
	view, err := derivedIndicators(ds, cfg)
	if err != nil {
		return nil, err
	}

	groups := growthRanking(view, cfg, growth)
	annotation := engine.BuildHighlight("Top Country", text.metric, groups, true)
	if annotation == nil {
		return nil, fmt.Errorf("%s: %w", growth, ErrNoData)
	}

	chart := engine.BuildChart(engine.ChartSpec{
		Type:       engine.ChartBar,
		Title:      text.title,
		XAxis:      cfg.Columns.Country,
		YAxis:      text.metric + " %",
		SeriesName: growth,
		Precision:  2,
		Limit:      cfg.TopN.Chart,
		Highlight:  0,
	}, groups)

	return &Section{
		Title:      text.title,
		Period:     engine.DerivePeriod(view, cfg.Columns.Year),
		Chart:      chart,
		Annotation: annotation,
		Groups:     groups,
	}, nil
}

func buildGDPGrowth(ds *helpers.Dataset, cfg Config) (*Section, error) {
	return buildGrowth(ds, cfg, cfg.Columns.GDPGrowth, growthText{
		title:  "Average GDP Growth by Country (%)",
		metric: "Avg GDP Growth",
	})
}

func buildPopulationGrowth(ds *helpers.Dataset, cfg Config) (*Section, error) {
	return buildGrowth(ds, cfg, cfg.Columns.PopulationGrowth, growthText{
		title:  "Average Population Growth by Country (%)",
		metric: "Avg Population Growth",
	})
}

// buildOverlap compares the heads of both growth rankings.
func buildOverlap(ds *helpers.Dataset, cfg Config) (*Section, error) {
	view, err := derivedIndicators(ds, cfg)
	if err != nil {
		return nil, err
	}

	c := cfg.Columns
	n := cfg.TopN.Table
	gdpTop := engine.Head(growthRanking(view, cfg, c.GDPGrowth), n)
	popTop := engine.Head(growthRanking(view, cfg, c.PopulationGrowth), n)
	if len(gdpTop) == 0 && len(popTop) == 0 {
		return nil, ErrNoData
	}

	both := engine.Overlap(gdpTop, popTop)

	labels := make([]string, 0, len(gdpTop)+len(popTop))
	seen := make(map[string]bool)
	for _, g := range append(append([]engine.Group{}, gdpTop...), popTop...) {
		if !seen[g.Label] {
			seen[g.Label] = true
			labels = append(labels, g.Label)
		}
	}

	chart := engine.BuildComparisonChart(engine.ChartSpec{
		Title:     fmt.Sprintf("Top %d GDP vs Population Growth (%%)", n),
		XAxis:     c.Country,
		YAxis:     "Avg Growth %",
		Precision: 2,
	}, labels, []engine.NamedGroups{
		{Name: c.GDPGrowth, Groups: gdpTop},
		{Name: c.PopulationGrowth, Groups: popTop},
	})

	subject := "none"
	if len(both) > 0 {
		subject = strings.Join(both, ", ")
	}

	return &Section{
		Title: "Overlap between GDP & Population Growth",
		Chart: chart,
		Tables: []*engine.TableData{
			engine.BuildRankingTable(fmt.Sprintf("Top %d GDP Growth Countries", n), c.Country, c.GDPGrowth, gdpTop, 2),
			engine.BuildRankingTable(fmt.Sprintf("Top %d Population Growth Countries", n), c.Country, c.PopulationGrowth, popTop, 2),
			engine.BuildListTable("In both rankings", c.Country, both),
		},
		Annotation: &engine.TextData{
			Label:    "In both top lists",
			Subject:  subject,
			Metric:   "Countries",
			Value:    engine.FormatInt(len(both)),
			RawValue: float64(len(both)),
			Count:    len(both),
		},
	}, nil
}
