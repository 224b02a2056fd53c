package report

import (
	"github.com/spektr-org/worlddash/engine"
	"github.com/spektr-org/worlddash/helpers"
)

// ============================================================================
// CORRELATION RANKINGS — Sections 3 and 4
// ============================================================================
// Identifier and derived columns are dropped, missing numbers become 0,
// categoricals are one-hot encoded without their first category, and every
// remaining column is ranked by its Pearson coefficient with the target.
// ============================================================================

type correlationText struct {
	title string
	lead  string // annotation label
}

func correlationSection(view engine.RecordView, cfg Config, target string, text correlationText) (*Section, error) {
	features, err := engine.FeatureMatrix(view,
		engine.WithDrop(cfg.CorrelationDrop...),
		engine.WithFill(0),
		engine.WithDropFirst(true),
	)
	if err != nil {
		return nil, err
	}

	groups, err := engine.CorrelationMatrix(features).Target(target)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, ErrNoData
	}

	chart := engine.BuildChart(engine.ChartSpec{
		Type:       engine.ChartBarH,
		Title:      text.title,
		XAxis:      "Correlation Coefficient",
		YAxis:      "Feature",
		SeriesName: "Correlation",
		Precision:  3,
		Highlight:  -1,
		Diverging:  true,
	}, groups)

	return &Section{
		Title:      text.title,
		Chart:      chart,
		Tables:     []*engine.TableData{engine.BuildRankingTable(text.title, "Feature", "Correlation", groups, 3)},
		Annotation: engine.BuildHighlight(text.lead, "Correlation", groups, false),
		Groups:     groups,
	}, nil
}

func buildLifeExpectancyCorrelation(ds *helpers.Dataset, cfg Config) (*Section, error) {
	if err := ds.Indicators.Schema.RequireMeasure(cfg.Columns.LifeExpectancy); err != nil {
		return nil, err
	}
	view, err := derivedIndicators(ds, cfg)
	if err != nil {
		return nil, err
	}
	return correlationSection(view, cfg, cfg.Columns.LifeExpectancy, correlationText{
		title: "Correlation with Life Expectancy at Birth",
		lead:  "Strongest Positive Factor",
	})
}

func buildIncomeCorrelation(ds *helpers.Dataset, cfg Config) (*Section, error) {
	if err := ds.Indicators.Schema.Require(cfg.Columns.IncomeGroup); err != nil {
		return nil, err
	}
	view, err := derivedIndicators(ds, cfg)
	if err != nil {
		return nil, err
	}
	view = engine.Remap(view, cfg.Columns.IncomeGroup, cfg.IncomeGroups)
	return correlationSection(view, cfg, cfg.IncomeTarget, correlationText{
		title: "Correlation with Low Income Group",
		lead:  "Strongest Low Income Factor",
	})
}
