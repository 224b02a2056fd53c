package report

import (
	"fmt"
	"strings"

	"github.com/spektr-org/worlddash/engine"
	"github.com/spektr-org/worlddash/helpers"
)

// ============================================================================
// HDI BY REGION — Section 2
// ============================================================================

func buildHDIByRegion(ds *helpers.Dataset, cfg Config) (*Section, error) {
	c := cfg.Columns
	sch := ds.HDI.Schema
	if err := sch.Require(c.HDIRegion); err != nil {
		return nil, err
	}
	if err := sch.RequireMeasure(c.HDIStart, c.HDIEnd); err != nil {
		return nil, err
	}

	view := engine.Remap(ds.HDI.View(), c.HDIRegion, cfg.RegionNames)
	view = engine.WithMeasure(view, c.HDIGrowth, engine.Difference(view, c.HDIEnd, c.HDIStart))

	groups := engine.GroupAndAggregate(view, c.HDIRegion, c.HDIGrowth, engine.AggMean, engine.SortValueDesc, cfg.TopN.Regions)
	annotation := engine.BuildHighlight("Top Region", "Avg HDI Growth", groups, false)
	if annotation == nil {
		return nil, fmt.Errorf("%s: %w", c.HDIGrowth, ErrNoData)
	}

	period := hdiPeriod(c.HDIStart, c.HDIEnd)
	title := fmt.Sprintf("Top %d Regions by Average HDI Growth (%s)", len(groups), period)

	chart := engine.BuildChart(engine.ChartSpec{
		Type:       engine.ChartDonut,
		Title:      title,
		SeriesName: c.HDIGrowth,
		Precision:  4,
		Highlight:  0,
		CenterText: "HDI Growth",
	}, groups)

	return &Section{
		Header:     fmt.Sprintf("2: HDI Growth by Region (%s)", period),
		Title:      title,
		Period:     period,
		Chart:      chart,
		Tables:     []*engine.TableData{engine.BuildRankingTable("Average HDI growth by region", "Region", "HDI Growth", groups, 4)},
		Annotation: annotation,
		Groups:     groups,
	}, nil
}

// hdiPeriod turns "hdi_2000", "hdi_2021" into "2000–2021".
func hdiPeriod(start, end string) string {
	return yearSuffix(start) + "–" + yearSuffix(end)
}

func yearSuffix(col string) string {
	if i := strings.LastIndex(col, "_"); i >= 0 && i < len(col)-1 {
		return col[i+1:]
	}
	return col
}
