package engine

import "math"

// ============================================================================
// CHART BUILDER — Produces ChartConfig from ChartSpec + Groups
// ============================================================================

// Default color palette for chart series (Set3-like pastel for donuts,
// saturated for bars).
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

var donutColors = []string{
	"#8DD3C7", "#FFFFB3", "#BEBADA", "#FB8072", "#80B1D3",
	"#FDB462", "#B3DE69", "#FCCDE5", "#D9D9D9", "#BC80BD",
}

// Diverging palette ends (RdBu).
const (
	ColorPositive = "#2166AC"
	ColorNegative = "#B2182B"
)

// BuildChart produces a single-series ChartConfig from aggregated groups.
// NaN groups are skipped. Returns nil when nothing is left to draw.
func BuildChart(spec ChartSpec, groups []Group) *ChartConfig {
	groups = Head(DropNaN(groups), spec.Limit)
	if len(groups) == 0 {
		return nil
	}

	chartType := spec.Type
	if chartType == "" {
		chartType = ChartBar
	}

	config := &ChartConfig{
		ChartType:  chartType,
		Title:      spec.Title,
		XAxis:      spec.XAxis,
		YAxis:      spec.YAxis,
		ShowLegend: chartType == ChartDonut,
		ShowGrid:   chartType != ChartDonut,
		Highlight:  spec.Highlight,
		CenterText: spec.CenterText,
		Diverging:  spec.Diverging,
	}
	config.Series = buildSingleSeries(groups, spec.SeriesName, spec.Precision)

	if chartType == ChartDonut {
		config.Colors = assignColors(donutColors, len(groups))
	} else {
		config.Colors = assignColors(defaultColors, 1)
	}
	return config
}

// NamedGroups is one series for BuildComparisonChart.
type NamedGroups struct {
	Name   string
	Groups []Group
}

// BuildComparisonChart lays several rankings side by side over a shared
// label axis. A label missing from a series gets NaN for that series.
func BuildComparisonChart(spec ChartSpec, labels []string, series []NamedGroups) *ChartConfig {
	if len(labels) == 0 || len(series) == 0 {
		return nil
	}

	config := &ChartConfig{
		ChartType:  ChartBar,
		Title:      spec.Title,
		XAxis:      spec.XAxis,
		YAxis:      spec.YAxis,
		ShowLegend: true,
		ShowGrid:   true,
		Highlight:  -1,
	}

	for i, s := range series {
		lookup := make(map[string]float64, len(s.Groups))
		for _, g := range s.Groups {
			lookup[g.Label] = g.Value
		}
		points := make([]ChartPoint, 0, len(labels))
		for _, label := range labels {
			v, ok := lookup[label]
			if !ok {
				v = math.NaN()
			}
			points = append(points, ChartPoint{Label: label, Value: RoundTo(v, spec.Precision)})
		}
		config.Series = append(config.Series, ChartSeries{
			Name:  s.Name,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}
	config.Colors = assignColors(defaultColors, len(config.Series))
	return config
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(groups []Group, seriesName string, precision int) []ChartSeries {
	if seriesName == "" {
		seriesName = defaultSeries
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: RoundTo(g.Value, precision),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: points,
	}}
}

func assignColors(palette []string, count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}
