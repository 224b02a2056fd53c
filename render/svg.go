package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/worlddash/engine"
)

// ============================================================================
// SVG — Draws a ChartConfig
// ============================================================================
// Single-series vertical bars and donuts go through go-chart; horizontal
// and grouped bars go through gonum/plot, which supports nominal axes and
// per-bar offsets. Missing points are drawn as zero.
// ============================================================================

// ErrEmptyChart is returned for a chart with nothing to draw.
var ErrEmptyChart = errors.New("chart has no data")

const (
	chartWidth  = 1024
	chartHeight = 512
)

// SVG renders chart as an SVG document.
func SVG(cfg *engine.ChartConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSVG renders chart as an SVG document into w.
func WriteSVG(w io.Writer, cfg *engine.ChartConfig) error {
	if cfg == nil || len(cfg.Series) == 0 || len(cfg.Series[0].Data) == 0 {
		return ErrEmptyChart
	}

	switch {
	case cfg.ChartType == engine.ChartDonut:
		return donutSVG(w, cfg)
	case len(cfg.Series) > 1:
		return groupedBarSVG(w, cfg)
	case cfg.ChartType == engine.ChartBarH:
		return horizontalBarSVG(w, cfg)
	default:
		return barSVG(w, cfg)
	}
}

// ============================================================================
// GO-CHART
// ============================================================================

func barSVG(w io.Writer, cfg *engine.ChartConfig) error {
	points := cfg.Series[0].Data
	bars := make([]chart.Value, 0, len(points))
	for i, p := range points {
		style := chart.Style{
			FillColor:   hexColor(seriesColor(cfg, 0)),
			StrokeColor: hexColor(seriesColor(cfg, 0)),
			StrokeWidth: 1,
		}
		if i == cfg.Highlight {
			style.FillColor = hexColor(engine.ColorNegative)
			style.StrokeColor = style.FillColor
		}
		bars = append(bars, chart.Value{Label: p.Label, Value: finite(p.Value), Style: style})
	}

	barWidth := (chartWidth - 120) / len(bars) * 3 / 4
	switch {
	case barWidth > 60:
		barWidth = 60
	case barWidth < 4:
		barWidth = 4
	}

	bc := chart.BarChart{
		Title:      cfg.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 96}},
		BarWidth:   barWidth,
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis:      chart.YAxis{Name: cfg.YAxis, Range: barRange(bars)},
		Bars:       bars,

		UseBaseValue: true,
		BaseValue:    0,
	}
	return bc.Render(chart.SVG, w)
}

// barRange spans zero and every bar. go-chart derives the range from the
// bar values alone and rejects an empty span, e.g. a single bar.
func barRange(bars []chart.Value) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	if lo == hi {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func donutSVG(w io.Writer, cfg *engine.ChartConfig) error {
	values := make([]chart.Value, 0, len(cfg.Series[0].Data))
	for i, p := range cfg.Series[0].Data {
		// Slices need a positive size
		if math.IsNaN(p.Value) || p.Value <= 0 {
			continue
		}
		style := chart.Style{
			FillColor:   hexColor(paletteAt(cfg.Colors, i)),
			StrokeColor: drawing.ColorWhite,
			StrokeWidth: 2,
		}
		if i == cfg.Highlight {
			style.StrokeColor = drawing.ColorBlack
			style.StrokeWidth = 4
		}
		values = append(values, chart.Value{Label: p.Label, Value: p.Value, Style: style})
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: no positive slices", ErrEmptyChart)
	}

	dc := chart.DonutChart{
		Title:  cfg.Title,
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
	return dc.Render(chart.SVG, w)
}

// ============================================================================
// GONUM/PLOT
// ============================================================================

func horizontalBarSVG(w io.Writer, cfg *engine.ChartConfig) error {
	points := cfg.Series[0].Data
	n := len(points)

	// Nominal axes grow upward; reverse so the first point is on top
	labels := make([]string, n)
	pos := make(plotter.Values, n)
	neg := make(plotter.Values, n)
	for i, p := range points {
		j := n - 1 - i
		labels[j] = p.Label
		v := finite(p.Value)
		if v >= 0 || !cfg.Diverging {
			pos[j] = v
		} else {
			neg[j] = v
		}
	}

	p := newPlot(cfg)
	barWidth := vg.Points(12)

	posColor := seriesColor(cfg, 0)
	if cfg.Diverging {
		posColor = engine.ColorPositive
	}
	if err := addBars(p, pos, barWidth, posColor); err != nil {
		return err
	}
	if cfg.Diverging {
		if err := addBars(p, neg, barWidth, engine.ColorNegative); err != nil {
			return err
		}
	}
	p.NominalY(labels...)

	height := vg.Length(n)*vg.Points(18) + vg.Inch
	if height < 4*vg.Inch {
		height = 4 * vg.Inch
	}
	return writePlot(w, p, 10*vg.Inch, height)
}

func groupedBarSVG(w io.Writer, cfg *engine.ChartConfig) error {
	labels := make([]string, len(cfg.Series[0].Data))
	for i, pt := range cfg.Series[0].Data {
		labels[i] = pt.Label
	}

	p := newPlot(cfg)
	barWidth := vg.Points(10)
	k := len(cfg.Series)
	for s, series := range cfg.Series {
		values := make(plotter.Values, len(labels))
		for i := range labels {
			if i < len(series.Data) {
				values[i] = finite(series.Data[i].Value)
			}
		}
		offset := (vg.Length(s) - vg.Length(k-1)/2) * barWidth
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return fmt.Errorf("series %s: %w", series.Name, err)
		}
		bars.Color = parseColor(seriesColor(cfg, s))
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = offset
		p.Add(bars)
		p.Legend.Add(series.Name, bars)
	}
	p.Legend.Top = true
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return writePlot(w, p, 12*vg.Inch, 6*vg.Inch)
}

func newPlot(cfg *engine.ChartConfig) *plot.Plot {
	p := plot.New()
	p.Title.Text = cfg.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = cfg.XAxis
	p.Y.Label.Text = cfg.YAxis
	if cfg.ShowGrid {
		p.Add(plotter.NewGrid())
	}
	return p
}

// addBars adds one horizontal bar set.
func addBars(p *plot.Plot, values plotter.Values, width vg.Length, hex string) error {
	bars, err := plotter.NewBarChart(values, width)
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.Color = parseColor(hex)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	return nil
}

func writePlot(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "svg")
	if err != nil {
		return fmt.Errorf("plot writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// ============================================================================
// COLORS
// ============================================================================

func seriesColor(cfg *engine.ChartConfig, i int) string {
	if i < len(cfg.Series) && cfg.Series[i].Color != "" {
		return cfg.Series[i].Color
	}
	return paletteAt(cfg.Colors, i)
}

func paletteAt(palette []string, i int) string {
	if len(palette) == 0 {
		return "#4F46E5"
	}
	return palette[i%len(palette)]
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func parseColor(hex string) color.Color {
	c := hexColor(hex)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
