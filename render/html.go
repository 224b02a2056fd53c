package render

import (
	"fmt"
	"html/template"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/spektr-org/worlddash/engine"
	"github.com/spektr-org/worlddash/report"
)

// ============================================================================
// HTML — Single page with every section in order
// ============================================================================
// Charts are inlined as SVG. A section that failed to build, or whose chart
// failed to draw, shows its error in place; the rest of the page renders.
// ============================================================================

type pageSection struct {
	*report.Section
	SVG      template.HTML
	ChartErr string
	SVGPath  string
}

type pageData struct {
	*report.Report
	Sections []pageSection
}

var page = template.Must(template.New("page").Funcs(template.FuncMap{
	"isNumber": func(c engine.Column) bool { return c.Type == "number" },
}).Parse(pageTemplate))

// HTML writes the report page to w. With linkCharts, charts are referenced
// by URL (/sections/{id}.svg) instead of being inlined.
func HTML(w io.Writer, rep *report.Report, linkCharts bool) error {
	data := pageData{Report: rep}
	for _, sec := range rep.Sections {
		ps := pageSection{Section: sec}
		switch {
		case sec.Failed() || sec.Chart == nil:
		case linkCharts:
			ps.SVGPath = fmt.Sprintf("/sections/%s.svg", sec.ID)
		default:
			svg, err := SVG(sec.Chart)
			if err != nil {
				log.WithError(err).Warnf("⚠️  Chart for %s not drawn", sec.ID)
				ps.ChartErr = err.Error()
			} else {
				ps.SVG = template.HTML(svg) // #nosec G203 -- generated by the chart renderers
			}
		}
		data.Sections = append(data.Sections, ps)
	}
	return page.Execute(w, data)
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0 auto; max-width: 1180px; padding: 24px; color: #1f2937; }
h1 { margin-bottom: 4px; }
.meta { color: #6b7280; font-size: 13px; margin-bottom: 24px; }
section { border-top: 1px solid #e5e7eb; padding: 16px 0 24px; }
.annotation { display: inline-block; background: #111827; color: #fff; padding: 10px 16px; border-radius: 4px; margin: 8px 0; }
.error { background: #fef2f2; border: 1px solid #fecaca; color: #991b1b; padding: 10px 16px; border-radius: 4px; }
.tables { display: flex; flex-wrap: wrap; gap: 24px; }
table { border-collapse: collapse; font-size: 13px; margin: 8px 0; }
th, td { border-bottom: 1px solid #e5e7eb; padding: 4px 10px; text-align: left; }
td.num, th.num { text-align: right; font-variant-numeric: tabular-nums; }
.chart svg, .chart img { max-width: 100%; height: auto; }
.center-text { color: #6b7280; font-size: 13px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">Run {{.RunID}} · generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</div>

{{if .Previews}}
<section id="previews">
<h2>Dataset preview</h2>
<div class="tables">
{{range .Previews}}{{template "table" .}}{{end}}
</div>
</section>
{{end}}

{{range .Sections}}
<section id="{{.ID}}">
<h2>{{.Header}}</h2>
{{if .Error}}
<div class="error">Section unavailable: {{.Error}}</div>
{{else}}
{{if .Period}}<div class="meta">{{.Period}}</div>{{end}}
{{if .SVG}}<div class="chart">{{.SVG}}</div>{{end}}
{{if .SVGPath}}<div class="chart"><img src="{{.SVGPath}}" alt="{{.Title}}"></div>{{end}}
{{if .ChartErr}}<div class="error">Chart unavailable: {{.ChartErr}}</div>{{end}}
{{with .Chart}}{{if .CenterText}}<div class="center-text">{{.CenterText}}</div>{{end}}{{end}}
{{with .Annotation}}<div class="annotation">🌟 <b>{{.Label}}:</b> {{.Subject}}<br><b>{{.Metric}}:</b> {{.Value}}</div>{{end}}
{{if .Tables}}<div class="tables">{{range .Tables}}{{template "table" .}}{{end}}</div>{{end}}
{{end}}
</section>
{{end}}
</body>
</html>

{{define "table"}}
<div>
<h3>{{.Title}}</h3>
<table>
<thead><tr>{{range .Columns}}<th{{if isNumber .}} class="num"{{end}}>{{.Label}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</tbody>
</table>
</div>
{{end}}
`
