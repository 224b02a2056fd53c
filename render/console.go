package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/spektr-org/worlddash/engine"
	"github.com/spektr-org/worlddash/report"
)

// ============================================================================
// CONSOLE — Terminal summary of a report
// ============================================================================

// consoleRows caps rows printed for a chart without its own table.
const consoleRows = 10

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	headerColor  = color.New(color.FgYellow, color.Bold)
	noteColor    = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
)

// Console prints every section as headings and tables.
func Console(w io.Writer, rep *report.Report, withPreviews bool) {
	titleColor.Fprintf(w, "\n=== %s ===\n", rep.Title)
	fmt.Fprintf(w, "run %s\n", rep.RunID)

	if withPreviews {
		for _, t := range rep.Previews {
			writeTable(w, t)
		}
	}

	for _, sec := range rep.Sections {
		ConsoleSection(w, sec)
	}
}

// ConsoleSection prints one section.
func ConsoleSection(w io.Writer, sec *report.Section) {
	headerColor.Fprintf(w, "\n%s\n", sec.Header)
	if sec.Failed() {
		failureColor.Fprintf(w, "Error: %v\n", sec.Err)
		return
	}
	if sec.Annotation != nil {
		noteColor.Fprintln(w, sec.Annotation.String())
	}

	if len(sec.Tables) > 0 {
		for _, t := range sec.Tables {
			writeTable(w, t)
		}
		return
	}
	if sec.Chart != nil {
		writeTable(w, chartTable(sec.Chart, consoleRows))
	}
}

func writeTable(w io.Writer, t *engine.TableData) {
	if t == nil {
		return
	}
	if t.Title != "" {
		fmt.Fprintf(w, "\n%s\n", t.Title)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Headers())
	table.SetAutoFormatHeaders(false)

	aligns := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		aligns[i] = tablewriter.ALIGN_LEFT
		if c.Align == "right" {
			aligns[i] = tablewriter.ALIGN_RIGHT
		}
	}
	table.SetColumnAlignment(aligns)

	for _, row := range t.Rows {
		table.Append(row)
	}
	table.Render()
}

// chartTable lays the first series of a chart out as a ranking table.
func chartTable(cfg *engine.ChartConfig, n int) *engine.TableData {
	if len(cfg.Series) == 0 {
		return nil
	}
	points := cfg.Series[0].Data
	groups := make([]engine.Group, 0, len(points))
	for _, p := range points {
		groups = append(groups, engine.Group{Label: p.Label, Value: p.Value})
	}
	label, value := cfg.XAxis, cfg.Series[0].Name
	if cfg.ChartType == engine.ChartBarH {
		label = cfg.YAxis
	}
	return engine.BuildRankingTable(cfg.Title, label, value, engine.Head(groups, n), 2)
}
