// Package worlddash builds an exploratory report over World Bank economic
// indicators and Human Development Index data.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/worlddash/helpers"
//	    "github.com/spektr-org/worlddash/report"
//	)
//
//	cfg := report.DefaultConfig()
//	ds, err := helpers.NewCache().Load(cfg.Source)
//	rep := report.Build(ds, cfg)
//
// Each section of the report is computed independently: a failing section
// carries its error and never blocks the others. Rendering (HTML, SVG, CSV,
// JSON, console) lives in the render package and the HTTP surface in server.
package worlddash
