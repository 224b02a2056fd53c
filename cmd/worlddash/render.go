package main

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spektr-org/worlddash/render"
)

var renderFlags struct {
	format  string
	out     string
	section string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Build the report once and write it out",
	Long: `Build the report once and write it out.

Formats:
  html    Standalone page with inline SVG charts (default)
  json    Full report as JSON
  pretty  Pretty-printed JSON
  csv     Chart/table data as CSV (ready for Sheets/Excel)
  text    Console tables`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFlags.format, "format", "f", "html", "Output format: html, json, pretty, csv, text")
	renderCmd.Flags().StringVarP(&renderFlags.out, "out", "o", "", "Write output to file instead of stdout")
	renderCmd.Flags().StringVarP(&renderFlags.section, "section", "s", "", "Render a single section id")
	rootCmd.AddCommand(renderCmd)
}

var renderFormats = []string{"html", "json", "pretty", "csv", "text"}

func checkFormat(format string) error {
	for _, f := range renderFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(renderFormats, ", "))
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := checkFormat(renderFlags.format); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if renderFlags.section != "" {
		cfg.Sections = []string{renderFlags.section}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	rep, err := loadReport(cfg)
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(renderFlags.out)
	if err != nil {
		return err
	}

	switch renderFlags.format {
	case "html":
		err = render.HTML(w, rep, false)
	case "json":
		err = render.JSON(w, rep, false)
	case "pretty":
		err = render.JSON(w, rep, true)
	case "csv":
		if renderFlags.section != "" {
			err = render.CSV(w, rep.Sections[0])
		} else {
			err = render.ReportCSV(w, rep)
		}
	case "text":
		render.Console(w, rep, true)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if renderFlags.out != "" {
		log.Infof("📄 %s written to %s", renderFlags.format, renderFlags.out)
	}
	if failed := rep.Failed(); len(failed) > 0 {
		log.Warnf("⚠️  %d of %d sections failed", len(failed), len(rep.Sections))
	}
	return nil
}

