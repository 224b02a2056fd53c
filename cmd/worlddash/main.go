package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spektr-org/worlddash/helpers"
	"github.com/spektr-org/worlddash/report"
)

// ============================================================================
// WORLDDASH CLI — Global economic & human development report
// ============================================================================

const version = "0.3.0"

var rootFlags struct {
	config   string
	logLevel string
}

var rootCmd = &cobra.Command{
	Use:   "worlddash",
	Short: "Exploratory report over World Bank indicators and HDI data",
	Long: `worlddash loads an economic indicators workbook (.xlsx) and an HDI table (.csv),
then builds six independent sections: GDP growth, population growth, their
overlap, HDI growth by region, and correlations with life expectancy and with
income group.

Environment:
  WORLDDASH_ADDR         Server listen address
  WORLDDASH_INDICATORS   Indicators workbook path
  WORLDDASH_SHEET        Workbook sheet (default: first sheet)
  WORLDDASH_HDI          HDI csv path
  WORLDDASH_LOG_LEVEL    debug, info, warn, error`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.config, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "", "Log level (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves configuration and sets up logging.
func loadConfig() (report.Config, error) {
	cfg, err := report.LoadConfig(rootFlags.config)
	if err != nil {
		return cfg, err
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}
	if err := setupLogging(cfg.LogLevel, os.Stderr); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setupLogging(level string, w io.Writer) error {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)
	return nil
}

// loadReport loads both sources and builds the report.
func loadReport(cfg report.Config) (*report.Report, error) {
	ds, err := helpers.NewCache().Load(cfg.Source)
	if err != nil {
		return nil, err
	}
	return report.Build(ds, cfg), nil
}

// openOutput returns stdout, or a created file when path is set.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
