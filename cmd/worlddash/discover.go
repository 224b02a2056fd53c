package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spektr-org/worlddash/helpers"
	"github.com/spektr-org/worlddash/render"
	"github.com/spektr-org/worlddash/schema"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Print the detected schema of both sources as JSON",
	Args:  cobra.NoArgs,
	RunE:  runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	indicators, err := helpers.LoadIndicatorsXLSX(cfg.Source.IndicatorsPath, cfg.Source.Sheet)
	if err != nil {
		return err
	}
	hdi, err := helpers.LoadHDICSV(cfg.Source.HDIPath)
	if err != nil {
		return err
	}

	return render.JSON(os.Stdout, map[string]*schema.Config{
		"indicators": indicators.Schema,
		"hdi":        hdi.Schema,
	}, true)
}
