package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spektr-org/worlddash/render"
)

var summaryFlags struct {
	previews bool
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print every section to the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		rep, err := loadReport(cfg)
		if err != nil {
			return err
		}
		render.Console(os.Stdout, rep, summaryFlags.previews)
		return nil
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryFlags.previews, "previews", false, "Also print the first rows of both sources")
	rootCmd.AddCommand(summaryCmd)
}
