package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gridder",
	Short: "Gridder - daily hints grid collector",
	Long: `Gridder collects the daily Spelling Bee hints grid, extracts the
letter-by-length counts and the two-letter prefix counts, and publishes
them to CSV files and a shared spreadsheet.`,
	Version: Version,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(unitsCmd)
	rootCmd.AddCommand(serveCmd)
}
