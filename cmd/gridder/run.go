package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spellgrid/gridder/internal/config"
	"github.com/spellgrid/gridder/internal/fetch"
	"github.com/spellgrid/gridder/internal/grid"
	"github.com/spellgrid/gridder/internal/logger"
	"github.com/spellgrid/gridder/internal/run"
	"github.com/spellgrid/gridder/internal/sheets"
)

var (
	runConfigPath     string
	runCSVOnly        bool
	runFilenameFormat string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [date]",
	Short: "Collect and publish one day's hints grid",
	Long: `Fetch the hints page for a puzzle date (today's release by default,
or a YYYY-MM-DD argument), extract the datasets and publish them to the
configured targets.

This is the command the timer unit fires. When no configuration file is
present, the spreadsheet target is configured entirely from the
GRIDDER_SPREADSHEET_ID and GRIDDER_SERVICE_ACCOUNT_FILE environment
variables.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHandler,
}

func runHandler(cmd *cobra.Command, args []string) {
	cfg, err := loadRunConfig(runConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if runCSVOnly {
		cfg.Sheets.Enabled = false
		cfg.Output.Enabled = true
	}
	if runFilenameFormat != "" {
		cfg.Output.FilenameFormat = runFilenameFormat
		cfg.Output.Enabled = true
	}

	if errors := cfg.Validate(); len(errors) > 0 {
		fmt.Fprintf(os.Stderr, "Configuration validation failed:\n")
		for _, e := range errors {
			fmt.Fprintf(os.Stderr, "  - %v\n", e)
		}
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	date, err := resolveDate(args)
	if err != nil {
		log.Error("invalid date argument", err)
		os.Exit(1)
	}

	if !cfg.Sheets.Enabled && !cfg.Output.Enabled {
		log.Error("nothing to do", fmt.Errorf("both spreadsheet and csv output are disabled"))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var publisher run.SheetPublisher
	if cfg.Sheets.Enabled {
		p, err := sheets.NewPublisher(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.ServiceAccountFile)
		if err != nil {
			log.Error("failed to create sheets publisher", err)
			os.Exit(1)
		}
		publisher = p
	}

	runner := run.New(cfg, log, fetch.NewClient(cfg.Fetch), publisher)

	result, err := runner.Run(ctx, date)
	if err != nil {
		log.Error("run failed", err,
			logger.Field{Key: "date", Value: date.Format("2006-01-02")})
		os.Exit(1)
	}

	if result.SheetName != "" {
		fmt.Printf("Added sheet %s\n", result.SheetName)
	}
	for _, p := range result.CSVPaths {
		fmt.Printf("Wrote %s\n", p)
	}
}

// loadRunConfig loads the configured path, falls back to the default path
// when it exists, and otherwise builds a configuration from defaults and
// environment variables alone.
func loadRunConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return config.Load(defaultConfigPath)
	}
	return config.Default(), nil
}

func resolveDate(args []string) (time.Time, error) {
	if len(args) > 0 {
		return grid.ParseDate(args[0])
	}
	return grid.ReleaseDate(time.Now())
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to configuration file (default: ./gridder.toml if present)")
	runCmd.Flags().BoolVar(&runCSVOnly, "csv-only", false, "Write CSV files only, skip the spreadsheet")
	runCmd.Flags().StringVar(&runFilenameFormat, "filename-format", "", "Override the CSV filename template")
}
