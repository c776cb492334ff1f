package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spellgrid/gridder/internal/config"
	"github.com/spellgrid/gridder/internal/systemd"
)

var (
	unitsConfigPath string
	unitsOutputDir  string
	unitsExecStart  string
)

// unitsCmd represents the units command
var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Generate the systemd deployment artifacts",
	Long: `Compose the service unit, the timer unit and the sysusers fragment
from the configuration and write them to a directory, or print them to
stdout when no directory is given.

When the schedule is disabled nothing is generated.`,
	Run: unitsHandler,
}

func unitsHandler(cmd *cobra.Command, args []string) {
	configPath := unitsConfigPath
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if errors := cfg.Validate(); len(errors) > 0 {
		fmt.Fprintf(os.Stderr, "Configuration validation failed:\n")
		for _, e := range errors {
			fmt.Fprintf(os.Stderr, "  - %v\n", e)
		}
		os.Exit(1)
	}

	artifacts, err := systemd.Compose(cfg, unitsExecStart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to compose units: %v\n", err)
		os.Exit(1)
	}
	if artifacts == nil {
		fmt.Println("Schedule is disabled, no units to generate")
		return
	}

	files := []struct {
		name    string
		content string
	}{
		{artifacts.Service.Name, artifacts.Service.Render()},
		{artifacts.Timer.Name, artifacts.Timer.Render()},
		{"sysusers-gridder.conf", artifacts.Sysusers},
	}

	if unitsOutputDir == "" {
		for _, f := range files {
			fmt.Printf("# %s\n%s\n", f.name, f.content)
		}
		return
	}

	if err := os.MkdirAll(unitsOutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		path := filepath.Join(unitsOutputDir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	}
}

func init() {
	unitsCmd.Flags().StringVarP(&unitsConfigPath, "config", "c", "", "Path to configuration file (default: ./gridder.toml)")
	unitsCmd.Flags().StringVarP(&unitsOutputDir, "output-dir", "o", "", "Directory to write the artifacts to (default: print to stdout)")
	unitsCmd.Flags().StringVar(&unitsExecStart, "exec-start", "", "Override the service ExecStart command line")
}
