package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spellgrid/gridder/internal/config"
	"github.com/spellgrid/gridder/internal/fetch"
	"github.com/spellgrid/gridder/internal/grid"
	"github.com/spellgrid/gridder/internal/logger"
	"github.com/spellgrid/gridder/internal/metrics"
	"github.com/spellgrid/gridder/internal/notify"
	"github.com/spellgrid/gridder/internal/run"
	"github.com/spellgrid/gridder/internal/scheduler"
	"github.com/spellgrid/gridder/internal/sheets"
)

var (
	serveConfigPath string
	serveLogLevel   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daily collection on an in-process schedule",
	Long: `Run gridder as a long-lived process that fires the daily collection
on the same schedule the timer unit encodes. Intended for hosts that
don't deploy the systemd artifacts.

Handles graceful shutdown on SIGINT and SIGTERM.`,
	Run: serveHandler,
}

func serveHandler(cmd *cobra.Command, args []string) {
	configPath := serveConfigPath
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if serveLogLevel != "" {
		cfg.Logging.Level = serveLogLevel
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "Configuration validation failed:\n")
		for _, e := range errs {
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

	log.Info("starting gridder",
		logger.Field{Key: "version", Value: Version},
		logger.Field{Key: "git_commit", Value: GitCommit},
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "minute_delay", Value: cfg.Schedule.MinuteDelay},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var publisher run.SheetPublisher
	if cfg.Sheets.Enabled {
		p, err := sheets.NewPublisher(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.ServiceAccountFile)
		if err != nil {
			log.Error("failed to create sheets publisher", err)
			os.Exit(1)
		}
		publisher = p
	}

	var notifier *notify.Telegram
	if cfg.Notify.Telegram.Enabled {
		notifier, err = notify.NewTelegram(cfg.Notify.Telegram, log)
		if err != nil {
			log.Error("failed to create telegram notifier", err)
			os.Exit(1)
		}
		log.Info("telegram notifier enabled")
	}

	var m *metrics.Metrics
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		m = metrics.New("gridder")
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
		go func() {
			log.Info("metrics server listening",
				logger.Field{Key: "addr", Value: cfg.Metrics.ListenAddr})
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", err)
			}
		}()
	}

	runner := run.New(cfg, log, fetch.NewClient(cfg.Fetch), publisher)

	doRun := func(ctx context.Context) error {
		date, err := grid.ReleaseDate(time.Now())
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := runner.Run(ctx, date)
		if err != nil {
			if m != nil {
				m.ObserveRun(metrics.StatusFailure, time.Since(start))
			}
			if notifier != nil {
				notifier.RunFailed(ctx, date, err)
			}
			return err
		}

		if m != nil {
			m.ObserveRun(metrics.StatusSuccess, result.Duration)
		}
		if notifier != nil {
			notifier.RunSucceeded(ctx, result)
		}
		return nil
	}

	sched, err := scheduler.New(log, cfg.Schedule.MinuteDelay, doRun)
	if err != nil {
		log.Error("failed to create scheduler", err)
		os.Exit(1)
	}
	if err := sched.Start(ctx); err != nil {
		log.Error("failed to start scheduler", err)
		os.Exit(1)
	}

	log.Info("gridder is running")

	sig := <-sigChan
	log.Info("received shutdown signal",
		logger.Field{Key: "signal", Value: sig.String()})

	if err := sched.Stop(); err != nil {
		log.Error("failed to stop scheduler", err)
	}
	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("metrics server shutdown failed", err)
		}
	}
	cancel()

	log.Info("gridder stopped")
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to configuration file (default: ./gridder.toml)")
	serveCmd.Flags().StringVarP(&serveLogLevel, "log-level", "l", "", "Override log level (debug, info, warn, error)")
}
