// Package run orchestrates one collection run: fetch the hints page, parse
// the datasets, and publish them to the configured targets.
package run

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spellgrid/gridder/internal/config"
	"github.com/spellgrid/gridder/internal/csvout"
	"github.com/spellgrid/gridder/internal/fetch"
	"github.com/spellgrid/gridder/internal/grid"
	"github.com/spellgrid/gridder/internal/logger"
	"github.com/spellgrid/gridder/internal/parse"
	"github.com/spellgrid/gridder/internal/retry"
)

// SheetPublisher publishes a day's datasets to the spreadsheet.
type SheetPublisher interface {
	PublishForDate(ctx context.Context, date time.Time, pairs grid.Pairs, lengths grid.Lengths) (string, error)
}

// Runner executes collection runs.
type Runner struct {
	cfg       *config.Config
	log       *logger.Logger
	fetcher   *fetch.Client
	publisher SheetPublisher // nil when sheets publication is disabled
}

// Result summarizes a completed run.
type Result struct {
	RunID       string
	Date        time.Time
	SheetName   string
	PairCount   int
	LengthCount int
	CSVPaths    []string
	Duration    time.Duration
}

// New creates a runner. publisher may be nil when only CSV output is wanted.
func New(cfg *config.Config, log *logger.Logger, fetcher *fetch.Client, publisher SheetPublisher) *Runner {
	return &Runner{
		cfg:       cfg,
		log:       log,
		fetcher:   fetcher,
		publisher: publisher,
	}
}

// Run collects and publishes the datasets for one puzzle date.
func (r *Runner) Run(ctx context.Context, date time.Time) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := r.log.With(
		logger.Field{Key: "run_id", Value: runID},
		logger.Field{Key: "date", Value: date.Format("2006-01-02")},
	)

	retryCfg := retry.Config{MaxAttempts: r.cfg.Fetch.MaxAttempts}

	log.Info("fetching hints page")
	body, err := retry.Do(ctx, retryCfg, func() (string, error) {
		return r.fetcher.ForDate(ctx, date)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hints page: %w", err)
	}

	pairs, lengths, err := parse.Document(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hints page: %w", err)
	}
	log.Info("parsed hints page",
		logger.Field{Key: "pairs", Value: len(pairs)},
		logger.Field{Key: "lengths", Value: len(lengths)})

	result := &Result{
		RunID:       runID,
		Date:        date,
		PairCount:   len(pairs),
		LengthCount: len(lengths),
	}

	if r.cfg.Output.Enabled {
		paths, err := r.writeCSVs(date, pairs, lengths)
		if err != nil {
			return nil, err
		}
		result.CSVPaths = paths
		log.Info("wrote csv files", logger.Field{Key: "paths", Value: paths})
	}

	if r.publisher != nil {
		name, err := retry.Do(ctx, retryCfg, func() (string, error) {
			return r.publisher.PublishForDate(ctx, date, pairs, lengths)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to publish to spreadsheet: %w", err)
		}
		result.SheetName = name
		log.Info("published day sheet", logger.Field{Key: "sheet", Value: name})
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner) writeCSVs(date time.Time, pairs grid.Pairs, lengths grid.Lengths) ([]string, error) {
	template := r.cfg.Output.FilenameFormat

	lengthsPath, err := csvout.PreparePath(date, template, csvout.ItemLengths)
	if err != nil {
		return nil, fmt.Errorf("error preparing csv path for lengths: %w", err)
	}
	if err := csvout.WriteLengths(lengthsPath, lengths); err != nil {
		return nil, fmt.Errorf("error writing lengths csv: %w", err)
	}

	pairsPath, err := csvout.PreparePath(date, template, csvout.ItemPairs)
	if err != nil {
		return nil, fmt.Errorf("error preparing csv path for pairs: %w", err)
	}
	if err := csvout.WritePairs(pairsPath, pairs); err != nil {
		return nil, fmt.Errorf("error writing pairs csv: %w", err)
	}

	return []string{lengthsPath, pairsPath}, nil
}
