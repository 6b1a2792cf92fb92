// Package pipeline orchestrates one end-to-end forecasting run: merge,
// complete, derive, split, train, evaluate, forecast.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/flowcast/internal/config"
	"github.com/yourusername/flowcast/internal/features"
	"github.com/yourusername/flowcast/internal/forecast"
	"github.com/yourusername/flowcast/internal/ingest"
	"github.com/yourusername/flowcast/internal/metrics"
	"github.com/yourusername/flowcast/internal/models"
	"github.com/yourusername/flowcast/internal/repository"
	"github.com/yourusername/flowcast/internal/split"
	"github.com/yourusername/flowcast/internal/timeseries"
)

// RunReport is everything one run produces, held in memory. Persistence and
// formatting belong to external collaborators.
type RunReport struct {
	RunID        uuid.UUID
	MergeSummary ingest.Summary
	HistoryStart time.Time
	HistoryEnd   time.Time
	HistoryDays  int
	Evaluations  []models.EvaluationRecord
	Table        forecast.ComparisonTable
	Forecasts    []models.ForecastPoint
	Skipped      []models.ModelHandle
	Duration     time.Duration
}

// Runner executes the synchronous pipeline. Each stage consumes the previous
// stage's immutable output; a run either completes or fails fast with a typed
// error.
type Runner struct {
	cfg    *config.Config
	repos  *repository.Repositories
	logger *logrus.Logger
	now    func() time.Time
}

// NewRunner creates a runner. repos may be nil to keep results in memory.
func NewRunner(cfg *config.Config, repos *repository.Repositories, logger *logrus.Logger) *Runner {
	return NewRunnerWithClock(cfg, repos, logger, time.Now)
}

// NewRunnerWithClock creates a runner with an injected clock.
func NewRunnerWithClock(cfg *config.Config, repos *repository.Repositories, logger *logrus.Logger, now func() time.Time) *Runner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Runner{cfg: cfg, repos: repos, logger: logger, now: now}
}

// Run executes the full pipeline against in-memory sources.
func (r *Runner) Run(ctx context.Context, primary ingest.Table, secondary *ingest.Table) (*RunReport, error) {
	report, err := r.run(ctx, primary, secondary)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.RunsTotal.WithLabelValues("success").Inc()
	return report, nil
}

func (r *Runner) run(ctx context.Context, primary ingest.Table, secondary *ingest.Table) (*RunReport, error) {
	start := r.now()
	runID := uuid.New()
	logger := r.logger.WithField("run_id", runID).Logger

	merger := ingest.NewMerger(
		ingest.AliasTable(r.cfg.Ingestion.PrimaryAliases),
		ingest.AliasTable(r.cfg.Ingestion.SecondaryAliases),
		logger,
	)
	merged, summary, err := merger.Merge(primary, secondary)
	if err != nil {
		return nil, err
	}

	completer := timeseries.NewCompleterWithClock(r.now, logger)
	series, err := completer.Complete(merged)
	if err != nil {
		return nil, err
	}
	metrics.HistoryDays.Set(float64(series.Len()))

	frame := features.BuildFrame(series)

	splitter, err := split.NewSplitter(split.Config{
		TestFraction:    r.cfg.Forecast.TestFraction,
		MinTotalSamples: r.cfg.Forecast.MinTotalSamples,
		MinTestSamples:  r.cfg.Forecast.MinTestSamples,
	}, logger)
	if err != nil {
		return nil, err
	}
	partition, err := splitter.Split(frame)
	if err != nil {
		return nil, err
	}

	trainCfg, err := forecast.FromConfig(&r.cfg.Models)
	if err != nil {
		return nil, err
	}
	bank, err := forecast.TrainBank(trainCfg, partition.Train, series.Len(), logger)
	if err != nil {
		return nil, err
	}

	evaluator := forecast.NewEvaluator(logger)
	records, table, err := evaluator.Evaluate(bank, partition)
	if err != nil {
		return nil, err
	}

	predictor, err := forecast.NewFuturePredictor(forecast.PredictorParams{
		Bank:                 bank,
		Schema:               frame.Schema,
		Series:               series,
		Cache:                r.newCache(),
		ExtrapolateBaselines: r.cfg.Forecast.ExtrapolateBaselines,
		Now:                  r.now,
		Logger:               logger,
	})
	if err != nil {
		return nil, err
	}
	end := models.Day(r.now()).AddDate(0, 0, r.cfg.Forecast.HorizonDays)
	forecasts, err := predictor.Forecast(end)
	if err != nil {
		return nil, err
	}

	report := &RunReport{
		RunID:        runID,
		MergeSummary: summary,
		HistoryStart: series.Start(),
		HistoryEnd:   series.End(),
		HistoryDays:  series.Len(),
		Evaluations:  records,
		Table:        table,
		Forecasts:    forecasts,
		Skipped:      skippedHandles(bank),
		Duration:     r.now().Sub(start),
	}

	if err := r.persist(ctx, report); err != nil {
		return nil, err
	}

	if best := table.Best(); best != nil {
		logger.WithFields(logrus.Fields{
			"best_model": best.ModelName,
			"duration":   report.Duration,
		}).Info("Pipeline run complete")
	}

	return report, nil
}

func (r *Runner) newCache() *forecast.PredictionCache {
	if r.cfg.Forecast.CacheTTLSeconds <= 0 {
		return nil
	}
	return forecast.NewPredictionCache(
		time.Duration(r.cfg.Forecast.CacheTTLSeconds)*time.Second,
		r.cfg.Forecast.CacheMaxSize,
	)
}

func (r *Runner) persist(ctx context.Context, report *RunReport) error {
	if r.repos == nil {
		return nil
	}
	if err := r.repos.Evaluation.InsertRecords(ctx, report.RunID, report.Evaluations); err != nil {
		return err
	}
	if err := r.repos.Evaluation.InsertComparison(ctx, report.RunID, report.Table.Rows); err != nil {
		return err
	}
	return r.repos.Forecast.InsertPoints(ctx, report.RunID, report.Forecasts)
}

func skippedHandles(bank *forecast.Bank) []models.ModelHandle {
	var skipped []models.ModelHandle
	for _, m := range bank.Models() {
		if m.Handle.Skipped {
			skipped = append(skipped, m.Handle)
		}
	}
	return skipped
}
