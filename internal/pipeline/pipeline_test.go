package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/flowcast/internal/config"
	"github.com/yourusername/flowcast/internal/forecast"
	"github.com/yourusername/flowcast/internal/ingest"
	"github.com/yourusername/flowcast/internal/models"
)

var runnerNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "flowcast",
			Environment: "development",
			LogLevel:    "error",
		},
		Forecast: config.ForecastConfig{
			TestFraction:    0.25,
			MinTotalSamples: 30,
			MinTestSamples:  10,
			HorizonDays:     7,
			CacheTTLSeconds: 60,
			CacheMaxSize:    10000,
		},
		Models: config.ModelsConfig{
			Workers: 2,
			Tree: config.TreeConfig{
				MaxDepth: 4, MinSamplesSplit: 4, MinSamplesLeaf: 2,
			},
			Forest: config.ForestConfig{
				Trees: 10, MaxDepth: 4, MinSamplesSplit: 4, MinSamplesLeaf: 2, Seed: 42,
			},
			Boosting: config.BoostingConfig{
				Rounds: 20, LearningRate: 0.1, MaxDepth: 2, MinSamplesLeaf: 2,
			},
			Baselines: config.BaselinesConfig{
				PeriodDays: 30, SeasonalPeriodDays: 365,
			},
		},
	}
}

func testRunner(cfg *config.Config) *Runner {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewRunnerWithClock(cfg, nil, logger, func() time.Time { return runnerNow })
}

// primaryTable builds n daily rows ending the day before runnerNow.
func primaryTable(n int) ingest.Table {
	end := models.Day(runnerNow).AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(n - 1))
	rows := make([][]string, n)
	for i := range rows {
		date := start.AddDate(0, 0, i)
		amount := 50 + 10*int(date.Weekday())
		rows[i] = []string{date.Format("2006-01-02"), fmt.Sprintf("%d.00", amount)}
	}
	return ingest.Table{Columns: []string{"Date", "Amount"}, Rows: rows}
}

// Forty days of history clears the thresholds at a 0.25 test fraction and
// produces a full report end to end.
func TestRunFortyDayHistory(t *testing.T) {
	runner := testRunner(testConfig())

	report, err := runner.Run(context.Background(), primaryTable(40), nil)
	require.NoError(t, err)

	assert.Equal(t, 40, report.HistoryDays)
	assert.Equal(t, "2024-04-30", report.HistoryEnd.Format("2006-01-02"))
	assert.Equal(t, 40, report.MergeSummary.PrimaryRows)

	// Under a year of history: seasonal-naive is skipped, 7 models evaluated
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, forecast.ModelSeasonal, report.Skipped[0].Name)
	assert.Equal(t, "insufficient history", report.Skipped[0].SkipReason)

	assert.Len(t, report.Evaluations, 112)
	assert.Len(t, report.Table.Rows, 7)
	require.NotNil(t, report.Table.Best())
	assert.Equal(t, 1, report.Table.Best().Rank)

	// 7 models x 7 horizon days
	assert.Len(t, report.Forecasts, 49)
	for _, p := range report.Forecasts {
		assert.True(t, p.Date.After(models.Day(runnerNow)))
	}
}

func TestRunWithSecondarySource(t *testing.T) {
	runner := testRunner(testConfig())

	primary := primaryTable(40)
	overlap := primary.Rows[39][0]
	secondary := &ingest.Table{
		Columns: []string{"Value Date", "Withdrawal AMT", "Deposit AMT"},
		Rows:    [][]string{{overlap, "5.00", "25.00"}},
	}

	report, err := runner.Run(context.Background(), primary, secondary)
	require.NoError(t, err)
	assert.Equal(t, 1, report.MergeSummary.SecondaryRows)
	assert.Equal(t, 1, report.MergeSummary.Overwritten)
	assert.Equal(t, 40, report.HistoryDays)
}

func TestRunInsufficientHistory(t *testing.T) {
	runner := testRunner(testConfig())

	_, err := runner.Run(context.Background(), primaryTable(12), nil)
	var insuffErr *models.InsufficientDataError
	require.ErrorAs(t, err, &insuffErr)
	assert.Equal(t, 12, insuffErr.ObservedTotal)
}

func TestRunInsufficientTestRows(t *testing.T) {
	cfg := testConfig()
	cfg.Forecast.TestFraction = 0.2 // 40 days -> 8 test rows

	_, err := testRunner(cfg).Run(context.Background(), primaryTable(40), nil)
	var insuffErr *models.InsufficientDataError
	require.ErrorAs(t, err, &insuffErr)
	assert.Equal(t, 8, insuffErr.ObservedTest)
}

func TestRunSeasonalWithLongHistory(t *testing.T) {
	cfg := testConfig()
	cfg.Forecast.ExtrapolateBaselines = true
	runner := testRunner(cfg)

	report, err := runner.Run(context.Background(), primaryTable(800), nil)
	require.NoError(t, err)

	assert.Empty(t, report.Skipped)
	assert.Len(t, report.Table.Rows, 8)
	// 8 models x 7 horizon days, seasonal opted in
	assert.Len(t, report.Forecasts, 56)
}

func TestRunMergeErrorPropagates(t *testing.T) {
	runner := testRunner(testConfig())

	bad := ingest.Table{
		Columns: []string{"Posted", "Amount"},
		Rows:    [][]string{{"2024-04-01", "10.00"}},
	}
	_, err := runner.Run(context.Background(), bad, nil)
	var colErr *models.ColumnResolutionError
	require.ErrorAs(t, err, &colErr)
}
