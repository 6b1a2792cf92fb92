package forecast

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/flowcast/internal/features"
	"github.com/yourusername/flowcast/internal/metrics"
	"github.com/yourusername/flowcast/internal/models"
)

// Model names as reported in evaluation records and forecasts.
const (
	ModelLinear       = "linear_regression"
	ModelTree         = "decision_tree"
	ModelForest       = "bagged_trees"
	ModelBoosting     = "gradient_boosting"
	ModelNaiveLast    = "naive_last_value"
	ModelRollingMean3 = "rolling_mean_3"
	ModelRollingMean6 = "rolling_mean_6"
	ModelSeasonal     = "seasonal_naive"
)

// Model pairs a handle with its fitted state. Exactly one of regressor or
// baseline is set unless the model was skipped.
type Model struct {
	Handle    models.ModelHandle
	regressor Regressor
	baseline  Baseline
}

// IsRegression reports whether the model is queried with feature rows.
func (m *Model) IsRegression() bool {
	return m.Handle.Category == models.CategoryRegression
}

// PredictRow queries a regression model with a schema-ordered feature row.
func (m *Model) PredictRow(row []float64) float64 {
	return m.regressor.Predict(row)
}

// PredictIndex queries a baseline with a global series index.
func (m *Model) PredictIndex(i int) float64 {
	return m.baseline.PredictIndex(i)
}

// Bank holds every model of a run, trained against the identical train
// partition so cross-model comparisons stay fair.
type Bank struct {
	models   []*Model
	trainLen int
	logger   *logrus.Logger
}

// Models returns the trained (and skipped) models in a stable order.
func (b *Bank) Models() []*Model {
	return b.models
}

// TrainLen returns the train-partition length the bank was fitted on.
func (b *Bank) TrainLen() int {
	return b.trainLen
}

// TrainBank fits both families against the train partition. historyDays is
// the full series length and gates the seasonal baseline. The model trainings
// share no mutable state, so they run on a small worker pool.
func TrainBank(cfg TrainingConfig, train features.Frame, historyDays int, logger *logrus.Logger) (*Bank, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if train.Len() == 0 {
		return nil, &models.DataShapeError{Msg: "empty train partition"}
	}
	if logger == nil {
		logger = logrus.New()
	}

	trainY := train.Y

	type job struct {
		name  string
		build func() (*Model, error)
	}

	jobs := []job{
		{ModelLinear, func() (*Model, error) {
			return fitRegression(ModelLinear, newLinearRegressor(), train)
		}},
		{ModelTree, func() (*Model, error) {
			tree := newRegressionTree(treeParams{
				maxDepth:        cfg.Tree.MaxDepth,
				minSamplesSplit: cfg.Tree.MinSamplesSplit,
				minSamplesLeaf:  cfg.Tree.MinSamplesLeaf,
				ccpAlpha:        cfg.Tree.CCPAlpha,
			})
			return fitRegression(ModelTree, tree, train)
		}},
		{ModelForest, func() (*Model, error) {
			return fitRegression(ModelForest, newBaggedForest(cfg.Forest), train)
		}},
		{ModelBoosting, func() (*Model, error) {
			return fitRegression(ModelBoosting, newBoostedTrees(cfg.Boosting), train)
		}},
		{ModelNaiveLast, func() (*Model, error) {
			return newBaselineModel(ModelNaiveLast, newNaiveLast(trainY)), nil
		}},
		{ModelRollingMean3, func() (*Model, error) {
			return newBaselineModel(ModelRollingMean3, newRollingMean(trainY, 3, cfg.Baselines.PeriodDays)), nil
		}},
		{ModelRollingMean6, func() (*Model, error) {
			return newBaselineModel(ModelRollingMean6, newRollingMean(trainY, 6, cfg.Baselines.PeriodDays)), nil
		}},
		{ModelSeasonal, func() (*Model, error) {
			if historyDays < cfg.Baselines.SeasonalPeriodDays {
				logger.WithFields(logrus.Fields{
					"history_days": historyDays,
					"required":     cfg.Baselines.SeasonalPeriodDays,
				}).Warn("Skipping seasonal-naive baseline: insufficient history")
				metrics.BaselinesSkippedTotal.Inc()
				return &Model{Handle: models.ModelHandle{
					ID:         uuid.New(),
					Name:       ModelSeasonal,
					Category:   models.CategoryBaseline,
					Skipped:    true,
					SkipReason: "insufficient history",
				}}, nil
			}
			return newBaselineModel(ModelSeasonal, newSeasonalNaive(trainY, cfg.Baselines.SeasonalPeriodDays)), nil
		}},
	}

	results := make([]*Model, len(jobs))
	errs := make([]error, len(jobs))

	sem := make(chan struct{}, cfg.workers())
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			start := time.Now()
			model, err := j.build()
			if err != nil {
				errs[i] = fmt.Errorf("training %s: %w", j.name, err)
				return
			}
			results[i] = model
			metrics.TrainingDuration.WithLabelValues(j.name).Observe(time.Since(start).Seconds())
			if !model.Handle.Skipped {
				metrics.ModelsTrainedTotal.WithLabelValues(j.name, string(model.Handle.Category)).Inc()
			}
		}(i, j)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	logger.WithFields(logrus.Fields{
		"models":     len(results),
		"train_rows": train.Len(),
	}).Info("Model bank trained")

	return &Bank{models: results, trainLen: train.Len(), logger: logger}, nil
}

func fitRegression(name string, reg Regressor, train features.Frame) (*Model, error) {
	if err := reg.Fit(train.X, train.Y); err != nil {
		return nil, err
	}
	return &Model{
		Handle: models.ModelHandle{
			ID:       uuid.New(),
			Name:     name,
			Category: models.CategoryRegression,
		},
		regressor: reg,
	}, nil
}

func newBaselineModel(name string, base Baseline) *Model {
	return &Model{
		Handle: models.ModelHandle{
			ID:       uuid.New(),
			Name:     name,
			Category: models.CategoryBaseline,
		},
		baseline: base,
	}
}
