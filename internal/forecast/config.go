// Package forecast trains, scores and queries the multi-model forecasting
// bank.
package forecast

import (
	"fmt"

	"github.com/yourusername/flowcast/internal/config"
)

// TrainingConfig carries every hyperparameter the bank needs. Values always
// arrive by argument; there are no package-level mutable defaults.
type TrainingConfig struct {
	Workers   int
	Tree      TreeParams
	Forest    ForestParams
	Boosting  BoostingParams
	Baselines BaselineParams
}

// TreeParams bounds the single decision tree.
type TreeParams struct {
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	CCPAlpha        float64
}

// ForestParams configures the bagged ensemble. MaxFeatures 0 means the
// per-split default of one third of the columns.
type ForestParams struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Seed            int64
}

// BoostingParams configures the sequential shallow-tree ensemble.
type BoostingParams struct {
	Rounds         int
	LearningRate   float64
	MaxDepth       int
	MinSamplesLeaf int
	Seed           int64
}

// BaselineParams configures the naive forecasters. PeriodDays is the
// month-equivalent block used by the rolling means; SeasonalPeriodDays is the
// lookback of the seasonal-naive baseline.
type BaselineParams struct {
	PeriodDays         int
	SeasonalPeriodDays int
}

// FromConfig converts the application models config into a training config.
func FromConfig(cfg *config.ModelsConfig) (TrainingConfig, error) {
	if cfg == nil {
		return TrainingConfig{}, fmt.Errorf("models config is required")
	}

	tc := TrainingConfig{
		Workers: cfg.Workers,
		Tree: TreeParams{
			MaxDepth:        cfg.Tree.MaxDepth,
			MinSamplesSplit: cfg.Tree.MinSamplesSplit,
			MinSamplesLeaf:  cfg.Tree.MinSamplesLeaf,
			CCPAlpha:        cfg.Tree.CCPAlpha,
		},
		Forest: ForestParams{
			Trees:           cfg.Forest.Trees,
			MaxDepth:        cfg.Forest.MaxDepth,
			MinSamplesSplit: cfg.Forest.MinSamplesSplit,
			MinSamplesLeaf:  cfg.Forest.MinSamplesLeaf,
			MaxFeatures:     cfg.Forest.MaxFeatures,
			Seed:            cfg.Forest.Seed,
		},
		Boosting: BoostingParams{
			Rounds:         cfg.Boosting.Rounds,
			LearningRate:   cfg.Boosting.LearningRate,
			MaxDepth:       cfg.Boosting.MaxDepth,
			MinSamplesLeaf: cfg.Boosting.MinSamplesLeaf,
			Seed:           cfg.Boosting.Seed,
		},
		Baselines: BaselineParams{
			PeriodDays:         cfg.Baselines.PeriodDays,
			SeasonalPeriodDays: cfg.Baselines.SeasonalPeriodDays,
		},
	}

	return tc, tc.Validate()
}

// Validate checks the hyperparameter ranges.
func (c TrainingConfig) Validate() error {
	if c.Tree.MaxDepth <= 0 || c.Forest.MaxDepth <= 0 || c.Boosting.MaxDepth <= 0 {
		return fmt.Errorf("tree depths must be positive")
	}
	if c.Forest.Trees <= 0 {
		return fmt.Errorf("forest must have at least one tree")
	}
	if c.Boosting.Rounds <= 0 {
		return fmt.Errorf("boosting rounds must be positive")
	}
	if c.Boosting.LearningRate <= 0 || c.Boosting.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0, 1]")
	}
	if c.Baselines.PeriodDays <= 0 || c.Baselines.SeasonalPeriodDays <= 0 {
		return fmt.Errorf("baseline windows must be positive")
	}
	return nil
}

func (c TrainingConfig) workers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}
