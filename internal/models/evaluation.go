package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ModelCategory distinguishes parametric regressors from naive baselines.
type ModelCategory string

const (
	CategoryRegression ModelCategory = "regression"
	CategoryBaseline   ModelCategory = "baseline"
)

// SplitName identifies the partition an evaluation was computed on.
type SplitName string

const (
	SplitTrain SplitName = "train"
	SplitTest  SplitName = "test"
)

// Metric names produced by the evaluator.
const (
	MetricRMSE  = "rmse"
	MetricMAE   = "mae"
	MetricR2    = "r2"
	MetricMedAE = "medae"
	MetricSMAPE = "smape"
	MetricP50   = "residual_p50"
	MetricP75   = "residual_p75"
	MetricP90   = "residual_p90"
)

// ModelHandle identifies one trained model within a run. Fitted state is held
// by the forecast package; handles are in-memory only and die with the process.
type ModelHandle struct {
	ID         uuid.UUID
	Name       string
	Category   ModelCategory
	Skipped    bool
	SkipReason string
}

// EvaluationRecord is one (model, split, metric) measurement.
type EvaluationRecord struct {
	ModelName string
	Split     SplitName
	Metric    string
	Value     float64
}

// ComparisonRow is one ranked entry in the cross-model report. Metrics holds
// both train and test values keyed as "<split>_<metric>".
type ComparisonRow struct {
	ModelName string
	Category  ModelCategory
	Metrics   map[string]float64
	Rank      int
}

// ForecastPoint is a single future-date point prediction from one model,
// rounded to currency precision.
type ForecastPoint struct {
	ModelName string
	Date      time.Time
	Value     decimal.Decimal
}
