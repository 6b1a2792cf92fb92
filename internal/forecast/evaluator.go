package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/flowcast/internal/metrics"
	"github.com/yourusername/flowcast/internal/models"
	"github.com/yourusername/flowcast/internal/split"
)

// smapeFloor keeps the symmetric percentage error defined when both actual
// and predicted values sit near zero.
const smapeFloor = 1e-8

// ComparisonTable is the ranked cross-model report, ascending by test MAE
// with ties broken by test RMSE. Baselines rank alongside regressors.
type ComparisonTable struct {
	Rows []models.ComparisonRow
}

// Best returns the top-ranked row, or nil for an empty table.
func (t ComparisonTable) Best() *models.ComparisonRow {
	if len(t.Rows) == 0 {
		return nil
	}
	return &t.Rows[0]
}

// Evaluator scores every model of a bank on both partitions.
type Evaluator struct {
	logger *logrus.Logger
}

// NewEvaluator creates an evaluator.
func NewEvaluator(logger *logrus.Logger) *Evaluator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Evaluator{logger: logger}
}

// Evaluate computes one EvaluationRecord per (model, split, metric) and the
// ranked comparison table. Skipped models are excluded.
func (e *Evaluator) Evaluate(bank *Bank, sp split.Split) ([]models.EvaluationRecord, ComparisonTable, error) {
	start := time.Now()

	var records []models.EvaluationRecord
	var rows []models.ComparisonRow

	for _, model := range bank.Models() {
		if model.Handle.Skipped {
			continue
		}

		trainPred := predictPartition(model, sp.Train.X, 0)
		testPred := predictPartition(model, sp.Test.X, sp.Index)

		trainMetrics := computeMetrics(sp.Train.Y, trainPred)
		testMetrics := computeMetrics(sp.Test.Y, testPred)

		for metric, value := range trainMetrics {
			records = append(records, models.EvaluationRecord{
				ModelName: model.Handle.Name,
				Split:     models.SplitTrain,
				Metric:    metric,
				Value:     value,
			})
		}
		for metric, value := range testMetrics {
			records = append(records, models.EvaluationRecord{
				ModelName: model.Handle.Name,
				Split:     models.SplitTest,
				Metric:    metric,
				Value:     value,
			})
		}

		combined := make(map[string]float64, 2*len(trainMetrics))
		for metric, value := range trainMetrics {
			combined["train_"+metric] = value
		}
		for metric, value := range testMetrics {
			combined["test_"+metric] = value
		}
		rows = append(rows, models.ComparisonRow{
			ModelName: model.Handle.Name,
			Category:  model.Handle.Category,
			Metrics:   combined,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		mi, mj := rows[i].Metrics, rows[j].Metrics
		if mi["test_"+models.MetricMAE] != mj["test_"+models.MetricMAE] {
			return mi["test_"+models.MetricMAE] < mj["test_"+models.MetricMAE]
		}
		return mi["test_"+models.MetricRMSE] < mj["test_"+models.MetricRMSE]
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	if len(rows) > 0 {
		e.logger.WithFields(logrus.Fields{
			"models":   len(rows),
			"best":     rows[0].ModelName,
			"best_mae": rows[0].Metrics["test_"+models.MetricMAE],
		}).Info("Evaluation complete")
	}

	return records, ComparisonTable{Rows: rows}, nil
}

// predictPartition queries a model across a partition. offset is the global
// index of the partition's first row, which baselines need for positional
// lookups.
func predictPartition(model *Model, x [][]float64, offset int) []float64 {
	preds := make([]float64, len(x))
	for i := range x {
		if model.IsRegression() {
			preds[i] = model.PredictRow(x[i])
		} else {
			preds[i] = model.PredictIndex(offset + i)
		}
	}
	return preds
}

// computeMetrics returns every evaluator metric for one partition. Negative
// R-squared and zero-heavy label sequences are legitimate results, never
// errors.
func computeMetrics(actual, predicted []float64) map[string]float64 {
	n := len(actual)
	absResiduals := make([]float64, n)
	sqSum := 0.0
	absSum := 0.0
	smapeSum := 0.0
	for i := 0; i < n; i++ {
		diff := predicted[i] - actual[i]
		sqSum += diff * diff
		abs := math.Abs(diff)
		absSum += abs
		absResiduals[i] = abs

		denom := math.Abs(actual[i]) + math.Abs(predicted[i])
		if denom < smapeFloor {
			denom = smapeFloor
		}
		smapeSum += 2 * abs / denom
	}

	sort.Float64s(absResiduals)
	fn := float64(n)

	// Constant labels leave r-squared undefined; pin it instead of emitting
	// NaN downstream.
	r2 := stat.RSquaredFrom(predicted, actual, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		if sqSum == 0 {
			r2 = 1
		} else {
			r2 = 0
		}
	}

	return map[string]float64{
		models.MetricRMSE:  math.Sqrt(sqSum / fn),
		models.MetricMAE:   absSum / fn,
		models.MetricR2:    r2,
		models.MetricMedAE: stat.Quantile(0.5, stat.Empirical, absResiduals, nil),
		models.MetricSMAPE: smapeSum / fn * 100,
		models.MetricP50:   stat.Quantile(0.5, stat.Empirical, absResiduals, nil),
		models.MetricP75:   stat.Quantile(0.75, stat.Empirical, absResiduals, nil),
		models.MetricP90:   stat.Quantile(0.9, stat.Empirical, absResiduals, nil),
	}
}
