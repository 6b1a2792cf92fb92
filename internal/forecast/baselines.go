package forecast

import "gonum.org/v1/gonum/stat"

// Baseline is a non-parametric forecaster computed once from the train-
// partition labels. PredictIndex takes a global row index relative to the
// full daily series; indices at or beyond the split boundary are forecasts,
// indices inside the train partition are causal one-step-ahead fits. No
// baseline ever reads a label at or after the split boundary.
type Baseline interface {
	PredictIndex(i int) float64
}

// naiveLast repeats the most recent known value: the previous day inside the
// train partition, the final train value for every later point.
type naiveLast struct {
	trainY []float64
}

func newNaiveLast(trainY []float64) *naiveLast {
	return &naiveLast{trainY: trainY}
}

func (b *naiveLast) PredictIndex(i int) float64 {
	// Index 0 has no predecessor, so it echoes its own label. It is the only
	// index where the prediction reads the value it is scored against.
	if i <= 0 {
		return b.trainY[0]
	}
	if i >= len(b.trainY) {
		return b.trainY[len(b.trainY)-1]
	}
	return b.trainY[i-1]
}

// rollingMean averages the trailing window of daily values ending at the
// prediction point (clamped at the split boundary for forecasts).
type rollingMean struct {
	trainY []float64
	window int
}

func newRollingMean(trainY []float64, periods int, periodDays int) *rollingMean {
	return &rollingMean{trainY: trainY, window: periods * periodDays}
}

func (b *rollingMean) PredictIndex(i int) float64 {
	end := i
	if end > len(b.trainY) {
		end = len(b.trainY)
	}
	if end <= 0 {
		return b.trainY[0]
	}
	start := end - b.window
	if start < 0 {
		start = 0
	}
	return stat.Mean(b.trainY[start:end], nil)
}

// seasonalNaive repeats the value from the same relative position one season
// (nominally one year) earlier. Lookups landing at or after the split
// boundary step back whole seasons until they reach train data; positions
// with no prior season fall back to the naive-last rule.
type seasonalNaive struct {
	trainY []float64
	period int
	naive  *naiveLast
}

func newSeasonalNaive(trainY []float64, periodDays int) *seasonalNaive {
	return &seasonalNaive{
		trainY: trainY,
		period: periodDays,
		naive:  newNaiveLast(trainY),
	}
}

func (b *seasonalNaive) PredictIndex(i int) float64 {
	j := i - b.period
	for j >= len(b.trainY) {
		j -= b.period
	}
	if j < 0 {
		return b.naive.PredictIndex(i)
	}
	return b.trainY[j]
}
