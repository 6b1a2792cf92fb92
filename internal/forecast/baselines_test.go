package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func TestNaiveLast(t *testing.T) {
	trainY := []float64{10, 20, 30}
	b := newNaiveLast(trainY)

	// Index 0 has no predecessor and echoes its own label
	assert.Equal(t, 10.0, b.PredictIndex(0))
	assert.Equal(t, 10.0, b.PredictIndex(1))
	assert.Equal(t, 20.0, b.PredictIndex(2))
	// Every point at or past the split repeats the final train value
	assert.Equal(t, 30.0, b.PredictIndex(3))
	assert.Equal(t, 30.0, b.PredictIndex(100))
}

func TestRollingMeanAtBoundary(t *testing.T) {
	// 200 train days; the 6-period mean at the boundary covers the trailing
	// 180 values ending at the boundary.
	trainY := make([]float64, 200)
	for i := range trainY {
		trainY[i] = float64(i)
	}
	b := newRollingMean(trainY, 6, 30)

	want := stat.Mean(trainY[20:200], nil)
	assert.InDelta(t, want, b.PredictIndex(200), 1e-9)
	// Forecasts further out reuse the same clamped window
	assert.InDelta(t, want, b.PredictIndex(250), 1e-9)
}

func TestRollingMeanInsideTrain(t *testing.T) {
	trainY := []float64{1, 2, 3, 4, 5, 6}
	b := newRollingMean(trainY, 1, 3)

	// Causal: the window ends just before the predicted index
	assert.InDelta(t, 1.0, b.PredictIndex(1), 1e-9)
	assert.InDelta(t, 1.5, b.PredictIndex(2), 1e-9)
	assert.InDelta(t, 2.0, b.PredictIndex(3), 1e-9)
	assert.InDelta(t, 3.0, b.PredictIndex(4), 1e-9)
}

func TestSeasonalNaiveLookback(t *testing.T) {
	// Three years of train data, value = day index
	trainY := make([]float64, 1095)
	for i := range trainY {
		trainY[i] = float64(i)
	}
	b := newSeasonalNaive(trainY, 365)

	// A future index resolves to the value exactly one year earlier
	assert.Equal(t, 1095.0-365.0, b.PredictIndex(1095))
	assert.Equal(t, 1100.0-365.0, b.PredictIndex(1100))
	// Inside the train partition the lookback is direct
	assert.Equal(t, 35.0, b.PredictIndex(400))
}

func TestSeasonalNaiveStepsBackWholeSeasons(t *testing.T) {
	trainY := make([]float64, 500)
	for i := range trainY {
		trainY[i] = float64(i)
	}
	b := newSeasonalNaive(trainY, 365)

	// Index 900 - 365 = 535 is past the train end, so it steps back another
	// season to 170.
	assert.Equal(t, 170.0, b.PredictIndex(900))
}

func TestSeasonalNaiveFallsBackWithoutPriorSeason(t *testing.T) {
	trainY := []float64{5, 6, 7}
	b := newSeasonalNaive(trainY, 365)

	// No index one season earlier exists: naive-last rule applies
	assert.Equal(t, 5.0, b.PredictIndex(0))
	assert.Equal(t, 6.0, b.PredictIndex(2))
}
