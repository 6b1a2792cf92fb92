package features

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/flowcast/internal/models"
)

func TestSchemaOrder(t *testing.T) {
	schema := Schema()
	assert.Equal(t, []string{
		"dow_tuesday", "dow_wednesday", "dow_thursday", "dow_friday",
		"dow_saturday", "dow_sunday", "month", "day_of_month",
	}, schema.Columns)
}

func TestDeriveIsPure(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) // a Friday
	first := Derive(date)
	second := Derive(date)
	assert.Equal(t, first, second)

	assert.Equal(t, 1.0, first["dow_friday"])
	assert.Equal(t, 0.0, first["dow_saturday"])
	assert.Equal(t, 3.0, first["month"])
	assert.Equal(t, 15.0, first["day_of_month"])
}

// Monday is the dropped reference category: all dummies zero.
func TestDeriveMondayReference(t *testing.T) {
	monday := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	values := Derive(monday)
	for _, d := range dummyDays {
		assert.Equal(t, 0.0, values[dayColumn(d)])
	}
}

func TestDeriveSchemaConsistency(t *testing.T) {
	schema := Schema()
	dates := []time.Time{
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for _, date := range dates {
		values := Derive(date)
		assert.Len(t, values, schema.Len())
		for _, column := range schema.Columns {
			_, ok := values[column]
			assert.True(t, ok, "missing column %s", column)
		}
	}
}

func TestBuildFrame(t *testing.T) {
	records := []models.TransactionRecord{
		{Date: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(10)},
		{Date: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(20)},
		{Date: time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(30)},
	}
	series, err := models.NewDailySeries(records)
	require.NoError(t, err)

	frame := BuildFrame(series)
	assert.Equal(t, 3, frame.Len())
	assert.True(t, frame.Schema.Equal(Schema()))
	assert.Equal(t, []float64{10, 20, 30}, frame.Y)
	for _, row := range frame.X {
		assert.Len(t, row, frame.Schema.Len())
	}
	// Tuesday row has its dummy set
	assert.Equal(t, 1.0, frame.X[1][frame.Schema.Index("dow_tuesday")])
}

// The aligned matrix always matches the schema's column count and order, for
// any future date range.
func TestReconcileColumnContract(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	schema := Schema()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 400)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}

	aligned, err := Reconcile(dates, schema, logger)
	require.NoError(t, err)
	require.Len(t, aligned, len(dates))
	for _, row := range aligned {
		assert.Len(t, row, schema.Len())
	}
}

// A schema trained against a partial dummy set still reconciles: the absent
// categories are zero-filled and extra derived columns dropped.
func TestReconcilePartialSchema(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	partial := models.FeatureSchema{Columns: []string{"dow_friday", "month"}}

	dates := []time.Time{time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}
	aligned, err := Reconcile(dates, partial, logger)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, aligned[0])
}

func TestReconcileUnknownColumn(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	bad := models.FeatureSchema{Columns: []string{"dow_friday", "holiday_flag"}}

	_, err := Reconcile([]time.Time{time.Now()}, bad, logger)
	var alignErr *models.SchemaAlignmentError
	require.ErrorAs(t, err, &alignErr)
	assert.Equal(t, []string{"holiday_flag"}, alignErr.Missing)
}
