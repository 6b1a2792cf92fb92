package features

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/flowcast/internal/models"
)

// Frame is a date-ascending feature matrix with its schema and labels. Rows
// are ordered by the schema's columns. Frames are value types; slicing shares
// backing arrays but callers never mutate rows in place.
type Frame struct {
	Dates  []time.Time
	Schema models.FeatureSchema
	X      [][]float64
	Y      []float64
}

// Len returns the number of rows.
func (f Frame) Len() int {
	return len(f.Dates)
}

// Slice returns the half-open row range [i, j).
func (f Frame) Slice(i, j int) Frame {
	return Frame{
		Dates:  f.Dates[i:j],
		Schema: f.Schema,
		X:      f.X[i:j],
		Y:      f.Y[i:j],
	}
}

// BuildFrame derives the full labeled feature matrix for a daily series.
func BuildFrame(series models.DailySeries) Frame {
	schema := Schema()
	n := series.Len()
	frame := Frame{
		Dates:  make([]time.Time, n),
		Schema: schema,
		X:      make([][]float64, n),
		Y:      make([]float64, n),
	}
	for i := 0; i < n; i++ {
		record := series.At(i)
		row := Row(record)
		frame.Dates[i] = row.Date
		frame.X[i] = orderRow(row.Features, schema)
		frame.Y[i] = row.Label
	}
	return frame
}

// Reconcile derives features for out-of-sample dates and aligns them to the
// training schema: absent dummy categories are zero-filled, derived columns
// unseen in training are dropped with a warning. The aligned matrix always has
// exactly the schema's column count and order.
func Reconcile(dates []time.Time, schema models.FeatureSchema, logger *logrus.Logger) ([][]float64, error) {
	if logger == nil {
		logger = logrus.New()
	}
	universe := Schema()
	var missing []string
	for _, column := range schema.Columns {
		if universe.Index(column) < 0 {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, &models.SchemaAlignmentError{
			SchemaColumns: schema.Columns,
			Missing:       missing,
		}
	}

	warned := map[string]bool{}
	aligned := make([][]float64, len(dates))
	for i, date := range dates {
		derived := Derive(date)
		for column := range derived {
			if schema.Index(column) < 0 && !warned[column] {
				warned[column] = true
				logger.WithField("column", column).Warn("Dropping feature column unseen in training")
			}
		}
		aligned[i] = orderRow(derived, schema)
	}
	return aligned, nil
}

func orderRow(values map[string]float64, schema models.FeatureSchema) []float64 {
	row := make([]float64, schema.Len())
	for i, column := range schema.Columns {
		row[i] = values[column]
	}
	return row
}
