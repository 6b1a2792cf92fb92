// Package features derives calendar features from dates and keeps feature
// matrices aligned to the training schema.
package features

import (
	"strings"
	"time"

	"github.com/yourusername/flowcast/internal/models"
)

// dummyDays are the one-hot day-of-week columns. Monday is the dropped
// reference category; keeping k-1 dummies avoids a linear dependency in the
// OLS regressor and is applied uniformly so every model sees the same schema.
var dummyDays = []time.Weekday{
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

func dayColumn(d time.Weekday) string {
	return "dow_" + strings.ToLower(d.String())
}

// Schema returns the fixed training column order: day-of-week dummies, then
// month (1-12), then day-of-month (1-31). No scaling is applied.
func Schema() models.FeatureSchema {
	columns := make([]string, 0, len(dummyDays)+2)
	for _, d := range dummyDays {
		columns = append(columns, dayColumn(d))
	}
	columns = append(columns, "month", "day_of_month")
	return models.FeatureSchema{Columns: columns}
}

// Derive maps a calendar date to its named feature values. It is pure and
// deterministic: the same date always yields the same vector.
func Derive(date time.Time) map[string]float64 {
	out := make(map[string]float64, len(dummyDays)+2)
	weekday := date.Weekday()
	for _, d := range dummyDays {
		v := 0.0
		if weekday == d {
			v = 1.0
		}
		out[dayColumn(d)] = v
	}
	out["month"] = float64(date.Month())
	out["day_of_month"] = float64(date.Day())
	return out
}

// Row derives one labeled feature row for a transaction record.
func Row(record models.TransactionRecord) models.FeatureRow {
	return models.FeatureRow{
		Date:     record.Date,
		Features: Derive(record.Date),
		Label:    record.Amount.InexactFloat64(),
	}
}
