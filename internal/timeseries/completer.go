// Package timeseries builds gapless daily series from sparse transaction sets.
package timeseries

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/flowcast/internal/models"
)

// Completer expands a sparse, unordered date/amount set into a DailySeries
// spanning [min(date), yesterday]. Today is excluded so the model never trains
// on a partial day.
type Completer struct {
	now    func() time.Time
	logger *logrus.Logger
}

// NewCompleter creates a completer on the wall clock.
func NewCompleter(logger *logrus.Logger) *Completer {
	return NewCompleterWithClock(time.Now, logger)
}

// NewCompleterWithClock creates a completer with an injected clock.
func NewCompleterWithClock(now func() time.Time, logger *logrus.Logger) *Completer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Completer{now: now, logger: logger}
}

// Complete aggregates records by calendar day (summing same-day entries),
// drops today and future-dated rows, and zero-fills every missing day up to
// yesterday. Applying Complete to its own output is a fixed point.
func (c *Completer) Complete(records []models.TransactionRecord) (models.DailySeries, error) {
	if len(records) == 0 {
		return models.DailySeries{}, &models.DataShapeError{Msg: "no historical data"}
	}

	yesterday := models.Day(c.now()).AddDate(0, 0, -1)

	byDay := make(map[time.Time]decimal.Decimal)
	var minDay time.Time
	dropped := 0
	for _, r := range records {
		day := models.Day(r.Date)
		if day.After(yesterday) {
			dropped++
			continue
		}
		byDay[day] = byDay[day].Add(r.Amount)
		if minDay.IsZero() || day.Before(minDay) {
			minDay = day
		}
	}

	if len(byDay) == 0 {
		return models.DailySeries{}, &models.DataShapeError{
			Msg:   "all records are dated today or later",
			Start: models.Day(records[0].Date),
			End:   yesterday,
		}
	}
	if dropped > 0 {
		c.logger.WithField("dropped_rows", dropped).Warn("Dropped records dated today or later")
	}

	days := int(yesterday.Sub(minDay).Hours()/24) + 1
	filled := make([]models.TransactionRecord, 0, days)
	for day := minDay; !day.After(yesterday); day = day.AddDate(0, 0, 1) {
		filled = append(filled, models.TransactionRecord{Date: day, Amount: byDay[day]})
	}

	series, err := models.NewDailySeries(filled)
	if err != nil {
		return models.DailySeries{}, err
	}

	c.logger.WithFields(logrus.Fields{
		"start": series.Start().Format("2006-01-02"),
		"end":   series.End().Format("2006-01-02"),
		"days":  series.Len(),
	}).Debug("Completed daily series")

	return series, nil
}
