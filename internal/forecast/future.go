package forecast

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/flowcast/internal/features"
	"github.com/yourusername/flowcast/internal/metrics"
	"github.com/yourusername/flowcast/internal/models"
)

// PredictorParams wires a FuturePredictor. Bank, Schema and Series are
// required; the rest have sensible defaults.
type PredictorParams struct {
	Bank   *Bank
	Schema models.FeatureSchema
	Series models.DailySeries

	// Cache is optional per-(model, date) memoization.
	Cache *PredictionCache

	// ExtrapolateBaselines includes positionally-aligned baselines (the
	// seasonal-naive) in extrapolation. Constant baselines are always
	// included.
	ExtrapolateBaselines bool

	Now    func() time.Time
	Logger *logrus.Logger
}

// FuturePredictor builds aligned future feature rows and queries the bank for
// per-date point predictions.
type FuturePredictor struct {
	params PredictorParams
}

// NewFuturePredictor validates params and builds a predictor.
func NewFuturePredictor(params PredictorParams) (*FuturePredictor, error) {
	if params.Bank == nil {
		return nil, fmt.Errorf("bank is required")
	}
	if params.Schema.Len() == 0 {
		return nil, fmt.Errorf("training schema is required")
	}
	if params.Series.Len() == 0 {
		return nil, fmt.Errorf("historical series is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Logger == nil {
		params.Logger = logrus.New()
	}
	return &FuturePredictor{params: params}, nil
}

// Forecast predicts every day in [tomorrow, end]. The end date must leave at
// least one future day; predictions are rounded to currency precision.
func (p *FuturePredictor) Forecast(end time.Time) ([]models.ForecastPoint, error) {
	today := models.Day(p.params.Now())
	endDay := models.Day(end)
	if !endDay.After(today) {
		return nil, &models.DataShapeError{
			Msg:   "empty forecast range",
			Start: today.AddDate(0, 0, 1),
			End:   endDay,
		}
	}

	start := today.AddDate(0, 0, 1)
	days := int(endDay.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, days)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}

	aligned, err := features.Reconcile(dates, p.params.Schema, p.params.Logger)
	if err != nil {
		return nil, err
	}

	var points []models.ForecastPoint
	for _, model := range p.params.Bank.Models() {
		if model.Handle.Skipped {
			continue
		}
		if !model.IsRegression() && !p.includeBaseline(model) {
			continue
		}
		for i, date := range dates {
			value, cached := p.cachedValue(model.Handle.Name, date)
			if !cached {
				var raw float64
				if model.IsRegression() {
					raw = model.PredictRow(aligned[i])
				} else {
					raw = model.PredictIndex(p.futureIndex(date))
				}
				value = decimal.NewFromFloat(raw).Round(2)
				p.storeValue(model.Handle.Name, date, value)
			}
			points = append(points, models.ForecastPoint{
				ModelName: model.Handle.Name,
				Date:      date,
				Value:     value,
			})
		}
	}

	metrics.ForecastDays.Set(float64(days))
	p.params.Logger.WithFields(logrus.Fields{
		"from":   start.Format("2006-01-02"),
		"to":     endDay.Format("2006-01-02"),
		"days":   days,
		"points": len(points),
	}).Info("Forecast generated")

	return points, nil
}

// includeBaseline decides whether a baseline participates in extrapolation.
// The seasonal-naive depends on positional alignment against history and is
// only queried when explicitly enabled.
func (p *FuturePredictor) includeBaseline(model *Model) bool {
	if model.Handle.Name == ModelSeasonal {
		return p.params.ExtrapolateBaselines
	}
	return true
}

// futureIndex maps a future calendar day onto the global series index space
// the baselines were fitted against.
func (p *FuturePredictor) futureIndex(date time.Time) int {
	gap := int(date.Sub(p.params.Series.End()).Hours() / 24)
	return p.params.Series.Len() - 1 + gap
}

func (p *FuturePredictor) cachedValue(model string, date time.Time) (decimal.Decimal, bool) {
	if p.params.Cache == nil {
		return decimal.Zero, false
	}
	return p.params.Cache.Get(model, date)
}

func (p *FuturePredictor) storeValue(model string, date time.Time, value decimal.Decimal) {
	if p.params.Cache != nil {
		p.params.Cache.Set(model, date, value)
	}
}
