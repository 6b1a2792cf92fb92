package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySeries is a gap-free, uniquely-dated daily sequence of transactions.
// It is immutable once built; accessors return copies.
type DailySeries struct {
	records []TransactionRecord
}

// NewDailySeries validates and wraps a record slice. Records must be strictly
// ascending by day with no gaps.
func NewDailySeries(records []TransactionRecord) (DailySeries, error) {
	if len(records) == 0 {
		return DailySeries{}, &DataShapeError{Msg: "no historical data"}
	}
	for i := 1; i < len(records); i++ {
		prev := Day(records[i-1].Date)
		cur := Day(records[i].Date)
		if !cur.Equal(prev.AddDate(0, 0, 1)) {
			return DailySeries{}, &DataShapeError{
				Msg:   "series is not gapless and strictly ascending",
				Start: prev,
				End:   cur,
			}
		}
	}
	out := make([]TransactionRecord, len(records))
	copy(out, records)
	return DailySeries{records: out}, nil
}

// Len returns the number of days in the series.
func (s DailySeries) Len() int {
	return len(s.records)
}

// At returns the record at index i.
func (s DailySeries) At(i int) TransactionRecord {
	return s.records[i]
}

// Start returns the first calendar day of the series.
func (s DailySeries) Start() time.Time {
	return s.records[0].Date
}

// End returns the last calendar day of the series.
func (s DailySeries) End() time.Time {
	return s.records[len(s.records)-1].Date
}

// Records returns a defensive copy of the underlying records.
func (s DailySeries) Records() []TransactionRecord {
	out := make([]TransactionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Amounts returns the label sequence as decimals, oldest first.
func (s DailySeries) Amounts() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.records))
	for i, r := range s.records {
		out[i] = r.Amount
	}
	return out
}
