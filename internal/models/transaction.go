// Package models defines the core value types shared across the forecasting pipeline.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord represents a single day's monetary flow.
// Date carries no time-of-day component; Amount is signed.
type TransactionRecord struct {
	Date   time.Time
	Amount decimal.Decimal
}

// Day truncates a timestamp to its calendar day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
