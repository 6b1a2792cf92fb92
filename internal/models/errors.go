package models

import (
	"fmt"
	"strings"
	"time"
)

// DataShapeError reports input that cannot form a usable daily series or
// forecast range: no historical data, only-future dates, or an empty range.
type DataShapeError struct {
	Msg   string
	Start time.Time
	End   time.Time
}

func (e *DataShapeError) Error() string {
	if e.Start.IsZero() && e.End.IsZero() {
		return fmt.Sprintf("data shape: %s", e.Msg)
	}
	return fmt.Sprintf("data shape: %s (range %s to %s)",
		e.Msg, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// InsufficientDataError reports a sample count below the configured minimums.
type InsufficientDataError struct {
	ObservedTotal int
	RequiredTotal int
	ObservedTest  int
	RequiredTest  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf(
		"insufficient data: %d total samples (need >= %d), %d test samples (need >= %d); supply more history or lower test_fraction",
		e.ObservedTotal, e.RequiredTotal, e.ObservedTest, e.RequiredTest)
}

// SchemaAlignmentError reports future feature columns that cannot be
// reconciled against the training schema.
type SchemaAlignmentError struct {
	SchemaColumns []string
	Missing       []string
}

func (e *SchemaAlignmentError) Error() string {
	return fmt.Sprintf("schema alignment: cannot reconcile columns %s against training schema [%s]",
		strings.Join(e.Missing, ", "), strings.Join(e.SchemaColumns, ", "))
}

// ColumnResolutionError reports a required source column that is missing or
// matches more than one header.
type ColumnResolutionError struct {
	Column    string
	Ambiguous bool
	Available []string
}

func (e *ColumnResolutionError) Error() string {
	reason := "not found"
	if e.Ambiguous {
		reason = "ambiguous"
	}
	return fmt.Sprintf("column %q %s; available columns: [%s]",
		e.Column, reason, strings.Join(e.Available, ", "))
}
