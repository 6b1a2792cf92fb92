package models

import "time"

// FeatureRow holds the derived calendar features and label for one day.
// Features are keyed by column name; ordering is imposed by a FeatureSchema.
type FeatureRow struct {
	Date     time.Time
	Features map[string]float64
	Label    float64
}

// FeatureSchema is the ordered column contract a feature matrix must satisfy.
// The schema produced at training time is the single source of truth for
// out-of-sample rows.
type FeatureSchema struct {
	Columns []string
}

// Index returns the position of a column, or -1 when absent.
func (s FeatureSchema) Index(column string) int {
	for i, c := range s.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Equal reports whether two schemas have identical columns in identical order.
func (s FeatureSchema) Equal(other FeatureSchema) bool {
	if len(s.Columns) != len(other.Columns) {
		return false
	}
	for i, c := range s.Columns {
		if other.Columns[i] != c {
			return false
		}
	}
	return true
}

// Len returns the number of columns.
func (s FeatureSchema) Len() int {
	return len(s.Columns)
}
