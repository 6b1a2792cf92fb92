package ingest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/flowcast/internal/models"
)

func newTestMerger() *Merger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewMerger(nil, nil, logger)
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Value Date", "valuedate"},
		{"ValueDate", "valuedate"},
		{"  value_date ", "valuedate"},
		{"WITHDRAWAL AMT", "withdrawalamt"},
		{"amount", "amount"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeHeader(tt.in))
	}
}

func TestMergePrimaryOnly(t *testing.T) {
	merger := newTestMerger()

	primary := Table{
		Columns: []string{"Date", "Amount"},
		Rows: [][]string{
			{"2024-03-02", "-25.50"},
			{"2024-03-01", "100.00"},
		},
	}

	records, summary, err := merger.Merge(primary, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, summary.PrimaryRows)
	assert.Equal(t, 0, summary.Overwritten)

	// Sorted by date regardless of input order
	assert.Equal(t, "2024-03-01", records[0].Date.Format("2006-01-02"))
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, records[1].Amount.Equal(decimal.RequireFromString("-25.50")))
}

// TestMergeSecondaryWinsOnDuplicateDate pins the dedup policy: the secondary
// source is the newer import, so its value replaces the primary's.
func TestMergeSecondaryWinsOnDuplicateDate(t *testing.T) {
	merger := newTestMerger()

	primary := Table{
		Columns: []string{"Date", "Amount"},
		Rows: [][]string{
			{"2024-03-01", "100.00"},
			{"2024-03-02", "50.00"},
		},
	}
	secondary := Table{
		Columns: []string{"Value Date", "Withdrawal AMT", "Deposit AMT"},
		Rows: [][]string{
			{"2024-03-02", "30.00", "10.00"},
			{"2024-03-03", "", "75.00"},
		},
	}

	records, summary, err := merger.Merge(primary, &secondary)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 1, summary.Overwritten)

	// 2024-03-02 comes from the secondary: deposit 10 - withdrawal 30 = -20
	assert.Equal(t, "2024-03-02", records[1].Date.Format("2006-01-02"))
	assert.True(t, records[1].Amount.Equal(decimal.RequireFromString("-20.00")),
		"expected secondary value -20.00, got %s", records[1].Amount)
	assert.True(t, records[2].Amount.Equal(decimal.RequireFromString("75.00")))
}

// Duplicate dates inside one source are a re-stated row, not a collision
// between sources: the last row wins and Overwritten stays at zero.
func TestMergeDuplicateDatesWithinPrimary(t *testing.T) {
	merger := newTestMerger()

	primary := Table{
		Columns: []string{"Date", "Amount"},
		Rows: [][]string{
			{"2024-03-01", "100.00"},
			{"2024-03-01", "40.00"},
		},
	}

	records, summary, err := merger.Merge(primary, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, summary.PrimaryRows)
	assert.Equal(t, 0, summary.Overwritten)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("40.00")))
}

func TestMergeMissingColumn(t *testing.T) {
	merger := newTestMerger()

	primary := Table{
		Columns: []string{"Posted", "Amount"},
		Rows:    [][]string{{"2024-03-01", "10"}},
	}

	_, _, err := merger.Merge(primary, nil)
	require.Error(t, err)

	var colErr *models.ColumnResolutionError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, ColumnDate, colErr.Column)
	assert.False(t, colErr.Ambiguous)
	assert.Equal(t, []string{"Posted", "Amount"}, colErr.Available)
}

func TestMergeAmbiguousColumn(t *testing.T) {
	merger := newTestMerger()

	primary := Table{
		Columns: []string{"Date", "date ", "Amount"},
		Rows:    [][]string{{"2024-03-01", "2024-03-01", "10"}},
	}

	_, _, err := merger.Merge(primary, nil)
	var colErr *models.ColumnResolutionError
	require.ErrorAs(t, err, &colErr)
	assert.True(t, colErr.Ambiguous)
}

func TestMergeUnparseableValues(t *testing.T) {
	merger := newTestMerger()

	tests := []struct {
		name string
		rows [][]string
	}{
		{"bad date", [][]string{{"not-a-date", "10"}}},
		{"bad amount", [][]string{{"2024-03-01", "ten"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := merger.Merge(Table{
				Columns: []string{"Date", "Amount"},
				Rows:    tt.rows,
			}, nil)
			assert.Error(t, err)
		})
	}
}

func TestMergeThousandsSeparators(t *testing.T) {
	merger := newTestMerger()

	primary := Table{
		Columns: []string{"Date", "Amount"},
		Rows:    [][]string{{"2024-03-01", "1,250.75"}},
	}

	records, _, err := merger.Merge(primary, nil)
	require.NoError(t, err)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("1250.75")))
}
