package ingest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/flowcast/internal/models"
)

// Table is an in-memory tabular source as supplied by the validated reader.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Summary reports what the merge consumed and discarded.
type Summary struct {
	PrimaryRows   int
	SecondaryRows int
	Overwritten   int
	Duration      time.Duration
}

// Merger combines a primary (date, amount) source with an optional secondary
// (date, withdrawal, deposit) source. On a same-date collision the secondary
// value wins: it represents the newer import of the same ledger.
type Merger struct {
	primaryAliases   AliasTable
	secondaryAliases AliasTable
	logger           *logrus.Logger
}

// NewMerger creates a merger with the given alias tables. Nil tables fall
// back to the documented defaults.
func NewMerger(primary, secondary AliasTable, logger *logrus.Logger) *Merger {
	if primary == nil {
		primary = DefaultPrimaryAliases()
	}
	if secondary == nil {
		secondary = DefaultSecondaryAliases()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Merger{
		primaryAliases:   primary,
		secondaryAliases: secondary,
		logger:           logger,
	}
}

// Merge resolves columns on both sources, concatenates primary then secondary
// and deduplicates by calendar day. Within a single source the last row for a
// day wins; Overwritten counts cross-source collisions only. The result is
// sorted by date but not necessarily date-complete.
func (m *Merger) Merge(primary Table, secondary *Table) ([]models.TransactionRecord, Summary, error) {
	start := time.Now()
	summary := Summary{}

	byDay := make(map[time.Time]decimal.Decimal)

	primaryRecords, err := m.parsePrimary(primary)
	if err != nil {
		return nil, summary, err
	}
	summary.PrimaryRows = len(primaryRecords)
	for _, r := range primaryRecords {
		byDay[models.Day(r.Date)] = r.Amount
	}

	if secondary != nil {
		secondaryRecords, err := m.parseSecondary(*secondary)
		if err != nil {
			return nil, summary, err
		}
		summary.SecondaryRows = len(secondaryRecords)
		for _, r := range secondaryRecords {
			day := models.Day(r.Date)
			if _, exists := byDay[day]; exists {
				summary.Overwritten++
			}
			byDay[day] = r.Amount
		}
	}

	merged := make([]models.TransactionRecord, 0, len(byDay))
	for day, amount := range byDay {
		merged = append(merged, models.TransactionRecord{Date: day, Amount: amount})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date.Before(merged[j].Date) })

	summary.Duration = time.Since(start)
	m.logger.WithFields(logrus.Fields{
		"primary_rows":   summary.PrimaryRows,
		"secondary_rows": summary.SecondaryRows,
		"overwritten":    summary.Overwritten,
		"merged_days":    len(merged),
	}).Info("Merged transaction sources")

	return merged, summary, nil
}

func (m *Merger) parsePrimary(t Table) ([]models.TransactionRecord, error) {
	dateIdx, err := resolveColumn(t.Columns, ColumnDate, m.primaryAliases)
	if err != nil {
		return nil, err
	}
	amountIdx, err := resolveColumn(t.Columns, ColumnAmount, m.primaryAliases)
	if err != nil {
		return nil, err
	}

	records := make([]models.TransactionRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		date, err := parseDate(cell(row, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("primary row %d: %w", i, err)
		}
		amount, err := parseAmount(cell(row, amountIdx))
		if err != nil {
			return nil, fmt.Errorf("primary row %d: %w", i, err)
		}
		records = append(records, models.TransactionRecord{Date: date, Amount: amount})
	}
	return records, nil
}

// parseSecondary combines the withdrawal and deposit columns into a single
// signed amount: deposit - withdrawal. Empty cells count as zero.
func (m *Merger) parseSecondary(t Table) ([]models.TransactionRecord, error) {
	dateIdx, err := resolveColumn(t.Columns, ColumnDate, m.secondaryAliases)
	if err != nil {
		return nil, err
	}
	withdrawalIdx, err := resolveColumn(t.Columns, ColumnWithdrawal, m.secondaryAliases)
	if err != nil {
		return nil, err
	}
	depositIdx, err := resolveColumn(t.Columns, ColumnDeposit, m.secondaryAliases)
	if err != nil {
		return nil, err
	}

	records := make([]models.TransactionRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		date, err := parseDate(cell(row, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("secondary row %d: %w", i, err)
		}
		withdrawal, err := parseOptionalAmount(cell(row, withdrawalIdx))
		if err != nil {
			return nil, fmt.Errorf("secondary row %d: %w", i, err)
		}
		deposit, err := parseOptionalAmount(cell(row, depositIdx))
		if err != nil {
			return nil, fmt.Errorf("secondary row %d: %w", i, err)
		}
		records = append(records, models.TransactionRecord{
			Date:   date,
			Amount: deposit.Sub(withdrawal),
		})
	}
	return records, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return models.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

func parseAmount(value string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(value, ",", "")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount %q", value)
	}
	return amount, nil
}

func parseOptionalAmount(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return parseAmount(value)
}
