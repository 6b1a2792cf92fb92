// Package ingest merges and deduplicates transaction sources ahead of the
// forecasting pipeline.
package ingest

import (
	"strings"

	"github.com/yourusername/flowcast/internal/models"
)

// Canonical column names resolved by the merger.
const (
	ColumnDate       = "date"
	ColumnAmount     = "amount"
	ColumnWithdrawal = "withdrawal"
	ColumnDeposit    = "deposit"
)

// AliasTable maps a canonical column name to its accepted header spellings.
// Matching is performed on normalized headers, so entries only need to differ
// in wording, not in case or spacing.
type AliasTable map[string][]string

// DefaultPrimaryAliases covers the primary (date, amount) source.
func DefaultPrimaryAliases() AliasTable {
	return AliasTable{
		ColumnDate:   {"date", "transaction date", "posted date"},
		ColumnAmount: {"amount", "value", "transaction amount"},
	}
}

// DefaultSecondaryAliases covers the secondary (date, withdrawal, deposit)
// source, which typically comes from a bank export with its own headers.
func DefaultSecondaryAliases() AliasTable {
	return AliasTable{
		ColumnDate:       {"date", "value date", "transaction date", "txn date"},
		ColumnWithdrawal: {"withdrawal", "withdrawal amt", "debit", "debit amount"},
		ColumnDeposit:    {"deposit", "deposit amt", "credit", "credit amount"},
	}
}

// normalizeHeader folds a header to its comparison form: trimmed, lower-cased,
// with separator characters removed. "Value Date", "value_date" and
// "ValueDate" all normalize to "valuedate".
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '.', '\t':
			return -1
		}
		return r
	}, h)
}

// resolveColumn finds the index of the canonical column among headers.
// Exactly one header may match the alias set; zero or several is an error.
func resolveColumn(headers []string, canonical string, aliases AliasTable) (int, error) {
	accepted := map[string]bool{normalizeHeader(canonical): true}
	for _, a := range aliases[canonical] {
		accepted[normalizeHeader(a)] = true
	}

	found := -1
	for i, h := range headers {
		if !accepted[normalizeHeader(h)] {
			continue
		}
		if found >= 0 {
			return -1, &models.ColumnResolutionError{
				Column:    canonical,
				Ambiguous: true,
				Available: headers,
			}
		}
		found = i
	}
	if found < 0 {
		return -1, &models.ColumnResolutionError{
			Column:    canonical,
			Available: headers,
		}
	}
	return found, nil
}
