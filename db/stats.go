/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"
)

// countableTables is the allowlist for CountTableRows; the table name is
// interpolated into SQL so it must never come from user input.
var countableTables = map[string]struct{}{
	"accounts":                {},
	"account_transactions":    {},
	"account_tx_log":          {},
	"income_entries":          {},
	"expenditure_entries":     {},
	"account_transfers":       {},
	"budgets":                 {},
	"liabilities":             {},
	"reconciliation_sessions": {},
}

// CountTableRows returns the row count of one allowlisted table.
func CountTableRows(ctx context.Context, table string) (int64, error) {
	if pool == nil {
		return 0, ErrDatabaseConnectionNotInitialized
	}

	if _, ok := countableTables[table]; !ok {
		return 0, fmt.Errorf("table %q is not countable", table)
	}

	var count int64
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}

	return count, nil
}
