/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"context"
	"net/http"

	"github.com/flamego/flamego"

	"github.com/amoakoh/parishbooks/db"
)

// statsTables maps response keys to the tables counted for the dashboard.
var statsTables = map[string]string{
	"accounts":     "accounts",
	"transactions": "account_transactions",
	"income":       "income_entries",
	"expenditure":  "expenditure_entries",
	"transfers":    "account_transfers",
	"budgets":      "budgets",
	"liabilities":  "liabilities",
	"sessions":     "reconciliation_sessions",
}

// NewStatsHandler returns the dashboard counters endpoint backed by a TTL
// cache, so frequent polling does not turn into table scans.
func NewStatsHandler(cache *db.CountCache) flamego.Handler {
	return func(c flamego.Context) {
		ctx := c.Request().Context()

		if values, ok := cache.Get(); ok {
			writeJSON(c, http.StatusOK, values)

			return
		}

		values, err := collectStats(ctx)
		if err != nil {
			logger.Error("Error collecting stats", "error", err)
			writeError(c, http.StatusInternalServerError, "failed to collect stats")

			return
		}

		cache.Set(values)
		writeJSON(c, http.StatusOK, values)
	}
}

func collectStats(ctx context.Context) (map[string]int64, error) {
	values := make(map[string]int64, len(statsTables))
	for key, table := range statsTables {
		count, err := db.CountTableRows(ctx, table)
		if err != nil {
			return nil, err
		}
		values[key] = count
	}

	return values, nil
}
