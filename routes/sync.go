/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"

	"github.com/flamego/flamego"

	"github.com/amoakoh/parishbooks/db"
)

// LedgerSync runs a full resynchronization pass: source backfill,
// cross-copy between the log tables, orphan pruning and a batch balance
// recompute. Always returns the report, with any step failures inside it.
func LedgerSync(c flamego.Context) {
	ctx := c.Request().Context()

	report := db.SyncAll(ctx)

	status := http.StatusOK
	if len(report.Errors) > 0 {
		status = http.StatusMultiStatus
	}

	writeJSON(c, status, report)
}
