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

// Healthz reports process and database health.
func Healthz(c flamego.Context) {
	ctx := c.Request().Context()

	if err := db.Ping(ctx); err != nil {
		logger.Error("Health check failed", "error", err)
		writeJSON(c, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "unreachable",
		})

		return
	}

	writeJSON(c, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "ok",
	})
}
