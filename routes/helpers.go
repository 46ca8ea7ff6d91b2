/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/flamego/flamego"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func writeJSON(c flamego.Context, status int, payload interface{}) {
	c.ResponseWriter().Header().Set("Content-Type", "application/json")
	c.ResponseWriter().WriteHeader(status)

	if err := json.NewEncoder(c.ResponseWriter()).Encode(payload); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

func writeError(c flamego.Context, status int, message string) {
	writeJSON(c, status, map[string]string{"error": message})
}

func decodeJSON(c flamego.Context, target interface{}) error {
	decoder := json.NewDecoder(c.Request().Body().ReadCloser())
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	return nil
}

func parseUUIDParam(c flamego.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	if raw == "" {
		return uuid.UUID{}, fmt.Errorf("%s is required", name)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%s is not a valid UUID", name)
	}

	return id, nil
}

// parseDate parses a required YYYY-MM-DD value.
func parseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}

	return parsed, nil
}

// parseDateQuery parses an optional YYYY-MM-DD query value, returning nil
// when absent.
func parseDateQuery(c flamego.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	parsed, err := parseDate(raw)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}

// parseAmount parses a decimal string, refusing NaN-ish and empty input.
func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}

	return amount, nil
}

// paginationParams reads page/page_size query values, clamped to sane
// bounds. Pages are 1-based.
func paginationParams(c flamego.Context, defaultPageSize int) (limit, offset int) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	size := defaultPageSize
	if raw := c.Query("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			size = parsed
		}
	}

	return size, (page - 1) * size
}
