/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"time"

	"github.com/flamego/flamego"

	"github.com/amoakoh/parishbooks/config"
	"github.com/amoakoh/parishbooks/db"
)

type createBudgetRequest struct {
	CategoryName string `json:"category_name"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	PeriodStart  string `json:"period_start"`
}

// BudgetsList returns budgets for a month (default: current month) with
// spending totals.
func BudgetsList(c flamego.Context, conf *config.Config) {
	ctx := c.Request().Context()

	period := time.Now().UTC()
	if raw := c.Query("period"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())

			return
		}
		period = parsed
	}

	budgets, err := db.ListBudgetsWithUsage(ctx, period)
	if err != nil {
		logger.Error("Error listing budgets", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list budgets")

		return
	}

	writeJSON(c, http.StatusOK, map[string]interface{}{
		"budgets":  budgets,
		"currency": conf.Ledger.Currency,
	})
}

// BudgetsCreate creates a monthly budget.
func BudgetsCreate(c flamego.Context, conf *config.Config) {
	ctx := c.Request().Context()

	var req createBudgetRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	period, err := parseDate(req.PeriodStart)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	if req.Currency == "" {
		req.Currency = conf.Ledger.Currency
	}

	id, err := db.CreateBudget(ctx, db.CreateBudgetInput{
		CategoryName: req.CategoryName,
		Amount:       amount,
		Currency:     req.Currency,
		PeriodStart:  period,
	})
	if err != nil {
		logger.Error("Error creating budget", "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusCreated, map[string]string{"id": id.String()})
}

// BudgetsDelete removes a budget.
func BudgetsDelete(c flamego.Context) {
	ctx := c.Request().Context()

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	if err := db.DeleteBudget(ctx, id); err != nil {
		logger.Error("Error deleting budget", "budget_id", id, "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusOK, map[string]bool{"success": true})
}
