/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"net/http"

	"github.com/flamego/flamego"
	"github.com/shopspring/decimal"

	"github.com/amoakoh/parishbooks/config"
	"github.com/amoakoh/parishbooks/db"
)

type createAccountRequest struct {
	Name           string  `json:"name"`
	OpeningBalance string  `json:"opening_balance"`
	BankName       *string `json:"bank_name"`
	AccountNumber  *string `json:"account_number"`
	Description    *string `json:"description"`
}

// AccountsList returns every account with its recomputed balance.
func AccountsList(c flamego.Context) {
	ctx := c.Request().Context()

	summaries, err := db.ListAccountSummaries(ctx)
	if err != nil {
		logger.Error("Error listing accounts", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list accounts")

		return
	}

	type accountResponse struct {
		db.Account
		Balance    decimal.Decimal `json:"balance"`
		EntryCount int64           `json:"entry_count"`
	}

	response := make([]accountResponse, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, accountResponse{
			Account:    summary.Account,
			Balance:    summary.ComputedBalance,
			EntryCount: summary.EntryCount,
		})
	}

	writeJSON(c, http.StatusOK, response)
}

// AccountsCreate creates an account.
func AccountsCreate(c flamego.Context) {
	ctx := c.Request().Context()

	var req createAccountRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	opening := decimal.Zero
	if req.OpeningBalance != "" {
		parsed, err := parseAmount(req.OpeningBalance)
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())

			return
		}
		opening = parsed
	}

	id, err := db.CreateAccount(ctx, db.CreateAccountInput{
		Name:           req.Name,
		OpeningBalance: opening,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		Description:    req.Description,
	})
	if err != nil {
		logger.Error("Error creating account", "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusCreated, map[string]string{"id": id.String()})
}

// AccountsGet returns one account with its recomputed balance.
func AccountsGet(c flamego.Context) {
	ctx := c.Request().Context()

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	summary, err := db.GetAccountSummary(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			writeError(c, http.StatusNotFound, "account not found")

			return
		}

		logger.Error("Error fetching account", "account_id", id, "error", err)
		writeError(c, http.StatusInternalServerError, "failed to fetch account")

		return
	}

	writeJSON(c, http.StatusOK, map[string]interface{}{
		"account":     summary.Account,
		"balance":     summary.ComputedBalance,
		"entry_count": summary.EntryCount,
	})
}

// AccountsDelete removes an account and its ledger entries.
func AccountsDelete(c flamego.Context) {
	ctx := c.Request().Context()

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	if err := db.DeleteAccount(ctx, id); err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			writeError(c, http.StatusNotFound, "account not found")

			return
		}

		logger.Error("Error deleting account", "account_id", id, "error", err)
		writeError(c, http.StatusInternalServerError, "failed to delete account")

		return
	}

	writeJSON(c, http.StatusOK, map[string]bool{"success": true})
}

// AccountTransactionsList returns one account's ledger entries, newest
// first, with optional start/end date filters and pagination.
func AccountTransactionsList(c flamego.Context, conf *config.Config) {
	ctx := c.Request().Context()

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	start, err := parseDateQuery(c, "start")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	end, err := parseDateQuery(c, "end")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	limit, offset := paginationParams(c, conf.Ledger.PageSize)

	transactions, err := db.ListAccountTransactions(ctx, id, start, end, limit, offset)
	if err != nil {
		logger.Error("Error listing account transactions", "account_id", id, "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list transactions")

		return
	}

	total, err := db.CountAccountTransactions(ctx, id)
	if err != nil {
		logger.Error("Error counting account transactions", "account_id", id, "error", err)
		writeError(c, http.StatusInternalServerError, "failed to count transactions")

		return
	}

	writeJSON(c, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"total":        total,
	})
}

// AccountRecalculateBalance recomputes one account's balance from the
// ledger and persists the result.
func AccountRecalculateBalance(c flamego.Context) {
	ctx := c.Request().Context()

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	balance, err := db.RecalculateAccountBalance(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			writeError(c, http.StatusNotFound, "account not found")

			return
		}

		logger.Error("Error recalculating balance", "account_id", id, "error", err)
		writeJSON(c, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "failed to recalculate balance",
		})

		return
	}

	writeJSON(c, http.StatusOK, map[string]interface{}{
		"success": true,
		"balance": balance,
		"message": "balance recalculated",
	})
}
