/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"net/http"

	"github.com/flamego/flamego"
	"github.com/google/uuid"

	"github.com/amoakoh/parishbooks/db"
)

type createIncomeRequest struct {
	AccountID   *uuid.UUID `json:"account_id"`
	Amount      string     `json:"amount"`
	Category    string     `json:"category"`
	Description *string    `json:"description"`
	EntryDate   string     `json:"entry_date"`
}

type createExpenditureRequest struct {
	AccountID   *uuid.UUID `json:"account_id"`
	BudgetID    *uuid.UUID `json:"budget_id"`
	Amount      string     `json:"amount"`
	Category    string     `json:"category"`
	Description *string    `json:"description"`
	EntryDate   string     `json:"entry_date"`
}

type createTransferRequest struct {
	SourceAccountID      uuid.UUID `json:"source_account_id"`
	DestinationAccountID uuid.UUID `json:"destination_account_id"`
	Amount               string    `json:"amount"`
	Note                 *string   `json:"note"`
	TransferDate         string    `json:"transfer_date"`
}

// IncomeCreate records a manual income entry.
func IncomeCreate(c flamego.Context) {
	ctx := c.Request().Context()

	var req createIncomeRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	entryDate, err := parseDate(req.EntryDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	id, err := db.CreateIncomeEntry(ctx, db.CreateIncomeInput{
		AccountID:   req.AccountID,
		Amount:      amount,
		Category:    req.Category,
		Origin:      db.OriginManual,
		Description: req.Description,
		EntryDate:   entryDate,
	})
	if err != nil {
		logger.Error("Error creating income entry", "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusCreated, map[string]string{"id": id.String()})
}

// IncomeDelete removes a manual income entry. Application-managed records
// are refused with a conflict.
func IncomeDelete(c flamego.Context) {
	ctx := c.Request().Context()

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	if err := db.DeleteIncomeEntry(ctx, id); err != nil {
		if errors.Is(err, db.ErrSourceRecordImmutable) {
			writeError(c, http.StatusConflict, "record is managed by the application and cannot be deleted")

			return
		}

		logger.Error("Error deleting income entry", "income_id", id, "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusOK, map[string]bool{"success": true})
}

// ExpenditureCreate records a manual expenditure entry.
func ExpenditureCreate(c flamego.Context) {
	ctx := c.Request().Context()

	var req createExpenditureRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	entryDate, err := parseDate(req.EntryDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	id, err := db.CreateExpenditureEntry(ctx, db.CreateExpenditureInput{
		AccountID:   req.AccountID,
		BudgetID:    req.BudgetID,
		Amount:      amount,
		Category:    req.Category,
		Origin:      db.OriginManual,
		Description: req.Description,
		EntryDate:   entryDate,
	})
	if err != nil {
		logger.Error("Error creating expenditure entry", "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusCreated, map[string]string{"id": id.String()})
}

// ExpenditureDelete removes a manual expenditure entry. Budget-driven and
// liability payment records are refused with a conflict.
func ExpenditureDelete(c flamego.Context) {
	ctx := c.Request().Context()

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	if err := db.DeleteExpenditureEntry(ctx, id); err != nil {
		if errors.Is(err, db.ErrSourceRecordImmutable) {
			writeError(c, http.StatusConflict, "record is managed by the application and cannot be deleted")

			return
		}

		logger.Error("Error deleting expenditure entry", "expenditure_id", id, "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusOK, map[string]bool{"success": true})
}

// TransfersCreate moves money between two accounts.
func TransfersCreate(c flamego.Context) {
	ctx := c.Request().Context()

	var req createTransferRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	transferDate, err := parseDate(req.TransferDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	id, err := db.CreateTransfer(ctx, db.CreateTransferInput{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               amount,
		Note:                 req.Note,
		TransferDate:         transferDate,
	})
	if err != nil {
		logger.Error("Error creating transfer", "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusCreated, map[string]string{"id": id.String()})
}

// TransfersDelete removes a transfer and both of its ledger entries.
func TransfersDelete(c flamego.Context) {
	ctx := c.Request().Context()

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	if err := db.DeleteTransfer(ctx, id); err != nil {
		logger.Error("Error deleting transfer", "transfer_id", id, "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusOK, map[string]bool{"success": true})
}
