/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/flamego/flamego"
	"github.com/xuri/excelize/v2"

	"github.com/amoakoh/parishbooks/db"
)

// statementExportMaxRows bounds the unpaginated export: a statement is
// the whole date range, and the cap only guards against runaway sheets.
const statementExportMaxRows = 100000

// AccountStatementExport writes one account's ledger entries for a date
// range as an XLSX workbook.
func AccountStatementExport(c flamego.Context) {
	ctx := c.Request().Context()

	accountID, err := parseUUIDParam(c, "id")
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

	summary, err := db.GetAccountSummary(ctx, accountID)
	if err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			writeError(c, http.StatusNotFound, "account not found")

			return
		}

		logger.Error("Error fetching account for statement", "account_id", accountID, "error", err)
		writeError(c, http.StatusInternalServerError, "failed to fetch account")

		return
	}

	transactions, err := db.ListAccountTransactions(ctx, accountID, start, end, statementExportMaxRows, 0)
	if err != nil {
		logger.Error("Error listing transactions for statement", "account_id", accountID, "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list transactions")

		return
	}

	workbook, err := buildStatementWorkbook(summary, transactions)
	if err != nil {
		logger.Error("Error building statement workbook", "account_id", accountID, "error", err)
		writeError(c, http.StatusInternalServerError, "failed to build statement")

		return
	}

	filename := fmt.Sprintf("statement-%s-%s.xlsx", summary.Name, time.Now().Format("20060102"))
	c.ResponseWriter().Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.ResponseWriter().Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := workbook.Write(c.ResponseWriter()); err != nil {
		logger.Error("Error writing statement workbook", "account_id", accountID, "error", err)
	}
}

func buildStatementWorkbook(summary *db.AccountSummary, transactions []db.AccountTransaction) (*excelize.File, error) {
	f := excelize.NewFile()

	const sheet = "Statement"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := [][]interface{}{
		{"Account", summary.Name},
		{"Opening Balance", summary.OpeningBalance.String()},
		{"Current Balance", summary.ComputedBalance.String()},
		{},
		{"Date", "Type", "Amount", "Reference", "Reconciled"},
	}

	for i, row := range header {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write header row: %w", err)
		}
	}

	for i, tx := range transactions {
		amount := ""
		if tx.Amount.Valid {
			amount = tx.Amount.Decimal.String()
		}

		row := []interface{}{
			tx.EntryDate.Format("2006-01-02"),
			string(tx.Type),
			amount,
			tx.ReferenceID.String(),
			tx.IsReconciled,
		}

		cell, err := excelize.CoordinatesToCellName(1, len(header)+1+i)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write transaction row: %w", err)
		}
	}

	return f, nil
}
