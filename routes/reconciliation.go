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

type createSessionRequest struct {
	AccountID        uuid.UUID `json:"account_id"`
	StatementStart   string    `json:"statement_start"`
	StatementEnd     string    `json:"statement_end"`
	StatementBalance *string   `json:"statement_balance"`
	Note             *string   `json:"note"`
}

type reconcileRequest struct {
	TransactionID    *uuid.UUID  `json:"transaction_id"`
	TransactionIDs   []uuid.UUID `json:"transaction_ids"`
	IsReconciled     bool        `json:"is_reconciled"`
	ReconciliationID uuid.UUID   `json:"reconciliation_id"`
}

// ReconciliationList returns candidate ledger entries for an account and
// date range with reconciled flags resolved. When reconciliation_id names
// a session, that session's status stores take priority.
func ReconciliationList(c flamego.Context) {
	ctx := c.Request().Context()

	accountIDRaw := c.Query("account_id")
	if accountIDRaw == "" {
		writeError(c, http.StatusBadRequest, "account_id is required")

		return
	}

	accountID, err := uuid.Parse(accountIDRaw)
	if err != nil {
		writeError(c, http.StatusBadRequest, "account_id is not a valid UUID")

		return
	}

	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	var sessionID *uuid.UUID
	if raw := c.Query("reconciliation_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "reconciliation_id is not a valid UUID")

			return
		}

		if _, err := db.GetReconciliationSession(ctx, parsed); err != nil {
			if errors.Is(err, db.ErrSessionNotFound) {
				writeError(c, http.StatusNotFound, "reconciliation session not found")

				return
			}

			logger.Error("Error fetching reconciliation session", "session_id", parsed, "error", err)
			writeError(c, http.StatusInternalServerError, "failed to fetch session")

			return
		}

		sessionID = &parsed
	}

	transactions, err := db.ListReconciliationTransactions(ctx, accountID, start, end, sessionID)
	if err != nil {
		logger.Error("Error listing reconciliation transactions", "account_id", accountID, "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list transactions")

		return
	}

	writeJSON(c, http.StatusOK, map[string]interface{}{"transactions": transactions})
}

// ReconciliationToggle toggles the reconciled flag for one transaction or
// a batch within a session. Each item reports its own outcome; one bad ID
// never sinks the rest of the batch.
func ReconciliationToggle(c flamego.Context) {
	ctx := c.Request().Context()

	var req reconcileRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	ids := req.TransactionIDs
	if req.TransactionID != nil {
		ids = append(ids, *req.TransactionID)
	}
	if len(ids) == 0 {
		writeError(c, http.StatusBadRequest, "transaction_id or transaction_ids is required")

		return
	}
	if req.ReconciliationID == (uuid.UUID{}) {
		writeError(c, http.StatusBadRequest, "reconciliation_id is required")

		return
	}

	results, err := db.SetReconciled(ctx, req.ReconciliationID, ids, req.IsReconciled)
	if err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			writeError(c, http.StatusNotFound, "reconciliation session not found")

			return
		}

		logger.Error("Error reconciling transactions", "session_id", req.ReconciliationID, "error", err)
		writeError(c, http.StatusInternalServerError, "failed to reconcile transactions")

		return
	}

	writeJSON(c, http.StatusOK, map[string]interface{}{"results": results})
}

// SessionsCreate starts a reconciliation session for one statement.
func SessionsCreate(c flamego.Context) {
	ctx := c.Request().Context()

	var req createSessionRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	start, err := parseDate(req.StatementStart)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	end, err := parseDate(req.StatementEnd)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	if req.StatementBalance != nil {
		if _, err := parseAmount(*req.StatementBalance); err != nil {
			writeError(c, http.StatusBadRequest, err.Error())

			return
		}
	}

	id, err := db.CreateReconciliationSession(ctx, db.CreateSessionInput{
		AccountID:        req.AccountID,
		StatementStart:   start,
		StatementEnd:     end,
		StatementBalance: req.StatementBalance,
		Note:             req.Note,
	})
	if err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			writeError(c, http.StatusNotFound, "account not found")

			return
		}

		logger.Error("Error creating reconciliation session", "error", err)
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	writeJSON(c, http.StatusCreated, map[string]string{"id": id.String()})
}

// SessionsList returns one account's reconciliation sessions.
func SessionsList(c flamego.Context) {
	ctx := c.Request().Context()

	raw := c.Query("account_id")
	if raw == "" {
		writeError(c, http.StatusBadRequest, "account_id is required")

		return
	}

	accountID, err := uuid.Parse(raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, "account_id is not a valid UUID")

		return
	}

	sessions, err := db.ListReconciliationSessions(ctx, accountID)
	if err != nil {
		logger.Error("Error listing reconciliation sessions", "account_id", accountID, "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list sessions")

		return
	}

	writeJSON(c, http.StatusOK, sessions)
}

// SessionTransactionsList returns the ledger entries inside a session's
// statement window with their reconciled flags resolved.
func SessionTransactionsList(c flamego.Context) {
	ctx := c.Request().Context()

	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())

		return
	}

	transactions, err := db.ListSessionTransactions(ctx, sessionID)
	if err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			writeError(c, http.StatusNotFound, "session not found")

			return
		}

		logger.Error("Error listing session transactions", "session_id", sessionID, "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list session transactions")

		return
	}

	writeJSON(c, http.StatusOK, transactions)
}
