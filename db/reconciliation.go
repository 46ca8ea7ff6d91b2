/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateSessionInput represents input for starting a reconciliation
// session against one bank statement.
type CreateSessionInput struct {
	AccountID        uuid.UUID
	StatementStart   time.Time
	StatementEnd     time.Time
	StatementBalance *string
	Note             *string
}

// CreateReconciliationSession starts a session for an account and
// statement period.
func CreateReconciliationSession(ctx context.Context, input CreateSessionInput) (uuid.UUID, error) {
	if pool == nil {
		return uuid.UUID{}, ErrDatabaseConnectionNotInitialized
	}
	if input.StatementEnd.Before(input.StatementStart) {
		return uuid.UUID{}, fmt.Errorf("statement end must not precede statement start")
	}

	if _, err := GetAccount(ctx, input.AccountID); err != nil {
		return uuid.UUID{}, err
	}

	query := `
		INSERT INTO reconciliation_sessions (account_id, statement_start, statement_end, statement_balance, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id uuid.UUID
	if err := pool.QueryRow(
		ctx,
		query,
		input.AccountID,
		input.StatementStart,
		input.StatementEnd,
		input.StatementBalance,
		input.Note,
	).Scan(&id); err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to create reconciliation session: %w", err)
	}

	return id, nil
}

// GetReconciliationSession fetches one session.
func GetReconciliationSession(ctx context.Context, id uuid.UUID) (*ReconciliationSession, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, account_id, statement_start, statement_end, statement_balance, note, created_at
		FROM reconciliation_sessions
		WHERE id = $1
	`

	var session ReconciliationSession
	if err := pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.AccountID,
		&session.StatementStart,
		&session.StatementEnd,
		&session.StatementBalance,
		&session.Note,
		&session.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}

		return nil, fmt.Errorf("failed to get reconciliation session: %w", err)
	}

	return &session, nil
}

// ListReconciliationSessions returns sessions for one account, newest
// first.
func ListReconciliationSessions(ctx context.Context, accountID uuid.UUID) ([]ReconciliationSession, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, account_id, statement_start, statement_end, statement_balance, note, created_at
		FROM reconciliation_sessions
		WHERE account_id = $1
		ORDER BY created_at DESC
	`

	rows, err := pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation sessions: %w", err)
	}
	defer rows.Close()

	var sessions []ReconciliationSession
	for rows.Next() {
		var session ReconciliationSession
		if err := rows.Scan(
			&session.ID,
			&session.AccountID,
			&session.StatementStart,
			&session.StatementEnd,
			&session.StatementBalance,
			&session.Note,
			&session.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation sessions: %w", err)
	}

	return sessions, nil
}

// reconStatusSource identifies which store supplied a reconciled flag.
const (
	statusSourceSessionStore = "session_store"
	statusSourceFlagColumn   = "transaction_flag"
	statusSourceLegacyItems  = "legacy_items"
	statusSourceDefault      = "default"
)

// ListSessionTransactions returns the ledger entries inside a session's
// statement window with reconciled flags resolved against that session.
func ListSessionTransactions(ctx context.Context, sessionID uuid.UUID) ([]SessionTransaction, error) {
	session, err := GetReconciliationSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return ListReconciliationTransactions(ctx, session.AccountID, session.StatementStart, session.StatementEnd, &sessionID)
}

// ListReconciliationTransactions returns candidate ledger entries for an
// account and date range, each with its reconciled flag resolved through
// the status chain: the per-session store wins, then the flag column on
// the transaction row, then the legacy items table, then false. Without a
// session the two session-keyed stores are skipped.
func ListReconciliationTransactions(ctx context.Context, accountID uuid.UUID, start, end time.Time, sessionID *uuid.UUID) ([]SessionTransaction, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, account_id, entry_date, amount, transaction_type, reference_id, reference_type,
			is_reconciled, created_at, updated_at
		FROM account_transactions
		WHERE account_id = $1 AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date ASC, created_at ASC
	`

	rows, err := pool.Query(ctx, query, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation candidates: %w", err)
	}
	defer rows.Close()

	candidates, err := scanAccountTransactions(rows)
	if err != nil {
		return nil, err
	}

	sessionStatus := map[uuid.UUID]bool{}
	legacyStatus := map[uuid.UUID]bool{}
	if sessionID != nil {
		if sessionStatus, err = sessionStoreStatuses(ctx, *sessionID); err != nil {
			return nil, err
		}

		if legacyStatus, err = legacyItemStatuses(ctx, *sessionID); err != nil {
			return nil, err
		}
	}

	transactions := make([]SessionTransaction, 0, len(candidates))
	for _, tx := range candidates {
		st := SessionTransaction{AccountTransaction: tx}
		switch {
		case hasStatus(sessionStatus, tx.ID):
			st.Reconciled = sessionStatus[tx.ID]
			st.StatusSource = statusSourceSessionStore
		case tx.IsReconciled:
			st.Reconciled = true
			st.StatusSource = statusSourceFlagColumn
		case hasStatus(legacyStatus, tx.ID):
			st.Reconciled = legacyStatus[tx.ID]
			st.StatusSource = statusSourceLegacyItems
		default:
			st.Reconciled = false
			st.StatusSource = statusSourceDefault
		}
		transactions = append(transactions, st)
	}

	return transactions, nil
}

func hasStatus(m map[uuid.UUID]bool, id uuid.UUID) bool {
	_, ok := m[id]

	return ok
}

func sessionStoreStatuses(ctx context.Context, sessionID uuid.UUID) (map[uuid.UUID]bool, error) {
	return scanStatusMap(ctx, `
		SELECT transaction_id, is_reconciled
		FROM reconciliation_txns
		WHERE session_id = $1
	`, sessionID)
}

func legacyItemStatuses(ctx context.Context, sessionID uuid.UUID) (map[uuid.UUID]bool, error) {
	return scanStatusMap(ctx, `
		SELECT transaction_id, is_reconciled
		FROM reconciliation_items
		WHERE session_id = $1
	`, sessionID)
}

func scanStatusMap(ctx context.Context, query string, sessionID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[uuid.UUID]bool)
	for rows.Next() {
		var txID uuid.UUID
		var reconciled bool
		if err := rows.Scan(&txID, &reconciled); err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation status: %w", err)
		}
		statuses[txID] = reconciled
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation statuses: %w", err)
	}

	return statuses, nil
}

// SetReconciled toggles the reconciled flag for a batch of transactions
// within a session. Each item is processed independently: a failure is
// reported in that item's result and never aborts its siblings. Repeating
// a call with the same inputs is a no-op thanks to the upsert on
// (transaction_id, session_id).
func SetReconciled(ctx context.Context, sessionID uuid.UUID, transactionIDs []uuid.UUID, reconciled bool) ([]ReconcileItemResult, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	if _, err := GetReconciliationSession(ctx, sessionID); err != nil {
		return nil, err
	}

	results := make([]ReconcileItemResult, 0, len(transactionIDs))
	for _, txID := range transactionIDs {
		result := ReconcileItemResult{TransactionID: txID}

		var exists bool
		if err := pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM account_transactions WHERE id = $1)`, txID).Scan(&exists); err != nil {
			result.Message = fmt.Sprintf("failed to verify transaction: %v", err)
			results = append(results, result)

			continue
		}
		if !exists {
			result.Message = "transaction not found"
			results = append(results, result)

			continue
		}

		// The per-session store is the primary write. The flag column
		// and the legacy items table are kept in step best-effort so
		// older readers see the same answer.
		if _, err := pool.Exec(ctx, `
			INSERT INTO reconciliation_txns (transaction_id, session_id, is_reconciled, reconciled_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (transaction_id, session_id)
			DO UPDATE SET is_reconciled = EXCLUDED.is_reconciled, reconciled_at = now()
		`, txID, sessionID, reconciled); err != nil {
			result.Message = fmt.Sprintf("failed to update reconciliation status: %v", err)
			results = append(results, result)

			continue
		}

		if _, err := pool.Exec(ctx,
			`UPDATE account_transactions SET is_reconciled = $1, updated_at = now() WHERE id = $2`,
			reconciled, txID); err != nil {
			logger.Warn("Failed to update transaction reconciled flag",
				"transaction_id", txID, "error", err)
		}

		if _, err := pool.Exec(ctx, `
			INSERT INTO reconciliation_items (transaction_id, session_id, is_reconciled)
			VALUES ($1, $2, $3)
			ON CONFLICT (transaction_id, session_id)
			DO UPDATE SET is_reconciled = EXCLUDED.is_reconciled
		`, txID, sessionID, reconciled); err != nil {
			logger.Warn("Failed to update legacy reconciliation item",
				"transaction_id", txID, "error", err)
		}

		result.Success = true
		results = append(results, result)
	}

	return results, nil
}
