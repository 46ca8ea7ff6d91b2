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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/amoakoh/parishbooks/ledger"
)

// SourceKind selects a source table for ledger backfill.
type SourceKind string

// SourceKind values accepted by SyncSourceToLedger.
const (
	SourceIncome      SourceKind = "income"
	SourceExpenditure SourceKind = "expenditure"
	SourceTransfers   SourceKind = "transfers"
)

// ledgerLogTables lists every log representation, in write order. Both are
// write targets; the account_ledger view is authoritative for reads.
var ledgerLogTables = []string{"account_transactions", "account_tx_log"}

type ledgerWriteEntry struct {
	AccountID     uuid.UUID
	EntryDate     time.Time
	Amount        decimal.Decimal
	Type          ledger.TransactionType
	ReferenceID   uuid.UUID
	ReferenceType ledger.ReferenceType
}

// recordLedgerEntry appends one entry to both log tables. The stored
// function is the preferred path; on a schema mismatch (older database
// without the function) it falls back to direct inserts. A hard failure is
// surfaced only when every path fails.
func recordLedgerEntry(ctx context.Context, accountID uuid.UUID, entryDate time.Time, amount decimal.Decimal, txType ledger.TransactionType, refID uuid.UUID, refType ledger.ReferenceType) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	_, err := pool.Exec(ctx,
		`SELECT record_account_transaction($1, $2, $3, $4, $5, $6)`,
		accountID, entryDate, amount, string(txType), refID, string(refType))
	if err == nil {
		syncLogger.Debug("Ledger entry written", "path", "stored_function",
			"reference_id", refID, "reference_type", refType)

		return nil
	}

	if !isSchemaMismatch(err) {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	syncLogger.Warn("Stored function write path unavailable, using direct insert",
		"reference_id", refID, "reference_type", refType, "error", err)

	entry := ledgerWriteEntry{
		AccountID:     accountID,
		EntryDate:     entryDate,
		Amount:        amount,
		Type:          txType,
		ReferenceID:   refID,
		ReferenceType: refType,
	}

	var firstErr error
	wrote := false
	for _, table := range ledgerLogTables {
		if _, err := insertLogEntry(ctx, table, entry); err != nil {
			syncLogger.Error("Direct ledger insert failed", "table", table, "error", err)
			if firstErr == nil {
				firstErr = err
			}

			continue
		}

		wrote = true
	}

	if !wrote {
		return fmt.Errorf("%w: %w", ErrNoLedgerWritePath, firstErr)
	}

	syncLogger.Debug("Ledger entry written", "path", "direct_insert",
		"reference_id", refID, "reference_type", refType)

	return nil
}

// insertLogEntry inserts one entry into a single log table, guarded by an
// existence check on (reference_id, reference_type). Returns whether a row
// was inserted. The check-then-insert shape is deliberate: the legacy
// table predates the unique constraint on some deployments, so a native
// upsert cannot be relied on across both tables.
func insertLogEntry(ctx context.Context, table string, entry ledgerWriteEntry) (bool, error) {
	var exists bool
	existsQuery := fmt.Sprintf(
		`SELECT EXISTS(SELECT 1 FROM %s WHERE reference_id = $1 AND reference_type = $2)`, table)
	if err := pool.QueryRow(ctx, existsQuery, entry.ReferenceID, string(entry.ReferenceType)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed existence check on %s: %w", table, err)
	}

	if exists {
		return false, nil
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (account_id, entry_date, amount, transaction_type, reference_id, reference_type)
		VALUES ($1, $2, $3, $4, $5, $6)`, table)
	if _, err := pool.Exec(ctx, insertQuery,
		entry.AccountID,
		entry.EntryDate,
		entry.Amount,
		string(entry.Type),
		entry.ReferenceID,
		string(entry.ReferenceType),
	); err != nil {
		return false, fmt.Errorf("failed insert into %s: %w", table, err)
	}

	return true, nil
}

// deleteLedgerEntries removes the derived entries for a deleted source
// record from every log table. Best-effort: failures are logged and the
// next sync pass prunes whatever remains.
func deleteLedgerEntries(ctx context.Context, refID uuid.UUID, refType ledger.ReferenceType) {
	for _, table := range ledgerLogTables {
		query := fmt.Sprintf(`DELETE FROM %s WHERE reference_id = $1 AND reference_type = $2`, table)
		if _, err := pool.Exec(ctx, query, refID, string(refType)); err != nil {
			syncLogger.Error("Failed to delete ledger entries", "table", table,
				"reference_id", refID, "reference_type", refType, "error", err)
		}
	}
}

// isSchemaMismatch reports whether an error indicates a missing function,
// table or column rather than a connection or data problem.
func isSchemaMismatch(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case "42883", "42P01", "42703": // undefined function / table / column
		return true
	}

	return false
}

// SyncSourceToLedger backfills ledger entries for every source record of
// the given kind that has an account reference but no matching log row.
// Safe to call repeatedly: the per-table existence check prevents
// duplicates. Returns the number of rows inserted into the normalized
// table.
func SyncSourceToLedger(ctx context.Context, kind SourceKind) (int, error) {
	if pool == nil {
		return 0, ErrDatabaseConnectionNotInitialized
	}

	entries, err := sourceLedgerEntries(ctx, kind)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, entry := range entries {
		for i, table := range ledgerLogTables {
			wrote, err := insertLogEntry(ctx, table, entry)
			if err != nil {
				return inserted, fmt.Errorf("sync %s: %w", kind, err)
			}

			if wrote && i == 0 {
				inserted++
			}
		}
	}

	if inserted > 0 {
		syncLogger.Info("Backfilled ledger entries from source records",
			"source", kind, "inserted", inserted)
	}

	return inserted, nil
}

// sourceLedgerEntries derives the expected ledger entries for a source
// kind straight from the union view, which already applies the sign
// convention and filters out records without an account reference.
func sourceLedgerEntries(ctx context.Context, kind SourceKind) ([]ledgerWriteEntry, error) {
	var refTypes []string
	switch kind {
	case SourceIncome:
		refTypes = []string{string(ledger.RefIncomeEntry)}
	case SourceExpenditure:
		refTypes = []string{string(ledger.RefExpenditureEntry)}
	case SourceTransfers:
		refTypes = []string{string(ledger.RefTransferOut), string(ledger.RefTransferIn)}
	default:
		return nil, fmt.Errorf("unknown source kind: %s", kind)
	}

	query := `
		SELECT account_id, entry_date, amount, transaction_type, reference_id, reference_type
		FROM account_ledger
		WHERE reference_type = ANY($1)
	`

	rows, err := pool.Query(ctx, query, refTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger view for %s: %w", kind, err)
	}
	defer rows.Close()

	var entries []ledgerWriteEntry
	for rows.Next() {
		var entry ledgerWriteEntry
		if err := rows.Scan(
			&entry.AccountID,
			&entry.EntryDate,
			&entry.Amount,
			&entry.Type,
			&entry.ReferenceID,
			&entry.ReferenceType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger view row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger view: %w", err)
	}

	return entries, nil
}

// SyncBetweenLogTables copies entries present in one log table but missing
// from the other, in both directions, keyed by (reference_id,
// reference_type). Returns the number of rows copied.
func SyncBetweenLogTables(ctx context.Context) (int, error) {
	if pool == nil {
		return 0, ErrDatabaseConnectionNotInitialized
	}

	toLegacy, err := pool.Exec(ctx, `
		INSERT INTO account_tx_log (account_id, entry_date, amount, transaction_type, reference_id, reference_type, created_at)
		SELECT t.account_id, t.entry_date, t.amount, t.transaction_type, t.reference_id, t.reference_type, t.created_at
		FROM account_transactions t
		WHERE NOT EXISTS (
			SELECT 1 FROM account_tx_log l
			WHERE l.reference_id = t.reference_id AND l.reference_type = t.reference_type
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to copy entries to legacy log: %w", err)
	}

	toNormalized, err := pool.Exec(ctx, `
		INSERT INTO account_transactions (account_id, entry_date, amount, transaction_type, reference_id, reference_type, created_at)
		SELECT l.account_id, l.entry_date, l.amount, l.transaction_type, l.reference_id, l.reference_type, l.created_at
		FROM account_tx_log l
		WHERE NOT EXISTS (
			SELECT 1 FROM account_transactions t
			WHERE t.reference_id = l.reference_id AND t.reference_type = l.reference_type
		)
	`)
	if err != nil {
		return int(toLegacy.RowsAffected()), fmt.Errorf("failed to copy entries to normalized log: %w", err)
	}

	copied := int(toLegacy.RowsAffected() + toNormalized.RowsAffected())
	if copied > 0 {
		syncLogger.Info("Cross-copied entries between log tables",
			"to_legacy", toLegacy.RowsAffected(), "to_normalized", toNormalized.RowsAffected())
	}

	return copied, nil
}

// PruneOrphanedLedgerEntries deletes log rows whose source record no
// longer exists, from both tables. Returns the number of rows removed.
func PruneOrphanedLedgerEntries(ctx context.Context) (int, error) {
	if pool == nil {
		return 0, ErrDatabaseConnectionNotInitialized
	}

	pruned := 0
	for _, table := range ledgerLogTables {
		query := fmt.Sprintf(`
			DELETE FROM %s x
			WHERE NOT EXISTS (
				SELECT 1 FROM account_ledger v
				WHERE v.reference_id = x.reference_id AND v.reference_type = x.reference_type
			)`, table)

		result, err := pool.Exec(ctx, query)
		if err != nil {
			return pruned, fmt.Errorf("failed to prune orphans from %s: %w", table, err)
		}

		pruned += int(result.RowsAffected())
	}

	if pruned > 0 {
		syncLogger.Info("Pruned orphaned ledger entries", "pruned", pruned)
	}

	return pruned, nil
}

// RecalculateAccountBalance recomputes one account's balance from the
// ledger view and persists it to the cached column. The persisted value is
// a hint for screens; correctness always comes from the calculator.
func RecalculateAccountBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	account, err := GetAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	entries, err := ledgerEntriesForAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	opening := decimal.NullDecimal{Decimal: account.OpeningBalance, Valid: true}
	balance := ledger.CalculateBalance(opening, entries)

	if _, err := pool.Exec(ctx,
		`UPDATE accounts SET balance = $1, updated_at = now() WHERE id = $2`,
		balance, accountID); err != nil {
		return balance, fmt.Errorf("failed to persist account balance: %w", err)
	}

	return balance, nil
}

// refreshAccountBalance is the best-effort variant used after source
// record mutations. Failures are logged, never surfaced: the cached value
// is advisory and the next recompute converges.
func refreshAccountBalance(ctx context.Context, accountID uuid.UUID) {
	if _, err := RecalculateAccountBalance(ctx, accountID); err != nil {
		logger.Warn("Failed to refresh cached account balance", "account_id", accountID, "error", err)
	}
}

// RecalculateAllBalances recomputes and persists every account balance,
// continuing past individual failures and reporting each outcome.
func RecalculateAllBalances(ctx context.Context) ([]BalanceRecalcResult, error) {
	accounts, err := ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]BalanceRecalcResult, 0, len(accounts))
	for _, account := range accounts {
		balance, err := RecalculateAccountBalance(ctx, account.ID)
		result := BalanceRecalcResult{AccountID: account.ID, Balance: balance, Success: err == nil}
		if err != nil {
			result.Message = err.Error()
			syncLogger.Error("Balance recalculation failed", "account_id", account.ID, "error", err)
		}

		results = append(results, result)
	}

	return results, nil
}

// SyncAll runs a full resynchronization: source backfill for every kind,
// cross-copy between the log tables, orphan pruning, then a batch balance
// recompute. Step failures are collected, not fatal to later steps.
func SyncAll(ctx context.Context) SyncReport {
	var report SyncReport

	step := func(name string, err error) {
		if err != nil {
			syncLogger.Error("Sync step failed", "step", name, "error", err)
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", name, err))
		}
	}

	var err error
	report.IncomeBackfilled, err = SyncSourceToLedger(ctx, SourceIncome)
	step("sync_income", err)
	report.ExpenditureBackfilled, err = SyncSourceToLedger(ctx, SourceExpenditure)
	step("sync_expenditure", err)
	report.TransfersBackfilled, err = SyncSourceToLedger(ctx, SourceTransfers)
	step("sync_transfers", err)
	report.CrossCopied, err = SyncBetweenLogTables(ctx)
	step("cross_copy", err)
	report.OrphansPruned, err = PruneOrphanedLedgerEntries(ctx)
	step("prune_orphans", err)

	report.Balances, err = RecalculateAllBalances(ctx)
	step("recalculate_balances", err)

	return report
}
