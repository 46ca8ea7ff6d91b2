/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestSyncBackfillsMissingLedgerRows(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	accountID := createTestAccount(t, "Main Fund", 0)

	incomeID, err := CreateIncomeEntry(ctx, CreateIncomeInput{
		AccountID: &accountID,
		Amount:    decimal.NewFromInt(40),
		Category:  "Offering",
		EntryDate: time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("failed to create income: %v", err)
	}

	// Simulate a crash between the source write and the ledger append.
	for _, table := range ledgerLogTables {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("failed to clear %s: %v", table, err)
		}
	}

	inserted, err := SyncSourceToLedger(ctx, SourceIncome)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("expected 1 backfilled row, got %d", inserted)
	}

	for _, table := range ledgerLogTables {
		if count := countLogRows(t, table, incomeID); count != 1 {
			t.Fatalf("expected 1 row in %s after sync, got %d", table, count)
		}
	}

	// Running the sync again must not duplicate anything.
	inserted, err = SyncSourceToLedger(ctx, SourceIncome)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("expected idempotent second sync, got %d inserts", inserted)
	}

	for _, table := range ledgerLogTables {
		if count := countLogRows(t, table, incomeID); count != 1 {
			t.Fatalf("expected 1 row in %s after repeat sync, got %d", table, count)
		}
	}
}

func TestSyncBetweenLogTables(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	accountID := createTestAccount(t, "Main Fund", 0)

	incomeID, err := CreateIncomeEntry(ctx, CreateIncomeInput{
		AccountID: &accountID,
		Amount:    decimal.NewFromInt(25),
		Category:  "Offering",
		EntryDate: time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("failed to create income: %v", err)
	}

	// Knock the legacy table out of step.
	if _, err := pool.Exec(ctx, `DELETE FROM account_tx_log`); err != nil {
		t.Fatalf("failed to clear legacy log: %v", err)
	}

	copied, err := SyncBetweenLogTables(ctx)
	if err != nil {
		t.Fatalf("cross-copy failed: %v", err)
	}
	if copied != 1 {
		t.Fatalf("expected 1 row copied, got %d", copied)
	}
	if count := countLogRows(t, "account_tx_log", incomeID); count != 1 {
		t.Fatalf("expected legacy log restored, got %d rows", count)
	}

	copied, err = SyncBetweenLogTables(ctx)
	if err != nil {
		t.Fatalf("repeat cross-copy failed: %v", err)
	}
	if copied != 0 {
		t.Fatalf("expected idempotent cross-copy, got %d", copied)
	}
}

func TestPruneOrphanedLedgerEntries(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	accountID := createTestAccount(t, "Main Fund", 0)

	orphanRef := uuid.New()
	for _, table := range ledgerLogTables {
		if _, err := pool.Exec(ctx, `
			INSERT INTO `+table+` (account_id, entry_date, amount, transaction_type, reference_id, reference_type)
			VALUES ($1, $2, $3, 'income', $4, 'income_entry')
		`, accountID, time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(5), orphanRef); err != nil {
			t.Fatalf("failed to insert orphan into %s: %v", table, err)
		}
	}

	pruned, err := PruneOrphanedLedgerEntries(ctx)
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if pruned != 2 {
		t.Fatalf("expected 2 orphans pruned, got %d", pruned)
	}

	for _, table := range ledgerLogTables {
		if count := countLogRows(t, table, orphanRef); count != 0 {
			t.Fatalf("expected orphan gone from %s, got %d rows", table, count)
		}
	}
}

func TestRecordLedgerEntryFallbackPath(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	accountID := createTestAccount(t, "Main Fund", 0)

	// Hide the stored function to force the direct insert path.
	const fnArgs = "(UUID, DATE, NUMERIC, TEXT, UUID, TEXT)"
	if _, err := pool.Exec(ctx,
		"ALTER FUNCTION record_account_transaction"+fnArgs+" RENAME TO record_account_transaction_hidden"); err != nil {
		t.Fatalf("failed to hide stored function: %v", err)
	}
	defer func() {
		if _, err := pool.Exec(ctx,
			"ALTER FUNCTION record_account_transaction_hidden"+fnArgs+" RENAME TO record_account_transaction"); err != nil {
			t.Fatalf("failed to restore stored function: %v", err)
		}
	}()

	incomeID, err := CreateIncomeEntry(ctx, CreateIncomeInput{
		AccountID: &accountID,
		Amount:    decimal.NewFromInt(60),
		Category:  "Offering",
		EntryDate: time.Date(2025, 5, 8, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("failed to create income without stored function: %v", err)
	}

	for _, table := range ledgerLogTables {
		if count := countLogRows(t, table, incomeID); count != 1 {
			t.Fatalf("expected fallback write in %s, got %d rows", table, count)
		}
	}
}

func TestSyncAllRecalculatesBalances(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	accountID := createTestAccount(t, "Main Fund", 10)

	if _, err := CreateIncomeEntry(ctx, CreateIncomeInput{
		AccountID: &accountID,
		Amount:    decimal.NewFromInt(15),
		Category:  "Offering",
		EntryDate: time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("failed to create income: %v", err)
	}

	// Corrupt the cached balance; sync must converge it.
	if _, err := pool.Exec(ctx, `UPDATE accounts SET balance = 9999 WHERE id = $1`, accountID); err != nil {
		t.Fatalf("failed to corrupt balance: %v", err)
	}

	report := SyncAll(ctx)
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected sync errors: %v", report.Errors)
	}
	if len(report.Balances) != 1 {
		t.Fatalf("expected 1 balance result, got %d", len(report.Balances))
	}
	if !report.Balances[0].Success {
		t.Fatalf("balance recalc failed: %s", report.Balances[0].Message)
	}
	if !report.Balances[0].Balance.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected balance 25, got %s", report.Balances[0].Balance)
	}

	account, err := GetAccount(ctx, accountID)
	if err != nil {
		t.Fatalf("failed to get account: %v", err)
	}
	if !account.Balance.Valid || !account.Balance.Decimal.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected persisted balance 25, got %v", account.Balance)
	}
}
