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

func setupSessionWithTransaction(t *testing.T) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	accountID := createTestAccount(t, "Main Fund", 0)

	if _, err := CreateIncomeEntry(ctx, CreateIncomeInput{
		AccountID: &accountID,
		Amount:    decimal.NewFromInt(100),
		Category:  "Tithes",
		EntryDate: time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("failed to create income: %v", err)
	}

	sessionID, err := CreateReconciliationSession(ctx, CreateSessionInput{
		AccountID:      accountID,
		StatementStart: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		StatementEnd:   time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	transactions, err := ListSessionTransactions(ctx, sessionID)
	if err != nil {
		t.Fatalf("failed to list session transactions: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("expected 1 candidate transaction, got %d", len(transactions))
	}

	return sessionID, transactions[0].ID
}

func TestSetReconciledIdempotent(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	sessionID, txID := setupSessionWithTransaction(t)

	for i := 0; i < 2; i++ {
		results, err := SetReconciled(ctx, sessionID, []uuid.UUID{txID}, true)
		if err != nil {
			t.Fatalf("SetReconciled attempt %d failed: %v", i+1, err)
		}
		if len(results) != 1 || !results[0].Success {
			t.Fatalf("attempt %d: expected success, got %+v", i+1, results)
		}
	}

	// Exactly one status row regardless of repeats.
	var count int
	if err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reconciliation_txns WHERE session_id = $1`, sessionID).Scan(&count); err != nil {
		t.Fatalf("failed to count status rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 status row, got %d", count)
	}

	transactions, err := ListSessionTransactions(ctx, sessionID)
	if err != nil {
		t.Fatalf("failed to list session transactions: %v", err)
	}
	if !transactions[0].Reconciled {
		t.Fatal("expected transaction reconciled")
	}
	if transactions[0].StatusSource != statusSourceSessionStore {
		t.Fatalf("expected session store status, got %s", transactions[0].StatusSource)
	}
}

func TestSetReconciledToggleOff(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	sessionID, txID := setupSessionWithTransaction(t)

	if _, err := SetReconciled(ctx, sessionID, []uuid.UUID{txID}, true); err != nil {
		t.Fatalf("failed to reconcile: %v", err)
	}
	if _, err := SetReconciled(ctx, sessionID, []uuid.UUID{txID}, false); err != nil {
		t.Fatalf("failed to unreconcile: %v", err)
	}

	transactions, err := ListSessionTransactions(ctx, sessionID)
	if err != nil {
		t.Fatalf("failed to list session transactions: %v", err)
	}
	if transactions[0].Reconciled {
		t.Fatal("expected transaction unreconciled after toggle off")
	}
	if transactions[0].StatusSource != statusSourceSessionStore {
		t.Fatalf("expected session store status, got %s", transactions[0].StatusSource)
	}
}

func TestSetReconciledBatchPartialFailure(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	sessionID, txID := setupSessionWithTransaction(t)
	missingID := uuid.New()

	results, err := SetReconciled(ctx, sessionID, []uuid.UUID{missingID, txID}, true)
	if err != nil {
		t.Fatalf("SetReconciled failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Success {
		t.Fatal("expected missing transaction to fail")
	}
	if results[0].Message != "transaction not found" {
		t.Fatalf("unexpected failure message: %q", results[0].Message)
	}

	// The failure must not abort the sibling item.
	if !results[1].Success {
		t.Fatalf("expected valid transaction to succeed, got %+v", results[1])
	}

	transactions, err := ListSessionTransactions(ctx, sessionID)
	if err != nil {
		t.Fatalf("failed to list session transactions: %v", err)
	}
	if !transactions[0].Reconciled {
		t.Fatal("expected valid transaction reconciled despite sibling failure")
	}
}

func TestReconciledStatusChain(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	sessionID, txID := setupSessionWithTransaction(t)

	// No status anywhere: default false.
	transactions, err := ListSessionTransactions(ctx, sessionID)
	if err != nil {
		t.Fatalf("failed to list session transactions: %v", err)
	}
	if transactions[0].Reconciled || transactions[0].StatusSource != statusSourceDefault {
		t.Fatalf("expected default unreconciled, got %+v", transactions[0])
	}

	// Legacy items only.
	if _, err := pool.Exec(ctx, `
		INSERT INTO reconciliation_items (transaction_id, session_id, is_reconciled)
		VALUES ($1, $2, TRUE)
	`, txID, sessionID); err != nil {
		t.Fatalf("failed to seed legacy item: %v", err)
	}

	transactions, err = ListSessionTransactions(ctx, sessionID)
	if err != nil {
		t.Fatalf("failed to list session transactions: %v", err)
	}
	if !transactions[0].Reconciled || transactions[0].StatusSource != statusSourceLegacyItems {
		t.Fatalf("expected legacy items status, got %+v", transactions[0])
	}

	// Flag column outranks legacy items.
	if _, err := pool.Exec(ctx,
		`UPDATE account_transactions SET is_reconciled = TRUE WHERE id = $1`, txID); err != nil {
		t.Fatalf("failed to set flag column: %v", err)
	}

	transactions, err = ListSessionTransactions(ctx, sessionID)
	if err != nil {
		t.Fatalf("failed to list session transactions: %v", err)
	}
	if !transactions[0].Reconciled || transactions[0].StatusSource != statusSourceFlagColumn {
		t.Fatalf("expected flag column status, got %+v", transactions[0])
	}

	// Session store outranks everything, even when it disagrees.
	if _, err := pool.Exec(ctx, `
		INSERT INTO reconciliation_txns (transaction_id, session_id, is_reconciled, reconciled_at)
		VALUES ($1, $2, FALSE, now())
	`, txID, sessionID); err != nil {
		t.Fatalf("failed to seed session store: %v", err)
	}

	transactions, err = ListSessionTransactions(ctx, sessionID)
	if err != nil {
		t.Fatalf("failed to list session transactions: %v", err)
	}
	if transactions[0].Reconciled || transactions[0].StatusSource != statusSourceSessionStore {
		t.Fatalf("expected session store override, got %+v", transactions[0])
	}
}

func TestCreateSessionValidation(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	accountID := createTestAccount(t, "Main Fund", 0)

	_, err := CreateReconciliationSession(ctx, CreateSessionInput{
		AccountID:      accountID,
		StatementStart: time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
		StatementEnd:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatal("expected error for inverted statement period")
	}

	_, err = CreateReconciliationSession(ctx, CreateSessionInput{
		AccountID:      uuid.New(),
		StatementStart: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		StatementEnd:   time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatal("expected error for unknown account")
	}
}
