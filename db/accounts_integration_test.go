/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func createTestAccount(t *testing.T, name string, opening int64) uuid.UUID {
	t.Helper()

	id, err := CreateAccount(context.Background(), CreateAccountInput{
		Name:           name,
		OpeningBalance: decimal.NewFromInt(opening),
	})
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	return id
}

func TestAccountBalanceLifecycle(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	mainID := createTestAccount(t, "Main Fund", 100)
	savingsID := createTestAccount(t, "Savings", 0)

	entryDate := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

	if _, err := CreateIncomeEntry(ctx, CreateIncomeInput{
		AccountID: &mainID,
		Amount:    decimal.NewFromInt(50),
		Category:  "Tithes",
		EntryDate: entryDate,
	}); err != nil {
		t.Fatalf("failed to create income: %v", err)
	}

	if _, err := CreateExpenditureEntry(ctx, CreateExpenditureInput{
		AccountID: &mainID,
		Amount:    decimal.NewFromInt(30),
		Category:  "Utilities",
		EntryDate: entryDate,
	}); err != nil {
		t.Fatalf("failed to create expenditure: %v", err)
	}

	summary, err := GetAccountSummary(ctx, mainID)
	if err != nil {
		t.Fatalf("failed to get account summary: %v", err)
	}
	if !summary.ComputedBalance.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected balance 120, got %s", summary.ComputedBalance)
	}
	if summary.EntryCount != 2 {
		t.Fatalf("expected 2 entries, got %d", summary.EntryCount)
	}

	if _, err := CreateTransfer(ctx, CreateTransferInput{
		SourceAccountID:      mainID,
		DestinationAccountID: savingsID,
		Amount:               decimal.NewFromInt(20),
		TransferDate:         entryDate,
	}); err != nil {
		t.Fatalf("failed to create transfer: %v", err)
	}

	summary, err = GetAccountSummary(ctx, mainID)
	if err != nil {
		t.Fatalf("failed to get account summary: %v", err)
	}
	if !summary.ComputedBalance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected source balance 100 after transfer, got %s", summary.ComputedBalance)
	}

	savings, err := GetAccountSummary(ctx, savingsID)
	if err != nil {
		t.Fatalf("failed to get account summary: %v", err)
	}
	if !savings.ComputedBalance.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected destination balance 20 after transfer, got %s", savings.ComputedBalance)
	}
}

func TestDeleteIncomeEntryRestrictedOrigin(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	accountID := createTestAccount(t, "Main Fund", 0)

	id, err := CreateIncomeEntry(ctx, CreateIncomeInput{
		AccountID: &accountID,
		Amount:    decimal.NewFromInt(500),
		Category:  "Loan Proceeds",
		Origin:    OriginLoan,
		EntryDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("failed to create income: %v", err)
	}

	if err := DeleteIncomeEntry(ctx, id); !errors.Is(err, ErrSourceRecordImmutable) {
		t.Fatalf("expected ErrSourceRecordImmutable, got %v", err)
	}

	// The record must still exist.
	if _, err := GetIncomeEntry(ctx, id); err != nil {
		t.Fatalf("income entry should survive refused delete: %v", err)
	}
}

func TestDeleteIncomeEntryRemovesLedgerRows(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	accountID := createTestAccount(t, "Main Fund", 0)
	entryDate := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)

	id, err := CreateIncomeEntry(ctx, CreateIncomeInput{
		AccountID: &accountID,
		Amount:    decimal.NewFromInt(75),
		Category:  "Offering",
		EntryDate: entryDate,
	})
	if err != nil {
		t.Fatalf("failed to create income: %v", err)
	}

	if err := DeleteIncomeEntry(ctx, id); err != nil {
		t.Fatalf("failed to delete income: %v", err)
	}

	for _, table := range ledgerLogTables {
		count := countLogRows(t, table, id)
		if count != 0 {
			t.Fatalf("expected no rows in %s after delete, got %d", table, count)
		}
	}

	summary, err := GetAccountSummary(ctx, accountID)
	if err != nil {
		t.Fatalf("failed to get account summary: %v", err)
	}
	if !summary.ComputedBalance.IsZero() {
		t.Fatalf("expected zero balance after delete, got %s", summary.ComputedBalance)
	}
}

func TestListAccountTransactionsDateFilter(t *testing.T) {
	resetDatabase(t)
	ctx := context.Background()

	accountID := createTestAccount(t, "Main Fund", 0)

	for _, day := range []int{1, 15, 28} {
		if _, err := CreateIncomeEntry(ctx, CreateIncomeInput{
			AccountID: &accountID,
			Amount:    decimal.NewFromInt(10),
			Category:  "Offering",
			EntryDate: time.Date(2025, 5, day, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("failed to create income: %v", err)
		}
	}

	start := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

	transactions, err := ListAccountTransactions(ctx, accountID, &start, &end, 50, 0)
	if err != nil {
		t.Fatalf("failed to list transactions: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("expected 1 transaction in range, got %d", len(transactions))
	}

	transactions, err = ListAccountTransactions(ctx, accountID, nil, nil, 50, 0)
	if err != nil {
		t.Fatalf("failed to list transactions: %v", err)
	}
	if len(transactions) != 3 {
		t.Fatalf("expected 3 transactions unbounded, got %d", len(transactions))
	}

	count, err := CountAccountTransactions(ctx, accountID)
	if err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func countLogRows(t *testing.T, table string, referenceID uuid.UUID) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table + " WHERE reference_id = $1"
	if err := pool.QueryRow(context.Background(), query, referenceID).Scan(&count); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}

	return count
}
