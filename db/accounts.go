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
	"github.com/shopspring/decimal"

	"github.com/amoakoh/parishbooks/ledger"
)

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name           string
	OpeningBalance decimal.Decimal
	BankName       *string
	AccountNumber  *string
	Description    *string
}

// CreateAccount creates a new account and returns its ID.
func CreateAccount(ctx context.Context, input CreateAccountInput) (uuid.UUID, error) {
	if pool == nil {
		return uuid.UUID{}, ErrDatabaseConnectionNotInitialized
	}
	if input.Name == "" {
		return uuid.UUID{}, fmt.Errorf("account name is required")
	}

	query := `
		INSERT INTO accounts (name, opening_balance, bank_name, account_number, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id uuid.UUID
	if err := pool.QueryRow(
		ctx,
		query,
		input.Name,
		input.OpeningBalance,
		input.BankName,
		input.AccountNumber,
		input.Description,
	).Scan(&id); err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to create account: %w", err)
	}

	return id, nil
}

// GetAccount fetches a single account by ID.
func GetAccount(ctx context.Context, accountID uuid.UUID) (*Account, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, name, opening_balance, balance, bank_name, account_number, description, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var account Account
	if err := pool.QueryRow(ctx, query, accountID).Scan(
		&account.ID,
		&account.Name,
		&account.OpeningBalance,
		&account.Balance,
		&account.BankName,
		&account.AccountNumber,
		&account.Description,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}

		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

// ListAccounts returns all accounts without derived balances.
func ListAccounts(ctx context.Context) ([]Account, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, name, opening_balance, balance, bank_name, account_number, description, created_at, updated_at
		FROM accounts
		ORDER BY name ASC
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var account Account
		if err := rows.Scan(
			&account.ID,
			&account.Name,
			&account.OpeningBalance,
			&account.Balance,
			&account.BankName,
			&account.AccountNumber,
			&account.Description,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// ListAccountSummaries returns all accounts with balances recomputed from
// the ledger view. The cached balance column is never trusted here.
func ListAccountSummaries(ctx context.Context) ([]AccountSummary, error) {
	accounts, err := ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	entriesByAccount, countsByAccount, err := ledgerEntriesGroupedByAccount(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		opening := decimal.NullDecimal{Decimal: account.OpeningBalance, Valid: true}
		summaries = append(summaries, AccountSummary{
			Account:         account,
			ComputedBalance: ledger.CalculateBalance(opening, entriesByAccount[account.ID]),
			EntryCount:      countsByAccount[account.ID],
		})
	}

	return summaries, nil
}

// GetAccountSummary returns one account with its recomputed balance.
func GetAccountSummary(ctx context.Context, accountID uuid.UUID) (*AccountSummary, error) {
	account, err := GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entries, err := ledgerEntriesForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	opening := decimal.NullDecimal{Decimal: account.OpeningBalance, Valid: true}

	return &AccountSummary{
		Account:         *account,
		ComputedBalance: ledger.CalculateBalance(opening, entries),
		EntryCount:      int64(len(entries)),
	}, nil
}

// DeleteAccount removes an account; ledger entries cascade with it.
func DeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	result, err := pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// ListAccountTransactions returns ledger log entries for one account,
// newest first, optionally bounded by dates.
func ListAccountTransactions(ctx context.Context, accountID uuid.UUID, start, end *time.Time, limit, offset int) ([]AccountTransaction, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, account_id, entry_date, amount, transaction_type, reference_id, reference_type,
			is_reconciled, created_at, updated_at
		FROM account_transactions
		WHERE account_id = $1
			AND ($2::date IS NULL OR entry_date >= $2)
			AND ($3::date IS NULL OR entry_date <= $3)
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := pool.Query(ctx, query, accountID, start, end, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query account transactions: %w", err)
	}
	defer rows.Close()

	return scanAccountTransactions(rows)
}

// CountAccountTransactions returns the transaction count for one account.
func CountAccountTransactions(ctx context.Context, accountID uuid.UUID) (int64, error) {
	if pool == nil {
		return 0, ErrDatabaseConnectionNotInitialized
	}

	var count int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM account_transactions WHERE account_id = $1`, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count account transactions: %w", err)
	}

	return count, nil
}

func scanAccountTransactions(rows pgx.Rows) ([]AccountTransaction, error) {
	var transactions []AccountTransaction
	for rows.Next() {
		var tx AccountTransaction
		if err := rows.Scan(
			&tx.ID,
			&tx.AccountID,
			&tx.EntryDate,
			&tx.Amount,
			&tx.Type,
			&tx.ReferenceID,
			&tx.ReferenceType,
			&tx.IsReconciled,
			&tx.CreatedAt,
			&tx.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account transactions: %w", err)
	}

	return transactions, nil
}

// ledgerEntriesForAccount reads one account's signed entries from the
// authoritative union view.
func ledgerEntriesForAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.Entry, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT transaction_type, amount
		FROM account_ledger
		WHERE account_id = $1
	`

	rows, err := pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger view: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		if err := rows.Scan(&entry.Type, &entry.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	return entries, nil
}

func ledgerEntriesGroupedByAccount(ctx context.Context) (map[uuid.UUID][]ledger.Entry, map[uuid.UUID]int64, error) {
	if pool == nil {
		return nil, nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT account_id, transaction_type, amount
		FROM account_ledger
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ledger view: %w", err)
	}
	defer rows.Close()

	entries := make(map[uuid.UUID][]ledger.Entry)
	counts := make(map[uuid.UUID]int64)
	for rows.Next() {
		var accountID uuid.UUID
		var entry ledger.Entry
		if err := rows.Scan(&accountID, &entry.Type, &entry.Amount); err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries[accountID] = append(entries[accountID], entry)
		counts[accountID]++
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	return entries, counts, nil
}
