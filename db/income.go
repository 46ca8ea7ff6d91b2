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

// CreateIncomeInput represents input for recording income.
type CreateIncomeInput struct {
	AccountID   *uuid.UUID
	Amount      decimal.Decimal
	Category    string
	Origin      SourceOrigin
	Description *string
	EntryDate   time.Time
}

// CreateIncomeEntry records income and appends the derived ledger entry.
// The source row and the ledger rows are written sequentially, not in one
// transaction; a crash in between is corrected by the next sync pass.
func CreateIncomeEntry(ctx context.Context, input CreateIncomeInput) (uuid.UUID, error) {
	if pool == nil {
		return uuid.UUID{}, ErrDatabaseConnectionNotInitialized
	}
	if input.Category == "" {
		return uuid.UUID{}, fmt.Errorf("category is required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return uuid.UUID{}, fmt.Errorf("amount must be greater than zero")
	}
	if input.Origin == "" {
		input.Origin = OriginManual
	}

	query := `
		INSERT INTO income_entries (account_id, amount, category, origin, description, entry_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id uuid.UUID
	if err := pool.QueryRow(
		ctx,
		query,
		input.AccountID,
		input.Amount,
		input.Category,
		input.Origin,
		input.Description,
		input.EntryDate,
	).Scan(&id); err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to create income entry: %w", err)
	}

	if input.AccountID != nil {
		signed := ledger.SignedAmount(ledger.TypeIncome, input.Amount)
		if err := recordLedgerEntry(ctx, *input.AccountID, input.EntryDate, signed, ledger.TypeIncome, id, ledger.RefIncomeEntry); err != nil {
			logger.Error("Income recorded but ledger append failed; next sync will backfill",
				"income_id", id, "error", err)
		}

		refreshAccountBalance(ctx, *input.AccountID)
	}

	return id, nil
}

// GetIncomeEntry fetches one income record.
func GetIncomeEntry(ctx context.Context, id uuid.UUID) (*IncomeEntry, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, account_id, amount, category, origin, description, entry_date, created_at, updated_at
		FROM income_entries
		WHERE id = $1
	`

	var entry IncomeEntry
	if err := pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.Amount,
		&entry.Category,
		&entry.Origin,
		&entry.Description,
		&entry.EntryDate,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("income entry not found")
		}

		return nil, fmt.Errorf("failed to get income entry: %w", err)
	}

	return &entry, nil
}

// DeleteIncomeEntry removes a manually-created income record together with
// its derived ledger entries, then refreshes the account balance.
// Application-managed records (loan, asset disposal, opening balance) are
// refused.
func DeleteIncomeEntry(ctx context.Context, id uuid.UUID) error {
	entry, err := GetIncomeEntry(ctx, id)
	if err != nil {
		return err
	}

	if !entry.Origin.Deletable() {
		return ErrSourceRecordImmutable
	}

	if _, err := pool.Exec(ctx, `DELETE FROM income_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete income entry: %w", err)
	}

	deleteLedgerEntries(ctx, id, ledger.RefIncomeEntry)

	if entry.AccountID != nil {
		refreshAccountBalance(ctx, *entry.AccountID)
	}

	return nil
}
