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

// CreateExpenditureInput represents input for recording expenditure.
type CreateExpenditureInput struct {
	AccountID   *uuid.UUID
	BudgetID    *uuid.UUID
	LiabilityID *uuid.UUID
	Amount      decimal.Decimal
	Category    string
	Origin      SourceOrigin
	Description *string
	EntryDate   time.Time
}

// CreateExpenditureEntry records expenditure and appends the derived
// ledger entry, signed negative.
func CreateExpenditureEntry(ctx context.Context, input CreateExpenditureInput) (uuid.UUID, error) {
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
		INSERT INTO expenditure_entries (account_id, budget_id, liability_id, amount, category, origin, description, entry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id uuid.UUID
	if err := pool.QueryRow(
		ctx,
		query,
		input.AccountID,
		input.BudgetID,
		input.LiabilityID,
		input.Amount,
		input.Category,
		input.Origin,
		input.Description,
		input.EntryDate,
	).Scan(&id); err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to create expenditure entry: %w", err)
	}

	if input.AccountID != nil {
		signed := ledger.SignedAmount(ledger.TypeExpenditure, input.Amount)
		if err := recordLedgerEntry(ctx, *input.AccountID, input.EntryDate, signed, ledger.TypeExpenditure, id, ledger.RefExpenditureEntry); err != nil {
			logger.Error("Expenditure recorded but ledger append failed; next sync will backfill",
				"expenditure_id", id, "error", err)
		}

		refreshAccountBalance(ctx, *input.AccountID)
	}

	return id, nil
}

// GetExpenditureEntry fetches one expenditure record.
func GetExpenditureEntry(ctx context.Context, id uuid.UUID) (*ExpenditureEntry, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, account_id, budget_id, liability_id, amount, category, origin, description, entry_date, created_at, updated_at
		FROM expenditure_entries
		WHERE id = $1
	`

	var entry ExpenditureEntry
	if err := pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.BudgetID,
		&entry.LiabilityID,
		&entry.Amount,
		&entry.Category,
		&entry.Origin,
		&entry.Description,
		&entry.EntryDate,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("expenditure entry not found")
		}

		return nil, fmt.Errorf("failed to get expenditure entry: %w", err)
	}

	return &entry, nil
}

// DeleteExpenditureEntry removes a manually-created expenditure record
// together with its derived ledger entries. Budget-driven and liability
// payment records are refused.
func DeleteExpenditureEntry(ctx context.Context, id uuid.UUID) error {
	entry, err := GetExpenditureEntry(ctx, id)
	if err != nil {
		return err
	}

	if !entry.Origin.Deletable() {
		return ErrSourceRecordImmutable
	}

	if _, err := pool.Exec(ctx, `DELETE FROM expenditure_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete expenditure entry: %w", err)
	}

	deleteLedgerEntries(ctx, id, ledger.RefExpenditureEntry)

	if entry.AccountID != nil {
		refreshAccountBalance(ctx, *entry.AccountID)
	}

	return nil
}
