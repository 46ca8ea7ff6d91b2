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
)

// CreateLiabilityInput represents input for recording an obligation.
type CreateLiabilityInput struct {
	Name      string
	Principal decimal.Decimal
}

// CreateLiability records an obligation with its balance set to the
// principal.
func CreateLiability(ctx context.Context, input CreateLiabilityInput) (uuid.UUID, error) {
	if pool == nil {
		return uuid.UUID{}, ErrDatabaseConnectionNotInitialized
	}
	if input.Name == "" {
		return uuid.UUID{}, fmt.Errorf("liability name is required")
	}
	if input.Principal.LessThanOrEqual(decimal.Zero) {
		return uuid.UUID{}, fmt.Errorf("principal must be greater than zero")
	}

	query := `
		INSERT INTO liabilities (name, principal, balance)
		VALUES ($1, $2, $2)
		RETURNING id
	`

	var id uuid.UUID
	if err := pool.QueryRow(ctx, query, input.Name, input.Principal).Scan(&id); err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to create liability: %w", err)
	}

	return id, nil
}

// GetLiability fetches one liability.
func GetLiability(ctx context.Context, id uuid.UUID) (*Liability, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, name, principal, balance, created_at, updated_at
		FROM liabilities
		WHERE id = $1
	`

	var liability Liability
	if err := pool.QueryRow(ctx, query, id).Scan(
		&liability.ID,
		&liability.Name,
		&liability.Principal,
		&liability.Balance,
		&liability.CreatedAt,
		&liability.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("liability not found")
		}

		return nil, fmt.Errorf("failed to get liability: %w", err)
	}

	return &liability, nil
}

// ListLiabilities returns all liabilities, largest balance first.
func ListLiabilities(ctx context.Context) ([]Liability, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, name, principal, balance, created_at, updated_at
		FROM liabilities
		ORDER BY balance DESC, name ASC
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query liabilities: %w", err)
	}
	defer rows.Close()

	var liabilities []Liability
	for rows.Next() {
		var liability Liability
		if err := rows.Scan(
			&liability.ID,
			&liability.Name,
			&liability.Principal,
			&liability.Balance,
			&liability.CreatedAt,
			&liability.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		liabilities = append(liabilities, liability)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liabilities: %w", err)
	}

	return liabilities, nil
}

// LiabilityPaymentInput represents input for paying down a liability.
type LiabilityPaymentInput struct {
	LiabilityID uuid.UUID
	AccountID   *uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Description *string
}

// RecordLiabilityPayment materializes a payment as an expenditure record
// with origin = liability, so it flows into the ledger like any other
// spending, then reduces the liability balance. The expenditure cannot be
// deleted through the API.
func RecordLiabilityPayment(ctx context.Context, input LiabilityPaymentInput) (uuid.UUID, error) {
	liability, err := GetLiability(ctx, input.LiabilityID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return uuid.UUID{}, fmt.Errorf("payment amount must be greater than zero")
	}
	if input.Amount.GreaterThan(liability.Balance) {
		return uuid.UUID{}, fmt.Errorf("payment exceeds outstanding balance of %s", liability.Balance)
	}

	expenditureID, err := CreateExpenditureEntry(ctx, CreateExpenditureInput{
		AccountID:   input.AccountID,
		LiabilityID: &input.LiabilityID,
		Amount:      input.Amount,
		Category:    "Liability Payment",
		Origin:      OriginLiability,
		Description: input.Description,
		EntryDate:   input.PaymentDate,
	})
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to record liability payment: %w", err)
	}

	if _, err := pool.Exec(ctx,
		`UPDATE liabilities SET balance = balance - $1, updated_at = now() WHERE id = $2`,
		input.Amount, input.LiabilityID); err != nil {
		logger.Error("Liability payment recorded but balance update failed",
			"liability_id", input.LiabilityID, "expenditure_id", expenditureID, "error", err)
	}

	return expenditureID, nil
}

// DeleteLiability removes a liability. Payment history stays as
// expenditure records with the foreign key nulled out.
func DeleteLiability(ctx context.Context, id uuid.UUID) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	result, err := pool.Exec(ctx, `DELETE FROM liabilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete liability: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("liability not found")
	}

	return nil
}
