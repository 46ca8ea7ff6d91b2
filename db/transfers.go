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

// CreateTransferInput represents input for an inter-account transfer.
type CreateTransferInput struct {
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               decimal.Decimal
	Note                 *string
	TransferDate         time.Time
}

// CreateTransfer records a transfer and appends its two ledger entries:
// transfer_out on the source account and transfer_in on the destination.
func CreateTransfer(ctx context.Context, input CreateTransferInput) (uuid.UUID, error) {
	if pool == nil {
		return uuid.UUID{}, ErrDatabaseConnectionNotInitialized
	}
	if input.SourceAccountID == input.DestinationAccountID {
		return uuid.UUID{}, fmt.Errorf("source and destination accounts must differ")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return uuid.UUID{}, fmt.Errorf("amount must be greater than zero")
	}

	query := `
		INSERT INTO account_transfers (source_account_id, destination_account_id, amount, note, transfer_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id uuid.UUID
	if err := pool.QueryRow(
		ctx,
		query,
		input.SourceAccountID,
		input.DestinationAccountID,
		input.Amount,
		input.Note,
		input.TransferDate,
	).Scan(&id); err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to create transfer: %w", err)
	}

	out := ledger.SignedAmount(ledger.TypeTransferOut, input.Amount)
	if err := recordLedgerEntry(ctx, input.SourceAccountID, input.TransferDate, out, ledger.TypeTransferOut, id, ledger.RefTransferOut); err != nil {
		logger.Error("Transfer recorded but outgoing ledger append failed; next sync will backfill",
			"transfer_id", id, "error", err)
	}

	in := ledger.SignedAmount(ledger.TypeTransferIn, input.Amount)
	if err := recordLedgerEntry(ctx, input.DestinationAccountID, input.TransferDate, in, ledger.TypeTransferIn, id, ledger.RefTransferIn); err != nil {
		logger.Error("Transfer recorded but incoming ledger append failed; next sync will backfill",
			"transfer_id", id, "error", err)
	}

	refreshAccountBalance(ctx, input.SourceAccountID)
	refreshAccountBalance(ctx, input.DestinationAccountID)

	return id, nil
}

// GetTransfer fetches one transfer record.
func GetTransfer(ctx context.Context, id uuid.UUID) (*AccountTransfer, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, source_account_id, destination_account_id, amount, note, transfer_date, created_at
		FROM account_transfers
		WHERE id = $1
	`

	var transfer AccountTransfer
	if err := pool.QueryRow(ctx, query, id).Scan(
		&transfer.ID,
		&transfer.SourceAccountID,
		&transfer.DestinationAccountID,
		&transfer.Amount,
		&transfer.Note,
		&transfer.TransferDate,
		&transfer.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transfer not found")
		}

		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}

	return &transfer, nil
}

// DeleteTransfer removes a transfer and both of its ledger entries, then
// refreshes both account balances.
func DeleteTransfer(ctx context.Context, id uuid.UUID) error {
	transfer, err := GetTransfer(ctx, id)
	if err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `DELETE FROM account_transfers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}

	deleteLedgerEntries(ctx, id, ledger.RefTransferOut)
	deleteLedgerEntries(ctx, id, ledger.RefTransferIn)

	refreshAccountBalance(ctx, transfer.SourceAccountID)
	refreshAccountBalance(ctx, transfer.DestinationAccountID)

	return nil
}
