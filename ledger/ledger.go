/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */

// Package ledger holds the pure account-balance arithmetic shared by the
// synchronizer, the HTTP routes and the reports. Nothing in here touches
// the database.
package ledger

import "github.com/shopspring/decimal"

// TransactionType classifies a ledger entry by the direction of money
// movement relative to its account.
type TransactionType string

// TransactionType values supported by the ledger log tables.
const (
	TypeIncome      TransactionType = "income"
	TypeExpenditure TransactionType = "expenditure"
	TypeTransferIn  TransactionType = "transfer_in"
	TypeTransferOut TransactionType = "transfer_out"
)

// IsValid reports whether the transaction type is one the ledger knows.
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeIncome, TypeExpenditure, TypeTransferIn, TypeTransferOut:
		return true
	}

	return false
}

// Sign returns +1 for inflows and -1 for outflows.
func (t TransactionType) Sign() int {
	if t == TypeExpenditure || t == TypeTransferOut {
		return -1
	}

	return 1
}

// ReferenceType identifies the source table a ledger entry was derived
// from. A transfer produces two entries, so its two directions are distinct
// reference types and the (reference_id, reference_type) pair stays unique.
type ReferenceType string

// ReferenceType values for the supported source records.
const (
	RefIncomeEntry      ReferenceType = "income_entry"
	RefExpenditureEntry ReferenceType = "expenditure_entry"
	RefTransferIn       ReferenceType = "transfer_in"
	RefTransferOut      ReferenceType = "transfer_out"
)

// Entry is the minimal view of a ledger entry the calculator needs. Amount
// is already signed; Type is carried for reporting, not recomputed here.
type Entry struct {
	Type   TransactionType
	Amount decimal.NullDecimal
}

// SignedAmount applies the sign convention to an unsigned source amount.
// The sign is fixed once, at entry creation time.
func SignedAmount(t TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t.Sign() < 0 {
		return amount.Abs().Neg()
	}

	return amount.Abs()
}

// CalculateBalance returns opening balance plus the sum of all signed entry
// amounts. A missing opening balance counts as zero, as does any entry with
// an absent amount. The function is pure: same inputs, same output.
func CalculateBalance(opening decimal.NullDecimal, entries []Entry) decimal.Decimal {
	balance := decimal.Zero
	if opening.Valid {
		balance = opening.Decimal
	}

	for _, entry := range entries {
		if !entry.Amount.Valid {
			continue
		}

		balance = balance.Add(entry.Amount.Decimal)
	}

	return balance
}
