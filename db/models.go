/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amoakoh/parishbooks/ledger"
)

// SourceOrigin records which application flow created a source record.
// Non-manual origins are managed by the application layer and cannot be
// deleted through the API.
type SourceOrigin string

// SourceOrigin values for income and expenditure records.
const (
	OriginManual         SourceOrigin = "manual"
	OriginLoan           SourceOrigin = "loan"
	OriginAssetDisposal  SourceOrigin = "asset_disposal"
	OriginOpeningBalance SourceOrigin = "opening_balance"
	OriginBudget         SourceOrigin = "budget"
	OriginLiability      SourceOrigin = "liability"
)

// Deletable reports whether a record with this origin may be removed by a
// user action. This is a policy invariant, not a storage constraint.
func (o SourceOrigin) Deletable() bool {
	return o == OriginManual
}

// Account represents a financial account.
type Account struct {
	ID             uuid.UUID           `db:"id" json:"id"`
	Name           string              `db:"name" json:"name"`
	OpeningBalance decimal.Decimal     `db:"opening_balance" json:"opening_balance"`
	Balance        decimal.NullDecimal `db:"balance" json:"balance"`
	BankName       *string             `db:"bank_name" json:"bank_name"`
	AccountNumber  *string             `db:"account_number" json:"account_number"`
	Description    *string             `db:"description" json:"description"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at" json:"updated_at"`
}

// AccountSummary is an account with its recomputed balance. The cached
// balance column is a hint only; Balance here always comes from the
// calculator over the ledger view.
type AccountSummary struct {
	Account
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	EntryCount      int64           `json:"entry_count"`
}

// IncomeEntry represents money received.
type IncomeEntry struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	AccountID   *uuid.UUID      `db:"account_id" json:"account_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Category    string          `db:"category" json:"category"`
	Origin      SourceOrigin    `db:"origin" json:"origin"`
	Description *string         `db:"description" json:"description"`
	EntryDate   time.Time       `db:"entry_date" json:"entry_date"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// ExpenditureEntry represents money spent, including liability payments
// (origin = liability) and budget-driven spending (origin = budget).
type ExpenditureEntry struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	AccountID   *uuid.UUID      `db:"account_id" json:"account_id"`
	BudgetID    *uuid.UUID      `db:"budget_id" json:"budget_id"`
	LiabilityID *uuid.UUID      `db:"liability_id" json:"liability_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Category    string          `db:"category" json:"category"`
	Origin      SourceOrigin    `db:"origin" json:"origin"`
	Description *string         `db:"description" json:"description"`
	EntryDate   time.Time       `db:"entry_date" json:"entry_date"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// AccountTransfer moves money between two accounts. It yields a
// transfer_out entry on the source and a transfer_in entry on the
// destination.
type AccountTransfer struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	SourceAccountID      uuid.UUID       `db:"source_account_id" json:"source_account_id"`
	DestinationAccountID uuid.UUID       `db:"destination_account_id" json:"destination_account_id"`
	Amount               decimal.Decimal `db:"amount" json:"amount"`
	Note                 *string         `db:"note" json:"note"`
	TransferDate         time.Time       `db:"transfer_date" json:"transfer_date"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
}

// Liability is an outstanding obligation paid down through expenditure
// records.
type Liability struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Principal decimal.Decimal `db:"principal" json:"principal"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Budget represents a monthly budget category.
type Budget struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	CategoryName string          `db:"category_name" json:"category_name"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	Currency     string          `db:"currency" json:"currency"`
	PeriodStart  time.Time       `db:"period_start" json:"period_start"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// BudgetUsage is a budget with spending totals for its month.
type BudgetUsage struct {
	Budget
	Used      decimal.Decimal `json:"used"`
	Remaining decimal.Decimal `json:"remaining"`
	IsOver    bool            `json:"is_over"`
}

// AccountTransaction is a row in either ledger log table. The amount is
// signed at creation time and never recomputed.
type AccountTransaction struct {
	ID            uuid.UUID              `db:"id" json:"id"`
	AccountID     uuid.UUID              `db:"account_id" json:"account_id"`
	EntryDate     time.Time              `db:"entry_date" json:"entry_date"`
	Amount        decimal.NullDecimal    `db:"amount" json:"amount"`
	Type          ledger.TransactionType `db:"transaction_type" json:"transaction_type"`
	ReferenceID   uuid.UUID              `db:"reference_id" json:"reference_id"`
	ReferenceType ledger.ReferenceType   `db:"reference_type" json:"reference_type"`
	IsReconciled  bool                   `db:"is_reconciled" json:"is_reconciled"`
	CreatedAt     time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time              `db:"updated_at" json:"updated_at"`
}

// ReconciliationSession bounds a statement review for one account.
type ReconciliationSession struct {
	ID               uuid.UUID           `db:"id" json:"id"`
	AccountID        uuid.UUID           `db:"account_id" json:"account_id"`
	StatementStart   time.Time           `db:"statement_start" json:"statement_start"`
	StatementEnd     time.Time           `db:"statement_end" json:"statement_end"`
	StatementBalance decimal.NullDecimal `db:"statement_balance" json:"statement_balance"`
	Note             *string             `db:"note" json:"note"`
	CreatedAt        time.Time           `db:"created_at" json:"created_at"`
}

// SessionTransaction is a ledger entry with its reconciled flag overlaid
// from whichever status store currently holds it.
type SessionTransaction struct {
	AccountTransaction
	Reconciled   bool   `json:"reconciled"`
	StatusSource string `json:"status_source"`
}

// ReconcileItemResult reports the outcome of toggling one transaction in a
// batch. Failures never abort sibling items.
type ReconcileItemResult struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Success       bool      `json:"success"`
	Message       string    `json:"message,omitempty"`
}

// BalanceRecalcResult reports one account's outcome within a batch
// recomputation.
type BalanceRecalcResult struct {
	AccountID uuid.UUID       `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
}

// SyncReport summarizes a full ledger resynchronization pass.
type SyncReport struct {
	IncomeBackfilled      int                   `json:"income_backfilled"`
	ExpenditureBackfilled int                   `json:"expenditure_backfilled"`
	TransfersBackfilled   int                   `json:"transfers_backfilled"`
	CrossCopied           int                   `json:"cross_copied"`
	OrphansPruned         int                   `json:"orphans_pruned"`
	Balances              []BalanceRecalcResult `json:"balances"`
	Errors                []string              `json:"errors,omitempty"`
}
