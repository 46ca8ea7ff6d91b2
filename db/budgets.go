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

// CreateBudgetInput represents input for creating a monthly budget.
type CreateBudgetInput struct {
	CategoryName string
	Amount       decimal.Decimal
	Currency     string
	PeriodStart  time.Time
}

// CreateBudget creates a budget for a category and month. The period is
// normalized to the first day of the month.
func CreateBudget(ctx context.Context, input CreateBudgetInput) (uuid.UUID, error) {
	if pool == nil {
		return uuid.UUID{}, ErrDatabaseConnectionNotInitialized
	}
	if input.CategoryName == "" {
		return uuid.UUID{}, fmt.Errorf("category name is required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return uuid.UUID{}, fmt.Errorf("amount must be greater than zero")
	}

	period := time.Date(input.PeriodStart.Year(), input.PeriodStart.Month(), 1, 0, 0, 0, 0, time.UTC)

	query := `
		INSERT INTO budgets (category_name, amount, currency, period_start)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id uuid.UUID
	if err := pool.QueryRow(ctx, query, input.CategoryName, input.Amount, input.Currency, period).Scan(&id); err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to create budget: %w", err)
	}

	return id, nil
}

// GetBudget fetches one budget.
func GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, category_name, amount, currency, period_start, created_at, updated_at
		FROM budgets
		WHERE id = $1
	`

	var budget Budget
	if err := pool.QueryRow(ctx, query, id).Scan(
		&budget.ID,
		&budget.CategoryName,
		&budget.Amount,
		&budget.Currency,
		&budget.PeriodStart,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("budget not found")
		}

		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return &budget, nil
}

// ListBudgetsWithUsage returns budgets for one month with spending totals
// drawn from expenditure records linked by budget_id within the period.
func ListBudgetsWithUsage(ctx context.Context, period time.Time) ([]BudgetUsage, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	monthStart := time.Date(period.Year(), period.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := `
		SELECT b.id, b.category_name, b.amount, b.currency, b.period_start, b.created_at, b.updated_at,
			COALESCE(SUM(e.amount), 0) AS used
		FROM budgets b
		LEFT JOIN expenditure_entries e
			ON e.budget_id = b.id
			AND e.entry_date >= $1 AND e.entry_date < $2
		WHERE b.period_start = $1
		GROUP BY b.id
		ORDER BY b.category_name ASC
	`

	rows, err := pool.Query(ctx, query, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []BudgetUsage
	for rows.Next() {
		var usage BudgetUsage
		if err := rows.Scan(
			&usage.ID,
			&usage.CategoryName,
			&usage.Amount,
			&usage.Currency,
			&usage.PeriodStart,
			&usage.CreatedAt,
			&usage.UpdatedAt,
			&usage.Used,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}

		usage.Remaining = usage.Amount.Sub(usage.Used)
		usage.IsOver = usage.Remaining.IsNegative()
		budgets = append(budgets, usage)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}

// DeleteBudget removes a budget. Linked expenditure records keep their
// history; the foreign key nulls out.
func DeleteBudget(ctx context.Context, id uuid.UUID) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	result, err := pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("budget not found")
	}

	return nil
}
