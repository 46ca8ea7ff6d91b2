/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestCalculateBalance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opening decimal.NullDecimal
		entries []Entry
		want    string
	}{
		{
			name:    "no entries returns opening balance",
			opening: nullDec("250.00"),
			want:    "250",
		},
		{
			name:    "missing opening balance counts as zero",
			opening: decimal.NullDecimal{},
			entries: []Entry{{Type: TypeIncome, Amount: nullDec("10")}},
			want:    "10",
		},
		{
			name:    "income and expenditure",
			opening: nullDec("100"),
			entries: []Entry{
				{Type: TypeIncome, Amount: nullDec("50")},
				{Type: TypeExpenditure, Amount: nullDec("-30")},
			},
			want: "120",
		},
		{
			name:    "transfer out after income and expenditure",
			opening: nullDec("100"),
			entries: []Entry{
				{Type: TypeIncome, Amount: nullDec("50")},
				{Type: TypeExpenditure, Amount: nullDec("-30")},
				{Type: TypeTransferOut, Amount: nullDec("-20")},
			},
			want: "100",
		},
		{
			name:    "entry with absent amount contributes zero",
			opening: nullDec("75.50"),
			entries: []Entry{
				{Type: TypeIncome, Amount: decimal.NullDecimal{}},
				{Type: TypeTransferIn, Amount: nullDec("24.50")},
			},
			want: "100",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CalculateBalance(tt.opening, tt.entries)
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("CalculateBalance = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCalculateBalanceIdempotent(t *testing.T) {
	t.Parallel()

	opening := nullDec("42.42")
	entries := []Entry{
		{Type: TypeIncome, Amount: nullDec("13.37")},
		{Type: TypeTransferOut, Amount: nullDec("-7.11")},
	}

	first := CalculateBalance(opening, entries)
	second := CalculateBalance(opening, entries)

	if !first.Equal(second) {
		t.Fatalf("repeated computation diverged: %s != %s", first, second)
	}
}

func TestCalculateBalanceOrderIndependent(t *testing.T) {
	t.Parallel()

	opening := nullDec("0")
	forward := []Entry{
		{Type: TypeIncome, Amount: nullDec("10")},
		{Type: TypeExpenditure, Amount: nullDec("-4")},
		{Type: TypeTransferIn, Amount: nullDec("2.25")},
	}
	reversed := []Entry{forward[2], forward[1], forward[0]}

	if a, b := CalculateBalance(opening, forward), CalculateBalance(opening, reversed); !a.Equal(b) {
		t.Fatalf("order changed the result: %s != %s", a, b)
	}
}

func TestSignedAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		txType TransactionType
		amount string
		want   string
	}{
		{name: "income stays positive", txType: TypeIncome, amount: "30", want: "30"},
		{name: "expenditure becomes negative", txType: TypeExpenditure, amount: "30", want: "-30"},
		{name: "transfer in stays positive", txType: TypeTransferIn, amount: "12.50", want: "12.5"},
		{name: "transfer out becomes negative", txType: TypeTransferOut, amount: "12.50", want: "-12.5"},
		{name: "already negative outflow is normalized once", txType: TypeExpenditure, amount: "-30", want: "-30"},
		{name: "already negative inflow is normalized", txType: TypeIncome, amount: "-30", want: "30"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SignedAmount(tt.txType, dec(tt.amount))
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("SignedAmount(%s, %s) = %s, want %s", tt.txType, tt.amount, got, tt.want)
			}
		})
	}
}

func TestTransactionTypeHelpers(t *testing.T) {
	t.Parallel()

	for _, valid := range []TransactionType{TypeIncome, TypeExpenditure, TypeTransferIn, TypeTransferOut} {
		if !valid.IsValid() {
			t.Fatalf("%s should be valid", valid)
		}
	}

	if TransactionType("loan").IsValid() {
		t.Fatal("unknown type should be invalid")
	}

	if TypeIncome.Sign() != 1 || TypeTransferIn.Sign() != 1 {
		t.Fatal("inflows must be positive")
	}

	if TypeExpenditure.Sign() != -1 || TypeTransferOut.Sign() != -1 {
		t.Fatal("outflows must be negative")
	}
}
