/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"github.com/flamego/flamego"

	"github.com/amoakoh/parishbooks/config"
	"github.com/amoakoh/parishbooks/db"
)

// Register wires every API endpoint onto the web framework. The config is
// injected so handlers can read defaults like currency and page size.
func Register(f *flamego.Flame, conf *config.Config) {
	f.Map(conf)
	f.Use(RequestLogger)

	f.Get("/healthz", Healthz)

	f.Group("/api", func() {
		f.Get("/accounts", AccountsList)
		f.Post("/accounts", AccountsCreate)
		f.Get("/accounts/{id}", AccountsGet)
		f.Delete("/accounts/{id}", AccountsDelete)
		f.Get("/accounts/{id}/transactions", AccountTransactionsList)
		f.Post("/accounts/{id}/recalculate-balance", AccountRecalculateBalance)
		f.Get("/accounts/{id}/statement.xlsx", AccountStatementExport)

		f.Post("/income", IncomeCreate)
		f.Delete("/income/{id}", IncomeDelete)
		f.Post("/expenditure", ExpenditureCreate)
		f.Delete("/expenditure/{id}", ExpenditureDelete)
		f.Post("/transfers", TransfersCreate)
		f.Delete("/transfers/{id}", TransfersDelete)

		f.Get("/budgets", BudgetsList)
		f.Post("/budgets", BudgetsCreate)
		f.Delete("/budgets/{id}", BudgetsDelete)

		f.Get("/liabilities", LiabilitiesList)
		f.Post("/liabilities", LiabilitiesCreate)
		f.Delete("/liabilities/{id}", LiabilitiesDelete)
		f.Post("/liabilities/{id}/payments", LiabilityPaymentCreate)

		f.Get("/reconciliation", ReconciliationList)
		f.Post("/reconciliation", ReconciliationToggle)
		f.Post("/reconciliation/sessions", SessionsCreate)
		f.Get("/reconciliation/sessions", SessionsList)
		f.Get("/reconciliation/sessions/{id}/transactions", SessionTransactionsList)

		f.Post("/ledger/sync", LedgerSync)

		f.Get("/stats", NewStatsHandler(db.NewCountCache(conf.StatsCacheTTL())))
	})
}
