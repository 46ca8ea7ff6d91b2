/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	ErrDatabaseURLEnvVarNotSet          = errors.New("DATABASE_URL environment variable is not set")
	ErrDatabaseNameNotSpecified         = errors.New("database name not specified in connection URL")
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	ErrAccountNotFound                  = errors.New("account not found")
	ErrSessionNotFound                  = errors.New("reconciliation session not found")
	ErrSourceRecordImmutable            = errors.New("source record is managed by the application and cannot be deleted")
	ErrNoLedgerWritePath                = errors.New("all ledger write paths failed")
)
