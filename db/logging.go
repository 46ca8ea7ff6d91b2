/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "github.com/amoakoh/parishbooks/logging"

var (
	logger     = logging.Logger(logging.SourceDB)
	syncLogger = logging.Logger(logging.SourceSync)
)
