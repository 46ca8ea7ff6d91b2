/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"github.com/amoakoh/parishbooks/logging"
)

var logger = logging.Logger(logging.SourceWeb)
