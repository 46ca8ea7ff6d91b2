/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "github.com/amoakoh/parishbooks/logging"

var appLogger = logging.Logger(logging.SourceApp)
var serverErrLogger = logging.StdLogger(logging.SourceWeb)
