// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package login

import "errors"

// ErrRetryBudgetExhausted is returned by [Orchestrator.Run] when every
// retry attempt has failed.
var ErrRetryBudgetExhausted = errors.New("retry budget exhausted")
