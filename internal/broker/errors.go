// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package broker

import "errors"

// ErrUnknownUser is returned by a [UserResolver] when the requested
// account does not exist on the host.
var ErrUnknownUser = errors.New("unknown user")
