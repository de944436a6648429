// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

// ErrCryptoFail wraps any failure from the AEAD, hashing, or randomness
// primitives below (wrong key, corrupted ciphertext, RNG exhaustion, ...).
var ErrCryptoFail = errors.New("cryptographic operation failed")
