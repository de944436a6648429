// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package channel

import "errors"

var (
	// ErrPlaintextTooLong is returned when a plaintext longer than
	// [PlaintextMaxSize] bytes is offered to Encrypt.
	ErrPlaintextTooLong = errors.New("plaintext exceeds maximum size")

	// ErrInvalidOTT is returned when a one-time token is not exactly
	// [OTTSize] bytes.
	ErrInvalidOTT = errors.New("invalid one-time token length")

	// ErrInvalidFrame is returned when a ciphertext frame is shorter than
	// the minimum valid length, or its declared key length is absurd.
	ErrInvalidFrame = errors.New("invalid ciphertext frame")

	// ErrInvalidKeyLength is returned when the RSA-decrypted AES key is
	// not exactly 32 bytes.
	ErrInvalidKeyLength = errors.New("invalid decrypted key length")

	// ErrDecryptFailed wraps any RSA or AES-GCM decryption failure.
	ErrDecryptFailed = errors.New("secure channel decryption failed")

	// ErrReplay describes a presented token that is absent from the table
	// or does not match the stored value — either a replay attempt or a
	// token nobody issued. PreludeStore.Consume reports that case as a
	// false result rather than returning this error.
	ErrReplay = errors.New("one-time token replay or mismatch")
)
