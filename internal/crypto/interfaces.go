// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the cryptographic primitives shared by every
// other component of login-ng-go: key derivation, authenticated encryption,
// adaptive password hashing, and CSPRNG access.
//
// No other package in this module calls crypto/aes, crypto/cipher,
// golang.org/x/crypto/bcrypt or golang.org/x/crypto/hkdf directly — they go
// through [Primitives] so the key hierarchy used by the vault and secure
// channel stays anchored to one set of algorithm choices.
package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_primitives_mock.go -package=mock

// KeySize is the length in bytes of every key produced by [Primitives.DeriveKey].
const KeySize = 32

// NonceSize is the length in bytes of every AEAD nonce used by this package.
const NonceSize = 12

// SaltSize is the length in bytes of the salts used for key derivation (the
// intermediate-key salt and each alternative credential's password salt).
const SaltSize = 32

// Primitives is the cryptographic primitive set used throughout the vault
// and secure-channel layers.
//
// Implementations must guarantee:
//   - every key returned by DeriveKey is exactly [KeySize] bytes;
//   - every nonce accepted/produced by AEADEncrypt/AEADDecrypt is exactly
//     [NonceSize] bytes;
//   - Hash/Verify use the same adaptive one-way hash algorithm, so a hash
//     produced by one Primitives value can always be verified by another.
type Primitives interface {
	// DeriveKey derives a [KeySize]-byte key from input and salt using an
	// HKDF extract-then-expand construction over SHA-256, with an empty
	// "info" parameter. Deterministic: the same (input, salt) pair always
	// yields the same key.
	DeriveKey(input string, salt []byte) ([]byte, error)

	// AEADEncrypt seals plaintext with AES-256-GCM under key and nonce. key
	// must be [KeySize] bytes and nonce [NonceSize] bytes, or an error is
	// returned. The returned ciphertext includes the authentication tag and
	// is opaque to callers.
	AEADEncrypt(key, nonce, plaintext []byte) ([]byte, error)

	// AEADDecrypt opens a ciphertext produced by AEADEncrypt with the same
	// key and nonce. Returns [ErrCryptoFail] if the authentication tag does
	// not match (wrong key, wrong nonce, or corrupted ciphertext).
	AEADDecrypt(key, nonce, ciphertext []byte) ([]byte, error)

	// Hash computes an adaptive one-way hash (bcrypt-class, default cost)
	// of secret, suitable for storage and later verification via Verify.
	Hash(secret []byte) (string, error)

	// Verify reports whether secret matches a hash previously produced by
	// Hash. A non-matching secret returns (false, nil); a malformed hash
	// returns a non-nil error.
	Verify(secret []byte, hash string) (bool, error)

	// RandomBytes returns n cryptographically random bytes read from the
	// OS CSPRNG.
	RandomBytes(n int) ([]byte, error)
}
