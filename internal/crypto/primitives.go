// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/hkdf"
)

// primitives is the default implementation of [Primitives].
type primitives struct{}

// New constructs the default [Primitives]: HKDF-SHA256 key derivation,
// AES-256-GCM AEAD, and bcrypt at [bcrypt.DefaultCost] for the adaptive hash.
func New() Primitives {
	return primitives{}
}

// DeriveKey implements [Primitives]. It runs HKDF-SHA256 with salt as the
// HKDF salt, input as the input keying material, and an empty info string,
// and reads exactly [KeySize] bytes from the expand step.
func (primitives) DeriveKey(input string, salt []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, []byte(input), salt, nil)

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("hkdf expand: %w", err)
	}

	return key, nil
}

// AEADEncrypt implements [Primitives] using AES-256-GCM.
func (primitives) AEADEncrypt(key, nonce, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", ErrCryptoFail, NonceSize, len(nonce))
	}

	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

// AEADDecrypt implements [Primitives] using AES-256-GCM.
func (primitives) AEADDecrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", ErrCryptoFail, NonceSize, len(nonce))
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptoFail, err)
	}

	return plaintext, nil
}

// Hash implements [Primitives] using bcrypt at the default cost.
func (primitives) Hash(secret []byte) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(secret, bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCryptoFail, err)
	}

	return string(hashed), nil
}

// Verify implements [Primitives] using bcrypt.
func (primitives) Verify(secret []byte, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), secret)
	switch {
	case err == nil:
		return true, nil
	case err == bcrypt.ErrMismatchedHashAndPassword:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrCryptoFail, err)
	}
}

// RandomBytes implements [Primitives] by reading from the OS CSPRNG.
func (primitives) RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptoFail, err)
	}

	return buf, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrCryptoFail, KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptoFail, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptoFail, err)
	}

	return gcm, nil
}
