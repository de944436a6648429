// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKey_DeterministicAndSized(t *testing.T) {
	p := New()
	salt := bytes.Repeat([]byte{0xAB}, SaltSize)

	k1, err := p.DeriveKey("intermediate_key", salt)
	require.NoError(t, err)
	k2, err := p.DeriveKey("intermediate_key", salt)
	require.NoError(t, err)

	require.Len(t, k1, KeySize)
	require.Equal(t, k1, k2)

	k3, err := p.DeriveKey("other", salt)
	require.NoError(t, err)
	require.NotEqual(t, k1, k3)
}

func TestAEADRoundTrip(t *testing.T) {
	p := New()
	key, err := p.DeriveKey("secret", bytes.Repeat([]byte{1}, SaltSize))
	require.NoError(t, err)
	nonce, err := p.RandomBytes(NonceSize)
	require.NoError(t, err)

	ciphertext, err := p.AEADEncrypt(key, nonce, []byte("main password <3"))
	require.NoError(t, err)

	plaintext, err := p.AEADDecrypt(key, nonce, ciphertext)
	require.NoError(t, err)
	require.Equal(t, "main password <3", string(plaintext))
}

func TestAEADDecrypt_WrongKeyFails(t *testing.T) {
	p := New()
	key, _ := p.DeriveKey("secret", bytes.Repeat([]byte{1}, SaltSize))
	wrongKey, _ := p.DeriveKey("not-secret", bytes.Repeat([]byte{1}, SaltSize))
	nonce, _ := p.RandomBytes(NonceSize)

	ciphertext, err := p.AEADEncrypt(key, nonce, []byte("data"))
	require.NoError(t, err)

	_, err = p.AEADDecrypt(wrongKey, nonce, ciphertext)
	require.ErrorIs(t, err, ErrCryptoFail)
}

func TestHashVerify(t *testing.T) {
	p := New()
	hash, err := p.Hash([]byte("main password <3"))
	require.NoError(t, err)

	ok, err := p.Verify([]byte("main password <3"), hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = p.Verify([]byte("wrong"), hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRandomBytes_LengthAndRandomness(t *testing.T) {
	p := New()
	a, err := p.RandomBytes(32)
	require.NoError(t, err)
	b, err := p.RandomBytes(32)
	require.NoError(t, err)

	require.Len(t, a, 32)
	require.NotEqual(t, a, b)
}
