// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package channel

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/binary"
	"fmt"

	"github.com/login-ng/login-ng/internal/crypto"
)

// frameHeaderSize is the 8-byte little-endian length prefix plus the
// 12-byte AES-GCM nonce that precede the RSA-encrypted key in every frame.
const frameHeaderSize = 8 + crypto.NonceSize

// minFrameSize is the minimum frame length checked before parsing: header
// plus the full transcript; the encrypted key's length is checked
// separately against the declared key length (spec.md §4.6's stated reject
// threshold; the actual AES-GCM ciphertext also carries a 16-byte
// authentication tag, so genuine frames are always somewhat longer than
// this floor).
const minFrameSize = frameHeaderSize + TranscriptSize

// Encrypt implements the client side of spec.md §4.6 steps 2–4: pad and
// interleave plaintext with ott into a 510-byte transcript, seal it under
// a fresh AES-256 key, then RSA-PKCS#1v1.5-encrypt that key under pubKey.
// Returns the framed ciphertext ready to send to open_session.
func Encrypt(primitives crypto.Primitives, pubKey *rsa.PublicKey, plaintext []byte, ott OTT) ([]byte, error) {
	if len(plaintext) > PlaintextMaxSize {
		return nil, ErrPlaintextTooLong
	}

	var padded [PlaintextMaxSize]byte
	copy(padded[:], plaintext)

	transcript := interleave(padded, ott)

	key, err := primitives.RandomBytes(crypto.KeySize)
	if err != nil {
		return nil, err
	}
	nonce, err := primitives.RandomBytes(crypto.NonceSize)
	if err != nil {
		return nil, err
	}

	ciphertext, err := primitives.AEADEncrypt(key, nonce, transcript[:])
	if err != nil {
		return nil, err
	}

	encryptedKey, err := rsa.EncryptPKCS1v15(rand.Reader, pubKey, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptFailed, err)
	}

	var frame []byte
	var lengthPrefix [8]byte
	binary.LittleEndian.PutUint64(lengthPrefix[:], uint64(len(encryptedKey)))
	frame = append(frame, lengthPrefix[:]...)
	frame = append(frame, nonce...)
	frame = append(frame, encryptedKey...)
	frame = append(frame, ciphertext...)

	return frame, nil
}

// Decrypt implements the broker side of spec.md §4.6 steps 5–6: parse the
// frame, RSA-decrypt the AES key, AES-GCM-decrypt the transcript, and
// de-interleave it into the candidate plaintext and token. The caller is
// responsible for consuming the token against a [PreludeStore] — Decrypt
// performs no replay check of its own.
func Decrypt(primitives crypto.Primitives, privKey *rsa.PrivateKey, frame []byte) (plaintext []byte, token OTT, err error) {
	if len(frame) < minFrameSize {
		return nil, token, ErrInvalidFrame
	}

	keyLen := binary.LittleEndian.Uint64(frame[:8])
	rest := frame[8:]

	if keyLen == 0 || uint64(len(rest)) < uint64(crypto.NonceSize)+keyLen {
		return nil, token, ErrInvalidFrame
	}

	nonce := rest[:crypto.NonceSize]
	rest = rest[crypto.NonceSize:]

	encryptedKey := rest[:keyLen]
	ciphertext := rest[keyLen:]

	key, err := rsa.DecryptPKCS1v15(rand.Reader, privKey, encryptedKey)
	if err != nil {
		return nil, token, fmt.Errorf("%w: %w", ErrDecryptFailed, err)
	}
	if len(key) != crypto.KeySize {
		return nil, token, ErrInvalidKeyLength
	}

	transcript, err := primitives.AEADDecrypt(key, nonce, ciphertext)
	if err != nil {
		return nil, token, fmt.Errorf("%w: %w", ErrDecryptFailed, err)
	}
	if len(transcript) != TranscriptSize {
		return nil, token, ErrInvalidFrame
	}

	var fixedTranscript [TranscriptSize]byte
	copy(fixedTranscript[:], transcript)

	padded, tok := deinterleave(fixedTranscript)
	token = tok

	plaintext = trimTrailingZeros(padded[:])

	return plaintext, token, nil
}

// interleave forms the 510-byte transcript X where X[2i] = padded[i] and
// X[2i+1] = ott[i] (spec.md §4.6 step 2).
func interleave(padded [PlaintextMaxSize]byte, ott OTT) [TranscriptSize]byte {
	var x [TranscriptSize]byte
	for i := 0; i < PlaintextMaxSize; i++ {
		x[2*i] = padded[i]
		x[2*i+1] = ott[i]
	}
	return x
}

// deinterleave reverses interleave.
func deinterleave(x [TranscriptSize]byte) (padded [PlaintextMaxSize]byte, ott OTT) {
	for i := 0; i < PlaintextMaxSize; i++ {
		padded[i] = x[2*i]
		ott[i] = x[2*i+1]
	}
	return padded, ott
}

func trimTrailingZeros(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}
