// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package channel implements the Secure Channel handshake and wire format
// (spec.md §4.6, component C6): a one-time-token prelude plus a hybrid
// RSA-4096 + AES-256-GCM envelope carrying a 510-byte interleaved
// transcript from an unprivileged client to the privileged broker.
//
// This is a deliberate redesign of the scheme in
// original_source/pam_login_ng-common/src/security.rs, which RSA-encrypts
// the 510-byte transcript directly — a payload too large for RSA-4096's
// PKCS#1 v1.5 envelope (roughly 501 bytes at this key size). The hybrid
// envelope here generates a fresh AES-256 key per message, AES-GCM-encrypts
// the transcript under it, and RSA-encrypts only the 32-byte key.
package channel

import (
	"crypto/sha256"
	"encoding/json"

	"github.com/login-ng/login-ng/internal/crypto"
)

// OTTSize is the length in bytes of a one-time token.
const OTTSize = 255

// PlaintextMaxSize is the maximum plaintext length Encrypt accepts before
// zero-padding to fill half of the 510-byte transcript.
const PlaintextMaxSize = 255

// TranscriptSize is the size of the interleaved transcript X: two
// 255-byte halves (padded plaintext and token) interleaved byte-by-byte.
const TranscriptSize = 2 * OTTSize

// OTT is a one-time token.
type OTT [OTTSize]byte

// wirePrelude is the JSON "structured text blob" spec.md §4.6 step 1
// describes: the broker's public key PEM and a freshly issued token.
type wirePrelude struct {
	PubKeyPEM string `json:"pub_key_pem"`
	OTT       []byte `json:"ott"`
}

// EncodePrelude serialises a prelude for transmission to the client.
func EncodePrelude(pubKeyPEM []byte, ott OTT) ([]byte, error) {
	return json.Marshal(wirePrelude{PubKeyPEM: string(pubKeyPEM), OTT: ott[:]})
}

// DecodePrelude parses a prelude produced by EncodePrelude.
func DecodePrelude(data []byte) (pubKeyPEM []byte, ott OTT, err error) {
	var wp wirePrelude
	if err := json.Unmarshal(data, &wp); err != nil {
		return nil, ott, err
	}
	if len(wp.OTT) != OTTSize {
		return nil, ott, ErrInvalidOTT
	}
	copy(ott[:], wp.OTT)
	return []byte(wp.PubKeyPEM), ott, nil
}

// tokenKey derives the in-memory table key for an OTT. The original keys
// its table by a non-cryptographic 64-bit hash of the token; this package
// uses a full SHA-256 digest instead, since the key is purely an internal
// lookup index (never transmitted) and collision-freedom costs nothing
// here.
func tokenKey(t OTT) string {
	sum := sha256.Sum256(t[:])
	return string(sum[:])
}

// PreludeStore holds outstanding one-time tokens between initiate() and
// the matching open_session() (spec.md §4.6 steps 1 and 6). It is bounded:
// when Issue would exceed maxSize outstanding entries, the oldest
// unconsumed entry is evicted (spec.md §9's resolution of the OTT
// reclamation open question — a best-effort bound, not a time-based
// sweep).
type PreludeStore struct {
	maxSize int
	order   []string
	entries map[string]OTT
}

// NewPreludeStore constructs a PreludeStore bounded at maxSize outstanding
// tokens.
func NewPreludeStore(maxSize int) *PreludeStore {
	return &PreludeStore{maxSize: maxSize, entries: make(map[string]OTT)}
}

// Issue generates a fresh one-time token using primitives' CSPRNG, records
// it, and returns it for inclusion in a prelude.
func (s *PreludeStore) Issue(primitives crypto.Primitives) (OTT, error) {
	var ott OTT
	random, err := primitives.RandomBytes(OTTSize)
	if err != nil {
		return ott, err
	}
	copy(ott[:], random)

	key := tokenKey(ott)
	if _, exists := s.entries[key]; !exists {
		if s.maxSize > 0 && len(s.order) >= s.maxSize {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.entries, oldest)
		}
		s.order = append(s.order, key)
	}
	s.entries[key] = ott

	return ott, nil
}

// Consume atomically removes and validates candidate against the stored
// token table (spec.md §4.6 step 6). It returns true only if a token was
// present under candidate's key and equal to candidate — this is the
// channel's replay defence.
func (s *PreludeStore) Consume(candidate OTT) bool {
	key := tokenKey(candidate)
	stored, ok := s.entries[key]
	if !ok {
		return false
	}

	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return stored == candidate
}
