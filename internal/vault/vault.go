// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault implements the in-memory credential vault described in
// spec.md §4.2 (component C2): one main secret unlockable either directly,
// through its intermediate key, or through any of an ordered list of
// alternative credentials.
//
// # Key hierarchy
//
// Every vault has at most one intermediate key (IK), never persisted in
// clear:
//
//  1. Main secret — the value every unlock path ultimately returns. Stored
//     as an adaptive hash (for direct verification) plus an AEAD ciphertext
//     under a key derived from IK (for recovery via IK or an alternative).
//  2. Intermediate key — derived into an AES-256 key (via HKDF-SHA256) that
//     unwraps the main secret. Stored only as an adaptive hash, for
//     candidate verification without attempting decryption.
//  3. Alternative credentials — each stores IK encrypted under a key
//     derived from its own secret (e.g. a second password, or the empty
//     string for the autologin idiom). Unlocking an alternative recovers
//     IK, which then unlocks the main secret exactly as in step 2.
//
// Vault is pure in-memory and keeps no knowledge of persistence; see
// [login-ng-go/internal/vaultstore] for the extended-attribute storage
// layer that loads and saves a Vault.
package vault

import (
	"time"
	"unicode/utf8"

	"github.com/login-ng/login-ng/internal/crypto"
)

// AlternativeKind identifies the shape of an [Alternative]'s payload. The
// only kind defined by spec.md is KindPassword; future kinds (fingerprint,
// hardware token, ...) extend this set without touching [Vault.Unlock]'s
// control flow, which only ever iterates the alternatives slice.
type AlternativeKind uint32

// KindPassword is the sole defined [AlternativeKind]: a second password
// (possibly the empty string, enabling autologin) that decrypts IK.
const KindPassword AlternativeKind = 0

// MainCredential is the main-secret record described in spec.md §3.
type MainCredential struct {
	// MainHash is the adaptive one-way hash of the main secret.
	MainHash string
	// EncMain is the main secret, AEAD-encrypted under a key derived from IK.
	EncMain []byte
	// EncMainNonce is the 12-byte nonce used for EncMain.
	EncMainNonce [crypto.NonceSize]byte
	// IKSalt is the 32-byte salt used to derive the key that wraps EncMain.
	// Immutable for the lifetime of the record (spec.md §3 invariant).
	IKSalt [crypto.SaltSize]byte
	// IKHash is the adaptive one-way hash of the intermediate key.
	IKHash string
}

// PasswordPayload is the payload of a [KindPassword] alternative, per
// spec.md §3.
type PasswordPayload struct {
	// PwHash is the adaptive one-way hash of the alternative secret.
	PwHash string
	// PwSalt is the 32-byte salt used to derive the key wrapping EncIK.
	PwSalt [crypto.SaltSize]byte
	// EncIK is the intermediate key, AEAD-encrypted under a key derived
	// from the alternative secret.
	EncIK []byte
	// EncIKNonce is the 12-byte nonce used for EncIK.
	EncIKNonce [crypto.NonceSize]byte
}

// Alternative is one named way of recovering the intermediate key, per
// spec.md §3.
type Alternative struct {
	Name      string
	CreatedAt time.Time
	Kind      AlternativeKind
	Password  PasswordPayload
}

// Vault is the in-memory model of one user's credential vault (spec.md §3).
// The zero value, with Main nil and Alternatives empty, is the vault of a
// user who has never set a main password — the "created implicitly empty"
// state spec.md describes.
type Vault struct {
	Main         *MainCredential
	Alternatives []Alternative

	primitives crypto.Primitives
}

// New constructs an empty [Vault] backed by the given [crypto.Primitives].
func New(primitives crypto.Primitives) *Vault {
	return &Vault{primitives: primitives}
}

// isValidPassword reports whether s is a round-trippable UTF-8 string: the
// defence spec.md §4.2 requires against encoding-lossy inputs. A string
// that fails this check would silently change value when stored and
// reloaded as raw UTF-8 bytes.
func isValidPassword(s string) bool {
	return utf8.ValidString(s)
}

// SetMain implements spec.md §4.2 set_main. If no main credential exists
// yet, a fresh [crypto.SaltSize]-byte IK salt is generated. Otherwise ik is
// verified against the existing IK hash (returning [ErrWrongIntermediateKey]
// on mismatch) and the existing salt is reused, so previously issued
// alternative credentials remain valid.
func (v *Vault) SetMain(main, ik string) error {
	if !isValidPassword(main) || !isValidPassword(ik) {
		return ErrInvalidPassword
	}

	var salt [crypto.SaltSize]byte
	if v.Main == nil {
		random, err := v.primitives.RandomBytes(crypto.SaltSize)
		if err != nil {
			return err
		}
		copy(salt[:], random)
	} else {
		ok, err := v.primitives.Verify([]byte(ik), v.Main.IKHash)
		if err != nil {
			return err
		}
		if !ok {
			return ErrWrongIntermediateKey
		}
		salt = v.Main.IKSalt
	}

	record, err := newMainCredential(v.primitives, main, ik, salt)
	if err != nil {
		return err
	}

	v.Main = record
	return nil
}

// newMainCredential builds a [MainCredential] for main, bound to ik via salt.
func newMainCredential(p crypto.Primitives, main, ik string, salt [crypto.SaltSize]byte) (*MainCredential, error) {
	mainHash, err := p.Hash([]byte(main))
	if err != nil {
		return nil, err
	}

	ikHash, err := p.Hash([]byte(ik))
	if err != nil {
		return nil, err
	}

	key, err := p.DeriveKey(ik, salt[:])
	if err != nil {
		return nil, err
	}

	nonceBytes, err := p.RandomBytes(crypto.NonceSize)
	if err != nil {
		return nil, err
	}
	var nonce [crypto.NonceSize]byte
	copy(nonce[:], nonceBytes)

	encMain, err := p.AEADEncrypt(key, nonce[:], []byte(main))
	if err != nil {
		return nil, err
	}

	return &MainCredential{
		MainHash:     mainHash,
		EncMain:      encMain,
		EncMainNonce: nonce,
		IKSalt:       salt,
		IKHash:       ikHash,
	}, nil
}

// AddAlternative implements spec.md §4.2 add_alternative. It requires an
// existing main credential and a valid IK (checked by attempting to unwrap
// the main secret through it), rejects an altSecret that is not a
// round-trippable UTF-8 string, and appends a new [Alternative] in
// insertion order.
func (v *Vault) AddAlternative(name, ik, altSecret string) error {
	if !isValidPassword(altSecret) {
		return ErrInvalidPassword
	}

	// This call's only purpose here is to verify ik unlocks the existing
	// main credential; its result is discarded.
	if _, err := v.mainFromIK(ik); err != nil {
		return err
	}

	salt, err := v.primitives.RandomBytes(crypto.SaltSize)
	if err != nil {
		return err
	}
	var pwSalt [crypto.SaltSize]byte
	copy(pwSalt[:], salt)

	pwHash, err := v.primitives.Hash([]byte(altSecret))
	if err != nil {
		return err
	}

	key, err := v.primitives.DeriveKey(altSecret, pwSalt[:])
	if err != nil {
		return err
	}

	nonceBytes, err := v.primitives.RandomBytes(crypto.NonceSize)
	if err != nil {
		return err
	}
	var nonce [crypto.NonceSize]byte
	copy(nonce[:], nonceBytes)

	encIK, err := v.primitives.AEADEncrypt(key, nonce[:], []byte(ik))
	if err != nil {
		return err
	}

	v.Alternatives = append(v.Alternatives, Alternative{
		Name:      name,
		CreatedAt: time.Now(),
		Kind:      KindPassword,
		Password: PasswordPayload{
			PwHash:     pwHash,
			PwSalt:     pwSalt,
			EncIK:      encIK,
			EncIKNonce: nonce,
		},
	})

	return nil
}

// mainFromIK decrypts the main secret given a verified intermediate key,
// re-verifying the result against MainHash as required by spec.md §3.
func (v *Vault) mainFromIK(ik string) (string, error) {
	if v.Main == nil {
		return "", ErrMainPasswordNotSet
	}

	ok, err := v.primitives.Verify([]byte(ik), v.Main.IKHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrWrongIntermediateKey
	}

	key, err := v.primitives.DeriveKey(ik, v.Main.IKSalt[:])
	if err != nil {
		return "", err
	}

	plain, err := v.primitives.AEADDecrypt(key, v.Main.EncMainNonce[:], v.Main.EncMain)
	if err != nil {
		return "", ErrWrongIntermediateKey
	}

	match, err := v.primitives.Verify(plain, v.Main.MainHash)
	if err != nil {
		return "", err
	}
	if !match {
		return "", ErrWrongIntermediateKey
	}

	return string(plain), nil
}

// Unlock implements spec.md §4.2 unlock. It tries, in order: candidate as
// the main secret directly, candidate as the intermediate key, then each
// alternative in insertion order. It returns the main secret on the first
// success, or [ErrCouldNotAuthenticate] if every path fails. candidate may
// be the empty string (the autologin path is not treated specially).
func (v *Vault) Unlock(candidate string) (string, error) {
	if v.Main == nil {
		return "", ErrMainPasswordNotSet
	}

	if ok, err := v.primitives.Verify([]byte(candidate), v.Main.MainHash); err != nil {
		return "", err
	} else if ok {
		return candidate, nil
	}

	if main, err := v.mainFromIK(candidate); err == nil {
		return main, nil
	}

	for _, alt := range v.Alternatives {
		ik, err := alt.intermediate(v.primitives, candidate)
		if err != nil {
			continue
		}

		if main, err := v.mainFromIK(ik); err == nil {
			return main, nil
		}
	}

	return "", ErrCouldNotAuthenticate
}

// intermediate recovers the intermediate key wrapped by a into password,
// if password matches the alternative's stored hash.
func (a *Alternative) intermediate(p crypto.Primitives, password string) (string, error) {
	ok, err := p.Verify([]byte(password), a.Password.PwHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrCouldNotAuthenticate
	}

	key, err := p.DeriveKey(password, a.Password.PwSalt[:])
	if err != nil {
		return "", err
	}

	ik, err := p.AEADDecrypt(key, a.Password.EncIKNonce[:], a.Password.EncIK)
	if err != nil {
		return "", ErrCouldNotAuthenticate
	}

	return string(ik), nil
}

// CheckMain implements spec.md §4.2 check_main. It reports whether
// candidate matches the stored main secret, without attempting any host
// authentication — that remains the caller's responsibility.
func (v *Vault) CheckMain(candidate string) (bool, error) {
	if v.Main == nil {
		return false, ErrMainPasswordNotSet
	}

	return v.primitives.Verify([]byte(candidate), v.Main.MainHash)
}
