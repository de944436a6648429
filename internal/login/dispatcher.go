// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package login

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/login-ng/login-ng/internal/broker"
	"github.com/login-ng/login-ng/internal/channel"
	"github.com/login-ng/login-ng/internal/crypto"
	"github.com/login-ng/login-ng/internal/vault"
	"github.com/login-ng/login-ng/internal/vaultstore"
)

// ErrBrokerUnavailable is returned when a [BrokerClient] fails to produce
// a usable prelude (spec.md §4.7: initiate() "fails silently" with an
// empty string on the broker's side; a client treats that the same as a
// transport error).
var ErrBrokerUnavailable = errors.New("broker did not return a usable prelude")

// BrokerClient is the bus-facing Session service stub (spec.md §6) that
// [BrokerDispatcher] and [DirectDispatcher] both drive. Production code
// is backed by internal/rpcbus; tests substitute an in-process fake.
type BrokerClient interface {
	Initiate() (string, error)
	OpenSession(user string, ciphertext []byte) (code uint32, uid uint32, gid uint32, err error)
	CloseSession(user string) (code uint32, err error)
}

// Dispatcher is the strategy [Orchestrator] uses to turn a (username,
// candidate secret) pair into a broker result code, implementing one of
// spec.md §4.9's two dispatch modes.
type Dispatcher interface {
	Authenticate(ctx context.Context, username, secret string) (code broker.Code, uid uint32, gid uint32, err error)
}

// BrokerDispatcher implements the "broker-mediated" dispatch mode: the
// orchestrator performs the full secure-channel handshake (spec.md §4.6)
// against a remote broker peer and lets open_session authenticate and
// mount on its own.
type BrokerDispatcher struct {
	client     BrokerClient
	primitives crypto.Primitives
}

// NewBrokerDispatcher constructs a [BrokerDispatcher].
func NewBrokerDispatcher(client BrokerClient, primitives crypto.Primitives) *BrokerDispatcher {
	return &BrokerDispatcher{client: client, primitives: primitives}
}

func (d *BrokerDispatcher) Authenticate(_ context.Context, username, secret string) (broker.Code, uint32, uint32, error) {
	return openSessionWithSecret(d.client, d.primitives, username, secret)
}

// DirectDispatcher implements the "direct" dispatch mode: the
// orchestrator itself plays the role of the host's native PAM-like
// mechanism, authenticating the candidate secret against the user's
// locally readable vault (spec.md §4.2/§4.3) before asking the broker to
// mount — the vault check stands in for "the host's native PAM-like
// mechanism" because, in this system, the vault IS what that mechanism
// authenticates against; there is no separate /etc/shadow-style check.
type DirectDispatcher struct {
	store       *vaultstore.Store
	primitives  crypto.Primitives
	client      BrokerClient
	resolveHome func(username string) (string, error)
}

// NewDirectDispatcher constructs a [DirectDispatcher] that resolves a
// username's home directory via [vaultstore.HomeDirByUsername].
func NewDirectDispatcher(store *vaultstore.Store, primitives crypto.Primitives, client BrokerClient) *DirectDispatcher {
	return &DirectDispatcher{store: store, primitives: primitives, client: client, resolveHome: vaultstore.HomeDirByUsername}
}

func (d *DirectDispatcher) Authenticate(_ context.Context, username, secret string) (broker.Code, uint32, uint32, error) {
	home, err := d.resolveHome(username)
	if err != nil {
		return broker.CodeCannotIdentifyUser, 0, 0, err
	}

	v, exists, err := d.store.LoadVault(home, d.primitives)
	if err != nil {
		return broker.CodeIOError, 0, 0, err
	}
	if !exists {
		return broker.CodeDataDecryptionFailed, 0, 0, vault.ErrCouldNotAuthenticate
	}

	main, err := v.Unlock(secret)
	if err != nil {
		return broker.CodeDataDecryptionFailed, 0, 0, err
	}

	return openSessionWithSecret(d.client, d.primitives, username, main)
}

// openSessionWithSecret runs the client side of the secure-channel
// handshake (spec.md §4.6 steps 1–4) and invokes open_session, shared by
// both dispatch modes since both ultimately need the broker to perform
// the privileged mount.
func openSessionWithSecret(client BrokerClient, primitives crypto.Primitives, username, secret string) (broker.Code, uint32, uint32, error) {
	prelude, err := client.Initiate()
	if err != nil || prelude == "" {
		return broker.CodePubKeyError, 0, 0, fmt.Errorf("%w: %w", ErrBrokerUnavailable, err)
	}

	pubKeyPEM, ott, err := channel.DecodePrelude([]byte(prelude))
	if err != nil {
		return broker.CodePubKeyError, 0, 0, err
	}

	pub, err := decodePublicKeyPEM(pubKeyPEM)
	if err != nil {
		return broker.CodePubKeyError, 0, 0, err
	}

	frame, err := channel.Encrypt(primitives, pub, []byte(secret), ott)
	if err != nil {
		return broker.CodeEncryptionError, 0, 0, err
	}

	codeNum, uid, gid, err := client.OpenSession(username, frame)
	if err != nil {
		return broker.CodeIOError, 0, 0, err
	}

	return broker.Code(codeNum), uid, gid, nil
}

func decodePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("prelude: not a PEM block")
	}
	return x509.ParsePKCS1PublicKey(block.Bytes)
}
