// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package broker

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// KeyBits is the RSA modulus size spec.md §4.6/§4.7 mandates for the
// broker's long-lived identity key.
const KeyBits = 4096

const privateKeyFile = "private_key_pkcs1.pem"

// loadOrGenerateKey loads the broker's RSA private key from
// "<dir>/private_key_pkcs1.pem", generating and persisting a fresh
// [KeyBits]-bit key on first run (spec.md §4.7: "the broker's identity
// key is generated once and reused across restarts"). dir and the key
// file are both created with 0700 permissions, since
// anyone who can read the key can impersonate the broker to every client.
func loadOrGenerateKey(dir string) (*rsa.PrivateKey, error) {
	path := filepath.Join(dir, privateKeyFile)

	data, err := os.ReadFile(path)
	if err == nil {
		block, _ := pem.Decode(data)
		if block == nil {
			return nil, fmt.Errorf("%s: not a PEM file", path)
		}
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	key, err := rsa.GenerateKey(rand.Reader, KeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate broker key: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o700); err != nil {
		return nil, err
	}

	return key, nil
}

// encodePublicKeyPEM PEM-encodes pub in PKCS#1 form, the format the
// client side (internal/channel) expects inside a prelude.
func encodePublicKeyPEM(pub *rsa.PublicKey) []byte {
	block := &pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(pub)}
	return pem.EncodeToMemory(block)
}
