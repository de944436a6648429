// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vaultstore

import (
	"bytes"

	"github.com/login-ng/login-ng/internal/crypto"
	"github.com/login-ng/login-ng/internal/mount"
	"github.com/login-ng/login-ng/internal/vault"
)

const manifestVersion0 = uint32(0)

func encodeManifest() []byte {
	var buf bytes.Buffer
	putUint32(&buf, manifestVersion0)
	return buf.Bytes()
}

func decodeManifestVersion(data []byte) (uint32, error) {
	return getUint32(bytes.NewReader(data))
}

func encodeMainCredential(m *vault.MainCredential) []byte {
	var buf bytes.Buffer
	putString(&buf, m.MainHash)
	putBytes(&buf, m.EncMain)
	putFixed(&buf, m.EncMainNonce[:])
	putFixed(&buf, m.IKSalt[:])
	putString(&buf, m.IKHash)
	return buf.Bytes()
}

func decodeMainCredential(data []byte) (*vault.MainCredential, error) {
	r := bytes.NewReader(data)

	mainHash, err := getString(r)
	if err != nil {
		return nil, err
	}
	encMain, err := getBytes(r)
	if err != nil {
		return nil, err
	}
	nonce, err := getFixed(r, crypto.NonceSize)
	if err != nil {
		return nil, err
	}
	salt, err := getFixed(r, crypto.SaltSize)
	if err != nil {
		return nil, err
	}
	ikHash, err := getString(r)
	if err != nil {
		return nil, err
	}

	m := &vault.MainCredential{MainHash: mainHash, EncMain: encMain, IKHash: ikHash}
	copy(m.EncMainNonce[:], nonce)
	copy(m.IKSalt[:], salt)
	return m, nil
}

func encodeAlternative(a *vault.Alternative) []byte {
	var buf bytes.Buffer
	putString(&buf, a.Name)
	putUint64(&buf, uint64(a.CreatedAt.Unix()))
	putUint32(&buf, uint32(a.Kind))

	switch a.Kind {
	case vault.KindPassword:
		putString(&buf, a.Password.PwHash)
		putFixed(&buf, a.Password.PwSalt[:])
		putBytes(&buf, a.Password.EncIK)
		putFixed(&buf, a.Password.EncIKNonce[:])
	}

	return buf.Bytes()
}

func decodeAlternative(data []byte) (vault.Alternative, error) {
	r := bytes.NewReader(data)

	name, err := getString(r)
	if err != nil {
		return vault.Alternative{}, err
	}
	createdAtUnix, err := getUint64(r)
	if err != nil {
		return vault.Alternative{}, err
	}
	kind, err := getUint32(r)
	if err != nil {
		return vault.Alternative{}, err
	}

	alt := vault.Alternative{
		Name:      name,
		CreatedAt: unixSeconds(createdAtUnix),
		Kind:      vault.AlternativeKind(kind),
	}

	switch alt.Kind {
	case vault.KindPassword:
		pwHash, err := getString(r)
		if err != nil {
			return vault.Alternative{}, err
		}
		pwSalt, err := getFixed(r, crypto.SaltSize)
		if err != nil {
			return vault.Alternative{}, err
		}
		encIK, err := getBytes(r)
		if err != nil {
			return vault.Alternative{}, err
		}
		encIKNonce, err := getFixed(r, crypto.NonceSize)
		if err != nil {
			return vault.Alternative{}, err
		}

		alt.Password.PwHash = pwHash
		copy(alt.Password.PwSalt[:], pwSalt)
		alt.Password.EncIK = encIK
		copy(alt.Password.EncIKNonce[:], encIKNonce)
	}

	return alt, nil
}

func encodeMountParams(p mount.Params) []byte {
	var buf bytes.Buffer
	putString(&buf, p.Device)
	putString(&buf, p.FSType)
	putUint32(&buf, uint32(len(p.Flags)))
	for _, f := range p.Flags {
		putString(&buf, f)
	}
	return buf.Bytes()
}

func decodeMountParams(data []byte) (mount.Params, error) {
	r := bytes.NewReader(data)

	device, err := getString(r)
	if err != nil {
		return mount.Params{}, err
	}
	fstype, err := getString(r)
	if err != nil {
		return mount.Params{}, err
	}
	count, err := getUint32(r)
	if err != nil {
		return mount.Params{}, err
	}

	flags := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		flag, err := getString(r)
		if err != nil {
			return mount.Params{}, err
		}
		flags = append(flags, flag)
	}

	return mount.Params{Device: device, FSType: fstype, Flags: flags}, nil
}

func encodeAuxiliaryMount(target string, p mount.Params) []byte {
	var buf bytes.Buffer
	putString(&buf, target)
	buf.Write(encodeMountParams(p))
	return buf.Bytes()
}

func decodeAuxiliaryMount(data []byte) (string, mount.Params, error) {
	r := bytes.NewReader(data)

	target, err := getString(r)
	if err != nil {
		return "", mount.Params{}, err
	}

	rest := make([]byte, r.Len())
	if _, err := r.Read(rest); err != nil {
		return "", mount.Params{}, err
	}

	params, err := decodeMountParams(rest)
	if err != nil {
		return "", mount.Params{}, err
	}
	return target, params, nil
}

func encodeSessionCommand(command string) []byte {
	var buf bytes.Buffer
	putString(&buf, command)
	return buf.Bytes()
}

func decodeSessionCommand(data []byte) (string, error) {
	return getString(bytes.NewReader(data))
}
