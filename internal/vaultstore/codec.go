// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vaultstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// The serialisation format is length-prefixed: every string and byte
// sequence is written as a uint32 little-endian length followed by its raw
// bytes; fixed-size arrays are written verbatim with no length prefix.
// This is the version-0 layout gated by the manifest record (spec.md §4.3);
// there is no other layout defined.

func putString(buf *bytes.Buffer, s string) {
	putBytes(buf, []byte(s))
}

func putBytes(buf *bytes.Buffer, b []byte) {
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(b)))
	buf.Write(length[:])
	buf.Write(b)
}

func getString(r *bytes.Reader) (string, error) {
	b, err := getBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func getBytes(r *bytes.Reader) ([]byte, error) {
	var length [4]byte
	if _, err := r.Read(length[:]); err != nil {
		return nil, fmt.Errorf("%w: length prefix: %w", ErrCorruptRecord, err)
	}
	n := binary.LittleEndian.Uint32(length[:])

	b := make([]byte, n)
	if n > 0 {
		if _, err := r.Read(b); err != nil {
			return nil, fmt.Errorf("%w: payload: %w", ErrCorruptRecord, err)
		}
	}
	return b, nil
}

func putFixed(buf *bytes.Buffer, b []byte) {
	buf.Write(b)
}

func getFixed(r *bytes.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return nil, fmt.Errorf("%w: fixed field: %w", ErrCorruptRecord, err)
	}
	return b, nil
}

func putUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func getUint32(r *bytes.Reader) (uint32, error) {
	b, err := getFixed(r, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func putUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func getUint64(r *bytes.Reader) (uint64, error) {
	b, err := getFixed(r, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
