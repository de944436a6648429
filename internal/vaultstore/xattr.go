// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vaultstore

import (
	"fmt"
	"sort"

	"golang.org/x/sys/unix"
)

//go:generate mockgen -source=xattr.go -destination=../mock/vaultstore_xattr_mock.go -package=mock

// XattrStore is the extended-attribute boundary VaultStore drives. Tests
// substitute an in-memory fake so package tests run without needing a real
// filesystem that supports user.* extended attributes.
type XattrStore interface {
	Set(path, attr string, data []byte) error
	Get(path, attr string) ([]byte, error)
	List(path string) ([]string, error)
	Remove(path, attr string) error
}

// unixXattrStore is the production [XattrStore], backed by the
// L-variants of the xattr syscalls (operating on the path itself rather
// than following a trailing symlink — home directories are never expected
// to be symlinks, but this matches the original implementation's choice).
type unixXattrStore struct{}

// NewUnixXattrStore returns the production [XattrStore].
func NewUnixXattrStore() XattrStore {
	return unixXattrStore{}
}

func (unixXattrStore) Set(path, attr string, data []byte) error {
	return unix.Lsetxattr(path, attr, data, 0)
}

func (unixXattrStore) Get(path, attr string) ([]byte, error) {
	size, err := unix.Lgetxattr(path, attr, nil)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, size)
	n, err := unix.Lgetxattr(path, attr, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func (unixXattrStore) List(path string) ([]string, error) {
	size, err := unix.Llistxattr(path, nil)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	buf := make([]byte, size)
	n, err := unix.Llistxattr(path, buf)
	if err != nil {
		return nil, err
	}

	names := splitNulTerminated(buf[:n])
	sort.Strings(names)
	return names, nil
}

func (unixXattrStore) Remove(path, attr string) error {
	return unix.Lremovexattr(path, attr)
}

// splitNulTerminated splits the NUL-separated attribute name list returned
// by listxattr(2) into individual names.
func splitNulTerminated(buf []byte) []string {
	var names []string
	start := 0
	for i, b := range buf {
		if b == 0 {
			if i > start {
				names = append(names, string(buf[start:i]))
			}
			start = i + 1
		}
	}
	return names
}

// attrName joins prefix and suffix with the "." the original implementation
// uses (e.g. "user.login-ng" + ".main" -> "user.login-ng.main").
func attrName(prefix, suffix string) string {
	return fmt.Sprintf("%s.%s", prefix, suffix)
}
