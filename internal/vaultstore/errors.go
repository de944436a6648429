// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vaultstore

import "errors"

var (
	// ErrHomeDirNotFound is returned by HomeDirByUsername when neither the
	// systemd-homed ".homedir" marker nor the user database has an entry
	// for the requested username.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrUnhandledVersion is returned by LoadVault/LoadMountPlan when the
	// on-disk manifest names a version this package does not know how to
	// read. Version 0 is the only defined layout.
	ErrUnhandledVersion = errors.New("unhandled manifest version")

	// ErrCorruptRecord is returned when a stored attribute cannot be
	// decoded as the length-prefixed record format.
	ErrCorruptRecord = errors.New("corrupt vault record")
)
