// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mountauth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Read_SynthesisesDefaultDocumentWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authorized_mounts.json")
	r := NewWithDelay(path, time.Millisecond)

	auths, err := r.Read()
	require.NoError(t, err)
	require.Empty(t, auths)

	require.FileExists(t, path)
}

func TestRegistry_AuthorizeThenIsAuthorized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authorized_mounts.json")
	r := NewWithDelay(path, time.Millisecond)

	require.NoError(t, r.Authorize("alice", "DEADBEEF"))

	ok, err := r.IsAuthorized("alice", "DEADBEEF")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.IsAuthorized("alice", "NOTFOUND")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = r.IsAuthorized("bob", "DEADBEEF")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRegistry_Authorize_DuplicatesTolerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authorized_mounts.json")
	r := NewWithDelay(path, time.Millisecond)

	require.NoError(t, r.Authorize("alice", "DEADBEEF"))
	require.NoError(t, r.Authorize("alice", "DEADBEEF"))

	ok, err := r.IsAuthorized("alice", "DEADBEEF")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRegistry_IsAuthorized_EnforcesDelayFloor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authorized_mounts.json")
	delay := 30 * time.Millisecond
	r := NewWithDelay(path, delay)

	start := time.Now()
	_, err := r.IsAuthorized("alice", "anything")
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), delay)
}

func TestRegistry_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authorized_mounts.json")

	r1 := NewWithDelay(path, time.Millisecond)
	require.NoError(t, r1.Authorize("alice", "DEADBEEF"))

	r2 := NewWithDelay(path, time.Millisecond)
	ok, err := r2.IsAuthorized("alice", "DEADBEEF")
	require.NoError(t, err)
	require.True(t, ok)
}
