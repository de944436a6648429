// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/login-ng/login-ng/internal/crypto"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	return New(crypto.New())
}

func TestSetMain_ThenUnlockByMain(t *testing.T) {
	v := newTestVault(t)

	require.NoError(t, v.SetMain("main password <3", "the ik"))

	got, err := v.Unlock("main password <3")
	require.NoError(t, err)
	require.Equal(t, "main password <3", got)
}

func TestSetMain_ThenUnlockByIntermediateKey(t *testing.T) {
	v := newTestVault(t)

	require.NoError(t, v.SetMain("main password <3", "the ik"))

	got, err := v.Unlock("the ik")
	require.NoError(t, err)
	require.Equal(t, "main password <3", got)
}

func TestSetMain_ResetPreservesSalt(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SetMain("first main", "the ik"))
	salt := v.Main.IKSalt

	require.NoError(t, v.AddAlternative("backup", "the ik", "alt secret"))

	require.NoError(t, v.SetMain("second main", "the ik"))
	require.Equal(t, salt, v.Main.IKSalt)

	got, err := v.Unlock("alt secret")
	require.NoError(t, err)
	require.Equal(t, "second main", got)
}

func TestSetMain_ResetWithWrongIKFails(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SetMain("first main", "the ik"))

	err := v.SetMain("second main", "wrong ik")
	require.ErrorIs(t, err, ErrWrongIntermediateKey)
}

func TestAddAlternative_RequiresMainSet(t *testing.T) {
	v := newTestVault(t)

	err := v.AddAlternative("backup", "the ik", "alt secret")
	require.ErrorIs(t, err, ErrMainPasswordNotSet)
}

func TestAddAlternative_WrongIKRejected(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SetMain("main password <3", "the ik"))

	err := v.AddAlternative("backup", "wrong ik", "alt secret")
	require.ErrorIs(t, err, ErrWrongIntermediateKey)
}

func TestAddAlternative_InvalidUTF8Rejected(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SetMain("main password <3", "the ik"))

	err := v.AddAlternative("backup", "the ik", string([]byte{0xff, 0xfe, 0xfd}))
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestUnlock_ByAlternativeSecret(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SetMain("main password <3", "the ik"))
	require.NoError(t, v.AddAlternative("backup", "the ik", "alt secret"))

	got, err := v.Unlock("alt secret")
	require.NoError(t, err)
	require.Equal(t, "main password <3", got)
}

func TestUnlock_AutologinViaEmptyAlternative(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SetMain("main password <3", "the ik"))
	require.NoError(t, v.AddAlternative("autologin", "the ik", ""))

	got, err := v.Unlock("")
	require.NoError(t, err)
	require.Equal(t, "main password <3", got)
}

func TestUnlock_MultipleAlternativesInInsertionOrder(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SetMain("main password <3", "the ik"))
	require.NoError(t, v.AddAlternative("first", "the ik", "first secret"))
	require.NoError(t, v.AddAlternative("second", "the ik", "second secret"))

	require.Len(t, v.Alternatives, 2)
	require.Equal(t, "first", v.Alternatives[0].Name)
	require.Equal(t, "second", v.Alternatives[1].Name)

	got, err := v.Unlock("second secret")
	require.NoError(t, err)
	require.Equal(t, "main password <3", got)
}

func TestUnlock_WrongCandidateFails(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SetMain("main password <3", "the ik"))
	require.NoError(t, v.AddAlternative("backup", "the ik", "alt secret"))

	_, err := v.Unlock("nothing matches this")
	require.ErrorIs(t, err, ErrCouldNotAuthenticate)
}

func TestUnlock_EmptyVaultFails(t *testing.T) {
	v := newTestVault(t)

	_, err := v.Unlock("anything")
	require.ErrorIs(t, err, ErrMainPasswordNotSet)
}

func TestCheckMain(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.SetMain("main password <3", "the ik"))

	ok, err := v.CheckMain("main password <3")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = v.CheckMain("wrong")
	require.NoError(t, err)
	require.False(t, ok)
}
