// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package broker

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/login-ng/login-ng/internal/channel"
	cryptopkg "github.com/login-ng/login-ng/internal/crypto"
	"github.com/login-ng/login-ng/internal/logger"
	"github.com/login-ng/login-ng/internal/mock"
	"github.com/login-ng/login-ng/internal/mount"
	"github.com/login-ng/login-ng/internal/mountauth"
	"github.com/login-ng/login-ng/internal/vaultstore"
)

// decodePublicKeyPEMForTest parses the PKCS#1 public key PEM a prelude
// carries, mirroring what a real channel client would do before calling
// [channel.Encrypt].
func decodePublicKeyPEMForTest(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("not a PEM block")
	}
	return x509.ParsePKCS1PublicKey(block.Bytes)
}

// fakeXattrStore is an in-memory [vaultstore.XattrStore] used so tests
// never touch a real filesystem's extended attributes.
type fakeXattrStore struct {
	attrs map[string]map[string][]byte
}

func newFakeXattrStore() *fakeXattrStore {
	return &fakeXattrStore{attrs: make(map[string]map[string][]byte)}
}

func (f *fakeXattrStore) Set(path, attr string, data []byte) error {
	if f.attrs[path] == nil {
		f.attrs[path] = make(map[string][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.attrs[path][attr] = cp
	return nil
}

func (f *fakeXattrStore) Get(path, attr string) ([]byte, error) {
	v, ok := f.attrs[path][attr]
	if !ok {
		return nil, os.ErrNotExist
	}
	return v, nil
}

func (f *fakeXattrStore) List(path string) ([]string, error) {
	var names []string
	for name := range f.attrs[path] {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeXattrStore) Remove(path, attr string) error {
	delete(f.attrs[path], attr)
	return nil
}

// fakeResolver is a [UserResolver] that answers from a fixed in-memory
// map, so tests never depend on real host accounts existing.
type fakeResolver struct {
	identities map[string]Identity
}

func (f *fakeResolver) Resolve(username string) (Identity, error) {
	id, ok := f.identities[username]
	if !ok {
		return Identity{}, ErrUnknownUser
	}
	return id, nil
}

func newTestBroker(t *testing.T, m mount.Mounter, identities map[string]Identity) (*Broker, *vaultstore.Store) {
	t.Helper()

	keyDir := t.TempDir()
	regPath := filepath.Join(t.TempDir(), "authorized_mounts.json")

	store := vaultstore.New(newFakeXattrStore(), vaultstore.DefaultPrefix)
	registry := mountauth.NewWithDelay(regPath, 0)
	executor := mount.NewExecutor(m, "/run/user")
	resolver := &fakeResolver{identities: identities}

	b := New(keyDir, store, registry, executor, resolver, cryptopkg.New(), logger.Nop())
	return b, store
}

func TestBroker_InitiateReturnsDecodablePrelude(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock.NewMockMounter(ctrl)
	b, _ := newTestBroker(t, m, nil)

	prelude := b.Initiate()
	require.NotEmpty(t, prelude)

	pubKeyPEM, ott, err := channel.DecodePrelude([]byte(prelude))
	require.NoError(t, err)
	require.NotEmpty(t, pubKeyPEM)
	require.NotZero(t, ott)
}

func TestBroker_OpenSession_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock.NewMockMounter(ctrl)
	b, _ := newTestBroker(t, m, nil)

	code, uid, gid := b.OpenSession("ghost", []byte("anything"))
	require.Equal(t, CodeCannotIdentifyUser, code)
	require.Zero(t, uid)
	require.Zero(t, gid)
}

func TestBroker_OpenSession_NoMountPlan_Succeeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock.NewMockMounter(ctrl)

	home := t.TempDir()
	identities := map[string]Identity{
		"alice": {UID: 1000, GID: 1000, HomeDir: home},
	}
	b, _ := newTestBroker(t, m, identities)

	prelude := b.Initiate()
	require.NotEmpty(t, prelude)
	pubKeyPEM, ott, err := channel.DecodePrelude([]byte(prelude))
	require.NoError(t, err)

	pub, err := decodePublicKeyPEMForTest(pubKeyPEM)
	require.NoError(t, err)

	frame, err := channel.Encrypt(cryptopkg.New(), pub, []byte("secret"), ott)
	require.NoError(t, err)

	gomock.InOrder(
		m.EXPECT().MkdirAll("/run/user", os.FileMode(0o755)).Return(nil),
		m.EXPECT().MkdirAll("/run/user/1000", os.FileMode(0o755)).Return(nil),
		m.EXPECT().Mount("tmpfs", "/run/user/1000", "tmpfs", nil, "uid=1000,gid=1000").Return(nil),
		m.EXPECT().Chmod("/run/user/1000", os.FileMode(0o700)).Return(nil),
	)

	code, uid, gid := b.OpenSession("alice", frame)
	require.Equal(t, CodeOk, code)
	require.EqualValues(t, 1000, uid)
	require.EqualValues(t, 1000, gid)
}

func TestBroker_OpenSession_Replay_Fails(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock.NewMockMounter(ctrl)

	home := t.TempDir()
	identities := map[string]Identity{
		"alice": {UID: 1000, GID: 1000, HomeDir: home},
	}
	b, _ := newTestBroker(t, m, identities)

	prelude := b.Initiate()
	pubKeyPEM, ott, err := channel.DecodePrelude([]byte(prelude))
	require.NoError(t, err)
	pub, err := decodePublicKeyPEMForTest(pubKeyPEM)
	require.NoError(t, err)

	frame, err := channel.Encrypt(cryptopkg.New(), pub, []byte("secret"), ott)
	require.NoError(t, err)

	m.EXPECT().MkdirAll("/run/user", os.FileMode(0o755)).Return(nil)
	m.EXPECT().MkdirAll("/run/user/1000", os.FileMode(0o755)).Return(nil)
	m.EXPECT().Mount("tmpfs", "/run/user/1000", "tmpfs", nil, "uid=1000,gid=1000").Return(nil)
	m.EXPECT().Chmod("/run/user/1000", os.FileMode(0o700)).Return(nil)
	m.EXPECT().Unmount("/run/user/1000", true).Return(nil)

	code, _, _ := b.OpenSession("alice", frame)
	require.Equal(t, CodeOk, code)
	require.Equal(t, CodeOk, b.CloseSession("alice"))

	// Replaying the same ciphertext without a fresh initiate() must fail:
	// the prior OpenSession already consumed this frame's OTT.
	code, uid, gid := b.OpenSession("alice", frame)
	require.Equal(t, CodeEncryptionError, code)
	require.Zero(t, uid)
	require.Zero(t, gid)
}

func TestBroker_OpenSession_UnauthorizedMountPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock.NewMockMounter(ctrl)

	home := t.TempDir()
	identities := map[string]Identity{
		"alice": {UID: 1000, GID: 1000, HomeDir: home},
	}
	b, store := newTestBroker(t, m, identities)

	plan := mount.NewPlan()
	plan.SetHome(mount.Params{Device: "/dev/sda1", FSType: "ext4", Flags: []string{"rw"}})
	require.NoError(t, store.StoreMountPlan(home, plan))

	prelude := b.Initiate()
	pubKeyPEM, ott, err := channel.DecodePrelude([]byte(prelude))
	require.NoError(t, err)
	pub, err := decodePublicKeyPEMForTest(pubKeyPEM)
	require.NoError(t, err)

	frame, err := channel.Encrypt(cryptopkg.New(), pub, []byte("secret"), ott)
	require.NoError(t, err)

	code, uid, gid := b.OpenSession("alice", frame)
	require.Equal(t, CodeUnauthorizedMount, code)
	require.Zero(t, uid)
	require.Zero(t, gid)
}

func TestBroker_OpenSession_AuthorizedMountPlan_MountsHome(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock.NewMockMounter(ctrl)

	home := t.TempDir()
	identities := map[string]Identity{
		"alice": {UID: 1000, GID: 1000, HomeDir: home},
	}
	b, store := newTestBroker(t, m, identities)

	plan := mount.NewPlan()
	plan.SetHome(mount.Params{Device: "/dev/sda1", FSType: "ext4", Flags: []string{"rw"}})
	require.NoError(t, store.StoreMountPlan(home, plan))
	require.NoError(t, b.registry.Authorize("alice", plan.Digest()))

	prelude := b.Initiate()
	pubKeyPEM, ott, err := channel.DecodePrelude([]byte(prelude))
	require.NoError(t, err)
	pub, err := decodePublicKeyPEMForTest(pubKeyPEM)
	require.NoError(t, err)

	frame, err := channel.Encrypt(cryptopkg.New(), pub, []byte("secret"), ott)
	require.NoError(t, err)

	gomock.InOrder(
		m.EXPECT().MkdirAll("/run/user", os.FileMode(0o755)).Return(nil),
		m.EXPECT().MkdirAll("/run/user/1000", os.FileMode(0o755)).Return(nil),
		m.EXPECT().Mount("tmpfs", "/run/user/1000", "tmpfs", nil, "uid=1000,gid=1000").Return(nil),
		m.EXPECT().Chmod("/run/user/1000", os.FileMode(0o700)).Return(nil),
		m.EXPECT().Mount("/dev/sda1", home, "ext4", []string{"rw"}, "").Return(nil),
		m.EXPECT().Chmod(home, os.FileMode(0o700)).Return(nil),
		m.EXPECT().Chown(home, 1000, 1000).Return(nil),
	)

	code, uid, gid := b.OpenSession("alice", frame)
	require.Equal(t, CodeOk, code)
	require.EqualValues(t, 1000, uid)
	require.EqualValues(t, 1000, gid)
}

func TestBroker_CloseSession_UnknownSessionFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock.NewMockMounter(ctrl)
	b, _ := newTestBroker(t, m, nil)

	code := b.CloseSession("nobody")
	require.Equal(t, CodeSessionAlreadyClosed, code)
}

func TestBroker_AuthorizeMountThenCheckMount(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock.NewMockMounter(ctrl)
	b, _ := newTestBroker(t, m, nil)

	require.Equal(t, CodeOk, b.AuthorizeMount("alice", "DEADBEEF"))
	require.True(t, b.CheckMount("alice", "DEADBEEF"))
	require.False(t, b.CheckMount("alice", "OTHER"))
}
