// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vaultstore implements persistence of a [vault.Vault] and a
// [mount.Plan] as extended attributes on a home directory (spec.md §4.3,
// component C3).
package vaultstore

import (
	"fmt"
	"os"
	"os/user"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/login-ng/login-ng/internal/crypto"
	"github.com/login-ng/login-ng/internal/mount"
	"github.com/login-ng/login-ng/internal/vault"
)

const (
	attrManifest = "manifest"
	attrMain     = "main"
	attrAuth     = "auth"
	attrMount    = "mount"
	attrMounts   = "mounts"
	attrSession  = "session"
)

func unixSeconds(sec uint64) time.Time {
	return time.Unix(int64(sec), 0).UTC()
}

// HomeDirByUsername resolves username's home directory: the
// systemd-homed convention "/home/<username>.homedir" is checked first,
// falling back to the host user database's home field. Returns
// [ErrHomeDirNotFound] if neither resolves.
func HomeDirByUsername(username string) (string, error) {
	marker := fmt.Sprintf("/home/%s.homedir", username)
	if _, err := os.Stat(marker); err == nil {
		return marker, nil
	}

	u, err := user.Lookup(username)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHomeDirNotFound, err)
	}
	if u.HomeDir == "" {
		return "", ErrHomeDirNotFound
	}

	return u.HomeDir, nil
}

// Store reads and writes a vault, mount plan, and session command as
// extended attributes under a single configured prefix (spec.md §4.3).
type Store struct {
	xattr  XattrStore
	prefix string
}

// New constructs a Store. prefix is the xattr namespace prefix, e.g.
// "user.login-ng" (the default, see [DefaultPrefix]).
func New(xattr XattrStore, prefix string) *Store {
	return &Store{xattr: xattr, prefix: prefix}
}

// DefaultPrefix is the attribute namespace prefix used when no
// configuration overrides it, matching the original implementation's
// DEFAULT_XATTR_NAME.
const DefaultPrefix = "user.login-ng"

func (s *Store) attr(suffix string) string {
	return attrName(s.prefix, suffix)
}

func (s *Store) indexedAttr(suffix string, i int) string {
	return attrName(s.prefix, fmt.Sprintf("%s.%d", suffix, i))
}

// LoadVault implements load_vault (spec.md §4.3). If the manifest
// attribute is absent, it returns (nil, false, nil): "no vault" is not an
// error. An unrecognised manifest version returns [ErrUnhandledVersion].
func (s *Store) LoadVault(path string, primitives crypto.Primitives) (*vault.Vault, bool, error) {
	manifestData, err := s.xattr.Get(path, s.attr(attrManifest))
	if err != nil {
		return nil, false, nil
	}

	version, err := decodeManifestVersion(manifestData)
	if err != nil {
		return nil, false, err
	}
	if version != manifestVersion0 {
		return nil, false, fmt.Errorf("%w: %d", ErrUnhandledVersion, version)
	}

	v := vault.New(primitives)

	if mainData, err := s.xattr.Get(path, s.attr(attrMain)); err == nil {
		main, err := decodeMainCredential(mainData)
		if err != nil {
			return nil, false, err
		}
		v.Main = main
	}

	names, err := s.xattr.List(path)
	if err != nil {
		return nil, false, err
	}

	indices, err := authIndices(s.prefix, names)
	if err != nil {
		return nil, false, err
	}

	for _, i := range indices {
		data, err := s.xattr.Get(path, s.indexedAttr(attrAuth, i))
		if err != nil {
			return nil, false, err
		}
		alt, err := decodeAlternative(data)
		if err != nil {
			return nil, false, err
		}
		v.Alternatives = append(v.Alternatives, alt)
	}

	return v, true, nil
}

// authIndices extracts the numeric "<i>" suffixes of every "<prefix>.auth.<i>"
// attribute present in names, sorted ascending (spec.md §4.3: alternatives
// are enumerated "in numeric order of <i>").
func authIndices(prefix string, names []string) ([]int, error) {
	return indexedSuffixes(prefix, attrAuth, names)
}

func indexedSuffixes(prefix, kind string, names []string) ([]int, error) {
	want := fmt.Sprintf("%s.%s.", prefix, kind)

	var indices []int
	for _, name := range names {
		if !strings.HasPrefix(name, want) {
			continue
		}
		suffix := strings.TrimPrefix(name, want)
		i, err := strconv.Atoi(suffix)
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric index %q", ErrCorruptRecord, suffix)
		}
		indices = append(indices, i)
	}

	sort.Ints(indices)
	return indices, nil
}

// StoreVault implements store_vault's write protocol (spec.md §4.3):
// serialise everything first, remove all existing P.auth.* and P.main
// attributes, then write P.manifest, P.main, and each P.auth.<i> in that
// order so a crash mid-write never leaves an inconsistent main credential.
func (s *Store) StoreVault(path string, v *vault.Vault) error {
	manifest := encodeManifest()

	var mainData []byte
	if v.Main != nil {
		mainData = encodeMainCredential(v.Main)
	}

	altData := make([][]byte, len(v.Alternatives))
	for i := range v.Alternatives {
		altData[i] = encodeAlternative(&v.Alternatives[i])
	}

	names, err := s.xattr.List(path)
	if err != nil {
		return err
	}
	existingIndices, err := authIndices(s.prefix, names)
	if err != nil {
		return err
	}
	for _, i := range existingIndices {
		if err := s.xattr.Remove(path, s.indexedAttr(attrAuth, i)); err != nil {
			return err
		}
	}
	if hasAttr(names, s.attr(attrMain)) {
		if err := s.xattr.Remove(path, s.attr(attrMain)); err != nil {
			return err
		}
	}

	if err := s.xattr.Set(path, s.attr(attrManifest), manifest); err != nil {
		return err
	}

	if mainData != nil {
		if err := s.xattr.Set(path, s.attr(attrMain), mainData); err != nil {
			return err
		}
	}

	for i, data := range altData {
		if err := s.xattr.Set(path, s.indexedAttr(attrAuth, i), data); err != nil {
			return err
		}
	}

	return nil
}

func hasAttr(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// LoadMountPlan implements the mount-plan read side of spec.md §4.3. If
// the home-mount attribute is absent, it returns (nil, false, nil).
func (s *Store) LoadMountPlan(path string) (*mount.Plan, bool, error) {
	homeData, err := s.xattr.Get(path, s.attr(attrMount))
	if err != nil {
		return nil, false, nil
	}

	home, err := decodeMountParams(homeData)
	if err != nil {
		return nil, false, err
	}

	plan := mount.NewPlan()
	plan.SetHome(home)

	names, err := s.xattr.List(path)
	if err != nil {
		return nil, false, err
	}
	indices, err := indexedSuffixes(s.prefix, attrMounts, names)
	if err != nil {
		return nil, false, err
	}

	for _, i := range indices {
		data, err := s.xattr.Get(path, s.indexedAttr(attrMounts, i))
		if err != nil {
			return nil, false, err
		}
		target, params, err := decodeAuxiliaryMount(data)
		if err != nil {
			return nil, false, err
		}
		plan.AddAuxiliary(target, params)
	}

	return plan, true, nil
}

// StoreMountPlan writes plan's auxiliary entries first, then the home
// mount last (spec.md §4.3: "reversed" of the auth-data write order, so a
// crash mid-write never leaves a plan that mounts home before its
// prerequisites exist).
func (s *Store) StoreMountPlan(path string, plan *mount.Plan) error {
	names, err := s.xattr.List(path)
	if err != nil {
		return err
	}
	existing, err := indexedSuffixes(s.prefix, attrMounts, names)
	if err != nil {
		return err
	}
	for _, i := range existing {
		if err := s.xattr.Remove(path, s.indexedAttr(attrMounts, i)); err != nil {
			return err
		}
	}

	i := 0
	var storeErr error
	plan.ForEach(func(target string, params mount.Params) {
		if storeErr != nil {
			return
		}
		data := encodeAuxiliaryMount(target, params)
		storeErr = s.xattr.Set(path, s.indexedAttr(attrMounts, i), data)
		i++
	})
	if storeErr != nil {
		return storeErr
	}

	home, ok := plan.Home()
	if !ok {
		return nil
	}

	return s.xattr.Set(path, s.attr(attrMount), encodeMountParams(home))
}

// LoadSessionCommand implements the §4.3 P.session read side.
func (s *Store) LoadSessionCommand(path string) (string, bool, error) {
	data, err := s.xattr.Get(path, s.attr(attrSession))
	if err != nil {
		return "", false, nil
	}

	cmd, err := decodeSessionCommand(data)
	if err != nil {
		return "", false, err
	}
	return cmd, true, nil
}

// StoreSessionCommand implements the §4.3 P.session write side.
func (s *Store) StoreSessionCommand(path, command string) error {
	return s.xattr.Set(path, s.attr(attrSession), encodeSessionCommand(command))
}

// RemoveUserData deletes every attribute this package may have written
// under its prefix, mirroring the original's remove_user_data.
func (s *Store) RemoveUserData(path string) error {
	names, err := s.xattr.List(path)
	if err != nil {
		return err
	}

	prefixDot := s.prefix + "."
	for _, name := range names {
		if !strings.HasPrefix(name, prefixDot) {
			continue
		}
		if err := s.xattr.Remove(path, name); err != nil {
			return err
		}
	}

	return nil
}
