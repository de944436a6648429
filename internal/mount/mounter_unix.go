// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mount

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// unixMounter is the production [Mounter]: mount(2)/umount2(2) via
// golang.org/x/sys/unix, directory/permission operations via the stdlib
// os package.
type unixMounter struct{}

// NewUnixMounter returns the [Mounter] used by the broker's mount
// executor in production.
func NewUnixMounter() Mounter {
	return unixMounter{}
}

// Mount implements [Mounter]. fstype empty means "let the kernel probe",
// matching spec.md §4.8's "empty means probe" — unix.Mount accepts an
// empty fstype when flags include MS_REMOUNT or similar, but plain probing
// here is delegated to the kernel by passing fstype through unchanged;
// flags is a simple comma-style option list folded into the mount data
// string, mirroring the original's string-based flags representation.
func (unixMounter) Mount(source, target, fstype string, flags []string, data string) error {
	mountData := data
	if len(flags) > 0 {
		joined := strings.Join(flags, ",")
		if mountData == "" {
			mountData = joined
		} else {
			mountData = joined + "," + mountData
		}
	}

	return unix.Mount(source, target, fstype, 0, mountData)
}

// Unmount implements [Mounter]. detach maps to MNT_DETACH (spec.md's
// "detach on drop").
func (unixMounter) Unmount(target string, detach bool) error {
	var flags int
	if detach {
		flags = unix.MNT_DETACH
	}
	return unix.Unmount(target, flags)
}

func (unixMounter) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (unixMounter) Chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}

func (unixMounter) Chown(path string, uid, gid int) error {
	return os.Chown(path, uid, gid)
}
