// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mount

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

//go:generate mockgen -source=executor.go -destination=../mock/mount_mounter_mock.go -package=mock

// Mounter is the syscall boundary Executor drives. Production code uses
// [NewUnixMounter]; tests substitute a mock so no real mount(2)/umount(2)
// calls are required to exercise Executor's control flow.
type Mounter interface {
	Mount(source, target, fstype string, flags []string, data string) error
	Unmount(target string, detach bool) error
	MkdirAll(path string, perm os.FileMode) error
	Chmod(path string, mode os.FileMode) error
	Chown(path string, uid, gid int) error
}

// Handle is one live mount. Close detaches it; the zero value's Close is a
// no-op. Executor guarantees that every Handle it returns, and every one
// it accumulates internally before a failure, is eventually Closed —
// either by the caller (spec.md's "detach on drop") or by Executor itself
// when a later step in Execute fails.
type Handle struct {
	mounter Mounter
	target  string
	closed  bool
}

// Close unmounts the handle's target with MNT_DETACH semantics. Safe to
// call more than once.
func (h *Handle) Close() error {
	if h == nil || h.closed || h.mounter == nil {
		return nil
	}
	h.closed = true
	return h.mounter.Unmount(h.target, true)
}

// Executor implements the mount executor (spec.md §4.8, component C8):
// given a Plan, it creates the user's XDG runtime tmpfs, mounts every
// auxiliary entry, then mounts the home directory last.
type Executor struct {
	mounter Mounter
	xdgBase string
}

// NewExecutor constructs an Executor. xdgBase is the configured XDG
// runtime directory base (e.g. "/run/user").
func NewExecutor(mounter Mounter, xdgBase string) *Executor {
	return &Executor{mounter: mounter, xdgBase: xdgBase}
}

// Execute runs the full mount sequence for plan and returns the handle
// sequence on success. On any failure, every handle accumulated so far
// (including the XDG runtime tmpfs) is closed before returning, so a
// partially applied plan never leaks live mounts.
func (e *Executor) Execute(plan *Plan, uid, gid int, username, homedir string) ([]*Handle, error) {
	var handles []*Handle
	closeAll := func() {
		for i := len(handles) - 1; i >= 0; i-- {
			handles[i].Close()
		}
	}

	xdgHandle, err := e.ensureXDGRuntime(uid, gid)
	if err != nil {
		return nil, fmt.Errorf("%w: xdg runtime: %w", ErrMountFailed, err)
	}
	handles = append(handles, xdgHandle)

	var failErr error
	plan.ForEach(func(target string, params Params) {
		if failErr != nil {
			return
		}
		if err := e.mounter.MkdirAll(target, 0o755); err != nil {
			failErr = err
			return
		}
		if err := e.mounter.Mount(params.Device, target, params.FSType, params.Flags, ""); err != nil {
			failErr = err
			return
		}
		handles = append(handles, &Handle{mounter: e.mounter, target: target})
	})
	if failErr != nil {
		closeAll()
		return nil, fmt.Errorf("%w: %w", ErrMountFailed, failErr)
	}

	home, ok := plan.Home()
	if !ok {
		closeAll()
		return nil, ErrNoHomeMount
	}

	if err := e.mounter.Mount(home.Device, homedir, home.FSType, home.Flags, ""); err != nil {
		closeAll()
		return nil, fmt.Errorf("%w: home: %w", ErrMountFailed, err)
	}
	handles = append(handles, &Handle{mounter: e.mounter, target: homedir})

	if err := e.mounter.Chmod(homedir, 0o700); err != nil {
		closeAll()
		return nil, fmt.Errorf("%w: chmod home: %w", ErrMountFailed, err)
	}
	if err := e.mounter.Chown(homedir, uid, gid); err != nil {
		closeAll()
		return nil, fmt.Errorf("%w: chown home: %w", ErrMountFailed, err)
	}

	return handles, nil
}

// EnsureXDGRuntime creates the user's XDG runtime tmpfs without mounting
// any home or auxiliary entries. Callers use this when a user has no
// stored Mount Plan at all — the session still needs its runtime tmpfs,
// but there is nothing else to mount.
func (e *Executor) EnsureXDGRuntime(uid, gid int) (*Handle, error) {
	return e.ensureXDGRuntime(uid, gid)
}

// ensureXDGRuntime creates (or reuses, if already present) the per-user
// XDG runtime tmpfs at "<xdgBase>/<uid>". A pre-existing non-empty
// directory there is tolerated rather than treated as a failure, matching
// the behaviour of the original mount_xdg routine this is grounded on.
func (e *Executor) ensureXDGRuntime(uid, gid int) (*Handle, error) {
	if err := e.mounter.MkdirAll(e.xdgBase, 0o755); err != nil {
		return nil, err
	}

	dir := filepath.Join(e.xdgBase, strconv.Itoa(uid))
	if err := e.mounter.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	data := fmt.Sprintf("uid=%d,gid=%d", uid, gid)
	if err := e.mounter.Mount("tmpfs", dir, "tmpfs", nil, data); err != nil {
		return nil, err
	}

	if err := e.mounter.Chmod(dir, 0o700); err != nil {
		_ = e.mounter.Unmount(dir, true)
		return nil, err
	}

	return &Handle{mounter: e.mounter, target: dir}, nil
}
