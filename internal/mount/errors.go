// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mount

import "errors"

var (
	// ErrNoHomeMount is returned by Executor.Execute when the plan has no
	// home mount set; spec.md §4.8 step 3 requires one.
	ErrNoHomeMount = errors.New("mount plan has no home mount")

	// ErrMountFailed wraps any failure from the underlying Mounter,
	// surfaced by Executor.Execute as an empty handle sequence per
	// spec.md §4.8.
	ErrMountFailed = errors.New("mount failed")
)
