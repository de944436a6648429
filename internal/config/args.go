// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "os"

// osArgsTail returns the process's own arguments, excluding argv[0].
func osArgsTail() []string {
	if len(os.Args) <= 1 {
		return nil
	}
	return os.Args[1:]
}
