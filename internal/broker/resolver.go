// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package broker

import (
	"fmt"
	"os/user"
	"strconv"

	"github.com/login-ng/login-ng/internal/vaultstore"
)

// Identity is the host identity a [UserResolver] resolves a username
// into: the uid/gid the Executor must chown the home mount to, and the
// home directory path that anchors the user's vault xattrs.
type Identity struct {
	UID     int
	GID     int
	HomeDir string
}

// UserResolver maps a username to the host identity the broker needs to
// open a session for it. Production code uses [NewOSUserResolver]; tests
// substitute a fake so no real host account needs to exist.
type UserResolver interface {
	Resolve(username string) (Identity, error)
}

// osUserResolver resolves identities against the host's user database via
// os/user, and locates the home directory via
// [vaultstore.HomeDirByUsername] so the systemd-homed convention is
// honoured the same way the storage layer honours it.
type osUserResolver struct{}

// NewOSUserResolver constructs the production [UserResolver].
func NewOSUserResolver() UserResolver {
	return osUserResolver{}
}

func (osUserResolver) Resolve(username string) (Identity, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrUnknownUser, err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: malformed uid %q", ErrUnknownUser, u.Uid)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: malformed gid %q", ErrUnknownUser, u.Gid)
	}

	home, err := vaultstore.HomeDirByUsername(username)
	if err != nil {
		return Identity{}, err
	}

	return Identity{UID: uid, GID: gid, HomeDir: home}, nil
}
