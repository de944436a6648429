// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package broker

import (
	"crypto/rsa"
	"sync"

	"github.com/login-ng/login-ng/internal/channel"
	"github.com/login-ng/login-ng/internal/crypto"
	"github.com/login-ng/login-ng/internal/logger"
	"github.com/login-ng/login-ng/internal/mount"
	"github.com/login-ng/login-ng/internal/mountauth"
	"github.com/login-ng/login-ng/internal/vaultstore"
)

// PreludeBound caps the number of outstanding one-time tokens a Broker's
// [channel.PreludeStore] holds before evicting the oldest (spec.md §9).
const PreludeBound = 4096

// activeSession is one entry of the Active Session table spec.md §4.7
// describes: a refcount (for concurrent PAM stacks sharing one user) and
// the mount-handle sequence that must be detached when the count reaches
// zero.
type activeSession struct {
	refcount int
	uid      int
	gid      int
	handles  []*mount.Handle
}

func (s *activeSession) close() {
	for i := len(s.handles) - 1; i >= 0; i-- {
		s.handles[i].Close()
	}
}

// Broker implements the Session Broker (spec.md §4.7, component C7): the
// privileged daemon that authenticates session-initiation requests,
// checks proposed mount plans against the Mount Authorisation Registry,
// executes them, and reference-counts the resulting sessions.
//
// Broker holds exactly three long-lived pieces of state, per spec.md §5:
// the lazily-initialised RSA private key, the registry handle, and the
// session table. All three are created at construction and torn down
// when the process exits.
type Broker struct {
	mu       sync.Mutex
	sessions map[string]*activeSession

	preludes *channel.PreludeStore

	keyOnce sync.Once
	keyDir  string
	key     *rsa.PrivateKey
	keyErr  error

	resolver   UserResolver
	store      *vaultstore.Store
	registry   *mountauth.Registry
	executor   *mount.Executor
	primitives crypto.Primitives
	log        *logger.Logger
}

// New constructs a Broker. keyDir is the 0700 directory holding the
// broker's persisted RSA private key (spec.md §6).
func New(keyDir string, store *vaultstore.Store, registry *mountauth.Registry, executor *mount.Executor, resolver UserResolver, primitives crypto.Primitives, log *logger.Logger) *Broker {
	return &Broker{
		sessions:   make(map[string]*activeSession),
		preludes:   channel.NewPreludeStore(PreludeBound),
		keyDir:     keyDir,
		resolver:   resolver,
		store:      store,
		registry:   registry,
		executor:   executor,
		primitives: primitives,
		log:        log,
	}
}

// privateKey returns the broker's RSA private key, generating and
// persisting one on first call. Concurrent callers during the first load
// share the single [sync.Once] join point spec.md §4.7 requires.
func (b *Broker) privateKey() (*rsa.PrivateKey, error) {
	b.keyOnce.Do(func() {
		b.key, b.keyErr = loadOrGenerateKey(b.keyDir)
	})
	return b.key, b.keyErr
}

// Initiate implements the bus initiate() operation (spec.md §4.7,
// §4.6 step 1). On any internal failure it fails silently by returning
// an empty string, per spec.md: clients are expected to retry.
func (b *Broker) Initiate() string {
	key, err := b.privateKey()
	if err != nil {
		b.log.Error().Err(err).Msg("initiate: load broker key")
		return ""
	}

	b.mu.Lock()
	ott, err := b.preludes.Issue(b.primitives)
	b.mu.Unlock()
	if err != nil {
		b.log.Error().Err(err).Msg("initiate: issue ott")
		return ""
	}

	prelude, err := channel.EncodePrelude(encodePublicKeyPEM(&key.PublicKey), ott)
	if err != nil {
		b.log.Error().Err(err).Msg("initiate: encode prelude")
		return ""
	}

	return string(prelude)
}

// OpenSession implements the bus open_session(user, ciphertext) operation
// and its six-step algorithm from spec.md §4.7.
func (b *Broker) OpenSession(user string, ciphertext []byte) (Code, uint32, uint32) {
	identity, err := b.resolver.Resolve(user)
	if err != nil {
		b.log.Error().Err(err).Str("user", user).Msg("open_session: resolve user")
		return CodeCannotIdentifyUser, 0, 0
	}

	b.mu.Lock()
	if existing, ok := b.sessions[user]; ok {
		existing.refcount++
		uid, gid := uint32(existing.uid), uint32(existing.gid)
		b.mu.Unlock()
		return CodeOk, uid, gid
	}
	b.mu.Unlock()

	key, err := b.privateKey()
	if err != nil {
		b.log.Error().Err(err).Msg("open_session: load broker key")
		return CodePubKeyError, 0, 0
	}

	_, token, err := channel.Decrypt(b.primitives, key, ciphertext)
	if err != nil {
		b.log.Error().Err(err).Str("user", user).Msg("open_session: decrypt")
		return CodeDataDecryptionFailed, 0, 0
	}

	b.mu.Lock()
	consumed := b.preludes.Consume(token)
	b.mu.Unlock()
	if !consumed {
		b.log.Warn().Str("user", user).Msg("open_session: ott replay or unknown token")
		return CodeEncryptionError, 0, 0
	}

	plan, exists, err := b.store.LoadMountPlan(identity.HomeDir)
	if err != nil {
		b.log.Error().Err(err).Str("user", user).Msg("open_session: load mount plan")
		return CodeCannotLoadUserMountError, 0, 0
	}

	var handles []*mount.Handle
	if exists {
		digest := plan.Digest()
		authorized, err := b.registry.IsAuthorized(user, digest)
		if err != nil {
			b.log.Error().Err(err).Str("user", user).Msg("open_session: check authorization")
			return CodeUnauthorizedMount, 0, 0
		}
		if !authorized {
			return CodeUnauthorizedMount, 0, 0
		}

		handles, err = b.executor.Execute(plan, identity.UID, identity.GID, user, identity.HomeDir)
		if err != nil {
			b.log.Error().Err(err).Str("user", user).Msg("open_session: execute plan")
			return CodeMountError, 0, 0
		}
	} else {
		handle, err := b.executor.EnsureXDGRuntime(identity.UID, identity.GID)
		if err != nil {
			b.log.Error().Err(err).Str("user", user).Msg("open_session: ensure xdg runtime")
			return CodeMountError, 0, 0
		}
		handles = []*mount.Handle{handle}
	}

	b.mu.Lock()
	b.sessions[user] = &activeSession{refcount: 1, uid: identity.UID, gid: identity.GID, handles: handles}
	b.mu.Unlock()

	return CodeOk, uint32(identity.UID), uint32(identity.GID)
}

// CloseSession implements the bus close_session(user) operation. The
// session's refcount is decremented; at zero its mount handles are
// detached in reverse acquisition order and the Active Session entry is
// removed.
func (b *Broker) CloseSession(user string) Code {
	b.mu.Lock()
	defer b.mu.Unlock()

	session, ok := b.sessions[user]
	if !ok {
		return CodeSessionAlreadyClosed
	}

	session.refcount--
	if session.refcount > 0 {
		return CodeOk
	}

	session.close()
	delete(b.sessions, user)
	return CodeOk
}

// AuthorizeMount implements the mount-authorisation service's
// authorize(user, digest) operation.
func (b *Broker) AuthorizeMount(user, digest string) Code {
	if err := b.registry.Authorize(user, digest); err != nil {
		b.log.Error().Err(err).Str("user", user).Msg("authorize_mount")
		return CodeIOError
	}
	return CodeOk
}

// CheckMount implements the mount-authorisation service's check(user,
// digest) operation. An error from the registry is treated the same as
// "not authorised" — the bus surface has no error channel for this call,
// and spec.md §4.5 requires errors never be presented as an authorised
// answer.
func (b *Broker) CheckMount(user, digest string) bool {
	authorized, err := b.registry.IsAuthorized(user, digest)
	if err != nil {
		b.log.Error().Err(err).Str("user", user).Msg("check_mount")
		return false
	}
	return authorized
}
