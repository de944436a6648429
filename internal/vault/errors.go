// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import "errors"

var (
	// ErrWrongIntermediateKey is returned when a candidate intermediate key
	// fails verification, or successfully decrypts but the result does not
	// match the stored main-secret hash.
	ErrWrongIntermediateKey = errors.New("wrong intermediate key")

	// ErrMainPasswordNotSet is returned by any operation that requires an
	// existing main credential when none has been set yet.
	ErrMainPasswordNotSet = errors.New("main password not set")

	// ErrCouldNotAuthenticate is returned by Unlock when candidate matches
	// neither the main secret, the intermediate key, nor any alternative.
	ErrCouldNotAuthenticate = errors.New("could not authenticate")

	// ErrMatchingAuthNotProvided names the case of an alternative credential
	// of a requested name not existing. No [Vault] method returns it: the
	// vault has no lookup of alternatives by name.
	ErrMatchingAuthNotProvided = errors.New("matching alternative credential not provided")

	// ErrInvalidPassword is returned when a secret is not a round-trippable
	// UTF-8 string.
	ErrInvalidPassword = errors.New("invalid password encoding")
)
