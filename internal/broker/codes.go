// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package broker implements the Session Broker (spec.md §4.7, component
// C7): the privileged daemon that holds the RSA private key, the Active
// Session table, and a handle to the Mount Authorisation Registry, and
// exposes open_session/close_session/initiate over the bus.
package broker

// Code is one of the closed set of result codes spec.md §6 defines for
// the bus surface. Values outside this set are reserved.
type Code uint32

const (
	CodeOk                       Code = 0
	CodePubKeyError              Code = 1
	CodeDataDecryptionFailed     Code = 2
	CodeCannotLoadUserMountError Code = 3
	CodeMountError               Code = 4
	CodeSessionAlreadyOpened     Code = 5
	CodeSessionAlreadyClosed     Code = 6
	CodeCannotIdentifyUser       Code = 7
	CodeEmptyPubKey              Code = 8
	CodeEncryptionError          Code = 9
	CodeUnauthorizedMount        Code = 10
	CodeSerializationError       Code = 11
	CodeIOError                  Code = 12
)

// String renders a Code using the names spec.md §6 assigns them, for log
// lines and diagnostics.
func (c Code) String() string {
	switch c {
	case CodeOk:
		return "Ok"
	case CodePubKeyError:
		return "PubKeyError"
	case CodeDataDecryptionFailed:
		return "DataDecryptionFailed"
	case CodeCannotLoadUserMountError:
		return "CannotLoadUserMountError"
	case CodeMountError:
		return "MountError"
	case CodeSessionAlreadyOpened:
		return "SessionAlreadyOpened"
	case CodeSessionAlreadyClosed:
		return "SessionAlreadyClosed"
	case CodeCannotIdentifyUser:
		return "CannotIdentifyUser"
	case CodeEmptyPubKey:
		return "EmptyPubKey"
	case CodeEncryptionError:
		return "EncryptionError"
	case CodeUnauthorizedMount:
		return "UnauthorizedMount"
	case CodeSerializationError:
		return "SerializationError"
	case CodeIOError:
		return "IOError"
	default:
		return "Unknown"
	}
}
