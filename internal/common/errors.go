// Package common defines shared constants and sentinel errors used across
// the layers of Nebula Studio. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Local persistence errors.
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Cloud configuration errors. These are fatal to the attempted
	// operation and must reach the caller; they are never retried.
	ErrConfigMissing = errors.New("cloud configuration missing")
	ErrTokenRejected = errors.New("record store token rejected")
	ErrTableNotFound = errors.New("record store table not found")

	// Account errors.
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Transient connectivity failure.
	ErrUnavailable = errors.New("service unavailable")

	// Library errors.
	ErrFolderCycle    = errors.New("folder move would create a cycle")
	ErrNoRemoteRecord = errors.New("file has no remote record")
)
