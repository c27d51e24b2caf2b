package service

import "errors"

// Caller-facing error taxonomy. Repositories return the storage-level
// sentinels directly; handlers classify with errors.Is.
var (
	// ErrLotNotFound: the referenced parking lot does not exist.
	ErrLotNotFound = errors.New("parking lot not found")

	// ErrNoActiveSession: no open session exists for the plate. Covers both
	// "never started" and "already stopped".
	ErrNoActiveSession = errors.New("no active parking session for license plate")

	// ErrDuplicateActiveSession: an open session already exists for the plate.
	ErrDuplicateActiveSession = errors.New("active parking session already exists for license plate")

	// ErrIdentityRequired: the action needs an identity that was not supplied.
	ErrIdentityRequired = errors.New("authentication required")

	// ErrNotOwner: an identity was supplied but lacks permission for the
	// target resource.
	ErrNotOwner = errors.New("caller does not own the target resource")

	// ErrPlateRequired: a blank license plate was supplied.
	ErrPlateRequired = errors.New("license plate is required")
)
