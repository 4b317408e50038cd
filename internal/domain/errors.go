package domain

import "errors"

var (
	// ErrClientNotFound is returned when no client exists for an identifier.
	ErrClientNotFound = errors.New("client not found")

	// ErrSnapshotNotFound is returned when no snapshot exists for a
	// (client, period) pair.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
