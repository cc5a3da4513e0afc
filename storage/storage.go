// Package storage persists viewtrack snapshots and the reset marker.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common storage conditions.
var (
	// ErrNotFound indicates the requested file does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrCorrupt indicates the snapshot file could not be decoded.
	ErrCorrupt = errors.New("storage: snapshot corrupt")
)

// StorageError wraps storage errors with operation and path context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s: %v\n", storErr.Op, storErr.Path, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("load", "save", "mark").
	Op string
	// Path is the file involved.
	Path string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }

// SnapshotStore persists the tracking snapshot and the one-time reset marker.
type SnapshotStore interface {
	// Load reads the prior snapshot. Returns ErrNotFound when no snapshot
	// has been written yet (first-run condition).
	Load(ctx context.Context) (*Snapshot, error)
	// Save writes the snapshot in a single rename so readers never observe
	// a partially written file.
	Save(ctx context.Context, snap *Snapshot) error
	// ResetPending reports whether the one-time history reset has not yet
	// been performed (marker file absent).
	ResetPending(ctx context.Context) (bool, error)
	// MarkResetDone creates the reset marker. The note is informational;
	// only the marker's existence is significant.
	MarkResetDone(ctx context.Context, note string) error
}
