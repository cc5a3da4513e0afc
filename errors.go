package viewtrack

import (
	"viewtrack/storage"
	"viewtrack/tracker"
	"viewtrack/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, viewtrack.ErrNotFound) {
//		fmt.Println("no snapshot yet")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var fetchErr *viewtrack.FetchError
//	if errors.As(err, &fetchErr) {
//		fmt.Printf("batch of %d failed: %v\n", len(fetchErr.IDs), fetchErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// StorageError wraps errors during snapshot or marker operations.
	StorageError = storage.StorageError
	// FetchError wraps a failed metadata batch fetch with the affected IDs.
	FetchError = youtube.FetchError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrNotFound indicates no snapshot has been written yet.
	ErrNotFound = storage.ErrNotFound
	// ErrCorrupt indicates the snapshot file could not be decoded.
	ErrCorrupt = storage.ErrCorrupt
	// ErrMissingAPIKey indicates no API credential was provided.
	ErrMissingAPIKey = youtube.ErrMissingAPIKey
	// ErrBatchTooLarge indicates a metadata batch exceeded the API limit.
	ErrBatchTooLarge = youtube.ErrBatchTooLarge
	// ErrWatchlist indicates the watchlist config is missing or unusable.
	ErrWatchlist = tracker.ErrWatchlist
)
