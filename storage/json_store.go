package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONStore persists the snapshot and reset marker as plain files.
// The snapshot write goes through a temp file and a rename, which is atomic
// on POSIX filesystems.
type JSONStore struct {
	snapshotPath string
	markerPath   string
}

// NewJSONStore creates a store at the given snapshot and marker paths.
func NewJSONStore(snapshotPath, markerPath string) *JSONStore {
	return &JSONStore{
		snapshotPath: snapshotPath,
		markerPath:   markerPath,
	}
}

// Load reads and decodes the snapshot file.
func (s *JSONStore) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &StorageError{Op: "load", Path: s.snapshotPath, Err: ErrNotFound}
		}
		return nil, &StorageError{Op: "load", Path: s.snapshotPath, Err: err}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &StorageError{Op: "load", Path: s.snapshotPath, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}

	return &snap, nil
}

// Save encodes the snapshot and replaces the file in one rename.
func (s *JSONStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &StorageError{Op: "save", Path: s.snapshotPath, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.snapshotPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StorageError{Op: "save", Path: s.snapshotPath, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return &StorageError{Op: "save", Path: s.snapshotPath, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: s.snapshotPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: s.snapshotPath, Err: err}
	}

	if err := os.Rename(tmpName, s.snapshotPath); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: s.snapshotPath, Err: err}
	}

	return nil
}

// ResetPending reports whether the reset marker is absent.
func (s *JSONStore) ResetPending(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(s.markerPath)
	if err == nil {
		return false, nil
	}
	if os.IsNotExist(err) {
		return true, nil
	}
	return false, &StorageError{Op: "stat", Path: s.markerPath, Err: err}
}

// MarkResetDone creates the reset marker file.
func (s *JSONStore) MarkResetDone(ctx context.Context, note string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.markerPath), 0755); err != nil {
		return &StorageError{Op: "mark", Path: s.markerPath, Err: err}
	}
	if err := os.WriteFile(s.markerPath, []byte(note+"\n"), 0644); err != nil {
		return &StorageError{Op: "mark", Path: s.markerPath, Err: err}
	}
	return nil
}
