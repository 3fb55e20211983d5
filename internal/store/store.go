package store

import "coedit/internal/document"

// Store persists bounded document snapshots beyond the in-memory history
// window. It is a snapshot store, not an unbounded operation log: each
// save replaces the previous snapshot of the document.
type Store interface {
	// SaveSnapshot upserts a document snapshot atomically.
	SaveSnapshot(snap document.Snapshot) error

	// LoadSnapshot returns the last saved snapshot of a document, or
	// ErrNotFound if none was ever saved.
	LoadSnapshot(docID string) (*document.Snapshot, error)

	// Documents lists the ids of all persisted documents.
	Documents() ([]string, error)

	Close() error
}
