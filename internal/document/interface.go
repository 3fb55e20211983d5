package document

import (
	"time"

	"coedit/internal/ot"
)

// TrackedOperation is an edit operation as durably recorded in a
// document's history, stamped with the version it produced and the
// session that submitted it. It is created once, on append, and never
// mutated afterward.
type TrackedOperation struct {
	ot.EditOperation
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
}

// EditConflict records a pair of overlapping concurrent edits from
// different sessions. Conflicts are an audit trail, not a correctness
// mechanism: the transform algebra has already reconciled the edits.
type EditConflict struct {
	Op1          TrackedOperation `json:"operation1"`
	Op2          TrackedOperation `json:"operation2"`
	DetectedAt   time.Time        `json:"detected_at"`
	AutoResolved bool             `json:"auto_resolved"`
	Description  string           `json:"description"`
}

// Snapshot is a copy of a document's recorded state, as handed to the
// persistence layer.
type Snapshot struct {
	ID           string
	Version      int64
	LastModified time.Time
	Operations   []TrackedOperation
}

// Manager is the registry of document states. All methods are safe for
// concurrent use; reads never block each other.
type Manager interface {
	// ApplyOperation rebases op against recorded operations from other
	// sessions, stamps it with the document's next version and records
	// it. The returned operation is the caller's to broadcast.
	ApplyOperation(docID string, op ot.EditOperation, sessionID string) TrackedOperation

	// GetHistory returns recorded operations with version greater than
	// sinceVersion, oldest first. A sinceVersion of 0 returns the whole
	// retained window.
	GetHistory(docID string, sinceVersion int64) []TrackedOperation

	// GetConflicts returns conflicts detected after since, oldest first.
	// A zero since returns all retained conflicts.
	GetConflicts(docID string, since time.Time) []EditConflict

	// RegisterSession adds a session to a document, creating the document
	// state if needed. Registering the same session again overwrites its
	// user id.
	RegisterSession(docID, sessionID, userID string)

	// UnregisterSession removes a session. Unknown documents and sessions
	// are ignored.
	UnregisterSession(docID, sessionID string)

	// GetVersion returns the document's current version, or 0 for an
	// unknown document.
	GetVersion(docID string) int64

	// GetActiveSessions returns a copy of the session id to user id
	// mapping, empty for an unknown document.
	GetActiveSessions(docID string) map[string]string

	// DocumentIDs lists every document the manager currently tracks.
	DocumentIDs() []string

	// Snapshot returns a copy of a document's recorded state, or false
	// for an unknown document.
	Snapshot(docID string) (Snapshot, bool)
}
