package store

import (
	"database/sql"
	"fmt"

	"coedit/internal/document"
)

// Transaction is the set of writes available inside WithTx.
type Transaction interface {
	SaveSnapshot(snap document.Snapshot) error
}

type SQLiteTx struct {
	tx *sql.Tx
}

func (tx *SQLiteTx) SaveSnapshot(snap document.Snapshot) error {
	_, err := tx.tx.Exec(`
        INSERT INTO documents (id, version, last_modified)
        VALUES (?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            version = excluded.version,
            last_modified = excluded.last_modified
    `, snap.ID, snap.Version, snap.LastModified.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	// Snapshots replace each other wholesale; drop the previous window.
	if _, err := tx.tx.Exec("DELETE FROM operations WHERE doc_id = ?", snap.ID); err != nil {
		return fmt.Errorf("failed to delete stale operations: %w", err)
	}

	if len(snap.Operations) == 0 {
		return nil
	}

	stmt, err := tx.tx.Prepare(`
        INSERT INTO operations
            (doc_id, version, type, position, length, content, user_id, session_id, timestamp)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare operation insert statement: %w", err)
	}
	defer stmt.Close()

	for _, op := range snap.Operations {
		if _, err := stmt.Exec(
			snap.ID, op.Version, string(op.Type), op.Position, op.Length,
			op.Content, op.UserID, op.SessionID, op.Timestamp.UnixNano(),
		); err != nil {
			return fmt.Errorf("failed to insert operation: %w", err)
		}
	}

	return nil
}
