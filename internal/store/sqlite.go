package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"coedit/internal/document"
	"coedit/internal/ot"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys and WAL mode
	if _, err := db.Exec(`
        PRAGMA foreign_keys = ON;
        PRAGMA journal_mode = WAL;
    `); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set PRAGMA: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) WithTx(fn func(Transaction) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	defer tx.Rollback()

	if err := fn(&SQLiteTx{tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}

	return nil
}

func (s *SQLiteStore) SaveSnapshot(snap document.Snapshot) error {
	return s.WithTx(func(tx Transaction) error {
		return tx.SaveSnapshot(snap)
	})
}

func (s *SQLiteStore) LoadSnapshot(docID string) (*document.Snapshot, error) {
	snap := document.Snapshot{ID: docID}

	var lastModified int64
	err := s.db.QueryRow(
		"SELECT version, last_modified FROM documents WHERE id = ?",
		docID,
	).Scan(&snap.Version, &lastModified)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	snap.LastModified = time.Unix(0, lastModified)

	rows, err := s.db.Query(`
        SELECT version, type, position, length, content, user_id, session_id, timestamp
        FROM operations
        WHERE doc_id = ?
        ORDER BY version ASC
    `, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var op document.TrackedOperation
		var opType string
		var timestamp int64
		if err := rows.Scan(
			&op.Version, &opType, &op.Position, &op.Length,
			&op.Content, &op.UserID, &op.SessionID, &timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		op.Type = ot.OpType(opType)
		op.Timestamp = time.Unix(0, timestamp)
		snap.Operations = append(snap.Operations, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operations: %w", err)
	}

	return &snap, nil
}

func (s *SQLiteStore) Documents() ([]string, error) {
	rows, err := s.db.Query("SELECT id FROM documents ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return ids, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
