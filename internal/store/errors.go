package store

import "fmt"

var (
	// ErrNotFound is returned when a requested snapshot doesn't exist
	ErrNotFound = fmt.Errorf("snapshot not found")

	// ErrInvalidTransaction is returned when a transaction operation fails
	ErrInvalidTransaction = fmt.Errorf("invalid transaction")
)
