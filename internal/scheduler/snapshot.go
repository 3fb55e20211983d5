package scheduler

import (
	"fmt"

	"coedit/internal/document"
	"coedit/internal/store"
)

// SnapshotTask persists the retained state of every tracked document.
// It runs off the apply path: the document lock is only held briefly per
// snapshot copy, never across database writes.
func SnapshotTask(manager document.Manager, db store.Store) Task {
	return Task{
		Name: "snapshot",
		Execute: func() error {
			var failed []string
			for _, id := range manager.DocumentIDs() {
				snap, ok := manager.Snapshot(id)
				if !ok {
					continue
				}
				if err := db.SaveSnapshot(snap); err != nil {
					failed = append(failed, fmt.Sprintf("%s: %v", id, err))
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("failed to snapshot %d documents: %v", len(failed), failed)
			}
			return nil
		},
	}
}
