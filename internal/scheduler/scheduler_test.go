package scheduler_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"coedit/internal/document"
	"coedit/internal/ot"
	"coedit/internal/scheduler"
	"coedit/internal/store"
)

// TestSchedulerStop verifies that queued tasks all run before Stop
// returns.
func TestSchedulerStop(t *testing.T) {
	s := scheduler.NewScheduler(10)

	taskExecuted := make(chan string, 10)
	testTask := scheduler.Task{
		Name: "TestTask",
		Execute: func() error {
			time.Sleep(10 * time.Millisecond) // Simulate work
			taskExecuted <- "TestTask executed"
			return nil
		},
	}

	s.Run()

	for i := 0; i < 5; i++ {
		s.ScheduleTask(testTask)
	}

	s.Stop()

	if got := len(taskExecuted); got != 5 {
		t.Fatalf("expected all 5 tasks to execute before Stop returned, got %d", got)
	}
}

// TestSchedulerFailingTask verifies that a failing task does not wedge
// the queue.
func TestSchedulerFailingTask(t *testing.T) {
	s := scheduler.NewScheduler(10)
	s.Run()

	executed := make(chan struct{}, 2)
	s.ScheduleTask(scheduler.Task{
		Name: "failing",
		Execute: func() error {
			executed <- struct{}{}
			return fmt.Errorf("boom")
		},
	})
	s.ScheduleTask(scheduler.Task{
		Name: "following",
		Execute: func() error {
			executed <- struct{}{}
			return nil
		},
	})

	s.Stop()

	if got := len(executed); got != 2 {
		t.Fatalf("expected both tasks to execute, got %d", got)
	}
}

// TestSnapshotTask verifies that the snapshot task persists every
// tracked document into the store.
func TestSnapshotTask(t *testing.T) {
	db, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	defer db.Close()

	manager := document.NewManager()
	manager.ApplyOperation("doc1", ot.EditOperation{Type: ot.Insert, Position: 0, Content: "hi", UserID: "u1"}, "s1")
	manager.ApplyOperation("doc2", ot.EditOperation{Type: ot.Insert, Position: 0, Content: "yo", UserID: "u2"}, "s2")

	task := scheduler.SnapshotTask(manager, db)
	if err := task.Execute(); err != nil {
		t.Fatalf("snapshot task failed: %v", err)
	}

	ids, err := db.Documents()
	if err != nil {
		t.Fatalf("Documents failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("persisted %d documents, want 2", len(ids))
	}

	snap, err := db.LoadSnapshot("doc1")
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snap.Version != 1 || len(snap.Operations) != 1 {
		t.Errorf("loaded {v%d, %d ops}, want {v1, 1 op}", snap.Version, len(snap.Operations))
	}
	if snap.Operations[0].Content != "hi" {
		t.Errorf("loaded content %q, want %q", snap.Operations[0].Content, "hi")
	}
}
