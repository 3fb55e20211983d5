package document

import "time"

const (
	// maxHistory bounds the per-document operation history. The oldest
	// entry is evicted first; persistence beyond this window belongs to
	// the snapshot store.
	maxHistory = 1000

	// maxConflicts bounds the per-document conflict list.
	maxConflicts = 100
)

// State is the aggregate for one document: monotonic version counter,
// bounded operation history (version-ordered ascending), bounded conflict
// list (time-ordered ascending) and the active session registry. It is
// created lazily on first touch and lives for the process lifetime.
type State struct {
	Version      int64
	Operations   []TrackedOperation
	Conflicts    []EditConflict
	Sessions     map[string]string // session id -> user id
	LastModified time.Time
}

func newState() *State {
	return &State{
		Sessions:     make(map[string]string),
		LastModified: time.Now(),
	}
}

// record appends a stamped operation and advances the version counter.
// Trimming happens strictly after the append, so the new entry is never
// the one evicted.
func (s *State) record(op TrackedOperation) {
	s.Operations = append(s.Operations, op)
	s.Version = op.Version
	s.LastModified = op.Timestamp

	if len(s.Operations) > maxHistory {
		trimmed := make([]TrackedOperation, maxHistory)
		copy(trimmed, s.Operations[len(s.Operations)-maxHistory:])
		s.Operations = trimmed
	}
}

func (s *State) recordConflicts(conflicts []EditConflict) {
	if len(conflicts) == 0 {
		return
	}
	s.Conflicts = append(s.Conflicts, conflicts...)

	if len(s.Conflicts) > maxConflicts {
		trimmed := make([]EditConflict, maxConflicts)
		copy(trimmed, s.Conflicts[len(s.Conflicts)-maxConflicts:])
		s.Conflicts = trimmed
	}
}
