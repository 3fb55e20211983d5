package document

import (
	"fmt"
	"time"
)

// Conflict detection scans history newest-first and stops at the first
// entry older than conflictWindow or after conflictLookback entries,
// whichever comes first. These bounds are an audit tuning knob; they
// have no effect on transform results.
const (
	conflictWindow   = 5 * time.Second
	conflictLookback = 10
)

// detectConflicts reports recent operations from other sessions whose
// half-open ranges overlap op. Ties at range edges are not overlaps.
// Runs against pre-append history: op itself must not be recorded yet.
func detectConflicts(state *State, op TrackedOperation, now time.Time) []EditConflict {
	var conflicts []EditConflict
	cutoff := now.Add(-conflictWindow)

	examined := 0
	for i := len(state.Operations) - 1; i >= 0 && examined < conflictLookback; i-- {
		recorded := state.Operations[i]
		if recorded.Timestamp.Before(cutoff) {
			break
		}
		examined++

		if recorded.SessionID == op.SessionID {
			continue
		}
		if !op.Overlaps(recorded.EditOperation) {
			continue
		}

		start, end := op.Span()
		conflicts = append(conflicts, EditConflict{
			Op1:          op,
			Op2:          recorded,
			DetectedAt:   now,
			AutoResolved: true,
			Description: fmt.Sprintf(
				"concurrent %s by %s overlaps %s by %s in [%d,%d)",
				op.Type, op.UserID, recorded.Type, recorded.UserID, start, end,
			),
		})
	}

	return conflicts
}
