package document

import (
	"sync"
	"time"

	"coedit/internal/ot"
)

// InMemoryManager implements Manager with one reader/writer lock over the
// whole document map: unlimited concurrent readers, writes fully
// serialized, including writes to different documents. Every mutation of
// a document passes through the same lock, so operations are applied in
// arrival order and each rebase sees the full effect of everything
// recorded before it.
type InMemoryManager struct {
	mu   sync.RWMutex
	docs map[string]*State
}

// NewManager creates an empty document registry.
func NewManager() *InMemoryManager {
	return &InMemoryManager{docs: make(map[string]*State)}
}

// getOrCreate must be called with the write lock held.
func (m *InMemoryManager) getOrCreate(docID string) *State {
	state, ok := m.docs[docID]
	if !ok {
		state = newState()
		m.docs[docID] = state
	}
	return state
}

func (m *InMemoryManager) ApplyOperation(docID string, op ot.EditOperation, sessionID string) TrackedOperation {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.getOrCreate(docID)

	// Rebase against every recorded operation from another session,
	// newest first. Each recorded entry already embeds the effect of
	// everything before it, so a single backward pass is sufficient.
	for i := len(state.Operations) - 1; i >= 0; i-- {
		recorded := state.Operations[i]
		if recorded.SessionID != sessionID {
			op = ot.Transform(op, recorded.EditOperation)
		}
	}

	now := time.Now()
	tracked := TrackedOperation{
		EditOperation: op,
		Version:       state.Version + 1,
		Timestamp:     now,
		SessionID:     sessionID,
	}

	state.recordConflicts(detectConflicts(state, tracked, now))
	state.record(tracked)

	return tracked
}

func (m *InMemoryManager) GetHistory(docID string, sinceVersion int64) []TrackedOperation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.docs[docID]
	if !ok {
		return nil
	}

	var history []TrackedOperation
	for _, op := range state.Operations {
		if op.Version > sinceVersion {
			history = append(history, op)
		}
	}
	return history
}

func (m *InMemoryManager) GetConflicts(docID string, since time.Time) []EditConflict {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.docs[docID]
	if !ok {
		return nil
	}

	var conflicts []EditConflict
	for _, c := range state.Conflicts {
		if c.DetectedAt.After(since) {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}

func (m *InMemoryManager) RegisterSession(docID, sessionID, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getOrCreate(docID).Sessions[sessionID] = userID
}

func (m *InMemoryManager) UnregisterSession(docID, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state, ok := m.docs[docID]; ok {
		delete(state.Sessions, sessionID)
	}
}

func (m *InMemoryManager) GetVersion(docID string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.docs[docID]
	if !ok {
		return 0
	}
	return state.Version
}

func (m *InMemoryManager) GetActiveSessions(docID string) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make(map[string]string)
	if state, ok := m.docs[docID]; ok {
		for id, user := range state.Sessions {
			sessions[id] = user
		}
	}
	return sessions
}

func (m *InMemoryManager) DocumentIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	return ids
}

func (m *InMemoryManager) Snapshot(docID string) (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.docs[docID]
	if !ok {
		return Snapshot{}, false
	}

	ops := make([]TrackedOperation, len(state.Operations))
	copy(ops, state.Operations)

	return Snapshot{
		ID:           docID,
		Version:      state.Version,
		LastModified: state.LastModified,
		Operations:   ops,
	}, true
}
