package taskstore

import "sync"

// subscriberBuffer is the per-subscriber channel buffer. Updates to a full
// buffer are dropped for that subscriber rather than blocking the recorder.
const subscriberBuffer = 100

// MemoryStore is the in-memory implementation of [Store].
//
// Snapshots are keyed by task ID, with new observations replacing previous
// ones. Subscribers receive updates via buffered channels; sends are
// non-blocking so one slow consumer cannot stall a poll session.
type MemoryStore struct {
	mu          sync.RWMutex
	snapshots   map[string]Snapshot
	subMu       sync.RWMutex
	subscribers map[chan Snapshot]struct{}
}

// NewMemoryStore creates an empty [MemoryStore], immediately ready for use.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots:   make(map[string]Snapshot),
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// Update implements [Store].
func (m *MemoryStore) Update(s Snapshot) {
	m.mu.Lock()
	m.snapshots[s.TaskID] = s
	m.mu.Unlock()

	m.notifySubscribers(s)
}

// Get implements [Store].
func (m *MemoryStore) Get(taskID string) (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.snapshots[taskID]
	return s, ok
}

// GetAll implements [Store]. Order is not guaranteed.
func (m *MemoryStore) GetAll() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Snapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		out = append(out, s)
	}
	return out
}

// Subscribe implements [Store].
func (m *MemoryStore) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe implements [Store].
func (m *MemoryStore) Unsubscribe(ch <-chan Snapshot) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the snapshot to all active subscribers without
// blocking; a full buffer drops the message for that subscriber only.
func (m *MemoryStore) notifySubscribers(s Snapshot) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- s:
		default:
			// subscriber is slow, drop the message
		}
	}
}
