package store

import (
	"sort"
	"sync"
)

const subscriberBuffer = 100

// MemoryStore is an in-memory implementation of [Store].
//
// Snapshots are keyed by panel name; new snapshots replace previous values.
// Subscribers receive updates via buffered channels (buffer size 100).
// Updates are sent non-blocking; if a subscriber's buffer is full the update
// is dropped for that subscriber.
type MemoryStore struct {
	mu          sync.RWMutex
	panels      map[string]PanelSnapshot
	subscribers map[chan PanelSnapshot]struct{}
	subMu       sync.RWMutex
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		panels:      make(map[string]PanelSnapshot),
		subscribers: make(map[chan PanelSnapshot]struct{}),
	}
}

// Update stores a copy of snapshot and notifies all subscribers.
func (m *MemoryStore) Update(snapshot PanelSnapshot) {
	snapshot = copySnapshot(snapshot)

	m.mu.Lock()
	m.panels[snapshot.Name] = snapshot
	m.mu.Unlock()

	m.notifySubscribers(snapshot)
}

// Get returns a copy of the named snapshot.
func (m *MemoryStore) Get(name string) (PanelSnapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot, ok := m.panels[name]
	if !ok {
		return PanelSnapshot{}, false
	}
	return copySnapshot(snapshot), true
}

// GetAll returns copies of all snapshots in dashboard order.
func (m *MemoryStore) GetAll() []PanelSnapshot {
	m.mu.RLock()
	results := make([]PanelSnapshot, 0, len(m.panels))
	for _, snapshot := range m.panels {
		results = append(results, copySnapshot(snapshot))
	}
	m.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Order != results[j].Order {
			return results[i].Order < results[j].Order
		}
		return results[i].Name < results[j].Name
	})
	return results
}

// Subscribe creates a new subscription.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan PanelSnapshot {
	ch := make(chan PanelSnapshot, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel. Safe to call
// multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan PanelSnapshot) {
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

// notifySubscribers sends snapshot to all subscribers without blocking.
func (m *MemoryStore) notifySubscribers(snapshot PanelSnapshot) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- snapshot:
		default:
			// subscriber is slow, drop the message
		}
	}
}

// copySnapshot deep-copies the element slices so stored snapshots never
// share memory with callers.
func copySnapshot(s PanelSnapshot) PanelSnapshot {
	if s.Elements != nil {
		elements := make([]Element, len(s.Elements))
		for i, el := range s.Elements {
			if el.Cells != nil {
				el.Cells = append([]Cell(nil), el.Cells...)
			}
			elements[i] = el
		}
		s.Elements = elements
	}
	if s.Error != nil {
		msg := *s.Error
		s.Error = &msg
	}
	return s
}
