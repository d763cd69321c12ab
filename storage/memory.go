package storage

import (
	"sync"
	"time"

	"github.com/textbin/textbin/models"
)

// MemoryStore implements PasteStore with an in-process map. Used for
// development mode and tests.
type MemoryStore struct {
	mu     sync.Mutex
	pastes map[string]*models.Paste
}

// NewMemoryStore creates an empty in-memory storage backend
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pastes: make(map[string]*models.Paste),
	}
}

// Get retrieves a copy of a paste by its ID
func (m *MemoryStore) Get(id string) (*models.Paste, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	paste, ok := m.pastes[id]
	if !ok {
		return nil, nil
	}
	snapshot := *paste
	return &snapshot, nil
}

// Insert saves a new paste, enforcing ID uniqueness
func (m *MemoryStore) Insert(paste *models.Paste) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pastes[paste.ID]; exists {
		return ErrDuplicateID
	}
	now := time.Now()
	stored := *paste
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.pastes[paste.ID] = &stored
	return nil
}

// IncrementViewCount atomically increments the view count under the store
// lock and returns the new count
func (m *MemoryStore) IncrementViewCount(id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	paste, ok := m.pastes[id]
	if !ok {
		return 0, ErrNotFound
	}
	paste.ViewCount++
	paste.UpdatedAt = time.Now()
	return paste.ViewCount, nil
}

// Delete removes a paste and reports whether it was present
func (m *MemoryStore) Delete(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pastes[id]; !ok {
		return false, nil
	}
	delete(m.pastes, id)
	return true, nil
}

// DeleteExpired removes all pastes matching the expiry predicate
func (m *MemoryStore) DeleteExpired(now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for id, paste := range m.pastes {
		if sweepExpired(paste, now) {
			delete(m.pastes, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the total number of stored pastes
func (m *MemoryStore) Count() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return int64(len(m.pastes)), nil
}

// CountActive returns the number of pastes not matching the expiry predicate
func (m *MemoryStore) CountActive(now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var active int64
	for _, paste := range m.pastes {
		if !sweepExpired(paste, now) {
			active++
		}
	}
	return active, nil
}

// Close is a no-op for the in-memory store
func (m *MemoryStore) Close() error {
	return nil
}
