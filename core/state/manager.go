package state

import (
	"errors"
	"fmt"

	"weidex/storage"
)

// overlayEntry is an uncommitted write. A deleted entry shadows whatever the
// database holds for the key.
type overlayEntry struct {
	value   []byte
	deleted bool
}

// journalEntry records the overlay value a key had before a write so the
// write can be undone.
type journalEntry struct {
	key     string
	prev    overlayEntry
	existed bool
}

// Manager provides typed access to the exchange state on top of a key-value
// database. Writes are buffered in an overlay and journaled so callers can
// take nested snapshots and roll back to them; nothing reaches the database
// until Commit.
type Manager struct {
	db      storage.Database
	overlay map[string]overlayEntry
	journal []journalEntry
}

// NewManager creates a new state manager over db.
func NewManager(db storage.Database) *Manager {
	return &Manager{
		db:      db,
		overlay: make(map[string]overlayEntry),
	}
}

// Snapshot returns an identifier for the current journal position.
func (m *Manager) Snapshot() int {
	return len(m.journal)
}

// RevertToSnapshot undoes every write made after the snapshot was taken.
// Reverting to an unknown snapshot is a no-op.
func (m *Manager) RevertToSnapshot(id int) {
	if id < 0 || id > len(m.journal) {
		return
	}
	for i := len(m.journal) - 1; i >= id; i-- {
		entry := m.journal[i]
		if entry.existed {
			m.overlay[entry.key] = entry.prev
		} else {
			delete(m.overlay, entry.key)
		}
	}
	m.journal = m.journal[:id]
}

// Commit flushes the overlay to the database in a single batch and clears the
// journal.
func (m *Manager) Commit() error {
	if len(m.overlay) == 0 {
		m.journal = m.journal[:0]
		return nil
	}
	batch := m.db.NewBatch()
	for key, entry := range m.overlay {
		if entry.deleted {
			batch.Delete([]byte(key))
			continue
		}
		batch.Put([]byte(key), entry.value)
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("state: commit: %w", err)
	}
	m.overlay = make(map[string]overlayEntry)
	m.journal = m.journal[:0]
	return nil
}

// Discard drops every uncommitted write.
func (m *Manager) Discard() {
	m.overlay = make(map[string]overlayEntry)
	m.journal = m.journal[:0]
}

// Pending reports the number of keys touched since the last commit.
func (m *Manager) Pending() int {
	return len(m.overlay)
}

func (m *Manager) get(key []byte) ([]byte, bool, error) {
	if entry, ok := m.overlay[string(key)]; ok {
		if entry.deleted {
			return nil, false, nil
		}
		return append([]byte(nil), entry.value...), true, nil
	}
	value, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("state: read: %w", err)
	}
	return value, true, nil
}

func (m *Manager) put(key []byte, value []byte) {
	m.record(string(key))
	m.overlay[string(key)] = overlayEntry{value: append([]byte(nil), value...)}
}

func (m *Manager) del(key []byte) {
	m.record(string(key))
	m.overlay[string(key)] = overlayEntry{deleted: true}
}

func (m *Manager) record(key string) {
	prev, existed := m.overlay[key]
	m.journal = append(m.journal, journalEntry{key: key, prev: prev, existed: existed})
}
