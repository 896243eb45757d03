package state

import (
	"encoding/binary"
	"fmt"
)

// Height returns the current height supplied by the hosting runtime.
func (m *Manager) Height() (uint64, error) {
	raw, ok, err := m.get(heightKey())
	if err != nil || !ok {
		return 0, err
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("state: corrupt height record")
	}
	return binary.BigEndian.Uint64(raw), nil
}

// SetHeight stores the current height.
func (m *Manager) SetHeight(height uint64) error {
	m.put(heightKey(), encodeUint64(height))
	return nil
}

// Bootstrapped reports whether genesis parameters were already written.
func (m *Manager) Bootstrapped() (bool, error) {
	_, ok, err := m.get(bootstrappedKey())
	return ok, err
}

// MarkBootstrapped records that genesis parameters were written.
func (m *Manager) MarkBootstrapped() error {
	m.put(bootstrappedKey(), []byte{1})
	return nil
}
