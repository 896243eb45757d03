package state

import (
	"fmt"

	"github.com/holiman/uint256"
)

func (m *Manager) loadAmount(key []byte) (*uint256.Int, error) {
	raw, ok, err := m.get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return new(uint256.Int), nil
	}
	if len(raw) > 32 {
		return nil, fmt.Errorf("state: corrupt amount encoding (%d bytes)", len(raw))
	}
	return new(uint256.Int).SetBytes(raw), nil
}

// storeAmount removes the key for zero so empty entries never linger in the
// database.
func (m *Manager) storeAmount(key []byte, amount *uint256.Int) {
	if amount == nil || amount.IsZero() {
		m.del(key)
		return
	}
	m.put(key, amount.Bytes())
}
