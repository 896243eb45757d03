package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	nativecommon "weidex/native/common"
	"weidex/native/fees"
)

// Owner returns the governing identity. The zero address is returned before
// genesis seeded one.
func (m *Manager) Owner() (common.Address, error) {
	raw, ok, err := m.get(ownerKey())
	if err != nil || !ok {
		return common.Address{}, err
	}
	if len(raw) != common.AddressLength {
		return common.Address{}, fmt.Errorf("state: corrupt owner record")
	}
	return common.BytesToAddress(raw), nil
}

// SetOwner replaces the governing identity.
func (m *Manager) SetOwner(owner common.Address) error {
	m.put(ownerKey(), owner.Bytes())
	return nil
}

// FeeRates returns the persisted fee schedule. All rates are zero until
// governance sets them.
func (m *Manager) FeeRates() (fees.Schedule, error) {
	raw, ok, err := m.get(feeRatesKey())
	if err != nil {
		return fees.Schedule{}, err
	}
	if !ok {
		return fees.Schedule{}.Clone(), nil
	}
	return fees.DecodeSchedule(raw)
}

// SetFeeRates persists the fee schedule.
func (m *Manager) SetFeeRates(schedule fees.Schedule) error {
	encoded, err := fees.EncodeSchedule(schedule)
	if err != nil {
		return err
	}
	m.put(feeRatesKey(), encoded)
	return nil
}

// MethodEnabled reports whether the method switch allows sel. Methods are
// enabled unless explicitly disabled.
func (m *Manager) MethodEnabled(sel nativecommon.Selector) (bool, error) {
	_, disabled, err := m.get(methodKey(sel))
	if err != nil {
		return false, err
	}
	return !disabled, nil
}

// SetMethodEnabled records the switch position for sel.
func (m *Manager) SetMethodEnabled(sel nativecommon.Selector, enabled bool) error {
	if enabled {
		m.del(methodKey(sel))
		return nil
	}
	m.put(methodKey(sel), []byte{0})
	return nil
}
