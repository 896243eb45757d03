package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// OrderFill returns the cumulative taker-sell amount consumed from the order
// identified by its prefixed hash.
func (m *Manager) OrderFill(hash common.Hash) (*uint256.Int, error) {
	return m.loadAmount(orderFillKey(hash))
}

// SetOrderFill stores the cumulative fill of an order.
func (m *Manager) SetOrderFill(hash common.Hash, filled *uint256.Int) error {
	m.storeAmount(orderFillKey(hash), filled)
	return nil
}

// OrderCancelled reports whether the order has been cancelled by its maker.
func (m *Manager) OrderCancelled(hash common.Hash) (bool, error) {
	_, ok, err := m.get(orderCancelKey(hash))
	return ok, err
}

// SetOrderCancelled marks the order as cancelled. Cancellation is one way.
func (m *Manager) SetOrderCancelled(hash common.Hash) error {
	m.put(orderCancelKey(hash), []byte{1})
	return nil
}
