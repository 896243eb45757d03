package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Balance returns the exchange balance of user for asset. Unknown entries are
// zero.
func (m *Manager) Balance(user, asset common.Address) (*uint256.Int, error) {
	return m.loadAmount(balanceKey(user, asset))
}

// SetBalance overwrites the exchange balance of user for asset.
func (m *Manager) SetBalance(user, asset common.Address, amount *uint256.Int) error {
	m.storeAmount(balanceKey(user, asset), amount)
	return nil
}

// Referral returns the referrer recorded for user. The boolean is false when
// no referral has been linked yet; a linked zero address is reported as set.
func (m *Manager) Referral(user common.Address) (common.Address, bool, error) {
	raw, ok, err := m.get(referralKey(user))
	if err != nil || !ok {
		return common.Address{}, false, err
	}
	if len(raw) != common.AddressLength {
		return common.Address{}, false, fmt.Errorf("state: corrupt referral for %s", user.Hex())
	}
	return common.BytesToAddress(raw), true, nil
}

// SetReferral links user to referrer.
func (m *Manager) SetReferral(user, referrer common.Address) error {
	m.put(referralKey(user), referrer.Bytes())
	return nil
}
