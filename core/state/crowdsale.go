package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"weidex/native/crowdsale"
)

// Crowdsale returns the campaign registered for asset, or nil when none
// exists.
func (m *Manager) Crowdsale(asset common.Address) (*crowdsale.Crowdsale, error) {
	raw, ok, err := m.get(crowdsaleKey(asset))
	if err != nil || !ok {
		return nil, err
	}
	return crowdsale.Decode(raw)
}

// PutCrowdsale stores the campaign record for asset.
func (m *Manager) PutCrowdsale(asset common.Address, record *crowdsale.Crowdsale) error {
	encoded, err := record.Encode()
	if err != nil {
		return err
	}
	m.put(crowdsaleKey(asset), encoded)
	return nil
}

// Contribution returns the cumulative native amount user contributed to the
// given campaign of asset.
func (m *Manager) Contribution(asset common.Address, campaign uint64, user common.Address) (*uint256.Int, error) {
	return m.loadAmount(contributionKey(asset, campaign, user))
}

// SetContribution overwrites the cumulative contribution of user to the given
// campaign of asset.
func (m *Manager) SetContribution(asset common.Address, campaign uint64, user common.Address, amount *uint256.Int) error {
	m.storeAmount(contributionKey(asset, campaign, user), amount)
	return nil
}
