package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// TokenBalance returns the balance holder keeps in the asset contract itself,
// outside the exchange ledger.
func (m *Manager) TokenBalance(asset, holder common.Address) (*uint256.Int, error) {
	return m.loadAmount(tokenBalanceKey(asset, holder))
}

// SetTokenBalance overwrites the asset contract balance of holder.
func (m *Manager) SetTokenBalance(asset, holder common.Address, amount *uint256.Int) error {
	m.storeAmount(tokenBalanceKey(asset, holder), amount)
	return nil
}

// Allowance returns how much spender may pull from owner in the asset
// contract.
func (m *Manager) Allowance(asset, owner, spender common.Address) (*uint256.Int, error) {
	return m.loadAmount(tokenAllowanceKey(asset, owner, spender))
}

// SetAllowance overwrites the allowance of spender over owner's funds.
func (m *Manager) SetAllowance(asset, owner, spender common.Address, amount *uint256.Int) error {
	m.storeAmount(tokenAllowanceKey(asset, owner, spender), amount)
	return nil
}
