package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"weidex/native/crowdsale"
	"weidex/native/exchange"
	"weidex/native/fees"
	"weidex/native/orders"
)

// Balance returns the exchange balance of user in asset.
func (p *Processor) Balance(user, asset common.Address) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledger.Balance(user, asset)
}

// Balances returns the exchange balances of user for each asset.
func (p *Processor) Balances(user common.Address, assets []common.Address) ([]*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledger.Balances(user, assets)
}

// Referral returns the referrer linked to user and whether a link exists.
func (p *Processor) Referral(user common.Address) (common.Address, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledger.Referral(user)
}

// WalletBalance returns the balance of holder outside the exchange.
func (p *Processor) WalletBalance(asset, holder common.Address) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.book.BalanceOf(asset, holder)
}

// Allowance returns how much spender may pull from owner's wallet.
func (p *Processor) Allowance(asset, owner, spender common.Address) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.book.Allowance(asset, owner, spender)
}

// OrderInfo reports the status of o for taker.
func (p *Processor) OrderInfo(taker common.Address, o *orders.Order) (exchange.OrderInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exchange.OrderInfo(taker, o)
}

func (p *Processor) OrdersInfo(taker common.Address, list []*orders.Order) ([]exchange.OrderInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exchange.OrdersInfo(taker, list)
}

// Fill returns the cumulative taker amount filled against hash.
func (p *Processor) Fill(hash common.Hash) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exchange.Fill(hash)
}

func (p *Processor) Fills(hashes []common.Hash) ([]*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exchange.Fills(hashes)
}

// Cancelled reports whether hash was cancelled.
func (p *Processor) Cancelled(hash common.Hash) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exchange.Cancelled(hash)
}

func (p *Processor) Cancels(hashes []common.Hash) ([]bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exchange.Cancels(hashes)
}

// Crowdsale returns the sale registered for asset, or nil.
func (p *Processor) Crowdsale(asset common.Address) (*crowdsale.Crowdsale, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.crowdsale.Crowdsale(asset)
}

func (p *Processor) Contribution(asset, user common.Address) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.crowdsale.Contribution(asset, user)
}

func (p *Processor) ContributionStatus(asset, user common.Address, amount *big.Int) (crowdsale.ContributionStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.crowdsale.ContributionStatus(asset, user, amount)
}

func (p *Processor) RegistrationStatus(record *crowdsale.Crowdsale) (crowdsale.RegistrationStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.crowdsale.RegistrationStatus(record)
}

// FeeRates returns the current fee schedule.
func (p *Processor) FeeRates() (fees.Schedule, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.governance.FeeRates()
}

func (p *Processor) Owner() (common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.governance.Owner()
}

func (p *Processor) MethodEnabled(method string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.governance.MethodEnabled(method)
}
