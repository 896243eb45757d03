package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"weidex/core/types"
	nativecommon "weidex/native/common"
	"weidex/native/crowdsale"
	"weidex/native/exchange"
	"weidex/native/orders"
	"weidex/observability"
)

// Deposit credits amount of asset to beneficiary's exchange balance.
func (p *Processor) Deposit(call types.Call, asset common.Address, amount *big.Int, beneficiary, referrer common.Address) error {
	return p.run(nativecommon.MethodDeposit, call, func() error {
		return p.ledger.Deposit(call.Sender, call.AttachedValue(), asset, amount, beneficiary, referrer)
	})
}

// Withdraw pays amount of asset out of the sender's exchange balance.
func (p *Processor) Withdraw(call types.Call, asset common.Address, amount *big.Int) error {
	return p.run(nativecommon.MethodWithdraw, call, func() error {
		return p.ledger.Withdraw(call.Sender, asset, amount)
	})
}

// Transfer moves amount of asset between exchange balances.
func (p *Processor) Transfer(call types.Call, asset, beneficiary common.Address, amount *big.Int) error {
	return p.run(nativecommon.MethodTransfer, call, func() error {
		return p.ledger.Transfer(call.Sender, asset, beneficiary, amount)
	})
}

// Trade fills o for the sender.
func (p *Processor) Trade(call types.Call, o *orders.Order, sig []byte) (*exchange.Settlement, error) {
	var settlement *exchange.Settlement
	err := p.run(nativecommon.MethodTrade, call, func() error {
		var err error
		settlement, err = p.exchange.Trade(call.Sender, o, sig)
		return err
	})
	if err != nil {
		return nil, err
	}
	return settlement, nil
}

// CancelSingleOrder cancels one of the sender's orders.
func (p *Processor) CancelSingleOrder(call types.Call, o *orders.Order, sig []byte) (common.Hash, error) {
	var hash common.Hash
	err := p.run(nativecommon.MethodCancelSingleOrder, call, func() error {
		var err error
		hash, err = p.exchange.CancelSingleOrder(call.Sender, o, sig)
		return err
	})
	return hash, err
}

// CancelMultipleOrders cancels a batch of the sender's orders atomically.
func (p *Processor) CancelMultipleOrders(call types.Call, list []*orders.Order, sigs [][]byte) ([]common.Hash, error) {
	var hashes []common.Hash
	err := p.run(nativecommon.MethodCancelMultipleOrders, call, func() error {
		var err error
		hashes, err = p.exchange.CancelMultipleOrders(call.Sender, list, sigs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hashes, nil
}

// TakeAllOrRevert fills every order or none of them.
func (p *Processor) TakeAllOrRevert(call types.Call, list []*orders.Order, sigs [][]byte) ([]*exchange.Settlement, error) {
	var settlements []*exchange.Settlement
	err := p.run(nativecommon.MethodTakeAllOrRevert, call, func() error {
		var err error
		settlements, err = p.exchange.TakeAllOrRevert(call.Sender, list, sigs)
		return err
	})
	if err != nil {
		return nil, err
	}
	for range settlements {
		observability.ExchangeMetrics().RecordBatchItem(nativecommon.MethodTakeAllOrRevert, true)
	}
	return settlements, nil
}

// TakeAllPossible fills what it can and reports the skipped orders.
func (p *Processor) TakeAllPossible(call types.Call, list []*orders.Order, sigs [][]byte) ([]exchange.Outcome, error) {
	var outcomes []exchange.Outcome
	err := p.run(nativecommon.MethodTakeAllPossible, call, func() error {
		var err error
		outcomes, err = p.exchange.TakeAllPossible(call.Sender, list, sigs)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, outcome := range outcomes {
		observability.ExchangeMetrics().RecordBatchItem(nativecommon.MethodTakeAllPossible, outcome.Filled())
	}
	return outcomes, nil
}

// RegisterCrowdsale opens a token sale for asset.
func (p *Processor) RegisterCrowdsale(call types.Call, asset common.Address, record *crowdsale.Crowdsale) error {
	return p.run(nativecommon.MethodRegisterCrowdsale, call, func() error {
		return p.crowdsale.Register(call.Sender, asset, record)
	})
}

// BuyTokens spends the attached value on the sale of asset and returns the
// purchased amount.
func (p *Processor) BuyTokens(call types.Call, asset common.Address) (*big.Int, error) {
	var tokens *big.Int
	err := p.run(nativecommon.MethodBuyTokens, call, func() error {
		var err error
		tokens, err = p.crowdsale.BuyTokens(call.Sender, call.AttachedValue(), asset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// BurnTokensWhenFinished burns the unsold supply of a finished sale.
func (p *Processor) BurnTokensWhenFinished(call types.Call, asset common.Address) (*big.Int, error) {
	var burned *big.Int
	err := p.run(nativecommon.MethodBurnTokens, call, func() error {
		var err error
		burned, err = p.crowdsale.BurnTokensWhenFinished(call.Sender, asset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return burned, nil
}

// SetMakerFeeRate updates the maker fee rate. Owner only.
func (p *Processor) SetMakerFeeRate(call types.Call, rate *big.Int) error {
	return p.run(methodSetMakerFeeRate, call, func() error {
		return p.governance.SetMakerFeeRate(call.Sender, rate)
	})
}

// SetTakerFeeRate updates the taker fee rate. Owner only.
func (p *Processor) SetTakerFeeRate(call types.Call, rate *big.Int) error {
	return p.run(methodSetTakerFeeRate, call, func() error {
		return p.governance.SetTakerFeeRate(call.Sender, rate)
	})
}

// SetReferralFeeRate updates the referrer share of taker fees. Owner only.
func (p *Processor) SetReferralFeeRate(call types.Call, rate *big.Int) error {
	return p.run(methodSetReferralFeeRate, call, func() error {
		return p.governance.SetReferralFeeRate(call.Sender, rate)
	})
}

// SetFeeAccount changes the account collecting fees. Owner only.
func (p *Processor) SetFeeAccount(call types.Call, account common.Address) error {
	return p.run(methodSetFeeAccount, call, func() error {
		return p.governance.SetFeeAccount(call.Sender, account)
	})
}

// TransferOwnership hands governance to owner. Owner only.
func (p *Processor) TransferOwnership(call types.Call, owner common.Address) error {
	return p.run(methodTransferOwnership, call, func() error {
		return p.governance.TransferOwnership(call.Sender, owner)
	})
}

// AllowOrRestrictMethod enables or disables a named entry point. Owner only.
func (p *Processor) AllowOrRestrictMethod(call types.Call, method string, enabled bool) error {
	return p.run(methodAllowOrRestrictMethod, call, func() error {
		return p.governance.AllowOrRestrictMethod(call.Sender, method, enabled)
	})
}

// Mint credits wallet balances outside the exchange. It stands in for token
// issuance and has no access control.
func (p *Processor) Mint(asset, holder common.Address, amount *big.Int) error {
	return p.run(methodMint, types.Call{}, func() error {
		return p.book.Mint(asset, holder, amount)
	})
}

// Approve lets spender pull amount of asset from the sender's wallet.
func (p *Processor) Approve(call types.Call, asset, spender common.Address, amount *big.Int) error {
	return p.run(methodApprove, call, func() error {
		return p.book.Approve(asset, call.Sender, spender, amount)
	})
}
