package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"weidex/core/types"
)

const (
	// TypeDeposit is emitted when an asset is credited into the exchange.
	TypeDeposit = "ledger.deposit"
	// TypeWithdraw is emitted when an asset leaves the exchange.
	TypeWithdraw = "ledger.withdraw"
	// TypeTransfer is emitted for internal balance moves.
	TypeTransfer = "ledger.transfer"
)

// Deposit reports a credit of amount to beneficiary funded by user. Referral
// is the beneficiary's referrer after the deposit.
type Deposit struct {
	Asset       common.Address
	User        common.Address
	Referral    common.Address
	Beneficiary common.Address
	Amount      *big.Int
	Balance     *big.Int
}

func (Deposit) EventType() string { return TypeDeposit }

func (e Deposit) Event() *types.Event {
	return &types.Event{
		Type: TypeDeposit,
		Attributes: map[string]string{
			"asset":       formatAddress(e.Asset),
			"user":        formatAddress(e.User),
			"referral":    formatAddress(e.Referral),
			"beneficiary": formatAddress(e.Beneficiary),
			"amount":      formatAmount(e.Amount),
			"balance":     formatAmount(e.Balance),
		},
	}
}

type Withdraw struct {
	Asset   common.Address
	User    common.Address
	Amount  *big.Int
	Balance *big.Int
}

func (Withdraw) EventType() string { return TypeWithdraw }

func (e Withdraw) Event() *types.Event {
	return &types.Event{
		Type: TypeWithdraw,
		Attributes: map[string]string{
			"asset":   formatAddress(e.Asset),
			"user":    formatAddress(e.User),
			"amount":  formatAmount(e.Amount),
			"balance": formatAmount(e.Balance),
		},
	}
}

type Transfer struct {
	Asset              common.Address
	User               common.Address
	Beneficiary        common.Address
	Amount             *big.Int
	UserBalance        *big.Int
	BeneficiaryBalance *big.Int
}

func (Transfer) EventType() string { return TypeTransfer }

func (e Transfer) Event() *types.Event {
	return &types.Event{
		Type: TypeTransfer,
		Attributes: map[string]string{
			"asset":              formatAddress(e.Asset),
			"user":               formatAddress(e.User),
			"beneficiary":        formatAddress(e.Beneficiary),
			"amount":             formatAmount(e.Amount),
			"userBalance":        formatAmount(e.UserBalance),
			"beneficiaryBalance": formatAmount(e.BeneficiaryBalance),
		},
	}
}
