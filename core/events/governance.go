package events

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"weidex/core/types"
)

const (
	TypeFeeRateUpdated       = "governance.feeRate"
	TypeFeeAccountUpdated    = "governance.feeAccount"
	TypeMethodSwitched       = "governance.method"
	TypeOwnershipTransferred = "governance.owner"
)

// FeeRateUpdated reports a governance change to one of the fee rates. Kind
// is maker, taker or referral.
type FeeRateUpdated struct {
	Kind     string
	Previous *big.Int
	Rate     *big.Int
}

func (FeeRateUpdated) EventType() string { return TypeFeeRateUpdated }

func (e FeeRateUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeFeeRateUpdated,
		Attributes: map[string]string{
			"kind":     e.Kind,
			"previous": formatAmount(e.Previous),
			"rate":     formatAmount(e.Rate),
		},
	}
}

type FeeAccountUpdated struct {
	Previous common.Address
	Account  common.Address
}

func (FeeAccountUpdated) EventType() string { return TypeFeeAccountUpdated }

func (e FeeAccountUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeFeeAccountUpdated,
		Attributes: map[string]string{
			"previous": formatAddress(e.Previous),
			"account":  formatAddress(e.Account),
		},
	}
}

type MethodSwitched struct {
	Method   string
	Selector [4]byte
	Enabled  bool
}

func (MethodSwitched) EventType() string { return TypeMethodSwitched }

func (e MethodSwitched) Event() *types.Event {
	return &types.Event{
		Type: TypeMethodSwitched,
		Attributes: map[string]string{
			"method":   e.Method,
			"selector": common.Bytes2Hex(e.Selector[:]),
			"enabled":  strconv.FormatBool(e.Enabled),
		},
	}
}

type OwnershipTransferred struct {
	Previous common.Address
	Owner    common.Address
}

func (OwnershipTransferred) EventType() string { return TypeOwnershipTransferred }

func (e OwnershipTransferred) Event() *types.Event {
	return &types.Event{
		Type: TypeOwnershipTransferred,
		Attributes: map[string]string{
			"previous": formatAddress(e.Previous),
			"owner":    formatAddress(e.Owner),
		},
	}
}
