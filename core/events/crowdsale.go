package events

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"weidex/core/types"
)

const (
	TypeCrowdsaleRegistered = "crowdsale.registered"
	TypeTokenPurchase       = "crowdsale.purchase"
	TypeTokenBurned         = "crowdsale.burned"
)

type CrowdsaleRegistered struct {
	Asset      common.Address
	Wallet     common.Address
	StartBlock uint64
	EndBlock   uint64
	HardCap    *big.Int
	TokenRatio *big.Int
	LeftAmount *big.Int
}

func (CrowdsaleRegistered) EventType() string { return TypeCrowdsaleRegistered }

func (e CrowdsaleRegistered) Event() *types.Event {
	return &types.Event{
		Type: TypeCrowdsaleRegistered,
		Attributes: map[string]string{
			"asset":      formatAddress(e.Asset),
			"wallet":     formatAddress(e.Wallet),
			"startBlock": strconv.FormatUint(e.StartBlock, 10),
			"endBlock":   strconv.FormatUint(e.EndBlock, 10),
			"hardCap":    formatAmount(e.HardCap),
			"tokenRatio": formatAmount(e.TokenRatio),
			"leftAmount": formatAmount(e.LeftAmount),
		},
	}
}

// TokenPurchase reports a crowdsale contribution of WeiAmount native units
// that bought TokenAmount sale-asset units.
type TokenPurchase struct {
	Asset       common.Address
	User        common.Address
	TokenAmount *big.Int
	WeiAmount   *big.Int
}

func (TokenPurchase) EventType() string { return TypeTokenPurchase }

func (e TokenPurchase) Event() *types.Event {
	return &types.Event{
		Type: TypeTokenPurchase,
		Attributes: map[string]string{
			"asset":       formatAddress(e.Asset),
			"user":        formatAddress(e.User),
			"tokenAmount": formatAmount(e.TokenAmount),
			"weiAmount":   formatAmount(e.WeiAmount),
		},
	}
}

type TokenBurned struct {
	Asset       common.Address
	TokenAmount *big.Int
}

func (TokenBurned) EventType() string { return TypeTokenBurned }

func (e TokenBurned) Event() *types.Event {
	return &types.Event{
		Type: TypeTokenBurned,
		Attributes: map[string]string{
			"asset":       formatAddress(e.Asset),
			"tokenAmount": formatAmount(e.TokenAmount),
		},
	}
}
