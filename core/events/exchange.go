package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"weidex/core/types"
)

const (
	// TypeTrade is emitted for every settled fill.
	TypeTrade = "exchange.trade"
	// TypeCancel is emitted for every cancelled order.
	TypeCancel = "exchange.cancel"
)

// Trade reports a settled fill. MakerFilledAmount is the maker-buy amount the
// taker paid toward the order; TakerFilledAmount is the maker-sell amount
// delivered to the taker.
type Trade struct {
	Maker               common.Address
	Taker               common.Address
	OrderHash           common.Hash
	MakerFilledAmount   *big.Int
	TakerFilledAmount   *big.Int
	TakerFeePaid        *big.Int
	MakerFeeReceived    *big.Int
	ReferralFeeReceived *big.Int
}

func (Trade) EventType() string { return TypeTrade }

func (e Trade) Event() *types.Event {
	return &types.Event{
		Type: TypeTrade,
		Attributes: map[string]string{
			"maker":               formatAddress(e.Maker),
			"taker":               formatAddress(e.Taker),
			"orderHash":           formatHash(e.OrderHash),
			"makerFilledAmount":   formatAmount(e.MakerFilledAmount),
			"takerFilledAmount":   formatAmount(e.TakerFilledAmount),
			"takerFeePaid":        formatAmount(e.TakerFeePaid),
			"makerFeeReceived":    formatAmount(e.MakerFeeReceived),
			"referralFeeReceived": formatAmount(e.ReferralFeeReceived),
		},
	}
}

type Cancel struct {
	MakerSellToken common.Address
	MakerBuyToken  common.Address
	Maker          common.Address
	OrderHash      common.Hash
}

func (Cancel) EventType() string { return TypeCancel }

func (e Cancel) Event() *types.Event {
	return &types.Event{
		Type: TypeCancel,
		Attributes: map[string]string{
			"makerSellToken": formatAddress(e.MakerSellToken),
			"makerBuyToken":  formatAddress(e.MakerBuyToken),
			"maker":          formatAddress(e.Maker),
			"orderHash":      formatHash(e.OrderHash),
		},
	}
}
