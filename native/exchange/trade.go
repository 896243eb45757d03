package exchange

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	coreerrors "weidex/core/errors"
	"weidex/core/events"
	nativecommon "weidex/native/common"
	"weidex/native/fees"
	"weidex/native/orders"
)

// Settlement describes the legs applied by one successful trade.
type Settlement struct {
	OrderHash   common.Hash    `json:"orderHash"`
	Maker       common.Address `json:"maker"`
	Taker       common.Address `json:"taker"`
	MakerFilled *big.Int       `json:"makerFilledAmount"`
	TakerFilled *big.Int       `json:"takerFilledAmount"`
	TakerFee    *big.Int       `json:"takerFeePaid"`
	MakerFee    *big.Int       `json:"makerFeeReceived"`
	ReferralFee *big.Int       `json:"referralFeeReceived"`
}

// Trade fills TakerSellAmount of o for taker. Either every leg settles or the
// call fails; the enclosing runtime rolls back partial writes.
func (e *Engine) Trade(taker common.Address, o *orders.Order, sig []byte) (*Settlement, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.state, nativecommon.MethodTrade); err != nil {
		return nil, err
	}
	return e.settle(taker, o, sig)
}

// settle is the single-order primitive shared by Trade and both batch modes.
func (e *Engine) settle(taker common.Address, o *orders.Order, sig []byte) (*Settlement, error) {
	eval, err := e.evaluate(taker, o)
	if err != nil {
		return nil, err
	}
	if !eval.status.tradable() {
		return nil, fmt.Errorf("%w: order %s is %s", coreerrors.ErrInvalidOrder, eval.hash.Hex(), eval.status)
	}

	takerSell := amountOf(o.TakerSellAmount)
	if takerSell.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero taker sell amount", coreerrors.ErrInvalidTrade)
	}
	nextFilled := new(big.Int).Add(eval.filled, takerSell)
	if nextFilled.Cmp(o.MakerBuyAmount) > 0 {
		return nil, fmt.Errorf("%w: fill %s exceeds maker buy amount %s", coreerrors.ErrInvalidTrade, nextFilled, o.MakerBuyAmount)
	}
	if eval.takerReceived.Sign() == 0 {
		return nil, fmt.Errorf("%w: trade delivers nothing to the taker", coreerrors.ErrInvalidTrade)
	}
	if o.TakerAddress != (common.Address{}) && o.TakerAddress != taker {
		return nil, fmt.Errorf("%w: order restricted to %s", coreerrors.ErrInvalidTrade, o.TakerAddress.Hex())
	}
	if err := e.recover(o, eval.hash, sig); err != nil {
		return nil, err
	}

	schedule, err := e.state.FeeRates()
	if err != nil {
		return nil, err
	}
	makerLeg := fees.Deduct(takerSell, schedule.MakerFeeRate)
	takerLeg := fees.Deduct(eval.takerReceived, schedule.TakerFeeRate)
	referralFee := big.NewInt(0)
	accountTakerFee := takerLeg.Fee
	referrer, linked, err := e.ledger.Referral(taker)
	if err != nil {
		return nil, err
	}
	if linked && referrer != (common.Address{}) {
		referralFee, accountTakerFee = fees.SplitReferral(takerLeg.Fee, schedule.ReferralFeeRate)
	}

	// Maker-sell side.
	if err := e.ledger.Debit(o.MakerAddress, o.MakerSellToken, eval.takerReceived); err != nil {
		return nil, err
	}
	if err := e.ledger.Credit(taker, o.MakerSellToken, takerLeg.Net); err != nil {
		return nil, err
	}
	if referralFee.Sign() > 0 {
		if err := e.ledger.Credit(referrer, o.MakerSellToken, referralFee); err != nil {
			return nil, err
		}
	}
	if err := e.ledger.Credit(schedule.FeeAccount, o.MakerSellToken, accountTakerFee); err != nil {
		return nil, err
	}
	// Maker-buy side.
	if err := e.ledger.Debit(taker, o.MakerBuyToken, takerSell); err != nil {
		return nil, err
	}
	if err := e.ledger.Credit(o.MakerAddress, o.MakerBuyToken, makerLeg.Net); err != nil {
		return nil, err
	}
	if err := e.ledger.Credit(schedule.FeeAccount, o.MakerBuyToken, makerLeg.Fee); err != nil {
		return nil, err
	}

	filled, err := nativecommon.ToUint256(nextFilled)
	if err != nil {
		return nil, err
	}
	if err := e.state.SetOrderFill(eval.hash, filled); err != nil {
		return nil, err
	}

	settlement := &Settlement{
		OrderHash:   eval.hash,
		Maker:       o.MakerAddress,
		Taker:       taker,
		MakerFilled: new(big.Int).Set(takerSell),
		TakerFilled: new(big.Int).Set(eval.takerReceived),
		TakerFee:    takerLeg.Fee,
		MakerFee:    makerLeg.Fee,
		ReferralFee: referralFee,
	}
	e.emit(events.Trade{
		Maker:               settlement.Maker,
		Taker:               settlement.Taker,
		OrderHash:           settlement.OrderHash,
		MakerFilledAmount:   settlement.MakerFilled,
		TakerFilledAmount:   settlement.TakerFilled,
		TakerFeePaid:        settlement.TakerFee,
		MakerFeeReceived:    settlement.MakerFee,
		ReferralFeeReceived: settlement.ReferralFee,
	})
	return settlement, nil
}
