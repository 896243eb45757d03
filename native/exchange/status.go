package exchange

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Status is the derived state of an order. It is recomputed on every call
// from balances, height and the persisted fill and cancel flags.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusInvalidTakerBalance
	StatusInvalidMakerBalance
	StatusFillable
	StatusExpired
	StatusFullyFilled
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusInvalidTakerBalance:
		return "INVALID_TAKER_BALANCE"
	case StatusInvalidMakerBalance:
		return "INVALID_MAKER_BALANCE"
	case StatusFillable:
		return "FILLABLE"
	case StatusExpired:
		return "EXPIRED"
	case StatusFullyFilled:
		return "FULLY_FILLED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// tradable reports whether a trade may proceed past the status check. Fully
// filled orders pass here and are rejected by the fill bound instead.
func (s Status) tradable() bool {
	return s == StatusFillable || s == StatusFullyFilled
}

// OrderInfo is the query view of an order.
type OrderInfo struct {
	Hash   common.Hash `json:"hash"`
	Status Status      `json:"status"`
	Filled *big.Int    `json:"filled"`
}

// statusInputs gathers everything the status function looks at.
type statusInputs struct {
	height          uint64
	expiry          uint64
	makerBuyAmount  *big.Int
	takerSellAmount *big.Int
	takerReceived   *big.Int
	takerBalance    *big.Int
	makerBalance    *big.Int
	filled          *big.Int
	cancelled       bool
}

// deriveStatus evaluates the order state machine. The first matching rule
// wins: taker balance, maker balance, expiry, cancellation, fill.
func deriveStatus(in statusInputs) Status {
	if in.makerBuyAmount == nil || in.makerBuyAmount.Sign() == 0 {
		return StatusUnknown
	}
	if in.takerBalance.Cmp(in.takerSellAmount) < 0 {
		return StatusInvalidTakerBalance
	}
	if in.makerBalance.Cmp(in.takerReceived) < 0 {
		return StatusInvalidMakerBalance
	}
	if in.height > in.expiry {
		return StatusExpired
	}
	if in.cancelled {
		return StatusCancelled
	}
	if in.filled.Cmp(in.makerBuyAmount) >= 0 {
		return StatusFullyFilled
	}
	return StatusFillable
}
