package exchange

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"weidex/native/orders"
)

// OrderInfo returns the hash, derived status and fill of o as seen by taker.
func (e *Engine) OrderInfo(taker common.Address, o *orders.Order) (OrderInfo, error) {
	if err := e.ready(); err != nil {
		return OrderInfo{}, err
	}
	eval, err := e.evaluate(taker, o)
	if err != nil {
		return OrderInfo{}, err
	}
	return OrderInfo{Hash: eval.hash, Status: eval.status, Filled: eval.filled}, nil
}

// OrdersInfo is the batched form of OrderInfo.
func (e *Engine) OrdersInfo(taker common.Address, list []*orders.Order) ([]OrderInfo, error) {
	out := make([]OrderInfo, len(list))
	for i, o := range list {
		info, err := e.OrderInfo(taker, o)
		if err != nil {
			return nil, err
		}
		out[i] = info
	}
	return out, nil
}

// Fill returns the cumulative fill recorded for a prefixed order hash.
func (e *Engine) Fill(hash common.Hash) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	filled, err := e.state.OrderFill(hash)
	if err != nil {
		return nil, err
	}
	return filled.ToBig(), nil
}

// Fills is the batched form of Fill.
func (e *Engine) Fills(hashes []common.Hash) ([]*big.Int, error) {
	out := make([]*big.Int, len(hashes))
	for i, hash := range hashes {
		filled, err := e.Fill(hash)
		if err != nil {
			return nil, err
		}
		out[i] = filled
	}
	return out, nil
}

// Cancelled reports whether a prefixed order hash was cancelled.
func (e *Engine) Cancelled(hash common.Hash) (bool, error) {
	if err := e.ready(); err != nil {
		return false, err
	}
	return e.state.OrderCancelled(hash)
}

// Cancels is the batched form of Cancelled.
func (e *Engine) Cancels(hashes []common.Hash) ([]bool, error) {
	out := make([]bool, len(hashes))
	for i, hash := range hashes {
		cancelled, err := e.Cancelled(hash)
		if err != nil {
			return nil, err
		}
		out[i] = cancelled
	}
	return out, nil
}
