package exchange

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	coreerrors "weidex/core/errors"
	"weidex/core/events"
	nativecommon "weidex/native/common"
	"weidex/native/orders"
)

// CancelSingleOrder marks o as cancelled. Only the maker may cancel, and the
// signature must recover to the maker. Cancelling twice is allowed.
func (e *Engine) CancelSingleOrder(caller common.Address, o *orders.Order, sig []byte) (common.Hash, error) {
	if err := e.ready(); err != nil {
		return common.Hash{}, err
	}
	if err := nativecommon.Guard(e.state, nativecommon.MethodCancelSingleOrder); err != nil {
		return common.Hash{}, err
	}
	return e.cancel(caller, o, sig)
}

// CancelMultipleOrders cancels every order in turn. A failure on any order
// fails the whole call.
func (e *Engine) CancelMultipleOrders(caller common.Address, list []*orders.Order, sigs [][]byte) ([]common.Hash, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.state, nativecommon.MethodCancelMultipleOrders); err != nil {
		return nil, err
	}
	if err := nativecommon.CheckBatch(e.quota, len(list), len(sigs)); err != nil {
		return nil, err
	}
	hashes := make([]common.Hash, len(list))
	for i := range list {
		hash, err := e.cancel(caller, list[i], sigs[i])
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		hashes[i] = hash
	}
	return hashes, nil
}

func (e *Engine) cancel(caller common.Address, o *orders.Order, sig []byte) (common.Hash, error) {
	hash, err := orders.PrefixedHash(o)
	if err != nil {
		return common.Hash{}, err
	}
	if caller != o.MakerAddress {
		return common.Hash{}, fmt.Errorf("%w: %s is not the maker", coreerrors.ErrInvalidSigner, caller.Hex())
	}
	if err := e.recover(o, hash, sig); err != nil {
		return common.Hash{}, err
	}
	if err := e.state.SetOrderCancelled(hash); err != nil {
		return common.Hash{}, err
	}
	e.emit(events.Cancel{
		MakerSellToken: o.MakerSellToken,
		MakerBuyToken:  o.MakerBuyToken,
		Maker:          o.MakerAddress,
		OrderHash:      hash,
	})
	return hash, nil
}
