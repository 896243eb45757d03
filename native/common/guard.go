package common

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	coreerrors "weidex/core/errors"
)

// Method names accepted by the method switch.
const (
	MethodDeposit              = "deposit"
	MethodWithdraw             = "withdraw"
	MethodTransfer             = "transfer"
	MethodTrade                = "trade"
	MethodCancelSingleOrder    = "cancelSingleOrder"
	MethodCancelMultipleOrders = "cancelMultipleOrders"
	MethodTakeAllOrRevert      = "takeAllOrRevert"
	MethodTakeAllPossible      = "takeAllPossible"
	MethodRegisterCrowdsale    = "registerCrowdsale"
	MethodBuyTokens            = "buyTokens"
	MethodBurnTokens           = "burnTokensWhenFinished"
)

// SwitchableMethods lists every entry point the owner can disable. Governance
// setters are never switchable.
var SwitchableMethods = []string{
	MethodDeposit,
	MethodWithdraw,
	MethodTransfer,
	MethodTrade,
	MethodCancelSingleOrder,
	MethodCancelMultipleOrders,
	MethodTakeAllOrRevert,
	MethodTakeAllPossible,
	MethodRegisterCrowdsale,
	MethodBuyTokens,
	MethodBurnTokens,
}

// Selector identifies a method in the method switch: the first four bytes of
// keccak256(method name).
type Selector [4]byte

// SelectorOf derives the selector of a method name.
func SelectorOf(method string) Selector {
	var sel Selector
	copy(sel[:], crypto.Keccak256([]byte(method)))
	return sel
}

// IsSwitchable reports whether method is subject to the method switch.
func IsSwitchable(method string) bool {
	for _, candidate := range SwitchableMethods {
		if candidate == method {
			return true
		}
	}
	return false
}

// MethodView exposes the persisted method switch.
type MethodView interface {
	MethodEnabled(sel Selector) (bool, error)
}

// Guard fails closed with METHOD_DISABLED when the owner switched method off.
func Guard(view MethodView, method string) error {
	if view == nil || method == "" {
		return nil
	}
	enabled, err := view.MethodEnabled(SelectorOf(method))
	if err != nil {
		return err
	}
	if !enabled {
		return fmt.Errorf("%w: %s", coreerrors.ErrMethodDisabled, method)
	}
	return nil
}
