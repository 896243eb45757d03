package token

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	coreerrors "weidex/core/errors"
	nativecommon "weidex/native/common"
)

// Contract is the fungible-token collaborator for a single asset. A false
// result means the token refused the movement; errors are reserved for
// state failures.
type Contract struct {
	book  *Book
	asset common.Address
}

// Asset returns the token identifier.
func (c *Contract) Asset() common.Address { return c.asset }

// BalanceOf returns the token balance of holder.
func (c *Contract) BalanceOf(holder common.Address) (*big.Int, error) {
	return c.book.BalanceOf(c.asset, holder)
}

// TransferFrom moves amount from one holder to another on behalf of spender,
// consuming spender's allowance.
func (c *Contract) TransferFrom(spender, from, to common.Address, amount *big.Int) (bool, error) {
	if err := c.book.ready(); err != nil {
		return false, err
	}
	value, err := nativecommon.ToUint256(amount)
	if err != nil {
		return false, nil
	}
	allowance, err := c.book.state.Allowance(c.asset, from, spender)
	if err != nil {
		return false, err
	}
	if allowance.Lt(value) {
		return false, nil
	}
	ok, err := c.book.move(c.asset, from, to, value)
	if err != nil || !ok {
		return false, err
	}
	if err := c.book.state.SetAllowance(c.asset, from, spender, new(uint256.Int).Sub(allowance, value)); err != nil {
		return false, err
	}
	return true, nil
}

// Transfer moves amount from one holder to another.
func (c *Contract) Transfer(from, to common.Address, amount *big.Int) (bool, error) {
	if err := c.book.ready(); err != nil {
		return false, err
	}
	value, err := nativecommon.ToUint256(amount)
	if err != nil {
		return false, nil
	}
	return c.book.move(c.asset, from, to, value)
}

// Native is the native-currency transfer primitive. A failed send fails the
// enclosing call.
type Native struct {
	book *Book
}

// BalanceOf returns the native balance of holder.
func (n *Native) BalanceOf(holder common.Address) (*big.Int, error) {
	return n.book.BalanceOf(NativeAsset, holder)
}

// Send moves amount of native currency between holders.
func (n *Native) Send(from, to common.Address, amount *big.Int) error {
	if err := n.book.ready(); err != nil {
		return err
	}
	value, err := nativecommon.ToUint256(amount)
	if err != nil {
		return err
	}
	ok, err := n.book.move(NativeAsset, from, to, value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: native send of %s from %s", coreerrors.ErrTransferFailed, value.Dec(), from.Hex())
	}
	return nil
}
