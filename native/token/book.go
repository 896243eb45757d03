package token

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	coreerrors "weidex/core/errors"
	nativecommon "weidex/native/common"
)

// NativeAsset is the asset identifier of the native currency.
var NativeAsset = common.Address{}

type bookState interface {
	TokenBalance(asset, holder common.Address) (*uint256.Int, error)
	SetTokenBalance(asset, holder common.Address, amount *uint256.Int) error
	Allowance(asset, owner, spender common.Address) (*uint256.Int, error)
	SetAllowance(asset, owner, spender common.Address, amount *uint256.Int) error
}

// Book keeps the balances and allowances users hold outside the exchange: the
// fungible-token contracts and the native currency. It lives in the same
// state as the ledger so external movements commit or roll back with the
// enclosing call.
type Book struct {
	state bookState
}

// NewBook creates a book with no state attached.
func NewBook() *Book { return &Book{} }

// SetState attaches the state backend.
func (b *Book) SetState(state bookState) { b.state = state }

func (b *Book) ready() error {
	if b == nil || b.state == nil {
		return fmt.Errorf("token book: state not configured")
	}
	return nil
}

// Mint credits amount of asset to holder. The zero asset credits native
// currency.
func (b *Book) Mint(asset, holder common.Address, amount *big.Int) error {
	if err := b.ready(); err != nil {
		return err
	}
	value, err := nativecommon.ToUint256(amount)
	if err != nil {
		return err
	}
	current, err := b.state.TokenBalance(asset, holder)
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(current, value)
	if overflow {
		return fmt.Errorf("%w: mint overflows balance", coreerrors.ErrInvalidAmount)
	}
	return b.state.SetTokenBalance(asset, holder, next)
}

// Approve sets the amount spender may pull from owner.
func (b *Book) Approve(asset, owner, spender common.Address, amount *big.Int) error {
	if err := b.ready(); err != nil {
		return err
	}
	value, err := nativecommon.ToUint256(amount)
	if err != nil {
		return err
	}
	return b.state.SetAllowance(asset, owner, spender, value)
}

// Allowance returns how much spender may pull from owner.
func (b *Book) Allowance(asset, owner, spender common.Address) (*big.Int, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	value, err := b.state.Allowance(asset, owner, spender)
	if err != nil {
		return nil, err
	}
	return nativecommon.ToBig(value), nil
}

// BalanceOf returns the external balance of holder.
func (b *Book) BalanceOf(asset, holder common.Address) (*big.Int, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	value, err := b.state.TokenBalance(asset, holder)
	if err != nil {
		return nil, err
	}
	return nativecommon.ToBig(value), nil
}

// Token returns the contract view of asset. Unknown assets behave as tokens
// nobody holds.
func (b *Book) Token(asset common.Address) *Contract {
	return &Contract{book: b, asset: asset}
}

// Native returns the native-currency transfer primitive.
func (b *Book) Native() *Native {
	return &Native{book: b}
}

// move shifts amount from one holder to another. It reports false when the
// sender is short or the receiver would overflow.
func (b *Book) move(asset, from, to common.Address, amount *uint256.Int) (bool, error) {
	if amount.IsZero() || from == to {
		return true, nil
	}
	fromBal, err := b.state.TokenBalance(asset, from)
	if err != nil {
		return false, err
	}
	if fromBal.Lt(amount) {
		return false, nil
	}
	toBal, err := b.state.TokenBalance(asset, to)
	if err != nil {
		return false, err
	}
	nextTo, overflow := new(uint256.Int).AddOverflow(toBal, amount)
	if overflow {
		return false, nil
	}
	if err := b.state.SetTokenBalance(asset, from, new(uint256.Int).Sub(fromBal, amount)); err != nil {
		return false, err
	}
	if err := b.state.SetTokenBalance(asset, to, nextTo); err != nil {
		return false, err
	}
	return true, nil
}
