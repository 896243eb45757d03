package common

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	coreerrors "weidex/core/errors"
)

// ToUint256 converts an API amount into its stored 256-bit form. Nil is zero;
// negative values and values wider than 256 bits fail with INVALID_AMOUNT.
func ToUint256(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative amount %s", coreerrors.ErrInvalidAmount, v)
	}
	out, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("%w: amount exceeds 256 bits", coreerrors.ErrInvalidAmount)
	}
	return out, nil
}

// ToBig converts a stored amount back into an API amount.
func ToBig(v *uint256.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v.ToBig()
}
