package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Call is the envelope of a single atomic invocation: the authenticated
// sender and the native value attached to the call.
type Call struct {
	Sender common.Address `json:"sender"`
	Value  *big.Int       `json:"value,omitempty"`
}

// AttachedValue returns the attached native value, zero when none was sent.
func (c Call) AttachedValue() *big.Int {
	if c.Value == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(c.Value)
}

// HasValue reports whether the call carries a non-zero native value.
func (c Call) HasValue() bool {
	return c.Value != nil && c.Value.Sign() != 0
}
