package orders

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	coreerrors "weidex/core/errors"
)

// SigningPrefix is the domain separator applied to order hashes before
// signing. It matches the eth_sign personal-message envelope.
const SigningPrefix = "\x19Ethereum Signed Message:\n32"

// Order is a maker's signed offer to sell MakerSellAmount of MakerSellToken
// for MakerBuyAmount of MakerBuyToken. TakerSellAmount is the slice of
// MakerBuyAmount a single trade consumes. A zero TakerAddress offers the order
// to any taker.
type Order struct {
	MakerSellAmount *big.Int       `json:"makerSellAmount"`
	MakerBuyAmount  *big.Int       `json:"makerBuyAmount"`
	TakerSellAmount *big.Int       `json:"takerSellAmount"`
	Salt            *big.Int       `json:"salt"`
	Expiration      *big.Int       `json:"expiration"`
	TakerAddress    common.Address `json:"takerAddress"`
	MakerAddress    common.Address `json:"makerAddress"`
	MakerSellToken  common.Address `json:"makerSellToken"`
	MakerBuyToken   common.Address `json:"makerBuyToken"`
}

var orderArguments = newOrderArguments()

func newOrderArguments() abi.Arguments {
	uint256Type, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(err)
	}
	addressType, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{
		{Name: "makerSellAmount", Type: uint256Type},
		{Name: "makerBuyAmount", Type: uint256Type},
		{Name: "takerSellAmount", Type: uint256Type},
		{Name: "salt", Type: uint256Type},
		{Name: "expiration", Type: uint256Type},
		{Name: "takerAddress", Type: addressType},
		{Name: "makerAddress", Type: addressType},
		{Name: "makerSellToken", Type: addressType},
		{Name: "makerBuyToken", Type: addressType},
	}
}

// Validate checks that every numeric field fits an unsigned 256-bit word.
func (o *Order) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: nil order", coreerrors.ErrInvalidInput)
	}
	fields := []struct {
		name  string
		value *big.Int
	}{
		{"makerSellAmount", o.MakerSellAmount},
		{"makerBuyAmount", o.MakerBuyAmount},
		{"takerSellAmount", o.TakerSellAmount},
		{"salt", o.Salt},
		{"expiration", o.Expiration},
	}
	for _, field := range fields {
		if field.value == nil {
			continue
		}
		if field.value.Sign() < 0 || field.value.BitLen() > 256 {
			return fmt.Errorf("%w: %s out of range", coreerrors.ErrInvalidInput, field.name)
		}
	}
	return nil
}

// Encode returns the ABI encoding of the nine order fields in declaration
// order. Nil amounts encode as zero.
func (o *Order) Encode() ([]byte, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	packed, err := orderArguments.Pack(
		word(o.MakerSellAmount),
		word(o.MakerBuyAmount),
		word(o.TakerSellAmount),
		word(o.Salt),
		word(o.Expiration),
		o.TakerAddress,
		o.MakerAddress,
		o.MakerSellToken,
		o.MakerBuyToken,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: encode order: %v", coreerrors.ErrInvalidInput, err)
	}
	return packed, nil
}

// Hash returns keccak256 of the ABI-encoded order.
func Hash(o *Order) (common.Hash, error) {
	encoded, err := o.Encode()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}

// PrefixedHash returns the digest the maker signs, keccak256(SigningPrefix ||
// Hash(order)). Fill and cancel state is keyed by this value.
func PrefixedHash(o *Order) (common.Hash, error) {
	hash, err := Hash(o)
	if err != nil {
		return common.Hash{}, err
	}
	return PrefixHash(hash), nil
}

// PrefixHash applies the signing domain separator to an order hash.
func PrefixHash(hash common.Hash) common.Hash {
	return crypto.Keccak256Hash([]byte(SigningPrefix), hash.Bytes())
}

// Expiry returns the expiration height. Heights beyond uint64 never expire.
func (o *Order) Expiry() uint64 {
	if o.Expiration == nil {
		return 0
	}
	if !o.Expiration.IsUint64() {
		return ^uint64(0)
	}
	return o.Expiration.Uint64()
}

func word(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
