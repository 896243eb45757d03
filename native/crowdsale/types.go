package crowdsale

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// BurnAddress receives the unsold supply of finished campaigns.
var BurnAddress = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

// Crowdsale is the persisted record of a sale campaign, keyed by sale asset.
// HardCap, WeiRaised and the contribution bounds are native-asset units;
// LeftAmount is sale-asset units; TokenRatio is sale-asset units per native
// unit. Campaign numbers successive registrations of the same asset.
type Crowdsale struct {
	StartBlock      uint64
	EndBlock        uint64
	HardCap         *big.Int
	LeftAmount      *big.Int
	TokenRatio      *big.Int
	MinContribution *big.Int
	MaxContribution *big.Int
	WeiRaised       *big.Int
	Wallet          common.Address
	Burned          bool
	Campaign        uint64
}

// Clone returns a deep copy with nil amounts normalised to zero.
func (c *Crowdsale) Clone() *Crowdsale {
	if c == nil {
		return nil
	}
	clone := *c
	clone.HardCap = cloneAmount(c.HardCap)
	clone.LeftAmount = cloneAmount(c.LeftAmount)
	clone.TokenRatio = cloneAmount(c.TokenRatio)
	clone.MinContribution = cloneAmount(c.MinContribution)
	clone.MaxContribution = cloneAmount(c.MaxContribution)
	clone.WeiRaised = cloneAmount(c.WeiRaised)
	return &clone
}

// Finished reports whether the campaign window closed before height.
func (c *Crowdsale) Finished(height uint64) bool {
	return c != nil && height > c.EndBlock
}

// Open reports whether height falls inside [StartBlock, EndBlock].
func (c *Crowdsale) Open(height uint64) bool {
	return c != nil && height >= c.StartBlock && height <= c.EndBlock
}

// Active reports whether the campaign still blocks a new registration for the
// same asset. A campaign stops being active once it finished and its unsold
// supply was burned.
func (c *Crowdsale) Active(height uint64) bool {
	if c == nil {
		return false
	}
	return !(c.Finished(height) && c.Burned)
}

// Encode serialises the record with RLP.
func (c *Crowdsale) Encode() ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("crowdsale: nil record")
	}
	return rlp.EncodeToBytes(c.Clone())
}

// Decode restores a record written by Encode.
func Decode(data []byte) (*Crowdsale, error) {
	record := new(Crowdsale)
	if err := rlp.DecodeBytes(data, record); err != nil {
		return nil, fmt.Errorf("crowdsale: decode record: %w", err)
	}
	return record.Clone(), nil
}

func cloneAmount(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
