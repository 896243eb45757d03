package fees

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Schedule captures the fee configuration consulted by the matching engine.
// Rates are fixed-point fractions on the Scale (1e18 == 100%).
type Schedule struct {
	MakerFeeRate    *big.Int
	TakerFeeRate    *big.Int
	ReferralFeeRate *big.Int
	FeeAccount      common.Address
}

// Clone returns a deep copy of the schedule with nil rates normalised to zero.
func (s Schedule) Clone() Schedule {
	return Schedule{
		MakerFeeRate:    cloneRate(s.MakerFeeRate),
		TakerFeeRate:    cloneRate(s.TakerFeeRate),
		ReferralFeeRate: cloneRate(s.ReferralFeeRate),
		FeeAccount:      s.FeeAccount,
	}
}

func cloneRate(rate *big.Int) *big.Int {
	if rate == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(rate)
}
