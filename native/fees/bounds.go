package fees

import (
	"fmt"
	"math/big"

	coreerrors "weidex/core/errors"
)

// Kind names a governable fee rate.
type Kind string

const (
	KindMaker    Kind = "maker"
	KindTaker    Kind = "taker"
	KindReferral Kind = "referral"
)

var (
	// Scale is the fixed-point unit of every fee rate.
	Scale = big.NewInt(1_000_000_000_000_000_000)

	MakerFeeRateMin    = big.NewInt(200_000_000_000_000_000)
	MakerFeeRateMax    = big.NewInt(900_000_000_000_000_000)
	TakerFeeRateMin    = big.NewInt(1_000_000_000_000_000)
	TakerFeeRateMax    = big.NewInt(10_000_000_000_000_000)
	ReferralFeeRateMin = big.NewInt(0)
	ReferralFeeRateMax = Scale
)

// Bounds returns the inclusive [min, max] range accepted for kind.
func Bounds(kind Kind) (*big.Int, *big.Int, error) {
	switch kind {
	case KindMaker:
		return MakerFeeRateMin, MakerFeeRateMax, nil
	case KindTaker:
		return TakerFeeRateMin, TakerFeeRateMax, nil
	case KindReferral:
		return ReferralFeeRateMin, ReferralFeeRateMax, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown fee kind %q", coreerrors.ErrInvalidInput, kind)
	}
}

// CheckBounds fails with INVALID_FEE_RATE when rate lies outside the governed
// range for kind.
func CheckBounds(kind Kind, rate *big.Int) error {
	lo, hi, err := Bounds(kind)
	if err != nil {
		return err
	}
	if rate == nil || rate.Cmp(lo) < 0 || rate.Cmp(hi) > 0 {
		return fmt.Errorf("%w: %s rate %s outside [%s, %s]", coreerrors.ErrInvalidFeeRate, kind, rateString(rate), lo, hi)
	}
	return nil
}

// CheckConfigured accepts a zero rate (fees switched off) or a rate within
// the governed range. It is used for genesis configuration.
func CheckConfigured(kind Kind, rate *big.Int) error {
	if rate != nil && rate.Sign() == 0 {
		return nil
	}
	return CheckBounds(kind, rate)
}

func rateString(rate *big.Int) string {
	if rate == nil {
		return "<nil>"
	}
	return rate.String()
}
