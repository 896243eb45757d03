package fees

import "math/big"

// ApplyResult summarises a fee deduction from a gross amount.
type ApplyResult struct {
	Gross *big.Int
	Fee   *big.Int
	Net   *big.Int
}

// Apply returns floor(amount * rate / Scale). Nil or non-positive inputs
// yield zero.
func Apply(amount, rate *big.Int) *big.Int {
	if amount == nil || rate == nil || amount.Sign() <= 0 || rate.Sign() <= 0 {
		return big.NewInt(0)
	}
	fee := new(big.Int).Mul(amount, rate)
	return fee.Quo(fee, Scale)
}

// Deduct evaluates the fee owed on gross at rate and the remaining net
// amount. The fee never exceeds gross.
func Deduct(gross, rate *big.Int) ApplyResult {
	result := ApplyResult{Gross: big.NewInt(0), Fee: big.NewInt(0), Net: big.NewInt(0)}
	if gross == nil || gross.Sign() <= 0 {
		return result
	}
	result.Gross.Set(gross)
	fee := Apply(gross, rate)
	if fee.Cmp(gross) > 0 {
		fee.Set(gross)
	}
	result.Fee = fee
	result.Net.Sub(gross, fee)
	return result
}

// SplitReferral carves the referral share out of fee. The remainder is what
// the fee account receives.
func SplitReferral(fee, rate *big.Int) (referral *big.Int, remainder *big.Int) {
	if fee == nil || fee.Sign() <= 0 {
		return big.NewInt(0), big.NewInt(0)
	}
	referral = Apply(fee, rate)
	if referral.Cmp(fee) > 0 {
		referral.Set(fee)
	}
	return referral, new(big.Int).Sub(fee, referral)
}
