package crowdsale

import (
	"math/big"
)

// RegistrationStatus classifies a campaign submitted for registration.
type RegistrationStatus uint8

const (
	RegistrationInvalidStartBlock RegistrationStatus = iota
	RegistrationInvalidEndBlock
	RegistrationInvalidTokenRatio
	RegistrationInvalidLeftAmount
	RegistrationValid
)

func (s RegistrationStatus) String() string {
	switch s {
	case RegistrationInvalidStartBlock:
		return "INVALID_START_BLOCK"
	case RegistrationInvalidEndBlock:
		return "INVALID_END_BLOCK"
	case RegistrationInvalidTokenRatio:
		return "INVALID_TOKEN_RATIO"
	case RegistrationInvalidLeftAmount:
		return "INVALID_LEFT_AMOUNT"
	case RegistrationValid:
		return "VALID"
	default:
		return "UNKNOWN"
	}
}

// ContributionStatus classifies a prospective contribution.
type ContributionStatus uint8

const (
	ContributionNotOpen ContributionStatus = iota
	ContributionBelowMin
	ContributionAboveMax
	ContributionHardCapReached
	ContributionValid
)

func (s ContributionStatus) String() string {
	switch s {
	case ContributionNotOpen:
		return "NOT_OPEN"
	case ContributionBelowMin:
		return "BELOW_MIN"
	case ContributionAboveMax:
		return "ABOVE_MAX"
	case ContributionHardCapReached:
		return "HARDCAP_REACHED"
	case ContributionValid:
		return "VALID"
	default:
		return "UNKNOWN"
	}
}

// ClassifyRegistration evaluates record at height. The first failing check
// determines the result.
func ClassifyRegistration(record *Crowdsale, height uint64) RegistrationStatus {
	if record == nil || record.StartBlock <= height {
		return RegistrationInvalidStartBlock
	}
	if record.EndBlock <= record.StartBlock {
		return RegistrationInvalidEndBlock
	}
	if record.TokenRatio == nil || record.TokenRatio.Sign() <= 0 {
		return RegistrationInvalidTokenRatio
	}
	expected := new(big.Int).Mul(cloneAmount(record.HardCap), record.TokenRatio)
	if cloneAmount(record.LeftAmount).Cmp(expected) != 0 {
		return RegistrationInvalidLeftAmount
	}
	return RegistrationValid
}

// ClassifyContribution evaluates a contribution of amount by a contributor
// who already put in contributed.
func ClassifyContribution(record *Crowdsale, height uint64, contributed, amount *big.Int) ContributionStatus {
	if !record.Open(height) {
		return ContributionNotOpen
	}
	amount = cloneAmount(amount)
	if amount.Cmp(cloneAmount(record.MinContribution)) < 0 {
		return ContributionBelowMin
	}
	ceiling := cloneAmount(record.MaxContribution)
	if amount.Cmp(ceiling) > 0 {
		return ContributionAboveMax
	}
	if new(big.Int).Add(cloneAmount(contributed), amount).Cmp(ceiling) > 0 {
		return ContributionAboveMax
	}
	if new(big.Int).Add(cloneAmount(record.WeiRaised), amount).Cmp(cloneAmount(record.HardCap)) > 0 {
		return ContributionHardCapReached
	}
	return ContributionValid
}
