package fees

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

type storedSchedule struct {
	MakerFeeRate    *big.Int
	TakerFeeRate    *big.Int
	ReferralFeeRate *big.Int
	FeeAccount      common.Address
}

// EncodeSchedule serialises the schedule with RLP for persistence.
func EncodeSchedule(s Schedule) ([]byte, error) {
	c := s.Clone()
	return rlp.EncodeToBytes(storedSchedule{
		MakerFeeRate:    c.MakerFeeRate,
		TakerFeeRate:    c.TakerFeeRate,
		ReferralFeeRate: c.ReferralFeeRate,
		FeeAccount:      c.FeeAccount,
	})
}

// DecodeSchedule restores a schedule written by EncodeSchedule.
func DecodeSchedule(data []byte) (Schedule, error) {
	var stored storedSchedule
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return Schedule{}, fmt.Errorf("fees: decode schedule: %w", err)
	}
	return Schedule{
		MakerFeeRate:    stored.MakerFeeRate,
		TakerFeeRate:    stored.TakerFeeRate,
		ReferralFeeRate: stored.ReferralFeeRate,
		FeeAccount:      stored.FeeAccount,
	}.Clone(), nil
}

// ParseRate decodes a fee rate written as a base-10 integer on the Scale, for
// example "2000000000000000" for 0.2%. An empty string is zero.
func ParseRate(raw string) (*big.Int, error) {
	trimmed := strings.ReplaceAll(strings.TrimSpace(raw), "_", "")
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	rate, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("fees: invalid rate %q", raw)
	}
	if rate.Sign() < 0 {
		return nil, fmt.Errorf("fees: negative rate %q", raw)
	}
	return rate, nil
}
