// core/genesis/spec.go
package genesis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	nativecommon "weidex/native/common"
	"weidex/native/fees"
)

// NativeSymbol names the native currency in allocation tables.
const NativeSymbol = "native"

// Spec is the operator-facing genesis description. Addresses are hex and
// amounts are base-10 strings.
type Spec struct {
	Owner           string                       `json:"owner"`
	FeeAccount      string                       `json:"feeAccount,omitempty"`
	MakerFeeRate    string                       `json:"makerFeeRate,omitempty"`
	TakerFeeRate    string                       `json:"takerFeeRate,omitempty"`
	ReferralFeeRate string                       `json:"referralFeeRate,omitempty"`
	DisabledMethods []string                     `json:"disabledMethods,omitempty"`
	Alloc           map[string]map[string]string `json:"alloc,omitempty"` // holder -> asset -> amount
	StartHeight     uint64                       `json:"startHeight,omitempty"`
}

// Allocation is an initial wallet balance outside the exchange.
type Allocation struct {
	Holder common.Address
	Asset  common.Address
	Amount *big.Int
}

// Genesis is the resolved form of a Spec. Allocations are sorted by holder
// then asset.
type Genesis struct {
	Owner           common.Address
	Fees            fees.Schedule
	DisabledMethods []string
	Alloc           []Allocation
	StartHeight     uint64
}

// LoadSpec reads a JSON genesis file. Unknown fields are rejected; the
// values themselves are checked by Resolve.
func LoadSpec(path string) (*Spec, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("genesis spec path must be provided")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis spec %q: %w", path, err)
	}
	var spec Spec
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("decode genesis spec %q: %w", path, err)
	}
	return &spec, nil
}

// Resolve parses and validates every field of the spec. Fee rates may be zero
// or lie within the governed bounds.
func (s *Spec) Resolve() (*Genesis, error) {
	if s == nil {
		return nil, fmt.Errorf("genesis spec must not be nil")
	}
	owner, err := parseAddress(s.Owner)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	if owner == (common.Address{}) {
		return nil, fmt.Errorf("owner must be set")
	}
	feeAccount := owner
	if strings.TrimSpace(s.FeeAccount) != "" {
		if feeAccount, err = parseAddress(s.FeeAccount); err != nil {
			return nil, fmt.Errorf("feeAccount: %w", err)
		}
	}
	schedule := fees.Schedule{FeeAccount: feeAccount}
	for _, rate := range []struct {
		kind  fees.Kind
		value string
		dst   **big.Int
	}{
		{fees.KindMaker, s.MakerFeeRate, &schedule.MakerFeeRate},
		{fees.KindTaker, s.TakerFeeRate, &schedule.TakerFeeRate},
		{fees.KindReferral, s.ReferralFeeRate, &schedule.ReferralFeeRate},
	} {
		parsed, err := fees.ParseRate(rate.value)
		if err != nil {
			return nil, fmt.Errorf("%s fee rate: %w", rate.kind, err)
		}
		if err := fees.CheckConfigured(rate.kind, parsed); err != nil {
			return nil, fmt.Errorf("%s fee rate: %w", rate.kind, err)
		}
		*rate.dst = parsed
	}

	disabled := make([]string, 0, len(s.DisabledMethods))
	for _, method := range s.DisabledMethods {
		method = strings.TrimSpace(method)
		if !nativecommon.IsSwitchable(method) {
			return nil, fmt.Errorf("disabledMethods: %q is not switchable", method)
		}
		disabled = append(disabled, method)
	}
	sort.Strings(disabled)

	alloc, err := s.resolveAlloc()
	if err != nil {
		return nil, err
	}
	return &Genesis{
		Owner:           owner,
		Fees:            schedule.Clone(),
		DisabledMethods: disabled,
		Alloc:           alloc,
		StartHeight:     s.StartHeight,
	}, nil
}

func (s *Spec) resolveAlloc() ([]Allocation, error) {
	out := make([]Allocation, 0, len(s.Alloc))
	for holderStr, balances := range s.Alloc {
		holder, err := parseAddress(holderStr)
		if err != nil {
			return nil, fmt.Errorf("alloc[%q]: %w", holderStr, err)
		}
		for assetStr, amountStr := range balances {
			asset := common.Address{}
			if !strings.EqualFold(strings.TrimSpace(assetStr), NativeSymbol) {
				if asset, err = parseAddress(assetStr); err != nil {
					return nil, fmt.Errorf("alloc[%q][%q]: %w", holderStr, assetStr, err)
				}
			}
			amount, err := parseAmountString(amountStr)
			if err != nil {
				return nil, fmt.Errorf("alloc[%q][%q]: %w", holderStr, assetStr, err)
			}
			if amount.Sign() == 0 {
				continue
			}
			out = append(out, Allocation{Holder: holder, Asset: asset, Amount: amount})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := bytes.Compare(out[i].Holder.Bytes(), out[j].Holder.Bytes()); c != 0 {
			return c < 0
		}
		return bytes.Compare(out[i].Asset.Bytes(), out[j].Asset.Bytes()) < 0
	})
	return out, nil
}

func parseAddress(value string) (common.Address, error) {
	trimmed := strings.TrimSpace(value)
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, fmt.Errorf("invalid address %q", value)
	}
	return common.HexToAddress(trimmed), nil
}

func parseAmountString(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}
	return amount, nil
}
