package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	nativecommon "weidex/native/common"
	"weidex/native/fees"
	"weidex/storage"
)

// Validate checks addresses, fee rates, the backend and the disabled method
// list. Zero fee rates are accepted.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case storage.BackendMemory, storage.BackendLevelDB, storage.BackendBolt:
	default:
		return fmt.Errorf("backend: unsupported %q", c.Backend)
	}
	owner, err := parseAddress("Owner", c.Owner)
	if err != nil {
		return err
	}
	if owner == (common.Address{}) {
		return fmt.Errorf("owner: must be set")
	}
	vault, err := parseAddress("VaultAddress", c.VaultAddress)
	if err != nil {
		return err
	}
	if vault == (common.Address{}) {
		return fmt.Errorf("vault: must not be the zero address")
	}
	if _, err := parseAddress("FeeAccount", c.FeeAccount); err != nil {
		return err
	}
	for _, rate := range []struct {
		kind  fees.Kind
		field string
		value string
	}{
		{fees.KindMaker, "MakerFeeRate", c.MakerFeeRate},
		{fees.KindTaker, "TakerFeeRate", c.TakerFeeRate},
		{fees.KindReferral, "ReferralFeeRate", c.ReferralFeeRate},
	} {
		parsed, err := fees.ParseRate(rate.value)
		if err != nil {
			return fmt.Errorf("%s: %w", rate.field, err)
		}
		if err := fees.CheckConfigured(rate.kind, parsed); err != nil {
			return fmt.Errorf("%s: %w", rate.field, err)
		}
	}
	for _, method := range c.DisabledMethods {
		if !nativecommon.IsSwitchable(method) {
			return fmt.Errorf("disabled methods: %q is not switchable", method)
		}
	}
	if c.MaxBatchOrders < 0 {
		return fmt.Errorf("max batch orders: must not be negative")
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit: must not be negative")
	}
	return nil
}

func parseAddress(field, value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s: invalid address %q", field, value)
	}
	return common.HexToAddress(value), nil
}
