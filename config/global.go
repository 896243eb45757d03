package config

import (
	"fmt"
	"strings"

	"weidex/core/genesis"
)

// GenesisSpec assembles the genesis from the configured governance values.
// Allocations and the start height come from GenesisFile when it is set;
// governance fields in the file are overridden by the configuration.
func (c *Config) GenesisSpec() (*genesis.Spec, error) {
	spec := &genesis.Spec{}
	if path := strings.TrimSpace(c.GenesisFile); path != "" {
		loaded, err := genesis.LoadSpec(path)
		if err != nil {
			return nil, err
		}
		spec = loaded
	}
	spec.Owner = c.Owner
	spec.FeeAccount = c.FeeAccount
	spec.MakerFeeRate = c.MakerFeeRate
	spec.TakerFeeRate = c.TakerFeeRate
	spec.ReferralFeeRate = c.ReferralFeeRate
	spec.DisabledMethods = append([]string(nil), c.DisabledMethods...)
	if _, err := spec.Resolve(); err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}
	return spec, nil
}
