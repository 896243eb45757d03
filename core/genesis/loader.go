// core/genesis/loader.go
package genesis

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	nativecommon "weidex/native/common"
	"weidex/native/fees"
)

// Target is the state the genesis is written into.
type Target interface {
	Bootstrapped() (bool, error)
	MarkBootstrapped() error
	SetOwner(owner common.Address) error
	SetFeeRates(schedule fees.Schedule) error
	SetMethodEnabled(sel nativecommon.Selector, enabled bool) error
	SetHeight(height uint64) error
}

// Minter credits initial wallet balances.
type Minter interface {
	Mint(asset, holder common.Address, amount *big.Int) error
}

// Apply seeds target with g unless it was seeded before. It reports whether
// the genesis was written. Callers commit the target afterwards.
func Apply(g *Genesis, target Target, minter Minter) (bool, error) {
	if g == nil {
		return false, fmt.Errorf("genesis must not be nil")
	}
	if target == nil || minter == nil {
		return false, fmt.Errorf("genesis target must not be nil")
	}
	done, err := target.Bootstrapped()
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}

	// 1) Governance
	if err := target.SetOwner(g.Owner); err != nil {
		return false, fmt.Errorf("seed owner: %w", err)
	}
	if err := target.SetFeeRates(g.Fees.Clone()); err != nil {
		return false, fmt.Errorf("seed fee rates: %w", err)
	}
	for _, method := range g.DisabledMethods {
		if err := target.SetMethodEnabled(nativecommon.SelectorOf(method), false); err != nil {
			return false, fmt.Errorf("disable %s: %w", method, err)
		}
	}

	// 2) Allocations (pre-sorted by Resolve)
	for _, alloc := range g.Alloc {
		if err := minter.Mint(alloc.Asset, alloc.Holder, alloc.Amount); err != nil {
			return false, fmt.Errorf("alloc[%s][%s]: %w", alloc.Holder.Hex(), alloc.Asset.Hex(), err)
		}
	}

	// 3) Chain position
	if err := target.SetHeight(g.StartHeight); err != nil {
		return false, err
	}
	if err := target.MarkBootstrapped(); err != nil {
		return false, err
	}
	return true, nil
}
