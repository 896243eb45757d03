package common

import (
	"errors"
	"testing"

	coreerrors "weidex/core/errors"
)

type mockSwitch map[Selector]bool

func (m mockSwitch) MethodEnabled(sel Selector) (bool, error) {
	disabled, ok := m[sel]
	return !ok || !disabled, nil
}

func TestGuard(t *testing.T) {
	view := mockSwitch{SelectorOf(MethodTrade): true}
	if err := Guard(view, MethodTrade); !errors.Is(err, coreerrors.ErrMethodDisabled) {
		t.Fatalf("expected METHOD_DISABLED, got %v", err)
	}
	if err := Guard(view, MethodDeposit); err != nil {
		t.Fatalf("expected deposit enabled by default, got %v", err)
	}
	if err := Guard(nil, MethodTrade); err != nil {
		t.Fatalf("nil view must not block: %v", err)
	}
}

func TestSelectorOfMatchesABIMethodID(t *testing.T) {
	// keccak256("transfer(address,uint256)") starts with a9059cbb.
	sel := SelectorOf("transfer(address,uint256)")
	if sel != (Selector{0xa9, 0x05, 0x9c, 0xbb}) {
		t.Fatalf("unexpected selector %x", sel)
	}
	if !IsSwitchable(MethodBuyTokens) || IsSwitchable("setMakerFeeRate") {
		t.Fatalf("unexpected switchable set")
	}
}
