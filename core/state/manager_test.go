package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	nativecommon "weidex/native/common"
	"weidex/native/crowdsale"
	"weidex/native/fees"
	"weidex/storage"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	token = common.HexToAddress("0x00000000000000000000000000000000000070ce")
)

func newTestManager(t *testing.T) (*Manager, *storage.MemDB) {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return NewManager(db), db
}

func TestBalanceDefaultsToZero(t *testing.T) {
	mgr, _ := newTestManager(t)
	bal, err := mgr.Balance(alice, token)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !bal.IsZero() {
		t.Fatalf("expected zero balance, got %s", bal)
	}
}

func TestSnapshotRevertRestoresPriorValues(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.SetBalance(alice, token, uint256.NewInt(10)))

	snap := mgr.Snapshot()
	require.NoError(t, mgr.SetBalance(alice, token, uint256.NewInt(25)))
	require.NoError(t, mgr.SetBalance(bob, token, uint256.NewInt(5)))

	inner := mgr.Snapshot()
	require.NoError(t, mgr.SetOrderCancelled(common.Hash{0x01}))
	mgr.RevertToSnapshot(inner)

	cancelled, err := mgr.OrderCancelled(common.Hash{0x01})
	require.NoError(t, err)
	require.False(t, cancelled)
	bal, err := mgr.Balance(alice, token)
	require.NoError(t, err)
	require.Equal(t, uint64(25), bal.Uint64())

	mgr.RevertToSnapshot(snap)
	bal, err = mgr.Balance(alice, token)
	require.NoError(t, err)
	require.Equal(t, uint64(10), bal.Uint64())
	bal, err = mgr.Balance(bob, token)
	require.NoError(t, err)
	require.True(t, bal.IsZero())
}

func TestCommitFlushesAndDiscardDrops(t *testing.T) {
	mgr, db := newTestManager(t)
	require.NoError(t, mgr.SetBalance(alice, token, uint256.NewInt(7)))
	require.Empty(t, db.Keys())
	require.NoError(t, mgr.Commit())
	require.Len(t, db.Keys(), 1)
	require.Equal(t, 0, mgr.Pending())

	require.NoError(t, mgr.SetBalance(alice, token, uint256.NewInt(0)))
	mgr.Discard()
	bal, err := mgr.Balance(alice, token)
	require.NoError(t, err)
	require.Equal(t, uint64(7), bal.Uint64())

	// Zero balances are deleted rather than stored.
	require.NoError(t, mgr.SetBalance(alice, token, uint256.NewInt(0)))
	require.NoError(t, mgr.Commit())
	require.Empty(t, db.Keys())
}

func TestRevertAfterDeleteRestoresValue(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.SetBalance(alice, token, uint256.NewInt(3)))
	require.NoError(t, mgr.Commit())

	snap := mgr.Snapshot()
	require.NoError(t, mgr.SetBalance(alice, token, new(uint256.Int)))
	bal, err := mgr.Balance(alice, token)
	require.NoError(t, err)
	require.True(t, bal.IsZero())

	mgr.RevertToSnapshot(snap)
	bal, err = mgr.Balance(alice, token)
	require.NoError(t, err)
	require.Equal(t, uint64(3), bal.Uint64())
}

func TestReferralSetOnceSemanticsAreStorable(t *testing.T) {
	mgr, _ := newTestManager(t)
	_, ok, err := mgr.Referral(alice)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, mgr.SetReferral(alice, common.Address{}))
	ref, ok, err := mgr.Referral(alice)
	require.NoError(t, err)
	require.True(t, ok, "a zero referrer still counts as linked")
	require.Equal(t, common.Address{}, ref)
}

func TestCrowdsaleRecordRoundTrip(t *testing.T) {
	mgr, _ := newTestManager(t)
	record, err := mgr.Crowdsale(token)
	require.NoError(t, err)
	require.Nil(t, record)

	stored := &crowdsale.Crowdsale{
		StartBlock:      10,
		EndBlock:        20,
		HardCap:         big.NewInt(15),
		LeftAmount:      big.NewInt(1500),
		TokenRatio:      big.NewInt(100),
		MinContribution: big.NewInt(1),
		MaxContribution: big.NewInt(10),
		Wallet:          bob,
	}
	require.NoError(t, mgr.PutCrowdsale(token, stored))
	require.NoError(t, mgr.Commit())

	loaded, err := mgr.Crowdsale(token)
	require.NoError(t, err)
	require.Equal(t, uint64(10), loaded.StartBlock)
	require.Equal(t, 0, loaded.LeftAmount.Cmp(big.NewInt(1500)))
	require.Equal(t, 0, loaded.WeiRaised.Sign())
	require.Equal(t, bob, loaded.Wallet)
	require.False(t, loaded.Burned)
}

func TestGovernanceRecords(t *testing.T) {
	mgr, _ := newTestManager(t)
	schedule, err := mgr.FeeRates()
	require.NoError(t, err)
	require.Equal(t, 0, schedule.MakerFeeRate.Sign())

	require.NoError(t, mgr.SetFeeRates(fees.Schedule{TakerFeeRate: fees.TakerFeeRateMin, FeeAccount: bob}))
	schedule, err = mgr.FeeRates()
	require.NoError(t, err)
	require.Equal(t, 0, schedule.TakerFeeRate.Cmp(fees.TakerFeeRateMin))
	require.Equal(t, bob, schedule.FeeAccount)

	sel := nativecommon.SelectorOf(nativecommon.MethodTrade)
	enabled, err := mgr.MethodEnabled(sel)
	require.NoError(t, err)
	require.True(t, enabled)
	require.NoError(t, mgr.SetMethodEnabled(sel, false))
	enabled, err = mgr.MethodEnabled(sel)
	require.NoError(t, err)
	require.False(t, enabled)

	require.NoError(t, mgr.SetOwner(alice))
	owner, err := mgr.Owner()
	require.NoError(t, err)
	require.Equal(t, alice, owner)
}

func TestHeightPersists(t *testing.T) {
	mgr, db := newTestManager(t)
	require.NoError(t, mgr.SetHeight(42))
	require.NoError(t, mgr.Commit())

	reopened := NewManager(db)
	height, err := reopened.Height()
	require.NoError(t, err)
	require.Equal(t, uint64(42), height)
}
