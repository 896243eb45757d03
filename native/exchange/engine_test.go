package exchange

import (
	"crypto/ecdsa"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	coreerrors "weidex/core/errors"
	"weidex/core/events"
	"weidex/core/state"
	nativecommon "weidex/native/common"
	"weidex/native/fees"
	"weidex/native/ledger"
	"weidex/native/orders"
	"weidex/storage"
)

var (
	tokenT     = common.HexToAddress("0x00000000000000000000000000000000000070ce")
	feeAccount = common.HexToAddress("0x00000000000000000000000000000000000000fe")
	vault      = common.HexToAddress("0x000000000000000000000000000000000000face")
	referrer   = common.HexToAddress("0x0000000000000000000000000000000000000ef1")
)

type captureEmitter struct{ events []events.Event }

func (c *captureEmitter) Emit(evt events.Event) { c.events = append(c.events, evt) }

func (c *captureEmitter) count(kind string) int {
	n := 0
	for _, evt := range c.events {
		if evt.EventType() == kind {
			n++
		}
	}
	return n
}

type fixture struct {
	t        *testing.T
	mgr      *state.Manager
	ledger   *ledger.Engine
	engine   *Engine
	emitter  *captureEmitter
	makerKey *ecdsa.PrivateKey
	maker    common.Address
	taker    common.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	mgr := state.NewManager(db)
	if err := mgr.SetFeeRates(fees.Schedule{FeeAccount: feeAccount}); err != nil {
		t.Fatalf("seed fees: %v", err)
	}
	if err := mgr.SetHeight(10); err != nil {
		t.Fatalf("seed height: %v", err)
	}
	emitter := &captureEmitter{}
	led := ledger.NewEngine(vault)
	led.SetState(mgr)
	engine := NewEngine()
	engine.SetState(mgr)
	engine.SetLedger(led)
	engine.SetEmitter(emitter)

	makerKey, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	takerKey, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return &fixture{
		t:        t,
		mgr:      mgr,
		ledger:   led,
		engine:   engine,
		emitter:  emitter,
		makerKey: makerKey,
		maker:    ethcrypto.PubkeyToAddress(makerKey.PublicKey),
		taker:    ethcrypto.PubkeyToAddress(takerKey.PublicKey),
	}
}

func (f *fixture) credit(user, asset common.Address, amount int64) {
	f.t.Helper()
	if err := f.ledger.Credit(user, asset, big.NewInt(amount)); err != nil {
		f.t.Fatalf("credit: %v", err)
	}
}

func (f *fixture) balance(user, asset common.Address) int64 {
	f.t.Helper()
	bal, err := f.ledger.Balance(user, asset)
	if err != nil {
		f.t.Fatalf("balance: %v", err)
	}
	return bal.Int64()
}

// order sells makerSell of token T for makerBuy native units, takerSell per
// trade.
func (f *fixture) order(makerSell, makerBuy, takerSell int64, salt int64) *orders.Order {
	return &orders.Order{
		MakerSellAmount: big.NewInt(makerSell),
		MakerBuyAmount:  big.NewInt(makerBuy),
		TakerSellAmount: big.NewInt(takerSell),
		Salt:            big.NewInt(salt),
		Expiration:      big.NewInt(100),
		MakerAddress:    f.maker,
		MakerSellToken:  tokenT,
		MakerBuyToken:   ledger.NativeAsset,
	}
}

func (f *fixture) sign(o *orders.Order) []byte {
	f.t.Helper()
	sig, err := orders.SignOrder(o, f.makerKey)
	if err != nil {
		f.t.Fatalf("sign: %v", err)
	}
	return sig
}

// atomically mirrors the processor: roll back every write when fn fails.
func (f *fixture) atomically(fn func() error) error {
	snap := f.mgr.Snapshot()
	if err := fn(); err != nil {
		f.mgr.RevertToSnapshot(snap)
		return err
	}
	return nil
}

func TestTradeSettlesReferenceScenario(t *testing.T) {
	f := newFixture(t)
	f.credit(f.maker, tokenT, 200)
	f.credit(f.taker, ledger.NativeAsset, 10)

	o := f.order(100, 1, 1, 1)
	sig := f.sign(o)
	settlement, err := f.engine.Trade(f.taker, o, sig)
	if err != nil {
		t.Fatalf("trade: %v", err)
	}
	if settlement.MakerFilled.Int64() != 1 || settlement.TakerFilled.Int64() != 100 {
		t.Fatalf("unexpected settlement: %+v", settlement)
	}
	if got := f.balance(f.taker, tokenT); got != 100 {
		t.Fatalf("taker T: expected 100, got %d", got)
	}
	if got := f.balance(f.taker, ledger.NativeAsset); got != 9 {
		t.Fatalf("taker native: expected 9, got %d", got)
	}
	if got := f.balance(f.maker, tokenT); got != 100 {
		t.Fatalf("maker T: expected 100, got %d", got)
	}
	if got := f.balance(f.maker, ledger.NativeAsset); got != 1 {
		t.Fatalf("maker native: expected 1, got %d", got)
	}
	if f.emitter.count(events.TypeTrade) != 1 {
		t.Fatalf("expected one trade event")
	}

	if _, err := f.engine.Trade(f.taker, o, sig); !errors.Is(err, coreerrors.ErrInvalidTrade) {
		t.Fatalf("expected INVALID_TRADE on fully filled order, got %v", err)
	}
	// The fill bound is checked before the signature.
	if _, err := f.engine.Trade(f.taker, o, make([]byte, 65)); !errors.Is(err, coreerrors.ErrInvalidTrade) {
		t.Fatalf("expected INVALID_TRADE before signature check, got %v", err)
	}
}

func TestStatusPrecedence(t *testing.T) {
	f := newFixture(t)
	o := f.order(100, 1, 1, 1)

	info, err := f.engine.OrderInfo(f.taker, o)
	if err != nil {
		t.Fatalf("order info: %v", err)
	}
	if info.Status != StatusInvalidTakerBalance {
		t.Fatalf("both balances short: expected taker balance first, got %s", info.Status)
	}

	f.credit(f.taker, ledger.NativeAsset, 1)
	info, _ = f.engine.OrderInfo(f.taker, o)
	if info.Status != StatusInvalidMakerBalance {
		t.Fatalf("expected INVALID_MAKER_BALANCE, got %s", info.Status)
	}

	f.credit(f.maker, tokenT, 100)
	info, _ = f.engine.OrderInfo(f.taker, o)
	if info.Status != StatusFillable {
		t.Fatalf("expected FILLABLE, got %s", info.Status)
	}

	if _, err := f.engine.CancelSingleOrder(f.maker, o, f.sign(o)); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	info, _ = f.engine.OrderInfo(f.taker, o)
	if info.Status != StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", info.Status)
	}

	if err := f.mgr.SetHeight(101); err != nil {
		t.Fatalf("set height: %v", err)
	}
	info, _ = f.engine.OrderInfo(f.taker, o)
	if info.Status != StatusExpired {
		t.Fatalf("expired and cancelled: expected EXPIRED, got %s", info.Status)
	}

	empty := f.order(100, 0, 1, 2)
	info, _ = f.engine.OrderInfo(f.taker, empty)
	if info.Status != StatusUnknown {
		t.Fatalf("expected UNKNOWN for zero maker buy amount, got %s", info.Status)
	}
}

func TestTradeRejectsInvalidOrders(t *testing.T) {
	f := newFixture(t)
	f.credit(f.maker, tokenT, 100)
	f.credit(f.taker, ledger.NativeAsset, 1)

	expired := f.order(100, 1, 1, 1)
	expired.Expiration = big.NewInt(9)
	if _, err := f.engine.Trade(f.taker, expired, f.sign(expired)); !errors.Is(err, coreerrors.ErrInvalidOrder) {
		t.Fatalf("expected INVALID_ORDER for expired order, got %v", err)
	}

	short := f.order(100, 2, 2, 2)
	if _, err := f.engine.Trade(f.taker, short, f.sign(short)); !errors.Is(err, coreerrors.ErrInvalidOrder) {
		t.Fatalf("expected INVALID_ORDER for short taker, got %v", err)
	}

	zero := f.order(100, 1, 0, 3)
	if _, err := f.engine.Trade(f.taker, zero, f.sign(zero)); !errors.Is(err, coreerrors.ErrInvalidTrade) {
		t.Fatalf("expected INVALID_TRADE for zero taker sell, got %v", err)
	}

	dust := f.order(1, 10, 1, 4)
	if _, err := f.engine.Trade(f.taker, dust, f.sign(dust)); !errors.Is(err, coreerrors.ErrInvalidTrade) {
		t.Fatalf("expected INVALID_TRADE when taker receives nothing, got %v", err)
	}

	restricted := f.order(100, 1, 1, 5)
	restricted.TakerAddress = referrer
	if _, err := f.engine.Trade(f.taker, restricted, f.sign(restricted)); !errors.Is(err, coreerrors.ErrInvalidTrade) {
		t.Fatalf("expected INVALID_TRADE for restricted taker, got %v", err)
	}

	forged := f.order(100, 1, 1, 6)
	otherKey, _ := ethcrypto.GenerateKey()
	forgedSig, _ := orders.SignOrder(forged, otherKey)
	if _, err := f.engine.Trade(f.taker, forged, forgedSig); !errors.Is(err, coreerrors.ErrInvalidSigner) {
		t.Fatalf("expected INVALID_SIGNER, got %v", err)
	}

	if got := f.balance(f.maker, tokenT); got != 100 {
		t.Fatalf("rejected trades must not settle, maker T = %d", got)
	}
	if f.emitter.count(events.TypeTrade) != 0 {
		t.Fatalf("rejected trades must not emit")
	}
}

func TestTradeAppliesFeesAndReferral(t *testing.T) {
	f := newFixture(t)
	if err := f.mgr.SetFeeRates(fees.Schedule{
		MakerFeeRate:    fees.MakerFeeRateMin,
		TakerFeeRate:    fees.TakerFeeRateMax,
		ReferralFeeRate: new(big.Int).Quo(fees.Scale, big.NewInt(2)),
		FeeAccount:      feeAccount,
	}); err != nil {
		t.Fatalf("set fees: %v", err)
	}
	if err := f.mgr.SetReferral(f.taker, referrer); err != nil {
		t.Fatalf("set referral: %v", err)
	}
	f.credit(f.maker, tokenT, 1000)
	f.credit(f.taker, ledger.NativeAsset, 10)

	o := f.order(1000, 10, 10, 1)
	settlement, err := f.engine.Trade(f.taker, o, f.sign(o))
	if err != nil {
		t.Fatalf("trade: %v", err)
	}
	// takerFee = 1% of 1000 T, half of it to the referrer; makerFee = 20% of
	// 10 native.
	if settlement.TakerFee.Int64() != 10 || settlement.ReferralFee.Int64() != 5 || settlement.MakerFee.Int64() != 2 {
		t.Fatalf("unexpected fees: %+v", settlement)
	}
	checks := []struct {
		name  string
		user  common.Address
		asset common.Address
		want  int64
	}{
		{"taker T", f.taker, tokenT, 990},
		{"referrer T", referrer, tokenT, 5},
		{"fee account T", feeAccount, tokenT, 5},
		{"maker T", f.maker, tokenT, 0},
		{"maker native", f.maker, ledger.NativeAsset, 8},
		{"fee account native", feeAccount, ledger.NativeAsset, 2},
		{"taker native", f.taker, ledger.NativeAsset, 0},
	}
	for _, c := range checks {
		if got := f.balance(c.user, c.asset); got != c.want {
			t.Fatalf("%s: expected %d, got %d", c.name, c.want, got)
		}
	}
}

func TestZeroReferrerReceivesNothing(t *testing.T) {
	f := newFixture(t)
	if err := f.mgr.SetFeeRates(fees.Schedule{
		TakerFeeRate:    fees.TakerFeeRateMax,
		ReferralFeeRate: fees.Scale,
		FeeAccount:      feeAccount,
	}); err != nil {
		t.Fatalf("set fees: %v", err)
	}
	if err := f.mgr.SetReferral(f.taker, common.Address{}); err != nil {
		t.Fatalf("set referral: %v", err)
	}
	f.credit(f.maker, tokenT, 100)
	f.credit(f.taker, ledger.NativeAsset, 1)
	o := f.order(100, 1, 1, 1)
	settlement, err := f.engine.Trade(f.taker, o, f.sign(o))
	if err != nil {
		t.Fatalf("trade: %v", err)
	}
	if settlement.ReferralFee.Sign() != 0 {
		t.Fatalf("expected no referral fee, got %s", settlement.ReferralFee)
	}
	if got := f.balance(feeAccount, tokenT); got != 1 {
		t.Fatalf("expected full taker fee at fee account, got %d", got)
	}
}

func TestPartialFillsAreBounded(t *testing.T) {
	f := newFixture(t)
	f.credit(f.maker, tokenT, 500)
	f.credit(f.taker, ledger.NativeAsset, 10)
	o := f.order(400, 4, 1, 1)
	sig := f.sign(o)
	for i := 1; i <= 4; i++ {
		if _, err := f.engine.Trade(f.taker, o, sig); err != nil {
			t.Fatalf("trade %d: %v", i, err)
		}
		info, _ := f.engine.OrderInfo(f.taker, o)
		if info.Filled.Int64() != int64(i) {
			t.Fatalf("expected filled %d, got %s", i, info.Filled)
		}
	}
	if _, err := f.engine.Trade(f.taker, o, sig); !errors.Is(err, coreerrors.ErrInvalidTrade) {
		t.Fatalf("expected INVALID_TRADE beyond maker buy amount, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	f.credit(f.maker, tokenT, 100)
	f.credit(f.taker, ledger.NativeAsset, 1)
	o := f.order(100, 1, 1, 1)
	sig := f.sign(o)

	if _, err := f.engine.CancelSingleOrder(f.taker, o, sig); !errors.Is(err, coreerrors.ErrInvalidSigner) {
		t.Fatalf("expected INVALID_SIGNER for non-maker cancel, got %v", err)
	}
	otherKey, _ := ethcrypto.GenerateKey()
	forged, _ := orders.SignOrder(o, otherKey)
	if _, err := f.engine.CancelSingleOrder(f.maker, o, forged); !errors.Is(err, coreerrors.ErrInvalidSigner) {
		t.Fatalf("expected INVALID_SIGNER for foreign signature, got %v", err)
	}

	hash, err := f.engine.CancelSingleOrder(f.maker, o, sig)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.engine.CancelSingleOrder(f.maker, o, sig); err != nil {
		t.Fatalf("second cancel must be a no-op, got %v", err)
	}
	cancelled, err := f.engine.Cancelled(hash)
	if err != nil || !cancelled {
		t.Fatalf("expected cancelled flag, got %v err=%v", cancelled, err)
	}
	if _, err := f.engine.Trade(f.taker, o, sig); !errors.Is(err, coreerrors.ErrInvalidOrder) {
		t.Fatalf("expected INVALID_ORDER on cancelled order, got %v", err)
	}
	if f.emitter.count(events.TypeCancel) != 2 {
		t.Fatalf("expected a cancel event per cancel call")
	}
}

func TestCancelMultipleOrders(t *testing.T) {
	f := newFixture(t)
	first, second := f.order(100, 1, 1, 1), f.order(100, 1, 1, 2)
	list := []*orders.Order{first, second}

	if _, err := f.engine.CancelMultipleOrders(f.maker, list, [][]byte{f.sign(first)}); !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for mismatched input, got %v", err)
	}
	hashes, err := f.engine.CancelMultipleOrders(f.maker, list, [][]byte{f.sign(first), f.sign(second)})
	if err != nil {
		t.Fatalf("cancel multiple: %v", err)
	}
	flags, err := f.engine.Cancels(hashes)
	if err != nil {
		t.Fatalf("cancels: %v", err)
	}
	if !flags[0] || !flags[1] {
		t.Fatalf("expected both cancelled, got %v", flags)
	}
}

func batchFixture(t *testing.T) (*fixture, []*orders.Order, [][]byte) {
	f := newFixture(t)
	f.credit(f.maker, tokenT, 300)
	f.credit(f.taker, ledger.NativeAsset, 10)
	good1 := f.order(100, 1, 1, 1)
	bad := f.order(100, 1, 1, 2)
	bad.Expiration = big.NewInt(1)
	good2 := f.order(100, 1, 1, 3)
	list := []*orders.Order{good1, bad, good2}
	return f, list, [][]byte{f.sign(good1), f.sign(bad), f.sign(good2)}
}

func TestTakeAllOrRevertRollsBackEverything(t *testing.T) {
	f, list, sigs := batchFixture(t)
	err := f.atomically(func() error {
		_, err := f.engine.TakeAllOrRevert(f.taker, list, sigs)
		return err
	})
	if !errors.Is(err, coreerrors.ErrInvalidTakeAll) || !errors.Is(err, coreerrors.ErrInvalidOrder) {
		t.Fatalf("expected INVALID_TAKEALL wrapping INVALID_ORDER, got %v", err)
	}
	if coreerrors.ReasonCode(err) != "INVALID_TAKEALL" {
		t.Fatalf("expected outer reason INVALID_TAKEALL, got %s", coreerrors.ReasonCode(err))
	}
	if got := f.balance(f.taker, tokenT); got != 0 {
		t.Fatalf("expected full rollback, taker T = %d", got)
	}
	if got := f.balance(f.maker, tokenT); got != 300 {
		t.Fatalf("expected full rollback, maker T = %d", got)
	}
	fill, _ := f.engine.Fill(mustHash(t, list[0]))
	if fill.Sign() != 0 {
		t.Fatalf("expected first fill rolled back, got %s", fill)
	}

	valid := []*orders.Order{list[0], list[2]}
	settlements, err := f.engine.TakeAllOrRevert(f.taker, valid, [][]byte{sigs[0], sigs[2]})
	if err != nil {
		t.Fatalf("take all: %v", err)
	}
	if len(settlements) != 2 || f.balance(f.taker, tokenT) != 200 {
		t.Fatalf("expected both orders settled")
	}
}

func TestTakeAllPossibleSkipsFailures(t *testing.T) {
	f, list, sigs := batchFixture(t)
	otherKey, _ := ethcrypto.GenerateKey()
	forged := f.order(100, 1, 1, 4)
	forgedSig, _ := orders.SignOrder(forged, otherKey)
	list = append(list, forged)
	sigs = append(sigs, forgedSig)

	outcomes, err := f.engine.TakeAllPossible(f.taker, list, sigs)
	if err != nil {
		t.Fatalf("take all possible: %v", err)
	}
	if !outcomes[0].Filled() || outcomes[1].Filled() || !outcomes[2].Filled() || outcomes[3].Filled() {
		t.Fatalf("unexpected outcomes: %+v", outcomes)
	}
	if outcomes[1].Reason != "INVALID_ORDER" || outcomes[3].Reason != "INVALID_SIGNER" {
		t.Fatalf("unexpected reasons: %q %q", outcomes[1].Reason, outcomes[3].Reason)
	}
	if got := f.balance(f.taker, tokenT); got != 200 {
		t.Fatalf("expected two settlements, taker T = %d", got)
	}
	if got := f.balance(f.taker, ledger.NativeAsset); got != 8 {
		t.Fatalf("expected two settlements, taker native = %d", got)
	}
}

func TestTakeAllPossibleRollsBackFailedItem(t *testing.T) {
	f := newFixture(t)
	if err := f.mgr.SetFeeRates(fees.Schedule{TakerFeeRate: fees.TakerFeeRateMax, FeeAccount: feeAccount}); err != nil {
		t.Fatalf("set fees: %v", err)
	}
	// A saturated fee account makes the fee leg fail after the maker was
	// already debited and the taker credited.
	if err := f.mgr.SetBalance(feeAccount, tokenT, new(uint256.Int).SetAllOne()); err != nil {
		t.Fatalf("saturate: %v", err)
	}
	f.credit(f.maker, tokenT, 100)
	f.credit(f.taker, ledger.NativeAsset, 1)
	o := f.order(100, 1, 1, 1)
	outcomes, err := f.engine.TakeAllPossible(f.taker, []*orders.Order{o}, [][]byte{f.sign(o)})
	if err != nil {
		t.Fatalf("take all possible: %v", err)
	}
	if outcomes[0].Filled() || outcomes[0].Reason != "INVALID_AMOUNT" {
		t.Fatalf("unexpected outcome: %+v", outcomes[0])
	}
	if got := f.balance(f.maker, tokenT); got != 100 {
		t.Fatalf("skipped item must roll back the maker debit, maker T = %d", got)
	}
	if got := f.balance(f.taker, tokenT); got != 0 {
		t.Fatalf("skipped item must roll back the taker credit, taker T = %d", got)
	}
	fill, _ := f.engine.Fill(mustHash(t, o))
	if fill.Sign() != 0 {
		t.Fatalf("skipped item must leave no fill, got %s", fill)
	}
	if f.emitter.count(events.TypeTrade) != 0 {
		t.Fatalf("skipped item must not emit")
	}
}

func TestTakeAllPossibleAbortsOnMalformedInput(t *testing.T) {
	f, list, sigs := batchFixture(t)
	if _, err := f.engine.TakeAllPossible(f.taker, list, sigs[:2]); !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for mismatched input, got %v", err)
	}
	if _, err := f.engine.TakeAllPossible(f.taker, nil, nil); !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for empty input, got %v", err)
	}
	broken := f.order(100, 1, 1, 9)
	broken.Salt = big.NewInt(-1)
	err := f.atomically(func() error {
		_, err := f.engine.TakeAllPossible(f.taker, []*orders.Order{list[0], broken}, [][]byte{sigs[0], sigs[0]})
		return err
	})
	if !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for malformed order, got %v", err)
	}
	if got := f.balance(f.taker, tokenT); got != 0 {
		t.Fatalf("aborted batch must roll back, taker T = %d", got)
	}
}

func TestMethodSwitch(t *testing.T) {
	f := newFixture(t)
	f.credit(f.maker, tokenT, 100)
	f.credit(f.taker, ledger.NativeAsset, 1)
	o := f.order(100, 1, 1, 1)
	if err := f.mgr.SetMethodEnabled(nativecommon.SelectorOf(nativecommon.MethodTrade), false); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if _, err := f.engine.Trade(f.taker, o, f.sign(o)); !errors.Is(err, coreerrors.ErrMethodDisabled) {
		t.Fatalf("expected METHOD_DISABLED, got %v", err)
	}
	// Batches are switched independently of single trades.
	outcomes, err := f.engine.TakeAllPossible(f.taker, []*orders.Order{o}, [][]byte{f.sign(o)})
	if err != nil || !outcomes[0].Filled() {
		t.Fatalf("expected batch to settle, got %+v err=%v", outcomes, err)
	}
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	f.credit(f.maker, tokenT, 100)
	f.credit(f.taker, ledger.NativeAsset, 1)
	o := f.order(100, 1, 1, 1)
	if received := TakerReceived(o); received.Int64() != 100 {
		t.Fatalf("expected taker received 100, got %s", received)
	}
	if _, err := f.engine.Trade(f.taker, o, f.sign(o)); err != nil {
		t.Fatalf("trade: %v", err)
	}
	infos, err := f.engine.OrdersInfo(f.taker, []*orders.Order{o, f.order(100, 1, 1, 2)})
	if err != nil {
		t.Fatalf("orders info: %v", err)
	}
	if infos[0].Filled.Int64() != 1 || infos[1].Filled.Sign() != 0 {
		t.Fatalf("unexpected infos: %+v", infos)
	}
	fills, err := f.engine.Fills([]common.Hash{infos[0].Hash, infos[1].Hash})
	if err != nil || fills[0].Int64() != 1 || fills[1].Sign() != 0 {
		t.Fatalf("unexpected fills: %v err=%v", fills, err)
	}
}

func mustHash(t *testing.T, o *orders.Order) common.Hash {
	t.Helper()
	hash, err := orders.PrefixedHash(o)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return hash
}
