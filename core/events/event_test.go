package events

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

type recorder struct{ seen []string }

func (r *recorder) Emit(evt Event) { r.seen = append(r.seen, evt.EventType()) }

func TestTradeEventAttributes(t *testing.T) {
	evt := Trade{
		Maker:               common.HexToAddress("0x01"),
		Taker:               common.HexToAddress("0x02"),
		OrderHash:           common.HexToHash("0xabc"),
		MakerFilledAmount:   big.NewInt(1),
		TakerFilledAmount:   big.NewInt(100),
		TakerFeePaid:        big.NewInt(3),
		ReferralFeeReceived: nil,
	}.Event()
	if evt.Type != TypeTrade {
		t.Fatalf("unexpected type: %s", evt.Type)
	}
	if evt.Attributes["takerFilledAmount"] != "100" || evt.Attributes["takerFeePaid"] != "3" {
		t.Fatalf("unexpected attrs: %+v", evt.Attributes)
	}
	if evt.Attributes["referralFeeReceived"] != "0" || evt.Attributes["makerFeeReceived"] != "0" {
		t.Fatalf("nil amounts must render as zero: %+v", evt.Attributes)
	}
	if evt.Attributes["orderHash"] != common.HexToHash("0xabc").Hex() {
		t.Fatalf("unexpected order hash: %s", evt.Attributes["orderHash"])
	}
}

func TestDepositEventAttributes(t *testing.T) {
	user := common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	evt := Deposit{User: user, Beneficiary: user, Amount: big.NewInt(5), Balance: big.NewInt(15)}.Event()
	if evt.Attributes["asset"] != (common.Address{}).Hex() {
		t.Fatalf("expected native asset address, got %s", evt.Attributes["asset"])
	}
	if evt.Attributes["user"] != user.Hex() || evt.Attributes["balance"] != "15" {
		t.Fatalf("unexpected attrs: %+v", evt.Attributes)
	}
}

func TestBufferFlushAndTruncate(t *testing.T) {
	var buf Buffer
	buf.Emit(Withdraw{})
	mark := buf.Mark()
	buf.Emit(Trade{})
	buf.Emit(Cancel{})
	buf.Truncate(mark)
	buf.Emit(TokenBurned{})
	buf.Emit(nil)

	rec := &recorder{}
	flushed := buf.Flush(rec)
	if len(flushed) != 2 || buf.Len() != 0 {
		t.Fatalf("unexpected flush: %d events, %d left", len(flushed), buf.Len())
	}
	if rec.seen[0] != TypeWithdraw || rec.seen[1] != TypeTokenBurned {
		t.Fatalf("unexpected order: %v", rec.seen)
	}

	buf.Emit(Trade{})
	buf.Reset()
	if buf.Len() != 0 {
		t.Fatalf("expected reset buffer to be empty")
	}
}
