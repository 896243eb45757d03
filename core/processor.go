package core

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	coreerrors "weidex/core/errors"
	"weidex/core/events"
	"weidex/core/genesis"
	"weidex/core/state"
	"weidex/core/types"
	nativecommon "weidex/native/common"
	"weidex/native/crowdsale"
	"weidex/native/exchange"
	"weidex/native/governance"
	"weidex/native/ledger"
	"weidex/native/token"
	"weidex/observability"
	"weidex/storage"
)

// Entry points outside the method switch.
const (
	methodSetMakerFeeRate       = "setMakerFeeRate"
	methodSetTakerFeeRate       = "setTakerFeeRate"
	methodSetReferralFeeRate    = "setReferralFeeRate"
	methodSetFeeAccount         = "setFeeAccount"
	methodTransferOwnership     = "transferOwnership"
	methodAllowOrRestrictMethod = "allowOrRestrictMethod"
	methodMint                  = "mint"
	methodApprove               = "approve"
	methodAdvanceHeight         = "advanceHeight"
	methodGenesis               = "genesis"
)

// DefaultEventLogLimit bounds the in-memory log of committed events.
const DefaultEventLogLimit = 4096

var errNilDatabase = errors.New("processor: database must not be nil")

// payable lists the entry points that accept attached native value.
var payable = map[string]bool{
	nativecommon.MethodDeposit:   true,
	nativecommon.MethodBuyTokens: true,
}

// Options tunes a Processor. The zero value is usable except for Vault.
type Options struct {
	Vault         common.Address
	Quota         nativecommon.Quota
	Logger        *slog.Logger
	Emitter       events.Emitter
	EventLogLimit int
}

// Processor is the atomic call runtime of the exchange. Each mutating entry
// point runs as one unit: attached value moves into the vault, the engine
// runs, and the state either commits as a whole or is rolled back together
// with the events the call produced. Calls are serialised.
type Processor struct {
	mu sync.Mutex

	state      *state.Manager
	book       *token.Book
	ledger     *ledger.Engine
	exchange   *exchange.Engine
	crowdsale  *crowdsale.Engine
	governance *governance.Engine

	buffer   *events.Buffer
	sink     events.Emitter
	eventLog []events.Event
	logLimit int

	logger *slog.Logger
	vault  common.Address
}

// NewProcessor wires every engine over a state manager backed by db.
func NewProcessor(db storage.Database, opts Options) (*Processor, error) {
	if db == nil {
		return nil, errNilDatabase
	}
	if opts.Vault == (common.Address{}) {
		return nil, fmt.Errorf("processor: vault address must be set")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Emitter
	if sink == nil {
		sink = events.NoopEmitter{}
	}
	limit := opts.EventLogLimit
	if limit <= 0 {
		limit = DefaultEventLogLimit
	}

	mgr := state.NewManager(db)
	buffer := &events.Buffer{}

	book := token.NewBook()
	book.SetState(mgr)

	led := ledger.NewEngine(opts.Vault)
	led.SetState(mgr)
	led.SetTokens(func(asset common.Address) ledger.Token { return book.Token(asset) })
	led.SetNative(book.Native())
	led.SetEmitter(buffer)

	exch := exchange.NewEngine()
	exch.SetState(mgr)
	exch.SetLedger(led)
	exch.SetQuota(opts.Quota)
	exch.SetEmitter(buffer)

	sale := crowdsale.NewEngine(opts.Vault, ledger.NativeAsset)
	sale.SetState(mgr)
	sale.SetLedger(led)
	sale.SetTokens(func(asset common.Address) crowdsale.Token { return book.Token(asset) })
	sale.SetEmitter(buffer)

	gov := governance.NewEngine()
	gov.SetState(mgr)
	gov.SetEmitter(buffer)

	return &Processor{
		state:      mgr,
		book:       book,
		ledger:     led,
		exchange:   exch,
		crowdsale:  sale,
		governance: gov,
		buffer:     buffer,
		sink:       sink,
		logLimit:   limit,
		logger:     logger.With(slog.String("component", "processor")),
		vault:      opts.Vault,
	}, nil
}

// Vault returns the custody address.
func (p *Processor) Vault() common.Address { return p.vault }

// Bootstrap writes the genesis on first start. It reports whether the
// genesis was applied.
func (p *Processor) Bootstrap(g *genesis.Genesis) (bool, error) {
	var wrote bool
	err := p.run(methodGenesis, types.Call{}, func() error {
		var err error
		wrote, err = genesis.Apply(g, p.state, p.book)
		return err
	})
	return wrote, err
}

// run executes fn as one atomic call.
func (p *Processor) run(method string, call types.Call, fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	snap := p.state.Snapshot()
	mark := p.buffer.Mark()

	err := p.attach(method, call)
	if err == nil {
		err = fn()
	}
	if err == nil {
		if commitErr := p.state.Commit(); commitErr != nil {
			p.state.Discard()
			err = commitErr
		}
	} else {
		p.state.RevertToSnapshot(snap)
	}

	elapsed := time.Since(start)
	if err != nil {
		p.buffer.Truncate(mark)
		reason := coreerrors.ReasonCode(err)
		p.logger.Info("call failed",
			slog.String("method", method),
			slog.String("sender", call.Sender.Hex()),
			slog.String("reason", reason),
			slog.String("error", err.Error()))
		observability.ExchangeMetrics().ObserveCall(method, reason, true, elapsed)
		return err
	}

	committed := p.buffer.Flush(p.sink)
	for _, evt := range committed {
		observability.Events().RecordEvent(evt.EventType())
	}
	p.appendLog(committed)
	p.logger.Debug("call committed",
		slog.String("method", method),
		slog.String("sender", call.Sender.Hex()),
		slog.Int("events", len(committed)),
		slog.Duration("elapsed", elapsed))
	observability.ExchangeMetrics().ObserveCall(method, "", false, elapsed)
	return nil
}

// attach moves the attached native value from the sender into the vault.
func (p *Processor) attach(method string, call types.Call) error {
	if !call.HasValue() {
		return nil
	}
	if !payable[method] {
		return fmt.Errorf("%w: %s does not accept value", coreerrors.ErrInvalidInput, method)
	}
	return p.book.Native().Send(call.Sender, p.vault, call.AttachedValue())
}

func (p *Processor) appendLog(committed []events.Event) {
	if len(committed) == 0 {
		return
	}
	p.eventLog = append(p.eventLog, committed...)
	if over := len(p.eventLog) - p.logLimit; over > 0 {
		p.eventLog = append([]events.Event(nil), p.eventLog[over:]...)
	}
}

// Events returns the committed events in emission order, oldest first.
func (p *Processor) Events() []*types.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*types.Event, 0, len(p.eventLog))
	for _, evt := range p.eventLog {
		out = append(out, evt.Event())
	}
	return out
}

// AdvanceHeight moves the chain position forward. Moving backwards fails
// with INVALID_HEIGHT.
func (p *Processor) AdvanceHeight(height uint64) error {
	return p.run(methodAdvanceHeight, types.Call{}, func() error {
		current, err := p.state.Height()
		if err != nil {
			return err
		}
		if height < current {
			return fmt.Errorf("%w: %d is below current height %d", coreerrors.ErrInvalidHeight, height, current)
		}
		return p.state.SetHeight(height)
	})
}

// Height returns the current chain position.
func (p *Processor) Height() (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Height()
}
