package exchange

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	coreerrors "weidex/core/errors"
	"weidex/core/events"
	nativecommon "weidex/native/common"
	"weidex/native/fees"
	"weidex/native/orders"
)

var (
	errNilState    = errors.New("exchange engine: state not configured")
	errNilLedger   = errors.New("exchange engine: ledger not configured")
	errNilVerifier = errors.New("exchange engine: signature verifier not configured")
)

type engineState interface {
	nativecommon.MethodView
	OrderFill(hash common.Hash) (*uint256.Int, error)
	SetOrderFill(hash common.Hash, filled *uint256.Int) error
	OrderCancelled(hash common.Hash) (bool, error)
	SetOrderCancelled(hash common.Hash) error
	FeeRates() (fees.Schedule, error)
	Height() (uint64, error)
	Snapshot() int
	RevertToSnapshot(id int)
}

// Ledger is the balance store the engine settles against.
type Ledger interface {
	Balance(user, asset common.Address) (*big.Int, error)
	Credit(user, asset common.Address, amount *big.Int) error
	Debit(user, asset common.Address, amount *big.Int) error
	Referral(user common.Address) (common.Address, bool, error)
}

// Engine matches signed maker orders against takers. It never holds balances
// itself: every leg of a settlement is a ledger credit or debit.
type Engine struct {
	state    engineState
	ledger   Ledger
	verifier orders.Verifier
	emitter  events.Emitter
	quota    nativecommon.Quota
}

// NewEngine creates a matching engine using secp256k1 signature recovery and a
// no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		verifier: orders.ECDSAVerifier{},
		emitter:  events.NoopEmitter{},
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetLedger configures the ledger settlements are applied to.
func (e *Engine) SetLedger(ledger Ledger) { e.ledger = ledger }

// SetVerifier overrides the signature verifier.
func (e *Engine) SetVerifier(verifier orders.Verifier) { e.verifier = verifier }

// SetQuota configures the structural limits applied to batch calls.
func (e *Engine) SetQuota(q nativecommon.Quota) { e.quota = q }

// SetEmitter configures the event emitter used by the engine. Passing nil resets
// the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.ledger == nil {
		return errNilLedger
	}
	if e.verifier == nil {
		return errNilVerifier
	}
	return nil
}

// TakerReceived returns the maker-sell amount a single trade of o delivers:
// floor(MakerSellAmount * TakerSellAmount / MakerBuyAmount).
func TakerReceived(o *orders.Order) *big.Int {
	if o == nil || o.MakerBuyAmount == nil || o.MakerBuyAmount.Sign() == 0 {
		return big.NewInt(0)
	}
	received := new(big.Int).Mul(amountOf(o.MakerSellAmount), amountOf(o.TakerSellAmount))
	return received.Quo(received, o.MakerBuyAmount)
}

// evaluation is the computed view of an order for one taker at the current
// height.
type evaluation struct {
	hash          common.Hash
	status        Status
	filled        *big.Int
	takerReceived *big.Int
}

func (e *Engine) evaluate(taker common.Address, o *orders.Order) (*evaluation, error) {
	hash, err := orders.PrefixedHash(o)
	if err != nil {
		return nil, err
	}
	height, err := e.state.Height()
	if err != nil {
		return nil, err
	}
	filled, err := e.state.OrderFill(hash)
	if err != nil {
		return nil, err
	}
	cancelled, err := e.state.OrderCancelled(hash)
	if err != nil {
		return nil, err
	}
	takerBalance, err := e.ledger.Balance(taker, o.MakerBuyToken)
	if err != nil {
		return nil, err
	}
	makerBalance, err := e.ledger.Balance(o.MakerAddress, o.MakerSellToken)
	if err != nil {
		return nil, err
	}
	received := TakerReceived(o)
	status := deriveStatus(statusInputs{
		height:          height,
		expiry:          o.Expiry(),
		makerBuyAmount:  o.MakerBuyAmount,
		takerSellAmount: amountOf(o.TakerSellAmount),
		takerReceived:   received,
		takerBalance:    takerBalance,
		makerBalance:    makerBalance,
		filled:          filled.ToBig(),
		cancelled:       cancelled,
	})
	return &evaluation{hash: hash, status: status, filled: filled.ToBig(), takerReceived: received}, nil
}

func (e *Engine) recover(o *orders.Order, digest common.Hash, sig []byte) error {
	signer, err := e.verifier.Recover(digest, sig)
	if err != nil {
		if coreerrors.ReasonCode(err) == "" {
			return fmt.Errorf("%w: %v", coreerrors.ErrInvalidSignature, err)
		}
		return err
	}
	if signer != o.MakerAddress {
		return fmt.Errorf("%w: recovered %s, maker is %s", coreerrors.ErrInvalidSigner, signer.Hex(), o.MakerAddress.Hex())
	}
	return nil
}

func amountOf(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
