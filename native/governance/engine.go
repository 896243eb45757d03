package governance

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	coreerrors "weidex/core/errors"
	"weidex/core/events"
	nativecommon "weidex/native/common"
	"weidex/native/fees"
)

var errStateNotConfigured = errors.New("governance: state not configured")

type engineState interface {
	nativecommon.MethodView
	Owner() (common.Address, error)
	SetOwner(owner common.Address) error
	FeeRates() (fees.Schedule, error)
	SetFeeRates(schedule fees.Schedule) error
	SetMethodEnabled(sel nativecommon.Selector, enabled bool) error
}

// Engine applies owner-only changes to the fee schedule, the method switch
// and the owner identity itself.
type Engine struct {
	state   engineState
	emitter events.Emitter
}

// NewEngine creates a governance engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

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

func (e *Engine) authorize(caller common.Address) error {
	if e == nil || e.state == nil {
		return errStateNotConfigured
	}
	owner, err := e.state.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return coreerrors.ErrNotOwner
	}
	return nil
}

// SetMakerFeeRate replaces the maker fee rate.
func (e *Engine) SetMakerFeeRate(caller common.Address, rate *big.Int) error {
	return e.setRate(caller, fees.KindMaker, rate)
}

// SetTakerFeeRate replaces the taker fee rate.
func (e *Engine) SetTakerFeeRate(caller common.Address, rate *big.Int) error {
	return e.setRate(caller, fees.KindTaker, rate)
}

// SetReferralFeeRate replaces the share of each fee paid to referrers.
func (e *Engine) SetReferralFeeRate(caller common.Address, rate *big.Int) error {
	return e.setRate(caller, fees.KindReferral, rate)
}

func (e *Engine) setRate(caller common.Address, kind fees.Kind, rate *big.Int) error {
	if err := e.authorize(caller); err != nil {
		return err
	}
	if err := fees.CheckBounds(kind, rate); err != nil {
		return err
	}
	schedule, err := e.state.FeeRates()
	if err != nil {
		return err
	}
	var previous *big.Int
	next := new(big.Int).Set(rate)
	switch kind {
	case fees.KindMaker:
		previous, schedule.MakerFeeRate = schedule.MakerFeeRate, next
	case fees.KindTaker:
		previous, schedule.TakerFeeRate = schedule.TakerFeeRate, next
	case fees.KindReferral:
		previous, schedule.ReferralFeeRate = schedule.ReferralFeeRate, next
	}
	if err := e.state.SetFeeRates(schedule); err != nil {
		return err
	}
	e.emit(events.FeeRateUpdated{Kind: string(kind), Previous: previous, Rate: new(big.Int).Set(next)})
	return nil
}

// SetFeeAccount replaces the account collecting trading fees.
func (e *Engine) SetFeeAccount(caller, account common.Address) error {
	if err := e.authorize(caller); err != nil {
		return err
	}
	if account == (common.Address{}) {
		return fmt.Errorf("%w: fee account must be set", coreerrors.ErrInvalidWallet)
	}
	schedule, err := e.state.FeeRates()
	if err != nil {
		return err
	}
	previous := schedule.FeeAccount
	schedule.FeeAccount = account
	if err := e.state.SetFeeRates(schedule); err != nil {
		return err
	}
	e.emit(events.FeeAccountUpdated{Previous: previous, Account: account})
	return nil
}

// TransferOwnership hands governance to next.
func (e *Engine) TransferOwnership(caller, next common.Address) error {
	if err := e.authorize(caller); err != nil {
		return err
	}
	if next == (common.Address{}) {
		return fmt.Errorf("%w: owner must be set", coreerrors.ErrInvalidInput)
	}
	if err := e.state.SetOwner(next); err != nil {
		return err
	}
	e.emit(events.OwnershipTransferred{Previous: caller, Owner: next})
	return nil
}

// AllowOrRestrictMethod flips the switch for a user-facing method.
func (e *Engine) AllowOrRestrictMethod(caller common.Address, method string, enabled bool) error {
	if err := e.authorize(caller); err != nil {
		return err
	}
	if !nativecommon.IsSwitchable(method) {
		return fmt.Errorf("%w: method %q is not switchable", coreerrors.ErrInvalidInput, method)
	}
	sel := nativecommon.SelectorOf(method)
	if err := e.state.SetMethodEnabled(sel, enabled); err != nil {
		return err
	}
	e.emit(events.MethodSwitched{Method: method, Selector: sel, Enabled: enabled})
	return nil
}

// FeeRates returns the current fee schedule.
func (e *Engine) FeeRates() (fees.Schedule, error) {
	if e == nil || e.state == nil {
		return fees.Schedule{}, errStateNotConfigured
	}
	return e.state.FeeRates()
}

// Owner returns the governing identity.
func (e *Engine) Owner() (common.Address, error) {
	if e == nil || e.state == nil {
		return common.Address{}, errStateNotConfigured
	}
	return e.state.Owner()
}

// MethodEnabled reports the switch position of method. Methods outside the
// switchable set are always enabled.
func (e *Engine) MethodEnabled(method string) (bool, error) {
	if e == nil || e.state == nil {
		return false, errStateNotConfigured
	}
	if !nativecommon.IsSwitchable(method) {
		return true, nil
	}
	return e.state.MethodEnabled(nativecommon.SelectorOf(method))
}
