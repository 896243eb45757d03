package ledger

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	coreerrors "weidex/core/errors"
	"weidex/core/events"
	nativecommon "weidex/native/common"
)

// NativeAsset is the asset identifier reserved for the native currency.
var NativeAsset = common.Address{}

var (
	errNilState  = errors.New("ledger engine: state not configured")
	errNilTokens = errors.New("ledger engine: token collaborators not configured")
)

type engineState interface {
	nativecommon.MethodView
	Balance(user, asset common.Address) (*uint256.Int, error)
	SetBalance(user, asset common.Address, amount *uint256.Int) error
	Referral(user common.Address) (common.Address, bool, error)
	SetReferral(user, referrer common.Address) error
}

// Token is the fungible-token collaborator. A false result means the token
// refused the movement.
type Token interface {
	BalanceOf(holder common.Address) (*big.Int, error)
	TransferFrom(spender, from, to common.Address, amount *big.Int) (bool, error)
	Transfer(from, to common.Address, amount *big.Int) (bool, error)
}

// TokenResolver returns the collaborator for a token asset.
type TokenResolver func(asset common.Address) Token

// NativeSender moves native currency out of the vault. It must either fully
// succeed or return an error.
type NativeSender interface {
	Send(from, to common.Address, amount *big.Int) error
}

// Engine is the single writer of exchange balances. Every credit and debit
// performed by the matching engine and the crowdsale goes through it.
type Engine struct {
	state   engineState
	emitter events.Emitter
	tokens  TokenResolver
	native  NativeSender
	vault   common.Address
}

// NewEngine creates a ledger engine holding custody at vault.
func NewEngine(vault common.Address) *Engine {
	return &Engine{emitter: events.NoopEmitter{}, vault: vault}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetTokens configures the resolver for token collaborators.
func (e *Engine) SetTokens(resolver TokenResolver) { e.tokens = resolver }

// SetNative configures the native-currency transfer primitive.
func (e *Engine) SetNative(native NativeSender) { e.native = native }

// SetEmitter configures the event emitter used by the engine. Passing nil resets
// the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// Vault returns the custody address of the exchange.
func (e *Engine) Vault() common.Address { return e.vault }

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
	return nil
}

func (e *Engine) token(asset common.Address) (Token, error) {
	if e.tokens == nil {
		return nil, errNilTokens
	}
	tok := e.tokens(asset)
	if tok == nil {
		return nil, fmt.Errorf("%w: token %s unavailable", coreerrors.ErrTransferFailed, asset.Hex())
	}
	return tok, nil
}

// Deposit credits amount of asset to beneficiary. Native deposits must attach
// exactly amount as value; token deposits pull amount from the caller into
// the vault and must not attach value. The first deposit links the
// beneficiary to referrer unless it would refer to itself.
func (e *Engine) Deposit(caller common.Address, value *big.Int, asset common.Address, amount *big.Int, beneficiary, referrer common.Address) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := nativecommon.Guard(e.state, nativecommon.MethodDeposit); err != nil {
		return err
	}
	credit, err := nativecommon.ToUint256(amount)
	if err != nil {
		return err
	}
	if credit.IsZero() {
		return fmt.Errorf("%w: deposit amount must be positive", coreerrors.ErrInvalidAmount)
	}
	attached, err := nativecommon.ToUint256(value)
	if err != nil {
		return err
	}
	if asset == NativeAsset {
		if !attached.Eq(credit) {
			return fmt.Errorf("%w: attached value %s does not match amount %s", coreerrors.ErrInvalidDeposit, attached.Dec(), credit.Dec())
		}
	} else {
		if !attached.IsZero() {
			return fmt.Errorf("%w: token deposit carries native value", coreerrors.ErrInvalidDeposit)
		}
		tok, err := e.token(asset)
		if err != nil {
			return err
		}
		ok, err := tok.TransferFrom(e.vault, caller, e.vault, amount)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: transferFrom %s refused", coreerrors.ErrTransferFailed, asset.Hex())
		}
	}

	balance, err := e.credit(beneficiary, asset, credit)
	if err != nil {
		return err
	}
	referral, err := e.linkReferral(beneficiary, referrer)
	if err != nil {
		return err
	}
	e.emit(events.Deposit{
		Asset:       asset,
		User:        caller,
		Referral:    referral,
		Beneficiary: beneficiary,
		Amount:      credit.ToBig(),
		Balance:     balance.ToBig(),
	})
	return nil
}

func (e *Engine) linkReferral(user, referrer common.Address) (common.Address, error) {
	current, linked, err := e.state.Referral(user)
	if err != nil {
		return common.Address{}, err
	}
	if linked || referrer == user {
		return current, nil
	}
	if err := e.state.SetReferral(user, referrer); err != nil {
		return common.Address{}, err
	}
	return referrer, nil
}

// Withdraw debits amount of asset from caller and sends it out of the vault.
// A refused outbound transfer fails the whole call.
func (e *Engine) Withdraw(caller, asset common.Address, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := nativecommon.Guard(e.state, nativecommon.MethodWithdraw); err != nil {
		return err
	}
	debit, err := nativecommon.ToUint256(amount)
	if err != nil {
		return err
	}
	balance, err := e.debit(caller, asset, debit)
	if err != nil {
		return err
	}
	if asset == NativeAsset {
		if e.native == nil {
			return fmt.Errorf("%w: native transfer primitive not configured", coreerrors.ErrTransferFailed)
		}
		if err := e.native.Send(e.vault, caller, debit.ToBig()); err != nil {
			if !errors.Is(err, coreerrors.ErrTransferFailed) {
				return fmt.Errorf("%w: %v", coreerrors.ErrTransferFailed, err)
			}
			return err
		}
	} else {
		tok, err := e.token(asset)
		if err != nil {
			return err
		}
		ok, err := tok.Transfer(e.vault, caller, debit.ToBig())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: transfer %s refused", coreerrors.ErrTransferFailed, asset.Hex())
		}
	}
	e.emit(events.Withdraw{
		Asset:   asset,
		User:    caller,
		Amount:  debit.ToBig(),
		Balance: balance.ToBig(),
	})
	return nil
}

// Transfer moves amount of asset between two exchange balances without any
// external movement.
func (e *Engine) Transfer(caller, asset, beneficiary common.Address, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := nativecommon.Guard(e.state, nativecommon.MethodTransfer); err != nil {
		return err
	}
	value, err := nativecommon.ToUint256(amount)
	if err != nil {
		return err
	}
	userBalance, err := e.debit(caller, asset, value)
	if err != nil {
		return err
	}
	beneficiaryBalance, err := e.credit(beneficiary, asset, value)
	if err != nil {
		return err
	}
	if caller == beneficiary {
		userBalance = beneficiaryBalance
	}
	e.emit(events.Transfer{
		Asset:              asset,
		User:               caller,
		Beneficiary:        beneficiary,
		Amount:             value.ToBig(),
		UserBalance:        userBalance.ToBig(),
		BeneficiaryBalance: beneficiaryBalance.ToBig(),
	})
	return nil
}

// Credit adds amount to the balance of user. It fails closed when the balance
// would overflow.
func (e *Engine) Credit(user, asset common.Address, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	value, err := nativecommon.ToUint256(amount)
	if err != nil {
		return err
	}
	_, err = e.credit(user, asset, value)
	return err
}

// Debit subtracts amount from the balance of user. It never clamps: a short
// balance fails with INSUFFICIENT_BALANCE and leaves the balance untouched.
func (e *Engine) Debit(user, asset common.Address, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	value, err := nativecommon.ToUint256(amount)
	if err != nil {
		return err
	}
	_, err = e.debit(user, asset, value)
	return err
}

func (e *Engine) credit(user, asset common.Address, amount *uint256.Int) (*uint256.Int, error) {
	current, err := e.state.Balance(user, asset)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return current, nil
	}
	next, overflow := new(uint256.Int).AddOverflow(current, amount)
	if overflow {
		return nil, fmt.Errorf("%w: credit overflows balance of %s", coreerrors.ErrInvalidAmount, user.Hex())
	}
	if err := e.state.SetBalance(user, asset, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (e *Engine) debit(user, asset common.Address, amount *uint256.Int) (*uint256.Int, error) {
	current, err := e.state.Balance(user, asset)
	if err != nil {
		return nil, err
	}
	if current.Lt(amount) {
		return nil, fmt.Errorf("%w: %s holds %s of %s, needs %s", coreerrors.ErrInsufficientBalance, user.Hex(), current.Dec(), asset.Hex(), amount.Dec())
	}
	if amount.IsZero() {
		return current, nil
	}
	next := new(uint256.Int).Sub(current, amount)
	if err := e.state.SetBalance(user, asset, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Balance returns the exchange balance of user for asset.
func (e *Engine) Balance(user, asset common.Address) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	value, err := e.state.Balance(user, asset)
	if err != nil {
		return nil, err
	}
	return value.ToBig(), nil
}

// Balances returns the balances of user for each asset, in order.
func (e *Engine) Balances(user common.Address, assets []common.Address) ([]*big.Int, error) {
	out := make([]*big.Int, len(assets))
	for i, asset := range assets {
		bal, err := e.Balance(user, asset)
		if err != nil {
			return nil, err
		}
		out[i] = bal
	}
	return out, nil
}

// Referral returns the referrer linked to user and whether one was linked.
func (e *Engine) Referral(user common.Address) (common.Address, bool, error) {
	if err := e.ready(); err != nil {
		return common.Address{}, false, err
	}
	return e.state.Referral(user)
}
