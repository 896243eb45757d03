package crowdsale

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

var (
	errNilState  = errors.New("crowdsale engine: state not configured")
	errNilLedger = errors.New("crowdsale engine: ledger not configured")
	errNilTokens = errors.New("crowdsale engine: token collaborators not configured")
)

type engineState interface {
	nativecommon.MethodView
	Owner() (common.Address, error)
	Height() (uint64, error)
	Crowdsale(asset common.Address) (*Crowdsale, error)
	PutCrowdsale(asset common.Address, record *Crowdsale) error
	Contribution(asset common.Address, campaign uint64, user common.Address) (*uint256.Int, error)
	SetContribution(asset common.Address, campaign uint64, user common.Address, amount *uint256.Int) error
}

// Ledger is the balance writer the crowdsale credits purchases through.
type Ledger interface {
	Credit(user, asset common.Address, amount *big.Int) error
}

// Token moves sale supply in and out of the vault. A false result means the
// token refused the movement.
type Token interface {
	TransferFrom(spender, from, to common.Address, amount *big.Int) (bool, error)
	Transfer(from, to common.Address, amount *big.Int) (bool, error)
}

// TokenResolver returns the collaborator for a sale asset.
type TokenResolver func(asset common.Address) Token

// Engine runs token sale campaigns. Sale supply is held by the vault and
// purchases are settled as exchange balances.
type Engine struct {
	state   engineState
	ledger  Ledger
	tokens  TokenResolver
	emitter events.Emitter
	vault   common.Address
	native  common.Address
}

// NewEngine creates a crowdsale engine whose supply is held at vault.
// Contributions are denominated in nativeAsset.
func NewEngine(vault, nativeAsset common.Address) *Engine {
	return &Engine{emitter: events.NoopEmitter{}, vault: vault, native: nativeAsset}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetLedger configures the exchange ledger purchases are credited through.
func (e *Engine) SetLedger(ledger Ledger) { e.ledger = ledger }

// SetTokens configures how sale assets resolve to token collaborators.
func (e *Engine) SetTokens(resolver TokenResolver) { e.tokens = resolver }

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

// contribution returns what user put into the current campaign of record.
func (e *Engine) contribution(asset common.Address, record *Crowdsale, user common.Address) (*uint256.Int, error) {
	if record == nil {
		return new(uint256.Int), nil
	}
	return e.state.Contribution(asset, record.Campaign, user)
}

// Register opens a campaign selling asset. Only the owner may register, and
// the full LeftAmount is pulled from the campaign wallet into the vault. An
// asset may be registered again once its previous campaign finished and
// burned its unsold supply; contributions are then counted afresh.
func (e *Engine) Register(caller, asset common.Address, record *Crowdsale) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := nativecommon.Guard(e.state, nativecommon.MethodRegisterCrowdsale); err != nil {
		return err
	}
	owner, err := e.state.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return coreerrors.ErrNotOwner
	}
	if record == nil {
		return fmt.Errorf("%w: missing crowdsale record", coreerrors.ErrInvalidInput)
	}
	if asset == e.native {
		return fmt.Errorf("%w: native asset cannot be sold", coreerrors.ErrInvalidCrowdsale)
	}
	height, err := e.state.Height()
	if err != nil {
		return err
	}
	existing, err := e.state.Crowdsale(asset)
	if err != nil {
		return err
	}
	if existing.Active(height) {
		return coreerrors.ErrCrowdsaleAlreadyExists
	}
	if status := ClassifyRegistration(record, height); status != RegistrationValid {
		return fmt.Errorf("%w: %s", coreerrors.ErrInvalidCrowdsale, status)
	}
	if record.Wallet == (common.Address{}) {
		return coreerrors.ErrInvalidWallet
	}
	stored := record.Clone()
	stored.WeiRaised = big.NewInt(0)
	stored.Burned = false
	stored.Campaign = 0
	if existing != nil {
		stored.Campaign = existing.Campaign + 1
	}
	if stored.MinContribution.Sign() < 0 || stored.MaxContribution.Sign() < 0 {
		return fmt.Errorf("%w: negative contribution bound", coreerrors.ErrInvalidInput)
	}
	if _, err := nativecommon.ToUint256(stored.LeftAmount); err != nil {
		return err
	}

	tok, err := e.token(asset)
	if err != nil {
		return err
	}
	ok, err := tok.TransferFrom(e.vault, stored.Wallet, e.vault, stored.LeftAmount)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: wallet supply not transferable", coreerrors.ErrTransferFailed)
	}
	if err := e.state.PutCrowdsale(asset, stored); err != nil {
		return err
	}
	e.emit(events.CrowdsaleRegistered{
		Asset:      asset,
		Wallet:     stored.Wallet,
		StartBlock: stored.StartBlock,
		EndBlock:   stored.EndBlock,
		HardCap:    new(big.Int).Set(stored.HardCap),
		TokenRatio: new(big.Int).Set(stored.TokenRatio),
		LeftAmount: new(big.Int).Set(stored.LeftAmount),
	})
	return nil
}

// BuyTokens spends value native units on the campaign of asset. The caller
// is credited value×TokenRatio of asset and the campaign wallet is credited
// value on the exchange ledger. It returns the purchased token amount.
func (e *Engine) BuyTokens(caller common.Address, value *big.Int, asset common.Address) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.state, nativecommon.MethodBuyTokens); err != nil {
		return nil, err
	}
	paid, err := nativecommon.ToUint256(value)
	if err != nil {
		return nil, err
	}
	if paid.IsZero() {
		return nil, fmt.Errorf("%w: contribution must carry value", coreerrors.ErrInvalidContribution)
	}
	record, err := e.state.Crowdsale(asset)
	if err != nil {
		return nil, err
	}
	height, err := e.state.Height()
	if err != nil {
		return nil, err
	}
	contributed, err := e.contribution(asset, record, caller)
	if err != nil {
		return nil, err
	}
	amount := paid.ToBig()
	if status := ClassifyContribution(record, height, contributed.ToBig(), amount); status != ContributionValid {
		return nil, fmt.Errorf("%w: %s", coreerrors.ErrInvalidContribution, status)
	}

	tokens := new(big.Int).Mul(amount, record.TokenRatio)
	if tokens.Cmp(record.LeftAmount) > 0 {
		return nil, fmt.Errorf("%w: sale supply exhausted", coreerrors.ErrInvalidContribution)
	}
	updated := record.Clone()
	updated.LeftAmount.Sub(updated.LeftAmount, tokens)
	updated.WeiRaised.Add(updated.WeiRaised, amount)
	total, overflow := new(uint256.Int).AddOverflow(contributed, paid)
	if overflow {
		return nil, fmt.Errorf("%w: contribution overflows", coreerrors.ErrInvalidAmount)
	}

	if err := e.ledger.Credit(caller, asset, tokens); err != nil {
		return nil, err
	}
	if err := e.ledger.Credit(updated.Wallet, e.native, amount); err != nil {
		return nil, err
	}
	if err := e.state.SetContribution(asset, updated.Campaign, caller, total); err != nil {
		return nil, err
	}
	if err := e.state.PutCrowdsale(asset, updated); err != nil {
		return nil, err
	}
	e.emit(events.TokenPurchase{
		Asset:       asset,
		User:        caller,
		TokenAmount: new(big.Int).Set(tokens),
		WeiAmount:   new(big.Int).Set(amount),
	})
	return tokens, nil
}

// BurnTokensWhenFinished sends the unsold supply of a finished campaign to
// BurnAddress and returns the burned amount. Anyone may trigger it; calling
// it again after a burn does nothing.
func (e *Engine) BurnTokensWhenFinished(caller, asset common.Address) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.state, nativecommon.MethodBurnTokens); err != nil {
		return nil, err
	}
	record, err := e.state.Crowdsale(asset)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, coreerrors.ErrCrowdsaleNotFound
	}
	height, err := e.state.Height()
	if err != nil {
		return nil, err
	}
	if !record.Finished(height) {
		return nil, fmt.Errorf("%w: ends at %d", coreerrors.ErrCrowdsaleNotFinishedYet, record.EndBlock)
	}
	if record.Burned {
		return big.NewInt(0), nil
	}
	burned := new(big.Int).Set(record.LeftAmount)
	if burned.Sign() > 0 {
		tok, err := e.token(asset)
		if err != nil {
			return nil, err
		}
		ok, err := tok.Transfer(e.vault, BurnAddress, burned)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: burn refused", coreerrors.ErrTransferFailed)
		}
	}
	updated := record.Clone()
	updated.LeftAmount = big.NewInt(0)
	updated.Burned = true
	if err := e.state.PutCrowdsale(asset, updated); err != nil {
		return nil, err
	}
	e.emit(events.TokenBurned{Asset: asset, TokenAmount: new(big.Int).Set(burned)})
	return burned, nil
}

// Crowdsale returns a copy of the campaign registered for asset, or nil.
func (e *Engine) Crowdsale(asset common.Address) (*Crowdsale, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.state.Crowdsale(asset)
}

// Contribution returns the cumulative native amount user put into the
// current campaign of asset.
func (e *Engine) Contribution(asset, user common.Address) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, err := e.state.Crowdsale(asset)
	if err != nil {
		return nil, err
	}
	amount, err := e.contribution(asset, record, user)
	if err != nil {
		return nil, err
	}
	return amount.ToBig(), nil
}

// RegistrationStatus classifies record against the current height without
// registering it.
func (e *Engine) RegistrationStatus(record *Crowdsale) (RegistrationStatus, error) {
	if e == nil || e.state == nil {
		return RegistrationInvalidStartBlock, errNilState
	}
	height, err := e.state.Height()
	if err != nil {
		return RegistrationInvalidStartBlock, err
	}
	return ClassifyRegistration(record, height), nil
}

// ContributionStatus classifies a prospective contribution of amount by user
// to the campaign of asset.
func (e *Engine) ContributionStatus(asset, user common.Address, amount *big.Int) (ContributionStatus, error) {
	if e == nil || e.state == nil {
		return ContributionNotOpen, errNilState
	}
	record, err := e.state.Crowdsale(asset)
	if err != nil {
		return ContributionNotOpen, err
	}
	height, err := e.state.Height()
	if err != nil {
		return ContributionNotOpen, err
	}
	contributed, err := e.contribution(asset, record, user)
	if err != nil {
		return ContributionNotOpen, err
	}
	return ClassifyContribution(record, height, contributed.ToBig(), amount), nil
}
