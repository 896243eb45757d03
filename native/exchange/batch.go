package exchange

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	coreerrors "weidex/core/errors"
	nativecommon "weidex/native/common"
	"weidex/native/orders"
)

// Outcome reports what happened to one item of a best-effort batch. Err is
// set for skipped items.
type Outcome struct {
	Index      int         `json:"index"`
	Settlement *Settlement `json:"settlement,omitempty"`
	Err        error       `json:"-"`
	Reason     string      `json:"reason,omitempty"`
}

// Filled reports whether the item settled.
func (o Outcome) Filled() bool { return o.Err == nil && o.Settlement != nil }

// TakeAllOrRevert settles every order in sequence. The first failure fails
// the whole call with INVALID_TAKEALL wrapping the cause.
func (e *Engine) TakeAllOrRevert(taker common.Address, list []*orders.Order, sigs [][]byte) ([]*Settlement, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.state, nativecommon.MethodTakeAllOrRevert); err != nil {
		return nil, err
	}
	if err := nativecommon.CheckBatch(e.quota, len(list), len(sigs)); err != nil {
		return nil, err
	}
	settlements := make([]*Settlement, 0, len(list))
	for i := range list {
		settlement, err := e.settle(taker, list[i], sigs[i])
		if err != nil {
			return nil, fmt.Errorf("%w: order %d: %w", coreerrors.ErrInvalidTakeAll, i, err)
		}
		settlements = append(settlements, settlement)
	}
	return settlements, nil
}

// TakeAllPossible settles each order independently. An order that fails a
// settlement precondition is rolled back and skipped; any other failure
// aborts the call.
func (e *Engine) TakeAllPossible(taker common.Address, list []*orders.Order, sigs [][]byte) ([]Outcome, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := nativecommon.Guard(e.state, nativecommon.MethodTakeAllPossible); err != nil {
		return nil, err
	}
	if err := nativecommon.CheckBatch(e.quota, len(list), len(sigs)); err != nil {
		return nil, err
	}
	outcomes := make([]Outcome, len(list))
	for i := range list {
		snap := e.state.Snapshot()
		settlement, err := e.settle(taker, list[i], sigs[i])
		if err != nil {
			if !skippable(err) {
				return nil, fmt.Errorf("order %d: %w", i, err)
			}
			e.state.RevertToSnapshot(snap)
			outcomes[i] = Outcome{Index: i, Err: err, Reason: coreerrors.ReasonCode(err)}
			continue
		}
		outcomes[i] = Outcome{Index: i, Settlement: settlement}
	}
	return outcomes, nil
}

// skippable reports whether a best-effort batch may discard err: settlement
// preconditions and signer mismatches. Malformed input and storage failures
// never qualify.
func skippable(err error) bool {
	switch coreerrors.ClassOf(err) {
	case coreerrors.ClassPrecondition:
		return true
	case coreerrors.ClassAuthorization:
		return errors.Is(err, coreerrors.ErrInvalidSigner)
	case coreerrors.ClassInput:
		return errors.Is(err, coreerrors.ErrInvalidSignature)
	default:
		return false
	}
}
