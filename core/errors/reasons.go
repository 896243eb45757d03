package errors

import stderrors "errors"

// Class groups failure reasons by who is at fault.
type Class uint8

const (
	ClassUnknown Class = iota
	// ClassAuthorization covers wrong signers, non-owner governance calls and
	// disabled methods.
	ClassAuthorization
	// ClassPrecondition covers state that does not allow the call right now.
	ClassPrecondition
	// ClassCollaborator covers failures reported by token or native-asset
	// collaborators.
	ClassCollaborator
	// ClassInput covers malformed call shapes.
	ClassInput
)

func (c Class) String() string {
	switch c {
	case ClassAuthorization:
		return "authorization"
	case ClassPrecondition:
		return "precondition"
	case ClassCollaborator:
		return "collaborator"
	case ClassInput:
		return "input"
	default:
		return "unknown"
	}
}

// Reason is a failure code surfaced to callers as the cause of a failed call.
type Reason struct {
	code  string
	class Class
}

func newReason(code string, class Class) *Reason {
	return &Reason{code: code, class: class}
}

func (r *Reason) Error() string { return r.code }

// Code returns the stable reason code, e.g. INVALID_ORDER.
func (r *Reason) Code() string { return r.code }

// Class returns the failure class of the reason.
func (r *Reason) Class() Class { return r.class }

var (
	ErrInvalidSigner  = newReason("INVALID_SIGNER", ClassAuthorization)
	ErrNotOwner       = newReason("NOT_OWNER", ClassAuthorization)
	ErrMethodDisabled = newReason("METHOD_DISABLED", ClassAuthorization)

	ErrInsufficientBalance     = newReason("INSUFFICIENT_BALANCE", ClassPrecondition)
	ErrInvalidOrder            = newReason("INVALID_ORDER", ClassPrecondition)
	ErrInvalidTrade            = newReason("INVALID_TRADE", ClassPrecondition)
	ErrInvalidTakeAll          = newReason("INVALID_TAKEALL", ClassPrecondition)
	ErrInvalidContribution     = newReason("INVALID_CONTRIBUTION", ClassPrecondition)
	ErrInvalidCrowdsale        = newReason("INVALID_CROWDSALE", ClassPrecondition)
	ErrCrowdsaleAlreadyExists  = newReason("CROWDSALE_ALREADY_EXISTS", ClassPrecondition)
	ErrCrowdsaleNotFinishedYet = newReason("CROWDSALE_NOT_FINISHED_YET", ClassPrecondition)
	ErrCrowdsaleNotFound       = newReason("CROWDSALE_NOT_FOUND", ClassPrecondition)
	ErrInvalidDeposit          = newReason("INVALID_DEPOSIT", ClassPrecondition)
	ErrInvalidAmount           = newReason("INVALID_AMOUNT", ClassPrecondition)
	ErrInvalidFeeRate          = newReason("INVALID_FEE_RATE", ClassPrecondition)
	ErrInvalidWallet           = newReason("INVALID_WALLET", ClassPrecondition)
	ErrInvalidHeight           = newReason("INVALID_HEIGHT", ClassPrecondition)

	ErrTransferFailed = newReason("TRANSFER_FAILED", ClassCollaborator)

	ErrInvalidInput     = newReason("INVALID_INPUT", ClassInput)
	ErrInvalidSignature = newReason("INVALID_SIGNATURE", ClassInput)
)

// AsReason extracts the outermost Reason wrapped by err.
func AsReason(err error) (*Reason, bool) {
	var reason *Reason
	if stderrors.As(err, &reason) {
		return reason, true
	}
	return nil, false
}

// ReasonCode returns the reason code carried by err or an empty string when
// err does not wrap a Reason.
func ReasonCode(err error) string {
	if reason, ok := AsReason(err); ok {
		return reason.code
	}
	return ""
}

// ClassOf reports the failure class carried by err.
func ClassOf(err error) Class {
	if reason, ok := AsReason(err); ok {
		return reason.class
	}
	return ClassUnknown
}
