package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent modification was detected.
var ErrConflict = errors.New("conflicting update")

// ErrInternal is returned when the failure should not leak details to the caller.
var ErrInternal = errors.New("internal error")

// ErrInsufficientFunds indicates an operation would drive a balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidTransition indicates a workflow precondition was not met.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrPermission indicates the actor lacks the role or department required for an action.
var ErrPermission = errors.New("permission denied")

// ErrForbidden is kept as an alias of ErrPermission for handlers.
var ErrForbidden = ErrPermission

// ErrInvariantViolation indicates an internal consistency check failed. It is always a bug.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrInvalidState indicates a reservation or reference that does not exist or was already resolved.
var ErrInvalidState = errors.New("invalid state")

// AppError wraps a lower level failure with an HTTP-ish status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with a message.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// InsufficientFundsError reports which bucket was short and by how much.
type InsufficientFundsError struct {
	Bucket    string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in %s: requested %s, available %s",
		e.Bucket, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// NewInsufficientFundsError builds an InsufficientFundsError.
func NewInsufficientFundsError(bucket string, requested, available decimal.Decimal) error {
	return &InsufficientFundsError{Bucket: bucket, Requested: requested, Available: available}
}

// InvalidTransitionError reports the state a request was in when an action was refused.
type InvalidTransitionError struct {
	RequestID    string
	CurrentState string
	Action       string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s request %s in state %s", e.Action, e.RequestID, e.CurrentState)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// NewInvalidTransitionError builds an InvalidTransitionError.
func NewInvalidTransitionError(requestID, currentState, action string) error {
	return &InvalidTransitionError{RequestID: requestID, CurrentState: currentState, Action: action}
}
