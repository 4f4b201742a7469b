package contribution

import (
	"errors"
	"fmt"
	"strings"

	vo "github.com/savedeities/contribute/internal/domain/contribution/valueobjects"
)

var (
	// ErrNoAmountSelected is returned by Resolve when neither slot is set.
	ErrNoAmountSelected = errors.New("no amount selected")
	// ErrInvalidAmount is returned by Resolve for an amount the form cannot accept.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAttemptInProgress rejects a submission while another attempt is running.
	ErrAttemptInProgress = errors.New("a contribution attempt is already in progress")
	// ErrAlreadySucceeded rejects re-submission of a request that already succeeded.
	ErrAlreadySucceeded = errors.New("this contribution has already been completed")
	// ErrInvalidTransition guards the attempt state machine.
	ErrInvalidTransition = errors.New("invalid attempt state transition")
)

// Generic messages used when a collaborator gives no reason of its own.
const (
	MessageOrderCreationFailed = "Failed to create order"
	MessageVerificationFailed  = "Payment verification failed"
	MessageScriptLoadFailed    = "Failed to load Razorpay SDK"
	MessageCancelledByUser     = "Payment cancelled by user"
)

// MissingFieldError lists the donor fields that were empty at submission.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required donor fields: %s", strings.Join(e.Fields, ", "))
}

// InvalidFieldError reports a donor field that is present but malformed.
// Only produced when strict validation is enabled.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid donor field %s: %s", e.Field, e.Reason)
}

// FailureError is the terminal failure of an attempt. Kind drives both user
// messaging and whether a retry is safe.
type FailureError struct {
	Kind    vo.FailureKind
	Message string
	Err     error
}

func (e *FailureError) Error() string {
	if e.Err != nil && e.Message != e.Err.Error() {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FailureError) Unwrap() error {
	return e.Err
}

func NewValidationFailure(err error) *FailureError {
	return &FailureError{Kind: vo.FailureKindValidation, Message: err.Error(), Err: err}
}

func NewScriptLoadFailure(err error) *FailureError {
	return &FailureError{Kind: vo.FailureKindScriptLoadFailed, Message: MessageScriptLoadFailed, Err: err}
}

// NewOrderCreationFailure keeps the backend message when there is one.
func NewOrderCreationFailure(message string, err error) *FailureError {
	if strings.TrimSpace(message) == "" {
		message = MessageOrderCreationFailed
	}
	return &FailureError{Kind: vo.FailureKindOrderCreationFailed, Message: message, Err: err}
}

func NewVerificationFailure(message string, err error) *FailureError {
	if strings.TrimSpace(message) == "" {
		message = MessageVerificationFailed
	}
	return &FailureError{Kind: vo.FailureKindVerificationFailed, Message: message, Err: err}
}

// FailureKindOf extracts the kind from err, or "" when err is not a FailureError.
func FailureKindOf(err error) vo.FailureKind {
	var fe *FailureError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
