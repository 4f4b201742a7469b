package contribution

import (
	"fmt"
	"time"

	vo "github.com/savedeities/contribute/internal/domain/contribution/valueobjects"
	"github.com/savedeities/contribute/internal/shared/biztime"
)

// Attempt is one pass through the orchestrator state machine, bound to at
// most one Order. Attempts are never reused: a retry is a new Attempt.
type Attempt struct {
	id          string
	state       vo.AttemptState
	history     []vo.AttemptState
	request     *ContributionRequest
	order       *Order
	result      *GatewayResult
	receipt     *Receipt
	failure     *FailureError
	startedAt   time.Time
	finishedAt  *time.Time
	description string
}

// NewAttempt starts an attempt in Idle.
func NewAttempt(id, description string) *Attempt {
	return &Attempt{
		id:          id,
		state:       vo.AttemptStateIdle,
		history:     []vo.AttemptState{vo.AttemptStateIdle},
		startedAt:   biztime.NowUTC(),
		description: description,
	}
}

func (a *Attempt) transition(next vo.AttemptState) error {
	if !a.state.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.state, next)
	}
	a.state = next
	a.history = append(a.history, next)
	if next.IsTerminal() {
		now := biztime.NowUTC()
		a.finishedAt = &now
	}
	return nil
}

// BeginValidation moves Idle -> Validating.
func (a *Attempt) BeginValidation() error {
	return a.transition(vo.AttemptStateValidating)
}

// Accept records the validated request and moves Validating -> CreatingOrder.
func (a *Attempt) Accept(req *ContributionRequest) error {
	if err := a.transition(vo.AttemptStateCreatingOrder); err != nil {
		return err
	}
	a.request = req
	return nil
}

// AttachOrder records the order and moves CreatingOrder -> AwaitingGatewayResult.
// An attempt can hold only one order.
func (a *Attempt) AttachOrder(order *Order) error {
	if a.order != nil {
		return fmt.Errorf("attempt %s already has order %s", a.id, a.order.OrderID())
	}
	if err := a.transition(vo.AttemptStateAwaitingGatewayResult); err != nil {
		return err
	}
	a.order = order
	return nil
}

// BeginVerification records the gateway result and moves to Verifying. The
// result must belong to this attempt's order.
func (a *Attempt) BeginVerification(result GatewayResult) error {
	if a.order == nil || result.OrderID != a.order.OrderID() {
		return fmt.Errorf("gateway result for order %q does not belong to attempt %s", result.OrderID, a.id)
	}
	if err := a.transition(vo.AttemptStateVerifying); err != nil {
		return err
	}
	a.result = &result
	return nil
}

// Succeed moves Verifying -> Succeeded and issues the receipt.
func (a *Attempt) Succeed() error {
	if err := a.transition(vo.AttemptStateSucceeded); err != nil {
		return err
	}
	a.receipt = &Receipt{
		AttemptID:   a.id,
		OrderID:     a.order.OrderID(),
		PaymentID:   a.result.PaymentID,
		Amount:      a.request.Amount,
		Currency:    a.request.Currency,
		Description: a.description,
		ConfirmedAt: *a.finishedAt,
	}
	return nil
}

// Fail moves any non-terminal state to Failed.
func (a *Attempt) Fail(failure *FailureError) error {
	if err := a.transition(vo.AttemptStateFailed); err != nil {
		return err
	}
	a.failure = failure
	return nil
}

// Cancel moves AwaitingGatewayResult -> Cancelled.
func (a *Attempt) Cancel(reason string) error {
	if err := a.transition(vo.AttemptStateCancelled); err != nil {
		return err
	}
	if reason == "" {
		reason = MessageCancelledByUser
	}
	a.failure = &FailureError{Kind: vo.FailureKindCancelled, Message: reason}
	return nil
}

func (a *Attempt) ID() string {
	return a.id
}

func (a *Attempt) State() vo.AttemptState {
	return a.state
}

// History returns every state the attempt has been in, in order.
func (a *Attempt) History() []vo.AttemptState {
	out := make([]vo.AttemptState, len(a.history))
	copy(out, a.history)
	return out
}

func (a *Attempt) Request() *ContributionRequest {
	return a.request
}

func (a *Attempt) Order() *Order {
	return a.order
}

func (a *Attempt) Result() *GatewayResult {
	return a.result
}

func (a *Attempt) Receipt() *Receipt {
	return a.receipt
}

func (a *Attempt) Failure() *FailureError {
	return a.failure
}

func (a *Attempt) Description() string {
	return a.description
}

func (a *Attempt) StartedAt() time.Time {
	return a.startedAt
}

func (a *Attempt) FinishedAt() *time.Time {
	return a.finishedAt
}
