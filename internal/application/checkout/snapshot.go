package checkout

import (
	"fmt"

	"github.com/savedeities/contribute/internal/domain/contribution"
	vo "github.com/savedeities/contribute/internal/domain/contribution/valueobjects"
	"github.com/savedeities/contribute/internal/shared/biztime"
)

// Snapshot is the page's view of the current attempt.
type Snapshot struct {
	AttemptID    string                       `json:"attempt_id,omitempty"`
	State        vo.AttemptState              `json:"state"`
	Amount       string                       `json:"amount,omitempty"`
	Currency     string                       `json:"currency,omitempty"`
	Description  string                       `json:"description,omitempty"`
	OrderID      string                       `json:"order_id,omitempty"`
	Session      *contribution.GatewaySession `json:"session,omitempty"`
	AttemptToken string                       `json:"attempt_token,omitempty"`
	Receipt      *ReceiptView                 `json:"receipt,omitempty"`
	Failure      *FailureView                 `json:"failure,omitempty"`
	UserMessage  string                       `json:"user_message,omitempty"`
	History      []vo.AttemptState            `json:"history,omitempty"`
}

// ReceiptView is the thank-you payload.
type ReceiptView struct {
	contribution.Receipt
	DisplayAmount    string `json:"display_amount"`
	ConfirmedAtLocal string `json:"confirmed_at_local"`
}

// FailureView tells the page what went wrong and what the donor may do next.
type FailureView struct {
	Kind            vo.FailureKind `json:"kind"`
	Message         string         `json:"message"`
	Retryable       bool           `json:"retryable"`
	SupportRequired bool           `json:"support_required"`
}

const (
	messageCreatingOrder = "Preparing your contribution"
	messageAwaiting      = "Complete the payment in the checkout window"
	messageVerifying     = "Confirming your payment"
)

func newSnapshot(a *contribution.Attempt, co Checkout) *Snapshot {
	if a == nil {
		return &Snapshot{State: vo.AttemptStateIdle}
	}

	s := &Snapshot{
		AttemptID:   a.ID(),
		State:       a.State(),
		Description: a.Description(),
		History:     a.History(),
	}
	if req := a.Request(); req != nil {
		s.Amount = req.Amount.String()
		s.Currency = req.Currency
	}
	if order := a.Order(); order != nil {
		s.OrderID = order.OrderID()
	}
	if co != nil && a.State() == vo.AttemptStateAwaitingGatewayResult {
		session := co.Session()
		s.Session = &session
	}
	if r := a.Receipt(); r != nil {
		s.Receipt = &ReceiptView{
			Receipt:          *r,
			DisplayAmount:    r.DisplayAmount(),
			ConfirmedAtLocal: biztime.FormatReceiptTime(r.ConfirmedAt),
		}
	}
	if f := a.Failure(); f != nil {
		s.Failure = &FailureView{
			Kind:            f.Kind,
			Message:         f.Message,
			Retryable:       f.Kind.IsRetrySafe(),
			SupportRequired: f.Kind.RequiresSupport(),
		}
	}
	s.UserMessage = userMessage(a)
	return s
}

func userMessage(a *contribution.Attempt) string {
	switch a.State() {
	case vo.AttemptStateValidating, vo.AttemptStateCreatingOrder:
		return messageCreatingOrder
	case vo.AttemptStateAwaitingGatewayResult:
		return messageAwaiting
	case vo.AttemptStateVerifying:
		return messageVerifying
	case vo.AttemptStateSucceeded:
		return fmt.Sprintf("Thank you! Your contribution of %s has been received.", a.Receipt().DisplayAmount())
	case vo.AttemptStateFailed, vo.AttemptStateCancelled:
		f := a.Failure()
		if f == nil {
			return ""
		}
		if f.Kind.RequiresSupport() {
			return pendingConfirmationMessage(a)
		}
		return f.Message
	}
	return ""
}

// pendingConfirmationMessage is shown when money may have moved but the
// backend has not confirmed it. It never suggests paying again.
func pendingConfirmationMessage(a *contribution.Attempt) string {
	msg := "Your payment was received but is pending confirmation. Please contact support before trying again"
	if r := a.Result(); r != nil && r.PaymentID != "" {
		return fmt.Sprintf("%s and quote payment ID %s.", msg, r.PaymentID)
	}
	return msg + "."
}
