package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savedeities/contribute/internal/domain/contribution"
)

// ScriptLoader acquires the gateway's client library. EnsureLoaded is
// idempotent: after one success it never fails again.
type ScriptLoader interface {
	EnsureLoaded(ctx context.Context) error
}

// OrderService creates the backend order an attempt is bound to. Errors
// should be *contribution.FailureError of kind order_creation_failed; any
// other error is wrapped as one.
type OrderService interface {
	CreateOrder(ctx context.Context, req *contribution.ContributionRequest) (*contribution.Order, error)
}

// GatewayBridge opens a hosted checkout for an order.
type GatewayBridge interface {
	Open(ctx context.Context, order *contribution.Order, profile contribution.DonorProfile, description string) (Checkout, error)
}

// Checkout is one open gateway session. It resolves exactly once: Complete
// and Dismiss after resolution return ErrCheckoutResolved.
type Checkout interface {
	Session() contribution.GatewaySession
	Complete(result contribution.GatewayResult) error
	Dismiss(reason string) error
	// Await blocks until the checkout resolves. Cancelling ctx resolves it
	// as Cancelled.
	Await(ctx context.Context) contribution.GatewayOutcome
}

// VerificationService asks the backend to confirm a gateway result. A
// non-nil error means the backend could not be reached or answered badly.
type VerificationService interface {
	Verify(ctx context.Context, result contribution.GatewayResult) (contribution.VerificationOutcome, error)
}

// InFlightGuard stops one donor from running attempts on two sessions (or
// two service instances) at once.
type InFlightGuard interface {
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, owner string) error
}

// SupportIncident describes a payment that needs a human to look at it.
type SupportIncident struct {
	SessionID  string
	AttemptID  string
	OrderID    string
	PaymentID  string
	Amount     decimal.Decimal
	Currency   string
	Donor      contribution.DonorProfile
	Reason     string
	OccurredAt time.Time
}

// SupportNotifier alerts the support desk.
type SupportNotifier interface {
	NotifyIncident(ctx context.Context, incident SupportIncident) error
}

// AttemptClaims binds a checkout callback to the attempt it was issued for.
type AttemptClaims struct {
	SessionID string
	AttemptID string
	OrderID   string
}

// AttemptTokens issues and checks the tokens the page presents with
// completion and dismissal callbacks.
type AttemptTokens interface {
	Issue(claims AttemptClaims) (string, error)
	Parse(token string) (*AttemptClaims, error)
}
