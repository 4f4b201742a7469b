package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/savedeities/contribute/internal/application/checkout"
	"github.com/savedeities/contribute/internal/domain/contribution"
	"github.com/savedeities/contribute/internal/shared/config"
	"github.com/savedeities/contribute/internal/shared/logger"
)

// Cancellation reasons set by the bridge itself.
const (
	ReasonTimeout  = "timeout"
	ReasonShutdown = "shutdown"
)

// CheckoutBridge hands the page a gateway session for an order. The page
// renders the hosted checkout and reports back through Complete or Dismiss.
type CheckoutBridge struct {
	displayName  string
	themeColor   string
	awaitTimeout time.Duration
	logger       logger.Interface
}

func NewCheckoutBridge(cfg config.GatewayConfig, log logger.Interface) *CheckoutBridge {
	return &CheckoutBridge{
		displayName:  cfg.DisplayName,
		themeColor:   cfg.ThemeColor,
		awaitTimeout: cfg.AwaitTimeout,
		logger:       log,
	}
}

var _ checkout.GatewayBridge = (*CheckoutBridge)(nil)

// Open builds the session from the order exactly as the backend issued it.
func (b *CheckoutBridge) Open(ctx context.Context, order *contribution.Order, profile contribution.DonorProfile, description string) (checkout.Checkout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	session := contribution.NewGatewaySession(order, profile, description, b.displayName, b.themeColor)
	b.logger.Debugw("checkout session prepared", "order_id", order.OrderID(), "amount_minor", order.Amount())
	return newPendingCheckout(session, b.awaitTimeout), nil
}

// pendingCheckout is a single future with two resolutions. The first
// resolution wins and every later one is refused.
type pendingCheckout struct {
	session contribution.GatewaySession
	timeout time.Duration

	mu      sync.Mutex
	outcome *contribution.GatewayOutcome
	done    chan struct{}
}

func newPendingCheckout(session contribution.GatewaySession, timeout time.Duration) *pendingCheckout {
	return &pendingCheckout{
		session: session,
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

func (c *pendingCheckout) Session() contribution.GatewaySession {
	return c.session
}

func (c *pendingCheckout) resolve(outcome contribution.GatewayOutcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.outcome != nil {
		if c.outcome.Kind == contribution.OutcomeCancelled && outcome.Kind == contribution.OutcomeCompleted {
			return checkout.ErrCheckoutCancelled
		}
		return checkout.ErrCheckoutResolved
	}
	c.outcome = &outcome
	close(c.done)
	return nil
}

func (c *pendingCheckout) Complete(result contribution.GatewayResult) error {
	return c.resolve(contribution.Completed(result))
}

func (c *pendingCheckout) Dismiss(reason string) error {
	return c.resolve(contribution.Cancelled(reason))
}

// Await blocks until the donor finishes. With no timeout configured the wait
// is unbounded; ctx ending resolves the checkout as cancelled.
func (c *pendingCheckout) Await(ctx context.Context) contribution.GatewayOutcome {
	var expired <-chan time.Time
	if c.timeout > 0 {
		timer := time.NewTimer(c.timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-c.done:
	case <-ctx.Done():
		_ = c.resolve(contribution.Cancelled(ReasonShutdown))
	case <-expired:
		_ = c.resolve(contribution.Cancelled(ReasonTimeout))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.outcome
}
