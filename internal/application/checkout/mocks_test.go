package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/savedeities/contribute/internal/domain/contribution"
)

type mockScriptLoader struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (m *mockScriptLoader) EnsureLoaded(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.err
}

func (m *mockScriptLoader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockScriptLoader) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

type mockOrderService struct {
	mu              sync.Mutex
	CreateOrderFunc func(ctx context.Context, req *contribution.ContributionRequest) (*contribution.Order, error)
	requests        []*contribution.ContributionRequest
	seq             int
}

func (m *mockOrderService) CreateOrder(ctx context.Context, req *contribution.ContributionRequest) (*contribution.Order, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.seq++
	seq := m.seq
	fn := m.CreateOrderFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	minor := req.Amount.Shift(2).IntPart()
	return contribution.NewOrder(fmt.Sprintf("order_%d", seq), minor, req.Currency, "rzp_test_key", fmt.Sprintf("receipt_%d", seq))
}

func (m *mockOrderService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// mockCheckout resolves exactly once, like the real bridge.
type mockCheckout struct {
	session  contribution.GatewaySession
	mu       sync.Mutex
	resolved *contribution.GatewayOutcome
	done     chan struct{}
}

func newMockCheckout(session contribution.GatewaySession) *mockCheckout {
	return &mockCheckout{session: session, done: make(chan struct{})}
}

func (c *mockCheckout) Session() contribution.GatewaySession {
	return c.session
}

func (c *mockCheckout) resolve(outcome contribution.GatewayOutcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resolved != nil {
		if c.resolved.Kind == contribution.OutcomeCancelled && outcome.Kind == contribution.OutcomeCompleted {
			return ErrCheckoutCancelled
		}
		return ErrCheckoutResolved
	}
	c.resolved = &outcome
	close(c.done)
	return nil
}

func (c *mockCheckout) Complete(result contribution.GatewayResult) error {
	return c.resolve(contribution.Completed(result))
}

func (c *mockCheckout) Dismiss(reason string) error {
	return c.resolve(contribution.Cancelled(reason))
}

func (c *mockCheckout) Await(ctx context.Context) contribution.GatewayOutcome {
	select {
	case <-c.done:
	case <-ctx.Done():
		_ = c.resolve(contribution.Cancelled("shutdown"))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.resolved
}

type mockBridge struct {
	mu        sync.Mutex
	OpenErr   error
	checkouts []*mockCheckout
}

func (m *mockBridge) Open(ctx context.Context, order *contribution.Order, profile contribution.DonorProfile, description string) (Checkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	co := newMockCheckout(contribution.NewGatewaySession(order, profile, description, "Save Deities", "#ea580c"))
	m.checkouts = append(m.checkouts, co)
	return co, nil
}

func (m *mockBridge) Opens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.checkouts)
}

type mockVerifier struct {
	mu      sync.Mutex
	Outcome contribution.VerificationOutcome
	Err     error
	results []contribution.GatewayResult
}

func (m *mockVerifier) Verify(ctx context.Context, result contribution.GatewayResult) (contribution.VerificationOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
	return m.Outcome, m.Err
}

func (m *mockVerifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

type mockGuard struct {
	mu       sync.Mutex
	holders  map[string]string
	released []string

	// when set, Acquire signals entered and waits for block to close
	block   chan struct{}
	entered chan struct{}
}

func newMockGuard() *mockGuard {
	return &mockGuard{holders: make(map[string]string)}
}

func (m *mockGuard) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	if m.block != nil {
		m.entered <- struct{}{}
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if holder, ok := m.holders[key]; ok && holder != owner {
		return false, nil
	}
	m.holders[key] = owner
	return true, nil
}

func (m *mockGuard) Release(ctx context.Context, key, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.holders[key] == owner {
		delete(m.holders, key)
	}
	m.released = append(m.released, key)
	return nil
}

type mockNotifier struct {
	incidents chan SupportIncident
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{incidents: make(chan SupportIncident, 8)}
}

func (m *mockNotifier) NotifyIncident(ctx context.Context, incident SupportIncident) error {
	m.incidents <- incident
	return nil
}
