package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/savedeities/contribute/internal/domain/contribution"
	vo "github.com/savedeities/contribute/internal/domain/contribution/valueobjects"
	"github.com/savedeities/contribute/internal/shared/biztime"
	"github.com/savedeities/contribute/internal/shared/goroutine"
	"github.com/savedeities/contribute/internal/shared/logger"
	"github.com/savedeities/contribute/internal/shared/utils/logutil"
)

var (
	// ErrStaleAttempt rejects callbacks for an attempt or order that is no
	// longer the session's current one.
	ErrStaleAttempt = errors.New("attempt is no longer current")
	// ErrCheckoutResolved rejects a second resolution of a checkout.
	ErrCheckoutResolved = errors.New("checkout already resolved")
	// ErrCheckoutCancelled is returned by Checkout.Complete when the checkout
	// was already resolved as cancelled.
	ErrCheckoutCancelled = errors.New("checkout was cancelled before completion")
	// ErrLateCompletion reports a gateway completion that arrived after the
	// attempt was cancelled. It is never verified and support is notified.
	ErrLateCompletion = errors.New("payment completed after the attempt was cancelled")
	// ErrIncompleteResult rejects a gateway result with missing fields.
	ErrIncompleteResult = errors.New("gateway result is incomplete")
)

const guardReleaseTimeout = 2 * time.Second

// OrchestratorConfig tunes a PaymentOrchestrator.
type OrchestratorConfig struct {
	Currency              string
	StrictDonorValidation bool
	// VerifyTimeout bounds a single verification call. Zero means no bound
	// beyond the verification client's own.
	VerifyTimeout time.Duration
	// LockTTL is how long the in-flight guard holds a donor key.
	LockTTL time.Duration
	// MaxAmount caps custom amounts. Zero leaves them uncapped.
	MaxAmount decimal.Decimal
}

// Dependencies are the collaborators an orchestrator sequences. Guard and
// Notifier are optional.
type Dependencies struct {
	Scripts  ScriptLoader
	Orders   OrderService
	Bridge   GatewayBridge
	Verifier VerificationService
	Guard    InFlightGuard
	Notifier SupportNotifier
}

// SubmitCommand is one press of the contribute button.
type SubmitCommand struct {
	Amount       string
	CustomAmount string
	Name         string
	Email        string
	Phone        string
	Presets      []decimal.Decimal
	Context      contribution.RequestContext
}

// PaymentOrchestrator runs contribution attempts for one donor session, one
// attempt at a time.
type PaymentOrchestrator struct {
	sessionID    string
	deps         Dependencies
	cfg          OrchestratorConfig
	logger       logger.Interface
	newAttemptID func() string

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	current    *contribution.Attempt
	checkout   Checkout
	guardKey   string
	abandoned  bool
	succeeded  map[string]struct{}
	changed    chan struct{}
	lastActive time.Time
}

// NewPaymentOrchestrator creates an orchestrator whose pending checkouts are
// cancelled when ctx is done or Close is called.
func NewPaymentOrchestrator(
	ctx context.Context,
	sessionID string,
	deps Dependencies,
	cfg OrchestratorConfig,
	log logger.Interface,
) *PaymentOrchestrator {
	if cfg.Currency == "" {
		cfg.Currency = contribution.DefaultCurrency
	}
	ctx, cancel := context.WithCancel(ctx)
	return &PaymentOrchestrator{
		sessionID:    sessionID,
		deps:         deps,
		cfg:          cfg,
		logger:       log.With("session_id", sessionID),
		newAttemptID: uuid.NewString,
		ctx:          ctx,
		cancel:       cancel,
		succeeded:    make(map[string]struct{}),
		changed:      make(chan struct{}),
		lastActive:   biztime.NowUTC(),
	}
}

func (o *PaymentOrchestrator) SessionID() string {
	return o.sessionID
}

// Submit validates the command, creates the order and opens the gateway. It
// returns once the attempt is awaiting the donor or has failed; the rest of
// the attempt continues in the background.
func (o *PaymentOrchestrator) Submit(ctx context.Context, cmd SubmitCommand) (*Snapshot, error) {
	o.mu.Lock()
	o.touchLocked()

	if o.current != nil && o.current.State().IsInProgress() {
		o.logger.Warnw("submission rejected, attempt in progress",
			"attempt_id", o.current.ID(),
			"state", o.current.State(),
		)
		o.mu.Unlock()
		return nil, contribution.ErrAttemptInProgress
	}

	req, verr := o.buildRequest(cmd)
	if verr == nil {
		if _, done := o.succeeded[req.Fingerprint()]; done {
			o.mu.Unlock()
			return nil, contribution.ErrAlreadySucceeded
		}
	}

	// Validating reserves the session, so the guard round-trip below runs
	// without holding the lock.
	prev, prevCheckout := o.current, o.checkout
	attempt := contribution.NewAttempt(o.newAttemptID(), cmd.Context.Description)
	o.current = attempt
	o.checkout = nil
	o.abandoned = false
	if err := attempt.BeginValidation(); err != nil {
		o.current, o.checkout = prev, prevCheckout
		o.mu.Unlock()
		return nil, err
	}

	log := o.logger.With("attempt_id", attempt.ID())

	if verr != nil {
		var fe *contribution.FailureError
		errors.As(verr, &fe)
		o.failLocked(attempt, fe)
		o.finishLocked(attempt)
		log.Infow("contribution rejected by validation", "reason", fe.Message)
		snap := newSnapshot(attempt, nil)
		o.mu.Unlock()
		return snap, verr
	}
	o.broadcastLocked()
	o.mu.Unlock()

	guardKey, err := o.acquireGuard(ctx, req)

	o.mu.Lock()
	if err != nil {
		// the donor is busy elsewhere; this session keeps its previous attempt
		if o.current == attempt {
			o.current, o.checkout = prev, prevCheckout
			o.broadcastLocked()
		}
		o.mu.Unlock()
		return nil, err
	}
	o.guardKey = guardKey
	if err := attempt.Accept(req); err != nil {
		fe := contribution.NewValidationFailure(err)
		o.failLocked(attempt, fe)
		o.finishLocked(attempt)
		snap := newSnapshot(attempt, nil)
		o.mu.Unlock()
		return snap, fe
	}
	o.broadcastLocked()
	o.mu.Unlock()

	log.Infow("contribution attempt started",
		"amount", req.Amount.String(),
		"currency", req.Currency,
		"context_id", req.ContextID,
	)

	if err := o.deps.Scripts.EnsureLoaded(ctx); err != nil {
		fe := contribution.NewScriptLoadFailure(err)
		log.Errorw("gateway script unavailable", "error", err)
		return o.failAndSnapshot(attempt, fe)
	}

	order, err := o.deps.Orders.CreateOrder(ctx, req)
	if err != nil {
		fe := asFailure(err, vo.FailureKindOrderCreationFailed)
		log.Warnw("order creation failed", "error", err, "message", fe.Message)
		return o.failAndSnapshot(attempt, fe)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := attempt.AttachOrder(order); err != nil {
		fe := contribution.NewOrderCreationFailure("", err)
		log.Errorw("failed to attach order", "error", err)
		o.failLocked(attempt, fe)
		o.finishLocked(attempt)
		return newSnapshot(attempt, nil), fe
	}
	log = log.With("order_id", order.OrderID())

	if o.abandoned || o.ctx.Err() != nil {
		_ = attempt.Cancel("abandoned")
		o.finishLocked(attempt)
		log.Infow("attempt abandoned before the gateway opened")
		return newSnapshot(attempt, nil), nil
	}

	co, err := o.deps.Bridge.Open(o.ctx, order, req.Profile(), attempt.Description())
	if err != nil {
		fe := &contribution.FailureError{
			Kind:    vo.FailureKindScriptLoadFailed,
			Message: contribution.MessageScriptLoadFailed,
			Err:     err,
		}
		log.Errorw("failed to open gateway checkout", "error", err)
		o.failLocked(attempt, fe)
		o.finishLocked(attempt)
		return newSnapshot(attempt, nil), fe
	}

	o.checkout = co
	o.broadcastLocked()
	log.Infow("gateway checkout opened", "amount_minor", order.Amount(), "currency", order.Currency())

	goroutine.SafeGo(o.logger, "checkout-await", func() {
		o.awaitOutcome(attempt, co)
	})

	return newSnapshot(attempt, co), nil
}

func (o *PaymentOrchestrator) buildRequest(cmd SubmitCommand) (*contribution.ContributionRequest, error) {
	selection := contribution.NewAmountSelection(cmd.Presets, o.cfg.MaxAmount)
	if strings.TrimSpace(cmd.Amount) != "" {
		selection.SelectFixed(cmd.Amount)
	}
	if strings.TrimSpace(cmd.CustomAmount) != "" {
		selection.SetCustom(cmd.CustomAmount)
	}

	donor := contribution.NewDonorProfileCollector(o.cfg.StrictDonorValidation)
	donor.SetName(cmd.Name)
	donor.SetEmail(cmd.Email)
	donor.SetPhone(cmd.Phone)

	rc := cmd.Context
	if rc.Currency == "" {
		rc.Currency = o.cfg.Currency
	}
	return contribution.NewContributionRequest(selection, donor, rc)
}

// acquireGuard takes the cross-instance lock for the donor and returns the
// key to release, empty when no lock is held.
func (o *PaymentOrchestrator) acquireGuard(ctx context.Context, req *contribution.ContributionRequest) (string, error) {
	if o.deps.Guard == nil {
		return "", nil
	}
	key := req.DonorKey()
	ok, err := o.deps.Guard.Acquire(ctx, key, o.sessionID, o.cfg.LockTTL)
	if err != nil {
		// the guard is a second line of defence; the session check still holds
		o.logger.Warnw("in-flight guard unavailable", "error", err)
		return "", nil
	}
	if !ok {
		o.logger.Warnw("submission rejected, donor has an attempt in flight elsewhere")
		return "", contribution.ErrAttemptInProgress
	}
	return key, nil
}

func (o *PaymentOrchestrator) failAndSnapshot(attempt *contribution.Attempt, fe *contribution.FailureError) (*Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failLocked(attempt, fe)
	o.finishLocked(attempt)
	return newSnapshot(attempt, nil), fe
}

func (o *PaymentOrchestrator) awaitOutcome(attempt *contribution.Attempt, co Checkout) {
	outcome := co.Await(o.ctx)

	switch outcome.Kind {
	case contribution.OutcomeCompleted:
		o.verify(attempt, outcome.Result)
	default:
		o.mu.Lock()
		defer o.mu.Unlock()
		if err := attempt.Cancel(outcome.Reason); err != nil {
			o.logger.Errorw("failed to cancel attempt", "attempt_id", attempt.ID(), "error", err)
			return
		}
		o.logger.Infow("contribution cancelled", "attempt_id", attempt.ID(), "reason", outcome.Reason)
		o.finishLocked(attempt)
	}
}

func (o *PaymentOrchestrator) verify(attempt *contribution.Attempt, result contribution.GatewayResult) {
	log := o.logger.With("attempt_id", attempt.ID(), "order_id", result.OrderID, "payment_id", result.PaymentID)

	o.mu.Lock()
	if err := attempt.BeginVerification(result); err != nil {
		log.Errorw("gateway result rejected", "error", err)
		o.failLocked(attempt, contribution.NewVerificationFailure("", err))
		o.notifySupportLocked(attempt, err.Error())
		o.finishLocked(attempt)
		o.mu.Unlock()
		return
	}
	o.broadcastLocked()
	o.mu.Unlock()

	log.Infow("verifying payment", "signature", logutil.MaskSignature(result.Signature))

	ctx, cancel := o.verifyContext()
	outcome, err := o.deps.Verifier.Verify(ctx, result)
	cancel()

	o.mu.Lock()
	defer o.mu.Unlock()
	defer o.finishLocked(attempt)

	switch {
	case err != nil:
		fe := asFailure(err, vo.FailureKindVerificationFailed)
		log.Errorw("payment verification failed", "error", err)
		o.failLocked(attempt, fe)
		o.notifySupportLocked(attempt, fe.Error())
	case !outcome.Confirmed:
		fe := contribution.NewVerificationFailure(outcome.Message, nil)
		log.Errorw("payment not confirmed by backend", "message", fe.Message)
		o.failLocked(attempt, fe)
		o.notifySupportLocked(attempt, fe.Message)
	default:
		if err := attempt.Succeed(); err != nil {
			log.Errorw("failed to record success", "error", err)
			return
		}
		o.succeeded[attempt.Request().Fingerprint()] = struct{}{}
		log.Infow("contribution confirmed", "amount", attempt.Request().Amount.String())
	}
}

// verifyContext outlives the session: a verification that has started runs
// to completion even if the donor leaves.
func (o *PaymentOrchestrator) verifyContext() (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(o.ctx)
	if o.cfg.VerifyTimeout > 0 {
		return context.WithTimeout(base, o.cfg.VerifyTimeout)
	}
	return context.WithCancel(base)
}

// Complete delivers the gateway's completion callback for attemptID.
func (o *PaymentOrchestrator) Complete(attemptID string, result contribution.GatewayResult) error {
	o.mu.Lock()
	o.touchLocked()

	attempt, err := o.currentAttemptLocked(attemptID, result.OrderID)
	if err != nil {
		o.mu.Unlock()
		return err
	}
	if !result.IsComplete() {
		o.mu.Unlock()
		return ErrIncompleteResult
	}

	switch attempt.State() {
	case vo.AttemptStateAwaitingGatewayResult:
		co := o.checkout
		o.mu.Unlock()
		err := co.Complete(result)
		if errors.Is(err, ErrCheckoutCancelled) {
			o.mu.Lock()
			defer o.mu.Unlock()
			return o.lateCompletionLocked(attempt, result)
		}
		return err
	case vo.AttemptStateCancelled:
		defer o.mu.Unlock()
		return o.lateCompletionLocked(attempt, result)
	default:
		o.mu.Unlock()
		return ErrCheckoutResolved
	}
}

func (o *PaymentOrchestrator) lateCompletionLocked(attempt *contribution.Attempt, result contribution.GatewayResult) error {
	o.logger.Errorw("payment completed after attempt was cancelled, not verifying",
		"attempt_id", attempt.ID(),
		"order_id", result.OrderID,
		"payment_id", result.PaymentID,
	)
	incident := o.incidentLocked(attempt, ErrLateCompletion.Error())
	incident.PaymentID = result.PaymentID
	o.sendIncident(incident)
	return ErrLateCompletion
}

// Dismiss delivers the gateway's dismissal callback. It is idempotent.
func (o *PaymentOrchestrator) Dismiss(attemptID, orderID, reason string) error {
	o.mu.Lock()
	o.touchLocked()

	attempt, err := o.currentAttemptLocked(attemptID, orderID)
	if err != nil {
		o.mu.Unlock()
		return err
	}
	if attempt.State() != vo.AttemptStateAwaitingGatewayResult {
		o.mu.Unlock()
		return nil
	}
	co := o.checkout
	o.mu.Unlock()

	if err := co.Dismiss(reason); err != nil && !isResolved(err) {
		return err
	}
	return nil
}

// Abandon cancels whatever attempt is running, for a donor who navigated
// away. An order still being created is cancelled as soon as it exists.
func (o *PaymentOrchestrator) Abandon(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil {
		return
	}
	switch o.current.State() {
	case vo.AttemptStateValidating, vo.AttemptStateCreatingOrder:
		o.abandoned = true
	case vo.AttemptStateAwaitingGatewayResult:
		if o.checkout != nil {
			if err := o.checkout.Dismiss(reason); err != nil && !isResolved(err) {
				o.logger.Warnw("failed to dismiss checkout", "error", err)
			}
		}
	}
}

// Close cancels any pending checkout and stops the orchestrator.
func (o *PaymentOrchestrator) Close() {
	o.cancel()
}

// Snapshot returns the current attempt's view.
func (o *PaymentOrchestrator) Snapshot() *Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return newSnapshot(o.current, o.checkout)
}

// Wait blocks until the current attempt is no longer in progress, ctx is
// done or maxWait elapses, then returns the snapshot.
func (o *PaymentOrchestrator) Wait(ctx context.Context, maxWait time.Duration) *Snapshot {
	var timeout <-chan time.Time
	if maxWait > 0 {
		timer := time.NewTimer(maxWait)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		o.mu.Lock()
		if o.current == nil || !o.current.State().IsInProgress() {
			snap := newSnapshot(o.current, o.checkout)
			o.mu.Unlock()
			return snap
		}
		changed := o.changed
		o.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return o.Snapshot()
		case <-timeout:
			return o.Snapshot()
		}
	}
}

// InProgress reports whether an attempt is running.
func (o *PaymentOrchestrator) InProgress() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current != nil && o.current.State().IsInProgress()
}

// LastActive is when the donor last interacted with this session.
func (o *PaymentOrchestrator) LastActive() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastActive
}

func (o *PaymentOrchestrator) currentAttemptLocked(attemptID, orderID string) (*contribution.Attempt, error) {
	a := o.current
	if a == nil || a.ID() != attemptID {
		return nil, ErrStaleAttempt
	}
	if a.Order() == nil || a.Order().OrderID() != orderID {
		return nil, fmt.Errorf("%w: order %q does not belong to attempt %s", ErrStaleAttempt, orderID, attemptID)
	}
	return a, nil
}

func (o *PaymentOrchestrator) failLocked(attempt *contribution.Attempt, fe *contribution.FailureError) {
	if err := attempt.Fail(fe); err != nil {
		o.logger.Errorw("failed to record attempt failure", "attempt_id", attempt.ID(), "error", err)
	}
}

// finishLocked runs once an attempt reaches a terminal state.
func (o *PaymentOrchestrator) finishLocked(attempt *contribution.Attempt) {
	if o.guardKey != "" && o.deps.Guard != nil {
		ctx, cancel := context.WithTimeout(context.Background(), guardReleaseTimeout)
		if err := o.deps.Guard.Release(ctx, o.guardKey, o.sessionID); err != nil {
			o.logger.Warnw("failed to release in-flight guard", "error", err)
		}
		cancel()
		o.guardKey = ""
	}
	if attempt == o.current {
		o.checkout = nil
	}
	o.broadcastLocked()
}

func (o *PaymentOrchestrator) broadcastLocked() {
	close(o.changed)
	o.changed = make(chan struct{})
}

func (o *PaymentOrchestrator) touchLocked() {
	o.lastActive = biztime.NowUTC()
}

func (o *PaymentOrchestrator) notifySupportLocked(attempt *contribution.Attempt, reason string) {
	o.sendIncident(o.incidentLocked(attempt, reason))
}

func (o *PaymentOrchestrator) incidentLocked(attempt *contribution.Attempt, reason string) SupportIncident {
	incident := SupportIncident{
		SessionID:  o.sessionID,
		AttemptID:  attempt.ID(),
		Reason:     reason,
		OccurredAt: biztime.NowUTC(),
	}
	if order := attempt.Order(); order != nil {
		incident.OrderID = order.OrderID()
	}
	if result := attempt.Result(); result != nil {
		incident.PaymentID = result.PaymentID
	}
	if req := attempt.Request(); req != nil {
		incident.Amount = req.Amount
		incident.Currency = req.Currency
		incident.Donor = req.Profile()
	}
	return incident
}

func (o *PaymentOrchestrator) sendIncident(incident SupportIncident) {
	if o.deps.Notifier == nil {
		return
	}
	goroutine.SafeGo(o.logger, "support-notify", func() {
		if err := o.deps.Notifier.NotifyIncident(context.Background(), incident); err != nil {
			o.logger.Errorw("failed to notify support", "attempt_id", incident.AttemptID, "error", err)
		}
	})
}

// asFailure keeps a FailureError as is and wraps anything else as kind.
func asFailure(err error, kind vo.FailureKind) *contribution.FailureError {
	var fe *contribution.FailureError
	if errors.As(err, &fe) {
		return fe
	}
	switch kind {
	case vo.FailureKindVerificationFailed:
		return contribution.NewVerificationFailure("", err)
	default:
		return contribution.NewOrderCreationFailure("", err)
	}
}

func isResolved(err error) bool {
	return errors.Is(err, ErrCheckoutResolved) || errors.Is(err, ErrCheckoutCancelled)
}
