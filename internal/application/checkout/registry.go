package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/savedeities/contribute/internal/shared/biztime"
	"github.com/savedeities/contribute/internal/shared/goroutine"
	"github.com/savedeities/contribute/internal/shared/logger"
)

// OrchestratorFactory builds the orchestrator for a new donor session.
type OrchestratorFactory func(ctx context.Context, sessionID string) *PaymentOrchestrator

// SessionRegistry keeps one PaymentOrchestrator per donor session.
type SessionRegistry struct {
	factory OrchestratorFactory
	ttl     time.Duration
	logger  logger.Interface

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*PaymentOrchestrator
	closed   bool
}

func NewSessionRegistry(factory OrchestratorFactory, ttl time.Duration, log logger.Interface) *SessionRegistry {
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionRegistry{
		factory:  factory,
		ttl:      ttl,
		logger:   log,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*PaymentOrchestrator),
	}
}

// GetOrCreate returns the session's orchestrator, creating it on first use.
func (r *SessionRegistry) GetOrCreate(sessionID string) (*PaymentOrchestrator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o, ok := r.sessions[sessionID]; ok {
		return o, false
	}
	o := r.factory(r.ctx, sessionID)
	if !r.closed {
		r.sessions[sessionID] = o
	}
	return o, true
}

// Get returns the session's orchestrator if one exists.
func (r *SessionRegistry) Get(sessionID string) (*PaymentOrchestrator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.sessions[sessionID]
	return o, ok
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than the TTL. Sessions with an
// attempt in progress are kept however old they are.
func (r *SessionRegistry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	var expired []*PaymentOrchestrator
	for sid, o := range r.sessions {
		if o.InProgress() || now.Sub(o.LastActive()) < r.ttl {
			continue
		}
		delete(r.sessions, sid)
		expired = append(expired, o)
	}
	r.mu.Unlock()

	for _, o := range expired {
		o.Close()
	}
	if len(expired) > 0 {
		r.logger.Debugw("evicted idle donor sessions", "count", len(expired))
	}
	return len(expired)
}

// StartJanitor sweeps on every interval until Shutdown.
func (r *SessionRegistry) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		return
	}
	goroutine.SafeGo(r.logger, "session-janitor", func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.Sweep(biztime.NowUTC())
			}
		}
	})
}

// Shutdown abandons every running attempt and closes all sessions. Pending
// checkouts resolve as cancelled; verifications already under way finish.
func (r *SessionRegistry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	sessions := r.sessions
	r.sessions = make(map[string]*PaymentOrchestrator)
	r.mu.Unlock()

	for _, o := range sessions {
		o.Abandon("shutdown")
		o.Close()
	}
	r.cancel()
	r.logger.Infow("donor sessions closed", "count", len(sessions))
}
