// Package gateway adapts the hosted Razorpay checkout: it acquires the
// client library served to the page and tracks each opened checkout until
// the page reports how it ended.
package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/savedeities/contribute/internal/application/checkout"
	"github.com/savedeities/contribute/internal/shared/logger"
)

const (
	defaultScriptTimeout = 10 * time.Second
	// Maximum accepted size of the checkout library (2MB)
	maxScriptSize = 2 << 20
)

// ErrScriptNotLoaded is returned by Script before the first successful load.
var ErrScriptNotLoaded = errors.New("checkout script not loaded")

// CheckoutScriptLoader fetches the gateway's checkout library once per
// process. Concurrent first loads share one fetch; failures are not cached.
type CheckoutScriptLoader struct {
	url        string
	httpClient *http.Client
	logger     logger.Interface
	group      singleflight.Group

	mu     sync.RWMutex
	script []byte
	etag   string
}

func NewCheckoutScriptLoader(url string, timeout time.Duration, log logger.Interface) *CheckoutScriptLoader {
	if timeout <= 0 {
		timeout = defaultScriptTimeout
	}
	return &CheckoutScriptLoader{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

var _ checkout.ScriptLoader = (*CheckoutScriptLoader)(nil)

// EnsureLoaded returns nil immediately once the library has been fetched.
func (l *CheckoutScriptLoader) EnsureLoaded(ctx context.Context) error {
	if l.loaded() {
		return nil
	}

	ch := l.group.DoChan("script", func() (any, error) {
		if l.loaded() {
			return nil, nil
		}
		// detached so one caller giving up does not fail the others
		fetchCtx := context.WithoutCancel(ctx)
		body, err := l.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		sum := sha256.Sum256(body)
		l.mu.Lock()
		l.script = body
		l.etag = `"` + hex.EncodeToString(sum[:8]) + `"`
		l.mu.Unlock()
		l.logger.Infow("checkout script loaded", "url", l.url, "bytes", len(body))
		return nil, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			l.logger.Warnw("failed to load checkout script", "url", l.url, "error", res.Err)
		}
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("waiting for checkout script: %w", ctx.Err())
	}
}

// Script returns the cached library and its entity tag.
func (l *CheckoutScriptLoader) Script() ([]byte, string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.script == nil {
		return nil, "", ErrScriptNotLoaded
	}
	return l.script, l.etag, nil
}

func (l *CheckoutScriptLoader) loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.script != nil
}

func (l *CheckoutScriptLoader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch checkout script: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout script: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("checkout script is empty")
	}
	if len(body) > maxScriptSize {
		return nil, fmt.Errorf("checkout script exceeds %d bytes", maxScriptSize)
	}
	return body, nil
}
