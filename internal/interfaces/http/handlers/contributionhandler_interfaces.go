package handlers

import (
	"context"
	"time"

	"github.com/savedeities/contribute/internal/application/checkout"
)

// Service interfaces for the contribution handlers

type contributionService interface {
	Presets(ctx context.Context, caseID string) (*checkout.PresetsView, error)
	Submit(ctx context.Context, sessionID string, in checkout.SubmitInput) (*checkout.Snapshot, error)
	Current(ctx context.Context, sessionID string, wait time.Duration) *checkout.Snapshot
	Complete(ctx context.Context, sessionID string, in checkout.CompleteInput) (*checkout.Snapshot, error)
	Dismiss(ctx context.Context, sessionID, token, reason string) (*checkout.Snapshot, error)
}

type caseService interface {
	GetCase(ctx context.Context, id string) (*checkout.CaseView, error)
}

type checkoutScriptSource interface {
	EnsureLoaded(ctx context.Context) error
	Script() ([]byte, string, error)
}

type sessionCounter interface {
	Len() int
}
