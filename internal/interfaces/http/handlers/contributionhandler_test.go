package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savedeities/contribute/internal/application/checkout"
	"github.com/savedeities/contribute/internal/domain/cases"
	"github.com/savedeities/contribute/internal/domain/contribution"
	vo "github.com/savedeities/contribute/internal/domain/contribution/valueobjects"
	"github.com/savedeities/contribute/internal/interfaces/http/handlers/testutil"
	"github.com/savedeities/contribute/internal/shared/utils"
)

// =====================================================================
// Mock service
// =====================================================================

type mockContributionService struct {
	PresetsFunc  func(ctx context.Context, caseID string) (*checkout.PresetsView, error)
	SubmitFunc   func(ctx context.Context, sessionID string, in checkout.SubmitInput) (*checkout.Snapshot, error)
	CurrentFunc  func(ctx context.Context, sessionID string, wait time.Duration) *checkout.Snapshot
	CompleteFunc func(ctx context.Context, sessionID string, in checkout.CompleteInput) (*checkout.Snapshot, error)
	DismissFunc  func(ctx context.Context, sessionID, token, reason string) (*checkout.Snapshot, error)
}

func (m *mockContributionService) Presets(ctx context.Context, caseID string) (*checkout.PresetsView, error) {
	return m.PresetsFunc(ctx, caseID)
}

func (m *mockContributionService) Submit(ctx context.Context, sessionID string, in checkout.SubmitInput) (*checkout.Snapshot, error) {
	return m.SubmitFunc(ctx, sessionID, in)
}

func (m *mockContributionService) Current(ctx context.Context, sessionID string, wait time.Duration) *checkout.Snapshot {
	return m.CurrentFunc(ctx, sessionID, wait)
}

func (m *mockContributionService) Complete(ctx context.Context, sessionID string, in checkout.CompleteInput) (*checkout.Snapshot, error) {
	return m.CompleteFunc(ctx, sessionID, in)
}

func (m *mockContributionService) Dismiss(ctx context.Context, sessionID, token, reason string) (*checkout.Snapshot, error) {
	return m.DismissFunc(ctx, sessionID, token, reason)
}

func newTestContributionHandler(svc *mockContributionService) *ContributionHandler {
	return NewContributionHandler(svc, SessionCookieConfig{TTL: time.Hour}, testutil.NewMockLogger())
}

func decodeSnapshot(t *testing.T, resp testutil.APIResponse) checkout.Snapshot {
	t.Helper()
	var snap checkout.Snapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	return snap
}

// =====================================================================
// Presets
// =====================================================================

func TestContributionHandler_GetPresets(t *testing.T) {
	svc := &mockContributionService{
		PresetsFunc: func(ctx context.Context, caseID string) (*checkout.PresetsView, error) {
			if caseID == "missing" {
				return nil, cases.ErrCaseNotFound
			}
			return &checkout.PresetsView{
				Amounts:     []string{"500", "1000"},
				Currency:    "INR",
				Description: "Contribution for Kashi Vishwanath Temple",
				CaseID:      caseID,
			}, nil
		},
	}
	h := newTestContributionHandler(svc)

	t.Run("case page", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodGet, "/api/contributions/presets", nil)
		testutil.SetQueryParams(c, map[string]string{"case_id": "kashi"})

		h.GetPresets(c)

		require.Equal(t, http.StatusOK, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		var view checkout.PresetsView
		require.NoError(t, json.Unmarshal(resp.Data, &view))
		assert.Equal(t, []string{"500", "1000"}, view.Amounts)
		assert.Equal(t, "kashi", view.CaseID)
	})

	t.Run("unknown case", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodGet, "/api/contributions/presets", nil)
		testutil.SetQueryParams(c, map[string]string{"case_id": "missing"})

		h.GetPresets(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =====================================================================
// Submit
// =====================================================================

func TestContributionHandler_Submit_StartsSession(t *testing.T) {
	var gotSession string
	var gotInput checkout.SubmitInput
	svc := &mockContributionService{
		SubmitFunc: func(ctx context.Context, sessionID string, in checkout.SubmitInput) (*checkout.Snapshot, error) {
			gotSession = sessionID
			gotInput = in
			return &checkout.Snapshot{
				AttemptID:    "att-1",
				State:        vo.AttemptStateAwaitingGatewayResult,
				OrderID:      "order_1",
				AttemptToken: "tok",
				UserMessage:  "Complete the payment in the checkout window",
			}, nil
		},
	}
	h := newTestContributionHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/contributions", SubmitContributionRequest{
		Amount: "1000",
		Name:   "Asha Rao",
		Email:  "asha@example.com",
		Phone:  "9876543210",
		CaseID: "kashi",
	})

	h.Submit(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, gotSession)
	assert.True(t, strings.HasPrefix(gotSession, "ses_"))
	assert.Equal(t, "1000", gotInput.Amount)
	assert.Equal(t, "kashi", gotInput.CaseID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, utils.SessionCookie, cookies[0].Name)
	assert.Equal(t, gotSession, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	snap := decodeSnapshot(t, resp)
	assert.Equal(t, "tok", snap.AttemptToken)
	assert.Equal(t, vo.AttemptStateAwaitingGatewayResult, snap.State)
}

func TestContributionHandler_Submit_ReusesSession(t *testing.T) {
	var gotSession string
	svc := &mockContributionService{
		SubmitFunc: func(ctx context.Context, sessionID string, in checkout.SubmitInput) (*checkout.Snapshot, error) {
			gotSession = sessionID
			return &checkout.Snapshot{State: vo.AttemptStateAwaitingGatewayResult}, nil
		},
	}
	h := newTestContributionHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/contributions", SubmitContributionRequest{Amount: "500"})
	testutil.SetSessionCookie(c, "ses_existing")

	h.Submit(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ses_existing", gotSession)
	assert.Empty(t, w.Result().Cookies())
}

func TestContributionHandler_Submit_Errors(t *testing.T) {
	failed := &checkout.Snapshot{
		AttemptID: "att-1",
		State:     vo.AttemptStateFailed,
		Failure:   &checkout.FailureView{Kind: vo.FailureKindOrderCreationFailed, Message: "Amount too low", Retryable: true},
	}

	tests := []struct {
		name       string
		snap       *checkout.Snapshot
		err        error
		wantStatus int
		wantType   string
		wantData   bool
	}{
		{
			name:       "validation failure carries snapshot",
			snap:       &checkout.Snapshot{State: vo.AttemptStateFailed},
			err:        contribution.NewValidationFailure(&contribution.MissingFieldError{Fields: []string{"name"}}),
			wantStatus: http.StatusBadRequest,
			wantType:   string(vo.FailureKindValidation),
			wantData:   true,
		},
		{
			name:       "order creation failure keeps backend message",
			snap:       failed,
			err:        contribution.NewOrderCreationFailure("Amount too low", nil),
			wantStatus: http.StatusBadGateway,
			wantType:   string(vo.FailureKindOrderCreationFailed),
			wantData:   true,
		},
		{
			name:       "script load failure",
			snap:       &checkout.Snapshot{State: vo.AttemptStateFailed},
			err:        contribution.NewScriptLoadFailure(assert.AnError),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   string(vo.FailureKindScriptLoadFailed),
			wantData:   true,
		},
		{
			name:       "attempt in progress",
			err:        contribution.ErrAttemptInProgress,
			wantStatus: http.StatusConflict,
			wantType:   "conflict",
		},
		{
			name:       "already succeeded",
			err:        contribution.ErrAlreadySucceeded,
			wantStatus: http.StatusConflict,
			wantType:   "conflict",
		},
		{
			name:       "unknown case",
			err:        cases.ErrCaseNotFound,
			wantStatus: http.StatusNotFound,
			wantType:   "not_found",
		},
		{
			name:       "unexpected error is not exposed",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantType:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockContributionService{
				SubmitFunc: func(ctx context.Context, sessionID string, in checkout.SubmitInput) (*checkout.Snapshot, error) {
					return tt.snap, tt.err
				},
			}
			h := newTestContributionHandler(svc)
			c, w := testutil.NewTestContext(http.MethodPost, "/api/contributions", SubmitContributionRequest{Amount: "500"})

			h.Submit(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
			assert.Equal(t, tt.wantData, len(resp.Data) > 0)
			assert.NotContains(t, resp.Error.Message, assert.AnError.Error())
		})
	}
}

func TestContributionHandler_Submit_InvalidBody(t *testing.T) {
	svc := &mockContributionService{
		SubmitFunc: func(ctx context.Context, sessionID string, in checkout.SubmitInput) (*checkout.Snapshot, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := newTestContributionHandler(svc)
	c, w := testutil.NewRawTestContext(http.MethodPost, "/api/contributions", "application/json", "{not json")

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// Current
// =====================================================================

func TestContributionHandler_GetCurrent(t *testing.T) {
	tests := []struct {
		name       string
		wait       string
		wantWait   time.Duration
		wantStatus int
	}{
		{"no wait", "", 0, http.StatusOK},
		{"duration", "30s", 30 * time.Second, http.StatusOK},
		{"seconds", "15", 15 * time.Second, http.StatusOK},
		{"negative", "-5", 0, http.StatusBadRequest},
		{"garbage", "soon", 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotWait time.Duration
			var gotSession string
			svc := &mockContributionService{
				CurrentFunc: func(ctx context.Context, sessionID string, wait time.Duration) *checkout.Snapshot {
					gotWait = wait
					gotSession = sessionID
					return &checkout.Snapshot{State: vo.AttemptStateIdle}
				},
			}
			h := newTestContributionHandler(svc)
			c, w := testutil.NewTestContext(http.MethodGet, "/api/contributions/current", nil)
			testutil.SetSessionCookie(c, "ses_abc")
			if tt.wait != "" {
				testutil.SetQueryParams(c, map[string]string{"wait": tt.wait})
			}

			h.GetCurrent(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantWait, gotWait)
				assert.Equal(t, "ses_abc", gotSession)
			}
		})
	}
}

// =====================================================================
// Complete
// =====================================================================

func TestContributionHandler_Complete(t *testing.T) {
	var gotInput checkout.CompleteInput
	svc := &mockContributionService{
		CompleteFunc: func(ctx context.Context, sessionID string, in checkout.CompleteInput) (*checkout.Snapshot, error) {
			gotInput = in
			return &checkout.Snapshot{State: vo.AttemptStateVerifying, UserMessage: "Confirming your payment"}, nil
		},
	}
	h := newTestContributionHandler(svc)
	c, w := testutil.NewTestContext(http.MethodPost, "/api/contributions/complete", CompleteContributionRequest{
		AttemptToken:      "tok",
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig",
	})
	testutil.SetSessionCookie(c, "ses_abc")

	h.Complete(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "tok", gotInput.AttemptToken)
	assert.Equal(t, contribution.GatewayResult{PaymentID: "pay_1", OrderID: "order_1", Signature: "sig"}, gotInput.Result)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, "Confirming your payment", resp.Message)
}

func TestContributionHandler_Complete_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"invalid token", checkout.ErrInvalidAttemptToken, http.StatusUnauthorized, ""},
		{"stale attempt", checkout.ErrStaleAttempt, http.StatusConflict, ""},
		{"already resolved", checkout.ErrCheckoutResolved, http.StatusConflict, ""},
		{"late completion", checkout.ErrLateCompletion, http.StatusConflict, "contact support"},
		{"incomplete result", checkout.ErrIncompleteResult, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockContributionService{
				CompleteFunc: func(ctx context.Context, sessionID string, in checkout.CompleteInput) (*checkout.Snapshot, error) {
					return nil, tt.err
				},
			}
			h := newTestContributionHandler(svc)
			c, w := testutil.NewTestContext(http.MethodPost, "/api/contributions/complete", CompleteContributionRequest{
				AttemptToken:      "tok",
				RazorpayPaymentID: "pay_1",
				RazorpayOrderID:   "order_1",
				RazorpaySignature: "sig",
			})

			h.Complete(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			require.NotNil(t, resp.Error)
			if tt.wantMessage != "" {
				assert.Contains(t, resp.Error.Message, tt.wantMessage)
			}
		})
	}
}

func TestContributionHandler_Complete_MissingFields(t *testing.T) {
	svc := &mockContributionService{
		CompleteFunc: func(ctx context.Context, sessionID string, in checkout.CompleteInput) (*checkout.Snapshot, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := newTestContributionHandler(svc)
	c, w := testutil.NewTestContext(http.MethodPost, "/api/contributions/complete", map[string]string{
		"attempt_token":       "tok",
		"razorpay_payment_id": "pay_1",
	})

	h.Complete(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// Dismiss
// =====================================================================

func TestContributionHandler_Dismiss_Beacon(t *testing.T) {
	var gotToken, gotReason string
	svc := &mockContributionService{
		DismissFunc: func(ctx context.Context, sessionID, token, reason string) (*checkout.Snapshot, error) {
			gotToken, gotReason = token, reason
			return &checkout.Snapshot{
				State:   vo.AttemptStateCancelled,
				Failure: &checkout.FailureView{Kind: vo.FailureKindCancelled, Message: "navigated away", Retryable: true},
			}, nil
		},
	}
	h := newTestContributionHandler(svc)
	c, w := testutil.NewRawTestContext(http.MethodPost, "/api/contributions/dismiss", "text/plain;charset=UTF-8",
		`{"attempt_token":"tok","reason":"navigated away"}`)
	testutil.SetSessionCookie(c, "ses_abc")

	h.Dismiss(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok", gotToken)
	assert.Equal(t, "navigated away", gotReason)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	snap := decodeSnapshot(t, resp)
	assert.Equal(t, vo.AttemptStateCancelled, snap.State)
}

func TestContributionHandler_Dismiss_InvalidToken(t *testing.T) {
	svc := &mockContributionService{
		DismissFunc: func(ctx context.Context, sessionID, token, reason string) (*checkout.Snapshot, error) {
			return nil, checkout.ErrInvalidAttemptToken
		},
	}
	h := newTestContributionHandler(svc)
	c, w := testutil.NewTestContext(http.MethodPost, "/api/contributions/dismiss", DismissContributionRequest{AttemptToken: "forged"})

	h.Dismiss(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
