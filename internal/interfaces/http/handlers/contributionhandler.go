package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/savedeities/contribute/internal/application/checkout"
	"github.com/savedeities/contribute/internal/domain/contribution"
	"github.com/savedeities/contribute/internal/shared/errors"
	"github.com/savedeities/contribute/internal/shared/id"
	"github.com/savedeities/contribute/internal/shared/logger"
	"github.com/savedeities/contribute/internal/shared/utils"
)

// SessionCookieConfig controls the donor session cookie.
type SessionCookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type ContributionHandler struct {
	service contributionService
	cookie  SessionCookieConfig
	logger  logger.Interface
}

func NewContributionHandler(service contributionService, cookie SessionCookieConfig, logger logger.Interface) *ContributionHandler {
	return &ContributionHandler{
		service: service,
		cookie:  cookie,
		logger:  logger,
	}
}

type SubmitContributionRequest struct {
	Amount       string `json:"amount" validate:"max=32"`
	CustomAmount string `json:"custom_amount" validate:"max=32"`
	Name         string `json:"name" validate:"max=200"`
	Email        string `json:"email" validate:"max=254"`
	Phone        string `json:"phone" validate:"max=32"`
	CaseID       string `json:"case_id" validate:"max=128"`
}

type CompleteContributionRequest struct {
	AttemptToken      string `json:"attempt_token" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

type DismissContributionRequest struct {
	AttemptToken string `json:"attempt_token" validate:"required"`
	Reason       string `json:"reason" validate:"max=200"`
}

// @Summary		Get contribution presets
// @Description	Fixed amounts and the payment description for the general page or a case page
// @Tags			contributions
// @Produce		json
// @Param			case_id	query		string									false	"Case ID"
// @Success		200		{object}	utils.APIResponse{data=PresetsResponse}	"Presets"
// @Failure		404		{object}	utils.APIResponse						"Case not found"
// @Router			/api/contributions/presets [get]
func (h *ContributionHandler) GetPresets(c *gin.Context) {
	caseID := c.Query("case_id")

	presets, err := h.service.Presets(c.Request.Context(), caseID)
	if err != nil {
		h.logger.Warnw("failed to resolve presets", "case_id", caseID, "error", err)
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", presets)
}

// @Summary		Submit a contribution
// @Description	Start a contribution attempt. On success the attempt awaits the gateway and carries the checkout session and an attempt token.
// @Tags			contributions
// @Accept			json
// @Produce		json
// @Param			contribution	body		SubmitContributionRequest					true	"Contribution"
// @Success		200				{object}	utils.APIResponse{data=SnapshotResponse}	"Attempt started"
// @Failure		400				{object}	utils.APIResponse{data=SnapshotResponse}	"Validation error"
// @Failure		404				{object}	utils.APIResponse							"Case not found"
// @Failure		409				{object}	utils.APIResponse							"Attempt already in progress"
// @Failure		429				{object}	utils.APIResponse							"Too many requests"
// @Failure		502				{object}	utils.APIResponse{data=SnapshotResponse}	"Order creation failed"
// @Failure		503				{object}	utils.APIResponse{data=SnapshotResponse}	"Gateway library unavailable"
// @Router			/api/contributions [post]
func (h *ContributionHandler) Submit(c *gin.Context) {
	var req SubmitContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid submit request", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	sessionID, err := h.ensureSession(c)
	if err != nil {
		h.logger.Errorw("failed to create donor session", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	snap, err := h.service.Submit(c.Request.Context(), sessionID, checkout.SubmitInput{
		Amount:       req.Amount,
		CustomAmount: req.CustomAmount,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		CaseID:       req.CaseID,
	})
	if err != nil {
		respondAttemptError(c, err, snap)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, snap.UserMessage, snap)
}

// @Summary		Get the current attempt
// @Description	Returns the donor's current attempt. With wait, blocks until the attempt leaves progress or the wait elapses (at most 60s).
// @Tags			contributions
// @Produce		json
// @Param			wait	query		string										false	"Maximum wait, as a duration (30s) or seconds"
// @Success		200		{object}	utils.APIResponse{data=SnapshotResponse}	"Current attempt"
// @Failure		400		{object}	utils.APIResponse							"Invalid wait"
// @Router			/api/contributions/current [get]
func (h *ContributionHandler) GetCurrent(c *gin.Context) {
	wait, err := parseWait(c.Query("wait"))
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid wait", err.Error()))
		return
	}

	snap := h.service.Current(c.Request.Context(), utils.GetSessionCookie(c), wait)
	utils.SuccessResponse(c, http.StatusOK, snap.UserMessage, snap)
}

// @Summary		Report gateway completion
// @Description	Delivers the payment result from the hosted checkout. The result is sent to the backend for verification.
// @Tags			contributions
// @Accept			json
// @Produce		json
// @Param			result	body		CompleteContributionRequest					true	"Gateway result"
// @Success		202		{object}	utils.APIResponse{data=SnapshotResponse}	"Result accepted"
// @Failure		400		{object}	utils.APIResponse							"Bad request"
// @Failure		401		{object}	utils.APIResponse							"Invalid attempt token"
// @Failure		409		{object}	utils.APIResponse							"Attempt no longer current"
// @Router			/api/contributions/complete [post]
func (h *ContributionHandler) Complete(c *gin.Context) {
	var req CompleteContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid completion request", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	snap, err := h.service.Complete(c.Request.Context(), utils.GetSessionCookie(c), checkout.CompleteInput{
		AttemptToken: req.AttemptToken,
		Result: contribution.GatewayResult{
			PaymentID: req.RazorpayPaymentID,
			OrderID:   req.RazorpayOrderID,
			Signature: req.RazorpaySignature,
		},
	})
	if err != nil {
		h.logger.Warnw("completion rejected",
			"order_id", req.RazorpayOrderID,
			"payment_id", req.RazorpayPaymentID,
			"error", err,
		)
		respondAttemptError(c, err, nil)
		return
	}

	utils.AcceptedResponse(c, snap, snap.UserMessage)
}

// @Summary		Report gateway dismissal
// @Description	The donor closed the checkout or left the page. Safe to send more than once.
// @Tags			contributions
// @Accept			json
// @Produce		json
// @Param			dismissal	body		DismissContributionRequest					true	"Dismissal"
// @Success		200			{object}	utils.APIResponse{data=SnapshotResponse}	"Dismissed"
// @Failure		401			{object}	utils.APIResponse							"Invalid attempt token"
// @Failure		409			{object}	utils.APIResponse							"Attempt no longer current"
// @Router			/api/contributions/dismiss [post]
func (h *ContributionHandler) Dismiss(c *gin.Context) {
	var req DismissContributionRequest
	// navigator.sendBeacon posts text/plain, so bind as JSON regardless
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	snap, err := h.service.Dismiss(c.Request.Context(), utils.GetSessionCookie(c), req.AttemptToken, req.Reason)
	if err != nil {
		respondAttemptError(c, err, nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, snap.UserMessage, snap)
}

func (h *ContributionHandler) ensureSession(c *gin.Context) (string, error) {
	if sid := utils.GetSessionCookie(c); sid != "" {
		return sid, nil
	}
	sid, err := id.NewSessionID()
	if err != nil {
		return "", errors.NewInternalError("failed to start session")
	}
	utils.SetSessionCookie(c, sid, h.cookie.TTL, h.cookie.Secure)
	return sid, nil
}

// parseWait accepts a Go duration or a whole number of seconds.
func parseWait(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0, errors.NewValidationError("wait must not be negative")
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.NewValidationError("wait must not be negative")
	}
	return d, nil
}
