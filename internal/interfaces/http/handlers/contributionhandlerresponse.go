package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savedeities/contribute/internal/application/checkout"
	"github.com/savedeities/contribute/internal/domain/cases"
	"github.com/savedeities/contribute/internal/domain/contribution"
	vo "github.com/savedeities/contribute/internal/domain/contribution/valueobjects"
	"github.com/savedeities/contribute/internal/shared/errors"
	"github.com/savedeities/contribute/internal/shared/utils"
)

// SnapshotResponse is the attempt as the page sees it.
type SnapshotResponse = checkout.Snapshot

// PresetsResponse lists the fixed amounts offered on a page.
type PresetsResponse = checkout.PresetsView

// CaseResponse is the case summary panel.
type CaseResponse = checkout.CaseView

const messageLateCompletion = "Your payment arrived after the checkout had closed. " +
	"It has not been confirmed; please contact support and do not pay again."

// failureStatus maps an attempt failure kind to the HTTP status it is
// reported with.
func failureStatus(kind vo.FailureKind) int {
	switch kind {
	case vo.FailureKindValidation:
		return http.StatusBadRequest
	case vo.FailureKindScriptLoadFailed:
		return http.StatusServiceUnavailable
	case vo.FailureKindOrderCreationFailed, vo.FailureKindVerificationFailed:
		return http.StatusBadGateway
	case vo.FailureKindCancelled:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// toAppError translates contribution errors into the response envelope's
// error. Unknown errors stay as they are and surface as internal errors.
func toAppError(err error) error {
	var fe *contribution.FailureError
	var missing *contribution.MissingFieldError
	var invalid *contribution.InvalidFieldError

	switch {
	case stderrors.As(err, &fe):
		return errors.New(errors.ErrorType(fe.Kind), failureStatus(fe.Kind), fe.Message)
	case stderrors.As(err, &missing), stderrors.As(err, &invalid):
		return errors.NewValidationError(err.Error())
	case stderrors.Is(err, contribution.ErrNoAmountSelected), stderrors.Is(err, contribution.ErrInvalidAmount):
		return errors.NewValidationError(err.Error())
	case stderrors.Is(err, contribution.ErrAttemptInProgress):
		return errors.NewConflictError("A contribution is already in progress")
	case stderrors.Is(err, contribution.ErrAlreadySucceeded):
		return errors.NewConflictError("This contribution has already been completed")
	case stderrors.Is(err, checkout.ErrLateCompletion):
		return errors.NewConflictError(messageLateCompletion)
	case stderrors.Is(err, checkout.ErrStaleAttempt), stderrors.Is(err, checkout.ErrCheckoutResolved):
		return errors.NewConflictError("This checkout is no longer active")
	case stderrors.Is(err, checkout.ErrIncompleteResult):
		return errors.NewValidationError("Incomplete payment result")
	case stderrors.Is(err, checkout.ErrInvalidAttemptToken):
		return errors.NewUnauthorizedError("Invalid or expired attempt token")
	case stderrors.Is(err, cases.ErrCaseNotFound):
		return errors.NewNotFoundError("Case not found")
	}
	return err
}

// respondAttemptError writes err and, when there is one, the attempt
// snapshot so the page can render the failure it describes.
func respondAttemptError(c *gin.Context, err error, snap *checkout.Snapshot) {
	if snap != nil {
		utils.ErrorResponseWithData(c, toAppError(err), snap)
		return
	}
	utils.ErrorResponseWithError(c, toAppError(err))
}
