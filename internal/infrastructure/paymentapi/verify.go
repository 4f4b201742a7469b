package paymentapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/savedeities/contribute/internal/application/checkout"
	"github.com/savedeities/contribute/internal/domain/contribution"
	"github.com/savedeities/contribute/internal/shared/utils/logutil"
)

// VerifyClient asks the backend to confirm gateway results.
type VerifyClient struct {
	*Client
}

func NewVerifyClient(c *Client) *VerifyClient {
	return &VerifyClient{Client: c}
}

var _ checkout.VerificationService = (*VerifyClient)(nil)

// Verify forwards the three gateway values verbatim. A reachable backend that
// says no is a denied outcome; anything else that is not a clear yes is an
// error.
func (c *VerifyClient) Verify(ctx context.Context, result contribution.GatewayResult) (contribution.VerificationOutcome, error) {
	resp, status, err := c.postJSON(ctx, c.verifyPath, result)
	if err != nil {
		return contribution.VerificationOutcome{}, contribution.NewVerificationFailure("", err)
	}

	if resp.Success && isSuccessStatus(status) {
		return contribution.VerificationOutcome{Confirmed: true}, nil
	}

	c.logger.Warnw("backend did not confirm payment",
		"order_id", result.OrderID,
		"payment_id", result.PaymentID,
		"signature", logutil.MaskSignature(result.Signature),
		"status", status,
		"reason", resp.reason(),
	)
	if status >= http.StatusInternalServerError {
		return contribution.VerificationOutcome{}, contribution.NewVerificationFailure(resp.reason(), fmt.Errorf("verify returned status %d", status))
	}
	return contribution.VerificationOutcome{Confirmed: false, Message: resp.reason()}, nil
}
