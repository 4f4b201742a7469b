package paymentapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/savedeities/contribute/internal/application/checkout"
	"github.com/savedeities/contribute/internal/domain/contribution"
	"github.com/savedeities/contribute/internal/shared/biztime"
	"github.com/savedeities/contribute/internal/shared/id"
)

type orderNotes struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CaseID    string `json:"caseId,omitempty"`
	CaseTitle string `json:"caseTitle,omitempty"`
}

type createOrderRequest struct {
	// Amount is sent exactly as the donor entered it; the backend converts
	// to minor units.
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
	Receipt  string      `json:"receipt"`
	Notes    orderNotes  `json:"notes"`
}

type orderPayload struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// OrderClient creates gateway orders through the backend.
type OrderClient struct {
	*Client
}

func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{Client: c}
}

var _ checkout.OrderService = (*OrderClient)(nil)

// CreateOrder asks the backend for an order bound to the request's amount.
// Every failure is an order_creation_failed FailureError carrying the
// backend's message when it sent one.
func (c *OrderClient) CreateOrder(ctx context.Context, req *contribution.ContributionRequest) (*contribution.Order, error) {
	receipt, err := id.NewReceiptToken(biztime.NowUTC())
	if err != nil {
		return nil, contribution.NewOrderCreationFailure("", fmt.Errorf("failed to generate receipt: %w", err))
	}

	body := createOrderRequest{
		Amount:   json.Number(req.Amount.String()),
		Currency: req.Currency,
		Receipt:  receipt,
		Notes: orderNotes{
			Name:      req.DonorName,
			Email:     req.DonorEmail,
			Phone:     req.DonorPhone,
			CaseID:    req.ContextID,
			CaseTitle: req.ContextLabel,
		},
	}

	resp, status, err := c.postJSON(ctx, c.orderPath, body)
	if err != nil {
		c.logger.Warnw("create order request failed", "receipt", receipt, "error", err)
		return nil, contribution.NewOrderCreationFailure("", err)
	}
	if !resp.Success || !isSuccessStatus(status) {
		c.logger.Warnw("backend refused to create order",
			"receipt", receipt,
			"status", status,
			"reason", resp.reason(),
		)
		return nil, contribution.NewOrderCreationFailure(resp.reason(), fmt.Errorf("create order returned status %d", status))
	}
	if resp.Order == nil {
		return nil, contribution.NewOrderCreationFailure("", fmt.Errorf("create order response has no order"))
	}

	order, err := contribution.NewOrder(resp.Order.ID, resp.Order.Amount, resp.Order.Currency, resp.KeyID, receipt)
	if err != nil {
		return nil, contribution.NewOrderCreationFailure("", fmt.Errorf("invalid order in response: %w", err))
	}

	c.logger.Infow("order created",
		"order_id", order.OrderID(),
		"amount_minor", order.Amount(),
		"currency", order.Currency(),
		"receipt", receipt,
	)
	return order, nil
}
