package contribution

import "fmt"

// Order is the backend-issued, amount-bound token that must exist before a
// gateway session may open. It is immutable once created.
type Order struct {
	orderID    string
	amount     int64 // minor units, as returned by the order service
	currency   string
	gatewayKey string
	receipt    string
}

func NewOrder(orderID string, amount int64, currency, gatewayKey, receipt string) (*Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", amount)
	}
	if currency == "" {
		return nil, fmt.Errorf("order currency is required")
	}
	if gatewayKey == "" {
		return nil, fmt.Errorf("gateway key is required")
	}
	return &Order{
		orderID:    orderID,
		amount:     amount,
		currency:   currency,
		gatewayKey: gatewayKey,
		receipt:    receipt,
	}, nil
}

func (o *Order) OrderID() string {
	return o.orderID
}

// Amount is in minor currency units (paise for INR).
func (o *Order) Amount() int64 {
	return o.amount
}

func (o *Order) Currency() string {
	return o.currency
}

func (o *Order) GatewayKey() string {
	return o.gatewayKey
}

func (o *Order) Receipt() string {
	return o.receipt
}

// GatewayResult is what the gateway UI reports after the donor pays. It is
// opaque until the backend verifies it.
type GatewayResult struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
}

func (r GatewayResult) IsComplete() bool {
	return r.PaymentID != "" && r.OrderID != "" && r.Signature != ""
}

// VerificationOutcome is the backend's verdict on a GatewayResult.
type VerificationOutcome struct {
	Confirmed bool
	Message   string
}
