package contribution

// GatewayPrefill pre-fills the donor's contact details in the gateway UI.
type GatewayPrefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// GatewaySession is everything the page needs to open the hosted checkout.
// Amount and currency are copied from the Order and never recomputed.
type GatewaySession struct {
	Key         string         `json:"key"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	OrderID     string         `json:"order_id"`
	Prefill     GatewayPrefill `json:"prefill"`
	ThemeColor  string         `json:"theme_color,omitempty"`
}

// NewGatewaySession builds the session for order. displayName and themeColor
// brand the checkout window.
func NewGatewaySession(order *Order, profile DonorProfile, description, displayName, themeColor string) GatewaySession {
	return GatewaySession{
		Key:         order.GatewayKey(),
		Amount:      order.Amount(),
		Currency:    order.Currency(),
		Name:        displayName,
		Description: description,
		OrderID:     order.OrderID(),
		Prefill: GatewayPrefill{
			Name:    profile.Name,
			Email:   profile.Email,
			Contact: profile.Phone,
		},
		ThemeColor: themeColor,
	}
}

// OutcomeKind tags how a checkout ended.
type OutcomeKind string

const (
	OutcomeCompleted OutcomeKind = "completed"
	OutcomeCancelled OutcomeKind = "cancelled"
)

// GatewayOutcome is the single resolution of a checkout: either Completed
// with a Result or Cancelled with a Reason.
type GatewayOutcome struct {
	Kind   OutcomeKind
	Result GatewayResult
	Reason string
}

func Completed(result GatewayResult) GatewayOutcome {
	return GatewayOutcome{Kind: OutcomeCompleted, Result: result}
}

func Cancelled(reason string) GatewayOutcome {
	if reason == "" {
		reason = MessageCancelledByUser
	}
	return GatewayOutcome{Kind: OutcomeCancelled, Reason: reason}
}
