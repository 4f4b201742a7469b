package contribution

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var receiptPrinter = message.NewPrinter(language.MustParse("en-IN"))

// Receipt is reported to the page when an attempt succeeds.
type Receipt struct {
	AttemptID   string          `json:"attempt_id"`
	OrderID     string          `json:"order_id"`
	PaymentID   string          `json:"payment_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	ConfirmedAt time.Time       `json:"confirmed_at"`
}

// DisplayAmount formats the contributed amount for the thank-you view,
// for example "₹ 1,000.00".
func (r Receipt) DisplayAmount() string {
	return FormatAmount(r.Amount, r.Currency)
}

// FormatAmount renders amount with the currency symbol when the currency is
// known, or with the ISO code otherwise.
func FormatAmount(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return amount.StringFixed(2) + " " + code
	}
	return receiptPrinter.Sprint(currency.Symbol(unit.Amount(amount.InexactFloat64())))
}
