package email

import (
	"context"
	"fmt"
	"html"

	"github.com/savedeities/contribute/internal/application/checkout"
	"github.com/savedeities/contribute/internal/domain/contribution"
	"github.com/savedeities/contribute/internal/shared/biztime"
	"github.com/savedeities/contribute/internal/shared/logger"
)

// SupportNotifier emails the support desk about payments that were taken but
// not confirmed.
type SupportNotifier struct {
	smtp    *SMTPEmailService
	address string
	logger  logger.Interface
}

var _ checkout.SupportNotifier = (*SupportNotifier)(nil)

func NewSupportNotifier(smtp *SMTPEmailService, address string, log logger.Interface) *SupportNotifier {
	return &SupportNotifier{smtp: smtp, address: address, logger: log}
}

func (n *SupportNotifier) NotifyIncident(ctx context.Context, incident checkout.SupportIncident) error {
	subject, plain, htmlBody := renderIncident(incident)
	if err := n.smtp.sendEmail(n.address, subject, htmlBody, plain); err != nil {
		return err
	}
	n.logger.Infow("support notified",
		"attempt_id", incident.AttemptID,
		"order_id", incident.OrderID,
		"payment_id", incident.PaymentID,
	)
	return nil
}

func renderIncident(in checkout.SupportIncident) (subject, plain, htmlBody string) {
	amount := ""
	if in.Currency != "" {
		amount = contribution.FormatAmount(in.Amount, in.Currency)
	}
	when := biztime.FormatReceiptTime(in.OccurredAt)

	ref := in.PaymentID
	if ref == "" {
		ref = in.OrderID
	}
	subject = fmt.Sprintf("[Contribution] Payment needs confirmation: %s", ref)

	rows := [][2]string{
		{"Reason", in.Reason},
		{"Payment ID", in.PaymentID},
		{"Order ID", in.OrderID},
		{"Amount", amount},
		{"Donor", in.Donor.Name},
		{"Email", in.Donor.Email},
		{"Phone", in.Donor.Phone},
		{"Attempt", in.AttemptID},
		{"Session", in.SessionID},
		{"Time", when},
	}

	plain = "A contribution payment may have been captured without backend confirmation.\n\n"
	htmlBody = "<html><body><h2>Payment needs confirmation</h2>" +
		"<p>A contribution payment may have been captured without backend confirmation.</p><table>"
	for _, r := range rows {
		plain += fmt.Sprintf("%s: %s\n", r[0], r[1])
		htmlBody += fmt.Sprintf("<tr><th align=\"left\">%s</th><td>%s</td></tr>", r[0], html.EscapeString(r[1]))
	}
	htmlBody += "</table></body></html>"
	return subject, plain, htmlBody
}

// LogNotifier records incidents in the error log when email is not set up.
type LogNotifier struct {
	logger logger.Interface
}

var _ checkout.SupportNotifier = (*LogNotifier)(nil)

func NewLogNotifier(log logger.Interface) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) NotifyIncident(ctx context.Context, in checkout.SupportIncident) error {
	n.logger.Errorw("payment needs manual confirmation",
		"reason", in.Reason,
		"attempt_id", in.AttemptID,
		"order_id", in.OrderID,
		"payment_id", in.PaymentID,
		"amount", in.Amount.String(),
		"currency", in.Currency,
		"donor_email", in.Donor.Email,
	)
	return nil
}
