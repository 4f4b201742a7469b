package email

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/savedeities/contribute/internal/application/checkout"
	"github.com/savedeities/contribute/internal/domain/contribution"
	"github.com/savedeities/contribute/internal/shared/config"
	"github.com/savedeities/contribute/internal/shared/logger"
)

func testIncident() checkout.SupportIncident {
	return checkout.SupportIncident{
		SessionID:  "ses_abc",
		AttemptID:  "att-1",
		OrderID:    "order_1",
		PaymentID:  "pay_1",
		Amount:     decimal.NewFromInt(1000),
		Currency:   "INR",
		Donor:      contribution.DonorProfile{Name: "Asha <Rao>", Email: "asha@example.com", Phone: "98765"},
		Reason:     "Payment verification failed",
		OccurredAt: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewSMTPEmailService_RequiresHost(t *testing.T) {
	_, err := NewSMTPEmailService(config.EmailConfig{})
	assert.ErrorIs(t, err, ErrEmailServiceNotConfigured)
}

func TestSupportNotifier_SendsEmail(t *testing.T) {
	svc, err := NewSMTPEmailService(config.EmailConfig{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    587,
		FromAddress: "noreply@example.com",
		FromName:    "Save Deities",
	})
	require.NoError(t, err)

	var sent []*gomail.Message
	svc.send = func(m ...*gomail.Message) error {
		sent = append(sent, m...)
		return nil
	}

	n := NewSupportNotifier(svc, "support@example.com", logger.NewNop())
	require.NoError(t, n.NotifyIncident(context.Background(), testIncident()))

	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, []string{"support@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"[Contribution] Payment needs confirmation: pay_1"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	body := buf.String()
	assert.Contains(t, body, "Order ID: order_1")
	assert.Contains(t, body, "Email: asha@example.com")
}

func TestRenderIncident_EscapesHTML(t *testing.T) {
	_, plain, htmlBody := renderIncident(testIncident())
	assert.Contains(t, plain, "Donor: Asha <Rao>")
	assert.Contains(t, htmlBody, "Asha &lt;Rao&gt;")
	assert.NotContains(t, htmlBody, "<Rao>")
}

func TestSupportNotifier_SendError(t *testing.T) {
	svc, err := NewSMTPEmailService(config.EmailConfig{SMTPHost: "smtp.example.com", FromAddress: "a@example.com"})
	require.NoError(t, err)
	svc.send = func(m ...*gomail.Message) error { return errors.New("connection refused") }

	err = NewSupportNotifier(svc, "support@example.com", logger.NewNop()).NotifyIncident(context.Background(), testIncident())
	assert.ErrorContains(t, err, "connection refused")
}

func TestRenderIncident_FallsBackToOrderID(t *testing.T) {
	in := testIncident()
	in.PaymentID = ""

	subject, plain, _ := renderIncident(in)
	assert.Contains(t, subject, "order_1")
	assert.Contains(t, plain, "Reason: Payment verification failed")
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, NewLogNotifier(logger.NewNop()).NotifyIncident(context.Background(), testIncident()))
}
