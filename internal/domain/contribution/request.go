package contribution

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a request does not name one.
const DefaultCurrency = "INR"

// ContributionRequest is a validated submission. Build it with
// NewContributionRequest; the zero value is not submittable.
type ContributionRequest struct {
	Amount       decimal.Decimal
	Currency     string
	DonorName    string
	DonorEmail   string
	DonorPhone   string
	Description  string
	ContextID    string
	ContextLabel string
}

// RequestContext carries the optional page context of a submission
// (the case being supported, if any).
type RequestContext struct {
	Currency     string
	Description  string
	ContextID    string
	ContextLabel string
}

// NewContributionRequest resolves the amount and validates the donor. Any
// violation is returned as a validation FailureError.
func NewContributionRequest(selection *AmountSelection, donor *DonorProfileCollector, rc RequestContext) (*ContributionRequest, error) {
	amount, err := selection.Resolve()
	if err != nil {
		return nil, NewValidationFailure(err)
	}
	if err := donor.Validate(); err != nil {
		return nil, NewValidationFailure(err)
	}

	currency := strings.ToUpper(strings.TrimSpace(rc.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	profile := donor.Profile()
	return &ContributionRequest{
		Amount:       amount,
		Currency:     currency,
		DonorName:    profile.Name,
		DonorEmail:   profile.Email,
		DonorPhone:   profile.Phone,
		Description:  rc.Description,
		ContextID:    rc.ContextID,
		ContextLabel: rc.ContextLabel,
	}, nil
}

// Profile returns the donor part of the request.
func (r *ContributionRequest) Profile() DonorProfile {
	return DonorProfile{Name: r.DonorName, Email: r.DonorEmail, Phone: r.DonorPhone}
}

// Fingerprint identifies "the same request" for duplicate-submission checks.
func (r *ContributionRequest) Fingerprint() string {
	h := sha256.New()
	for _, part := range []string{
		r.Amount.String(),
		r.Currency,
		strings.ToLower(r.DonorName),
		strings.ToLower(r.DonorEmail),
		r.DonorPhone,
		r.ContextID,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// DonorKey identifies the donor across sessions, for in-flight locking.
func (r *ContributionRequest) DonorKey() string {
	sum := sha256.Sum256([]byte(strings.ToLower(r.DonorEmail) + "|" + r.DonorPhone))
	return hex.EncodeToString(sum[:16])
}
