package contribution

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var donorValidate = validator.New()

// DonorProfile is the minimal donor identity sent with an order.
type DonorProfile struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
	Phone string `validate:"required"`
}

// donorFieldNames maps struct fields to the names reported to the page.
var donorFieldNames = map[string]string{
	"Name":  "name",
	"Email": "email",
	"Phone": "phone",
}

// DonorProfileCollector accumulates donor fields from the form.
type DonorProfileCollector struct {
	profile DonorProfile
	strict  bool
}

// NewDonorProfileCollector creates a collector. With strict set, the email
// field must also be well formed.
func NewDonorProfileCollector(strict bool) *DonorProfileCollector {
	return &DonorProfileCollector{strict: strict}
}

func (c *DonorProfileCollector) SetName(name string) {
	c.profile.Name = strings.TrimSpace(name)
}

func (c *DonorProfileCollector) SetEmail(email string) {
	c.profile.Email = strings.TrimSpace(email)
}

func (c *DonorProfileCollector) SetPhone(phone string) {
	c.profile.Phone = strings.TrimSpace(phone)
}

func (c *DonorProfileCollector) Profile() DonorProfile {
	return c.profile
}

// Validate returns a *MissingFieldError naming every empty field, in form
// order, or nil when the profile is complete.
func (c *DonorProfileCollector) Validate() error {
	if err := donorValidate.Struct(c.profile); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		missing := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			missing = append(missing, donorFieldNames[fe.StructField()])
		}
		return &MissingFieldError{Fields: missing}
	}

	if c.strict {
		if err := donorValidate.Var(c.profile.Email, "email"); err != nil {
			return &InvalidFieldError{Field: "email", Reason: "not a valid email address"}
		}
	}

	return nil
}
