package contribution

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are plain decimal text with at most two fractional digits. Exponent
// notation is refused: "1e99999999" would otherwise expand to a huge number.
var amountPattern = regexp.MustCompile(`^[0-9]{1,12}(\.[0-9]{1,2})?$`)

// ParseAmount parses a positive amount in major currency units.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if !amountPattern.MatchString(raw) {
		return decimal.Zero, fmt.Errorf("%w: %q is not a plain amount", ErrInvalidAmount, raw)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, raw)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s must be greater than zero", ErrInvalidAmount, amount.String())
	}
	return amount, nil
}

// AmountSelection holds the two mutually exclusive amount slots of the
// contribution form: a preset choice and free-form custom text.
type AmountSelection struct {
	presets []decimal.Decimal
	maximum decimal.Decimal
	chosen  string
	custom  string
}

// NewAmountSelection creates an empty selection offering the given presets.
// A zero maximum leaves custom amounts uncapped.
func NewAmountSelection(presets []decimal.Decimal, maximum decimal.Decimal) *AmountSelection {
	return &AmountSelection{presets: presets, maximum: maximum}
}

// SelectFixed sets the preset slot and clears the custom one.
func (s *AmountSelection) SelectFixed(value string) {
	s.chosen = strings.TrimSpace(value)
	s.custom = ""
}

// SetCustom sets the custom slot and clears the preset one.
func (s *AmountSelection) SetCustom(text string) {
	s.custom = strings.TrimSpace(text)
	s.chosen = ""
}

// Resolve returns the effective amount: custom when set, otherwise chosen.
// A chosen value must be one of the offered presets.
func (s *AmountSelection) Resolve() (decimal.Decimal, error) {
	if s.custom != "" {
		amount, err := ParseAmount(s.custom)
		if err != nil {
			return decimal.Zero, err
		}
		if s.maximum.IsPositive() && amount.GreaterThan(s.maximum) {
			return decimal.Zero, fmt.Errorf("%w: %s exceeds the maximum of %s", ErrInvalidAmount, amount.String(), s.maximum.String())
		}
		return amount, nil
	}
	if s.chosen == "" {
		return decimal.Zero, ErrNoAmountSelected
	}

	amount, err := ParseAmount(s.chosen)
	if err != nil {
		return decimal.Zero, err
	}
	if !s.IsPreset(amount) {
		return decimal.Zero, fmt.Errorf("%w: %s is not one of the offered amounts", ErrInvalidAmount, amount.String())
	}
	return amount, nil
}

// IsPreset reports whether amount is one of the offered fixed choices.
func (s *AmountSelection) IsPreset(amount decimal.Decimal) bool {
	for _, p := range s.presets {
		if p.Equal(amount) {
			return true
		}
	}
	return false
}
