// Package payment implements the simulated payment step: pure field
// validators and the demo gateway session. No real payment network is ever
// contacted.
package payment

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/bazaarhq/storefront-client/pkg/enums"
	pkgerrors "github.com/bazaarhq/storefront-client/pkg/errors"
)

// Result is the outcome of a single field validation. Failures are values,
// never panics, so callers can render them inline.
type Result struct {
	Valid   bool
	Message string
}

func valid() Result {
	return Result{Valid: true}
}

func invalid(message string) Result {
	return Result{Valid: false, Message: message}
}

// Details carries the raw payment fields entered for the selected method.
type Details struct {
	UPIID          string
	CardNumber     string
	CardExpiry     string
	CardCVV        string
	CardholderName string
}

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	expiryForm = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	cvvForm    = regexp.MustCompile(`^\d{3,4}$`)
)

// ValidateUPI checks the user@bank shape: exactly one @ with non-empty
// segments on both sides.
func ValidateUPI(upiID string) Result {
	if strings.TrimSpace(upiID) == "" {
		return invalid("UPI ID is required")
	}
	if !strings.Contains(upiID, "@") {
		return invalid("Please enter a valid UPI ID (e.g., user@bank)")
	}
	parts := strings.Split(upiID, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return invalid("Invalid UPI ID format")
	}
	return valid()
}

// ValidateCardNumber strips spaces and requires 13-19 digits.
func ValidateCardNumber(cardNumber string) Result {
	cleaned := strings.ReplaceAll(cardNumber, " ", "")
	if cleaned == "" {
		return invalid("Card number is required")
	}
	if !digitsOnly.MatchString(cleaned) {
		return invalid("Card number must contain only digits")
	}
	if len(cleaned) < 13 || len(cleaned) > 19 {
		return invalid("Card number must be between 13 and 19 digits")
	}
	return valid()
}

// ValidateCardExpiry checks MM/YY against the current month.
func ValidateCardExpiry(expiry string) Result {
	return ValidateCardExpiryAt(expiry, time.Now())
}

// ValidateCardExpiryAt checks MM/YY against the supplied reference time. The
// two-digit year is compared against the current two-digit year, with the
// current month breaking ties; the current month is still accepted.
func ValidateCardExpiryAt(expiry string, now time.Time) Result {
	if strings.TrimSpace(expiry) == "" {
		return invalid("Expiry date is required")
	}
	match := expiryForm.FindStringSubmatch(expiry)
	if match == nil {
		return invalid("Expiry must be in MM/YY format")
	}
	month := int(match[1][0]-'0')*10 + int(match[1][1]-'0')
	year := int(match[2][0]-'0')*10 + int(match[2][1]-'0')
	if month < 1 || month > 12 {
		return invalid("Invalid month (must be 01-12)")
	}
	currentYear := now.Year() % 100
	currentMonth := int(now.Month())
	if year < currentYear || (year == currentYear && month < currentMonth) {
		return invalid("Card has expired")
	}
	return valid()
}

// ValidateCVV requires 3 or 4 digits.
func ValidateCVV(cvv string) Result {
	if strings.TrimSpace(cvv) == "" {
		return invalid("CVV is required")
	}
	if !cvvForm.MatchString(cvv) {
		return invalid("CVV must be 3 or 4 digits")
	}
	return valid()
}

// ValidateCardholderName requires at least 3 characters after trimming.
func ValidateCardholderName(name string) Result {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return invalid("Cardholder name is required")
	}
	if len(trimmed) < 3 {
		return invalid("Name must be at least 3 characters")
	}
	return valid()
}

// ValidateMethod reports the aggregate validity for the selected method:
// cash-on-delivery is always valid, UPI depends on the UPI field alone, card
// depends on all four card fields. Field failures are combined so callers can
// report every outstanding problem at once.
func ValidateMethod(method enums.PaymentMethod, details Details) error {
	switch method {
	case enums.PaymentMethodCOD:
		return nil
	case enums.PaymentMethodUPI:
		if r := ValidateUPI(details.UPIID); !r.Valid {
			return pkgerrors.New(pkgerrors.CodeValidation, r.Message)
		}
		return nil
	case enums.PaymentMethodCard:
		var combined error
		for _, r := range []Result{
			ValidateCardNumber(details.CardNumber),
			ValidateCardExpiry(details.CardExpiry),
			ValidateCVV(details.CardCVV),
			ValidateCardholderName(details.CardholderName),
		} {
			if !r.Valid {
				combined = multierr.Append(combined, pkgerrors.New(pkgerrors.CodeValidation, r.Message))
			}
		}
		return combined
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "Please select a payment method")
	}
}

// IsMethodValid is the boolean aggregate validity signal.
func IsMethodValid(method enums.PaymentMethod, details Details) bool {
	return ValidateMethod(method, details) == nil
}
