package payment

import (
	"testing"
	"time"

	"github.com/bazaarhq/storefront-client/pkg/enums"
)

func TestValidateUPI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "well formed", input: "name@bank", valid: true},
		{name: "missing at", input: "name", valid: false},
		{name: "empty left segment", input: "@bank", valid: false},
		{name: "empty right segment", input: "name@", valid: false},
		{name: "two ats", input: "a@b@c", valid: false},
		{name: "blank", input: "   ", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateUPI(tt.input)
			if result.Valid != tt.valid {
				t.Fatalf("ValidateUPI(%q) valid=%v, want %v (%s)", tt.input, result.Valid, tt.valid, result.Message)
			}
			if !result.Valid && result.Message == "" {
				t.Fatalf("invalid result must carry a message")
			}
		})
	}
}

func TestValidateCardNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "16 digits with spaces", input: "4111 1111 1111 1111", valid: true},
		{name: "13 digits", input: "4111111111111", valid: true},
		{name: "19 digits", input: "4111111111111111111", valid: true},
		{name: "too short", input: "123", valid: false},
		{name: "too long", input: "41111111111111111112", valid: false},
		{name: "dashes are not stripped", input: "4111-1111", valid: false},
		{name: "empty", input: "", valid: false},
		{name: "only spaces", input: "   ", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateCardNumber(tt.input)
			if result.Valid != tt.valid {
				t.Fatalf("ValidateCardNumber(%q) valid=%v, want %v (%s)", tt.input, result.Valid, tt.valid, result.Message)
			}
		})
	}
}

func TestValidateCardExpiryAt(t *testing.T) {
	march2025 := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "previous month expired", input: "02/25", valid: false},
		{name: "current month still valid", input: "03/25", valid: true},
		{name: "next month valid", input: "04/25", valid: true},
		{name: "far future", input: "12/99", valid: true},
		{name: "past year", input: "01/20", valid: false},
		{name: "month out of range", input: "13/30", valid: false},
		{name: "month zero", input: "00/30", valid: false},
		{name: "wrong format", input: "3/25", valid: false},
		{name: "blank", input: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateCardExpiryAt(tt.input, march2025)
			if result.Valid != tt.valid {
				t.Fatalf("ValidateCardExpiryAt(%q) valid=%v, want %v (%s)", tt.input, result.Valid, tt.valid, result.Message)
			}
		})
	}
}

func TestValidateCVV(t *testing.T) {
	for input, want := range map[string]bool{
		"123":   true,
		"1234":  true,
		"12":    false,
		"12345": false,
		"12a":   false,
		"":      false,
	} {
		if got := ValidateCVV(input); got.Valid != want {
			t.Fatalf("ValidateCVV(%q) valid=%v, want %v", input, got.Valid, want)
		}
	}
}

func TestValidateCardholderName(t *testing.T) {
	for input, want := range map[string]bool{
		"Asha Rao": true,
		"Ash":      true,
		"Al":       false,
		"  A  ":    false,
		"":         false,
	} {
		if got := ValidateCardholderName(input); got.Valid != want {
			t.Fatalf("ValidateCardholderName(%q) valid=%v, want %v", input, got.Valid, want)
		}
	}
}

func TestValidateMethodAggregates(t *testing.T) {
	// Cash on delivery is always valid, even with no field input.
	if err := ValidateMethod(enums.PaymentMethodCOD, Details{}); err != nil {
		t.Fatalf("cod should always be valid, got %v", err)
	}

	// UPI validity depends on the UPI field alone.
	if err := ValidateMethod(enums.PaymentMethodUPI, Details{UPIID: "name@bank", CardNumber: "junk"}); err != nil {
		t.Fatalf("upi with valid id should pass, got %v", err)
	}
	if err := ValidateMethod(enums.PaymentMethodUPI, Details{UPIID: "name"}); err == nil {
		t.Fatal("upi with invalid id should fail")
	}

	// Card requires all four fields.
	good := Details{
		CardNumber:     "4111 1111 1111 1111",
		CardExpiry:     "12/99",
		CardCVV:        "123",
		CardholderName: "Asha Rao",
	}
	if err := ValidateMethod(enums.PaymentMethodCard, good); err != nil {
		t.Fatalf("complete card details should pass, got %v", err)
	}

	bad := good
	bad.CardCVV = "1"
	bad.CardholderName = ""
	err := ValidateMethod(enums.PaymentMethodCard, bad)
	if err == nil {
		t.Fatal("incomplete card details should fail")
	}

	if IsMethodValid(enums.PaymentMethodCard, bad) {
		t.Fatal("aggregate signal should be false for incomplete card details")
	}
	if !IsMethodValid(enums.PaymentMethodCOD, Details{}) {
		t.Fatal("aggregate signal should be true for cod")
	}

	// No method selected.
	if err := ValidateMethod("", Details{}); err == nil {
		t.Fatal("missing method should fail")
	}
}
