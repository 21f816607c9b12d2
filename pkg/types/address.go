package types

import (
	"fmt"
	"strings"
)

// Address is the session-scoped delivery address collected by the checkout
// wizard. It is discarded after a successful order submission.
type Address struct {
	FullName     string `json:"full_name" validate:"required"`
	Mobile       string `json:"mobile" validate:"required,min=10"`
	Pincode      string `json:"pincode" validate:"required,len=6"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2,omitempty"`
	Landmark     string `json:"landmark,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
}

// Serialize flattens the address into the multi-line string submitted with an
// order: name and mobile, then street lines, then landmark/city/state/pincode.
func (a Address) Serialize() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s, %s\n", a.FullName, a.Mobile)

	b.WriteString(a.AddressLine1)
	if a.AddressLine2 != "" {
		b.WriteString(", ")
		b.WriteString(a.AddressLine2)
	}
	b.WriteString("\n")

	if a.Landmark != "" {
		b.WriteString(a.Landmark)
		b.WriteString(", ")
	}
	fmt.Fprintf(&b, "%s, %s - %s", a.City, a.State, a.Pincode)

	return b.String()
}
