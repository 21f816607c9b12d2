package checkout

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bazaarhq/storefront-client/internal/session"
	pkgerrors "github.com/bazaarhq/storefront-client/pkg/errors"
	"github.com/bazaarhq/storefront-client/pkg/logger"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

// AddressKey is the session storage key for the in-progress delivery address.
const AddressKey = "checkoutAddress"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Field-order matches types.Address, so the validator's first reported error
// is the first failing rule; later rules are not surfaced in the same pass.
var addressMessages = map[string]string{
	"full_name":     "Please enter your full name",
	"mobile":        "Please enter a valid mobile number",
	"pincode":       "Please enter a valid 6-digit pincode",
	"address_line1": "Please enter address line 1",
	"city":          "Please enter your city",
	"state":         "Please enter your state",
}

// ValidateAddress checks the required fields in declaration order and reports
// only the first failure.
func ValidateAddress(addr types.Address) error {
	if err := validate.Struct(trimmed(addr)); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			message, ok := addressMessages[first.Field()]
			if !ok {
				message = "Please complete the address"
			}
			return pkgerrors.New(pkgerrors.CodeValidation, message).
				WithDetails(map[string]string{"field": first.Field()})
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address")
	}
	return nil
}

func trimmed(addr types.Address) types.Address {
	addr.FullName = strings.TrimSpace(addr.FullName)
	addr.Mobile = strings.TrimSpace(addr.Mobile)
	addr.Pincode = strings.TrimSpace(addr.Pincode)
	addr.AddressLine1 = strings.TrimSpace(addr.AddressLine1)
	addr.City = strings.TrimSpace(addr.City)
	addr.State = strings.TrimSpace(addr.State)
	return addr
}

// persistAddress writes the address to session storage. Best-effort: failures
// are logged and never block checkout.
func persistAddress(ctx context.Context, store session.Store, logg *logger.Logger, addr types.Address) {
	encoded, err := json.Marshal(addr)
	if err == nil {
		err = store.Set(ctx, AddressKey, string(encoded))
	}
	if err != nil && logg != nil {
		logg.Error(ctx, "failed to persist checkout address", err)
	}
}

// restoreAddress loads a previously saved address, if any. Absence is normal.
func restoreAddress(ctx context.Context, store session.Store, logg *logger.Logger) (types.Address, bool) {
	raw, ok, err := store.Get(ctx, AddressKey)
	if err != nil {
		if logg != nil {
			logg.Error(ctx, "failed to restore checkout address", err)
		}
		return types.Address{}, false
	}
	if !ok {
		return types.Address{}, false
	}
	var addr types.Address
	if err := json.Unmarshal([]byte(raw), &addr); err != nil {
		if logg != nil {
			logg.Error(ctx, "failed to decode saved checkout address", err)
		}
		return types.Address{}, false
	}
	return addr, true
}

// discardAddress removes the saved address. Best-effort.
func discardAddress(ctx context.Context, store session.Store, logg *logger.Logger) {
	if err := store.Delete(ctx, AddressKey); err != nil && logg != nil {
		logg.Error(ctx, "failed to discard checkout address", err)
	}
}
