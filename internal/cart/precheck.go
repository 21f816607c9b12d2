package cart

import (
	"fmt"

	pkgerrors "github.com/bazaarhq/storefront-client/pkg/errors"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

// EnsureStock is the advisory client-side stock gate used on the product and
// cart pages before a remote write. The catalog service performs the
// authoritative check at order submission; stock can change between this
// pre-check and submission.
func EnsureStock(product types.Product, desired int) error {
	if desired <= product.Stock {
		return nil
	}
	return pkgerrors.New(
		pkgerrors.CodeOutOfStock,
		fmt.Sprintf("Only %d of %q in stock", product.Stock, product.Title),
	).WithDetails(map[string]any{
		"product_id": product.ID,
		"requested":  desired,
		"available":  product.Stock,
	})
}
