package store

import (
	"strings"

	perrors "github.com/abgdnv/quotebuilder/internal/product/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	MinQuantity = decimal.NewFromInt(1)
	MinPrice    = decimal.New(1, -2) // 0.01
)

var validate = validator.New()

// Validate checks a product input against the product rules and returns
// nil or a *errors.ValidationError listing every rejected field.
func Validate(input Input) error {
	fields := make(map[string]string)

	// a blank name is rejected, the stored name is kept as submitted
	if err := validate.Var(strings.TrimSpace(input.Name), "required"); err != nil {
		fields["name"] = "Name is required"
	}
	if input.Quantity.LessThan(MinQuantity) {
		fields["quantity"] = "Quantity must be at least 1"
	}
	if input.Price.LessThan(MinPrice) {
		fields["price"] = "Price must be greater than 0"
	}

	if len(fields) > 0 {
		return perrors.NewValidationError(fields)
	}
	return nil
}
