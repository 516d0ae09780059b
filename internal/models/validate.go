package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Messages shown to clients for rejected input.
const (
	MsgMissingFields = "Missing required fields"
	MsgNegativePrice = "Price must not be negative"
	MsgInvalidPrice  = "Price must be a number"
	MsgNameTooLong   = "Name must be at most 200 characters"
	MsgInvalidImage  = "Image must be a valid URL"
	MsgPriceRange    = "Price must have at most 2 decimal places and 10 integer digits"
	MsgImageTooLarge = "Image is too large"
)

// maxPrice is the first value that no longer fits decimal(12,2).
var maxPrice = decimal.New(1, 10)

// ValidationError is a client mistake; Message is safe to show.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid wraps msg as a *ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = validator.New()

// Normalize trims surrounding whitespace from the text fields.
func (f Fields) Normalize() Fields {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Image = strings.TrimSpace(f.Image)
	return f
}

// Validate checks f after normalising it.
func (f Fields) Validate() error {
	f = f.Normalize()
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return Invalid(MsgMissingFields)
			}
		}
		switch verrs[0].Field() {
		case "Name":
			return Invalid(MsgNameTooLong)
		default:
			return Invalid(MsgInvalidImage)
		}
	}
	if f.Price.IsNegative() {
		return Invalid(MsgNegativePrice)
	}
	if !f.Price.Equal(f.Price.Round(2)) || f.Price.GreaterThanOrEqual(maxPrice) {
		return Invalid(MsgPriceRange)
	}
	return nil
}

// ParsePrice parses user-typed prices such as "19.99" or "19,99".
func ParsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return decimal.Decimal{}, Invalid(MsgMissingFields)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, Invalid(MsgInvalidPrice)
	}
	return d, nil
}
