package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"fbm-tools-backend/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput runs the struct tag rules and reports the first violation
// as a domain.ValidationError.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.ValidationError{Field: fe.Field(), Message: describe(fe)}
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must contain at least " + fe.Param() + " entries"
	case "datetime":
		return "must be a date formatted " + fe.Param()
	}
	return "failed the " + fe.Tag() + " rule"
}

func validateRate(field string, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return domain.ValidationError{Field: field, Message: "must not be negative"}
	}
	return nil
}

func validateToolInput(in domain.ToolInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.ValidationError{Field: "name", Message: "is required"}
	}
	return validateRate("rate", in.Rate)
}

func validateRentalItems(items []domain.RentalItemInput) error {
	if len(items) == 0 {
		return domain.ValidationError{Field: "items", Message: "must contain at least 1 entries"}
	}
	for i, item := range items {
		if err := validateInput(item); err != nil {
			var ve domain.ValidationError
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("items[%d].%s", i, ve.Field)
				return ve
			}
			return err
		}
		if !item.Rate.Valid {
			continue
		}
		if err := validateRate(fmt.Sprintf("items[%d].rate", i), item.Rate.Decimal); err != nil {
			return err
		}
	}
	return nil
}
