package cart

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Boundary checks for user input, run before any mutating call. Limits
// come from the constants above so client-side rejection never disagrees
// with the factories.

var couponCodePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})

	mustRegister(v, "cart_quantity", func(fl validator.FieldLevel) bool {
		q := fl.Field().Int()
		return q >= MinQuantity && q <= MaxQuantity
	})
	mustRegister(v, "shipping_method", func(fl validator.FieldLevel) bool {
		return ShippingMethod(fl.Field().String()).Valid()
	})
	mustRegister(v, "coupon_code", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		return len(code) <= MaxCouponCodeLength && couponCodePattern.MatchString(code)
	})
	mustRegister(v, "cart_attributes", func(fl validator.FieldLevel) bool {
		attrs, ok := fl.Field().Interface().(Attributes)
		if !ok {
			return false
		}
		if len(attrs) > MaxAttributes {
			return false
		}
		for k, val := range attrs {
			if strings.TrimSpace(k) == "" || len(k) > MaxAttributeKey || len(val) > MaxAttributeValue {
				return false
			}
		}
		return true
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("cart: register %s validator: %v", tag, err))
	}
}

// AddItemInput is what the UI sends to add a product.
type AddItemInput struct {
	ProductID  string     `json:"productId" validate:"required,max=64"`
	Quantity   int        `json:"quantity" validate:"cart_quantity"`
	Attributes Attributes `json:"attributes" validate:"cart_attributes"`
}

// UpdateQuantityInput is what the UI sends to change a line's quantity.
type UpdateQuantityInput struct {
	ProductID  string     `json:"productId" validate:"required,max=64"`
	Quantity   int        `json:"quantity" validate:"cart_quantity"`
	Attributes Attributes `json:"attributes" validate:"cart_attributes"`
}

type couponInput struct {
	Code string `json:"code" validate:"required,coupon_code"`
}

type shippingMethodInput struct {
	ShippingMethod ShippingMethod `json:"shippingMethod" validate:"required,shipping_method"`
}

func ValidateAddItem(in AddItemInput) (AddItemInput, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.Attributes = normalizeAttributes(in.Attributes)
	if err := validate.Struct(in); err != nil {
		return AddItemInput{}, validationError("Invalid item", err)
	}
	return in, nil
}

func ValidateUpdateQuantity(in UpdateQuantityInput) (UpdateQuantityInput, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.Attributes = normalizeAttributes(in.Attributes)
	if err := validate.Struct(in); err != nil {
		return UpdateQuantityInput{}, validationError("Invalid quantity", err)
	}
	return in, nil
}

// NormalizeCouponCode trims and upper-cases a user-entered code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCouponCode returns the normalized code or a validation error.
func ValidateCouponCode(code string) (string, error) {
	in := couponInput{Code: NormalizeCouponCode(code)}
	if err := validate.Struct(in); err != nil {
		return "", validationError("Invalid coupon code", err)
	}
	return in.Code, nil
}

func ValidateShippingMethod(method string) (ShippingMethod, error) {
	in := shippingMethodInput{ShippingMethod: ShippingMethod(strings.ToLower(strings.TrimSpace(method)))}
	if err := validate.Struct(in); err != nil {
		return "", validationError("Invalid shipping method", err)
	}
	return in.ShippingMethod, nil
}

func ValidateShippingAddress(addr ShippingAddress) (ShippingAddress, error) {
	addr.FullName = strings.TrimSpace(addr.FullName)
	addr.Email = strings.TrimSpace(addr.Email)
	addr.Phone = strings.TrimSpace(addr.Phone)
	addr.Street = strings.TrimSpace(addr.Street)
	addr.City = strings.TrimSpace(addr.City)
	addr.State = strings.TrimSpace(addr.State)
	addr.PostalCode = strings.TrimSpace(addr.PostalCode)
	addr.Country = strings.TrimSpace(addr.Country)
	addr.Notes = strings.TrimSpace(addr.Notes)
	if err := validate.Struct(addr); err != nil {
		return ShippingAddress{}, validationError("Invalid shipping address", err)
	}
	return addr, nil
}

func normalizeAttributes(attrs Attributes) Attributes {
	out := make(Attributes, len(attrs))
	for k, v := range attrs {
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

func validationError(message string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		e := NewValidationError(message, nil)
		e.Err = err
		return e
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return NewValidationError(message, fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "cart_quantity":
		return fmt.Sprintf("must be between %d and %d", MinQuantity, MaxQuantity)
	case "shipping_method":
		return "must be one of standard, express, overnight, pickup"
	case "coupon_code":
		return fmt.Sprintf("must be at most %d letters, digits, dashes or underscores", MaxCouponCodeLength)
	case "cart_attributes":
		return fmt.Sprintf("at most %d attributes with non-empty keys up to %d characters and values up to %d", MaxAttributes, MaxAttributeKey, MaxAttributeValue)
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
