// Package validation checks form payloads with go-playground/validator and
// converts failures into field-scoped domain.ValidationError values keyed by
// JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
)

// PhonePattern accepts an optional leading "+" followed by 7-20 digits,
// spaces, dashes or parentheses.
var PhonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)

var (
	once     sync.Once
	instance *validator.Validate
)

func validate() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
			return PhonePattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "purpose", func(fl validator.FieldLevel) bool {
			p := domain.DonationPurpose(fl.Field().String())
			for _, known := range domain.DonationPurposes {
				if p == known {
					return true
				}
			}
			return false
		})
		mustRegister(v, "interest", func(fl validator.FieldLevel) bool {
			return domain.IsVolunteerInterest(fl.Field().String())
		})
		mustRegister(v, "availability", func(fl validator.FieldLevel) bool {
			return domain.IsVolunteerAvailability(fl.Field().String())
		})
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Struct validates s and returns a *domain.ValidationError describing every
// failing field, or nil.
func Struct(s any) *domain.ValidationError {
	err := validate().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError("_", err.Error())
	}
	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Add(fieldName(fe), message(fe))
	}
	return out
}

// fieldName strips slice indexes so every element error of a multi-select
// is reported against the field itself.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if idx := strings.IndexByte(name, '['); idx > 0 {
		name = name[:idx]
	}
	return name
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid id"
	case "purpose":
		return "must be one of " + joinPurposes()
	case "interest":
		return "contains an unknown interest area"
	case "availability":
		return "contains an unknown availability option"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.Slice {
			return "select at least " + fe.Param()
		}
		return "must be at least " + fe.Param() + " characters"
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	}
	return "is invalid"
}

func joinPurposes() string {
	parts := make([]string, len(domain.DonationPurposes))
	for i, p := range domain.DonationPurposes {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
