package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/socialchef/sous/internal/errors"
	"github.com/socialchef/sous/internal/services/recipe"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("recipe_category", validateCategory)
	_ = v.RegisterValidation("no_markup", validateNoMarkup)
	return v
}

func validateCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, c := range recipe.Categories {
		if string(c) == value {
			return true
		}
	}
	return false
}

var markupFragments = []string{"<", ">", "javascript:", "onload=", "onerror="}

// validateNoMarkup rejects values that look like HTML or script injection.
func validateNoMarkup(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	for _, frag := range markupFragments {
		if strings.Contains(value, frag) {
			return false
		}
	}
	return true
}

// Struct validates s and converts any failures into a validation AppError
// carrying one message per offending field.
func Struct(s any, message, code string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(message, code, "")
	}
	return apperrors.NewValidationError(message, code, "Fix the listed fields and retry").
		WithFields(FieldErrors(verrs))
}

// FieldErrors formats validator failures keyed by field path, for example
// "ingredients[0].name".
func FieldErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		field := e.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}

		switch e.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "min", "max":
			bound := "at least"
			if e.Tag() == "max" {
				bound = "at most"
			}
			switch e.Kind() {
			case reflect.String:
				out[field] = fmt.Sprintf("%s must be %s %s characters", field, bound, e.Param())
			case reflect.Slice:
				out[field] = fmt.Sprintf("%s must have %s %s entries", field, bound, e.Param())
			default:
				out[field] = fmt.Sprintf("%s must be %s %s", field, bound, e.Param())
			}
		case "gt":
			out[field] = fmt.Sprintf("%s must be greater than %s", field, e.Param())
		case "gte":
			out[field] = fmt.Sprintf("%s must be %s or more", field, e.Param())
		case "lte":
			out[field] = fmt.Sprintf("%s must be %s or less", field, e.Param())
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
		case "url":
			out[field] = fmt.Sprintf("%s must be a valid URL", field)
		case "recipe_category":
			out[field] = fmt.Sprintf("%s must be a known category", field)
		case "no_markup":
			out[field] = fmt.Sprintf("%s must not contain markup", field)
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}
