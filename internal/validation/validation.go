// Package validation holds the field rules shared by request binding and the
// service layer. The rules are registered as go-playground/validator tags so
// gin's binding engine enforces them on request structs:
//
//	tagcolor    hex colour, #RGB or #RRGGBB
//	slug        letters, digits, '-' and '_'
//	username    slug charset, not a reserved name
//	cookingtime 1..600 minutes
//	amount      1..1000 units
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/foodgram/backend/internal/apperr"
)

const (
	MinCookingTime = 1
	MaxCookingTime = 600
	MinAmount      = 1
	MaxAmount      = 1000
)

var (
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	// account names must satisfy both the platform charset and the slug charset
	platformUsernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

	reservedUsernames = map[string]struct{}{"me": {}}
)

func IsHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

func IsSlug(s string) bool {
	return slugRe.MatchString(s)
}

// ValidateUsername rejects names outside the allowed charset and reserved
// names that collide with routes such as /users/me/.
func ValidateUsername(s string) error {
	if !platformUsernameRe.MatchString(s) || !slugRe.MatchString(s) {
		return apperr.Validation("username", "username %q contains forbidden characters", s)
	}
	if _, ok := reservedUsernames[strings.ToLower(s)]; ok {
		return apperr.Validation("username", "username %q is reserved", s)
	}
	return nil
}

func ValidateHexColor(s string) error {
	if !IsHexColor(s) {
		return apperr.Validation("color", "%q is not a hex colour", s)
	}
	return nil
}

func ValidateSlug(s string) error {
	if !IsSlug(s) {
		return apperr.Validation("slug", "%q is not a valid slug", s)
	}
	return nil
}

func ValidateCookingTime(minutes int) error {
	if minutes < MinCookingTime || minutes > MaxCookingTime {
		return apperr.Validation("cooking_time", "cooking time must be between %d and %d minutes", MinCookingTime, MaxCookingTime)
	}
	return nil
}

func ValidateAmount(amount int) error {
	if amount < MinAmount || amount > MaxAmount {
		return apperr.Validation("amount", "amount must be between %d and %d", MinAmount, MaxAmount)
	}
	return nil
}

// Register installs the custom tags on v and makes field errors report JSON
// field names.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	rules := map[string]validator.Func{
		"tagcolor": func(fl validator.FieldLevel) bool { return IsHexColor(fl.Field().String()) },
		"slug":     func(fl validator.FieldLevel) bool { return IsSlug(fl.Field().String()) },
		"username": func(fl validator.FieldLevel) bool { return ValidateUsername(fl.Field().String()) == nil },
		"cookingtime": func(fl validator.FieldLevel) bool {
			return ValidateCookingTime(int(fl.Field().Int())) == nil
		},
		"amount": func(fl validator.FieldLevel) bool { return ValidateAmount(int(fl.Field().Int())) == nil },
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterGin installs the custom tags on gin's default binding engine.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// FromBindError converts a binding failure into a validation error with one
// message per offending field.
func FromBindError(err error) *apperr.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("non_field_errors", "invalid request body: %v", err)
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		fields[name] = append(fields[name], message(fe))
	}
	return apperr.ValidationFields(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return "ensure this field has no more than " + fe.Param() + " characters"
	case "min":
		return "ensure this field has at least " + fe.Param() + " items"
	case "tagcolor":
		return "enter a hex colour such as #E26C2D"
	case "slug":
		return "use only letters, digits, hyphens and underscores"
	case "username":
		return "username contains forbidden characters or is reserved"
	case "cookingtime":
		return "cooking time must be between 1 and 600 minutes"
	case "amount":
		return "amount must be between 1 and 1000"
	default:
		return "invalid value (" + fe.Tag() + ")"
	}
}
