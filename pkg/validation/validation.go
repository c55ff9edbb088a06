// Package validation holds the field rules for shop and supplier records
// and registers them as custom tags on gin's validator engine.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/shopdesk-api/pkg/apperror"
	"github.com/sangkips/shopdesk-api/pkg/locations"
	"github.com/ttacon/libphonenumber"
)

// DefaultRegion is the libphonenumber region used for local numbers.
const DefaultRegion = "LK"

// LocalPhoneDigits is the digit count of a local mobile or landline number
// written with its leading zero, e.g. 0771234567.
const LocalPhoneDigits = 10

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	oldNICRe   = regexp.MustCompile(`^[0-9]{9}[VvXx]$`)
	newNICRe   = regexp.MustCompile(`^[0-9]{12}$`)
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidPhone = errors.New("phone number must have 10 digits")
	ErrInvalidNIC   = errors.New("NIC must be 9 digits followed by V or X, or 12 digits")
)

// IsValidEmail checks the address against the email pattern.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// IsValidNIC accepts the old (9 digits + V/X) and new (12 digits) formats.
func IsValidNIC(nic string) bool {
	nic = strings.TrimSpace(nic)
	return oldNICRe.MatchString(nic) || newNICRe.MatchString(nic)
}

// ValidatePhoneNumber checks the number is a valid number for region and,
// when written locally, carries exactly LocalPhoneDigits digits.
func ValidatePhoneNumber(phoneNumber, region string) error {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return ErrInvalidPhone
	}
	if !strings.HasPrefix(phoneNumber, "+") && countDigits(phoneNumber) != LocalPhoneDigits {
		return ErrInvalidPhone
	}

	p, err := libphonenumber.Parse(phoneNumber, region)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if !libphonenumber.IsValidNumber(p) {
		return ErrInvalidPhone
	}
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Collector accumulates field errors so a whole record is reported at once.
type Collector struct {
	errs []apperror.FieldError
}

// Add records a field error.
func (c *Collector) Add(field, message string) {
	c.errs = append(c.errs, apperror.FieldError{Field: field, Message: message})
}

// Required records an error when value is blank.
func (c *Collector) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.Add(field, field+" is required")
		return false
	}
	return true
}

// Email validates an optional email.
func (c *Collector) Email(field string, value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return
	}
	if !IsValidEmail(*value) {
		c.Add(field, ErrInvalidEmail.Error())
	}
}

// Phone validates a phone number for region.
func (c *Collector) Phone(field, value, region string) {
	if err := ValidatePhoneNumber(value, region); err != nil {
		c.Add(field, ErrInvalidPhone.Error())
	}
}

// NIC validates a national identity card number.
func (c *Collector) NIC(field, value string) {
	if !IsValidNIC(value) {
		c.Add(field, ErrInvalidNIC.Error())
	}
}

// Location validates a district and its town.
func (c *Collector) Location(districtField, district, areaField, area string) {
	if !locations.IsDistrict(district) {
		c.Add(districtField, "unknown district")
		return
	}
	if !locations.IsTownOf(district, area) {
		c.Add(areaField, "area is not a town of "+district)
	}
}

// Err returns a validation AppError, or nil when no field failed.
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return apperror.NewValidationError(c.errs)
}

// FieldErrors converts binding errors from gin/validator into field errors.
func FieldErrors(err error) []apperror.FieldError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	out := make([]apperror.FieldError, 0, len(ves))
	for _, ve := range ves {
		out = append(out, apperror.FieldError{
			Field:   toSnake(ve.Field()),
			Message: messageFor(ve),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	field := toSnake(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return ErrInvalidEmail.Error()
	case "lkphone":
		return ErrInvalidPhone.Error()
	case "nic":
		return ErrInvalidNIC.Error()
	case "district":
		return "unknown district"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "dive":
		return field + " is invalid"
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := rune(s[i-1])
				if !unicode.IsUpper(prev) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RegisterValidators adds the nic, lkphone and district tags to v.
func RegisterValidators(v *validator.Validate, region string) error {
	if err := v.RegisterValidation("nic", func(fl validator.FieldLevel) bool {
		return IsValidNIC(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("lkphone", func(fl validator.FieldLevel) bool {
		return ValidatePhoneNumber(fl.Field().String(), region) == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("district", func(fl validator.FieldLevel) bool {
		return locations.IsDistrict(fl.Field().String())
	})
}

// RegisterGinValidators installs the custom tags on gin's default engine.
func RegisterGinValidators(region string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return RegisterValidators(v, region)
}
