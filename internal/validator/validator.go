package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	ErrRequired       = "is required"
	ErrMinLength      = "must contain at least %s item(s)"
	ErrMaxLength      = "must contain at most %s item(s)"
	ErrSeatIDFormat   = "must be a valid seat id such as A1 or AB12"
	ErrDefaultInvalid = "is invalid"
)

// seatIDRgx matches seat identifiers of the form row letters + seat number,
// e.g. "A1" or "AB12".
var seatIDRgx = regexp.MustCompile(`^[A-Z]{1,2}[0-9]{1,3}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_id", validateSeatID)

	return validator
}

func validateSeatID(fl validator.FieldLevel) bool {
	return seatIDRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "min":
		return fmt.Sprintf(ErrMinLength, err.Param())
	case "max":
		return fmt.Sprintf(ErrMaxLength, err.Param())
	case "seat_id":
		return ErrSeatIDFormat
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	default:
		return ErrDefaultInvalid
	}
}
