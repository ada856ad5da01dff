package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	registerCustomValidations()
}

func registerCustomValidations() {
	// HH:MM wall-clock time
	validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := wallclock.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})

	// YYYY-MM-DD calendar date
	validate.RegisterValidation("caldate", func(fl validator.FieldLevel) bool {
		_, err := wallclock.ParseDate(fl.Field().String())
		return err == nil
	})

	// Weekday name validation
	validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		day := strings.ToLower(fl.Field().String())
		validDays := []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
		for _, d := range validDays {
			if day == d {
				return true
			}
		}
		return false
	})

	// Booking status validation
	validate.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		validStatuses := []string{"pending", "confirmed", "cancelled", "completed", "rejected", ""}
		for _, s := range validStatuses {
			if status == s {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "uuid":
			errors[field] = "Invalid UUID format"
		case "hhmm":
			errors[field] = "Invalid time. Use HH:MM (24-hour clock)"
		case "caldate":
			errors[field] = "Invalid date. Use YYYY-MM-DD"
		case "weekday":
			errors[field] = "Invalid weekday name"
		case "booking_status":
			errors[field] = "Invalid status. Must be: pending, confirmed, cancelled, completed, or rejected"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
