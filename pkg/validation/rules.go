package validation

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("date_format", isDate); err != nil {
		return err
	}
	if err := v.RegisterValidation("clock_format", isClock); err != nil {
		return err
	}
	return nil
}

// isDate accepts calendar dates as "2006-01-02".
func isDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// isClock accepts 24h wall-clock values as "15:04".
func isClock(fl validator.FieldLevel) bool {
	return clockRe.MatchString(fl.Field().String())
}
