package order

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/cafeteria/core"
)

var (
	// custom validation tags & texts
	codeTag   = "ucode"
	codeText  = "must be 'U' followed by 8 digits"
	codeRegex = regexp.MustCompile(`^U\d{8}$`)

	datetimeTag  = "iso8601"
	datetimeText = "must be an ISO-8601 date time"

	datetimeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	}

	errInvalidDatetime = errors.New("invalid ISO-8601 date time")
)

// InitValidators registers the order validation tags.
func InitValidators(v *core.Validator) {
	v.Register(codeTag, codeValidation, codeText)
	v.Register(datetimeTag, datetimeValidation, datetimeText)
}

// ValidCode reports whether code is a student code: "U" followed by exactly 8 digits.
func ValidCode(code string) bool {
	return codeRegex.MatchString(code)
}

// ParseDatetime parses an ISO-8601 date time. Values without a zone are taken as UTC.
func ParseDatetime(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errInvalidDatetime
}

func codeValidation(fl validator.FieldLevel) bool {
	return ValidCode(fl.Field().String())
}

func datetimeValidation(fl validator.FieldLevel) bool {
	_, err := ParseDatetime(fl.Field().String())
	return err == nil
}
