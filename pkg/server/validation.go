package server

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Version strings are dotted numerics with an optional leading "v" and an
// optional pre-release suffix: 1.2.0, v2.0, v1.0.0-rc1.
var versionStringPattern = regexp.MustCompile(`^v?\d+(\.\d+){0,2}(-[0-9A-Za-z.-]+)?$`)

func NewValidator() (*validator.Validate, error) {
	validate := validator.New()

	if err := validate.RegisterValidation("versionString", func(fl validator.FieldLevel) bool {
		return versionStringPattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	return validate, nil
}
