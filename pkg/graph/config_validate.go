package graph

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance, reused across Config checks.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks Config's required fields before Create/LoadExisting
// attempts to use them. A nil Directory or collaborator is a configuration
// error the caller should fix, not something the engine should guess past.
func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return formatConfigError(err)
	}
	return nil
}

func formatConfigError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, e := range validationErrs {
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", e.Field())
		default:
			return fmt.Errorf("%s: failed %s validation", e.Field(), e.Tag())
		}
	}
	return err
}
