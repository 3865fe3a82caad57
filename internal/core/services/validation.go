package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// validateInput turns validator failures into a *domain.ValidationError
// for the first offending field.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &domain.ValidationError{Field: strings.ToLower(verrs[0].Field()), Reason: verrs[0].Tag()}
	}
	return err
}
