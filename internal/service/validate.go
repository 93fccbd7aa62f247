package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.Priority(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct runs the struct tags and reports the first failing field as
// a ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Validation(err.Error())
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apperrors.Validation(fmt.Sprintf("%s is required", fe.Field()))
	case "email":
		return apperrors.Validation(fmt.Sprintf("%s must be a valid email address", fe.Field()))
	case "min":
		return apperrors.Validation(fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
	case "max":
		return apperrors.Validation(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	case "oneof":
		return apperrors.Validation(fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
	case "priority":
		return apperrors.Validation(fmt.Sprintf("%s must be one of: %s, %s, %s",
			fe.Field(), models.PriorityLow, models.PriorityMedium, models.PriorityHigh))
	default:
		return apperrors.Validation(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
