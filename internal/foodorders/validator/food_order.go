package validator

import (
	"errors"
	"fmt"
	"guesthouse/pkg/logger"
	"guesthouse/pkg/model"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type FoodOrderValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewFoodOrderValidator(log *logger.Logger) *FoodOrderValidator {
	log.Info("Food order validator initialized successfully")
	return &FoodOrderValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *FoodOrderValidator) ValidateCreate(req *model.CreateFoodOrderRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// translateValidationErrors reports item fields by their position, e.g. Items[1].Quantity.
func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field := strings.TrimPrefix(err.Namespace(), "CreateFoodOrderRequest.")
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", field)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}
