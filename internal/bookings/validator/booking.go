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

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("booking_status", validateBookingStatus); err != nil {
		log.Fatal("Failed to register 'booking_status' validator",
			"error", err,
		)
	}

	if err := v.RegisterValidation("payment_status", validatePaymentStatus); err != nil {
		log.Fatal("Failed to register 'payment_status' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	status, ok := fl.Field().Interface().(model.BookingStatus)
	return ok && status.IsValid()
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	status, ok := fl.Field().Interface().(model.PaymentStatus)
	return ok && status.IsValid()
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	return v.check(booking)
}

func (v *BookingValidator) ValidateCreate(req *model.CreateBookingRequest) error {
	return v.check(req)
}

func (v *BookingValidator) ValidateAvailability(q *model.AvailabilityQuery) error {
	return v.check(q)
}

func (v *BookingValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "oneof", "booking_status":
			message = fmt.Sprintf("%s must be one of: pending confirmed cancelled completed", err.Field())
		case "payment_status":
			message = fmt.Sprintf("%s must be one of: pending paid refunded", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
