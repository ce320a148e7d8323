package validation

import (
	"errors"
	"fmt"

	"marketplace_api/internal/domain/entities"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register installs the domain validators on gin's binding engine.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	validators := map[string]validator.Func{
		"payment_method": validatePaymentMethod,
		"payment_status": validatePaymentStatus,
		"service_status": validateServiceStatus,
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return entities.PaymentMethod(fl.Field().String()).IsValid()
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	return entities.PaymentStatus(fl.Field().String()).IsValid()
}

func validateServiceStatus(fl validator.FieldLevel) bool {
	return entities.ServiceStatus(fl.Field().String()).IsValid()
}

// Message converts a validator error into a readable message.
func Message(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid request"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "payment_method":
		return fe.Field() + " must be one of PIX, CreditCard, DebitCard, Boleto, Transfer"
	case "payment_status":
		return fe.Field() + " must be one of pending, completed, failed, refunded, cancelled"
	case "service_status":
		return fe.Field() + " must be one of pending, accepted, in_progress, completed, cancelled"
	case "gt", "min":
		return fe.Field() + " must be greater than " + fe.Param()
	}
	return fe.Field() + " is invalid"
}
