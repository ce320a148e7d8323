package handlers

import (
	"errors"
	"net/http"

	"marketplace_api/internal/adapter/http/validation"
	"marketplace_api/internal/usecase"
	"marketplace_api/internal/usecase/interfaces"
	"marketplace_api/pkg"

	"github.com/gin-gonic/gin"
)

var errUnauthenticated = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Authentication required", http.StatusUnauthorized)

func mapError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentID), errors.Is(err, usecase.ErrInvalidPaymentInput),
		errors.Is(err, usecase.ErrInvalidServiceID), errors.Is(err, usecase.ErrInvalidServiceInput),
		errors.Is(err, usecase.ErrInvalidNotificationID), errors.Is(err, usecase.ErrInvalidNotificationArg):
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidPaymentStatus), errors.Is(err, usecase.ErrInvalidServiceState):
		return pkg.NewDomainError("INVALID_STATUS", "Invalid status", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrTransactionIDConflict):
		return pkg.NewDomainError("TRANSACTION_ID_CONFLICT", "Transaction id conflicts with an existing payment", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidCardData):
		return pkg.NewDomainError("INVALID_CARD_DATA", "Incomplete card data", err, http.StatusBadRequest)
	case errors.Is(err, interfaces.ErrDuplicateKey):
		return pkg.NewDomainError("DUPLICATE_KEY", "Resource already exists", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return pkg.NewDomainError("PAYMENT_PROVIDER_REJECTED", "Payment provider rejected the request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnavailable):
		return pkg.NewDomainError("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider unavailable", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrInvalidWebhookSignature):
		return pkg.NewDomainError("INVALID_SIGNATURE", "Invalid webhook signature", err, http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrPaymentForbidden), errors.Is(err, usecase.ErrServiceForbidden):
		return pkg.NewDomainError("FORBIDDEN", "Not allowed for this service", err, http.StatusForbidden)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found", err, http.StatusNotFound)
	case errors.Is(err, usecase.ErrServiceNotFound):
		return pkg.NewDomainError("SERVICE_NOT_FOUND", "Service not found", err, http.StatusNotFound)
	case errors.Is(err, usecase.ErrNotificationNotFound):
		return pkg.NewDomainError("NOTIFICATION_NOT_FOUND", "Notification not found", err, http.StatusNotFound)
	case errors.Is(err, usecase.ErrServiceAlreadyPaid):
		return pkg.NewDomainError("SERVICE_ALREADY_PAID", "Service already has a completed payment", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidStatusTransition):
		return pkg.NewDomainError("INVALID_STATUS_TRANSITION", "Payment status cannot change", err, http.StatusConflict)
	case errors.Is(err, interfaces.ErrPaymentConcurrentUpdate):
		return pkg.NewDomainError("CONCURRENT_UPDATE", "Payment was updated concurrently, retry", err, http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func writeBindError(c *gin.Context, err error) {
	appErr := pkg.NewDomainError("INVALID_REQUEST", validation.Message(err), err, http.StatusBadRequest)
	writeError(c, appErr)
}
