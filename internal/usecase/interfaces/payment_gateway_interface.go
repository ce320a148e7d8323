package interfaces

import (
	"context"
	"errors"

	"marketplace_api/internal/domain/entities"
)

var (
	// ErrPaymentGatewayUnavailable means the processor could not be reached
	// or did not answer in time.
	ErrPaymentGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrPaymentGatewayBadRequest means the processor answered and refused
	// the request.
	ErrPaymentGatewayBadRequest = errors.New("payment gateway rejected the request")
)

// IPaymentGateway abstracts the external payment processor (Mercado Pago).
//
// Every call is a bounded request/response. A returned error means the
// processor did not give an answer we can act on; it never implies a status
// change for the local record.
type IPaymentGateway interface {
	CreatePayment(ctx context.Context, req entities.GatewayPaymentRequest) (entities.GatewayPayment, error)
	CreatePixPayment(ctx context.Context, req entities.GatewayPaymentRequest) (entities.GatewayPayment, error)
	GetPayment(ctx context.Context, externalID string) (entities.GatewayPayment, error)
	CreateCardToken(ctx context.Context, req entities.CardTokenRequest) (string, error)
}
