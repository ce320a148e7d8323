package interfaces

import (
	"context"
	"errors"

	"marketplace_api/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// ErrPaymentConcurrentUpdate is returned by guarded writes when the stored
// status no longer matches the status the caller read.
var ErrPaymentConcurrentUpdate = errors.New("payment changed concurrently")

// ErrDuplicateKey is returned by Create when the id is already taken.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrTransactionIDConflict is returned when a transaction id is already
// held by another payment.
var ErrTransactionIDConflict = errors.New("transaction id conflicts with another payment")

// ErrServiceAlreadyPaid is returned when a service already has a completed
// payment.
var ErrServiceAlreadyPaid = errors.New("service already has a completed payment")

// IPaymentRepository abstracts DynamoDB persistence for Payment.
//
// Lookups return a zero Payment (empty ID) and a nil error when nothing matches.
type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (entities.Payment, error)
	ListByServiceID(ctx context.Context, serviceID string) ([]entities.Payment, error)
	ListByClientID(ctx context.Context, clientID string, filter entities.PaymentListFilter) ([]entities.Payment, error)
	ListByProfessionalID(ctx context.Context, professionalID string, filter entities.PaymentListFilter) ([]entities.Payment, error)
	TotalCompletedByClientID(ctx context.Context, clientID string) (decimal.Decimal, error)
	TotalCompletedByProfessionalID(ctx context.Context, professionalID string) (decimal.Decimal, error)
	// UpdateStatus applies change only while the stored status equals
	// change.From, returning ErrPaymentConcurrentUpdate otherwise. It returns
	// ErrTransactionIDConflict when change.TransactionID belongs to another
	// payment and ErrServiceAlreadyPaid when another payment of the service
	// already completed.
	UpdateStatus(ctx context.Context, id string, change entities.PaymentStatusChange) (entities.Payment, error)
}
