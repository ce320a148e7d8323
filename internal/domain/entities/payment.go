package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle of a payment attempt.
//
// pending is the only non-terminal state. Every other status is terminal:
// once reached, the record never moves again.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded, PaymentStatusCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	return s.IsValid() && s != PaymentStatusPending
}

// CanTransitionTo reports whether next is a legal forward move from s.
// Staying in the same status is not a transition.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if !next.IsValid() || s == next {
		return false
	}
	return s == PaymentStatusPending
}

// MapGatewayStatus converts a Mercado Pago payment status into the internal
// status. ok is false when the gateway status does not move the record.
func MapGatewayStatus(gatewayStatus string) (status PaymentStatus, ok bool) {
	switch gatewayStatus {
	case "approved":
		return PaymentStatusCompleted, true
	case "rejected", "cancelled":
		return PaymentStatusFailed, true
	case "refunded":
		return PaymentStatusRefunded, true
	}
	return "", false
}

type PaymentMethod string

const (
	PaymentMethodPIX        PaymentMethod = "PIX"
	PaymentMethodCreditCard PaymentMethod = "CreditCard"
	PaymentMethodDebitCard  PaymentMethod = "DebitCard"
	PaymentMethodBoleto     PaymentMethod = "Boleto"
	PaymentMethodTransfer   PaymentMethod = "Transfer"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodPIX, PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodBoleto, PaymentMethodTransfer:
		return true
	}
	return false
}

func (m PaymentMethod) IsCard() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodDebitCard
}

// Payment is one payment attempt for a service engagement.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI service_id-index: service_id
//   - GSI client_id-index: client_id / created_at
//   - GSI professional_id-index: professional_id / created_at
//   - GSI transaction_id-index: transaction_id (webhook correlation key)
//
// TransactionID, PaidAt and the PIX fields are empty until assigned.
type Payment struct {
	ID             string          `json:"id"`
	ServiceID      string          `json:"service_id"`
	ClientID       string          `json:"client_id"`
	ProfessionalID string          `json:"professional_id"`
	Amount         decimal.Decimal `json:"amount"`
	Method         PaymentMethod   `json:"method"`
	Status         PaymentStatus   `json:"status"`
	TransactionID  string          `json:"transaction_id,omitempty"`
	PixQRCode      string          `json:"pix_qr_code,omitempty"`
	PixCopyPaste   string          `json:"pix_copy_paste,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CounterpartyOf returns the other party of the payment for userID.
func (p Payment) CounterpartyOf(userID string) string {
	if userID == p.ClientID {
		return p.ProfessionalID
	}
	return p.ClientID
}

// PaymentStatusChange describes a guarded status write.
//
// The write is applied only if the stored status still equals From.
// TransactionID is stored only when the record has none yet (or the same one).
// ServiceID scopes the single completed payment a service may hold.
type PaymentStatusChange struct {
	ServiceID     string
	From          PaymentStatus
	To            PaymentStatus
	TransactionID string
	PaidAt        *time.Time
	UpdatedAt     time.Time
}

// NewPaymentStatusChange builds the change moving p to next at now.
// PaidAt is stamped only for the move into completed.
func NewPaymentStatusChange(p Payment, next PaymentStatus, transactionID string, now time.Time) PaymentStatusChange {
	change := PaymentStatusChange{
		ServiceID:     p.ServiceID,
		From:          p.Status,
		To:            next,
		TransactionID: transactionID,
		UpdatedAt:     now,
	}
	if next == PaymentStatusCompleted && p.Status != PaymentStatusCompleted {
		paidAt := now
		change.PaidAt = &paidAt
	}
	return change
}

// PaymentListFilter narrows client/professional listings.
type PaymentListFilter struct {
	Status PaymentStatus
	Limit  int
	Skip   int
}

const (
	DefaultPaymentListLimit = 50
	MaxPaymentListLimit     = 200
)

// Normalize applies default paging bounds.
func (f PaymentListFilter) Normalize() PaymentListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultPaymentListLimit
	}
	if f.Limit > MaxPaymentListLimit {
		f.Limit = MaxPaymentListLimit
	}
	if f.Skip < 0 {
		f.Skip = 0
	}
	return f
}

// SumCompleted adds the amounts of completed payments.
func SumCompleted(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Status == PaymentStatusCompleted {
			total = total.Add(p.Amount)
		}
	}
	return total
}
