package request

import (
	"marketplace_api/internal/domain/entities"
	"marketplace_api/internal/usecase"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest is the payload of POST /payments.
//
// cardToken, paymentMethodId and installments are only read for card
// methods. The payer is always the authenticated caller.
type CreatePaymentRequest struct {
	ServiceID       string          `json:"serviceId" binding:"required"`
	Method          string          `json:"method" binding:"omitempty,payment_method"`
	Amount          decimal.Decimal `json:"amount"`
	CardToken       string          `json:"cardToken"`
	PaymentMethodID string          `json:"paymentMethodId"`
	Installments    int             `json:"installments" binding:"omitempty,min=1"`
	PayerEmail      string          `json:"payerEmail" binding:"omitempty,email"`
}

func (r CreatePaymentRequest) ToInput(payerID string) usecase.CreatePaymentInput {
	return usecase.CreatePaymentInput{
		ServiceID:       r.ServiceID,
		PayerID:         payerID,
		Method:          entities.PaymentMethod(r.Method),
		Amount:          r.Amount,
		CardToken:       r.CardToken,
		PaymentMethodID: r.PaymentMethodID,
		Installments:    r.Installments,
		PayerEmail:      r.PayerEmail,
	}
}

type UpdatePaymentStatusRequest struct {
	Status        string `json:"status" binding:"required,payment_status"`
	TransactionID string `json:"transactionId"`
}

// CardTokenRequest carries raw card fields to be tokenized by the processor.
type CardTokenRequest struct {
	CardNumber           string `json:"cardNumber"`
	CardholderName       string `json:"cardholderName"`
	CardExpirationMonth  string `json:"cardExpirationMonth"`
	CardExpirationYear   string `json:"cardExpirationYear"`
	SecurityCode         string `json:"securityCode"`
	IdentificationType   string `json:"identificationType"`
	IdentificationNumber string `json:"identificationNumber"`
}

func (r CardTokenRequest) ToInput() usecase.CardTokenInput {
	return usecase.CardTokenInput{
		CardNumber:           r.CardNumber,
		CardholderName:       r.CardholderName,
		ExpirationMonth:      r.CardExpirationMonth,
		ExpirationYear:       r.CardExpirationYear,
		SecurityCode:         r.SecurityCode,
		IdentificationType:   r.IdentificationType,
		IdentificationNumber: r.IdentificationNumber,
	}
}

// ListPaymentsQuery binds the query string of the party listings.
type ListPaymentsQuery struct {
	Limit  int    `form:"limit" binding:"omitempty,min=0"`
	Skip   int    `form:"skip" binding:"omitempty,min=0"`
	Status string `form:"status" binding:"omitempty,payment_status"`
}

func (q ListPaymentsQuery) ToFilter() entities.PaymentListFilter {
	return entities.PaymentListFilter{
		Status: entities.PaymentStatus(q.Status),
		Limit:  q.Limit,
		Skip:   q.Skip,
	}
}
