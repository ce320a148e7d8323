package entities

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// GatewayPaymentRequest is what the payment processor needs to create a charge.
type GatewayPaymentRequest struct {
	Amount            decimal.Decimal
	Description       string
	PaymentMethodID   string
	CardToken         string
	Installments      int
	PayerEmail        string
	ExternalReference string
}

// GatewayPayment is the processor's view of a payment.
//
// Raw keeps the provider response for traceability.
type GatewayPayment struct {
	ID           string
	Status       string
	StatusDetail string
	QRCode       string
	QRCodeBase64 string
	DateApproved *time.Time
	Raw          json.RawMessage
}

// CardTokenRequest carries the card fields tokenized by the processor.
type CardTokenRequest struct {
	CardNumber           string
	CardholderName       string
	ExpirationMonth      string
	ExpirationYear       string
	SecurityCode         string
	IdentificationType   string
	IdentificationNumber string
}
