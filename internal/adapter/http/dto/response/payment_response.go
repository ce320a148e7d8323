package response

import (
	"time"

	"marketplace_api/internal/domain/entities"
	"marketplace_api/internal/usecase"

	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	ID             string          `json:"id"`
	ServiceID      string          `json:"serviceId"`
	ClientID       string          `json:"clientId"`
	ProfessionalID string          `json:"professionalId"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	Status         string          `json:"status"`
	TransactionID  string          `json:"transactionId,omitempty"`
	PixQRCode      string          `json:"pixQrCode,omitempty"`
	PixCopyPaste   string          `json:"pixCopyPaste,omitempty"`
	PaidAt         *time.Time      `json:"paidAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		ServiceID:      p.ServiceID,
		ClientID:       p.ClientID,
		ProfessionalID: p.ProfessionalID,
		Amount:         p.Amount,
		Method:         string(p.Method),
		Status:         string(p.Status),
		TransactionID:  p.TransactionID,
		PixQRCode:      p.PixQRCode,
		PixCopyPaste:   p.PixCopyPaste,
		PaidAt:         p.PaidAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func FromPayments(ps []entities.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromPayment(p))
	}
	return out
}

type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// ClientPaymentsResponse lists what a client paid. TotalPaid sums every
// completed payment, not only the returned page.
type ClientPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPaid decimal.Decimal   `json:"totalPaid"`
}

type ProfessionalPaymentsResponse struct {
	Payments      []PaymentResponse `json:"payments"`
	TotalReceived decimal.Decimal   `json:"totalReceived"`
}

func FromClientPayments(r usecase.PaymentListResult) ClientPaymentsResponse {
	return ClientPaymentsResponse{Payments: FromPayments(r.Payments), TotalPaid: r.TotalCompleted}
}

func FromProfessionalPayments(r usecase.PaymentListResult) ProfessionalPaymentsResponse {
	return ProfessionalPaymentsResponse{Payments: FromPayments(r.Payments), TotalReceived: r.TotalCompleted}
}

type PaymentStatusResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId,omitempty"`
}

func FromPaymentStatus(p entities.Payment) PaymentStatusResponse {
	return PaymentStatusResponse{ID: p.ID, Status: string(p.Status), TransactionID: p.TransactionID}
}

type CardTokenResponse struct {
	Token string `json:"token"`
}

type WebhookAckResponse struct {
	Received bool `json:"received"`
}
