package request

import (
	"strings"

	"marketplace_api/internal/usecase"

	"github.com/shopspring/decimal"
)

// CreateServiceRequest opens an engagement. The caller is the client unless
// clientId is given, in which case the caller must be the professional.
type CreateServiceRequest struct {
	ClientID       string          `json:"clientId"`
	ProfessionalID string          `json:"professionalId"`
	Title          string          `json:"title" binding:"required"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
}

func (r CreateServiceRequest) ToInput(callerID string) usecase.CreateServiceInput {
	in := usecase.CreateServiceInput{
		ClientID:       strings.TrimSpace(r.ClientID),
		ProfessionalID: strings.TrimSpace(r.ProfessionalID),
		Title:          r.Title,
		Description:    r.Description,
		Category:       r.Category,
		Price:          r.Price,
	}
	switch {
	case in.ClientID == "":
		in.ClientID = callerID
	case in.ProfessionalID == "":
		in.ProfessionalID = callerID
	}
	return in
}

type UpdateServiceStatusRequest struct {
	Status string `json:"status" binding:"required,service_status"`
}
