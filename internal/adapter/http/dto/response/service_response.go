package response

import (
	"time"

	"marketplace_api/internal/domain/entities"

	"github.com/shopspring/decimal"
)

type ServiceResponse struct {
	ID             string          `json:"id"`
	ClientID       string          `json:"clientId"`
	ProfessionalID string          `json:"professionalId"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func FromService(s entities.Service) ServiceResponse {
	return ServiceResponse{
		ID:             s.ID,
		ClientID:       s.ClientID,
		ProfessionalID: s.ProfessionalID,
		Title:          s.Title,
		Description:    s.Description,
		Category:       s.Category,
		Price:          s.Price,
		Status:         string(s.Status),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
