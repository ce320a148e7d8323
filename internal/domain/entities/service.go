package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceStatus represents the lifecycle of a service engagement.
type ServiceStatus string

const (
	ServiceStatusPending    ServiceStatus = "pending"
	ServiceStatusAccepted   ServiceStatus = "accepted"
	ServiceStatusInProgress ServiceStatus = "in_progress"
	ServiceStatusCompleted  ServiceStatus = "completed"
	ServiceStatusCancelled  ServiceStatus = "cancelled"
)

func (s ServiceStatus) IsValid() bool {
	switch s {
	case ServiceStatusPending, ServiceStatusAccepted, ServiceStatusInProgress, ServiceStatusCompleted, ServiceStatusCancelled:
		return true
	}
	return false
}

// Service is an engagement between a client and a professional.
// Payments reference it to resolve the two parties.
//
// Storage model (DynamoDB):
//   - PK: id
type Service struct {
	ID             string          `json:"id"`
	ClientID       string          `json:"client_id"`
	ProfessionalID string          `json:"professional_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Status         ServiceStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (s Service) IsParty(userID string) bool {
	return userID != "" && (userID == s.ClientID || userID == s.ProfessionalID)
}
