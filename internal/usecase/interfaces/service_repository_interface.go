package interfaces

import (
	"context"

	"marketplace_api/internal/domain/entities"
)

// IServiceRepository abstracts DynamoDB persistence for Service engagements.
//
// The payment core only reads services to resolve the two parties; the
// engagement endpoints create them and move their status.
type IServiceRepository interface {
	Create(ctx context.Context, s entities.Service) (entities.Service, error)
	GetByID(ctx context.Context, id string) (entities.Service, error)
	UpdateStatusByID(ctx context.Context, id string, status entities.ServiceStatus) (entities.Service, error)
}
