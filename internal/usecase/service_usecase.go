package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace_api/internal/domain/entities"
	"marketplace_api/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrServiceNotFound     = errors.New("service not found")
	ErrServiceForbidden    = errors.New("user is not a party of this service")
	ErrInvalidServiceID    = errors.New("invalid service id")
	ErrInvalidServiceInput = errors.New("invalid service input")
	ErrInvalidServiceState = errors.New("invalid service status")
)

type CreateServiceInput struct {
	ClientID       string
	ProfessionalID string
	Title          string
	Description    string
	Category       string
	Price          decimal.Decimal
}

// IServiceUseCase manages service engagements between a client and a
// professional. Payments are always attached to one of them.
type IServiceUseCase interface {
	Create(ctx context.Context, in CreateServiceInput) (entities.Service, error)
	GetByID(ctx context.Context, id, userID string) (entities.Service, error)
	UpdateStatus(ctx context.Context, id, userID string, status entities.ServiceStatus) (entities.Service, error)
}

type ServiceUseCase struct {
	repo     interfaces.IServiceRepository
	notifier interfaces.INotifier
	logger   *zap.Logger
}

var _ IServiceUseCase = (*ServiceUseCase)(nil)

func NewServiceUseCase(repo interfaces.IServiceRepository, notifier interfaces.INotifier, logger *zap.Logger) *ServiceUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceUseCase{repo: repo, notifier: notifier, logger: logger.With(zap.String("component", "service.usecase"))}
}

func (u *ServiceUseCase) Create(ctx context.Context, in CreateServiceInput) (entities.Service, error) {
	in.ClientID = strings.TrimSpace(in.ClientID)
	in.ProfessionalID = strings.TrimSpace(in.ProfessionalID)
	in.Title = strings.TrimSpace(in.Title)
	if in.ClientID == "" || in.ProfessionalID == "" || in.Title == "" {
		return entities.Service{}, ErrInvalidServiceInput
	}
	if in.ClientID == in.ProfessionalID {
		return entities.Service{}, fmt.Errorf("%w: client and professional must differ", ErrInvalidServiceInput)
	}
	if in.Price.IsNegative() {
		return entities.Service{}, fmt.Errorf("%w: negative price", ErrInvalidServiceInput)
	}

	now := time.Now().UTC()
	s := entities.Service{
		ID:             uuid.NewString(),
		ClientID:       in.ClientID,
		ProfessionalID: in.ProfessionalID,
		Title:          in.Title,
		Description:    strings.TrimSpace(in.Description),
		Category:       strings.TrimSpace(in.Category),
		Price:          in.Price,
		Status:         entities.ServiceStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := u.repo.Create(ctx, s)
	if err != nil {
		u.logger.Error("[service][usecase] create failed", zap.String("service_id", s.ID), zap.Error(err))
		return entities.Service{}, err
	}
	u.logger.Info("[service][usecase] created",
		zap.String("service_id", created.ID),
		zap.String("client_id", created.ClientID),
		zap.String("professional_id", created.ProfessionalID))

	u.emit(ctx, entities.Notification{
		UserID:    created.ProfessionalID,
		Title:     "Nova solicitação de serviço",
		Message:   fmt.Sprintf("Você recebeu uma nova solicitação: %s", created.Title),
		Type:      entities.NotificationTypeService,
		RelatedID: created.ID,
		Data: map[string]any{
			"status":       string(created.Status),
			"serviceTitle": created.Title,
			"clientId":     created.ClientID,
		},
	})
	return created, nil
}

func (u *ServiceUseCase) GetByID(ctx context.Context, id, userID string) (entities.Service, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Service{}, ErrInvalidServiceID
	}

	s, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Service{}, err
	}
	if s.ID == "" {
		return entities.Service{}, ErrServiceNotFound
	}
	if !s.IsParty(userID) {
		return entities.Service{}, ErrServiceForbidden
	}
	return s, nil
}

func (u *ServiceUseCase) UpdateStatus(ctx context.Context, id, userID string, status entities.ServiceStatus) (entities.Service, error) {
	if !status.IsValid() {
		return entities.Service{}, ErrInvalidServiceState
	}

	current, err := u.GetByID(ctx, id, userID)
	if err != nil {
		return entities.Service{}, err
	}
	if current.Status == status {
		return current, nil
	}

	updated, err := u.repo.UpdateStatusByID(ctx, current.ID, status)
	if err != nil {
		u.logger.Error("[service][usecase] update status failed", zap.String("service_id", current.ID), zap.Error(err))
		return entities.Service{}, err
	}
	if updated.ID == "" {
		return entities.Service{}, ErrServiceNotFound
	}
	u.logger.Info("[service][usecase] status changed",
		zap.String("service_id", updated.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)))

	for _, n := range serviceStatusNotifications(current, status) {
		u.emit(ctx, n)
	}
	return updated, nil
}

func (u *ServiceUseCase) emit(ctx context.Context, n entities.Notification) {
	if u.notifier == nil {
		return
	}
	u.notifier.Emit(ctx, n)
}

// serviceStatusNotifications lists who is told about a status change.
func serviceStatusNotifications(s entities.Service, status entities.ServiceStatus) []entities.Notification {
	title := s.Title
	if title == "" {
		title = "Serviço"
	}
	base := entities.Notification{
		Type:      entities.NotificationTypeService,
		RelatedID: s.ID,
		Data:      map[string]any{"status": string(status)},
	}
	with := func(userID, notificationTitle, message string, data map[string]any) entities.Notification {
		n := base
		n.UserID = userID
		n.Title = notificationTitle
		n.Message = message
		if data != nil {
			n.Data = data
		}
		return n
	}

	switch status {
	case entities.ServiceStatusAccepted:
		return []entities.Notification{
			with(s.ClientID, "Serviço aceito", fmt.Sprintf("Sua solicitação de serviço foi aceita: %s", title), nil),
		}
	case entities.ServiceStatusInProgress:
		return []entities.Notification{
			with(s.ClientID, "Serviço em andamento", fmt.Sprintf("O serviço foi iniciado: %s", title), nil),
		}
	case entities.ServiceStatusCompleted:
		return []entities.Notification{
			with(s.ClientID, "Serviço concluído", fmt.Sprintf("O serviço \"%s\" foi concluído", title), nil),
			with(s.ProfessionalID, "Serviço concluído", fmt.Sprintf("Você concluiu o serviço \"%s\"", title),
				map[string]any{"status": string(status), "canReview": true}),
		}
	case entities.ServiceStatusCancelled:
		return []entities.Notification{
			with(s.ProfessionalID, "Serviço cancelado", fmt.Sprintf("O serviço foi cancelado: %s", title), nil),
		}
	}
	return nil
}
