package usecase

import (
	"context"
	"errors"
	"testing"

	"marketplace_api/internal/domain/entities"
	mock_interfaces "marketplace_api/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func TestServiceUseCase_Create(t *testing.T) {
	t.Run("invalid input", func(t *testing.T) {
		uc := NewServiceUseCase(nil, nil, nil)
		cases := []CreateServiceInput{
			{ClientID: "", ProfessionalID: "pro-1", Title: "Pintura"},
			{ClientID: "client-1", ProfessionalID: "", Title: "Pintura"},
			{ClientID: "client-1", ProfessionalID: "pro-1", Title: "  "},
			{ClientID: "client-1", ProfessionalID: "client-1", Title: "Pintura"},
			{ClientID: "client-1", ProfessionalID: "pro-1", Title: "Pintura", Price: decimal.NewFromInt(-1)},
		}
		for _, in := range cases {
			if _, err := uc.Create(context.Background(), in); !errors.Is(err, ErrInvalidServiceInput) {
				t.Fatalf("expected ErrInvalidServiceInput for %+v, got %v", in, err)
			}
		}
	})

	t.Run("creates pending and notifies the professional", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIServiceRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewServiceUseCase(repo, notifier, nil)

		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Service{})).DoAndReturn(
			func(_ context.Context, s entities.Service) (entities.Service, error) {
				if s.ID == "" || s.Status != entities.ServiceStatusPending || s.CreatedAt.IsZero() {
					t.Fatalf("unexpected service: %+v", s)
				}
				return s, nil
			},
		)
		notifier.EXPECT().Emit(gomock.Any(), gomock.AssignableToTypeOf(entities.Notification{})).Do(
			func(_ context.Context, n entities.Notification) {
				if n.UserID != "pro-1" || n.Type != entities.NotificationTypeService {
					t.Fatalf("unexpected notification: %+v", n)
				}
			},
		)

		s, err := uc.Create(context.Background(), CreateServiceInput{
			ClientID:       "client-1",
			ProfessionalID: "pro-1",
			Title:          " Pintura ",
			Price:          decimal.RequireFromString("300.00"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Title != "Pintura" {
			t.Fatalf("expected trimmed title, got %q", s.Title)
		}
	})
}

func TestServiceUseCase_GetByID(t *testing.T) {
	svc := entities.Service{ID: "svc-1", ClientID: "client-1", ProfessionalID: "pro-1"}

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIServiceRepository(ctrl)
		uc := NewServiceUseCase(repo, nil, nil)
		repo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(entities.Service{}, nil)

		if _, err := uc.GetByID(context.Background(), "svc-1", "client-1"); !errors.Is(err, ErrServiceNotFound) {
			t.Fatalf("expected ErrServiceNotFound, got %v", err)
		}
	})

	t.Run("forbidden for outsiders", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIServiceRepository(ctrl)
		uc := NewServiceUseCase(repo, nil, nil)
		repo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(svc, nil)

		if _, err := uc.GetByID(context.Background(), "svc-1", "stranger"); !errors.Is(err, ErrServiceForbidden) {
			t.Fatalf("expected ErrServiceForbidden, got %v", err)
		}
	})
}

func TestServiceUseCase_UpdateStatus(t *testing.T) {
	svc := entities.Service{ID: "svc-1", ClientID: "client-1", ProfessionalID: "pro-1", Title: "Pintura", Status: entities.ServiceStatusAccepted}

	t.Run("invalid status", func(t *testing.T) {
		uc := NewServiceUseCase(nil, nil, nil)
		if _, err := uc.UpdateStatus(context.Background(), "svc-1", "pro-1", "done"); !errors.Is(err, ErrInvalidServiceState) {
			t.Fatalf("expected ErrInvalidServiceState, got %v", err)
		}
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIServiceRepository(ctrl)
		uc := NewServiceUseCase(repo, mock_interfaces.NewMockINotifier(ctrl), nil)
		repo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(svc, nil)

		got, err := uc.UpdateStatus(context.Background(), "svc-1", "pro-1", entities.ServiceStatusAccepted)
		if err != nil || got.Status != entities.ServiceStatusAccepted {
			t.Fatalf("unexpected result: %+v err=%v", got, err)
		}
	})

	t.Run("completed notifies both parties", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIServiceRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewServiceUseCase(repo, notifier, nil)

		done := svc
		done.Status = entities.ServiceStatusCompleted
		repo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(svc, nil)
		repo.EXPECT().UpdateStatusByID(gomock.Any(), "svc-1", entities.ServiceStatusCompleted).Return(done, nil)

		recipients := map[string]int{}
		notifier.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2).Do(func(_ context.Context, n entities.Notification) {
			recipients[n.UserID]++
		})

		if _, err := uc.UpdateStatus(context.Background(), "svc-1", "pro-1", entities.ServiceStatusCompleted); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if recipients["client-1"] != 1 || recipients["pro-1"] != 1 {
			t.Fatalf("unexpected recipients: %+v", recipients)
		}
	})

	t.Run("cancelled notifies the professional", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIServiceRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewServiceUseCase(repo, notifier, nil)

		cancelled := svc
		cancelled.Status = entities.ServiceStatusCancelled
		repo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(svc, nil)
		repo.EXPECT().UpdateStatusByID(gomock.Any(), "svc-1", entities.ServiceStatusCancelled).Return(cancelled, nil)
		notifier.EXPECT().Emit(gomock.Any(), gomock.Any()).Do(func(_ context.Context, n entities.Notification) {
			if n.UserID != "pro-1" {
				t.Fatalf("expected professional, got %s", n.UserID)
			}
		})

		if _, err := uc.UpdateStatus(context.Background(), "svc-1", "client-1", entities.ServiceStatusCancelled); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
