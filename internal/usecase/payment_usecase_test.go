package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace_api/internal/domain/entities"
	"marketplace_api/internal/infrastructure/webhook"
	"marketplace_api/internal/usecase/interfaces"
	mock_interfaces "marketplace_api/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec"

var fixedNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

type paymentMocks struct {
	repo        *mock_interfaces.MockIPaymentRepository
	serviceRepo *mock_interfaces.MockIServiceRepository
	gateway     *mock_interfaces.MockIPaymentGateway
	pix         *mock_interfaces.MockIPixCodeGenerator
	notifier    *mock_interfaces.MockINotifier
}

func newPaymentUseCase(t *testing.T, opts PaymentOptions) (*PaymentUseCase, paymentMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := paymentMocks{
		repo:        mock_interfaces.NewMockIPaymentRepository(ctrl),
		serviceRepo: mock_interfaces.NewMockIServiceRepository(ctrl),
		gateway:     mock_interfaces.NewMockIPaymentGateway(ctrl),
		pix:         mock_interfaces.NewMockIPixCodeGenerator(ctrl),
		notifier:    mock_interfaces.NewMockINotifier(ctrl),
	}
	uc := NewPaymentUseCase(m.repo, m.serviceRepo, m.gateway, m.pix, m.notifier, opts, zap.NewNop())
	uc.now = func() time.Time { return fixedNow }
	uc.newID = func() string { return "pay-1" }
	uc.newTxID = func() (string, error) { return "0123456789abcdef0123456789abcdef", nil }
	return uc, m
}

func testService() entities.Service {
	return entities.Service{ID: "svc-1", ClientID: "client-1", ProfessionalID: "pro-1", Title: "Pintura"}
}

func pendingPayment() entities.Payment {
	return entities.Payment{
		ID:             "pay-1",
		ServiceID:      "svc-1",
		ClientID:       "client-1",
		ProfessionalID: "pro-1",
		Amount:         decimal.RequireFromString("150.00"),
		Method:         entities.PaymentMethodPIX,
		Status:         entities.PaymentStatusPending,
		TransactionID:  "mp-123",
	}
}

// applyChange mimics the guarded write of the repository.
func applyChange(p entities.Payment, change entities.PaymentStatusChange) entities.Payment {
	p.Status = change.To
	p.UpdatedAt = change.UpdatedAt
	if change.TransactionID != "" {
		p.TransactionID = change.TransactionID
	}
	if change.PaidAt != nil {
		p.PaidAt = change.PaidAt
	}
	return p
}

func expectConfirmations(t *testing.T, m paymentMocks) map[string]int {
	t.Helper()
	recipients := map[string]int{}
	m.notifier.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2).Do(func(_ context.Context, n entities.Notification) {
		if n.Title != "Pagamento confirmado" || n.Type != entities.NotificationTypePayment || n.RelatedID != "pay-1" {
			t.Fatalf("unexpected notification: %+v", n)
		}
		recipients[n.UserID]++
	})
	return recipients
}

// expectServicePayments answers the completed-payment lookup for svc-1.
func expectServicePayments(m paymentMocks, payments ...entities.Payment) *gomock.Call {
	return m.repo.EXPECT().ListByServiceID(gomock.Any(), "svc-1").Return(payments, nil)
}

func completedElsewhere() entities.Payment {
	p := pendingPayment()
	p.ID = "pay-0"
	p.TransactionID = "mp-000"
	p.Status = entities.PaymentStatusCompleted
	return p
}

func signedBody(body string) ([]byte, string) {
	raw := []byte(body)
	return raw, webhook.Sign(raw, testWebhookSecret)
}

func TestPaymentUseCase_Create_Validation(t *testing.T) {
	uc, _ := newPaymentUseCase(t, PaymentOptions{})
	cases := []struct {
		name string
		in   CreatePaymentInput
	}{
		{name: "empty service", in: CreatePaymentInput{ServiceID: " ", Amount: decimal.NewFromInt(10)}},
		{name: "zero amount", in: CreatePaymentInput{ServiceID: "svc-1", Amount: decimal.Zero}},
		{name: "negative amount", in: CreatePaymentInput{ServiceID: "svc-1", Amount: decimal.NewFromInt(-5)}},
		{name: "unknown method", in: CreatePaymentInput{ServiceID: "svc-1", Amount: decimal.NewFromInt(10), Method: "Cash"}},
		{name: "amount too large", in: CreatePaymentInput{ServiceID: "svc-1", Amount: decimal.RequireFromString("10000000000.00")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tc.in)
			if !errors.Is(err, ErrInvalidPaymentInput) {
				t.Fatalf("expected ErrInvalidPaymentInput, got %v", err)
			}
		})
	}
}

func TestPaymentUseCase_Create_ServiceChecks(t *testing.T) {
	t.Run("service not found", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		m.serviceRepo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(entities.Service{}, nil)

		_, err := uc.Create(context.Background(), CreatePaymentInput{ServiceID: "svc-1", PayerID: "client-1", Amount: decimal.NewFromInt(10)})
		if !errors.Is(err, ErrServiceNotFound) {
			t.Fatalf("expected ErrServiceNotFound, got %v", err)
		}
	})

	t.Run("payer is not a party", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		m.serviceRepo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(testService(), nil)

		_, err := uc.Create(context.Background(), CreatePaymentInput{ServiceID: "svc-1", PayerID: "stranger", Amount: decimal.NewFromInt(10)})
		if !errors.Is(err, ErrPaymentForbidden) {
			t.Fatalf("expected ErrPaymentForbidden, got %v", err)
		}
	})

	t.Run("service already has a completed payment", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		m.serviceRepo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(testService(), nil)
		failed := pendingPayment()
		failed.ID = "pay-f"
		failed.Status = entities.PaymentStatusFailed
		expectServicePayments(m, failed, completedElsewhere())

		_, err := uc.Create(context.Background(), CreatePaymentInput{ServiceID: "svc-1", PayerID: "client-1", Amount: decimal.NewFromInt(10)})
		if !errors.Is(err, ErrServiceAlreadyPaid) {
			t.Fatalf("expected ErrServiceAlreadyPaid, got %v", err)
		}
	})

	t.Run("service lookup error", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		m.serviceRepo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(entities.Service{}, errors.New("db"))

		_, err := uc.Create(context.Background(), CreatePaymentInput{ServiceID: "svc-1", PayerID: "client-1", Amount: decimal.NewFromInt(10)})
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestPaymentUseCase_Create_LocalPix(t *testing.T) {
	uc, m := newPaymentUseCase(t, PaymentOptions{})
	amount := decimal.RequireFromString("150.00")
	txID := "0123456789abcdef0123456789abcdef"

	m.serviceRepo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(testService(), nil)
	expectServicePayments(m)
	m.pix.EXPECT().GenerateCopyPaste("svc-1", amount, txID).Return("000201copy")
	m.pix.EXPECT().GenerateQRCode("000201copy").Return("data:image/png;base64,AAAA", nil)
	m.repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Payment{})).DoAndReturn(
		func(_ context.Context, p entities.Payment) (entities.Payment, error) {
			if p.Status != entities.PaymentStatusPending || p.TransactionID != txID {
				t.Fatalf("unexpected payment: %+v", p)
			}
			if p.PixCopyPaste != "000201copy" || p.PixQRCode == "" || p.PaidAt != nil {
				t.Fatalf("unexpected pix fields: %+v", p)
			}
			if p.ClientID != "client-1" || p.ProfessionalID != "pro-1" || p.Method != entities.PaymentMethodPIX {
				t.Fatalf("unexpected parties: %+v", p)
			}
			return p, nil
		},
	)
	m.notifier.EXPECT().Emit(gomock.Any(), gomock.AssignableToTypeOf(entities.Notification{})).Do(
		func(_ context.Context, n entities.Notification) {
			if n.UserID != "pro-1" || n.Title != "Novo pagamento" || n.RelatedID != "pay-1" {
				t.Fatalf("unexpected notification: %+v", n)
			}
		},
	)

	p, err := uc.Create(context.Background(), CreatePaymentInput{ServiceID: "svc-1", PayerID: "client-1", Amount: amount})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "pay-1" {
		t.Fatalf("unexpected id: %s", p.ID)
	}
}

func TestPaymentUseCase_Create_GatewayPix(t *testing.T) {
	uc, m := newPaymentUseCase(t, PaymentOptions{PixViaGateway: true})

	m.serviceRepo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(testService(), nil)
	expectServicePayments(m)
	m.gateway.EXPECT().CreatePixPayment(gomock.Any(), gomock.AssignableToTypeOf(entities.GatewayPaymentRequest{})).DoAndReturn(
		func(_ context.Context, req entities.GatewayPaymentRequest) (entities.GatewayPayment, error) {
			if req.ExternalReference != "pay-1" || !req.Amount.Equal(decimal.NewFromInt(80)) {
				t.Fatalf("unexpected request: %+v", req)
			}
			return entities.GatewayPayment{ID: "mp-9", Status: "pending", QRCode: "000201mp", QRCodeBase64: "iVBOR"}, nil
		},
	)
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p entities.Payment) (entities.Payment, error) {
			if p.TransactionID != "mp-9" || p.PixCopyPaste != "000201mp" || p.PixQRCode != "data:image/png;base64,iVBOR" {
				t.Fatalf("unexpected payment: %+v", p)
			}
			return p, nil
		},
	)
	m.notifier.EXPECT().Emit(gomock.Any(), gomock.Any())

	if _, err := uc.Create(context.Background(), CreatePaymentInput{ServiceID: "svc-1", PayerID: "client-1", Amount: decimal.NewFromInt(80), Method: entities.PaymentMethodPIX}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPaymentUseCase_Create_Card(t *testing.T) {
	t.Run("charges with the token and stays pending", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})

		m.serviceRepo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(testService(), nil)
		expectServicePayments(m)
		m.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req entities.GatewayPaymentRequest) (entities.GatewayPayment, error) {
				if req.CardToken != "tok-1" || req.PaymentMethodID != "visa" || req.Installments != 3 {
					t.Fatalf("unexpected request: %+v", req)
				}
				return entities.GatewayPayment{ID: "mp-77", Status: "approved"}, nil
			},
		)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.TransactionID != "mp-77" || p.Status != entities.PaymentStatusPending || p.PixCopyPaste != "" {
					t.Fatalf("unexpected payment: %+v", p)
				}
				return p, nil
			},
		)
		m.notifier.EXPECT().Emit(gomock.Any(), gomock.Any()).Do(func(_ context.Context, n entities.Notification) {
			if n.UserID != "client-1" {
				t.Fatalf("professional payer must notify the client, got %s", n.UserID)
			}
		})

		_, err := uc.Create(context.Background(), CreatePaymentInput{
			ServiceID:       "svc-1",
			PayerID:         "pro-1",
			Method:          entities.PaymentMethodCreditCard,
			Amount:          decimal.NewFromInt(300),
			CardToken:       "tok-1",
			PaymentMethodID: "visa",
			Installments:    3,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("gateway rejection creates nothing", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})

		m.serviceRepo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(testService(), nil)
		expectServicePayments(m)
		m.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(entities.GatewayPayment{}, interfaces.ErrPaymentGatewayBadRequest)

		_, err := uc.Create(context.Background(), CreatePaymentInput{
			ServiceID: "svc-1",
			PayerID:   "client-1",
			Method:    entities.PaymentMethodDebitCard,
			Amount:    decimal.NewFromInt(300),
			CardToken: "tok-1",
		})
		if !errors.Is(err, ErrPaymentGatewayBadRequest) {
			t.Fatalf("expected ErrPaymentGatewayBadRequest, got %v", err)
		}
	})

	t.Run("boleto is stored without pix fields or gateway call", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})

		m.serviceRepo.EXPECT().GetByID(gomock.Any(), "svc-1").Return(testService(), nil)
		expectServicePayments(m)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.TransactionID != "" || p.PixQRCode != "" || p.PixCopyPaste != "" {
					t.Fatalf("unexpected payment: %+v", p)
				}
				return p, nil
			},
		)
		m.notifier.EXPECT().Emit(gomock.Any(), gomock.Any())

		if _, err := uc.Create(context.Background(), CreatePaymentInput{ServiceID: "svc-1", PayerID: "client-1", Method: entities.PaymentMethodBoleto, Amount: decimal.NewFromInt(10)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPaymentUseCase_UpdateStatus(t *testing.T) {
	t.Run("invalid status", func(t *testing.T) {
		uc, _ := newPaymentUseCase(t, PaymentOptions{})
		if _, err := uc.UpdateStatus(context.Background(), "pay-1", "paid", ""); !errors.Is(err, ErrInvalidPaymentStatus) {
			t.Fatalf("expected ErrInvalidPaymentStatus, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		m.repo.EXPECT().GetByID(gomock.Any(), "pay-x").Return(entities.Payment{}, nil)

		if _, err := uc.UpdateStatus(context.Background(), "pay-x", entities.PaymentStatusCompleted, ""); !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("expected ErrPaymentNotFound, got %v", err)
		}
	})

	t.Run("completed without transaction id sets paid_at and notifies both", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()
		stored.TransactionID = ""

		failed := pendingPayment()
		failed.ID = "pay-f"
		failed.Status = entities.PaymentStatusFailed

		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil)
		expectServicePayments(m, failed, stored)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "pay-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, change entities.PaymentStatusChange) (entities.Payment, error) {
				if change.From != entities.PaymentStatusPending || change.To != entities.PaymentStatusCompleted {
					t.Fatalf("unexpected change: %+v", change)
				}
				if change.PaidAt == nil || !change.PaidAt.Equal(fixedNow) {
					t.Fatalf("expected paid_at, got %v", change.PaidAt)
				}
				return applyChange(stored, change), nil
			},
		)
		recipients := expectConfirmations(t, m)

		p, err := uc.UpdateStatus(context.Background(), "pay-1", entities.PaymentStatusCompleted, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.PaidAt == nil || p.Status != entities.PaymentStatusCompleted {
			t.Fatalf("unexpected payment: %+v", p)
		}
		if recipients["client-1"] != 1 || recipients["pro-1"] != 1 {
			t.Fatalf("unexpected recipients: %+v", recipients)
		}
	})

	t.Run("repeated completion is a silent no-op", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()
		stored.Status = entities.PaymentStatusCompleted
		stored.PaidAt = &fixedNow

		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil)

		p, err := uc.UpdateStatus(context.Background(), "pay-1", entities.PaymentStatusCompleted, "mp-123")
		if err != nil || p.Status != entities.PaymentStatusCompleted {
			t.Fatalf("unexpected result: %+v err=%v", p, err)
		}
	})

	t.Run("completed never goes back to pending", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()
		stored.Status = entities.PaymentStatusCompleted

		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil)

		if _, err := uc.UpdateStatus(context.Background(), "pay-1", entities.PaymentStatusPending, ""); !errors.Is(err, ErrInvalidStatusTransition) {
			t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
		}
	})

	t.Run("conflicting transaction id", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(pendingPayment(), nil)

		if _, err := uc.UpdateStatus(context.Background(), "pay-1", entities.PaymentStatusCompleted, "other"); !errors.Is(err, ErrTransactionIDConflict) {
			t.Fatalf("expected ErrTransactionIDConflict, got %v", err)
		}
	})

	t.Run("assigns a missing transaction id without moving status", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()
		stored.TransactionID = ""

		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil)
		m.repo.EXPECT().GetByTransactionID(gomock.Any(), "tx-new").Return(entities.Payment{}, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "pay-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, change entities.PaymentStatusChange) (entities.Payment, error) {
				if change.From != change.To || change.TransactionID != "tx-new" || change.PaidAt != nil {
					t.Fatalf("unexpected change: %+v", change)
				}
				return applyChange(stored, change), nil
			},
		)

		p, err := uc.UpdateStatus(context.Background(), "pay-1", entities.PaymentStatusPending, "tx-new")
		if err != nil || p.TransactionID != "tx-new" {
			t.Fatalf("unexpected result: %+v err=%v", p, err)
		}
	})

	t.Run("lost race re-reads and does not notify twice", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()
		completed := stored
		completed.Status = entities.PaymentStatusCompleted
		completed.PaidAt = &fixedNow

		gomock.InOrder(
			m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil),
			expectServicePayments(m, stored),
			m.repo.EXPECT().UpdateStatus(gomock.Any(), "pay-1", gomock.Any()).Return(entities.Payment{}, interfaces.ErrPaymentConcurrentUpdate),
			m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(completed, nil),
		)

		p, err := uc.UpdateStatus(context.Background(), "pay-1", entities.PaymentStatusCompleted, "")
		if err != nil || p.Status != entities.PaymentStatusCompleted {
			t.Fatalf("unexpected result: %+v err=%v", p, err)
		}
	})

	t.Run("transaction id held by another payment is not written", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()
		stored.ID = "pay-2"
		stored.TransactionID = ""

		m.repo.EXPECT().GetByID(gomock.Any(), "pay-2").Return(stored, nil)
		m.repo.EXPECT().GetByTransactionID(gomock.Any(), "mp-123").Return(pendingPayment(), nil)

		_, err := uc.UpdateStatus(context.Background(), "pay-2", entities.PaymentStatusPending, "mp-123")
		if !errors.Is(err, ErrTransactionIDConflict) {
			t.Fatalf("expected ErrTransactionIDConflict, got %v", err)
		}
	})

	t.Run("transaction id claimed concurrently is reported", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()
		stored.ID = "pay-2"
		stored.TransactionID = ""

		m.repo.EXPECT().GetByID(gomock.Any(), "pay-2").Return(stored, nil)
		m.repo.EXPECT().GetByTransactionID(gomock.Any(), "mp-123").Return(entities.Payment{}, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "pay-2", gomock.Any()).Return(entities.Payment{}, interfaces.ErrTransactionIDConflict)

		_, err := uc.UpdateStatus(context.Background(), "pay-2", entities.PaymentStatusPending, "mp-123")
		if !errors.Is(err, ErrTransactionIDConflict) {
			t.Fatalf("expected ErrTransactionIDConflict, got %v", err)
		}
	})

	t.Run("second completion for a service is rejected", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()

		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil)
		expectServicePayments(m, stored, completedElsewhere())

		_, err := uc.UpdateStatus(context.Background(), "pay-1", entities.PaymentStatusCompleted, "")
		if !errors.Is(err, ErrServiceAlreadyPaid) {
			t.Fatalf("expected ErrServiceAlreadyPaid, got %v", err)
		}
	})

	t.Run("completion claimed concurrently by another payment", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()

		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil)
		expectServicePayments(m, stored)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "pay-1", gomock.Any()).Return(entities.Payment{}, interfaces.ErrServiceAlreadyPaid)

		_, err := uc.UpdateStatus(context.Background(), "pay-1", entities.PaymentStatusCompleted, "")
		if !errors.Is(err, ErrServiceAlreadyPaid) {
			t.Fatalf("expected ErrServiceAlreadyPaid, got %v", err)
		}
	})

	t.Run("failed transition does not notify", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()

		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "pay-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, change entities.PaymentStatusChange) (entities.Payment, error) {
				if change.PaidAt != nil {
					t.Fatalf("paid_at must not be set for failed")
				}
				return applyChange(stored, change), nil
			},
		)

		if _, err := uc.UpdateStatus(context.Background(), "pay-1", entities.PaymentStatusFailed, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPaymentUseCase_Reconcile(t *testing.T) {
	t.Run("no transaction id is a no-op", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()
		stored.TransactionID = ""
		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil)

		p, err := uc.Reconcile(context.Background(), "pay-1")
		if err != nil || p.Status != entities.PaymentStatusPending {
			t.Fatalf("unexpected result: %+v err=%v", p, err)
		}
	})

	t.Run("gateway failure leaves the record untouched", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(pendingPayment(), nil)
		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-123").Return(entities.GatewayPayment{}, interfaces.ErrPaymentGatewayUnavailable)

		p, err := uc.Reconcile(context.Background(), "pay-1")
		if err != nil || p.Status != entities.PaymentStatusPending {
			t.Fatalf("unexpected result: %+v err=%v", p, err)
		}
	})

	t.Run("unmapped gateway status is a no-op", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(pendingPayment(), nil)
		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-123").Return(entities.GatewayPayment{ID: "mp-123", Status: "in_process"}, nil)

		p, err := uc.Reconcile(context.Background(), "pay-1")
		if err != nil || p.Status != entities.PaymentStatusPending {
			t.Fatalf("unexpected result: %+v err=%v", p, err)
		}
	})

	t.Run("rejected maps to failed", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()
		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil)
		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-123").Return(entities.GatewayPayment{Status: "rejected"}, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "pay-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, change entities.PaymentStatusChange) (entities.Payment, error) {
				if change.To != entities.PaymentStatusFailed {
					t.Fatalf("unexpected change: %+v", change)
				}
				return applyChange(stored, change), nil
			},
		)

		p, err := uc.Reconcile(context.Background(), "pay-1")
		if err != nil || p.Status != entities.PaymentStatusFailed {
			t.Fatalf("unexpected result: %+v err=%v", p, err)
		}
	})

	t.Run("approved completes once", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()
		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil)
		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-123").Return(entities.GatewayPayment{Status: "approved"}, nil)
		expectServicePayments(m, stored)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "pay-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, change entities.PaymentStatusChange) (entities.Payment, error) {
				return applyChange(stored, change), nil
			},
		)
		expectConfirmations(t, m)

		p, err := uc.Reconcile(context.Background(), "pay-1")
		if err != nil || p.Status != entities.PaymentStatusCompleted || p.PaidAt == nil {
			t.Fatalf("unexpected result: %+v err=%v", p, err)
		}
	})

	t.Run("approval losing the completion guard leaves the payment pending", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()
		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil)
		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-123").Return(entities.GatewayPayment{Status: "approved"}, nil)
		expectServicePayments(m, stored)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "pay-1", gomock.Any()).Return(entities.Payment{}, interfaces.ErrServiceAlreadyPaid)

		p, err := uc.Reconcile(context.Background(), "pay-1")
		if err != nil || p.Status != entities.PaymentStatusPending {
			t.Fatalf("unexpected result: %+v err=%v", p, err)
		}
	})

	t.Run("completed payment ignores a later refund status", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		stored := pendingPayment()
		stored.Status = entities.PaymentStatusCompleted
		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(stored, nil)
		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-123").Return(entities.GatewayPayment{Status: "refunded"}, nil)

		p, err := uc.Reconcile(context.Background(), "pay-1")
		if err != nil || p.Status != entities.PaymentStatusCompleted {
			t.Fatalf("unexpected result: %+v err=%v", p, err)
		}
	})
}

func TestPaymentUseCase_HandleWebhook(t *testing.T) {
	opts := PaymentOptions{WebhookSecret: testWebhookSecret}
	approvedEvent := `{"type":"payment","action":"payment.updated","data":{"id":"mp-123"}}`

	t.Run("bad signature is rejected before any I/O", func(t *testing.T) {
		uc, _ := newPaymentUseCase(t, opts)
		body := []byte(approvedEvent)

		err := uc.HandleWebhook(context.Background(), body, webhook.Sign(body, "wrong"))
		if !errors.Is(err, ErrInvalidWebhookSignature) {
			t.Fatalf("expected ErrInvalidWebhookSignature, got %v", err)
		}
		err = uc.HandleWebhook(context.Background(), []byte(`{"type":"payment","data":{"id":"mp-999"}}`), webhook.Sign(body, testWebhookSecret))
		if !errors.Is(err, ErrInvalidWebhookSignature) {
			t.Fatalf("tampered body: expected ErrInvalidWebhookSignature, got %v", err)
		}
		if err := uc.HandleWebhook(context.Background(), body, ""); !errors.Is(err, ErrInvalidWebhookSignature) {
			t.Fatalf("missing header: expected ErrInvalidWebhookSignature, got %v", err)
		}
	})

	t.Run("other event types are acknowledged", func(t *testing.T) {
		uc, _ := newPaymentUseCase(t, opts)
		body, sig := signedBody(`{"type":"merchant_order","data":{"id":"1"}}`)

		if err := uc.HandleWebhook(context.Background(), body, sig); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("malformed payload is acknowledged", func(t *testing.T) {
		uc, _ := newPaymentUseCase(t, opts)
		body, sig := signedBody(`{"type":"payment","data":null}`)

		if err := uc.HandleWebhook(context.Background(), body, sig); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unknown transaction is acknowledged without writes", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, opts)
		body, sig := signedBody(approvedEvent)

		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-123").Return(entities.GatewayPayment{Status: "approved"}, nil)
		m.repo.EXPECT().GetByTransactionID(gomock.Any(), "mp-123").Return(entities.Payment{}, nil)

		if err := uc.HandleWebhook(context.Background(), body, sig); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("gateway failure is acknowledged", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, opts)
		body, sig := signedBody(approvedEvent)

		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-123").Return(entities.GatewayPayment{}, interfaces.ErrPaymentGatewayUnavailable)

		if err := uc.HandleWebhook(context.Background(), body, sig); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("datastore failure is reported", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, opts)
		body, sig := signedBody(approvedEvent)

		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-123").Return(entities.GatewayPayment{Status: "approved"}, nil)
		m.repo.EXPECT().GetByTransactionID(gomock.Any(), "mp-123").Return(entities.Payment{}, errors.New("db"))

		if err := uc.HandleWebhook(context.Background(), body, sig); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("approved completes and replays are idempotent", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, opts)
		body, sig := signedBody(approvedEvent)

		stored := pendingPayment()
		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-123").Return(entities.GatewayPayment{ID: "mp-123", Status: "approved"}, nil).Times(3)
		m.repo.EXPECT().GetByTransactionID(gomock.Any(), "mp-123").DoAndReturn(
			func(context.Context, string) (entities.Payment, error) { return stored, nil },
		).Times(3)
		expectServicePayments(m).Times(1)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "pay-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, change entities.PaymentStatusChange) (entities.Payment, error) {
				if change.From != entities.PaymentStatusPending || change.PaidAt == nil {
					t.Fatalf("unexpected change: %+v", change)
				}
				stored = applyChange(stored, change)
				return stored, nil
			},
		).Times(1)
		recipients := expectConfirmations(t, m)

		for i := 0; i < 3; i++ {
			if err := uc.HandleWebhook(context.Background(), body, sig); err != nil {
				t.Fatalf("delivery %d: unexpected error: %v", i+1, err)
			}
		}
		if stored.Status != entities.PaymentStatusCompleted || stored.PaidAt == nil {
			t.Fatalf("unexpected stored payment: %+v", stored)
		}
		if recipients["client-1"] != 1 || recipients["pro-1"] != 1 {
			t.Fatalf("expected one confirmation each, got %+v", recipients)
		}
	})

	t.Run("concurrent delivery that loses the race does not notify", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, opts)
		body, sig := signedBody(approvedEvent)

		completed := pendingPayment()
		completed.Status = entities.PaymentStatusCompleted
		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-123").Return(entities.GatewayPayment{Status: "approved"}, nil)
		m.repo.EXPECT().GetByTransactionID(gomock.Any(), "mp-123").Return(pendingPayment(), nil)
		expectServicePayments(m)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "pay-1", gomock.Any()).Return(entities.Payment{}, interfaces.ErrPaymentConcurrentUpdate)
		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(completed, nil)

		if err := uc.HandleWebhook(context.Background(), body, sig); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("approval for a service already paid is acknowledged without writes", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, opts)
		body, sig := signedBody(approvedEvent)

		m.gateway.EXPECT().GetPayment(gomock.Any(), "mp-123").Return(entities.GatewayPayment{Status: "approved"}, nil)
		m.repo.EXPECT().GetByTransactionID(gomock.Any(), "mp-123").Return(pendingPayment(), nil)
		expectServicePayments(m, pendingPayment(), completedElsewhere())

		if err := uc.HandleWebhook(context.Background(), body, sig); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("numeric ids and no secret configured", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		body := []byte(`{"type":"payment","data":{"id":123456}}`)

		m.gateway.EXPECT().GetPayment(gomock.Any(), "123456").Return(entities.GatewayPayment{Status: "pending"}, nil)
		m.repo.EXPECT().GetByTransactionID(gomock.Any(), "123456").Return(pendingPayment(), nil)

		if err := uc.HandleWebhook(context.Background(), body, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPaymentUseCase_CreateCardToken(t *testing.T) {
	t.Run("incomplete card", func(t *testing.T) {
		uc, _ := newPaymentUseCase(t, PaymentOptions{})
		_, err := uc.CreateCardToken(context.Background(), CardTokenInput{CardNumber: "4111"})
		if !errors.Is(err, ErrInvalidCardData) {
			t.Fatalf("expected ErrInvalidCardData, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		uc, m := newPaymentUseCase(t, PaymentOptions{})
		m.gateway.EXPECT().CreateCardToken(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req entities.CardTokenRequest) (string, error) {
				if req.CardNumber != "4111111111111111" {
					t.Fatalf("expected normalized card number, got %q", req.CardNumber)
				}
				return "tok-1", nil
			},
		)

		token, err := uc.CreateCardToken(context.Background(), CardTokenInput{
			CardNumber:      "4111 1111 1111 1111",
			CardholderName:  "APRO",
			ExpirationMonth: "11",
			ExpirationYear:  "2030",
			SecurityCode:    "123",
		})
		if err != nil || token != "tok-1" {
			t.Fatalf("unexpected result: %q err=%v", token, err)
		}
	})
}

func TestPaymentUseCase_ListByClient(t *testing.T) {
	uc, m := newPaymentUseCase(t, PaymentOptions{})

	m.repo.EXPECT().ListByClientID(gomock.Any(), "client-1", entities.PaymentListFilter{Limit: entities.DefaultPaymentListLimit}).
		Return([]entities.Payment{pendingPayment()}, nil)
	m.repo.EXPECT().TotalCompletedByClientID(gomock.Any(), "client-1").Return(decimal.RequireFromString("420.50"), nil)

	res, err := uc.ListByClient(context.Background(), "client-1", entities.PaymentListFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Payments) != 1 || !res.TotalCompleted.Equal(decimal.RequireFromString("420.50")) {
		t.Fatalf("unexpected result: %+v", res)
	}

	if _, err := uc.ListByProfessional(context.Background(), "pro-1", entities.PaymentListFilter{Status: "paid"}); !errors.Is(err, ErrInvalidPaymentStatus) {
		t.Fatalf("expected ErrInvalidPaymentStatus, got %v", err)
	}
}
