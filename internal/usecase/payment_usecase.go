package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace_api/internal/domain/entities"
	"marketplace_api/internal/infrastructure/webhook"
	"marketplace_api/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrInvalidPaymentID        = errors.New("invalid payment id")
	ErrInvalidPaymentInput     = errors.New("invalid payment input")
	ErrInvalidPaymentStatus    = errors.New("invalid payment status")
	ErrInvalidStatusTransition = errors.New("invalid payment status transition")
	ErrPaymentForbidden        = errors.New("user is not a party of this service")
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")
	ErrInvalidCardData         = errors.New("incomplete card data")

	ErrTransactionIDConflict     = interfaces.ErrTransactionIDConflict
	ErrServiceAlreadyPaid        = interfaces.ErrServiceAlreadyPaid
	ErrPaymentGatewayBadRequest  = interfaces.ErrPaymentGatewayBadRequest
	ErrPaymentGatewayUnavailable = interfaces.ErrPaymentGatewayUnavailable
)

const (
	maxStatusWriteAttempts = 3
	qrDataURIPrefix        = "data:image/png;base64,"
)

// maxPaymentAmount keeps the BR Code amount field within 13 characters.
var maxPaymentAmount = decimal.RequireFromString("9999999999.99")

type CreatePaymentInput struct {
	ServiceID string
	PayerID   string
	Method    entities.PaymentMethod
	Amount    decimal.Decimal
	// Card flow only.
	CardToken       string
	PaymentMethodID string
	Installments    int
	PayerEmail      string
}

type CardTokenInput struct {
	CardNumber           string
	CardholderName       string
	ExpirationMonth      string
	ExpirationYear       string
	SecurityCode         string
	IdentificationType   string
	IdentificationNumber string
}

// PaymentListResult is one page of a party's payments plus the sum of all
// their completed payments.
type PaymentListResult struct {
	Payments       []entities.Payment
	TotalCompleted decimal.Decimal
}

// IPaymentUseCase drives the payment lifecycle.
//
// pending is the only state that moves. Direct updates, on-demand
// reconciliation and processor webhooks all write through the same guarded
// transition, so each move happens at most once and notifies at most once.
type IPaymentUseCase interface {
	Create(ctx context.Context, in CreatePaymentInput) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	ListByServiceID(ctx context.Context, serviceID string) ([]entities.Payment, error)
	ListByClient(ctx context.Context, clientID string, filter entities.PaymentListFilter) (PaymentListResult, error)
	ListByProfessional(ctx context.Context, professionalID string, filter entities.PaymentListFilter) (PaymentListResult, error)
	UpdateStatus(ctx context.Context, paymentID string, newStatus entities.PaymentStatus, transactionID string) (entities.Payment, error)
	Reconcile(ctx context.Context, paymentID string) (entities.Payment, error)
	HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) error
	CreateCardToken(ctx context.Context, in CardTokenInput) (string, error)
}

// PaymentOptions tunes the orchestrator. When PixViaGateway is set the PIX
// charge is created at the processor instead of being generated locally.
type PaymentOptions struct {
	WebhookSecret string
	PixViaGateway bool
}

type PaymentUseCase struct {
	repo        interfaces.IPaymentRepository
	serviceRepo interfaces.IServiceRepository
	gateway     interfaces.IPaymentGateway
	pix         interfaces.IPixCodeGenerator
	notifier    interfaces.INotifier
	opts        PaymentOptions
	logger      *zap.Logger

	now     func() time.Time
	newID   func() string
	newTxID func() (string, error)
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(
	repo interfaces.IPaymentRepository,
	serviceRepo interfaces.IServiceRepository,
	gateway interfaces.IPaymentGateway,
	pix interfaces.IPixCodeGenerator,
	notifier interfaces.INotifier,
	opts PaymentOptions,
	logger *zap.Logger,
) *PaymentUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "payment.usecase"))
	if opts.WebhookSecret == "" {
		logger.Warn("[payment][usecase] MERCADOPAGO_WEBHOOK_SECRET not set; webhook signatures are not verified")
	}
	return &PaymentUseCase{
		repo:        repo,
		serviceRepo: serviceRepo,
		gateway:     gateway,
		pix:         pix,
		notifier:    notifier,
		opts:        opts,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
		newTxID:     randomTransactionID,
	}
}

func (u *PaymentUseCase) Create(ctx context.Context, in CreatePaymentInput) (entities.Payment, error) {
	in.ServiceID = strings.TrimSpace(in.ServiceID)
	if in.ServiceID == "" {
		return entities.Payment{}, fmt.Errorf("%w: service_id is required", ErrInvalidPaymentInput)
	}
	if !in.Amount.IsPositive() {
		return entities.Payment{}, fmt.Errorf("%w: amount must be positive", ErrInvalidPaymentInput)
	}
	if in.Amount.GreaterThan(maxPaymentAmount) {
		return entities.Payment{}, fmt.Errorf("%w: amount exceeds %s", ErrInvalidPaymentInput, maxPaymentAmount.StringFixed(2))
	}
	if in.Method == "" {
		in.Method = entities.PaymentMethodPIX
	}
	if !in.Method.IsValid() {
		return entities.Payment{}, fmt.Errorf("%w: unknown method %q", ErrInvalidPaymentInput, in.Method)
	}
	u.logger.Info("[payment][usecase] create start",
		zap.String("service_id", in.ServiceID),
		zap.String("payer_id", in.PayerID),
		zap.String("method", string(in.Method)),
		zap.String("amount", in.Amount.StringFixed(2)))

	svc, err := u.serviceRepo.GetByID(ctx, in.ServiceID)
	if err != nil {
		u.logger.Error("[payment][usecase] failed loading service", zap.String("service_id", in.ServiceID), zap.Error(err))
		return entities.Payment{}, err
	}
	if svc.ID == "" {
		return entities.Payment{}, ErrServiceNotFound
	}
	if !svc.IsParty(in.PayerID) {
		u.logger.Warn("[payment][usecase] payer is not a party", zap.String("service_id", svc.ID), zap.String("payer_id", in.PayerID))
		return entities.Payment{}, ErrPaymentForbidden
	}
	paid, err := u.completedPaymentOf(ctx, svc.ID, "")
	if err != nil {
		return entities.Payment{}, err
	}
	if paid.ID != "" {
		u.logger.Warn("[payment][usecase] service already paid", zap.String("service_id", svc.ID), zap.String("completed_payment_id", paid.ID))
		return entities.Payment{}, ErrServiceAlreadyPaid
	}

	now := u.now()
	p := entities.Payment{
		ID:             u.newID(),
		ServiceID:      svc.ID,
		ClientID:       svc.ClientID,
		ProfessionalID: svc.ProfessionalID,
		Amount:         in.Amount,
		Method:         in.Method,
		Status:         entities.PaymentStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	switch {
	case in.Method == entities.PaymentMethodPIX && u.opts.PixViaGateway:
		err = u.attachGatewayPix(ctx, &p, svc, in)
	case in.Method == entities.PaymentMethodPIX:
		err = u.attachLocalPix(&p)
	case in.Method.IsCard() && strings.TrimSpace(in.CardToken) != "":
		err = u.chargeCard(ctx, &p, svc, in)
	}
	if err != nil {
		return entities.Payment{}, err
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		u.logger.Error("[payment][usecase] repository create failed", zap.String("payment_id", p.ID), zap.Error(err))
		return entities.Payment{}, err
	}
	u.logger.Info("[payment][usecase] create success",
		zap.String("payment_id", created.ID),
		zap.String("transaction_id", created.TransactionID),
		zap.String("status", string(created.Status)))

	u.emit(ctx, entities.Notification{
		UserID:    created.CounterpartyOf(in.PayerID),
		Title:     "Novo pagamento",
		Message:   fmt.Sprintf("Um pagamento de R$ %s foi criado para o serviço: %s", created.Amount.StringFixed(2), svc.Title),
		Type:      entities.NotificationTypePayment,
		RelatedID: created.ID,
		Data:      map[string]any{"amount": created.Amount.StringFixed(2), "method": string(created.Method)},
	})
	return created, nil
}

func (u *PaymentUseCase) attachLocalPix(p *entities.Payment) error {
	txID, err := u.newTxID()
	if err != nil {
		return fmt.Errorf("generate transaction id: %w", err)
	}
	copyPaste := u.pix.GenerateCopyPaste(p.ServiceID, p.Amount, txID)
	qr, err := u.pix.GenerateQRCode(copyPaste)
	if err != nil {
		return err
	}
	p.TransactionID = txID
	p.PixCopyPaste = copyPaste
	p.PixQRCode = qr
	return nil
}

func (u *PaymentUseCase) attachGatewayPix(ctx context.Context, p *entities.Payment, svc entities.Service, in CreatePaymentInput) error {
	gw, err := u.gateway.CreatePixPayment(ctx, entities.GatewayPaymentRequest{
		Amount:            p.Amount,
		Description:       svc.Title,
		PayerEmail:        in.PayerEmail,
		ExternalReference: p.ID,
	})
	if err != nil {
		u.logger.Warn("[payment][usecase] gateway pix create failed", zap.String("payment_id", p.ID), zap.Error(err))
		return err
	}
	if gw.ID == "" || gw.QRCode == "" {
		return fmt.Errorf("%w: pix payment without id or code", ErrPaymentGatewayUnavailable)
	}

	qr := ""
	if gw.QRCodeBase64 != "" {
		qr = qrDataURIPrefix + gw.QRCodeBase64
	} else if qr, err = u.pix.GenerateQRCode(gw.QRCode); err != nil {
		return err
	}
	p.TransactionID = gw.ID
	p.PixCopyPaste = gw.QRCode
	p.PixQRCode = qr
	return nil
}

// chargeCard creates the charge at the processor. The local record stays
// pending; the processor's webhook moves it.
func (u *PaymentUseCase) chargeCard(ctx context.Context, p *entities.Payment, svc entities.Service, in CreatePaymentInput) error {
	gw, err := u.gateway.CreatePayment(ctx, entities.GatewayPaymentRequest{
		Amount:            p.Amount,
		Description:       svc.Title,
		PaymentMethodID:   in.PaymentMethodID,
		CardToken:         strings.TrimSpace(in.CardToken),
		Installments:      in.Installments,
		PayerEmail:        in.PayerEmail,
		ExternalReference: p.ID,
	})
	if err != nil {
		u.logger.Warn("[payment][usecase] gateway card create failed", zap.String("payment_id", p.ID), zap.Error(err))
		return err
	}
	if gw.ID == "" {
		return fmt.Errorf("%w: card payment without id", ErrPaymentGatewayUnavailable)
	}
	p.TransactionID = gw.ID
	u.logger.Info("[payment][usecase] card charge created",
		zap.String("payment_id", p.ID),
		zap.String("provider_payment_id", gw.ID),
		zap.String("provider_status", gw.Status))
	return nil
}

func (u *PaymentUseCase) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Payment{}, ErrInvalidPaymentID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

func (u *PaymentUseCase) ListByServiceID(ctx context.Context, serviceID string) ([]entities.Payment, error) {
	serviceID = strings.TrimSpace(serviceID)
	if serviceID == "" {
		return nil, fmt.Errorf("%w: service_id is required", ErrInvalidPaymentInput)
	}
	return u.repo.ListByServiceID(ctx, serviceID)
}

func (u *PaymentUseCase) ListByClient(ctx context.Context, clientID string, filter entities.PaymentListFilter) (PaymentListResult, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return PaymentListResult{}, ErrInvalidPaymentStatus
	}
	payments, err := u.repo.ListByClientID(ctx, clientID, filter.Normalize())
	if err != nil {
		return PaymentListResult{}, err
	}
	total, err := u.repo.TotalCompletedByClientID(ctx, clientID)
	if err != nil {
		return PaymentListResult{}, err
	}
	return PaymentListResult{Payments: payments, TotalCompleted: total}, nil
}

func (u *PaymentUseCase) ListByProfessional(ctx context.Context, professionalID string, filter entities.PaymentListFilter) (PaymentListResult, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return PaymentListResult{}, ErrInvalidPaymentStatus
	}
	payments, err := u.repo.ListByProfessionalID(ctx, professionalID, filter.Normalize())
	if err != nil {
		return PaymentListResult{}, err
	}
	total, err := u.repo.TotalCompletedByProfessionalID(ctx, professionalID)
	if err != nil {
		return PaymentListResult{}, err
	}
	return PaymentListResult{Payments: payments, TotalCompleted: total}, nil
}

// UpdateStatus moves a payment by direct request.
//
// An identical status is a no-op unless it also assigns a missing
// transaction id. A lost race re-reads the record and decides again.
func (u *PaymentUseCase) UpdateStatus(ctx context.Context, paymentID string, newStatus entities.PaymentStatus, transactionID string) (entities.Payment, error) {
	paymentID = strings.TrimSpace(paymentID)
	transactionID = strings.TrimSpace(transactionID)
	if paymentID == "" {
		return entities.Payment{}, ErrInvalidPaymentID
	}
	if !newStatus.IsValid() {
		return entities.Payment{}, ErrInvalidPaymentStatus
	}

	for attempt := 1; attempt <= maxStatusWriteAttempts; attempt++ {
		p, err := u.GetByID(ctx, paymentID)
		if err != nil {
			return entities.Payment{}, err
		}
		if transactionID != "" && p.TransactionID != "" && p.TransactionID != transactionID {
			return entities.Payment{}, ErrTransactionIDConflict
		}
		assignTx := ""
		if transactionID != "" && p.TransactionID == "" {
			assignTx = transactionID
			holder, err := u.repo.GetByTransactionID(ctx, assignTx)
			if err != nil {
				return entities.Payment{}, err
			}
			if holder.ID != "" && holder.ID != p.ID {
				u.logger.Warn("[payment][usecase] transaction id held by another payment",
					zap.String("payment_id", p.ID),
					zap.String("holder_id", holder.ID),
					zap.String("transaction_id", assignTx))
				return entities.Payment{}, ErrTransactionIDConflict
			}
		}

		if p.Status == newStatus && assignTx == "" {
			u.logger.Info("[payment][usecase] update status no-op", zap.String("payment_id", p.ID), zap.String("status", string(p.Status)))
			return p, nil
		}
		if p.Status != newStatus && !p.Status.CanTransitionTo(newStatus) {
			u.logger.Warn("[payment][usecase] rejected transition",
				zap.String("payment_id", p.ID),
				zap.String("from", string(p.Status)),
				zap.String("to", string(newStatus)))
			return entities.Payment{}, ErrInvalidStatusTransition
		}
		if newStatus == entities.PaymentStatusCompleted && p.Status != newStatus {
			paid, err := u.completedPaymentOf(ctx, p.ServiceID, p.ID)
			if err != nil {
				return entities.Payment{}, err
			}
			if paid.ID != "" {
				u.logger.Warn("[payment][usecase] service already paid",
					zap.String("payment_id", p.ID),
					zap.String("completed_payment_id", paid.ID))
				return entities.Payment{}, ErrServiceAlreadyPaid
			}
		}

		updated, err := u.repo.UpdateStatus(ctx, p.ID, entities.NewPaymentStatusChange(p, newStatus, assignTx, u.now()))
		if errors.Is(err, interfaces.ErrPaymentConcurrentUpdate) {
			u.logger.Info("[payment][usecase] concurrent update, retrying", zap.String("payment_id", p.ID), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			u.logger.Error("[payment][usecase] update status failed", zap.String("payment_id", p.ID), zap.Error(err))
			return entities.Payment{}, err
		}

		u.logger.Info("[payment][usecase] status updated",
			zap.String("payment_id", updated.ID),
			zap.String("from", string(p.Status)),
			zap.String("to", string(updated.Status)),
			zap.String("transaction_id", updated.TransactionID))
		if p.Status != updated.Status {
			u.notifyTransition(ctx, updated)
		}
		return updated, nil
	}
	return entities.Payment{}, interfaces.ErrPaymentConcurrentUpdate
}

// Reconcile refreshes a payment from the processor. Processor failures
// leave the record as it is.
func (u *PaymentUseCase) Reconcile(ctx context.Context, paymentID string) (entities.Payment, error) {
	p, err := u.GetByID(ctx, paymentID)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.TransactionID == "" {
		return p, nil
	}

	gw, err := u.gateway.GetPayment(ctx, p.TransactionID)
	if err != nil {
		u.logger.Warn("[payment][usecase] reconcile gateway lookup failed",
			zap.String("payment_id", p.ID),
			zap.String("transaction_id", p.TransactionID),
			zap.Error(err))
		return p, nil
	}
	return u.applyGatewayStatus(ctx, p, gw.Status)
}

// HandleWebhook processes one processor notification. Only a bad signature
// or a datastore failure is reported; everything else is acknowledged.
func (u *PaymentUseCase) HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) error {
	if !webhook.VerifySignature(rawBody, signatureHeader, u.opts.WebhookSecret) {
		u.logger.Warn("[payment][webhook] invalid signature", zap.Int("body_len", len(rawBody)))
		return ErrInvalidWebhookSignature
	}

	ev := webhook.ParseEvent(rawBody)
	if ev.Kind != webhook.EventPayment {
		u.logger.Info("[payment][webhook] ignored event", zap.String("type", ev.Type), zap.String("action", ev.Action))
		return nil
	}

	gw, err := u.gateway.GetPayment(ctx, ev.PaymentID)
	if err != nil {
		u.logger.Warn("[payment][webhook] gateway lookup failed", zap.String("provider_payment_id", ev.PaymentID), zap.Error(err))
		return nil
	}

	p, err := u.repo.GetByTransactionID(ctx, ev.PaymentID)
	if err != nil {
		u.logger.Error("[payment][webhook] lookup by transaction failed", zap.String("provider_payment_id", ev.PaymentID), zap.Error(err))
		return err
	}
	if p.ID == "" {
		u.logger.Info("[payment][webhook] unknown transaction", zap.String("provider_payment_id", ev.PaymentID))
		return nil
	}

	_, err = u.applyGatewayStatus(ctx, p, gw.Status)
	return err
}

// applyGatewayStatus writes the status mapped from gatewayStatus when it
// moves p forward. Terminal records and lost races are left alone, and so is
// an approval for a service another payment already completed.
func (u *PaymentUseCase) applyGatewayStatus(ctx context.Context, p entities.Payment, gatewayStatus string) (entities.Payment, error) {
	next, ok := entities.MapGatewayStatus(gatewayStatus)
	if !ok || next == p.Status {
		return p, nil
	}
	if !p.Status.CanTransitionTo(next) {
		u.logger.Info("[payment][usecase] ignoring gateway status for settled payment",
			zap.String("payment_id", p.ID),
			zap.String("status", string(p.Status)),
			zap.String("gateway_status", gatewayStatus))
		return p, nil
	}
	if next == entities.PaymentStatusCompleted {
		paid, err := u.completedPaymentOf(ctx, p.ServiceID, p.ID)
		if err != nil {
			return entities.Payment{}, err
		}
		if paid.ID != "" {
			u.logAlreadyPaid(p, paid.ID, gatewayStatus)
			return p, nil
		}
	}

	updated, err := u.repo.UpdateStatus(ctx, p.ID, entities.NewPaymentStatusChange(p, next, "", u.now()))
	if errors.Is(err, interfaces.ErrServiceAlreadyPaid) {
		u.logAlreadyPaid(p, "", gatewayStatus)
		return p, nil
	}
	if errors.Is(err, interfaces.ErrPaymentConcurrentUpdate) {
		u.logger.Info("[payment][usecase] concurrent update, skipping", zap.String("payment_id", p.ID))
		current, getErr := u.repo.GetByID(ctx, p.ID)
		if getErr != nil || current.ID == "" {
			return p, getErr
		}
		return current, nil
	}
	if err != nil {
		u.logger.Error("[payment][usecase] status write failed", zap.String("payment_id", p.ID), zap.Error(err))
		return entities.Payment{}, err
	}

	u.logger.Info("[payment][usecase] status reconciled",
		zap.String("payment_id", updated.ID),
		zap.String("from", string(p.Status)),
		zap.String("to", string(updated.Status)),
		zap.String("gateway_status", gatewayStatus))
	u.notifyTransition(ctx, updated)
	return updated, nil
}

// completedPaymentOf returns the completed payment of serviceID other than
// exceptID, or a zero Payment.
func (u *PaymentUseCase) completedPaymentOf(ctx context.Context, serviceID, exceptID string) (entities.Payment, error) {
	payments, err := u.repo.ListByServiceID(ctx, serviceID)
	if err != nil {
		u.logger.Error("[payment][usecase] failed listing service payments", zap.String("service_id", serviceID), zap.Error(err))
		return entities.Payment{}, err
	}
	for _, p := range payments {
		if p.ID != exceptID && p.Status == entities.PaymentStatusCompleted {
			return p, nil
		}
	}
	return entities.Payment{}, nil
}

// logAlreadyPaid records a processor approval that could not complete p
// because its service was settled by another payment; the funds need a
// manual refund.
func (u *PaymentUseCase) logAlreadyPaid(p entities.Payment, completedID, gatewayStatus string) {
	u.logger.Error("[payment][usecase] approval for a service already paid",
		zap.String("payment_id", p.ID),
		zap.String("service_id", p.ServiceID),
		zap.String("completed_payment_id", completedID),
		zap.String("transaction_id", p.TransactionID),
		zap.String("gateway_status", gatewayStatus))
}

func (u *PaymentUseCase) CreateCardToken(ctx context.Context, in CardTokenInput) (string, error) {
	if strings.TrimSpace(in.CardNumber) == "" || strings.TrimSpace(in.CardholderName) == "" ||
		strings.TrimSpace(in.ExpirationMonth) == "" || strings.TrimSpace(in.ExpirationYear) == "" ||
		strings.TrimSpace(in.SecurityCode) == "" {
		return "", ErrInvalidCardData
	}

	token, err := u.gateway.CreateCardToken(ctx, entities.CardTokenRequest{
		CardNumber:           strings.ReplaceAll(strings.TrimSpace(in.CardNumber), " ", ""),
		CardholderName:       strings.TrimSpace(in.CardholderName),
		ExpirationMonth:      strings.TrimSpace(in.ExpirationMonth),
		ExpirationYear:       strings.TrimSpace(in.ExpirationYear),
		SecurityCode:         strings.TrimSpace(in.SecurityCode),
		IdentificationType:   strings.TrimSpace(in.IdentificationType),
		IdentificationNumber: strings.TrimSpace(in.IdentificationNumber),
	})
	if err != nil {
		u.logger.Warn("[payment][usecase] card token failed", zap.Error(err))
		return "", err
	}
	return token, nil
}

// notifyTransition tells both parties about a confirmed payment. Other
// transitions are silent.
func (u *PaymentUseCase) notifyTransition(ctx context.Context, p entities.Payment) {
	if p.Status != entities.PaymentStatusCompleted {
		return
	}
	amount := p.Amount.StringFixed(2)
	data := map[string]any{"amount": amount, "method": string(p.Method)}

	u.emit(ctx, entities.Notification{
		UserID:    p.ProfessionalID,
		Title:     "Pagamento confirmado",
		Message:   fmt.Sprintf("O pagamento de R$ %s foi confirmado", amount),
		Type:      entities.NotificationTypePayment,
		RelatedID: p.ID,
		Data:      data,
	})
	u.emit(ctx, entities.Notification{
		UserID:    p.ClientID,
		Title:     "Pagamento confirmado",
		Message:   fmt.Sprintf("Seu pagamento de R$ %s foi confirmado", amount),
		Type:      entities.NotificationTypePayment,
		RelatedID: p.ID,
		Data:      data,
	})
}

func (u *PaymentUseCase) emit(ctx context.Context, n entities.Notification) {
	if u.notifier == nil {
		return
	}
	u.notifier.Emit(ctx, n)
}

func randomTransactionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
