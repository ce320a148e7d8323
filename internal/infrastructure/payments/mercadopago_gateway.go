package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"marketplace_api/internal/domain/entities"
	appconfig "marketplace_api/internal/infrastructure/config"
	"marketplace_api/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/cardtoken"
	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"go.uber.org/zap"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

const (
	defaultDescription      = "Pagamento Marketplace"
	defaultIdentification   = "CPF"
	pixPaymentMethodID      = "pix"
	statementDescriptor     = "MARKETPLACE"
	defaultGatewayTimeout   = 10 * time.Second
	mockPixCopyPastePrefix  = "mock-pix-"
	mockCardTokenPrefix     = "mock-card-token-"
	mockApprovedStatus      = "approved"
	mockPendingStatus       = "pending"
	mockAccreditedStatusDet = "accredited"
)

// MercadoPagoGateway talks to Mercado Pago through the official SDK.
//
// Mock mode answers every call locally with fake ids so the API can run
// without credentials.
type MercadoPagoGateway struct {
	payments   payment.Client
	cardTokens cardtoken.Client
	webhookURL string
	timeout    time.Duration
	mockMode   bool
	logger     *zap.Logger
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(cfg *appconfig.Config, logger *zap.Logger) (*MercadoPagoGateway, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "payment.gateway"))

	timeout := cfg.MercadoPago.GatewayTimeout
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}

	if cfg.MercadoPago.Mock {
		logger.Warn("[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{mockMode: true, timeout: timeout, logger: logger}, nil
	}

	if cfg.MercadoPago.AccessToken == "" {
		logger.Error("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	sdkCfg, err := config.New(cfg.MercadoPago.AccessToken)
	if err != nil {
		logger.Error("[payment][gateway] failed creating sdk config", zap.Error(err))
		return nil, err
	}
	logger.Info("[payment][gateway] Mercado Pago client initialized", zap.Duration("timeout", timeout))

	return &MercadoPagoGateway{
		payments:   payment.NewClient(sdkCfg),
		cardTokens: cardtoken.NewClient(sdkCfg),
		webhookURL: cfg.MercadoPago.WebhookURL,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, req entities.GatewayPaymentRequest) (entities.GatewayPayment, error) {
	return g.create(ctx, req, false)
}

func (g *MercadoPagoGateway) CreatePixPayment(ctx context.Context, req entities.GatewayPaymentRequest) (entities.GatewayPayment, error) {
	req.PaymentMethodID = pixPaymentMethodID
	req.CardToken = ""
	req.Installments = 0
	return g.create(ctx, req, true)
}

func (g *MercadoPagoGateway) create(ctx context.Context, req entities.GatewayPaymentRequest, pix bool) (entities.GatewayPayment, error) {
	if g != nil && g.mockMode {
		return g.mockCreate(req, pix)
	}
	if g == nil || g.payments == nil {
		return entities.GatewayPayment{}, ErrMercadoPagoGatewayNotConfigured
	}

	payload, err := json.Marshal(g.toPaymentPayload(req))
	if err != nil {
		return entities.GatewayPayment{}, err
	}
	g.logger.Info("[payment][gateway] create start",
		zap.String("payment_method_id", req.PaymentMethodID),
		zap.String("external_reference", req.ExternalReference),
		zap.Int("payload_len", len(payload)))

	var sdkReq payment.Request
	if err := json.Unmarshal(payload, &sdkReq); err != nil {
		g.logger.Error("[payment][gateway] payload unmarshal failed", zap.Error(err))
		return entities.GatewayPayment{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.payments.Create(ctx, sdkReq)
	if err != nil {
		g.logger.Warn("[payment][gateway] sdk create failed", zap.Error(err))
		return entities.GatewayPayment{}, classify(err)
	}

	out, err := fromSDKResponse(resp)
	if err != nil {
		g.logger.Error("[payment][gateway] response decode failed", zap.Error(err))
		return entities.GatewayPayment{}, err
	}
	out.ID = fmt.Sprintf("%d", resp.ID)
	out.Status = resp.Status
	g.logger.Info("[payment][gateway] create success",
		zap.String("provider_payment_id", out.ID),
		zap.String("provider_status", out.Status))
	return out, nil
}

func (g *MercadoPagoGateway) GetPayment(ctx context.Context, externalID string) (entities.GatewayPayment, error) {
	if g != nil && g.mockMode {
		g.logger.Info("[payment][gateway] mock get", zap.String("provider_payment_id", externalID))
		now := time.Now().UTC()
		return entities.GatewayPayment{
			ID:           externalID,
			Status:       mockApprovedStatus,
			StatusDetail: mockAccreditedStatusDet,
			DateApproved: &now,
		}, nil
	}
	if g == nil || g.payments == nil {
		return entities.GatewayPayment{}, ErrMercadoPagoGatewayNotConfigured
	}

	id, err := strconv.Atoi(externalID)
	if err != nil {
		return entities.GatewayPayment{}, fmt.Errorf("%w: invalid provider payment id %q", interfaces.ErrPaymentGatewayBadRequest, externalID)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.payments.Get(ctx, id)
	if err != nil {
		g.logger.Warn("[payment][gateway] sdk get failed", zap.String("provider_payment_id", externalID), zap.Error(err))
		return entities.GatewayPayment{}, classify(err)
	}

	out, err := fromSDKResponse(resp)
	if err != nil {
		return entities.GatewayPayment{}, err
	}
	out.ID = fmt.Sprintf("%d", resp.ID)
	out.Status = resp.Status
	g.logger.Info("[payment][gateway] get success",
		zap.String("provider_payment_id", out.ID),
		zap.String("provider_status", out.Status))
	return out, nil
}

func (g *MercadoPagoGateway) CreateCardToken(ctx context.Context, req entities.CardTokenRequest) (string, error) {
	if g != nil && g.mockMode {
		token := mockCardTokenPrefix + strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		g.logger.Info("[payment][gateway] mock card token created")
		return token, nil
	}
	if g == nil || g.cardTokens == nil {
		return "", ErrMercadoPagoGatewayNotConfigured
	}

	payload, err := json.Marshal(toCardTokenPayload(req))
	if err != nil {
		return "", err
	}
	var sdkReq cardtoken.Request
	if err := json.Unmarshal(payload, &sdkReq); err != nil {
		g.logger.Error("[payment][gateway] card token payload unmarshal failed", zap.Error(err))
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.cardTokens.Create(ctx, sdkReq)
	if err != nil {
		g.logger.Warn("[payment][gateway] sdk card token failed", zap.Error(err))
		return "", classify(err)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	var token struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &token); err != nil {
		return "", err
	}
	if token.ID == "" {
		return "", fmt.Errorf("%w: empty card token", interfaces.ErrPaymentGatewayBadRequest)
	}
	g.logger.Info("[payment][gateway] card token created")
	return token.ID, nil
}

func (g *MercadoPagoGateway) mockCreate(req entities.GatewayPaymentRequest, pix bool) (entities.GatewayPayment, error) {
	id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	out := entities.GatewayPayment{ID: id, Status: mockApprovedStatus, StatusDetail: mockAccreditedStatusDet}
	if pix {
		out.Status = mockPendingStatus
		out.StatusDetail = "pending_waiting_transfer"
		out.QRCode = mockPixCopyPastePrefix + id
	}

	raw, err := json.Marshal(map[string]any{
		"id":                 id,
		"status":             out.Status,
		"status_detail":      out.StatusDetail,
		"transaction_amount": req.Amount,
		"external_reference": req.ExternalReference,
		"date_created":       time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		g.logger.Error("[payment][gateway] mock response marshal failed", zap.Error(err))
		return entities.GatewayPayment{}, err
	}
	out.Raw = raw

	g.logger.Info("[payment][gateway] mock create success",
		zap.String("provider_payment_id", id),
		zap.String("provider_status", out.Status))
	return out, nil
}

type paymentPayload struct {
	TransactionAmount   float64       `json:"transaction_amount"`
	Description         string        `json:"description"`
	PaymentMethodID     string        `json:"payment_method_id,omitempty"`
	Token               string        `json:"token,omitempty"`
	Installments        int           `json:"installments,omitempty"`
	Payer               *payerPayload `json:"payer,omitempty"`
	ExternalReference   string        `json:"external_reference,omitempty"`
	NotificationURL     string        `json:"notification_url,omitempty"`
	StatementDescriptor string        `json:"statement_descriptor,omitempty"`
}

type payerPayload struct {
	Email string `json:"email,omitempty"`
}

func (g *MercadoPagoGateway) toPaymentPayload(req entities.GatewayPaymentRequest) paymentPayload {
	description := req.Description
	if description == "" {
		description = defaultDescription
	}
	p := paymentPayload{
		TransactionAmount: req.Amount.InexactFloat64(),
		Description:       description,
		PaymentMethodID:   req.PaymentMethodID,
		Token:             req.CardToken,
		Installments:      req.Installments,
		ExternalReference: req.ExternalReference,
		NotificationURL:   g.webhookURL,
	}
	if req.CardToken != "" {
		p.StatementDescriptor = statementDescriptor
		if p.Installments <= 0 {
			p.Installments = 1
		}
	}
	if req.PayerEmail != "" {
		p.Payer = &payerPayload{Email: req.PayerEmail}
	}
	return p
}

type cardTokenPayload struct {
	CardNumber      string                 `json:"card_number"`
	ExpirationMonth string                 `json:"expiration_month"`
	ExpirationYear  string                 `json:"expiration_year"`
	SecurityCode    string                 `json:"security_code"`
	Cardholder      cardholderTokenPayload `json:"cardholder"`
}

type cardholderTokenPayload struct {
	Name           string                `json:"name"`
	Identification identificationPayload `json:"identification"`
}

type identificationPayload struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

func toCardTokenPayload(req entities.CardTokenRequest) cardTokenPayload {
	idType := req.IdentificationType
	if idType == "" {
		idType = defaultIdentification
	}
	return cardTokenPayload{
		CardNumber:      req.CardNumber,
		ExpirationMonth: req.ExpirationMonth,
		ExpirationYear:  req.ExpirationYear,
		SecurityCode:    req.SecurityCode,
		Cardholder: cardholderTokenPayload{
			Name:           req.CardholderName,
			Identification: identificationPayload{Type: idType, Number: req.IdentificationNumber},
		},
	}
}

// providerPayment is the subset of the SDK response we keep.
type providerPayment struct {
	StatusDetail       string     `json:"status_detail"`
	DateApproved       *time.Time `json:"date_approved"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

func fromSDKResponse(resp *payment.Response) (entities.GatewayPayment, error) {
	if resp == nil {
		return entities.GatewayPayment{}, fmt.Errorf("%w: empty response", interfaces.ErrPaymentGatewayUnavailable)
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return entities.GatewayPayment{}, err
	}
	var p providerPayment
	if err := json.Unmarshal(raw, &p); err != nil {
		return entities.GatewayPayment{}, err
	}

	out := entities.GatewayPayment{
		StatusDetail: p.StatusDetail,
		QRCode:       p.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64: p.PointOfInteraction.TransactionData.QRCodeBase64,
		Raw:          raw,
	}
	if p.DateApproved != nil && !p.DateApproved.IsZero() {
		out.DateApproved = p.DateApproved
	}
	return out, nil
}

// classify maps transport failures and processor 5xx answers to
// ErrPaymentGatewayUnavailable and every other answer to
// ErrPaymentGatewayBadRequest. The SDK embeds the response body in the
// error message.
func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", interfaces.ErrPaymentGatewayUnavailable, err)
	}
	if isGatewayServerError(err) {
		return fmt.Errorf("%w: %v", interfaces.ErrPaymentGatewayUnavailable, err)
	}
	return fmt.Errorf("%w: %v", interfaces.ErrPaymentGatewayBadRequest, err)
}

func isGatewayServerError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, `"status":5`) || strings.Contains(msg, "internal_server_error") || strings.Contains(msg, "service unavailable")
}
