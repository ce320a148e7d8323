package handlers

import (
	"net/http"

	request "marketplace_api/internal/adapter/http/dto/request"
	response "marketplace_api/internal/adapter/http/dto/response"
	"marketplace_api/internal/adapter/http/middleware"
	"marketplace_api/internal/domain/entities"
	"marketplace_api/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	headerSignature   = "x-signature"
	headerSignatureID = "x-signature-id"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
	logger  *zap.Logger
}

func NewPaymentHandler(uc usecase.IPaymentUseCase, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentHandler{usecase: uc, logger: logger.With(zap.String("component", "payment.handler"))}
}

// CreatePayment godoc
// @Summary      Create a payment for a service
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        payload  body      request.CreatePaymentRequest  true  "Payment"
// @Success      201      {object}  response.PaymentResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      403      {object}  pkg.HTTPError
// @Failure      404      {object}  pkg.HTTPError
// @Failure      409      {object}  pkg.HTTPError
// @Router       /payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var payload request.CreatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBindError(c, err)
		return
	}

	userID := middleware.UserID(c)
	h.logger.Info("[payment][handler] create start", zap.String("service_id", payload.ServiceID), zap.String("user_id", userID))
	created, err := h.usecase.Create(c.Request.Context(), payload.ToInput(userID))
	if err != nil {
		h.logger.Warn("[payment][handler] create failed", zap.String("service_id", payload.ServiceID), zap.Error(err))
		writeError(c, mapError(err))
		return
	}

	c.JSON(http.StatusCreated, response.FromPayment(created))
}

// GetPayment godoc
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.PaymentResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	p, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(p))
}

// ListByService godoc
// @Summary      List the payments of a service
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Param        serviceId  path      string  true  "Service ID"
// @Success      200        {object}  response.PaymentListResponse
// @Router       /payments/service/{serviceId} [get]
func (h *PaymentHandler) ListByService(c *gin.Context) {
	payments, err := h.usecase.ListByServiceID(c.Request.Context(), c.Param("serviceId"))
	if err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.PaymentListResponse{Payments: response.FromPayments(payments)})
}

// ListByClient godoc
// @Summary      List the caller's payments as client
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Param        limit   query     int     false  "Page size (default 50)"
// @Param        skip    query     int     false  "Offset"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.ClientPaymentsResponse
// @Router       /payments/client [get]
func (h *PaymentHandler) ListByClient(c *gin.Context) {
	var q request.ListPaymentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.usecase.ListByClient(c.Request.Context(), middleware.UserID(c), q.ToFilter())
	if err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromClientPayments(res))
}

// ListByProfessional godoc
// @Summary      List the caller's payments as professional
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Param        limit   query     int     false  "Page size (default 50)"
// @Param        skip    query     int     false  "Offset"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.ProfessionalPaymentsResponse
// @Router       /payments/professional [get]
func (h *PaymentHandler) ListByProfessional(c *gin.Context) {
	var q request.ListPaymentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.usecase.ListByProfessional(c.Request.Context(), middleware.UserID(c), q.ToFilter())
	if err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromProfessionalPayments(res))
}

// UpdateStatus godoc
// @Summary      Move a pending payment to a new status
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id       path      string                              true  "Payment ID"
// @Param        payload  body      request.UpdatePaymentStatusRequest  true  "Status"
// @Success      200      {object}  response.PaymentResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      404      {object}  pkg.HTTPError
// @Failure      409      {object}  pkg.HTTPError
// @Router       /payments/{id}/status [put]
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	var payload request.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBindError(c, err)
		return
	}

	id := c.Param("id")
	p, err := h.usecase.UpdateStatus(c.Request.Context(), id, entities.PaymentStatus(payload.Status), payload.TransactionID)
	if err != nil {
		h.logger.Warn("[payment][handler] update status failed", zap.String("payment_id", id), zap.String("status", payload.Status), zap.Error(err))
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(p))
}

// CheckStatus godoc
// @Summary      Reconcile a payment with the processor
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.PaymentStatusResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /payments/{id}/status [get]
func (h *PaymentHandler) CheckStatus(c *gin.Context) {
	p, err := h.usecase.Reconcile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentStatus(p))
}

// CreateCardToken godoc
// @Summary      Tokenize a card with the processor
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        payload  body      request.CardTokenRequest  true  "Card"
// @Success      200      {object}  response.CardTokenResponse
// @Failure      400      {object}  pkg.HTTPError
// @Router       /payments/card-token [post]
func (h *PaymentHandler) CreateCardToken(c *gin.Context) {
	var payload request.CardTokenRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBindError(c, err)
		return
	}

	token, err := h.usecase.CreateCardToken(c.Request.Context(), payload.ToInput())
	if err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.CardTokenResponse{Token: token})
}

// Webhook godoc
// @Summary      Receive processor notifications
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        x-signature  header    string  false  "sha256=<hex hmac of the body>"
// @Success      200          {object}  response.WebhookAckResponse
// @Failure      401          {object}  pkg.HTTPError
// @Failure      500          {object}  pkg.HTTPError
// @Router       /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("[payment][webhook] failed reading body", zap.Error(err))
		writeError(c, mapError(err))
		return
	}

	signature := c.GetHeader(headerSignature)
	if signature == "" {
		signature = c.GetHeader(headerSignatureID)
	}

	if err := h.usecase.HandleWebhook(c.Request.Context(), raw, signature); err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.WebhookAckResponse{Received: true})
}
