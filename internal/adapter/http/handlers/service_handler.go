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

// ServiceHandler handles HTTP requests for service engagements.
type ServiceHandler struct {
	usecase usecase.IServiceUseCase
	logger  *zap.Logger
}

func NewServiceHandler(uc usecase.IServiceUseCase, logger *zap.Logger) *ServiceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceHandler{usecase: uc, logger: logger.With(zap.String("component", "service.handler"))}
}

// CreateService godoc
// @Summary      Open a service engagement
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        payload  body      request.CreateServiceRequest  true  "Service"
// @Success      201      {object}  response.ServiceResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      403      {object}  pkg.HTTPError
// @Router       /services [post]
func (h *ServiceHandler) CreateService(c *gin.Context) {
	var payload request.CreateServiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBindError(c, err)
		return
	}

	userID := middleware.UserID(c)
	in := payload.ToInput(userID)
	if in.ClientID != userID && in.ProfessionalID != userID {
		writeError(c, mapError(usecase.ErrServiceForbidden))
		return
	}

	created, err := h.usecase.Create(c.Request.Context(), in)
	if err != nil {
		h.logger.Warn("[service][handler] create failed", zap.String("user_id", userID), zap.Error(err))
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromService(created))
}

// GetService godoc
// @Summary      Get a service engagement
// @Tags         services
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  response.ServiceResponse
// @Failure      403  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Router       /services/{id} [get]
func (h *ServiceHandler) GetService(c *gin.Context) {
	s, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromService(s))
}

// UpdateStatus godoc
// @Summary      Change the status of a service engagement
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id       path      string                              true  "Service ID"
// @Param        payload  body      request.UpdateServiceStatusRequest  true  "Status"
// @Success      200      {object}  response.ServiceResponse
// @Router       /services/{id}/status [patch]
func (h *ServiceHandler) UpdateStatus(c *gin.Context) {
	var payload request.UpdateServiceStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBindError(c, err)
		return
	}

	s, err := h.usecase.UpdateStatus(c.Request.Context(), c.Param("id"), middleware.UserID(c), entities.ServiceStatus(payload.Status))
	if err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromService(s))
}
