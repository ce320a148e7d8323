package handlers

import (
	"net/http"

	request "marketplace_api/internal/adapter/http/dto/request"
	response "marketplace_api/internal/adapter/http/dto/response"
	"marketplace_api/internal/adapter/http/middleware"
	"marketplace_api/internal/usecase"

	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the caller's inbox.
type NotificationHandler struct {
	usecase usecase.INotificationUseCase
}

func NewNotificationHandler(uc usecase.INotificationUseCase) *NotificationHandler {
	return &NotificationHandler{usecase: uc}
}

// List godoc
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Security     Bearer
// @Param        limit   query     int   false  "Page size (default 50)"
// @Param        skip    query     int   false  "Offset"
// @Param        unread  query     bool  false  "Only unread"
// @Success      200     {object}  response.NotificationListResponse
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var q request.ListNotificationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	ns, err := h.usecase.List(c.Request.Context(), middleware.UserID(c), q.ToFilter())
	if err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromNotifications(ns))
}

// UnreadCount godoc
// @Summary      Count the caller's unread notifications
// @Tags         notifications
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  response.UnreadCountResponse
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.usecase.CountUnread(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.UnreadCountResponse{Count: count})
}

// MarkAsRead godoc
// @Summary      Mark one notification as read
// @Tags         notifications
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.NotificationResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	n, err := h.usecase.MarkAsRead(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromNotification(n))
}

// MarkAllAsRead godoc
// @Summary      Mark every notification of the caller as read
// @Tags         notifications
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  response.MarkAllReadResponse
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	updated, err := h.usecase.MarkAllAsRead(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, mapError(err))
		return
	}
	c.JSON(http.StatusOK, response.MarkAllReadResponse{Updated: updated})
}
