package routes

import (
	"marketplace_api/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const PathNotifications = "/notifications"

func addNotificationRoutes(rg *gin.RouterGroup, h *handlers.NotificationHandler, auth gin.HandlerFunc) {
	notifications := rg.Group(PathNotifications, auth)
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.PUT("/read-all", h.MarkAllAsRead)
		notifications.PUT("/:id/read", h.MarkAsRead)
	}
}
