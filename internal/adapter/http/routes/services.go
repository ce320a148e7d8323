package routes

import (
	"marketplace_api/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const PathServices = "/services"

func addServiceRoutes(rg *gin.RouterGroup, h *handlers.ServiceHandler, auth gin.HandlerFunc) {
	services := rg.Group(PathServices, auth)
	{
		services.POST("", h.CreateService)
		services.GET("/:id", h.GetService)
		services.PATCH("/:id/status", h.UpdateStatus)
	}
}
