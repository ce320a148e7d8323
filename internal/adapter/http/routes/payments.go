package routes

import (
	"marketplace_api/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const PathPayments = "/payments"

func addPaymentRoutes(rg *gin.RouterGroup, h *handlers.PaymentHandler, auth gin.HandlerFunc) {
	payments := rg.Group(PathPayments)
	{
		// Authenticated only by the shared-secret signature.
		payments.POST("/webhook", h.Webhook)

		payments.POST("", auth, h.CreatePayment)
		payments.POST("/card-token", auth, h.CreateCardToken)
		payments.GET("/service/:serviceId", auth, h.ListByService)
		payments.GET("/client", auth, h.ListByClient)
		payments.GET("/professional", auth, h.ListByProfessional)
		payments.GET("/:id", auth, h.GetPayment)
		payments.GET("/:id/status", auth, h.CheckStatus)
		payments.PUT("/:id/status", auth, h.UpdateStatus)
	}
}
