package routes

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	_ "marketplace_api/docs"
	"marketplace_api/internal/adapter/http/handlers"
	"marketplace_api/internal/adapter/http/middleware"
	"marketplace_api/internal/adapter/http/validation"
	"marketplace_api/internal/adapter/persistence/repository"
	appconfig "marketplace_api/internal/infrastructure/config"
	"marketplace_api/internal/infrastructure/database"
	"marketplace_api/internal/infrastructure/payments"
	"marketplace_api/internal/infrastructure/pix"
	"marketplace_api/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted under /v1.
type Handlers struct {
	Payments      *handlers.PaymentHandler
	Services      *handlers.ServiceHandler
	Notifications *handlers.NotificationHandler
}

// Run wires the application from cfg and serves it until the listener fails.
func Run(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) error {
	h, err := buildHandlers(ctx, cfg, logger)
	if err != nil {
		return err
	}

	router, err := NewRouter(cfg, h, logger)
	if err != nil {
		return err
	}

	logger.Info("[http] listening", zap.Int("port", cfg.Port))
	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		return fmt.Errorf("failed to startup the application: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with middlewares, docs and the /v1 routes.
func NewRouter(cfg *appconfig.Config, h Handlers, logger *zap.Logger) (*gin.Engine, error) {
	if err := validation.Register(); err != nil {
		return nil, err
	}

	router := gin.New()
	setMiddlewares(router, logger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.Auth(cfg.JWTSecret, logger)
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPaymentRoutes(v1, h.Payments, auth)
	addServiceRoutes(v1, h.Services, auth)
	addNotificationRoutes(v1, h.Notifications, auth)
	return router, nil
}

func buildHandlers(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (Handlers, error) {
	ddb, err := database.ConnectDynamoDB(ctx, cfg)
	if err != nil {
		return Handlers{}, err
	}

	paymentRepo := repository.NewPaymentDynamoRepository(ddb, cfg.Tables.Payments)
	serviceRepo := repository.NewServiceDynamoRepository(ddb, cfg.Tables.Services)
	notificationRepo := repository.NewNotificationDynamoRepository(ddb, cfg.Tables.Notifications)

	gateway, err := payments.NewMercadoPagoGateway(cfg, logger)
	if err != nil {
		return Handlers{}, err
	}
	pixGenerator := pix.NewGenerator(cfg.Pix.Key, cfg.Pix.MerchantName, cfg.Pix.MerchantCity)

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, logger)
	serviceUseCase := usecase.NewServiceUseCase(serviceRepo, notificationUseCase, logger)
	paymentUseCase := usecase.NewPaymentUseCase(
		paymentRepo,
		serviceRepo,
		gateway,
		pixGenerator,
		notificationUseCase,
		usecase.PaymentOptions{
			WebhookSecret: cfg.MercadoPago.WebhookSecret,
			PixViaGateway: cfg.Pix.Provider == appconfig.PixProviderGateway,
		},
		logger,
	)

	return Handlers{
		Payments:      handlers.NewPaymentHandler(paymentUseCase, logger),
		Services:      handlers.NewServiceHandler(serviceUseCase, logger),
		Notifications: handlers.NewNotificationHandler(notificationUseCase),
	}, nil
}

func setMiddlewares(router *gin.Engine, logger *zap.Logger) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("[http] recovered from panic", zap.Any("panic", recovered), zap.String("path", c.FullPath()))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
