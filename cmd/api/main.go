package main

import (
	"context"
	"log"

	_ "marketplace_api/docs"
	"marketplace_api/internal/adapter/http/routes"
	"marketplace_api/internal/infrastructure/config"
	"marketplace_api/internal/infrastructure/logger"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

// @title           Marketplace Payments API
// @version         1.0
// @description     Payments, service engagements and notifications for the services marketplace, backed by DynamoDB and Mercado Pago.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	zl, err := logger.New()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		zl.Fatal("JWT_SECRET is required")
	}

	if err := routes.Run(context.Background(), cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
