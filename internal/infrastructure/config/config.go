package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	PixProviderLocal   = "local"
	PixProviderGateway = "gateway"
)

// Config holds every setting the API reads from the environment.
// A .env file is loaded by cmd/api through godotenv before Load runs.
type Config struct {
	Port      int
	JWTSecret string

	AWS struct {
		Region           string
		AccessKeyID      string
		SecretAccessKey  string
		DynamoDBEndpoint string
	}

	Tables struct {
		Payments      string
		Services      string
		Notifications string
	}

	MercadoPago struct {
		AccessToken    string
		WebhookSecret  string
		WebhookURL     string
		Mock           bool
		GatewayTimeout time.Duration
	}

	Pix struct {
		Provider     string
		Key          string
		MerchantName string
		MerchantCity string
	}
}

func Load() *Config {
	cfg := &Config{}

	cfg.Port = getenvInt("PORT", 8080)
	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	cfg.AWS.Region = getenvDefault("AWS_REGION", "us-east-1")
	cfg.AWS.AccessKeyID = getenvDefault("AWS_ACCESS_KEY_ID", "local")
	cfg.AWS.SecretAccessKey = getenvDefault("AWS_SECRET_ACCESS_KEY", "local")
	cfg.AWS.DynamoDBEndpoint = os.Getenv("DYNAMODB_ENDPOINT")

	cfg.Tables.Payments = getenvDefault("PAYMENTS_TABLE", "payments")
	cfg.Tables.Services = getenvDefault("SERVICES_TABLE", "services")
	cfg.Tables.Notifications = getenvDefault("NOTIFICATIONS_TABLE", "notifications")

	cfg.MercadoPago.AccessToken = strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"))
	cfg.MercadoPago.WebhookSecret = os.Getenv("MERCADOPAGO_WEBHOOK_SECRET")
	cfg.MercadoPago.WebhookURL = os.Getenv("MERCADOPAGO_WEBHOOK_URL")
	cfg.MercadoPago.Mock = getenvBool("PAYMENT_GATEWAY_MOCK") || getenvBool("MERCADOPAGO_MOCK")
	cfg.MercadoPago.GatewayTimeout = getenvDuration("PAYMENT_GATEWAY_TIMEOUT", 10*time.Second)

	cfg.Pix.Provider = strings.ToLower(getenvDefault("PIX_PROVIDER", PixProviderLocal))
	cfg.Pix.Key = getenvDefault("PIX_KEY", "pagamentos@marketplace.com.br")
	cfg.Pix.MerchantName = getenvDefault("PIX_MERCHANT_NAME", "MARKETPLACE SERVICOS")
	cfg.Pix.MerchantCity = getenvDefault("PIX_MERCHANT_CITY", "SAO PAULO")

	return cfg
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func getenvBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}
