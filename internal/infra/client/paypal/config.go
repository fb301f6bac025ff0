package paypal

import (
	"os"

	"github.com/webcraft-studio/webcraft-backend/pkg/env"
)

type Config struct {
	BaseAPIURL   string
	ClientID     string
	ClientSecret string
	WebhookID    string
	Currency     string
}

func NewConfig() *Config {
	return &Config{
		BaseAPIURL:   env.GetEnv("PAYPAL_BASE_API_URL", "https://api-m.sandbox.paypal.com"),
		ClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		ClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		WebhookID:    os.Getenv("PAYPAL_WEBHOOK_ID"),
		Currency:     env.GetEnv("PAYPAL_CURRENCY", "USD"),
	}
}
