package mail

import (
	"github.com/webcraft-studio/webcraft-backend/pkg/env"
)

type MailConfig struct {
	SMTPHost string
	SMTPPort string
	Username string
	Password string
	From     string
}

func NewMailConfig() *MailConfig {
	username := env.GetEnv("SMTP_USERNAME", "")
	return &MailConfig{
		SMTPHost: env.GetEnv("SMTP_HOST", "localhost"),
		SMTPPort: env.GetEnv("SMTP_PORT", "587"),
		Username: username,
		Password: env.GetEnv("SMTP_PASSWORD", ""),
		// transactional mail usually goes out under a noreply alias
		From: env.GetEnv("SMTP_FROM", username),
	}
}
