package auth

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/webcraft-studio/webcraft-backend/pkg/env"
)

type OIDCConfig struct {
	IssuerURL            string
	SessionLifetimeHours int
	Mode                 string
	TestUser             uuid.UUID
}

func NewOIDCConfig() OIDCConfig {
	lifetime, err := strconv.Atoi(env.GetEnv("SESSION_LIFETIME_HOURS", "72"))
	if err != nil {
		lifetime = 72
	}
	cfg := OIDCConfig{
		IssuerURL:            env.GetEnv("OIDC_ISSUER_URL", ""),
		SessionLifetimeHours: lifetime,
		Mode:                 env.GetEnv("AUTH_MODE", ""),
	}
	if testUser := env.GetEnv("AUTH_TEST_USER", ""); testUser != "" {
		cfg.TestUser = uuid.MustParse(testUser)
	}
	return cfg
}
