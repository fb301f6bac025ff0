package testinfra

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var Pool *pgxpool.Pool

func init() {
	Pool = SetupDB()
}

func SetupDB() *pgxpool.Pool {

	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:17.2-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections"),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	if err != nil {
		log.Panicf("start postgres: %v", err)
	}

	pgHostPort, err := pgC.Endpoint(ctx, "")
	if err != nil {
		log.Panicf("postgres endpoint: %v", err)
	}
	pgDSN := fmt.Sprintf("postgres://postgres:password@%s/testdb?sslmode=disable", pgHostPort)

	pool, err := pgxpool.New(ctx, pgDSN)
	if err != nil {
		log.Panicf("pgxpool connect: %v", err)
	}

	ok := false
	for i := 0; i < 20; i++ {
		slog.Info("ping db", "try", i)
		ctxPing, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		err = pool.Ping(ctxPing)
		cancel()
		if err == nil {
			ok = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !ok {
		log.Panic("db did not respond after 20 attempts")
	}

	_, err = pool.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS agency;
		CREATE TABLE IF NOT EXISTS agency.users (
		  id UUID PRIMARY KEY,
		  first_name TEXT NOT NULL DEFAULT '',
		  second_name TEXT NOT NULL DEFAULT '',
		  email TEXT UNIQUE NOT NULL,
		  role VARCHAR(20) NOT NULL DEFAULT 'user',
		  status VARCHAR(20) NOT NULL DEFAULT 'active',
		  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS agency.sessions (
		  id UUID PRIMARY KEY,
		  user_id UUID NOT NULL REFERENCES agency.users(id),
		  refresh_token TEXT,
		  expires_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS agency.drafts (
		  session_id UUID PRIMARY KEY,
		  payload JSONB NOT NULL,
		  updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS agency.plans (
		  id BIGSERIAL PRIMARY KEY,
		  name VARCHAR(80) NOT NULL,
		  description TEXT NOT NULL DEFAULT '',
		  monthly_price NUMERIC(10,2) NOT NULL,
		  setup_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
		  edit_limit INT NOT NULL DEFAULT -1,
		  is_custom BOOLEAN NOT NULL DEFAULT FALSE,
		  status VARCHAR(20) NOT NULL DEFAULT 'active',
		  features TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS agency.website_requests (
		  id BIGSERIAL PRIMARY KEY,
		  user_id UUID NOT NULL REFERENCES agency.users(id),
		  plan_id BIGINT NOT NULL REFERENCES agency.plans(id),
		  title TEXT NOT NULL,
		  description TEXT NOT NULL DEFAULT '',
		  business_type TEXT NOT NULL DEFAULT '',
		  target_audience TEXT NOT NULL DEFAULT '',
		  primary_goal TEXT NOT NULL DEFAULT '',
		  color_scheme TEXT NOT NULL DEFAULT '',
		  website_style TEXT NOT NULL DEFAULT '',
		  layout_preference TEXT NOT NULL DEFAULT '',
		  required_pages TEXT NOT NULL DEFAULT '',
		  features TEXT NOT NULL DEFAULT '',
		  integrations TEXT NOT NULL DEFAULT '',
		  content_ready TEXT NOT NULL DEFAULT '',
		  timeline TEXT NOT NULL DEFAULT '',
		  budget TEXT NOT NULL DEFAULT '',
		  additional_requirements TEXT NOT NULL DEFAULT '',
		  preview_image_url TEXT NOT NULL DEFAULT '',
		  status VARCHAR(20) NOT NULL DEFAULT 'pending',
		  created_at TIMESTAMPTZ NOT NULL,
		  updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS agency.pending_orders (
		  order_id VARCHAR(60) PRIMARY KEY,
		  user_id UUID NOT NULL REFERENCES agency.users(id),
		  plan_id BIGINT NOT NULL REFERENCES agency.plans(id),
		  amount NUMERIC(10,2) NOT NULL,
		  currency VARCHAR(3) NOT NULL,
		  custom_id VARCHAR(120) NOT NULL,
		  status VARCHAR(20) NOT NULL,
		  created_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS agency.transactions (
		  id BIGSERIAL PRIMARY KEY,
		  user_id UUID NOT NULL REFERENCES agency.users(id),
		  website_request_id BIGINT REFERENCES agency.website_requests(id),
		  plan_id BIGINT NOT NULL REFERENCES agency.plans(id),
		  amount NUMERIC(10,2) NOT NULL,
		  description TEXT NOT NULL DEFAULT '',
		  status VARCHAR(20) NOT NULL,
		  capture_id VARCHAR(60) UNIQUE NOT NULL,
		  receipt_url TEXT NOT NULL DEFAULT '',
		  created_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS agency.webhook_events (
		  id BIGSERIAL PRIMARY KEY,
		  event_id VARCHAR(60) NOT NULL DEFAULT '',
		  event_type VARCHAR(60) NOT NULL DEFAULT '',
		  resource_type VARCHAR(40) NOT NULL DEFAULT '',
		  payload JSONB NOT NULL,
		  signature_valid BOOLEAN NOT NULL,
		  processed_at TIMESTAMPTZ,
		  processing_error TEXT NOT NULL DEFAULT '',
		  created_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS agency.support_tickets (
		  id BIGSERIAL PRIMARY KEY,
		  user_id UUID NOT NULL REFERENCES agency.users(id),
		  subject TEXT NOT NULL,
		  message TEXT NOT NULL,
		  status VARCHAR(20) NOT NULL,
		  admin_reply TEXT NOT NULL DEFAULT '',
		  created_at TIMESTAMPTZ NOT NULL,
		  updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS agency.outbox (
		  id BIGSERIAL PRIMARY KEY,
		  event VARCHAR(60) NOT NULL,
		  status INT NOT NULL DEFAULT 0,
		  payload JSONB NOT NULL,
		  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS agency.mails (
		  id BIGSERIAL PRIMARY KEY,
		  type VARCHAR(40) NOT NULL,
		  recipients TEXT NOT NULL,
		  subject TEXT NOT NULL,
		  content TEXT NOT NULL,
		  sent_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS agency.mail_templates (
		  type VARCHAR(40) PRIMARY KEY,
		  content TEXT NOT NULL
		);
	`)
	if err != nil {
		log.Panicf("create tables: %v", err)
	}

	return pool
}
