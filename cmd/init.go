package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/webcraft-studio/webcraft-backend/internal/application"
	"github.com/webcraft-studio/webcraft-backend/internal/application/commands"
	"github.com/webcraft-studio/webcraft-backend/internal/application/query"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/auth"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/client/paypal"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/draft"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/mail"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/storage"
	"github.com/webcraft-studio/webcraft-backend/internal/presentation/rest"
	"github.com/webcraft-studio/webcraft-backend/internal/presentation/scheduler"
	"github.com/webcraft-studio/webcraft-backend/pkg/db"
	"github.com/webcraft-studio/webcraft-backend/pkg/env"
)

func Init() {
	// DB
	dbConfig := db.NewConfig()
	pool, err := pgxpool.New(context.Background(), dbConfig.GetDSN())
	if err != nil {
		log.Panicf("failed to create pool: %v", err)
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Panicf("failed to connect to db: %v", err)
	}
	uowFactory := db.NewUoWFactory(pool)
	drafts := draft.NewPgStore(pool)

	// Configs
	mailConfig := mail.NewMailConfig()
	oidcConfig := auth.NewOIDCConfig()
	paypalConfig := paypal.NewConfig()
	outboxConfig := scheduler.NewOutboxConfig()
	mailServer := mail.NewMailServer(mailConfig)
	gateway := paypal.NewClient(paypalConfig)

	// AWS
	cfg, err := awsConfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Panic("can't load aws config", err)
	}
	s3 := storage.NewStorage(cfg)

	handlers := &application.Collection{
		Auth:                commands.NewAuth(uowFactory, oidcConfig),
		SaveStep:            commands.NewSaveStep(drafts),
		ClearDraft:          commands.NewClearDraft(drafts),
		SubmitRequest:       commands.NewSubmitRequest(uowFactory, drafts, s3),
		CreateOrder:         commands.NewCreateOrder(uowFactory, gateway, paypalConfig.Currency),
		CaptureOrder:        commands.NewCaptureOrder(uowFactory, gateway),
		Webhook:             commands.NewWebhook(uowFactory, gateway),
		CreateTicket:        commands.NewCreateTicket(uowFactory),
		ReplyTicket:         commands.NewReplyTicket(uowFactory),
		UpdateRequestStatus: commands.NewUpdateRequestStatus(uowFactory),
		SendMail:            commands.NewSendMail(mailServer, uowFactory),
		GetPlans:            query.NewGetPlans(uowFactory),
		GetDraft:            query.NewGetDraft(drafts),
		ListRequests:        query.NewListRequests(uowFactory),
		ListTransactions:    query.NewListTransactions(uowFactory),
		ListUsers:           query.NewListUsers(uowFactory),
		ListTickets:         query.NewListTickets(uowFactory),
	}
	handler := rest.NewServer(handlers)
	app := fiber.New(fiber.Config{
		IdleTimeout: 5 * time.Second,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     env.GetEnv("CORS_ORIGIN", "http://localhost:3000"),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Session-Id",
		AllowCredentials: true,
	}))
	app.Use(rest.NewPolicyMiddleware(handlers.Auth))
	rest.RegisterHandlers(app, handler)

	outboxPoller := scheduler.NewOutboxPoller(handlers, uowFactory, outboxConfig)
	go outboxPoller.Start()

	go func() {
		if err := app.Listen(":" + env.GetEnv("PORT", "8080")); err != nil {
			log.Panic(err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	fmt.Println("Gracefully shutting down...")
	_ = app.Shutdown()
	outboxPoller.Stop()

	fmt.Println("Running cleanup tasks...")

	pool.Close()
	fmt.Println("Fiber was successfully shutdown.")
}
