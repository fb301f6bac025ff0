package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
	"github.com/webcraft-studio/webcraft-backend/internal/application/dto"
	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	"github.com/webcraft-studio/webcraft-backend/internal/application/events"
	"github.com/webcraft-studio/webcraft-backend/internal/application/interfaces"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/auth"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/db"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/db/repo"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/mail"
	dbs "github.com/webcraft-studio/webcraft-backend/pkg/db"
)

// CaptureOrder finalizes an approved provider order. On a COMPLETED capture
// it resolves the pending order, records the paid transaction keyed by the
// capture id and queues the confirmation mail. A webhook racing this path
// converges on the same transaction row through the capture-id upsert.
type CaptureOrder struct {
	uowFactory *dbs.UOWFactory
	gateway    interfaces.PaymentGateway
}

func NewCaptureOrder(uowFactory *dbs.UOWFactory, gateway interfaces.PaymentGateway) *CaptureOrder {
	return &CaptureOrder{uowFactory: uowFactory, gateway: gateway}
}

func (c *CaptureOrder) Execute(ctx context.Context, identity *auth.Identity, orderID string) (*dto.CaptureOrderResponse, error) {
	if identity == nil {
		return nil, errs.PermissionsError{Err: fmt.Errorf("capture requires an authenticated user")}
	}

	result, err := c.gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("error capturing provider order, %v", err)
	}
	if result.Status != "COMPLETED" {
		slog.Warn("capture not completed", "order", orderID, "status", result.Status)
		return &dto.CaptureOrderResponse{Status: result.Status}, nil
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(&err)

	pendingOrders := repo.NewPendingOrderRepo(tx)
	order, err := pendingOrders.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("error resolving pending order %s, %v", orderID, err)
	}
	if err = pendingOrders.MarkCompleted(ctx, orderID); err != nil {
		return nil, err
	}

	var planName string
	err = tx.QueryRow(ctx, "SELECT name FROM agency.plans WHERE id = $1", order.PlanID).Scan(&planName)
	if err != nil {
		return nil, fmt.Errorf("error retrieving plan, %v", err)
	}

	amount := order.Amount
	if result.Amount != "" {
		if captured, parseErr := decimal.NewFromString(result.Amount); parseErr == nil {
			amount = captured
		}
	}

	transactions := repo.NewTransactionRepo(tx)
	txnID, err := transactions.UpsertPaid(ctx, db.Transaction{
		UserID:           order.UserID,
		WebsiteRequestID: sql.NullInt64{},
		PlanID:           order.PlanID,
		Amount:           amount,
		Description:      fmt.Sprintf("Purchase of plan %s", planName),
		Status:           string(consts.TransactionStatusPaid),
		CaptureID:        result.CaptureID,
		ReceiptURL:       result.ReceiptURL,
		CreatedAt:        time.Now(),
	})
	if err != nil {
		return nil, err
	}

	mailData := mail.PaymentConfirmedData{
		PlanName:   planName,
		Amount:     amount.StringFixed(2),
		ReceiptURL: result.ReceiptURL,
		Year:       strconv.Itoa(time.Now().Year()),
	}
	eventRepo := repo.NewEventRepo(tx)
	if mailErr := eventRepo.InsertEvent(ctx, events.SendMail{
		UserID:  order.UserID.String(),
		Subject: mailData.GetSubject(),
		Data:    mailData,
	}); mailErr != nil {
		// mail must never fail the capture
		slog.Error("err enqueueing payment confirmation mail", "order", orderID, "err", mailErr)
	}

	slog.Info("captured order", "order", orderID, "capture", result.CaptureID, "transaction", txnID)
	return &dto.CaptureOrderResponse{Status: result.Status, TransactionID: txnID}, nil
}
