package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
	"github.com/webcraft-studio/webcraft-backend/internal/application/interfaces"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/client/paypal"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/db"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/db/repo"
	dbs "github.com/webcraft-studio/webcraft-backend/pkg/db"
)

// Webhook reconciles provider-pushed payment lifecycle events. Every
// delivery is persisted verbatim before any side effect; unverified or
// malformed payloads stop after that audit write and are still acknowledged,
// since the provider retries on non-2xx. Only a failure to durably log the
// event surfaces as an error.
type Webhook struct {
	uowFactory *dbs.UOWFactory
	gateway    interfaces.PaymentGateway
}

func NewWebhook(uowFactory *dbs.UOWFactory, gateway interfaces.PaymentGateway) *Webhook {
	return &Webhook{uowFactory: uowFactory, gateway: gateway}
}

func (c *Webhook) Execute(ctx context.Context, headers map[string]string, body []byte) error {
	verified, err := c.gateway.VerifyWebhookSignature(ctx, headers, body)
	if err != nil {
		slog.Error("err verifying webhook signature", "err", err)
		verified = false
	}

	event, parseErr := paypal.ParseWebhookEvent(body)
	if parseErr != nil {
		slog.Error("err parsing webhook payload", "err", parseErr)
		event = &paypal.WebhookEvent{}
	}

	auditID, err := c.auditEvent(ctx, event, body, verified)
	if err != nil {
		return err
	}

	if !verified || parseErr != nil {
		slog.Warn("webhook ignored", "event", event.EventType, "verified", verified)
		return nil
	}

	var processingError string
	switch event.EventType {
	case consts.EventCaptureCompleted:
		if err := c.handleCaptureCompleted(ctx, event); err != nil {
			slog.Error("err handling capture completed", "event", event.ID, "err", err)
			processingError = err.Error()
		}
	case consts.EventOrderApproved, consts.EventSubscriptionCreated, consts.EventSubscriptionCanceled:
		// audited only, no persisted side effect
		slog.Info("webhook event logged", "type", event.EventType, "event", event.ID)
	default:
		slog.Info("unhandled webhook event type", "type", event.EventType, "event", event.ID)
	}

	c.markProcessed(ctx, auditID, processingError)
	return nil
}

// auditEvent returns with named values so the deferred Finalize can surface
// a commit failure; an unacknowledged delivery is retried by the provider,
// a lost audit row is not.
func (c *Webhook) auditEvent(ctx context.Context, event *paypal.WebhookEvent, body []byte, verified bool) (id uint64, err error) {
	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return 0, err
	}
	defer uow.Finalize(&err)

	webhookEvents := repo.NewWebhookEventRepo(tx)
	id, err = webhookEvents.InsertEvent(ctx, db.WebhookEvent{
		EventID:        event.ID,
		EventType:      event.EventType,
		ResourceType:   event.ResourceType,
		Payload:        body,
		SignatureValid: verified,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		return 0, fmt.Errorf("err persisting webhook event, %v", err)
	}
	return id, nil
}

// handleCaptureCompleted converges with the synchronous capture path on the
// same transaction row. The field-scoped update by capture id runs first;
// when the webhook arrives before the capture call has inserted anything,
// the pending order resolves the purchase and the row is inserted here.
func (c *Webhook) handleCaptureCompleted(ctx context.Context, event *paypal.WebhookEvent) error {
	captureID := event.Resource.ID
	if captureID == "" {
		return fmt.Errorf("capture id missing in webhook resource")
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return err
	}
	defer uow.Finalize(&err)

	pendingOrders := repo.NewPendingOrderRepo(tx)
	transactions := repo.NewTransactionRepo(tx)

	rows, err := transactions.MarkPaidByCaptureID(ctx, captureID, event.ReceiptURL())
	if err != nil {
		return err
	}

	orderID := event.Resource.SupplementaryData.RelatedIDs.OrderID
	var order *db.PendingOrder
	if orderID != "" {
		order, err = pendingOrders.GetByOrderID(ctx, orderID)
		if err != nil {
			// an order this server never created cannot be cross-checked
			slog.Warn("webhook for unknown order", "order", orderID, "capture", captureID)
			err = nil
			order = nil
		}
	}

	if rows == 0 {
		if order == nil {
			return fmt.Errorf("no transaction for capture %s and no resolvable order", captureID)
		}
		amount := order.Amount
		if event.Resource.Amount.Value != "" {
			if captured, parseErr := decimal.NewFromString(event.Resource.Amount.Value); parseErr == nil {
				amount = captured
			}
		}
		if _, err = transactions.UpsertPaid(ctx, db.Transaction{
			UserID:           order.UserID,
			WebsiteRequestID: sql.NullInt64{},
			PlanID:           order.PlanID,
			Amount:           amount,
			Description:      fmt.Sprintf("Plan purchase (order %s)", order.OrderID),
			Status:           string(consts.TransactionStatusPaid),
			CaptureID:        captureID,
			ReceiptURL:       event.ReceiptURL(),
			CreatedAt:        time.Now(),
		}); err != nil {
			return err
		}
	}

	if order != nil {
		if err = pendingOrders.MarkCompleted(ctx, order.OrderID); err != nil {
			return err
		}
		// paid plan moves the matching submitted request out of the queue
		_, err = tx.Exec(ctx,
			"UPDATE agency.website_requests SET status = $1, updated_at = $2 WHERE user_id = $3 AND plan_id = $4 AND status = $5",
			consts.RequestStatusLive, time.Now(), order.UserID, order.PlanID, consts.RequestStatusPending)
		if err != nil {
			return fmt.Errorf("err updating website request status, %v", err)
		}
	}

	return nil
}

func (c *Webhook) markProcessed(ctx context.Context, auditID uint64, processingError string) {
	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		slog.Error("err starting tx to mark webhook processed", "err", err)
		return
	}
	webhookEvents := repo.NewWebhookEventRepo(tx)
	if err := webhookEvents.MarkProcessed(ctx, auditID, processingError); err != nil {
		_ = uow.Rollback()
		slog.Error("err marking webhook processed", "id", auditID, "err", err)
		return
	}
	if err := uow.Commit(); err != nil {
		slog.Error("err committing webhook processed mark", "id", auditID, "err", err)
	}
}
