package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
	"github.com/webcraft-studio/webcraft-backend/internal/application/interfaces"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/db"
	shared "github.com/webcraft-studio/webcraft-backend/pkg/interfaces"
)

type EventRepo struct {
	tx pgx.Tx
}

var _ interfaces.EventRepo = (*EventRepo)(nil)

func NewEventRepo(tx pgx.Tx) *EventRepo {
	return &EventRepo{tx: tx}
}

func (e *EventRepo) InsertEvent(ctx context.Context, event shared.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("err marshalling event payload, %v", err)
	}
	outbox := db.Outbox{
		Event:     event.GetType(),
		Status:    int(consts.NotProcessed),
		Payload:   json.RawMessage(payload),
		CreatedAt: time.Now(),
	}
	_, err = e.tx.Exec(ctx, "INSERT INTO agency.outbox (event, status, payload, created_at) VALUES ($1,$2,$3,$4)",
		outbox.Event, outbox.Status, outbox.Payload, outbox.CreatedAt)
	if err != nil {
		return fmt.Errorf("err inserting a new event, %v", err)
	}

	return nil
}

type PendingOrderRepo struct {
	tx pgx.Tx
}

var _ interfaces.PendingOrderRepo = (*PendingOrderRepo)(nil)

func NewPendingOrderRepo(tx pgx.Tx) *PendingOrderRepo {
	return &PendingOrderRepo{tx: tx}
}

func (p *PendingOrderRepo) InsertOrder(ctx context.Context, order db.PendingOrder) error {
	_, err := p.tx.Exec(ctx,
		`INSERT INTO agency.pending_orders(order_id, user_id, plan_id, amount, currency, custom_id, status, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		order.OrderID, order.UserID, order.PlanID, order.Amount.StringFixed(2), order.Currency,
		order.CustomID, order.Status, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("err inserting pending order, %v", err)
	}
	return nil
}

func (p *PendingOrderRepo) GetByOrderID(ctx context.Context, orderID string) (*db.PendingOrder, error) {
	var order db.PendingOrder
	var amount string
	err := p.tx.QueryRow(ctx,
		`SELECT order_id, user_id, plan_id, amount::text, currency, custom_id, status, created_at
		 FROM agency.pending_orders WHERE order_id = $1`, orderID).
		Scan(&order.OrderID, &order.UserID, &order.PlanID, &amount, &order.Currency,
			&order.CustomID, &order.Status, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	order.Amount, err = parseAmount(amount)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (p *PendingOrderRepo) MarkCompleted(ctx context.Context, orderID string) error {
	_, err := p.tx.Exec(ctx, "UPDATE agency.pending_orders SET status = $1 WHERE order_id = $2",
		consts.OrderStatusCompleted, orderID)
	if err != nil {
		return fmt.Errorf("err completing pending order, %v", err)
	}
	return nil
}

type TransactionRepo struct {
	tx pgx.Tx
}

var _ interfaces.TransactionRepo = (*TransactionRepo)(nil)

func NewTransactionRepo(tx pgx.Tx) *TransactionRepo {
	return &TransactionRepo{tx: tx}
}

// UpsertPaid records a paid transaction keyed by the provider capture id.
// Capture call and webhook may both land here for the same capture; the
// conflict clause makes the second writer converge on the same row.
func (t *TransactionRepo) UpsertPaid(ctx context.Context, txn db.Transaction) (uint64, error) {
	var id uint64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO agency.transactions(user_id, website_request_id, plan_id, amount, description, status, capture_id, receipt_url, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (capture_id) DO UPDATE
		 SET status = EXCLUDED.status,
		     receipt_url = CASE WHEN EXCLUDED.receipt_url <> '' THEN EXCLUDED.receipt_url ELSE agency.transactions.receipt_url END
		 RETURNING id`,
		txn.UserID, txn.WebsiteRequestID, txn.PlanID, txn.Amount.StringFixed(2), txn.Description,
		txn.Status, txn.CaptureID, txn.ReceiptURL, txn.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("err upserting transaction, %v", err)
	}
	return id, nil
}

// MarkPaidByCaptureID is the webhook's field-scoped update. Returns the
// number of rows touched so the caller can fall back to an insert when the
// webhook outruns the capture call.
func (t *TransactionRepo) MarkPaidByCaptureID(ctx context.Context, captureID, receiptURL string) (int64, error) {
	tag, err := t.tx.Exec(ctx,
		"UPDATE agency.transactions SET status = $1, receipt_url = $2 WHERE capture_id = $3",
		consts.TransactionStatusPaid, receiptURL, captureID)
	if err != nil {
		return 0, fmt.Errorf("err updating transaction by capture id, %v", err)
	}
	return tag.RowsAffected(), nil
}

type WebhookEventRepo struct {
	tx pgx.Tx
}

var _ interfaces.WebhookEventRepo = (*WebhookEventRepo)(nil)

func NewWebhookEventRepo(tx pgx.Tx) *WebhookEventRepo {
	return &WebhookEventRepo{tx: tx}
}

// InsertEvent persists the verbatim provider payload for audit. Runs before
// any side effect, for verified and unverified deliveries alike.
func (w *WebhookEventRepo) InsertEvent(ctx context.Context, event db.WebhookEvent) (uint64, error) {
	var id uint64
	err := w.tx.QueryRow(ctx,
		`INSERT INTO agency.webhook_events(event_id, event_type, resource_type, payload, signature_valid, processing_error, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		event.EventID, event.EventType, event.ResourceType, event.Payload,
		event.SignatureValid, event.ProcessingError, event.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("err inserting webhook event, %v", err)
	}
	return id, nil
}

func (w *WebhookEventRepo) MarkProcessed(ctx context.Context, id uint64, processingError string) error {
	_, err := w.tx.Exec(ctx,
		"UPDATE agency.webhook_events SET processed_at = $1, processing_error = $2 WHERE id = $3",
		time.Now(), processingError, id)
	if err != nil {
		return fmt.Errorf("err marking webhook event processed, %v", err)
	}
	return nil
}
